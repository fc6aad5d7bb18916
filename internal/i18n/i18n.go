// Package i18n holds the user-facing messages of wy in English and Chinese.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys.
const (
	InvalidRomanizeMethod = "invalid-romanize-method"
	CompileError          = "compile-error"
	NoMacro               = "no-macro"
	InvalidMacroAction    = "invalid-macro-action"
	MinifyError           = "minify-error"
	ExpandError           = "expand-error"
	InstallStart          = "install-start"
	InstallNothing        = "install-nothing"
	InstallDone           = "install-done"
)

// Supported lists the available languages; the first is the fallback.
var Supported = []language.Tag{language.English, language.Chinese}

var messages = map[language.Tag]map[string]string{
	language.English: {
		InvalidRomanizeMethod: "Invalid romanize method. Use one of: none, pinyin, unicode, baxter.",
		CompileError:          "Compile error:\n%s",
		NoMacro:               "No macros found.",
		InvalidMacroAction:    "Invalid macro action. Use extract or expand.",
		MinifyError:           "Minify error:\n%s",
		ExpandError:           "Macro expansion failed: %s",
		InstallStart:          "Installing %d package(s): %s",
		InstallNothing:        "All packages are already installed.",
		InstallDone:           "Installed %s",
	},
	language.Chinese: {
		InvalidRomanizeMethod: "无效的罗马化方法。可选：none、pinyin、unicode、baxter。",
		CompileError:          "编译错误：\n%s",
		NoMacro:               "未找到宏。",
		InvalidMacroAction:    "无效的宏操作。可选：extract、expand。",
		MinifyError:           "压缩错误：\n%s",
		ExpandError:           "宏展开失败：%s",
		InstallStart:          "正在安装 %d 个包：%s",
		InstallNothing:        "所有包均已安装。",
		InstallDone:           "已安装 %s",
	},
}

var (
	cat     = newCatalog()
	matcher = language.NewMatcher(Supported)
)

func newCatalog() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(Supported[0]))
	for tag, msgs := range messages {
		for key, msg := range msgs {
			_ = b.SetString(tag, key, msg)
		}
	}
	return b
}

// Match picks the supported language closest to lang, which may be a BCP
// 47 tag ("zh-TW") or a POSIX locale ("zh_CN.UTF-8").
func Match(lang string) language.Tag {
	lang = strings.SplitN(lang, ".", 2)[0]
	lang = strings.ReplaceAll(lang, "_", "-")
	tag, err := language.Parse(lang)
	if err != nil {
		return Supported[0]
	}
	_, idx, _ := matcher.Match(tag)
	return Supported[idx]
}

// NewPrinter returns a printer for the language closest to lang.
func NewPrinter(lang string) *message.Printer {
	return message.NewPrinter(Match(lang), message.Catalog(cat))
}
