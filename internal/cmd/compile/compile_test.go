package compile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/wenyan-cli/internal/cmd/cmdutil"
	"github.com/open-cli-collective/wenyan-cli/internal/minify"
	"github.com/open-cli-collective/wenyan-cli/pkg/macro"
	"github.com/open-cli-collective/wenyan-cli/pkg/wenyan"
)

type fakeCompiler struct {
	js  string
	err error

	src  string
	opts wenyan.CompileOptions
}

func (f *fakeCompiler) Compile(_ context.Context, src string, opts wenyan.CompileOptions) (*wenyan.CompileResult, error) {
	f.src = src
	f.opts = opts
	if f.err != nil {
		return nil, f.err
	}
	macros, _ := wenyan.ParseMacros(src)
	return &wenyan.CompileResult{JS: f.js, Macros: macros}, nil
}

func newOptions(t *testing.T) *compileOptions {
	t.Helper()
	for _, v := range []string{"WY_ROMAN", "WY_STRICT", "WY_LIBRARY_DIR", "WY_COMPILER"} {
		t.Setenv(v, "")
	}
	return &compileOptions{Globals: cmdutil.Globals{
		ConfigPath: filepath.Join(t.TempDir(), "config.yml"),
		Lang:       "en",
		NoColor:    true,
	}}
}

const jsOutput = "var 甲 = 3;\n// 書之\nconsole.log(甲);\n"

func TestRunCompile_Success(t *testing.T) {
	opts := newOptions(t)
	compiler := &fakeCompiler{js: jsOutput}

	var buf bytes.Buffer
	require.NoError(t, runCompile(context.Background(), opts, "吾有一數。曰三。名之曰「甲」。", compiler, &buf))

	assert.Equal(t, jsOutput, buf.String())
	assert.Equal(t, "吾有一數。曰三。名之曰「甲」。", compiler.src)
	assert.Equal(t, wenyan.CompileOptions{Roman: wenyan.RomanNone, WorkDir: "."}, compiler.opts)
}

func TestRunCompile_Options(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		roman  string
		strict bool
		want   wenyan.CompileOptions
	}{
		{
			name:  "roman flag",
			roman: "pinyin",
			want:  wenyan.CompileOptions{Roman: wenyan.RomanPinyin, WorkDir: "."},
		},
		{
			name: "roman from config",
			env:  map[string]string{"WY_ROMAN": "baxter"},
			want: wenyan.CompileOptions{Roman: wenyan.RomanBaxter, WorkDir: "."},
		},
		{
			name:  "flag beats config",
			env:   map[string]string{"WY_ROMAN": "baxter"},
			roman: "unicode",
			want:  wenyan.CompileOptions{Roman: wenyan.RomanUnicode, WorkDir: "."},
		},
		{
			name:   "strict flag",
			strict: true,
			want:   wenyan.CompileOptions{Roman: wenyan.RomanNone, Strict: true, WorkDir: "."},
		},
		{
			name: "strict from config",
			env:  map[string]string{"WY_STRICT": "1"},
			want: wenyan.CompileOptions{Roman: wenyan.RomanNone, Strict: true, WorkDir: "."},
		},
		{
			name: "library dir sets the working directory",
			env:  map[string]string{"WY_LIBRARY_DIR": filepath.Join("srv", "wenyan", "藏書樓")},
			want: wenyan.CompileOptions{Roman: wenyan.RomanNone, WorkDir: filepath.Join("srv", "wenyan")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := newOptions(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			opts.roman = tt.roman
			opts.strict = tt.strict
			compiler := &fakeCompiler{js: jsOutput}

			require.NoError(t, runCompile(context.Background(), opts, "", compiler, &bytes.Buffer{}))
			assert.Equal(t, tt.want, compiler.opts)
		})
	}
}

func TestRunCompile_InvalidRoman(t *testing.T) {
	tests := []struct {
		lang string
		want string
	}{
		{"en", "Invalid romanize method. Use one of: none, pinyin, unicode, baxter."},
		{"zh", "无效的罗马化方法。可选：none、pinyin、unicode、baxter。"},
	}

	for _, tt := range tests {
		t.Run(tt.lang, func(t *testing.T) {
			opts := newOptions(t)
			opts.Lang = tt.lang
			opts.roman = "latin"
			compiler := &fakeCompiler{}

			err := runCompile(context.Background(), opts, "", compiler, &bytes.Buffer{})
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
			assert.Empty(t, compiler.src, "compiler must not run")
		})
	}
}

func TestRunCompile_CompileError(t *testing.T) {
	opts := newOptions(t)
	compiler := &fakeCompiler{err: &wenyan.CompileError{Stderr: "SyntaxError: 曰 expected", Err: errors.New("exit status 1")}}

	err := runCompile(context.Background(), opts, "吾有", compiler, &bytes.Buffer{})
	require.Error(t, err)
	assert.Equal(t, "Compile error:\nSyntaxError: 曰 expected", err.Error())

	var compileErr *wenyan.CompileError
	assert.ErrorAs(t, err, &compileErr)
}

func TestRunCompile_Minify(t *testing.T) {
	opts := newOptions(t)
	opts.minify = true

	var buf bytes.Buffer
	require.NoError(t, runCompile(context.Background(), opts, "", &fakeCompiler{js: jsOutput}, &buf))

	assert.NotContains(t, buf.String(), "書之")
	assert.Contains(t, buf.String(), "console.log(甲)")
	assert.Less(t, buf.Len(), len(jsOutput))
}

func TestRunCompile_MinifyError(t *testing.T) {
	opts := newOptions(t)
	opts.minify = true

	err := runCompile(context.Background(), opts, "", &fakeCompiler{js: "function ("}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Minify error:\nesbuild errors")

	var minErr *minify.Error
	assert.ErrorAs(t, err, &minErr)
}

func TestRunCompile_Escape(t *testing.T) {
	opts := newOptions(t)
	opts.escape = true

	var buf bytes.Buffer
	require.NoError(t, runCompile(context.Background(), opts, "", &fakeCompiler{js: "if (a < b && c) {}"}, &buf))
	assert.Equal(t, "if (a &lt; b &amp;&amp; c) {}", buf.String())
}

func TestRunCompile_JSON(t *testing.T) {
	opts := newOptions(t)
	opts.Output = "json"

	var buf bytes.Buffer
	src := "或云「「夫子曰」」。蓋謂「「子曰」」。\n"
	require.NoError(t, runCompile(context.Background(), opts, src, &fakeCompiler{js: "x;"}, &buf))

	var got result
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "x;", got.JS)
	assert.Equal(t, []macro.Definition{{Pattern: "夫子曰", Replacement: "子曰"}}, got.Macros)
}

func TestRunCompile_DefaultCompilerMissing(t *testing.T) {
	opts := newOptions(t)
	t.Setenv("WY_COMPILER", filepath.Join(t.TempDir(), "no-such-wenyan"))

	err := runCompile(context.Background(), opts, "", nil, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Compile error")

	var compileErr *wenyan.CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Empty(t, compileErr.Stderr)
}

func TestNewCmdCompile_Flags(t *testing.T) {
	cmd := NewCmdCompile()
	for _, name := range []string{"roman", "strict", "minify", "escape"} {
		assert.NotNil(t, cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "m", cmd.Flags().Lookup("minify").Shorthand)
}
