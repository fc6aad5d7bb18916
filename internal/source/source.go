// Package source reads wenyan source from files, markdown documents,
// HTML pages, or standard input.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"golang.org/x/term"
)

// ErrNoCode is returned when a document contains no fenced code blocks.
var ErrNoCode = errors.New("no fenced code blocks found")

// Languages are the fence info strings recognized as wenyan.
var Languages = []string{"wenyan", "wy", "文言"}

var mdParser = goldmark.New()

// Load reads source from path. An empty path or "-" reads r.
func Load(path string, r io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "" || path == "-" {
		data, err = io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err = os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FromMarkdown(data)
	case ".html", ".htm":
		return FromHTML(string(data))
	default:
		return string(data), nil
	}
}

// FromMarkdown returns the contents of the wenyan fenced code blocks in
// markdown, concatenated in document order. When no block is tagged as
// wenyan, every fenced block is used.
func FromMarkdown(markdown []byte) (string, error) {
	doc := mdParser.Parser().Parse(text.NewReader(markdown))

	var tagged, all []string
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		block, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var buf bytes.Buffer
		lines := block.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			buf.Write(seg.Value(markdown))
		}
		code := buf.String()

		all = append(all, code)
		if isWenyan(string(block.Language(markdown))) {
			tagged = append(tagged, code)
		}
		return ast.WalkSkipChildren, nil
	})
	if err != nil {
		return "", err
	}

	switch {
	case len(tagged) > 0:
		return joinBlocks(tagged), nil
	case len(all) > 0:
		return joinBlocks(all), nil
	default:
		return "", ErrNoCode
	}
}

// FromHTML converts an HTML page to markdown and extracts its code blocks.
func FromHTML(html string) (string, error) {
	markdown, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML: %w", err)
	}
	return FromMarkdown([]byte(markdown))
}

// StdinIsPiped reports whether f is not an interactive terminal.
func StdinIsPiped(f *os.File) bool {
	return !term.IsTerminal(int(f.Fd()))
}

func isWenyan(lang string) bool {
	for _, l := range Languages {
		if strings.EqualFold(lang, l) {
			return true
		}
	}
	return false
}

func joinBlocks(blocks []string) string {
	for i, b := range blocks {
		blocks[i] = strings.TrimSuffix(b, "\n")
	}
	return strings.Join(blocks, "\n") + "\n"
}
