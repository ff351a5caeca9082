// File: internal/ingest/markdown.go

// Package ingest turns markdown knowledge sources into embedded vectors in
// the content namespace. It is an offline pipeline driven by cmd/ingest.
package ingest

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FrontMatter carries the per-file tags stored on every chunk's metadata.
type FrontMatter struct {
	SourceType  string
	SourceName  string
	Concern     string
	HairTexture string
}

// ParseFrontMatter reads a simple `key: value` YAML block delimited by
// `---` lines at the top of the file. Files without a block yield a zero
// FrontMatter and the unchanged body.
func ParseFrontMatter(raw string) (FrontMatter, string) {
	var fm FrontMatter
	if !strings.HasPrefix(raw, "---") {
		return fm, raw
	}
	end := strings.Index(raw[3:], "\n---")
	if end == -1 {
		return fm, raw
	}

	block := strings.TrimPrefix(raw[3:3+end], "\n")
	body := raw[3+end+4:]
	for _, line := range strings.Split(block, "\n") {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "source_type":
			fm.SourceType = value
		case "source_name":
			fm.SourceName = value
		case "concern":
			fm.Concern = value
		case "hair_texture":
			fm.HairTexture = value
		}
	}
	return fm, strings.TrimSpace(body)
}

// MarkdownToText renders a markdown document as plain text: block
// structure becomes newlines, inline markup is dropped.
func MarkdownToText(source []byte) (string, error) {
	parser := goldmark.New().Parser()
	doc := parser.Parse(text.NewReader(source))

	var b bytes.Buffer
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch node := n.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(source))
			if node.HardLineBreak() || node.SoftLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.Heading, *ast.Paragraph, *ast.ListItem:
			if b.Len() > 0 {
				b.WriteByte('\n')
			}
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", fmt.Errorf("walk markdown: %w", err)
	}
	return b.String(), nil
}
