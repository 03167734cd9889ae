// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package markdown extracts plain text from Markdown source using goldmark.
// Rendering Markdown to HTML for display is the client's job; the server
// only needs plain text to derive excerpt fallbacks for list views.
package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// md is the configured goldmark instance, reused across calls.
var md = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM, // GitHub-Flavored Markdown: tables, strikethrough, autolinks
	),
)

// ToPlainText parses Markdown source and returns its visible text with
// formatting stripped. Code blocks are omitted — they read poorly in a
// one-line excerpt. Block boundaries and line breaks become single spaces.
func ToPlainText(source string) string {
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch t := n.(type) {
		case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
			return ast.WalkSkipChildren, nil
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte(' ')
			}
		default:
			// Separate blocks with a space so headings don't run into
			// the paragraph that follows them.
			if n.Type() == ast.TypeBlock && b.Len() > 0 {
				b.WriteByte(' ')
			}
		}

		return ast.WalkContinue, nil
	})

	return strings.Join(strings.Fields(b.String()), " ")
}

// Excerpt returns a plain-text prefix of the Markdown source, truncated
// to at most maxLen runes at a word boundary with a trailing ellipsis.
// Used as the list-display fallback when a post has no explicit excerpt.
func Excerpt(source string, maxLen int) string {
	plain := ToPlainText(source)
	if len([]rune(plain)) <= maxLen {
		return plain
	}

	runes := []rune(plain)[:maxLen]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}
