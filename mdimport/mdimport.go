// MIT License

// Copyright (c) 2018 Akhil Indurti

// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:

// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.

// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

// Package mdimport converts Markdown into a TyX document tree, so that
// existing notes can be opened in the editor and exported to Typst.
//
// CommonMark blocks map onto their TyX counterparts. GitHub tables and
// strikethrough are understood as well. Raw HTML is dropped.
package mdimport // import "akhil.cc/tyxgen/mdimport"

import (
	"strconv"
	"strings"

	"akhil.cc/tyxgen/ast"
	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Table, extension.Strikethrough))

// Import parses src and returns the document holding its content.
// The document has no settings and the given version.
func Import(src []byte, version string) *ast.Document {
	doc := md.Parser().Parse(text.NewReader(src))
	c := &converter{src: src}
	root := &ast.Root{Children: c.blocks(doc)}
	ast.Walk(root, prune)
	return &ast.Document{
		Version: version,
		Content: &ast.DocumentContent{Root: root},
	}
}

// prune drops empty text runs and the paragraphs they leave empty.
func prune(n ast.Node) (ast.Node, error) {
	switch t := n.(type) {
	case *ast.Text:
		if t.Text == "" {
			return nil, nil
		}
	case *ast.Paragraph:
		if len(t.Children) == 0 || ast.PlainText(t) == "" && !hasEmbeds(t) {
			return nil, nil
		}
	}
	return n, nil
}

func hasEmbeds(n ast.Node) bool {
	for _, c := range ast.Children(n) {
		switch c.(type) {
		case *ast.Image, *ast.LineBreak:
			return true
		}
		if hasEmbeds(c) {
			return true
		}
	}
	return false
}

type converter struct {
	src []byte
}

func (c *converter) blocks(parent gast.Node) []ast.Node {
	var out []ast.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, c.block(n)...)
	}
	return out
}

func (c *converter) block(n gast.Node) []ast.Node {
	switch t := n.(type) {
	case *gast.Heading:
		return []ast.Node{&ast.Heading{
			Tag:      "h" + strconv.Itoa(t.Level),
			Children: c.inlines(t, 0),
		}}
	case *gast.Paragraph, *gast.TextBlock:
		return []ast.Node{&ast.Paragraph{Children: c.inlines(t, 0)}}
	case *gast.ThematicBreak:
		return []ast.Node{&ast.HorizontalRule{}}
	case *gast.Blockquote:
		return []ast.Node{&ast.Quote{Children: c.flatten(t)}}
	case *gast.FencedCodeBlock:
		code := &ast.Code{Children: c.lines(t)}
		if lang := t.Language(c.src); len(lang) > 0 {
			s := string(lang)
			code.Language = &s
		}
		return []ast.Node{code}
	case *gast.CodeBlock:
		return []ast.Node{&ast.Code{Children: c.lines(t)}}
	case *gast.List:
		return []ast.Node{c.list(t)}
	case *east.Table:
		return []ast.Node{c.table(t)}
	case *gast.HTMLBlock:
		return nil
	}
	return c.blocks(n)
}

// flatten turns the blocks of a container into one run of inline
// nodes, separating the blocks with line breaks.
func (c *converter) flatten(parent gast.Node) []ast.Node {
	var out []ast.Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		if len(out) > 0 {
			out = append(out, &ast.LineBreak{})
		}
		switch n.(type) {
		case *gast.Paragraph, *gast.TextBlock, *gast.Heading:
			out = append(out, c.inlines(n, 0)...)
		default:
			for _, b := range c.block(n) {
				out = append(out, ast.Children(b)...)
			}
		}
	}
	return out
}

func (c *converter) lines(n gast.Node) []ast.Node {
	var out []ast.Node
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		line := lines.At(i)
		if i > 0 {
			out = append(out, &ast.LineBreak{})
		}
		out = append(out, &ast.Text{Text: strings.TrimRight(string(line.Value(c.src)), "\n")})
	}
	return out
}

// list keeps nested lists in an item of their own, right after the
// item they belong to.
func (c *converter) list(l *gast.List) *ast.List {
	out := &ast.List{ListType: ast.Bullet, Start: 1}
	if l.IsOrdered() {
		out.ListType = ast.Number
		out.Start = l.Start
	}
	value := out.Start
	for it := l.FirstChild(); it != nil; it = it.NextSibling() {
		var inline []ast.Node
		var nested []*ast.List
		for n := it.FirstChild(); n != nil; n = n.NextSibling() {
			if sub, ok := n.(*gast.List); ok {
				nested = append(nested, c.list(sub))
				continue
			}
			if len(inline) > 0 {
				inline = append(inline, &ast.LineBreak{})
			}
			switch n.(type) {
			case *gast.Paragraph, *gast.TextBlock:
				inline = append(inline, c.inlines(n, 0)...)
			default:
				for _, b := range c.block(n) {
					inline = append(inline, ast.Children(b)...)
				}
			}
		}
		out.Children = append(out.Children, &ast.ListItem{Value: value, Children: inline})
		value++
		for _, sub := range nested {
			out.Children = append(out.Children, &ast.ListItem{Value: value, Children: []ast.Node{sub}})
		}
	}
	return out
}

func (c *converter) table(t *east.Table) *ast.Table {
	out := &ast.Table{}
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		row := &ast.TableRow{}
		for cell := r.FirstChild(); cell != nil; cell = cell.NextSibling() {
			row.Children = append(row.Children, &ast.TableCell{
				Children: []ast.Node{&ast.Paragraph{Children: c.inlines(cell, 0)}},
			})
		}
		out.Children = append(out.Children, row)
	}
	return out
}

// inlines converts the inline children of n, applying format to every
// text run. Adjacent runs of the same format are merged.
func (c *converter) inlines(n gast.Node, format ast.Format) []ast.Node {
	var out []ast.Node
	add := func(nodes ...ast.Node) {
		for _, x := range nodes {
			if t, ok := x.(*ast.Text); ok && len(out) > 0 {
				if prev, ok := out[len(out)-1].(*ast.Text); ok && prev.Format == t.Format {
					prev.Text += t.Text
					continue
				}
			}
			out = append(out, x)
		}
	}
	for x := n.FirstChild(); x != nil; x = x.NextSibling() {
		switch t := x.(type) {
		case *gast.Text:
			add(&ast.Text{Text: string(t.Value(c.src)), Format: format})
			if t.HardLineBreak() {
				add(&ast.LineBreak{})
			} else if t.SoftLineBreak() {
				add(&ast.Text{Text: " ", Format: format})
			}
		case *gast.String:
			add(&ast.Text{Text: string(t.Value), Format: format})
		case *gast.CodeSpan:
			add(&ast.Text{Text: c.raw(t), Format: format | ast.CodeFormat})
		case *gast.Emphasis:
			f := ast.Italic
			if t.Level >= 2 {
				f = ast.Bold
			}
			add(c.inlines(t, format|f)...)
		case *east.Strikethrough:
			add(c.inlines(t, format|ast.Strikethrough)...)
		case *gast.Link:
			add(&ast.Link{URL: string(t.Destination), Children: c.inlines(t, format)})
		case *gast.AutoLink:
			url := string(t.URL(c.src))
			add(&ast.Link{URL: url, Children: []ast.Node{&ast.Text{Text: string(t.Label(c.src)), Format: format}}})
		case *gast.Image:
			add(&ast.Image{Src: string(t.Destination)})
		case *gast.RawHTML:
		default:
			add(c.inlines(x, format)...)
		}
	}
	return out
}

func (c *converter) raw(n gast.Node) string {
	var b strings.Builder
	for x := n.FirstChild(); x != nil; x = x.NextSibling() {
		switch t := x.(type) {
		case *gast.Text:
			b.Write(t.Value(c.src))
		case *gast.String:
			b.Write(t.Value)
		}
	}
	return b.String()
}
