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

// Tests for mdimport.go
package mdimport_test

import (
	"strings"
	"testing"

	"akhil.cc/tyxgen/ast"
	"akhil.cc/tyxgen/gen/typst"
	"akhil.cc/tyxgen/mdimport"
	"github.com/sanity-io/litter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var litCfg = litter.Options{
	Compact:   true,
	Separator: " ",
}

type smallcase struct {
	in   string
	want []ast.Node
}

func text(s string) *ast.Text { return &ast.Text{Text: s} }

var importSmall = []smallcase{
	{"# Title\n\nHello *world*.\n", []ast.Node{
		&ast.Heading{Tag: "h1", Children: []ast.Node{text("Title")}},
		&ast.Paragraph{Children: []ast.Node{text("Hello "), &ast.Text{Text: "world", Format: ast.Italic}, text(".")}},
	}},
	{"- a\n- b\n  - c\n", []ast.Node{
		&ast.List{ListType: ast.Bullet, Start: 1, Children: []ast.Node{
			&ast.ListItem{Value: 1, Children: []ast.Node{text("a")}},
			&ast.ListItem{Value: 2, Children: []ast.Node{text("b")}},
			&ast.ListItem{Value: 3, Children: []ast.Node{
				&ast.List{ListType: ast.Bullet, Start: 1, Children: []ast.Node{
					&ast.ListItem{Value: 1, Children: []ast.Node{text("c")}},
				}},
			}},
		}},
	}},
	{"3. x\n4. y\n", []ast.Node{
		&ast.List{ListType: ast.Number, Start: 3, Children: []ast.Node{
			&ast.ListItem{Value: 3, Children: []ast.Node{text("x")}},
			&ast.ListItem{Value: 4, Children: []ast.Node{text("y")}},
		}},
	}},
	{"> quoted\n> text\n", []ast.Node{
		&ast.Quote{Children: []ast.Node{text("quoted text")}},
	}},
	{"a\n\n***\n\nb\n", []ast.Node{
		&ast.Paragraph{Children: []ast.Node{text("a")}},
		&ast.HorizontalRule{},
		&ast.Paragraph{Children: []ast.Node{text("b")}},
	}},
	{"<div>x</div>\n\ntext\n", []ast.Node{
		&ast.Paragraph{Children: []ast.Node{text("text")}},
	}},
	{"**bold** `co*de` ~~gone~~ [link](https://typst.app) ![img](a.png)\n", []ast.Node{
		&ast.Paragraph{Children: []ast.Node{
			&ast.Text{Text: "bold", Format: ast.Bold},
			text(" "),
			&ast.Text{Text: "co*de", Format: ast.CodeFormat},
			text(" "),
			&ast.Text{Text: "gone", Format: ast.Strikethrough},
			text(" "),
			&ast.Link{URL: "https://typst.app", Children: []ast.Node{text("link")}},
			text(" "),
			&ast.Image{Src: "a.png"},
		}},
	}},
}

func TestImport(t *testing.T) {
	for i, test := range importSmall {
		doc := mdimport.Import([]byte(test.in), "0.1.0")
		require.NotNil(t, doc.Content)
		got := doc.Content.Root.Children
		if !assert.Equal(t, test.want, got) {
			t.Logf("case %d, in %q,\nwant %s,\ngot %s", i, test.in, litCfg.Sdump(test.want), litCfg.Sdump(got))
		}
	}
}

func TestImportCode(t *testing.T) {
	doc := mdimport.Import([]byte("```go\nfmt.Println(1)\nx\n```\n"), "")
	require.Len(t, doc.Content.Root.Children, 1)
	code, ok := doc.Content.Root.Children[0].(*ast.Code)
	require.True(t, ok, litCfg.Sdump(doc.Content.Root.Children[0]))
	require.NotNil(t, code.Language)
	assert.Equal(t, "go", *code.Language)
	assert.Equal(t, "fmt.Println(1)\nx", ast.PlainText(code))
}

func TestImportTable(t *testing.T) {
	doc := mdimport.Import([]byte("| a | b |\n|---|---|\n| 1 | 2 |\n"), "")
	require.Len(t, doc.Content.Root.Children, 1)
	table, ok := doc.Content.Root.Children[0].(*ast.Table)
	require.True(t, ok)
	require.Len(t, table.Children, 2)
	var cells []string
	for _, row := range table.Children {
		for _, cell := range ast.Children(row) {
			cells = append(cells, strings.TrimSpace(ast.PlainText(cell)))
		}
	}
	assert.Equal(t, []string{"a", "b", "1", "2"}, cells)
}

func TestImportHardBreak(t *testing.T) {
	doc := mdimport.Import([]byte("line one\\\nline two\n"), "")
	require.Len(t, doc.Content.Root.Children, 1)
	var breaks int
	ast.Walk(doc.Content.Root, func(n ast.Node) (ast.Node, error) {
		if _, ok := n.(*ast.LineBreak); ok {
			breaks++
		}
		return n, nil
	})
	assert.Equal(t, 1, breaks)
}

func TestImportCompiles(t *testing.T) {
	src := "# Notes\n\nSome *text* with a `#hash`.\n\n1. one\n2. two\n\n> a quote\n"
	doc := mdimport.Import([]byte(src), "0.1.0")
	assert.Equal(t, "0.1.0", doc.Version)
	out, err := typst.Assemble(doc)
	require.NoError(t, err)
	assert.Contains(t, out, "#heading(depth: 1)[Notes]")
	assert.Contains(t, out, "Some #emph[text] with a #raw(\"#hash\").")
	assert.Contains(t, out, "\n#enum(start: 1, [one], [two])\n")
	assert.Contains(t, out, "#quote(block: true)[a quote]\n")
}
