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

// Tests for parse.go
package parser_test

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"akhil.cc/tyxgen/ast"
	"akhil.cc/tyxgen/parser"
	"github.com/sanity-io/litter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var litCfg = litter.Options{
	Compact:           true,
	StripPackageNames: false,
	HidePrivateFields: false,
	Separator:         " ",
}

type smallcase struct {
	in   string
	want ast.Node
	werr error
}

func str(s string) *string { return &s }
func boolean(b bool) *bool { return &b }

var nodeSmall = []smallcase{
	{`{"type": "text", "text": "Hi", "format": 1}`, &ast.Text{Text: "Hi", Format: ast.Bold}, nil},
	{`{"type": "text", "text": "x", "format": 80}`, &ast.Text{Text: "x", Format: ast.CodeFormat | ast.Superscript}, nil},
	{`{"type": "linebreak"}`, &ast.LineBreak{}, nil},
	{`{"type": "horizontalrule"}`, &ast.HorizontalRule{}, nil},
	{`{"type": "image", "src": "a.png"}`, &ast.Image{Src: "a.png"}, nil},
	{`{"type": "paragraph", "format": "center", "direction": "rtl", "children": []}`,
		&ast.Paragraph{Children: []ast.Node{}, Format: ast.AlignCenter, Direction: ast.RTL}, nil},
	{`{"type": "paragraph", "format": 4, "direction": null, "children": []}`,
		&ast.Paragraph{Children: []ast.Node{}, Format: ast.AlignJustify}, nil},
	{`{"type": "math", "formula": "x^2", "inline": true}`,
		&ast.Math{Formula: str("x^2"), Inline: true}, nil},
	{`{"type": "list", "listType": "number", "start": 3, "direction": null, "children": [
		{"type": "listitem", "value": 3, "children": [{"type": "text", "text": "a", "format": 0}]}]}`,
		&ast.List{ListType: ast.Number, Start: 3, Children: []ast.Node{
			&ast.ListItem{Value: 3, Children: []ast.Node{&ast.Text{Text: "a"}}},
		}}, nil},
	{`{"type": "code", "language": "go", "children": [{"type": "text", "text": "x := 1", "format": 0}]}`,
		&ast.Code{Language: str("go"), Children: []ast.Node{&ast.Text{Text: "x := 1"}}}, nil},
	{`{"type": "heading", "tag": "h2", "children": []}`, &ast.Heading{Tag: "h2", Children: []ast.Node{}}, nil},
	{`{"type": "link", "url": "https://typst.app", "children": []}`,
		&ast.Link{URL: "https://typst.app", Children: []ast.Node{}}, nil},
	{`{"type": "typstcode", "text": {"editorState": {"root": {"type": "root", "direction": null, "children": []}}}}`,
		&ast.TypstCode{Root: &ast.Root{Children: []ast.Node{}}}, nil},
	{`{"type": "functioncall", "name": "h", "positionParameters": [{"type": "length", "value": "1", "unit": "em"}],
		"namedParameters": {"weak": {"type": "boolean"}}}`,
		&ast.FunctionCall{
			Name:       str("h"),
			Positional: []ast.Value{&ast.LengthValue{Length: ast.Length{Value: str("1"), Unit: str("em")}}},
			Named:      map[string]ast.Value{"weak": &ast.BooleanValue{}},
		}, nil},
	{`{"type": "sparkles"}`, &ast.Unknown{Name: "sparkles"}, nil},
	{`{"text": "untyped"}`, &ast.Unknown{}, nil},
	{`{"type": "text", "text": 3}`, &ast.Text{}, fmt.Errorf("$.text: expected string, got number")},
	{`{"type": "quote", "direction": "up", "children": []}`,
		&ast.Quote{Children: []ast.Node{}}, fmt.Errorf("$.direction: unknown direction \"up\"")},
}

func TestParseNode(t *testing.T) {
	for i, test := range nodeSmall {
		got, err := parser.ParseNode(strings.NewReader(test.in))
		if wes, es := fmt.Sprint(test.werr), fmt.Sprint(err); es != wes || !reflect.DeepEqual(test.want, got) {
			t.Errorf("case %d, in %q,\nwant %s,\ngot %s,\nwant err %s,\ngot err %s", i, test.in, litCfg.Sdump(test.want), litCfg.Sdump(got), wes, es)
		}
	}
}

const doc = `{
	"$schema": "https://tyx.example/schema.json",
	"version": "0.2.0",
	"preamble": "#let x = 1",
	"dirty": false,
	"settings": {
		"language": "en",
		"paper": "a4",
		"flipped": true,
		"columns": 2,
		"indentation": {"value": "1", "unit": "em"},
		"fontPaths": ["fonts"],
		"functions": {
			"box": {
				"inline": true,
				"positional": [{"type": "content", "label": "Body", "required": true}],
				"named": [{"name": "stroke", "type": "length"}]
			}
		}
	},
	"content": {"root": {"type": "root", "direction": null, "children": [
		{"type": "paragraph", "format": "", "direction": null, "children": [
			{"type": "text", "text": "Hello", "format": 0}
		]}
	]}}
}`

func TestParse(t *testing.T) {
	d, err := parser.Parse(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "0.2.0", d.Version)
	assert.Equal(t, "https://tyx.example/schema.json", d.Schema)
	assert.Equal(t, str("#let x = 1"), d.Preamble)
	assert.Equal(t, boolean(false), d.Dirty)
	assert.Nil(t, d.Filename)

	require.NotNil(t, d.Settings)
	s := d.Settings
	assert.Equal(t, str("en"), s.Language)
	assert.Equal(t, str("a4"), s.Paper)
	assert.Equal(t, boolean(true), s.Flipped)
	assert.Nil(t, s.Justified)
	require.NotNil(t, s.Columns)
	assert.Equal(t, 2.0, *s.Columns)
	assert.Equal(t, &ast.Length{Value: str("1"), Unit: str("em")}, s.Indentation)
	assert.Equal(t, []string{"fonts"}, s.FontPaths)
	assert.Equal(t, map[string]ast.FunctionDefinition{
		"box": {
			Inline:     boolean(true),
			Positional: []ast.Parameter{{Type: "content", Label: "Body", Required: true}},
			Named:      []ast.NamedParameter{{Name: "stroke", Parameter: ast.Parameter{Type: "length"}}},
		},
	}, s.Functions)

	require.NotNil(t, d.Content)
	want := &ast.Root{Children: []ast.Node{
		&ast.Paragraph{Children: []ast.Node{&ast.Text{Text: "Hello"}}},
	}}
	assert.Equal(t, want, d.Content.Root, litCfg.Sdump(d.Content.Root))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in   string
		werr string
	}{
		{`[1, 2]`, "document must be an object, got list"},
		{`{"version": 1}`, "$.version: expected string, got number"},
		{`{"version": "1", "content": {}}`, "$.content.root: missing root node"},
		{`{"version": "1", "settings": {"fontPaths": "x"}}`, "$.settings.fontPaths: expected list, got string"},
		{`{"version": 1, "preamble": false}`, "$.version: expected string, got number\n$.preamble: expected string, got bool"},
	}
	for i, test := range tests {
		_, err := parser.ParseBytes([]byte(test.in))
		if es := fmt.Sprint(err); es != test.werr {
			t.Errorf("case %d, in %q,\nwant err %q,\ngot err %q", i, test.in, test.werr, es)
		}
	}

	_, err := parser.ParseBytes([]byte(`{"version": `))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "invalid document json: "))
}

func TestParseRootPositions(t *testing.T) {
	tests := []struct {
		in   string
		want *ast.Root
	}{
		{`{"type": "root", "children": []}`, &ast.Root{Children: []ast.Node{}}},
		{`{"children": []}`, &ast.Root{Children: []ast.Node{&ast.Unknown{}}}},
		{`{"type": "bogus"}`, &ast.Root{Children: []ast.Node{&ast.Unknown{Name: "bogus"}}}},
		{`{"type": "text", "text": "x"}`, &ast.Root{Children: []ast.Node{&ast.Text{Text: "x"}}}},
	}
	for i, test := range tests {
		d, err := parser.ParseBytes([]byte(`{"version": "1", "content": {"root": ` + test.in + `}}`))
		require.NoError(t, err, "case %d", i)
		assert.Equal(t, test.want, d.Content.Root, "case %d, in %s", i, test.in)

		vs, err := parser.ParseValues([]byte(`[{"type": "content", "value": ` + test.in + `}]`))
		require.NoError(t, err, "case %d", i)
		assert.Equal(t, []ast.Value{&ast.ContentValue{Value: test.want}}, vs, "case %d, in %s", i, test.in)

		n, err := parser.ParseNode(strings.NewReader(`{"type": "typstcode", "text": {"editorState": {"root": ` + test.in + `}}}`))
		require.NoError(t, err, "case %d", i)
		assert.Equal(t, &ast.TypstCode{Root: test.want}, n, "case %d, in %s", i, test.in)
	}
}

func TestParseValues(t *testing.T) {
	vs, err := parser.ParseValues([]byte(`[
		{"type": "length", "value": 2.5, "unit": "pt"},
		{"type": "boolean", "value": true},
		{"type": "content", "value": {"type": "root", "direction": null, "children": []}},
		{"type": "color"}
	]`))
	require.NoError(t, err)
	assert.Equal(t, []ast.Value{
		&ast.LengthValue{Length: ast.Length{Value: str("2.5"), Unit: str("pt")}},
		&ast.BooleanValue{Value: boolean(true)},
		&ast.ContentValue{Value: &ast.Root{Children: []ast.Node{}}},
		&ast.UnknownValue{Name: "color"},
	}, vs)

	named, err := parser.ParseNamedValues([]byte(`{"weak": {"type": "boolean", "value": false}}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]ast.Value{"weak": &ast.BooleanValue{Value: boolean(false)}}, named)

	_, err = parser.ParseValues([]byte(`{"weak": {}}`))
	assert.EqualError(t, err, "$: expected list, got object")
}
