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

// Package parser decodes persisted TyX documents (.tyx files) into an
// *ast.Document. It takes in an io.Reader holding JSON as input.
//
// A document has the following shape:
//
//      {
//        "$schema":  string,            // optional
//        "version":  string,
//        "preamble": string,            // optional, raw Typst
//        "filename": string,            // optional, unused
//        "dirty":    bool,              // optional, unused
//        "content":  { "root": node },  // optional
//        "settings": settings           // optional
//      }
//
// Every node is an object carrying a "type" discriminator. A node whose
// discriminator is missing or unknown decodes into an *ast.Unknown; it is
// the responsibility of the generator to reject it. Likewise unknown
// function argument types decode into an *ast.UnknownValue.
//
// Malformed fields (a string where a list is expected and so on) are
// collected and reported together with their JSON path.
package parser // import "akhil.cc/tyxgen/parser"

import (
	"errors"
	"fmt"
	"io"

	"akhil.cc/tyxgen/ast"
	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

var (
	rootPath     = jp.MustParseString("$.content.root")
	settingsPath = jp.MustParseString("$.settings")
)

// MustParse is like Parse but panics if the source cannot be parsed.
func MustParse(src io.Reader) *ast.Document {
	d, err := Parse(src)
	if err != nil {
		panic("Parse error: " + err.Error())
	}
	return d
}

// Parse parses the source and if successful, returns its corresponding document.
// A generator can be used to transform the returned document into Typst.
func Parse(src io.Reader) (*ast.Document, error) {
	data, err := oj.Load(src)
	if err != nil {
		return nil, fmt.Errorf("invalid document json: %w", err)
	}
	return FromData(data)
}

// ParseBytes is like Parse for an in-memory document.
func ParseBytes(b []byte) (*ast.Document, error) {
	data, err := oj.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("invalid document json: %w", err)
	}
	return FromData(data)
}

// FromData decodes a document already parsed into generic JSON values.
func FromData(data any) (*ast.Document, error) {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("document must be an object, got %s", kind(data))
	}
	p := &parser{}
	d := &ast.Document{
		Schema:   p.str(obj, "$", "$schema"),
		Version:  p.str(obj, "$", "version"),
		Preamble: p.optStr(obj, "$", "preamble"),
		Filename: p.optStr(obj, "$", "filename"),
		Dirty:    p.optBool(obj, "$", "dirty"),
	}
	if _, ok := obj["content"]; ok {
		root := rootPath.First(data)
		if root == nil {
			p.errorf("$.content.root", "missing root node")
		} else {
			d.Content = &ast.DocumentContent{Root: p.root(root, "$.content.root")}
		}
	}
	if s := settingsPath.First(data); s != nil {
		d.Settings = p.settings(s, "$.settings")
	}
	return d, p.err()
}

// ParseNode decodes a single node, e.g. the root of an editor state.
func ParseNode(src io.Reader) (ast.Node, error) {
	data, err := oj.Load(src)
	if err != nil {
		return nil, fmt.Errorf("invalid node json: %w", err)
	}
	p := &parser{}
	n := p.node(data, "$")
	return n, p.err()
}

// ParseValues decodes a JSON list of function arguments.
func ParseValues(b []byte) ([]ast.Value, error) {
	data, err := oj.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("invalid values json: %w", err)
	}
	p := &parser{}
	vs := p.values(data, "$")
	return vs, p.err()
}

// ParseNamedValues decodes a JSON object of named function arguments.
func ParseNamedValues(b []byte) (map[string]ast.Value, error) {
	data, err := oj.Parse(b)
	if err != nil {
		return nil, fmt.Errorf("invalid values json: %w", err)
	}
	p := &parser{}
	vs := p.namedValues(data, "$")
	return vs, p.err()
}

type parser struct {
	errors []error
}

func (p *parser) errorf(path, format string, args ...any) {
	p.errors = append(p.errors, fmt.Errorf("%s: %s", path, fmt.Sprintf(format, args...)))
}

func (p *parser) err() error {
	if len(p.errors) == 0 {
		return nil
	}
	return errors.Join(p.errors...)
}

func kind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "bool"
	case int64, float64:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}

func (p *parser) object(v any, path string) map[string]any {
	obj, ok := v.(map[string]any)
	if !ok {
		p.errorf(path, "expected object, got %s", kind(v))
	}
	return obj
}

func (p *parser) str(obj map[string]any, path, key string) string {
	if s := p.optStr(obj, path, key); s != nil {
		return *s
	}
	return ""
}

func (p *parser) optStr(obj map[string]any, path, key string) *string {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	s, ok := v.(string)
	if !ok {
		p.errorf(path+"."+key, "expected string, got %s", kind(v))
		return nil
	}
	return &s
}

func (p *parser) optBool(obj map[string]any, path, key string) *bool {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	b, ok := v.(bool)
	if !ok {
		p.errorf(path+"."+key, "expected bool, got %s", kind(v))
		return nil
	}
	return &b
}

func (p *parser) optNumber(obj map[string]any, path, key string) *float64 {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil
	}
	var f float64
	switch n := v.(type) {
	case int64:
		f = float64(n)
	case float64:
		f = n
	default:
		p.errorf(path+"."+key, "expected number, got %s", kind(v))
		return nil
	}
	return &f
}

func (p *parser) integer(obj map[string]any, path, key string) int {
	if f := p.optNumber(obj, path, key); f != nil {
		return int(*f)
	}
	return 0
}

func (p *parser) direction(obj map[string]any, path string) ast.Direction {
	d := p.str(obj, path, "direction")
	switch ast.Direction(d) {
	case ast.DirectionNone, ast.LTR, ast.RTL:
		return ast.Direction(d)
	}
	p.errorf(path+".direction", "unknown direction %q", d)
	return ast.DirectionNone
}

func (p *parser) children(obj map[string]any, path string) []ast.Node {
	v, ok := obj["children"]
	if !ok || v == nil {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		p.errorf(path+".children", "expected list, got %s", kind(v))
		return nil
	}
	nodes := make([]ast.Node, len(list))
	for i, c := range list {
		nodes[i] = p.node(c, fmt.Sprintf("%s.children[%d]", path, i))
	}
	return nodes
}

// root decodes a node in a position that holds an editor root. Any other
// node, including one with a missing or unknown type, becomes the only
// child of an empty root, so the generator still sees and rejects it.
func (p *parser) root(v any, path string) *ast.Root {
	n := p.node(v, path)
	if r, ok := n.(*ast.Root); ok {
		return r
	}
	return &ast.Root{Children: []ast.Node{n}}
}

func (p *parser) node(v any, path string) ast.Node {
	obj := p.object(v, path)
	if obj == nil {
		return &ast.Unknown{}
	}
	typ, _ := obj["type"].(string)
	switch typ {
	case "root":
		return &ast.Root{
			Children:  p.children(obj, path),
			Direction: p.direction(obj, path),
		}
	case "paragraph":
		return &ast.Paragraph{
			Children:  p.children(obj, path),
			Format:    ast.Alignment(p.alignment(obj, path)),
			Direction: p.direction(obj, path),
		}
	case "text":
		return &ast.Text{
			Text:   p.str(obj, path, "text"),
			Format: ast.Format(p.integer(obj, path, "format")),
		}
	case "math":
		return &ast.Math{
			Typst:           p.optStr(obj, path, "typst"),
			Formula:         p.optStr(obj, path, "formula"),
			ExpandedFormula: p.optStr(obj, path, "expandedFormula"),
			Inline:          deref(p.optBool(obj, path, "inline")),
		}
	case "list":
		return &ast.List{
			Children:  p.children(obj, path),
			ListType:  ast.ListType(p.str(obj, path, "listType")),
			Start:     p.integer(obj, path, "start"),
			Direction: p.direction(obj, path),
		}
	case "listitem":
		return &ast.ListItem{
			Children: p.children(obj, path),
			Value:    p.integer(obj, path, "value"),
		}
	case "quote":
		return &ast.Quote{
			Children:  p.children(obj, path),
			Direction: p.direction(obj, path),
		}
	case "code":
		return &ast.Code{
			Children: p.children(obj, path),
			Language: p.optStr(obj, path, "language"),
		}
	case "table":
		return &ast.Table{
			Children:  p.children(obj, path),
			Direction: p.direction(obj, path),
		}
	case "tablerow":
		return &ast.TableRow{Children: p.children(obj, path)}
	case "tablecell":
		return &ast.TableCell{
			Children:  p.children(obj, path),
			Direction: p.direction(obj, path),
		}
	case "linebreak":
		return &ast.LineBreak{}
	case "horizontalrule":
		return &ast.HorizontalRule{}
	case "typstcode":
		return p.typstCode(obj, path)
	case "image":
		return &ast.Image{Src: p.str(obj, path, "src")}
	case "link":
		return &ast.Link{
			Children: p.children(obj, path),
			URL:      p.str(obj, path, "url"),
		}
	case "heading":
		return &ast.Heading{
			Tag:      p.str(obj, path, "tag"),
			Children: p.children(obj, path),
		}
	case "functioncall":
		return &ast.FunctionCall{
			Name:       p.optStr(obj, path, "name"),
			Inline:     p.optBool(obj, path, "inline"),
			Positional: p.values(obj["positionParameters"], path+".positionParameters"),
			Named:      p.namedValues(obj["namedParameters"], path+".namedParameters"),
		}
	}
	return &ast.Unknown{Name: typ}
}

// alignment reads a paragraph format. Lexical stores it as a string,
// but older documents carry the numeric element format instead.
func (p *parser) alignment(obj map[string]any, path string) string {
	switch f := obj["format"].(type) {
	case string:
		return f
	case int64:
		if f >= 0 && int(f) < len(elementFormats) {
			return elementFormats[f]
		}
	}
	return ""
}

var elementFormats = [...]string{"", "left", "center", "right", "justify", "start", "end"}

func (p *parser) typstCode(obj map[string]any, path string) *ast.TypstCode {
	text := p.object(obj["text"], path+".text")
	if text == nil {
		return &ast.TypstCode{Root: &ast.Root{}}
	}
	state := p.object(text["editorState"], path+".text.editorState")
	if state == nil {
		return &ast.TypstCode{Root: &ast.Root{}}
	}
	return &ast.TypstCode{Root: p.root(state["root"], path+".text.editorState.root")}
}

func (p *parser) values(v any, path string) []ast.Value {
	if v == nil {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		p.errorf(path, "expected list, got %s", kind(v))
		return nil
	}
	vs := make([]ast.Value, len(list))
	for i, x := range list {
		vs[i] = p.value(x, fmt.Sprintf("%s[%d]", path, i))
	}
	return vs
}

func (p *parser) namedValues(v any, path string) map[string]ast.Value {
	if v == nil {
		return nil
	}
	obj := p.object(v, path)
	if obj == nil {
		return nil
	}
	vs := make(map[string]ast.Value, len(obj))
	for k, x := range obj {
		vs[k] = p.value(x, path+"."+k)
	}
	return vs
}

func (p *parser) value(v any, path string) ast.Value {
	obj := p.object(v, path)
	if obj == nil {
		return &ast.UnknownValue{}
	}
	typ, _ := obj["type"].(string)
	switch typ {
	case "length":
		return &ast.LengthValue{Length: p.length(obj, path)}
	case "boolean":
		return &ast.BooleanValue{Value: p.optBool(obj, path, "value")}
	case "content":
		c := &ast.ContentValue{}
		if r, ok := obj["value"]; ok && r != nil {
			c.Value = p.root(r, path+".value")
		}
		return c
	}
	return &ast.UnknownValue{Name: typ}
}

func (p *parser) length(obj map[string]any, path string) ast.Length {
	l := ast.Length{Unit: p.optStr(obj, path, "unit")}
	// Lengths are stored as strings, but accept hand-written numbers.
	switch n := obj["value"].(type) {
	case int64:
		s := fmt.Sprint(n)
		l.Value = &s
	case float64:
		s := fmt.Sprint(n)
		l.Value = &s
	default:
		l.Value = p.optStr(obj, path, "value")
	}
	return l
}

func (p *parser) settings(v any, path string) *ast.Settings {
	obj := p.object(v, path)
	if obj == nil {
		return nil
	}
	s := &ast.Settings{
		Language:  p.optStr(obj, path, "language"),
		Paper:     p.optStr(obj, path, "paper"),
		Flipped:   p.optBool(obj, path, "flipped"),
		Justified: p.optBool(obj, path, "justified"),
		Columns:   p.optNumber(obj, path, "columns"),
		Root:      p.optStr(obj, path, "root"),
	}
	if ind, ok := obj["indentation"]; ok && ind != nil {
		if m := p.object(ind, path+".indentation"); m != nil {
			l := p.length(m, path+".indentation")
			s.Indentation = &l
		}
	}
	if fp, ok := obj["fontPaths"]; ok && fp != nil {
		list, ok := fp.([]any)
		if !ok {
			p.errorf(path+".fontPaths", "expected list, got %s", kind(fp))
		}
		for i, x := range list {
			str, ok := x.(string)
			if !ok {
				p.errorf(fmt.Sprintf("%s.fontPaths[%d]", path, i), "expected string, got %s", kind(x))
				continue
			}
			s.FontPaths = append(s.FontPaths, str)
		}
	}
	if fns, ok := obj["functions"]; ok && fns != nil {
		s.Functions = p.functions(fns, path+".functions")
	}
	return s
}

func (p *parser) functions(v any, path string) map[string]ast.FunctionDefinition {
	obj := p.object(v, path)
	if obj == nil {
		return nil
	}
	defs := make(map[string]ast.FunctionDefinition, len(obj))
	for name, d := range obj {
		dpath := path + "." + name
		m := p.object(d, dpath)
		if m == nil {
			continue
		}
		def := ast.FunctionDefinition{Inline: p.optBool(m, dpath, "inline")}
		if pos, ok := m["positional"].([]any); ok {
			for i, x := range pos {
				if pm := p.object(x, fmt.Sprintf("%s.positional[%d]", dpath, i)); pm != nil {
					def.Positional = append(def.Positional, p.parameter(pm, dpath))
				}
			}
		}
		if named, ok := m["named"].([]any); ok {
			for i, x := range named {
				if pm := p.object(x, fmt.Sprintf("%s.named[%d]", dpath, i)); pm != nil {
					def.Named = append(def.Named, ast.NamedParameter{
						Name:      p.str(pm, dpath, "name"),
						Parameter: p.parameter(pm, dpath),
					})
				}
			}
		}
		defs[name] = def
	}
	return defs
}

func (p *parser) parameter(m map[string]any, path string) ast.Parameter {
	return ast.Parameter{
		Type:          p.str(m, path, "type"),
		Label:         p.str(m, path, "label"),
		Documentation: p.str(m, path, "documentation"),
		Required:      deref(p.optBool(m, path, "required")),
	}
}

func deref(b *bool) bool {
	return b != nil && *b
}
