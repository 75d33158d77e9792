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

package typst

import (
	"strconv"
	"strings"

	"akhil.cc/tyxgen/ast"
	"akhil.cc/tyxgen/mathconv"
)

// Placeholder is the token left in converted math for an empty slot
// of the math widget. It is replaced by a Typst space.
const Placeholder = "placeholder"

// DefaultMacros are expanded in every formula before conversion.
var DefaultMacros = map[string]string{
	`\differentialD`: `\mathrm{d}`,
}

// Compiler converts document trees into Typst markup.
// The zero value is ready to use.
type Compiler struct {
	// Math converts formulas of math nodes without a Typst form.
	// If nil, mathconv.TeX is used.
	Math mathconv.Converter
	// Macros expanded in formulas. If nil, DefaultMacros is used.
	Macros map[string]string
}

var std = &Compiler{}

// Compile converts n into Typst markup with the default Compiler.
func Compile(n ast.Node) (string, error) {
	return std.Compile(n)
}

// Compile converts n into Typst markup. Any error aborts the whole
// conversion and no partial output is returned.
func (c *Compiler) Compile(n ast.Node) (string, error) {
	switch t := n.(type) {
	case nil:
		return "", ErrMissingNodeType
	case *ast.Root:
		s, err := c.children(t.Children)
		if err != nil {
			return "", err
		}
		return applyDirection(s, t.Direction), nil
	case *ast.Paragraph:
		s, err := c.children(t.Children)
		if err != nil {
			return "", err
		}
		return applyDirection(applyAlignment(s, t.Format), t.Direction), nil
	case *ast.Text:
		return formatText(t), nil
	case *ast.Math:
		return c.math(t), nil
	case *ast.ListItem:
		return c.children(t.Children)
	case *ast.List:
		return c.list(t)
	case *ast.Quote:
		s, err := c.children(t.Children)
		if err != nil {
			return "", err
		}
		return applyDirection("#quote(block: true)["+s+"]", t.Direction) + "\n", nil
	case *ast.Code:
		lang := "none"
		if t.Language != nil && *t.Language != "" {
			lang = *t.Language
		}
		return "#text(dir: ltr)[#raw(block: true, lang: " + Quote(lang) + ", " + Quote(ast.PlainText(t)) + ")]", nil
	case *ast.Table:
		return c.table(t)
	case *ast.TableRow:
		return c.joined(t.Children, ", ")
	case *ast.TableCell:
		s, err := c.children(t.Children)
		if err != nil {
			return "", err
		}
		return "[" + applyDirection(s, t.Direction) + "]", nil
	case *ast.LineBreak:
		return "\\ \n", nil
	case *ast.HorizontalRule:
		return "#line(length: 100%)\n", nil
	case *ast.TypstCode:
		return ast.PlainText(t), nil
	case *ast.Image:
		return "#image(" + Quote(t.Src) + ")", nil
	case *ast.Link:
		s, err := c.children(t.Children)
		if err != nil {
			return "", err
		}
		return "#link(" + Quote(t.URL) + ")[" + s + "]", nil
	case *ast.Heading:
		s, err := c.children(t.Children)
		if err != nil {
			return "", err
		}
		return "#heading(depth: " + strconv.Itoa(headingDepth(t.Tag)) + ")[" + s + "]", nil
	case *ast.FunctionCall:
		name := ""
		if t.Name != nil {
			name = *t.Name
		}
		s, err := c.StringifyFunction(name, t.Positional, t.Named, true)
		if err != nil {
			return "", err
		}
		return "#" + s, nil
	case *ast.Unknown:
		if t.Name == "" {
			return "", ErrMissingNodeType
		}
		return "", &UnsupportedNodeTypeError{Type: t.Name}
	default:
		return "", &UnsupportedNodeTypeError{Type: n.Type()}
	}
}

// children concatenates the compiled nodes, separating a paragraph
// from whatever follows it with a blank line.
func (c *Compiler) children(nodes []ast.Node) (string, error) {
	var b strings.Builder
	for i, n := range nodes {
		s, err := c.Compile(n)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
		if _, ok := n.(*ast.Paragraph); ok && i != len(nodes)-1 {
			b.WriteString("\n\n")
		}
	}
	return b.String(), nil
}

func (c *Compiler) joined(nodes []ast.Node, sep string) (string, error) {
	parts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		s, err := c.Compile(n)
		if err != nil {
			return "", err
		}
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, sep), nil
}

func applyDirection(s string, dir ast.Direction) string {
	if dir == ast.DirectionNone {
		return s
	}
	return "#text(dir: " + string(dir) + ")[" + s + "]"
}

func applyAlignment(s string, align ast.Alignment) string {
	switch align {
	case ast.AlignJustify:
		return "#par(justify: true)[" + s + "]"
	case ast.AlignLeft, ast.AlignCenter, ast.AlignRight, ast.AlignStart, ast.AlignEnd:
		return "#align(" + string(align) + ")[" + s + "]"
	}
	return s
}

// textFormats lists the text decorations from the outermost wrapper inwards.
var textFormats = [...]struct {
	flag ast.Format
	fn   string
}{
	{ast.Bold, "strong"},
	{ast.Italic, "emph"},
	{ast.Underline, "underline"},
	{ast.Strikethrough, "strike"},
	{ast.Subscript, "sub"},
	{ast.Superscript, "super"},
}

func formatText(t *ast.Text) string {
	if t.Format.Has(ast.CodeFormat) {
		return "#raw(" + Quote(t.Text) + ")"
	}
	s := Escape(t.Text)
	for i := len(textFormats) - 1; i >= 0; i-- {
		if f := textFormats[i]; t.Format.Has(f.flag) {
			s = "#" + f.fn + "[" + s + "]"
		}
	}
	return s
}

func (c *Compiler) math(m *ast.Math) string {
	var src string
	if m.Typst != nil {
		src = *m.Typst
	} else {
		var formula string
		if m.ExpandedFormula != nil {
			formula = *m.ExpandedFormula
		} else if m.Formula != nil {
			formula = *m.Formula
		}
		conv := c.Math
		if conv == nil {
			conv = mathconv.TeX{}
		}
		macros := c.Macros
		if macros == nil {
			macros = DefaultMacros
		}
		src = strings.TrimSpace(conv.Convert(formula, macros))
		src = strings.ReplaceAll(src, Placeholder, "space")
	}
	if m.Inline {
		return "$" + src + "$"
	}
	return "$ " + src + " $"
}

// nestsList reports whether item only exists to hold a sub-list of
// the previous item. The check looks at the first child alone.
func nestsList(item ast.Node) bool {
	li, ok := item.(*ast.ListItem)
	if !ok || len(li.Children) == 0 {
		return false
	}
	_, ok = li.Children[0].(*ast.List)
	return ok
}

func (c *Compiler) list(l *ast.List) (string, error) {
	var b strings.Builder
	if l.ListType == ast.Number {
		b.WriteString("\n#enum(start: " + strconv.Itoa(l.Start))
		if len(l.Children) > 0 {
			b.WriteString(", ")
		}
	} else {
		b.WriteString("\n#list(")
	}
	for i, item := range l.Children {
		if i > 0 {
			if nestsList(item) {
				b.WriteString(" + ")
			} else {
				b.WriteString(", ")
			}
		}
		s, err := c.Compile(item)
		if err != nil {
			return "", err
		}
		b.WriteString("[" + s + "]")
	}
	b.WriteString(")\n")
	return applyDirection(b.String(), l.Direction), nil
}

// table takes its column count from the first row. Rows of other
// widths are emitted as they are.
func (c *Compiler) table(t *ast.Table) (string, error) {
	n := 0
	if len(t.Children) > 0 {
		n = len(ast.Children(t.Children[0]))
	}
	cols := make([]string, n)
	for i := range cols {
		cols[i] = "1fr"
	}
	rows, err := c.joined(t.Children, ", ")
	if err != nil {
		return "", err
	}
	s := "#table(columns: (" + strings.Join(cols, ", ") + ")"
	if rows != "" {
		s += ", " + rows
	}
	return applyDirection(s+")", t.Direction), nil
}

func headingDepth(tag string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToLower(tag), "h"))
	if err != nil || n < 1 {
		return 1
	}
	return n
}
