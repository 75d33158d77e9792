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
	"github.com/ohler55/ojg"
	"github.com/ohler55/ojg/oj"
)

// Assemble converts a whole document with the default Compiler.
func Assemble(doc *ast.Document) (string, error) {
	return std.Assemble(doc)
}

// Assemble converts a whole document into a Typst source file: a
// generated-by header, the settings (both as metadata the editor can
// read back and as set rules), the preamble verbatim and finally the
// compiled content.
func (c *Compiler) Assemble(doc *ast.Document) (string, error) {
	var body string
	if doc.Content != nil && doc.Content.Root != nil {
		var err error
		body, err = c.Compile(doc.Content.Root)
		if err != nil {
			return "", err
		}
	}

	var b strings.Builder
	b.WriteString("// Automatically generated by TyX")
	if doc.Version != "" {
		b.WriteString(" " + doc.Version)
	}
	b.WriteString(".\n\n// Settings\n")
	b.WriteString("#metadata(json(bytes(```json " + settingsJSON(doc.Settings) + "```.text))) <tyx-settings>\n")
	b.WriteString(c.settings(doc.Settings))
	if doc.Preamble != nil {
		b.WriteString("// Preamble\n" + *doc.Preamble + "\n\n")
	}
	if doc.Content != nil {
		b.WriteString("// Content\n" + body)
	}
	return b.String(), nil
}

func settingsJSON(s *ast.Settings) string {
	if s == nil {
		return "{}"
	}
	return oj.JSON(s.Data(), &ojg.Options{Sort: true})
}

// settings renders the set rules for the document settings.
func (c *Compiler) settings(s *ast.Settings) string {
	if s == nil {
		return ""
	}
	var b strings.Builder
	quoted := func(name, key, v string) {
		b.WriteString("#set " + call(name, []string{key + ": " + Quote(v)}) + "\n")
	}
	set := func(name, key string, v ast.Value) {
		if out, err := c.StringifyFunction(name, nil, map[string]ast.Value{key: v}, false); err == nil {
			b.WriteString("#set " + out + "\n")
		}
	}
	if s.Paper != nil {
		quoted("page", "paper", *s.Paper)
	}
	if s.Flipped != nil {
		set("page", "flipped", &ast.BooleanValue{Value: s.Flipped})
	}
	if s.Columns != nil {
		n := strconv.FormatFloat(*s.Columns, 'f', -1, 64)
		set("page", "columns", &ast.LengthValue{Length: ast.Length{Value: &n}})
	}
	if s.Language != nil {
		quoted("text", "lang", *s.Language)
	}
	if s.Justified != nil {
		set("par", "justify", &ast.BooleanValue{Value: s.Justified})
	}
	if ind := s.Indentation; ind != nil && deref(ind.Value) != "" && deref(ind.Unit) != "" {
		set("par", "first-line-indent", &ast.LengthValue{Length: *ind})
	}
	return b.String()
}
