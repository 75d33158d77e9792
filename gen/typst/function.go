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
	"sort"
	"strings"

	"akhil.cc/tyxgen/ast"
)

// StringifyFunction renders a call with the default Compiler.
func StringifyFunction(name string, positional []ast.Value, named map[string]ast.Value, includeContent bool) (string, error) {
	return std.StringifyFunction(name, positional, named, includeContent)
}

// StringifyFunction renders the call name(args...) without the leading #.
// Positional arguments keep their order; content arguments are skipped
// unless includeContent is set. Named arguments follow in key order.
// Omitted values are dropped.
func (c *Compiler) StringifyFunction(name string, positional []ast.Value, named map[string]ast.Value, includeContent bool) (string, error) {
	args := make([]string, 0, len(positional)+len(named))
	for _, v := range positional {
		if _, ok := v.(*ast.ContentValue); ok && !includeContent {
			continue
		}
		s, ok, err := c.SerializeValue(v)
		if err != nil {
			return "", err
		}
		if ok {
			args = append(args, s)
		}
	}
	keys := make([]string, 0, len(named))
	for k := range named {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		s, ok, err := c.SerializeValue(named[k])
		if err != nil {
			return "", err
		}
		if ok {
			args = append(args, k+": "+s)
		}
	}
	return call(name, args), nil
}

func call(name string, args []string) string {
	return name + "(" + strings.Join(args, ", ") + ")"
}

// Functions are the Typst functions the editor offers out of the box.
var Functions = map[string]ast.FunctionDefinition{
	"h": {
		Positional: []ast.Parameter{
			{Type: "length", Label: "Amount", Documentation: "How much spacing to insert", Required: true},
		},
		Named: []ast.NamedParameter{
			{Name: "weak", Parameter: ast.Parameter{Type: "boolean", Label: "Weak", Documentation: weakDoc}},
		},
	},
	"v": {
		Positional: []ast.Parameter{
			{Type: "length", Label: "Amount", Documentation: "How much spacing to insert", Required: true},
		},
		Named: []ast.NamedParameter{
			{Name: "weak", Parameter: ast.Parameter{Type: "boolean", Label: "Weak", Documentation: weakDoc}},
		},
	},
	"footnote": {
		Positional: []ast.Parameter{
			{Type: "content", Label: "Content", Required: true},
		},
	},
}

const weakDoc = "If true, the spacing collapses at the start or end of a paragraph. " +
	"Moreover, from multiple adjacent weak spacings all but the largest one collapse"

// LookupFunction finds the definition of name, preferring the ones
// declared in the document settings over the built-in Functions.
func LookupFunction(name string, settings *ast.Settings) (ast.FunctionDefinition, bool) {
	if settings != nil {
		if def, ok := settings.Functions[name]; ok {
			return def, true
		}
	}
	def, ok := Functions[name]
	return def, ok
}

// NewFunctionCall returns a call of name whose arguments are unset
// values of the types its definition declares.
func NewFunctionCall(name string, def ast.FunctionDefinition) *ast.FunctionCall {
	fc := &ast.FunctionCall{
		Name:       &name,
		Inline:     def.Inline,
		Positional: make([]ast.Value, len(def.Positional)),
		Named:      make(map[string]ast.Value, len(def.Named)),
	}
	for i, p := range def.Positional {
		fc.Positional[i] = emptyValue(p.Type)
	}
	for _, p := range def.Named {
		fc.Named[p.Name] = emptyValue(p.Type)
	}
	return fc
}

func emptyValue(typ string) ast.Value {
	switch typ {
	case "length":
		return &ast.LengthValue{}
	case "boolean":
		return &ast.BooleanValue{}
	case "content":
		return &ast.ContentValue{}
	}
	return &ast.UnknownValue{Name: typ}
}

// Label renders a call without its content arguments, dropping an
// empty argument list, e.g. "h(1em)" or "footnote".
func Label(fc *ast.FunctionCall) (string, error) {
	name := ""
	if fc.Name != nil {
		name = *fc.Name
	}
	s, err := StringifyFunction(name, fc.Positional, fc.Named, false)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(s, "()"), nil
}
