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

import "akhil.cc/tyxgen/ast"

// SerializeValue converts a function argument into a Typst literal with
// the default Compiler. The boolean result is false when the argument
// must be left out of the call altogether.
func SerializeValue(v ast.Value) (string, bool, error) {
	return std.SerializeValue(v)
}

// SerializeValue converts a function argument into a Typst literal.
// Unset booleans and absent or empty content are omitted. Lengths are
// written as value followed by unit, without validating the unit.
func (c *Compiler) SerializeValue(v ast.Value) (string, bool, error) {
	switch t := v.(type) {
	case *ast.LengthValue:
		return deref(t.Value) + deref(t.Unit), true, nil
	case *ast.BooleanValue:
		if t.Value == nil {
			return "", false, nil
		}
		if *t.Value {
			return "true", true, nil
		}
		return "false", true, nil
	case *ast.ContentValue:
		if t.Value == nil {
			return "", false, nil
		}
		s, err := c.Compile(t.Value)
		if err != nil {
			return "", false, err
		}
		if s == "" {
			return "", false, nil
		}
		return "[" + s + "]", true, nil
	case nil:
		return "", false, &UnknownValueTypeError{}
	default:
		return "", false, &UnknownValueTypeError{Type: v.Type()}
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
