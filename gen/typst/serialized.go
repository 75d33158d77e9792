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
	"akhil.cc/tyxgen/ast"
	"akhil.cc/tyxgen/parser"
)

// A DecodeError reports JSON input that could not be decoded into a
// document tree or function arguments. Nothing was converted.
type DecodeError struct {
	What string
	Err  error
}

func (e *DecodeError) Error() string {
	return "decoding " + e.What + ": " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ConvertJSON converts a persisted document into a Typst source file.
// Decoding failures are returned as a *DecodeError; conversion failures
// are returned as is, so IsCorrupt can tell them apart.
func ConvertJSON(doc []byte) (string, error) {
	d, err := parser.ParseBytes(doc)
	if err != nil {
		return "", &DecodeError{What: "document", Err: err}
	}
	return Assemble(d)
}

// StringifyJSON renders a function call whose arguments are given as
// JSON, a list for the positional and an object for the named ones.
// Either may be empty.
func StringifyJSON(name string, positional, named []byte, includeContent bool) (string, error) {
	var (
		pos []ast.Value
		nv  map[string]ast.Value
		err error
	)
	if len(positional) > 0 {
		if pos, err = parser.ParseValues(positional); err != nil {
			return "", &DecodeError{What: "positional arguments", Err: err}
		}
	}
	if len(named) > 0 {
		if nv, err = parser.ParseNamedValues(named); err != nil {
			return "", &DecodeError{What: "named arguments", Err: err}
		}
	}
	return StringifyFunction(name, pos, nv, includeContent)
}
