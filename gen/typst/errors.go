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
	"errors"
	"fmt"
)

// ErrMissingNodeType is returned when a node lacks its type discriminator.
var ErrMissingNodeType = errors.New("typst: node does not contain a type")

// UnsupportedNodeTypeError is returned for a node type no converter exists for.
type UnsupportedNodeTypeError struct {
	Type string
}

func (e *UnsupportedNodeTypeError) Error() string {
	return fmt.Sprintf("typst: unsupported node type %q", e.Type)
}

// UnknownValueTypeError is returned for a function argument of unknown type.
type UnknownValueTypeError struct {
	Type string
}

func (e *UnknownValueTypeError) Error() string {
	return fmt.Sprintf("typst: unknown value type %q", e.Type)
}

// IsCorrupt reports whether err was caused by a structurally invalid
// document, as opposed to an I/O or decoding failure.
func IsCorrupt(err error) bool {
	var un *UnsupportedNodeTypeError
	var uv *UnknownValueTypeError
	return errors.Is(err, ErrMissingNodeType) || errors.As(err, &un) || errors.As(err, &uv)
}
