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

package mathconv_test

import (
	"testing"

	"akhil.cc/tyxgen/mathconv"
	"github.com/stretchr/testify/assert"
)

type smallcase struct {
	in   string
	want string
}

var convertSmall = []smallcase{
	{``, ``},
	{`x`, `x`},
	{`xy`, `x y`},
	{`12`, `12`},
	{`x^2`, `x^2`},
	{`x^{10}`, `x^(10)`},
	{`x_{i j}`, `x_(i j)`},
	{`\frac{1}{2}`, `frac(1, 2)`},
	{`\dfrac{a+b}{c}`, `frac(a+b, c)`},
	{`\sqrt{x}`, `sqrt(x)`},
	{`\sqrt[3]{x}`, `root(3, x)`},
	{`\frac{a,b}{c}`, `frac(a\,b, c)`},
	{`\frac{\frac{a}{b}}{c;d}`, `frac(frac(a, b), c\;d)`},
	{`\sqrt[a,b]{x}`, `root(a\,b, x)`},
	{`\mathbf{x,y}`, `bold(x\,y)`},
	{`f(x, y)`, `f(x,y)`},
	{`\alpha + \beta`, `alpha+beta`},
	{`\text{if}`, `"if"`},
	{`\text{say "hi"}`, `"say \"hi\""`},
	{`\left( x \right)`, `(x)`},
	{`\left. x \right|`, `x|`},
	{`\vec{v}`, `arrow(v)`},
	{`\bar{x}`, `macron(x)`},
	{`\mathbb{R}`, `bb(R)`},
	{`\foo`, `foo`},
	{`a/b`, `a slash b`},
	{`\#`, `\#`},
	{`#`, `\#`},
	{`\infty`, `infinity`},
	{`x \leq y`, `x<=y`},
}

func TestConvert(t *testing.T) {
	for i, test := range convertSmall {
		got := mathconv.TeX{}.Convert(test.in, nil)
		assert.Equal(t, test.want, got, "case %d, in %q", i, test.in)
	}
}

func TestConvertMacros(t *testing.T) {
	macros := map[string]string{
		`\differentialD`: `\mathrm{d}`,
		`\R`:             `\mathbb{R}`,
		`\Rn`:            `\mathbb{R}^n`,
	}
	tests := []smallcase{
		{`\differentialD`, `upright(d)`},
		{`\R`, `bb(R)`},
		{`\Rn`, `bb(R)^n`},
	}
	for i, test := range tests {
		got := mathconv.TeX{}.Convert(test.in, macros)
		assert.Equal(t, test.want, got, "case %d, in %q", i, test.in)
	}
}
