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

// Package mathconv converts formulas written in LaTeX-like notation, as
// produced by the math input widget, into Typst math syntax.
//
// Only the subset the widget emits is understood: fractions, roots, scripts,
// font commands, \left/\right delimiters, \text and a table of symbols.
// Unknown commands are emitted by name, so \alpha and an unlisted \foo both
// become identifiers.
package mathconv // import "akhil.cc/tyxgen/mathconv"

import (
	"sort"
	"strings"
	"unicode"
)

// Converter transforms a formula into Typst math. Macros are expanded
// textually before conversion, longest name first.
type Converter interface {
	Convert(formula string, macros map[string]string) string
}

// TeX is the default Converter for LaTeX-like notation.
type TeX struct{}

func (TeX) Convert(formula string, macros map[string]string) string {
	c := &converter{toks: tokenize(expand(formula, macros))}
	return c.seq(false)
}

func expand(s string, macros map[string]string) string {
	if len(macros) == 0 {
		return s
	}
	names := make([]string, 0, len(macros))
	for k := range macros {
		names = append(names, k)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	pairs := make([]string, 0, 2*len(names))
	for _, k := range names {
		pairs = append(pairs, k, macros[k])
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

type tokKind int

const (
	tChar tokKind = iota
	tCmd
	tOpen
	tClose
	tSup
	tSub
	tSpace
)

type token struct {
	kind tokKind
	text string
}

func tokenize(s string) []token {
	var toks []token
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		switch {
		case r == '\\':
			j := i + 1
			for j < len(rs) && unicode.IsLetter(rs[j]) {
				j++
			}
			if j == i+1 && j < len(rs) {
				j++
			}
			toks = append(toks, token{tCmd, string(rs[i+1 : j])})
			i = j - 1
		case r == '{':
			toks = append(toks, token{tOpen, "{"})
		case r == '}':
			toks = append(toks, token{tClose, "}"})
		case r == '^':
			toks = append(toks, token{tSup, "^"})
		case r == '_':
			toks = append(toks, token{tSub, "_"})
		case unicode.IsSpace(r):
			if len(toks) == 0 || toks[len(toks)-1].kind != tSpace {
				toks = append(toks, token{tSpace, " "})
			}
		default:
			toks = append(toks, token{tChar, string(r)})
		}
	}
	return toks
}

type converter struct {
	toks []token
	pos  int
	// args is the number of enclosing function call arguments.
	args int
}

func (c *converter) peek() (token, bool) {
	if c.pos >= len(c.toks) {
		return token{}, false
	}
	return c.toks[c.pos], true
}

func (c *converter) next() (token, bool) {
	t, ok := c.peek()
	if ok {
		c.pos++
	}
	return t, ok
}

func (c *converter) skipSpace() {
	for t, ok := c.peek(); ok && t.kind == tSpace; t, ok = c.peek() {
		c.pos++
	}
}

// seq converts tokens until the end of input, or until the closing
// brace of the current group when inGroup is set.
func (c *converter) seq(inGroup bool) string {
	var b builder
	for {
		t, ok := c.peek()
		if !ok {
			break
		}
		if t.kind == tClose {
			if inGroup {
				c.pos++
				break
			}
			c.pos++
			continue
		}
		if t.kind == tSpace {
			c.pos++
			continue
		}
		b.add(c.atom())
	}
	return b.String()
}

// arg reads one argument: a braced group or a single atom.
func (c *converter) arg() string {
	c.skipSpace()
	t, ok := c.peek()
	if !ok {
		return ""
	}
	if t.kind == tOpen {
		c.pos++
		return c.seq(true)
	}
	return c.atom()
}

// rawArg reads a braced group verbatim, for \text.
func (c *converter) rawArg() string {
	c.skipSpace()
	t, ok := c.peek()
	if !ok || t.kind != tOpen {
		return ""
	}
	c.pos++
	var b strings.Builder
	depth := 0
	for t, ok := c.next(); ok; t, ok = c.next() {
		switch t.kind {
		case tOpen:
			depth++
		case tClose:
			if depth == 0 {
				return b.String()
			}
			depth--
		case tCmd:
			b.WriteString(t.text)
			continue
		}
		b.WriteString(t.text)
	}
	return b.String()
}

// callArg reads an argument that is passed to a Typst function call.
func (c *converter) callArg() string {
	c.args++
	defer func() { c.args-- }()
	return c.arg()
}

// optArg reads a bracketed optional argument such as the index of \sqrt[3]{x}.
func (c *converter) optArg() (string, bool) {
	c.skipSpace()
	t, ok := c.peek()
	if !ok || t.kind != tChar || t.text != "[" {
		return "", false
	}
	c.pos++
	c.args++
	defer func() { c.args-- }()
	var b builder
	for t, ok := c.peek(); ok; t, ok = c.peek() {
		if t.kind == tChar && t.text == "]" {
			c.pos++
			break
		}
		if t.kind == tSpace {
			c.pos++
			continue
		}
		b.add(c.atom())
	}
	return b.String(), true
}

func group(s string) string {
	if len([]rune(s)) == 1 {
		return s
	}
	return "(" + s + ")"
}

func (c *converter) atom() string {
	t, ok := c.next()
	if !ok {
		return ""
	}
	switch t.kind {
	case tOpen:
		return c.seq(true)
	case tSup:
		return "^" + group(c.arg())
	case tSub:
		return "_" + group(c.arg())
	case tCmd:
		return c.command(t.text)
	}
	return c.char(t.text)
}

func (c *converter) char(s string) string {
	switch s {
	case ",", ";":
		// Inside a call these would separate arguments.
		if c.args > 0 {
			return `\` + s
		}
	case "/":
		return "slash"
	case "#", "$", "\"":
		return `\` + s
	}
	return s
}

func (c *converter) command(name string) string {
	if sym, ok := symbols[name]; ok {
		return sym
	}
	if fn, ok := fonts[name]; ok {
		return fn + "(" + c.callArg() + ")"
	}
	switch name {
	case "frac", "dfrac", "tfrac":
		num := c.callArg()
		den := c.callArg()
		return "frac(" + num + ", " + den + ")"
	case "sqrt":
		if n, ok := c.optArg(); ok {
			return "root(" + n + ", " + c.callArg() + ")"
		}
		return "sqrt(" + c.callArg() + ")"
	case "text", "textrm", "mbox":
		return quote(c.rawArg())
	case "left", "right":
		c.skipSpace()
		t, ok := c.next()
		if !ok {
			return ""
		}
		if t.kind == tCmd {
			return c.command(t.text)
		}
		if t.text == "." {
			return ""
		}
		return t.text
	case "overline":
		return "overline(" + c.callArg() + ")"
	case "underline":
		return "underline(" + c.callArg() + ")"
	case "hat":
		return "hat(" + c.callArg() + ")"
	case "vec":
		return "arrow(" + c.callArg() + ")"
	case "bar":
		return "macron(" + c.callArg() + ")"
	case "dot":
		return "dot(" + c.callArg() + ")"
	case "tilde":
		return "tilde(" + c.callArg() + ")"
	}
	return name
}

func quote(s string) string {
	return `"` + strings.NewReplacer(`\`, `\\`, `"`, `\"`).Replace(s) + `"`
}

type builder struct {
	b    strings.Builder
	last rune
}

// add appends s, separating it from the previous piece with a space
// when the two would otherwise merge into one identifier.
func (b *builder) add(s string) {
	if s == "" {
		return
	}
	first := []rune(s)[0]
	if b.b.Len() > 0 && isWord(b.last) && (isWord(first) || first == '"') {
		if !(unicode.IsDigit(b.last) && unicode.IsDigit(first)) {
			b.b.WriteByte(' ')
		}
	}
	b.b.WriteString(s)
	rs := []rune(s)
	b.last = rs[len(rs)-1]
}

func (b *builder) String() string {
	return b.b.String()
}

func isWord(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

var fonts = map[string]string{
	"mathrm":     "upright",
	"mathbf":     "bold",
	"mathit":     "italic",
	"mathbb":     "bb",
	"mathcal":    "cal",
	"mathfrak":   "frak",
	"mathsf":     "sans",
	"mathtt":     "mono",
	"boldsymbol": "bold",
}

var symbols = map[string]string{
	"alpha": "alpha", "beta": "beta", "gamma": "gamma", "delta": "delta",
	"epsilon": "epsilon.alt", "varepsilon": "epsilon", "zeta": "zeta",
	"eta": "eta", "theta": "theta", "vartheta": "theta.alt", "iota": "iota",
	"kappa": "kappa", "lambda": "lambda", "mu": "mu", "nu": "nu", "xi": "xi",
	"pi": "pi", "varpi": "pi.alt", "rho": "rho", "varrho": "rho.alt",
	"sigma": "sigma", "varsigma": "sigma.alt", "tau": "tau",
	"upsilon": "upsilon", "phi": "phi.alt", "varphi": "phi", "chi": "chi",
	"psi": "psi", "omega": "omega",
	"Gamma": "Gamma", "Delta": "Delta", "Theta": "Theta", "Lambda": "Lambda",
	"Xi": "Xi", "Pi": "Pi", "Sigma": "Sigma", "Upsilon": "Upsilon",
	"Phi": "Phi", "Psi": "Psi", "Omega": "Omega",

	"cdot": "dot", "times": "times", "div": "div", "pm": "plus.minus",
	"mp": "minus.plus", "ast": "ast", "circ": "compose",
	"le": "<=", "leq": "<=", "ge": ">=", "geq": ">=", "ne": "!=", "neq": "!=",
	"approx": "approx", "equiv": "equiv", "sim": "tilde.op", "propto": "prop",
	"ll": "<<", "gg": ">>",
	"to": "->", "rightarrow": "->", "leftarrow": "<-", "Rightarrow": "=>",
	"Leftarrow": "arrow.l.double", "leftrightarrow": "<->",
	"Leftrightarrow": "<=>", "mapsto": "|->", "implies": "==>", "iff": "<==>",
	"infty": "infinity", "partial": "diff", "nabla": "nabla",
	"sum": "sum", "prod": "product", "int": "integral", "iint": "integral.double",
	"oint": "integral.cont",
	"in": "in", "notin": "in.not", "subset": "subset", "subseteq": "subset.eq",
	"supset": "supset", "supseteq": "supset.eq", "cup": "union", "cap": "sect",
	"emptyset": "emptyset", "varnothing": "nothing",
	"forall": "forall", "exists": "exists", "neg": "not", "land": "and", "lor": "or",
	"ldots": "dots", "dots": "dots", "cdots": "dots.c", "vdots": "dots.v",
	"ddots": "dots.down",
	"sin": "sin", "cos": "cos", "tan": "tan", "cot": "cot", "sec": "sec",
	"csc": "csc", "arcsin": "arcsin", "arccos": "arccos", "arctan": "arctan",
	"sinh": "sinh", "cosh": "cosh", "tanh": "tanh", "log": "log", "ln": "ln",
	"exp": "exp", "lim": "lim", "max": "max", "min": "min", "det": "det",
	"gcd": "gcd", "sup": "sup", "inf": "inf",
	"langle": "angle.l", "rangle": "angle.r", "lfloor": "floor.l",
	"rfloor": "floor.r", "lceil": "ceil.l", "rceil": "ceil.r",
	"{": "{", "}": "}", "|": "||", "%": "%", "$": `\$`, "#": `\#`, "&": "&",
	"_": "\\_",
	",": "thin", ":": "med", ";": "thick", " ": "space", "!": "",
	"quad": "quad", "qquad": "wide",
	"\\": `\`,
	"prime": "prime", "degree": "degree", "hbar": "planck.reduce", "ell": "ell",
}
