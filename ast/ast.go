package ast

//go:generate sumgen Node = *Root | *Paragraph | *Text | *Math | *List | *ListItem | *Quote | *Code | *Table | *TableRow | *TableCell | *LineBreak | *HorizontalRule | *TypstCode | *Image | *Link | *Heading | *FunctionCall | *Unknown
type Node interface {
	Type() string
	node()
}

//go:generate sumgen Value = *LengthValue | *BooleanValue | *ContentValue | *UnknownValue
type Value interface {
	Type() string
	value()
}

// Document is the persisted form of a TyX document.
// Schema, Filename and Dirty belong to the editing session and
// are never consulted by a generator.
type Document struct {
	Schema   string
	Version  string
	Preamble *string
	Filename *string
	Dirty    *bool
	Content  *DocumentContent
	Settings *Settings
}

type DocumentContent struct {
	Root *Root
}

// Settings wraps the common Typst document configuration options
// together with the options handed to the typesetting engine.
type Settings struct {
	Language    *string
	Paper       *string
	Flipped     *bool
	Justified   *bool
	Columns     *float64
	Indentation *Length
	Root        *string
	FontPaths   []string
	Functions   map[string]FunctionDefinition
}

// Length is a Typst relative or fraction length, e.g. 1.5em or 20%.
type Length struct {
	Unit  *string
	Value *string
}

// FunctionDefinition describes the parameters of a Typst function
// the editor knows how to insert.
type FunctionDefinition struct {
	Inline     *bool
	Positional []Parameter
	Named      []NamedParameter
}

type Parameter struct {
	Type          string
	Label         string
	Documentation string
	Required      bool
}

type NamedParameter struct {
	Name string
	Parameter
}

type Direction string

const (
	DirectionNone Direction = ""
	LTR           Direction = "ltr"
	RTL           Direction = "rtl"
)

type Alignment string

const (
	AlignNone    Alignment = ""
	AlignLeft    Alignment = "left"
	AlignStart   Alignment = "start"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignEnd     Alignment = "end"
	AlignJustify Alignment = "justify"
)

// Format is the text format bitmask of a text run.
type Format int

const (
	Bold Format = 1 << iota
	Italic
	Strikethrough
	Underline
	CodeFormat
	Subscript
	Superscript
)

func (f Format) Has(flag Format) bool {
	return f&flag != 0
}

type ListType string

const (
	Bullet ListType = "bullet"
	Number ListType = "number"
	Check  ListType = "check"
)

type Root struct {
	Children  []Node
	Direction Direction
}

type Paragraph struct {
	Children  []Node
	Format    Alignment
	Direction Direction
}

type Text struct {
	Text   string
	Format Format
}

// Math holds a formula in source notation. Typst, when set, is
// already Typst math and takes precedence over the formulas.
type Math struct {
	Typst           *string
	Formula         *string
	ExpandedFormula *string
	Inline          bool
}

type List struct {
	Children  []Node
	ListType  ListType
	Start     int
	Direction Direction
}

type ListItem struct {
	Children []Node
	Value    int
}

type Quote struct {
	Children  []Node
	Direction Direction
}

type Code struct {
	Children []Node
	Language *string
}

type Table struct {
	Children  []Node
	Direction Direction
}

type TableRow struct {
	Children []Node
}

type TableCell struct {
	Children  []Node
	Direction Direction
}

type LineBreak struct{}

type HorizontalRule struct{}

// TypstCode embeds raw Typst source, stored as the root of its own editor state.
type TypstCode struct {
	Root *Root
}

type Image struct {
	Src string
}

type Link struct {
	Children []Node
	URL      string
}

type Heading struct {
	Tag      string
	Children []Node
}

type FunctionCall struct {
	Name       *string
	Inline     *bool
	Positional []Value
	Named      map[string]Value
}

// Unknown stands in for a node whose discriminator is missing
// or not known to this version.
type Unknown struct {
	Name string
}

type LengthValue struct {
	Length
}

type BooleanValue struct {
	Value *bool
}

type ContentValue struct {
	Value *Root
}

type UnknownValue struct {
	Name string
}

func (*Root) Type() string           { return "root" }
func (*Paragraph) Type() string      { return "paragraph" }
func (*Text) Type() string           { return "text" }
func (*Math) Type() string           { return "math" }
func (*List) Type() string           { return "list" }
func (*ListItem) Type() string       { return "listitem" }
func (*Quote) Type() string          { return "quote" }
func (*Code) Type() string           { return "code" }
func (*Table) Type() string          { return "table" }
func (*TableRow) Type() string       { return "tablerow" }
func (*TableCell) Type() string      { return "tablecell" }
func (*LineBreak) Type() string      { return "linebreak" }
func (*HorizontalRule) Type() string { return "horizontalrule" }
func (*TypstCode) Type() string      { return "typstcode" }
func (*Image) Type() string          { return "image" }
func (*Link) Type() string           { return "link" }
func (*Heading) Type() string        { return "heading" }
func (*FunctionCall) Type() string   { return "functioncall" }
func (u *Unknown) Type() string      { return u.Name }

func (*Root) node()           {}
func (*Paragraph) node()      {}
func (*Text) node()           {}
func (*Math) node()           {}
func (*List) node()           {}
func (*ListItem) node()       {}
func (*Quote) node()          {}
func (*Code) node()           {}
func (*Table) node()          {}
func (*TableRow) node()       {}
func (*TableCell) node()      {}
func (*LineBreak) node()      {}
func (*HorizontalRule) node() {}
func (*TypstCode) node()      {}
func (*Image) node()          {}
func (*Link) node()           {}
func (*Heading) node()        {}
func (*FunctionCall) node()   {}
func (*Unknown) node()        {}

func (*LengthValue) Type() string    { return "length" }
func (*BooleanValue) Type() string   { return "boolean" }
func (*ContentValue) Type() string   { return "content" }
func (u *UnknownValue) Type() string { return u.Name }

func (*LengthValue) value()  {}
func (*BooleanValue) value() {}
func (*ContentValue) value() {}
func (*UnknownValue) value() {}

// Children returns the child nodes of n, or nil for leaf nodes.
// The children of a TypstCode are those of its embedded root.
func Children(n Node) []Node {
	switch t := n.(type) {
	case *Root:
		return t.Children
	case *Paragraph:
		return t.Children
	case *List:
		return t.Children
	case *ListItem:
		return t.Children
	case *Quote:
		return t.Children
	case *Code:
		return t.Children
	case *Table:
		return t.Children
	case *TableRow:
		return t.Children
	case *TableCell:
		return t.Children
	case *Link:
		return t.Children
	case *Heading:
		return t.Children
	case *TypstCode:
		if t.Root != nil {
			return t.Root.Children
		}
	}
	return nil
}

func setChildren(n Node, children []Node) {
	switch t := n.(type) {
	case *Root:
		t.Children = children
	case *Paragraph:
		t.Children = children
	case *List:
		t.Children = children
	case *ListItem:
		t.Children = children
	case *Quote:
		t.Children = children
	case *Code:
		t.Children = children
	case *Table:
		t.Children = children
	case *TableRow:
		t.Children = children
	case *TableCell:
		t.Children = children
	case *Link:
		t.Children = children
	case *Heading:
		t.Children = children
	case *TypstCode:
		if t.Root != nil {
			t.Root.Children = children
		}
	}
}

// Walk calls f on n and then, depth first, on every descendant of the
// node f returned. A nil node returned for a child removes it from its
// parent. Walk stops at the first error.
func Walk(n Node, f Walker) (Node, error) {
	if n == nil {
		return nil, nil
	}
	nn, err := f(n)
	if err != nil || nn == nil {
		return nn, err
	}
	children := Children(nn)
	if children == nil {
		return nn, nil
	}
	kept := children[:0]
	for _, c := range children {
		s, err := Walk(c, f)
		if err != nil {
			return nn, err
		}
		if s != nil {
			kept = append(kept, s)
		}
	}
	setChildren(nn, kept)
	return nn, nil
}

type Walker func(Node) (Node, error)

// PlainText returns the raw text of the subtree rooted at n, ignoring
// formatting. Line breaks become newlines and math contributes its
// Typst source.
func PlainText(n Node) string {
	var b []byte
	b = appendText(b, n)
	return string(b)
}

func appendText(b []byte, n Node) []byte {
	switch t := n.(type) {
	case *Text:
		return append(b, t.Text...)
	case *LineBreak:
		return append(b, '\n')
	case *Math:
		if t.Typst != nil {
			return append(b, *t.Typst...)
		}
		return b
	}
	for _, c := range Children(n) {
		b = appendText(b, c)
	}
	return b
}
