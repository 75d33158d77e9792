package ast

// Data returns the generic JSON form of the document, the shape
// written to .tyx files. Absent optional fields are left out.
func (d *Document) Data() map[string]any {
	m := map[string]any{"version": d.Version}
	if d.Schema != "" {
		m["$schema"] = d.Schema
	}
	if d.Preamble != nil {
		m["preamble"] = *d.Preamble
	}
	if d.Filename != nil {
		m["filename"] = *d.Filename
	}
	if d.Dirty != nil {
		m["dirty"] = *d.Dirty
	}
	if d.Content != nil && d.Content.Root != nil {
		m["content"] = map[string]any{"root": NodeData(d.Content.Root)}
	}
	if d.Settings != nil {
		m["settings"] = d.Settings.Data()
	}
	return m
}

func (s *Settings) Data() map[string]any {
	m := map[string]any{}
	if s.Language != nil {
		m["language"] = *s.Language
	}
	if s.Paper != nil {
		m["paper"] = *s.Paper
	}
	if s.Flipped != nil {
		m["flipped"] = *s.Flipped
	}
	if s.Justified != nil {
		m["justified"] = *s.Justified
	}
	if s.Columns != nil {
		m["columns"] = *s.Columns
	}
	if s.Indentation != nil {
		m["indentation"] = s.Indentation.data()
	}
	if s.Root != nil {
		m["root"] = *s.Root
	}
	if s.FontPaths != nil {
		paths := make([]any, len(s.FontPaths))
		for i, p := range s.FontPaths {
			paths[i] = p
		}
		m["fontPaths"] = paths
	}
	if s.Functions != nil {
		fns := map[string]any{}
		for name, def := range s.Functions {
			fns[name] = def.data()
		}
		m["functions"] = fns
	}
	return m
}

func (l Length) data() map[string]any {
	m := map[string]any{}
	if l.Unit != nil {
		m["unit"] = *l.Unit
	}
	if l.Value != nil {
		m["value"] = *l.Value
	}
	return m
}

func (p Parameter) data() map[string]any {
	m := map[string]any{"type": p.Type}
	if p.Label != "" {
		m["label"] = p.Label
	}
	if p.Documentation != "" {
		m["documentation"] = p.Documentation
	}
	if p.Required {
		m["required"] = true
	}
	return m
}

func (f FunctionDefinition) data() map[string]any {
	m := map[string]any{}
	if f.Inline != nil {
		m["inline"] = *f.Inline
	}
	if f.Positional != nil {
		pos := make([]any, len(f.Positional))
		for i, p := range f.Positional {
			pos[i] = p.data()
		}
		m["positional"] = pos
	}
	if f.Named != nil {
		named := make([]any, len(f.Named))
		for i, p := range f.Named {
			pm := p.Parameter.data()
			pm["name"] = p.Name
			named[i] = pm
		}
		m["named"] = named
	}
	return m
}

func childrenData(children []Node) []any {
	out := make([]any, len(children))
	for i, c := range children {
		out[i] = NodeData(c)
	}
	return out
}

func directionData(d Direction) any {
	if d == DirectionNone {
		return nil
	}
	return string(d)
}

// NodeData returns the generic JSON form of a node.
func NodeData(n Node) map[string]any {
	m := map[string]any{"type": n.Type()}
	switch t := n.(type) {
	case *Root:
		m["children"] = childrenData(t.Children)
		m["direction"] = directionData(t.Direction)
	case *Paragraph:
		m["children"] = childrenData(t.Children)
		m["format"] = string(t.Format)
		m["direction"] = directionData(t.Direction)
	case *Text:
		m["text"] = t.Text
		m["format"] = int64(t.Format)
	case *Math:
		if t.Typst != nil {
			m["typst"] = *t.Typst
		}
		if t.Formula != nil {
			m["formula"] = *t.Formula
		}
		if t.ExpandedFormula != nil {
			m["expandedFormula"] = *t.ExpandedFormula
		}
		m["inline"] = t.Inline
	case *List:
		m["children"] = childrenData(t.Children)
		m["listType"] = string(t.ListType)
		m["start"] = int64(t.Start)
		m["direction"] = directionData(t.Direction)
	case *ListItem:
		m["children"] = childrenData(t.Children)
		m["value"] = int64(t.Value)
	case *Quote:
		m["children"] = childrenData(t.Children)
		m["direction"] = directionData(t.Direction)
	case *Code:
		m["children"] = childrenData(t.Children)
		if t.Language != nil {
			m["language"] = *t.Language
		}
	case *Table:
		m["children"] = childrenData(t.Children)
		m["direction"] = directionData(t.Direction)
	case *TableRow:
		m["children"] = childrenData(t.Children)
	case *TableCell:
		m["children"] = childrenData(t.Children)
		m["direction"] = directionData(t.Direction)
	case *TypstCode:
		root := t.Root
		if root == nil {
			root = &Root{}
		}
		m["text"] = map[string]any{
			"editorState": map[string]any{"root": NodeData(root)},
		}
	case *Image:
		m["src"] = t.Src
	case *Link:
		m["children"] = childrenData(t.Children)
		m["url"] = t.URL
	case *Heading:
		m["children"] = childrenData(t.Children)
		m["tag"] = t.Tag
	case *FunctionCall:
		if t.Name != nil {
			m["name"] = *t.Name
		}
		if t.Inline != nil {
			m["inline"] = *t.Inline
		}
		pos := make([]any, len(t.Positional))
		for i, v := range t.Positional {
			pos[i] = ValueData(v)
		}
		m["positionParameters"] = pos
		named := map[string]any{}
		for k, v := range t.Named {
			named[k] = ValueData(v)
		}
		m["namedParameters"] = named
	case *Unknown:
		if t.Name == "" {
			delete(m, "type")
		}
	}
	return m
}

// ValueData returns the generic JSON form of a function argument.
func ValueData(v Value) map[string]any {
	m := map[string]any{"type": v.Type()}
	switch t := v.(type) {
	case *LengthValue:
		for k, x := range t.Length.data() {
			m[k] = x
		}
	case *BooleanValue:
		if t.Value != nil {
			m["value"] = *t.Value
		}
	case *ContentValue:
		if t.Value != nil {
			m["value"] = NodeData(t.Value)
		}
	}
	return m
}
