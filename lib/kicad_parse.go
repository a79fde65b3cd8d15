package lib

import (
	"errors"
	"fmt"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var sexpLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Atom", Pattern: `[^\s()"]+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

// sexpNode is a string, a bare atom or a nested list.
type sexpNode struct {
	Str  *string   `parser:"  @String"`
	Atom *string   `parser:"| @Atom"`
	List *sexpList `parser:"| @@"`
}

type sexpList struct {
	Open  string      `parser:"@LParen"`
	Items []*sexpNode `parser:"@@* RParen"`
}

type sexpDoc struct {
	Root *sexpList `parser:"@@"`
}

var sexpParser = participle.MustBuild[sexpDoc](
	participle.Lexer(sexpLexer),
	participle.Unquote("String"),
	participle.Elide("Whitespace"),
)

func (n *sexpNode) value() (string, bool) {
	switch {
	case n.Str != nil:
		return *n.Str, true
	case n.Atom != nil:
		return *n.Atom, true
	}
	return "", false
}

func (l *sexpList) head() string {
	if len(l.Items) == 0 || l.Items[0].Atom == nil {
		return ""
	}
	return *l.Items[0].Atom
}

// arg returns the i-th scalar after the head.
func (l *sexpList) arg(i int) (string, bool) {
	if i+1 >= len(l.Items) {
		return "", false
	}
	return l.Items[i+1].value()
}

func (l *sexpList) children(head string) []*sexpList {
	var out []*sexpList
	for _, it := range l.Items {
		if it.List != nil && it.List.head() == head {
			out = append(out, it.List)
		}
	}
	return out
}

func parseSexp(text string) (*sexpList, error) {
	doc, err := sexpParser.ParseString("", text)
	if err != nil {
		var perr participle.Error
		if errors.As(err, &perr) {
			pos := perr.Position()
			return nil, &ParseError{Line: pos.Line, Column: pos.Column, Msg: perr.Message()}
		}
		return nil, &ParseError{Msg: err.Error()}
	}
	return doc.Root, nil
}

// fields that are derived from other attributes and not read back
var derivedFields = map[string]bool{
	"Reference":     true,
	"Value":         true,
	"Footprint":     true,
	"ki_fp_filters": true,
}

/*
	ParseSymbol reads one symbol, either a bare symbol block or the first
	symbol of a library, back into a component. Only attributes that the
	emitter would not derive on its own are set, so emitting the result
	reproduces the input.
*/
func (k *KiCad) ParseSymbol(reg *Registry, text string) (*Component, error) {
	root, err := parseSexp(text)
	if err != nil {
		return nil, err
	}

	sym := root
	if root.head() == "kicad_symbol_lib" {
		syms := root.children("symbol")
		if len(syms) == 0 {
			return nil, &ParseError{Msg: "library holds no symbol"}
		}
		sym = syms[0]
	}
	return symbolComponent(reg, sym)
}

// ParseLibrary reads every symbol of a .kicad_sym library.
func (k *KiCad) ParseLibrary(reg *Registry, text string) ([]*Component, error) {
	root, err := parseSexp(text)
	if err != nil {
		return nil, err
	}
	if root.head() != "kicad_symbol_lib" {
		return nil, &ParseError{Msg: fmt.Sprintf("expected kicad_symbol_lib, found %q", root.head())}
	}

	var components []*Component
	for _, sym := range root.children("symbol") {
		c, err := symbolComponent(reg, sym)
		if err != nil {
			return nil, err
		}
		components = append(components, c)
	}
	return components, nil
}

func symbolComponent(reg *Registry, sym *sexpList) (*Component, error) {
	if sym.head() != "symbol" {
		return nil, &ParseError{Msg: fmt.Sprintf("expected symbol, found %q", sym.head())}
	}

	name, ok := sym.arg(0)
	if !ok {
		return nil, &ParseError{Msg: "symbol has no name"}
	}
	c, err := NewComponent(reg, name)
	if err != nil {
		return nil, &ParseError{Msg: err.Error()}
	}

	var description, keywords, datasheet string
	for _, prop := range sym.children("property") {
		key, ok1 := prop.arg(0)
		value, ok2 := prop.arg(1)
		if !ok1 || !ok2 {
			return nil, &ParseError{Msg: "property needs a key and a value"}
		}

		switch key {
		case "Description", "ki_description":
			description = value
			continue
		case "ki_keywords":
			keywords = value
			continue
		case "Datasheet":
			datasheet = value
			continue
		}
		if derivedFields[key] {
			continue
		}

		kind, ok := reg.KindForField(key)
		if !ok {
			return nil, &ParseError{Msg: fmt.Sprintf("unknown property %q", key)}
		}
		if err := c.SetString(kind, value); err != nil {
			return nil, &ParseError{Msg: fmt.Sprintf("property %q: %s", key, err)}
		}
	}

	pins := 0
	for _, unit := range sym.children("symbol") {
		pins += len(unit.children("pin"))
	}
	if !c.Has(KindPinCount) {
		if err := c.Set(KindPinCount, Int(pins)); err != nil {
			return nil, &ParseError{Msg: err.Error()}
		}
	} else if c.PinCount() != pins {
		return nil, &ParseError{Msg: fmt.Sprintf("pin count %d but %d pins drawn", c.PinCount(), pins)}
	}

	// only non-default text survives as an attribute
	if datasheet != "" && datasheet != "~" {
		if err := c.SetString(KindDatasheet, datasheet); err != nil {
			return nil, &ParseError{Msg: err.Error()}
		}
	}
	if keywords != "" && keywords != Keywords(c) {
		if err := c.SetString(KindKeywords, keywords); err != nil {
			return nil, &ParseError{Msg: err.Error()}
		}
	}
	if description != "" && description != DefaultDescription(c) {
		if err := c.SetString(KindDescription, description); err != nil {
			return nil, &ParseError{Msg: err.Error()}
		}
	}
	return c, nil
}
