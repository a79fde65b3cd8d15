package lib

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind names one attribute of a component, e.g. "role" or "pin_count".
type Kind string

const (
	KindRole         Kind = "role"
	KindPackage      Kind = "package"
	KindPinCount     Kind = "pin_count"
	KindResistance   Kind = "resistance"
	KindCapacitance  Kind = "capacitance"
	KindInductance   Kind = "inductance"
	KindTolerance    Kind = "tolerance"
	KindPower        Kind = "power"
	KindVoltage      Kind = "voltage"
	KindCurrent      Kind = "current"
	KindDielectric   Kind = "dielectric"
	KindPinType      Kind = "pin_type"
	KindPinNames     Kind = "pin_names"
	KindSymbolStyle  Kind = "symbol_style"
	KindESeries      Kind = "e_series"
	KindManufacturer Kind = "manufacturer"
	KindMPN          Kind = "mpn"
	KindSupplier     Kind = "supplier"
	KindSupplierPN   Kind = "supplier_pn"
	KindSupplierURL  Kind = "supplier_url"
	KindDatasheet    Kind = "datasheet"
	KindDescription  Kind = "description"
	KindKeywords     Kind = "keywords"
)

// Roles understood by the default rule table.
const (
	RoleResistor  = "resistor"
	RoleCapacitor = "capacitor"
	RoleInductor  = "inductor"
	RoleConnector = "connector"
	RoleIC        = "ic"
)

/*
	Value is either text or a number. Numbers keep full precision; text is
	stored as given.
*/
type Value struct {
	text   string
	number float64
	isNum  bool
}

// Text returns a text value.
func Text(s string) Value {
	return Value{text: s}
}

// Number returns a numeric value.
func Number(f float64) Value {
	return Value{number: f, isNum: true}
}

// Int returns a numeric value holding an integer.
func Int(i int) Value {
	return Number(float64(i))
}

func (v Value) IsNumber() bool { return v.isNum }

// Float returns the numeric value, parsing text when needed.
func (v Value) Float() (float64, bool) {
	if v.isNum {
		return v.number, true
	}
	f, err := ParseEngineering(v.text)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Int returns the value as an int if it holds a whole number.
func (v Value) Int() (int, bool) {
	f, ok := v.Float()
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// String renders the value the way it is written into library files.
func (v Value) String() string {
	if v.isNum {
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	}
	return v.text
}

// Attribute is one kind/value pair of a component.
type Attribute struct {
	Kind  Kind
	Value Value
}

type shapeType int

const (
	shapeRange shapeType = iota
	shapeEnum
	shapePattern
)

/*
	Shape declares which values a kind accepts: a numeric range, an
	enumerated set or a string pattern.
*/
type Shape struct {
	typ     shapeType
	min     float64
	max     float64
	integer bool
	values  []string
	pattern *regexp.Regexp
}

// Range accepts numbers in [min, max].
func Range(min, max float64) Shape {
	return Shape{typ: shapeRange, min: min, max: max}
}

// IntRange accepts whole numbers in [min, max].
func IntRange(min, max int) Shape {
	return Shape{typ: shapeRange, min: float64(min), max: float64(max), integer: true}
}

// Enum accepts one of the listed strings.
func Enum(values ...string) Shape {
	return Shape{typ: shapeEnum, values: values}
}

// Pattern accepts strings matching expr. It panics on a bad expression,
// like regexp.MustCompile.
func Pattern(expr string) Shape {
	return Shape{typ: shapePattern, pattern: regexp.MustCompile(expr)}
}

// Values returns the accepted values of an enum shape.
func (s Shape) Values() []string {
	return append([]string(nil), s.values...)
}

func (s Shape) String() string {
	switch s.typ {
	case shapeRange:
		if s.integer {
			return fmt.Sprintf("integer %g..%g", s.min, s.max)
		}
		return fmt.Sprintf("number %g..%g", s.min, s.max)
	case shapeEnum:
		return "one of " + strings.Join(s.values, "|")
	default:
		return "text matching " + s.pattern.String()
	}
}

func (s Shape) check(kind Kind, v Value) error {
	if !v.isNum && !utf8.ValidString(v.text) {
		return invalidValue(kind, strconv.Quote(v.text), "not valid UTF-8")
	}
	switch s.typ {
	case shapeRange:
		f, ok := v.Float()
		if !ok {
			return invalidValue(kind, v.String(), "not a number")
		}
		if math.IsNaN(f) || f < s.min || f > s.max {
			return invalidValue(kind, v.String(), "outside "+s.String())
		}
		if s.integer && f != math.Trunc(f) {
			return invalidValue(kind, v.String(), "not an integer")
		}
	case shapeEnum:
		if v.isNum {
			return invalidValue(kind, v.String(), "expected "+s.String())
		}
		for _, allowed := range s.values {
			if v.text == allowed {
				return nil
			}
		}
		return invalidValue(kind, v.String(), "expected "+s.String())
	case shapePattern:
		if v.isNum || !s.pattern.MatchString(v.text) {
			return invalidValue(kind, v.String(), "expected "+s.String())
		}
	}
	return nil
}

// parse converts caller text into a Value of this shape.
func (s Shape) parse(kind Kind, raw string) (Value, error) {
	if s.typ != shapeRange {
		return Text(raw), nil
	}
	f, err := ParseEngineering(raw)
	if err != nil {
		return Value{}, invalidValue(kind, raw, err.Error())
	}
	return Number(f), nil
}
