package cmdset

import (
	"fmt"
	"slices"

	"github.com/commandry/commandry/command"
)

// Args holds a handler's resolved argument values in declaration order.
// Values parsed from input keep their parser node's Go type; padded default
// values are passed through as declared. The typed accessors panic on a
// mismatch, which is a handler bug, not an input condition.
type Args []any

func (a Args) Len() int {
	return len(a)
}

func (a Args) At(i int) any {
	return a[i]
}

func (a Args) Int(i int) int {
	return a[i].(int)
}

func (a Args) Float(i int) float64 {
	return a[i].(float64)
}

func (a Args) Bool(i int) bool {
	return a[i].(bool)
}

func (a Args) Str(i int) string {
	return a[i].(string)
}

type argKind uint8

const (
	kindInteger argKind = iota
	kindFloat
	kindBoolean
	kindEnumeration
	kindText
	kindQuotableText
	kindGreedyText
)

var kindNames = [...]string{
	kindInteger:      "integer",
	kindFloat:        "float",
	kindBoolean:      "boolean",
	kindEnumeration:  "enumeration",
	kindText:         "text",
	kindQuotableText: "quotable text",
	kindGreedyText:   "greedy text",
}

// Arg describes one handler parameter: its name, semantic type, optional
// bounds or enumeration values, union alternatives, and an optional default.
// An Arg is consumed by [Node.Runs], which synthesizes the matching parser
// node(s) from it.
type Arg struct {
	name         string
	kind         argKind
	intBounds    []int
	floatBounds  []float64
	values       []string
	alts         []*Arg
	hasDefault   bool
	defaultValue any
}

// Integer describes an int parameter. Bounds are optional: one value sets
// the maximum, two set minimum and maximum.
func Integer(name string, bounds ...int) *Arg {
	return &Arg{name: name, kind: kindInteger, intBounds: bounds}
}

// Float describes a float64 parameter, with the same optional bounds as
// [Integer].
func Float(name string, bounds ...float64) *Arg {
	return &Arg{name: name, kind: kindFloat, floatBounds: bounds}
}

// Boolean describes a bool parameter.
func Boolean(name string) *Arg {
	return &Arg{name: name, kind: kindBoolean}
}

// Enumeration describes a string parameter restricted to the given values.
func Enumeration(name string, values ...string) *Arg {
	return &Arg{name: name, kind: kindEnumeration, values: values}
}

// Text describes a single-token string parameter.
func Text(name string) *Arg {
	return &Arg{name: name, kind: kindText}
}

// QuotableText describes a string parameter accepting either a token or a
// double-quoted string.
func QuotableText(name string) *Arg {
	return &Arg{name: name, kind: kindQuotableText}
}

// GreedyText describes a string parameter consuming the rest of the line.
// It must be the last parameter.
func GreedyText(name string) *Arg {
	return &Arg{name: name, kind: kindGreedyText}
}

// Or adds a union alternative parsed as a sibling of this spec. The
// alternative must carry the same name, no default, and no alternatives of
// its own; chain further alternatives on the first spec.
func (a *Arg) Or(alt *Arg) *Arg {
	if alt == nil {
		panic(fmt.Sprintf("argument %q cannot take a nil alternative", a.name))
	}
	if alt.name != a.name {
		panic(fmt.Sprintf("union alternative name %q does not match %q", alt.name, a.name))
	}
	if alt.hasDefault {
		panic(fmt.Sprintf("argument %q must carry the union's default on the first spec", a.name))
	}
	if len(alt.alts) > 0 {
		panic(fmt.Sprintf("argument %q must chain all alternatives on the first spec", a.name))
	}
	a.alts = append(a.alts, alt)
	return a
}

// Default marks this spec as a trailing-default parameter with the given
// value. Defaulted specs may only be followed by other defaulted specs, and
// every node before a defaulted parameter becomes a valid end of input,
// with the remaining values padded from the declared defaults.
func (a *Arg) Default(v any) *Arg {
	a.hasDefault = true
	a.defaultValue = v
	return a
}

// node builds a fresh parser node for one attachment of this spec.
func (a *Arg) node() command.Node {
	switch a.kind {
	case kindInteger:
		return command.Integer(a.name, a.intBounds...)
	case kindFloat:
		return command.Float(a.name, a.floatBounds...)
	case kindBoolean:
		return command.Boolean(a.name)
	case kindEnumeration:
		return command.Enumeration(a.name, a.values...)
	case kindText:
		return command.Text(a.name)
	case kindQuotableText:
		return command.QuotableText(a.name)
	default:
		return command.GreedyText(a.name)
	}
}

func (a *Arg) acceptsDefault(v any) bool {
	for _, alt := range append([]*Arg{a}, a.alts...) {
		switch alt.kind {
		case kindInteger:
			if _, ok := v.(int); ok {
				return true
			}
		case kindFloat:
			if _, ok := v.(float64); ok {
				return true
			}
		case kindBoolean:
			if _, ok := v.(bool); ok {
				return true
			}
		case kindEnumeration:
			if s, ok := v.(string); ok && slices.Contains(alt.values, s) {
				return true
			}
		default:
			if _, ok := v.(string); ok {
				return true
			}
		}
	}
	return false
}

func (a *Arg) describe() string {
	return fmt.Sprintf("%s %q", kindNames[a.kind], a.name)
}
