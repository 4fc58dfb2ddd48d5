package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/thermaldesk/heatload-service/internal/units"
)

// Quantity is a physical value as it appears in a project document field.
//
// Three wire forms are accepted:
//
//	12.5          bare number, already in the field's canonical unit
//	"12.5"        string without a unit, same as a bare number
//	"54.5 degF"   value and unit in one string, converted during compilation
//
// The zero Quantity reports IsSet() == false. This is how optional fields
// that were omitted are told apart from fields explicitly set to zero, so a
// document author can write "dT_s: 0" and not silently fall back to a
// non-zero default.
type Quantity struct {
	value float64
	unit  string
	set   bool
}

// Qty builds a set Quantity. Pass an empty unit for canonical values.
func Qty(value float64, unit string) Quantity {
	return Quantity{value: value, unit: unit, set: true}
}

// IsSet reports whether the field was present in the document.
func (q Quantity) IsSet() bool { return q.set }

// In converts the quantity to the canonical unit of the given dimension.
// An unset quantity converts to zero.
func (q Quantity) In(d units.Dimension) (float64, error) {
	if !q.set {
		return 0, nil
	}
	return units.Convert(q.value, q.unit, d)
}

// InOr converts like In but substitutes def when the field is unset.
func (q Quantity) InOr(d units.Dimension, def float64) (float64, error) {
	if !q.set {
		return def, nil
	}
	return units.Convert(q.value, q.unit, d)
}

var errBadQuantity = errors.New(`quantity must be a number or a "value unit" string`)

func (q *Quantity) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return errBadQuantity
		}
		return q.parse(unquoted)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return errBadQuantity
	}
	*q = Quantity{value: v, set: true}
	return nil
}

func (q *Quantity) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return errBadQuantity
	}
	switch node.Tag {
	case "!!int", "!!float":
		v, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return fmt.Errorf("invalid quantity %q", node.Value)
		}
		*q = Quantity{value: v, set: true}
		return nil
	case "!!str":
		return q.parse(node.Value)
	case "!!null":
		return nil
	default:
		return errBadQuantity
	}
}

// parse splits a "value unit" string such as "12.5 degF" or "250 m3/h".
// The unit part may be absent, in which case the value is canonical.
func (q *Quantity) parse(s string) error {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return fmt.Errorf("empty quantity")
	}
	v, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return fmt.Errorf("invalid quantity %q: %q is not a number", s, fields[0])
	}
	*q = Quantity{value: v, unit: strings.Join(fields[1:], " "), set: true}
	return nil
}
