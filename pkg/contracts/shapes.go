package contracts

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// Shape describes the legal domain of a parameter value.
type Shape interface {
	// ShapeName is the wire discriminator, e.g. "NumberShape".
	ShapeName() string
	// Validate checks the shape's own attributes.
	Validate() error
	// ValidateValue checks that v is an admissible value type for the shape.
	// Bounds are enforced by the runtime, not here.
	ValidateValue(v any) error
}

// NumberShape admits decimal.Decimal and Go integer values.
type NumberShape struct {
	MinValue *decimal.Decimal `json:"min_value,omitempty"`
	MaxValue *decimal.Decimal `json:"max_value,omitempty"`
	Step     *decimal.Decimal `json:"step,omitempty"`
}

func (NumberShape) ShapeName() string { return "NumberShape" }

func (s NumberShape) Validate() error {
	if s.MinValue != nil && s.MaxValue != nil && s.MinValue.GreaterThan(*s.MaxValue) {
		return invalidf("NumberShape min_value must be less than max_value")
	}
	return nil
}

func (NumberShape) ValidateValue(v any) error {
	if _, ok := v.(decimal.Decimal); ok {
		return nil
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return nil
	}
	return strongTypingf("Expected Union[Decimal, int], got '%v' of type %T", v, v)
}

// StringShape admits strings.
type StringShape struct{}

func (StringShape) ShapeName() string { return "StringShape" }
func (StringShape) Validate() error { return nil }
func (StringShape) ValidateValue(v any) error { return expectString(v) }

// AccountIDShape admits account id strings.
type AccountIDShape struct{}

func (AccountIDShape) ShapeName() string { return "AccountIdShape" }
func (AccountIDShape) Validate() error { return nil }
func (AccountIDShape) ValidateValue(v any) error { return expectString(v) }

// DenominationShape admits denomination strings, optionally limited to a
// permitted set by the runtime.
type DenominationShape struct {
	PermittedDenominations []string `json:"permitted_denominations,omitempty"`
}

func (DenominationShape) ShapeName() string { return "DenominationShape" }

func (s DenominationShape) Validate() error {
	for i, d := range s.PermittedDenominations {
		if d == "" {
			return strongTypingf("'permitted_denominations[%d]' must be a non-empty string", i)
		}
	}
	return nil
}

func (DenominationShape) ValidateValue(v any) error { return expectString(v) }

// DateShape admits time.Time values. Bounds must be UTC.
type DateShape struct {
	MinDate *time.Time `json:"min_date,omitempty"`
	MaxDate *time.Time `json:"max_date,omitempty"`
}

func (DateShape) ShapeName() string { return "DateShape" }

func (s DateShape) Validate() error {
	if s.MinDate != nil {
		if err := requireUTC(*s.MinDate, "min_date", "DateShape"); err != nil {
			return err
		}
	}
	if s.MaxDate != nil {
		if err := requireUTC(*s.MaxDate, "max_date", "DateShape"); err != nil {
			return err
		}
	}
	if s.MinDate != nil && s.MaxDate != nil && s.MaxDate.Before(*s.MinDate) {
		return invalidf("DateShape min_date must be less than max_date")
	}
	return nil
}

func (DateShape) ValidateValue(v any) error {
	if _, ok := v.(time.Time); ok {
		return nil
	}
	return strongTypingf("Expected datetime, got '%v' of type %T", v, v)
}

// UnionItem is one choice of a UnionShape.
type UnionItem struct {
	Key         string `json:"key"`
	DisplayName string `json:"display_name"`
}

func (i UnionItem) Validate() error {
	if i.Key == "" {
		return strongTypingf("UnionItem init arg 'key' must be populated")
	}
	if i.DisplayName == "" {
		return strongTypingf("UnionItem init arg 'display_name' must be populated")
	}
	return nil
}

// UnionItemValue selects a UnionItem by key.
type UnionItemValue struct {
	Key string `json:"key"`
}

func (v UnionItemValue) Validate() error {
	if v.Key == "" {
		return strongTypingf("UnionItemValue init arg 'key' must be populated")
	}
	return nil
}

// UnionShape admits a UnionItemValue whose key is one of Items.
type UnionShape struct {
	Items []UnionItem `json:"items"`
}

func (UnionShape) ShapeName() string { return "UnionShape" }

func (s UnionShape) Validate() error {
	if len(s.Items) == 0 {
		return invalidf("UnionShape __init__ 'items' must be a non empty list, got []")
	}
	for _, item := range s.Items {
		if err := item.Validate(); err != nil {
			return prefixed("UnionShape __init__ ", err)
		}
	}
	return nil
}

func (s UnionShape) ValidateValue(v any) error {
	uv, ok := v.(UnionItemValue)
	if !ok {
		return strongTypingf("Expected UnionItemValue, got '%v' of type %T", v, v)
	}
	if err := uv.Validate(); err != nil {
		return err
	}
	for _, item := range s.Items {
		if item.Key == uv.Key {
			return nil
		}
	}
	return invalidf("UnionItemValue with key %q not allowed in this UnionShape", uv.Key)
}

// OptionalValue wraps the value of an OptionalShape parameter.
type OptionalValue struct {
	Value any  `json:"value,omitempty"`
	IsSet bool `json:"is_set"`
}

// Some returns a populated OptionalValue.
func Some(v any) OptionalValue { return OptionalValue{Value: v, IsSet: true} }

func (v OptionalValue) Validate() error {
	if !v.IsSet && v.Value != nil {
		return invalidf("OptionalValue holds a value but is not set")
	}
	switch v.Value.(type) {
	case nil, decimal.Decimal, string, time.Time, UnionItemValue, int, int64:
		return nil
	}
	return strongTypingf("'value' expected Union[Decimal, str, datetime, UnionItemValue, int], got '%v' of type %T", v.Value, v.Value)
}

// OptionalShape wraps another non-optional shape.
type OptionalShape struct {
	Shape Shape `json:"-"`
}

func (OptionalShape) ShapeName() string { return "OptionalShape" }

func (s OptionalShape) Validate() error {
	switch s.Shape.(type) {
	case nil:
		return strongTypingf("OptionalShape init arg 'shape' expected Shape, got None")
	case OptionalShape:
		return strongTypingf("OptionalShape init arg 'shape' must be an instance of a non optional Shape class")
	}
	return s.Shape.Validate()
}

// ValidateValue requires an OptionalValue and checks the inner value
// against the wrapped shape when it is set.
func (s OptionalShape) ValidateValue(v any) error {
	ov, ok := v.(OptionalValue)
	if !ok {
		return strongTypingf("Expected OptionalValue, got '%v' of type %T", v, v)
	}
	if err := ov.Validate(); err != nil {
		return err
	}
	if !ov.IsSet {
		return nil
	}
	return s.Shape.ValidateValue(ov.Value)
}

func (s OptionalShape) MarshalJSON() ([]byte, error) {
	inner, err := MarshalShape(s.Shape)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Shape json.RawMessage `json:"shape"`
	}{inner})
}

func (s *OptionalShape) UnmarshalJSON(data []byte) error {
	var raw struct {
		Shape json.RawMessage `json:"shape"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	inner, err := UnmarshalShape(raw.Shape)
	if err != nil {
		return err
	}
	s.Shape = inner
	return nil
}

func expectString(v any) error {
	if _, ok := v.(string); ok {
		return nil
	}
	return strongTypingf("Expected str, got '%v' of type %T", v, v)
}

type shapeEnvelope struct {
	Kind string          `json:"kind"`
	Spec json.RawMessage `json:"spec,omitempty"`
}

// MarshalShape encodes a shape with its kind discriminator.
func MarshalShape(s Shape) ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	spec, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return json.Marshal(shapeEnvelope{Kind: s.ShapeName(), Spec: spec})
}

// UnmarshalShape decodes the output of MarshalShape.
func UnmarshalShape(data []byte) (Shape, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	var env shapeEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	switch env.Kind {
	case "NumberShape":
		var s NumberShape
		err := unmarshalSpec(env.Spec, &s)
		return s, err
	case "StringShape":
		return StringShape{}, nil
	case "AccountIdShape":
		return AccountIDShape{}, nil
	case "DenominationShape":
		var s DenominationShape
		err := unmarshalSpec(env.Spec, &s)
		return s, err
	case "DateShape":
		var s DateShape
		err := unmarshalSpec(env.Spec, &s)
		return s, err
	case "UnionShape":
		var s UnionShape
		err := unmarshalSpec(env.Spec, &s)
		return s, err
	case "OptionalShape":
		var s OptionalShape
		err := unmarshalSpec(env.Spec, &s)
		return s, err
	}
	return nil, fmt.Errorf("contracts: unknown shape kind %q", env.Kind)
}

func unmarshalSpec(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// decodeShapeValue decodes a raw default value against the type its shape admits.
func decodeShapeValue(s Shape, raw json.RawMessage) (any, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	switch sh := s.(type) {
	case NumberShape:
		var d decimal.Decimal
		err := json.Unmarshal(raw, &d)
		return d, err
	case DateShape:
		var t time.Time
		err := json.Unmarshal(raw, &t)
		return t, err
	case UnionShape:
		var u UnionItemValue
		err := json.Unmarshal(raw, &u)
		return u, err
	case OptionalShape:
		var env struct {
			Value json.RawMessage `json:"value"`
			IsSet bool            `json:"is_set"`
		}
		if err := json.Unmarshal(raw, &env); err != nil {
			return nil, err
		}
		inner, err := decodeShapeValue(sh.Shape, env.Value)
		if err != nil {
			return nil, err
		}
		return OptionalValue{Value: inner, IsSet: env.IsSet}, nil
	default:
		var str string
		err := json.Unmarshal(raw, &str)
		return str, err
	}
}
