package contracts

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Parameter is a contract parameter declaration.
type Parameter struct {
	Name             string
	Shape            Shape
	Level            ParameterLevel
	Derived          bool
	DisplayName      string
	Description      string
	DefaultValue     any
	UpdatePermission ParameterUpdatePermission
}

func (p Parameter) validateAttributeTypes() error {
	if p.Name == "" {
		return strongTypingf("Parameter attribute 'name' must be a non-empty string")
	}
	if p.Shape == nil {
		return strongTypingf("Parameter attribute 'shape' expected Shape, got None")
	}
	if err := p.Shape.Validate(); err != nil {
		return prefixed("Parameter attribute ", err)
	}
	if err := requireValidEnum("level", "ParameterLevel", p.Level); err != nil {
		return prefixed("Parameter attribute ", err)
	}
	switch p.DefaultValue.(type) {
	case nil, decimal.Decimal, string, time.Time, OptionalValue, UnionItemValue, int, int64:
	default:
		return strongTypingf(
			"Parameter attribute 'default_value' expected Union[Decimal, str, datetime, OptionalValue, UnionItemValue, int], got '%v' of type %T",
			p.DefaultValue, p.DefaultValue)
	}
	if p.UpdatePermission != "" {
		if err := requireValidEnum("update_permission", "ParameterUpdatePermission", p.UpdatePermission); err != nil {
			return prefixed("Parameter attribute ", err)
		}
	}
	return nil
}

// Validate enforces the parameter invariants. The first violation wins.
func (p Parameter) Validate() error {
	if err := p.validateAttributeTypes(); err != nil {
		return err
	}

	optional := false
	if _, ok := p.Shape.(OptionalShape); ok {
		optional = true
	}
	if p.Level == ParameterLevelInstance && p.DefaultValue == nil && !optional && !p.Derived {
		return invalidf("Instance Parameters with non optional shapes must have a default value: %s", p.Name)
	}
	if _, isOpt := p.DefaultValue.(OptionalValue); isOpt && !optional {
		return invalidf("Non optional shapes must have a non optional default value: %s", p.Name)
	}
	if p.Derived && p.Level != ParameterLevelInstance {
		return invalidf("Derived Parameters can only be INSTANCE level: %s", p.Name)
	}
	if p.Derived && (p.DefaultValue != nil || p.UpdatePermission != "") {
		return invalidf("Derived Parameters cannot have a default value or update permissions: %s", p.Name)
	}
	if t, ok := p.DefaultValue.(time.Time); ok {
		if err := requireUTC(t, "default_value", "Parameter"); err != nil {
			return err
		}
	}
	if p.DefaultValue == nil {
		return nil
	}

	shape, value := p.Shape, p.DefaultValue
	if opt, ok := shape.(OptionalShape); ok {
		if err := opt.ValidateValue(value); err != nil {
			return err
		}
		ov := value.(OptionalValue)
		if !ov.IsSet {
			return nil
		}
		shape, value = opt.Shape, ov.Value
	}
	return shape.ValidateValue(value)
}

// IsOptional reports whether the parameter's shape is an OptionalShape.
func (p Parameter) IsOptional() bool {
	_, ok := p.Shape.(OptionalShape)
	return ok
}

type parameterJSON struct {
	Name             string                    `json:"name"`
	Shape            json.RawMessage           `json:"shape"`
	Level            ParameterLevel            `json:"level"`
	Derived          bool                      `json:"derived,omitempty"`
	DisplayName      string                    `json:"display_name,omitempty"`
	Description      string                    `json:"description,omitempty"`
	DefaultValue     json.RawMessage           `json:"default_value,omitempty"`
	UpdatePermission ParameterUpdatePermission `json:"update_permission,omitempty"`
}

func (p Parameter) MarshalJSON() ([]byte, error) {
	shape, err := MarshalShape(p.Shape)
	if err != nil {
		return nil, err
	}
	out := parameterJSON{
		Name:             p.Name,
		Shape:            shape,
		Level:            p.Level,
		Derived:          p.Derived,
		DisplayName:      p.DisplayName,
		Description:      p.Description,
		UpdatePermission: p.UpdatePermission,
	}
	if p.DefaultValue != nil {
		if out.DefaultValue, err = json.Marshal(p.DefaultValue); err != nil {
			return nil, err
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the default value as the type the shape admits.
func (p *Parameter) UnmarshalJSON(data []byte) error {
	var in parameterJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	shape, err := UnmarshalShape(in.Shape)
	if err != nil {
		return err
	}
	value, err := decodeShapeValue(shape, in.DefaultValue)
	if err != nil {
		return err
	}
	*p = Parameter{
		Name:             in.Name,
		Shape:            shape,
		Level:            in.Level,
		Derived:          in.Derived,
		DisplayName:      in.DisplayName,
		Description:      in.Description,
		DefaultValue:     value,
		UpdatePermission: in.UpdatePermission,
	}
	return nil
}

// ParameterTimeseries is the history of a parameter's value.
type ParameterTimeseries = Timeseries[any]

// FlagTimeseries is the history of a flag's presence.
type FlagTimeseries = Timeseries[bool]
