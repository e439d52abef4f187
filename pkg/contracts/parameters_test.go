package contracts

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParameter_Validate(t *testing.T) {
	utc := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	tokyo := time.FixedZone("JST", 9*3600)

	tests := []struct {
		name    string
		p       Parameter
		wantErr string
		typing  bool
	}{
		{
			name: "template number with default",
			p:    Parameter{Name: "rate", Shape: NumberShape{}, Level: ParameterLevelTemplate, DefaultValue: decimal.NewFromFloat(0.1)},
		},
		{
			name: "instance optional without default",
			p:    Parameter{Name: "nickname", Shape: OptionalShape{Shape: StringShape{}}, Level: ParameterLevelInstance},
		},
		{
			name: "derived instance",
			p:    Parameter{Name: "accrued", Shape: NumberShape{}, Level: ParameterLevelInstance, Derived: true},
		},
		{
			name:    "missing name",
			p:       Parameter{Shape: StringShape{}, Level: ParameterLevelGlobal},
			wantErr: "Parameter attribute 'name' must be a non-empty string",
			typing:  true,
		},
		{
			name:    "missing shape",
			p:       Parameter{Name: "x", Level: ParameterLevelGlobal},
			wantErr: "Parameter attribute 'shape' expected Shape, got None",
			typing:  true,
		},
		{
			name:   "bad level",
			p:      Parameter{Name: "x", Shape: StringShape{}, Level: "ACCOUNT"},
			typing: true,
		},
		{
			name:    "instance without default",
			p:       Parameter{Name: "overdraft_limit", Shape: NumberShape{}, Level: ParameterLevelInstance},
			wantErr: "Instance Parameters with non optional shapes must have a default value: overdraft_limit",
		},
		{
			name:    "optional default on plain shape",
			p:       Parameter{Name: "x", Shape: StringShape{}, Level: ParameterLevelTemplate, DefaultValue: Some("a")},
			wantErr: "Non optional shapes must have a non optional default value: x",
		},
		{
			name:    "derived template",
			p:       Parameter{Name: "x", Shape: NumberShape{}, Level: ParameterLevelTemplate, Derived: true},
			wantErr: "Derived Parameters can only be INSTANCE level: x",
		},
		{
			name:    "derived with permission",
			p:       Parameter{Name: "x", Shape: NumberShape{}, Level: ParameterLevelInstance, Derived: true, UpdatePermission: PermissionFixed},
			wantErr: "Derived Parameters cannot have a default value or update permissions: x",
		},
		{
			name:    "non utc default",
			p:       Parameter{Name: "opened", Shape: DateShape{}, Level: ParameterLevelInstance, DefaultValue: utc.In(tokyo)},
			wantErr: "'default_value' of Parameter must have timezone UTC, currently JST.",
		},
		{
			name:   "default does not fit shape",
			p:      Parameter{Name: "x", Shape: NumberShape{}, Level: ParameterLevelInstance, DefaultValue: "ten"},
			typing: true,
		},
		{
			name:   "optional default inner mismatch",
			p:      Parameter{Name: "x", Shape: OptionalShape{Shape: DateShape{}}, Level: ParameterLevelInstance, DefaultValue: Some("soon")},
			typing: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.wantErr == "" && !tt.typing {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.typing {
				assert.ErrorIs(t, err, ErrStrongTyping)
			} else {
				assert.ErrorIs(t, err, ErrInvalidSmartContract)
			}
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, err.Error())
			}
		})
	}
}

func TestParameter_JSONRoundTripTypedDefault(t *testing.T) {
	opened := time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC)
	params := []Parameter{
		{Name: "rate", Shape: NumberShape{MaxValue: dec("1")}, Level: ParameterLevelTemplate, DefaultValue: decimal.RequireFromString("0.05")},
		{Name: "opened", Shape: DateShape{}, Level: ParameterLevelInstance, DefaultValue: opened},
		{Name: "freq", Shape: UnionShape{Items: []UnionItem{{Key: "m", DisplayName: "Monthly"}}}, Level: ParameterLevelInstance, DefaultValue: UnionItemValue{Key: "m"}},
		{Name: "limit", Shape: OptionalShape{Shape: NumberShape{}}, Level: ParameterLevelInstance, DefaultValue: Some(decimal.NewFromInt(5))},
	}
	for _, p := range params {
		t.Run(p.Name, func(t *testing.T) {
			data, err := json.Marshal(p)
			require.NoError(t, err)

			got, err := Decode[Parameter](data)
			require.NoError(t, err)
			assert.Equal(t, p.Name, got.Name)
			assert.Equal(t, p.Shape.ShapeName(), got.Shape.ShapeName())

			switch want := p.DefaultValue.(type) {
			case decimal.Decimal:
				assert.True(t, want.Equal(got.DefaultValue.(decimal.Decimal)))
			case time.Time:
				assert.True(t, want.Equal(got.DefaultValue.(time.Time)))
			case OptionalValue:
				ov := got.DefaultValue.(OptionalValue)
				assert.True(t, ov.IsSet)
				assert.True(t, want.Value.(decimal.Decimal).Equal(ov.Value.(decimal.Decimal)))
			default:
				assert.Equal(t, want, got.DefaultValue)
			}
		})
	}
}

func TestDecodeTrustedSkipsValidation(t *testing.T) {
	data := []byte(`{"name":"limit","shape":{"kind":"NumberShape","spec":{}},"level":"INSTANCE"}`)

	_, err := Decode[Parameter](data)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidSmartContract)

	p, err := DecodeTrusted[Parameter](data)
	require.NoError(t, err)
	assert.Equal(t, "limit", p.Name)
	assert.Nil(t, p.DefaultValue)
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew(Parameter{Name: "x", Shape: NumberShape{}, Level: ParameterLevelInstance})
	})
	assert.NotPanics(t, func() {
		MustNew(Parameter{Name: "x", Shape: NumberShape{}, Level: ParameterLevelGlobal})
	})
}
