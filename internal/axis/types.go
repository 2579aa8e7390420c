package axis

// Type classifies an axis by the kind of motion it commands.
type Type string

// Axis types.
const (
	// TypeLinear is a translational degree of freedom.
	TypeLinear Type = "linear"

	// TypeRotation is a rotational degree of freedom.
	TypeRotation Type = "rotation"

	// TypeAuxiliary is a non-positional channel (valve, vibration, etc.).
	TypeAuxiliary Type = "auxiliary"

	// TypeBoolean is an on/off channel.
	TypeBoolean Type = "boolean"
)

// AllTypes returns every valid axis type.
func AllTypes() []Type {
	return []Type{TypeLinear, TypeRotation, TypeAuxiliary, TypeBoolean}
}

// Value is the commanded position of an axis. Exactly one field is
// meaningful, selected by IsBool: Num for linear, rotation and
// auxiliary axes (normalised to [0,1]), On for boolean axes.
//
// Construct values through Number or Boolean so IsBool is set
// consistently.
type Value struct {
	Num    float64 `json:"num"`
	On     bool    `json:"on"`
	IsBool bool    `json:"is_bool,omitempty"`
}

// Number returns a numeric axis value.
func Number(v float64) Value {
	return Value{Num: v}
}

// Boolean returns a boolean axis value.
func Boolean(on bool) Value {
	return Value{On: on, IsBool: true}
}

// Config holds the full configuration and live value of one axis.
//
// Config contains no reference fields, so a plain value copy is an
// isolated snapshot.
type Config struct {
	// Name is the unique machine identifier, also the wire token prefix
	// (e.g. "L0").
	Name string `json:"name"`

	// Type is one of linear, rotation, auxiliary, boolean.
	Type Type `json:"type"`

	// Alias is an optional second unique key resolving to this axis
	// (e.g. "stroke"). Empty means no alias.
	Alias string `json:"alias,omitempty"`

	// Min and Max bound the output range within [0,1]. Min < Max.
	// Ignored for boolean axes.
	Min float64 `json:"min"`
	Max float64 `json:"max"`

	// Value is the current commanded position. Defaults to 0.5 for
	// numeric axes and off for boolean axes.
	Value Value `json:"value"`
}

// IsBoolean reports whether the axis carries on/off values.
func (c Config) IsBoolean() bool {
	return c.Type == TypeBoolean
}

// defaultValue returns the initial value for a freshly configured axis.
func defaultValue(t Type) Value {
	if t == TypeBoolean {
		return Boolean(false)
	}
	return Number(0.5)
}
