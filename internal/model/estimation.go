package model

import "strings"

// Method names a rate estimation policy. Values are part of the HTTP and
// config contract; keep them stable.
type Method string

const (
	MethodMonthly    Method = "monthly"
	MethodRolling3M  Method = "rolling_3m"
	MethodAnnualized Method = "annualized"
)

// Methods lists the supported estimation methods.
var Methods = []Method{MethodMonthly, MethodRolling3M, MethodAnnualized}

// ParseMethod validates s against the supported methods.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.TrimSpace(s))
	for _, known := range Methods {
		if m == known {
			return m, nil
		}
	}
	return "", &ConfigError{Field: "method", Value: s}
}

// Anchor names an anchor policy.
type Anchor string

const (
	AnchorServerStart Anchor = "server_start"
	AnchorMonthEnd    Anchor = "month_end"
)

// Anchors lists the supported anchor policies.
var Anchors = []Anchor{AnchorServerStart, AnchorMonthEnd}

// ParseAnchor validates s against the supported anchor policies.
func ParseAnchor(s string) (Anchor, error) {
	a := Anchor(strings.TrimSpace(s))
	for _, known := range Anchors {
		if a == known {
			return a, nil
		}
	}
	return "", &ConfigError{Field: "anchor", Value: s}
}

// Unit is the scale of the stored amounts used by the live tick mode.
type Unit string

const (
	UnitEUR         Unit = "eur"
	UnitThousandEUR Unit = "thousand_eur"
	UnitMillionEUR  Unit = "million_eur"
)

// ParseUnit validates s. An empty string means UnitEUR.
func ParseUnit(s string) (Unit, error) {
	switch u := Unit(strings.TrimSpace(s)); u {
	case "":
		return UnitEUR, nil
	case UnitEUR, UnitThousandEUR, UnitMillionEUR:
		return u, nil
	default:
		return "", &ConfigError{Field: "unit", Value: s}
	}
}

// Multiplier converts an amount stored in u into euro.
func (u Unit) Multiplier() float64 {
	switch u {
	case UnitThousandEUR:
		return 1e3
	case UnitMillionEUR:
		return 1e6
	default:
		return 1
	}
}

// EstimationConfig is the immutable policy bundle behind a ComputedState.
// Timezone is informational only; all computation happens in UTC.
type EstimationConfig struct {
	Method   Method `json:"method" yaml:"method"`
	Anchor   Anchor `json:"anchor" yaml:"anchor"`
	Timezone string `json:"timezone" yaml:"timezone"`
}

// DefaultEstimationConfig mirrors the published defaults of the meter.
func DefaultEstimationConfig() EstimationConfig {
	return EstimationConfig{
		Method:   MethodRolling3M,
		Anchor:   AnchorServerStart,
		Timezone: "Europe/Dublin",
	}
}

// Validate checks method and anchor membership. It never substitutes defaults.
func (c EstimationConfig) Validate() error {
	_, err := c.Normalized()
	return err
}

// Normalized returns c with method and anchor in their canonical spelling,
// so that a padded " monthly" is computed and reported as "monthly".
func (c EstimationConfig) Normalized() (EstimationConfig, error) {
	m, err := ParseMethod(string(c.Method))
	if err != nil {
		return EstimationConfig{}, err
	}
	a, err := ParseAnchor(string(c.Anchor))
	if err != nil {
		return EstimationConfig{}, err
	}
	c.Method, c.Anchor = m, a
	c.Timezone = strings.TrimSpace(c.Timezone)
	return c, nil
}
