package model

import "fmt"

// ConfigError reports an unknown estimation method, anchor policy or unit.
type ConfigError struct {
	Field string
	Value string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("unknown %s %q", e.Field, e.Value)
}

// SchemaError reports that raw input could not be normalised into a series.
type SchemaError struct {
	Reason  string
	Headers []string
}

func (e *SchemaError) Error() string {
	if len(e.Headers) == 0 {
		return "schema: " + e.Reason
	}
	return fmt.Sprintf("schema: %s; got headers=%v", e.Reason, e.Headers)
}

// InputError reports a malformed per-request argument.
type InputError struct {
	Param   string
	Value   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Param, e.Value, e.Message)
}
