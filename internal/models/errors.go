package models

import "fmt"

// InvalidEnumValueError reports an unrecognized severity or status token.
// It names the offending field and value so import errors are actionable.
type InvalidEnumValueError struct {
	Field string
	Value string
}

func (e *InvalidEnumValueError) Error() string {
	return fmt.Sprintf("invalid %s value: %q", e.Field, e.Value)
}
