// Package validation provides input validation for configuration and
// user-supplied options.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. All failures are reported
// as INVALID_INPUT errors.
//
// # Struct Tag Validation
//
//	type Options struct {
//	    Workers int `validate:"gte=1"`
//	}
//	err := validation.ValidateStruct(opts)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Min("workers", workers, 1)
//	err := v.Err()
package validation
