// Package validation checks transfer settings before they reach a handle.
//
// Struct tag validation uses go-playground/validator with two extra tags:
// "header" accepts request header lines in the forms a handle understands
// ("Name: value", "Name:" to remove, "Name;" for an empty value), and
// "scheme" accepts an absolute URL with one of the listed schemes.
//
//	type Profile struct {
//	    URL     string   `validate:"required,scheme=http https"`
//	    Headers []string `validate:"dive,header"`
//	}
//	err := validation.Validate(p)
//
// The fluent Validator collects errors for values that have no struct:
//
//	err := validation.New().
//	    Required("url", raw).
//	    Range("max_redirs", n, -1, 1000).
//	    Validate()
package validation
