// Package validation validates request forms with struct tags.
//
//	type loginForm struct {
//	    Email    string `form:"email" validate:"required"`
//	    Password string `form:"password" validate:"required"`
//	}
//	if err := validation.Validate(form); err != nil { ... }
//
// A missing required field is reported as a MISSING_FIELD error naming the
// first absent field in declaration order ("email missing"); any other
// failure is a VALIDATION_ERROR listing every field.
package validation
