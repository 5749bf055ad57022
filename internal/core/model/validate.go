package model

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the struct tags of a request record. Failures are reported as
// ErrInvalidArgument with a reason naming the first offending field.
func Validate(args any) error {
	err := validate.Struct(args)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validating %T: %w", args, err)
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return Errorf(ErrInvalidArgument, "%s is required", fe.Field())
	case "mongodb":
		return Errorf(ErrInvalidArgument, "%s is not a valid id", fe.Field())
	case "gte", "lte", "max":
		return Errorf(ErrInvalidArgument, "Invalid %s", fe.Field())
	}
	return Errorf(ErrInvalidArgument, "%s is invalid", fe.Field())
}
