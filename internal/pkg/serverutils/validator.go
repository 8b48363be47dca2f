package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type ValidationError struct {
	Fields []string
}

func (e ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// ValidateRequest checks the validate tags of req.
func ValidateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			fields = append(fields, fmt.Sprintf("%s: %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		fields = append(fields, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return ValidationError{Fields: fields}
}
