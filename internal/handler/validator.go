package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator plugs go-playground/validator into echo.  Error messages
// name fields by their json tag.
type RequestValidator struct {
	v *validator.Validate
}

func NewRequestValidator() *RequestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &RequestValidator{v: v}
}

func (rv *RequestValidator) Validate(i interface{}) error {
	err := rv.v.Struct(i)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", fe.Field())
	case "datetime":
		return fmt.Errorf("%s must be YYYY-MM-DD", fe.Field())
	case "email":
		return fmt.Errorf("%s must be an email address", fe.Field())
	case "oneof":
		return fmt.Errorf("%s must be one of %s", fe.Field(), fe.Param())
	case "min", "gte":
		return fmt.Errorf("%s must be at least %s", fe.Field(), fe.Param())
	case "max", "lte":
		return fmt.Errorf("%s must be at most %s", fe.Field(), fe.Param())
	}
	return fmt.Errorf("%s is invalid", fe.Field())
}

// decode binds the JSON body into dst and validates it.  The returned error
// is safe to show to the client.
func decode(c echo.Context, dst interface{}) error {
	if err := c.Bind(dst); err != nil {
		return errors.New("invalid request body")
	}
	if c.Echo().Validator == nil {
		return nil
	}
	return c.Validate(dst)
}
