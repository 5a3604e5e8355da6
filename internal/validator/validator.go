// Package validator mounts go-playground/validator as Echo's request
// validator so handlers can call c.Validate on bound DTOs. Field
// constraints live as `validate` tags on the DTO structs.
package validator

import (
	"net/http"

	gpvalidator "github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// RequestValidator implements echo.Validator.
type RequestValidator struct {
	v *gpvalidator.Validate
}

// New constructs a RequestValidator ready to assign to echo.Validator.
func New() *RequestValidator {
	return &RequestValidator{v: gpvalidator.New()}
}

// Validate runs struct validation and converts violations into a 400
// echo.HTTPError so the framework renders field-level detail without
// any handler involvement.
func (rv *RequestValidator) Validate(i interface{}) error {
	if err := rv.v.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}
