package http

import (
	"errors"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// ReadAndValidateRequest binds path/query/body params into req, applies
// declared defaults, and validates. Returns nil on success or a slice of
// ValidationError suitable for a 400 response body.
func ReadAndValidateRequest(c echo.Context, req interface{}) interface{} {
	if err := c.Bind(req); err != nil {
		return []ValidationError{{Code: "ERR_BIND", Message: err.Error()}}
	}

	if err := defaults.Set(req); err != nil {
		return []ValidationError{{Code: "ERR_DEFAULTS", Message: err.Error()}}
	}

	if err := validate.StructCtx(c.Request().Context(), req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			out := make([]ValidationError, 0, len(verrs))
			for _, fe := range verrs {
				out = append(out, ValidationError{
					Code:    "ERR_" + fe.Tag(),
					Field:   fe.Field(),
					Message: fe.Error(),
				})
			}
			return out
		}
		return []ValidationError{{Code: "ERR_VALIDATION", Message: err.Error()}}
	}

	return nil
}
