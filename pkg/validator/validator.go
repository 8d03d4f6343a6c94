package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/garansi-api/internal/domain/numbering"
)

// FieldError describe un campo que no pasó la validación.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

// ValidationError agrupa los campos inválidos de una petición.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s(%s)", f.Field, f.Tag))
	}
	return "validación fallida: " + strings.Join(parts, ", ")
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	_ = validate.RegisterValidation("store_code", func(fl validator.FieldLevel) bool {
		return numbering.ValidStoreCode(numbering.NormalizeStoreCode(fl.Field().String()))
	})
}

// Struct valida data según sus tags `validate`. Devuelve *ValidationError o nil.
func Struct(data interface{}) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{Fields: make([]FieldError, 0, len(verrs))}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()})
	}
	return out
}
