package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperror "estoquemaster/internal/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct valida as tags `validate` do payload e devolve um InvalidInputError
// descrevendo os campos rejeitados, ou nil.
func Struct(data interface{}) error {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return apperror.NewInvalidInputError("Payload não pôde ser validado.")
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		msgs = append(msgs, describe(fe))
	}
	return apperror.NewInvalidInputError(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("o campo %s é obrigatório", field)
	case "email":
		return fmt.Sprintf("o campo %s deve ser um e-mail válido", field)
	case "gte":
		return fmt.Sprintf("o campo %s deve ser maior ou igual a %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("o campo %s deve ser menor ou igual a %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("o campo %s deve ter no mínimo %s caracteres", field, fe.Param())
	case "max":
		return fmt.Sprintf("o campo %s deve ter no máximo %s caracteres", field, fe.Param())
	}
	return fmt.Sprintf("o campo %s é inválido (%s)", field, fe.Tag())
}
