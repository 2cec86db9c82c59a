package validator_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/validator"
)

func TestStruct_MaterialInput(t *testing.T) {
	pct := 140
	err := validator.Struct(domain.MaterialInput{Quantity: -1, AlertPercentage: &pct})

	assert.Error(t, err)
	assert.IsType(t, &apperror.InvalidInputError{}, err)
	assert.Contains(t, err.Error(), "Name é obrigatório")
	assert.Contains(t, err.Error(), "SKU é obrigatório")
	assert.Contains(t, err.Error(), "Quantity deve ser maior ou igual a 0")
	assert.Contains(t, err.Error(), "AlertPercentage deve ser menor ou igual a 100")
}

func TestStruct_QuantitiesAboveLimit(t *testing.T) {
	err := validator.Struct(domain.MaterialInput{Name: "Areia", SKU: "ARE-001", Quantity: math.MaxInt, MinQuantity: domain.MaxQuantity + 1})
	assert.IsType(t, &apperror.InvalidInputError{}, err)
	assert.Contains(t, err.Error(), "Quantity deve ser menor ou igual a 2147483647")
	assert.Contains(t, err.Error(), "MinQuantity deve ser menor ou igual a 2147483647")

	err = validator.Struct(domain.MaterialUpdate{Name: "Areia", SKU: "ARE-001", ResupplyQuantity: math.MaxInt})
	assert.Contains(t, err.Error(), "ResupplyQuantity deve ser menor ou igual a 2147483647")

	assert.NoError(t, validator.Struct(domain.MaterialInput{Name: "Areia", SKU: "ARE-001", Quantity: domain.MaxQuantity}))
}

func TestStruct_Valid(t *testing.T) {
	err := validator.Struct(domain.MaterialInput{Name: "Cimento CP-II", SKU: "CIM-001", Quantity: 10})
	assert.NoError(t, err)
}

func TestStruct_UserRegistration(t *testing.T) {
	err := validator.Struct(domain.UserRegistration{Email: "nao-e-email", Password: "123"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "e-mail válido")
	assert.Contains(t, err.Error(), "no mínimo 8")
}
