package database

import (
	"errors"

	"github.com/lib/pq"
)

// Códigos SQLSTATE usados pelos repositórios.
const (
	codeUniqueViolation = "23505"
	codeCheckViolation  = "23514"
	codeOutOfRange      = "22003"
)

// IsUniqueViolation informa se o erro é uma violação de índice único.
func IsUniqueViolation(err error) bool {
	return hasCode(err, codeUniqueViolation)
}

// IsCheckViolation informa se o erro é uma violação de CHECK constraint.
func IsCheckViolation(err error) bool {
	return hasCode(err, codeCheckViolation)
}

// IsNumericOutOfRange informa se um valor estourou o tipo numérico da coluna.
func IsNumericOutOfRange(err error) bool {
	return hasCode(err, codeOutOfRange)
}

// ConstraintName devolve o nome da constraint violada, ou "".
func ConstraintName(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	return ""
}

func hasCode(err error, code pq.ErrorCode) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == code
}
