package domain

import (
	"context"
	"time"
)

// DateLayout é o formato de data (sem horário) das movimentações.
const DateLayout = "2006-01-02"

// MovementType é a direção da movimentação de estoque.
type MovementType string

const (
	MovementEntrada MovementType = "entrada" // entrada: aumenta o saldo
	MovementSaida   MovementType = "saida"   // saída: diminui o saldo
)

// Valid informa se o tipo é conhecido.
func (t MovementType) Valid() bool {
	return t == MovementEntrada || t == MovementSaida
}

// Delta devolve o efeito da movimentação sobre o saldo.
func (t MovementType) Delta(quantity int) int {
	if t == MovementSaida {
		return -quantity
	}
	return quantity
}

// Movement é um registro imutável do livro de movimentações.
// MaterialName guarda o nome do material no momento do registro.
type Movement struct {
	ID           string       `json:"id"`
	MaterialID   string       `json:"materialId"`
	MaterialName string       `json:"materialName"`
	Type         MovementType `json:"type"`
	Quantity     int          `json:"quantity"`
	Date         string       `json:"date"`
	Reason       string       `json:"reason"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// MovementRequest é o payload de POST /v1/movements.
// Quantity e Type são validados pelo livro, na ordem das regras de negócio.
type MovementRequest struct {
	MaterialID string       `json:"materialId" validate:"required"`
	Type       MovementType `json:"type"`
	Quantity   int          `json:"quantity"`
	Date       string       `json:"date"`
	Reason     string       `json:"reason" validate:"max=500"`
}

// MovementFilter restringe a listagem a uma data exata (YYYY-MM-DD), quando informada.
type MovementFilter struct {
	Date string
}

// LedgerTx é a unidade de trabalho do livro: tudo que for feito através dela é
// confirmado junto ou descartado junto.
type LedgerTx interface {
	// MaterialForUpdate lê o material e impede escritas concorrentes nele até o fim da unidade.
	MaterialForUpdate(ctx context.Context, id string) (Material, error)
	InsertMovement(ctx context.Context, mov Movement) error
	// AdjustQuantity soma delta ao saldo e devolve o novo saldo.
	AdjustQuantity(ctx context.Context, materialID string, delta int) (int, error)
}
