package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// StockStatus é o rótulo de saúde do estoque de um material. Nunca é persistido.
type StockStatus string

const (
	StatusArchived      StockStatus = "Archived"
	StatusOutOfStock    StockStatus = "Out of Stock"
	StatusCritical      StockStatus = "Critical"
	StatusNeedsResupply StockStatus = "Needs Resupply"
	StatusInStock       StockStatus = "In Stock"
)

var hundred = decimal.NewFromInt(100)

// ResupplyAlertLevel calcula o limite secundário de ressuprimento:
// minQuantity quando resupplyQuantity é zero, senão
// minQuantity + resupplyQuantity * alertPercentage / 100.
func ResupplyAlertLevel(m Material) decimal.Decimal {
	minQty := decimal.NewFromInt(int64(m.MinQuantity))
	if m.ResupplyQuantity == 0 {
		return minQty
	}
	pct := decimal.NewFromInt(int64(m.AlertPercentage)).Div(hundred)
	return minQty.Add(decimal.NewFromInt(int64(m.ResupplyQuantity)).Mul(pct))
}

// Classify deriva o status do material; a primeira regra que casar vence.
func Classify(m Material) StockStatus {
	switch {
	case m.IsArchived:
		return StatusArchived
	case m.Quantity == 0:
		return StatusOutOfStock
	case m.Quantity < m.MinQuantity:
		return StatusCritical
	case decimal.NewFromInt(int64(m.Quantity)).LessThan(ResupplyAlertLevel(m)):
		return StatusNeedsResupply
	default:
		return StatusInStock
	}
}

// IsLowStock informa se o material tem saldo positivo abaixo do nível de ressuprimento.
func IsLowStock(m Material) bool {
	return m.Quantity > 0 && decimal.NewFromInt(int64(m.Quantity)).LessThan(ResupplyAlertLevel(m))
}

// StatusFilter é o filtro de status aceito na listagem de materiais.
type StatusFilter string

const (
	FilterAll       StatusFilter = ""
	FilterOut       StatusFilter = "out"
	FilterCritical  StatusFilter = "critical"
	FilterResupply  StatusFilter = "resupply"
	FilterOK        StatusFilter = "ok"
	FilterAttention StatusFilter = "attention" // sem estoque, crítico ou ressuprimento
	FilterArchived  StatusFilter = "archived"
)

// ParseStatusFilter converte o parâmetro de query; ok=false para valores desconhecidos.
func ParseStatusFilter(s string) (StatusFilter, bool) {
	f := StatusFilter(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FilterAll, FilterOut, FilterCritical, FilterResupply, FilterOK, FilterAttention, FilterArchived:
		return f, true
	}
	return FilterAll, false
}

// Matches informa se o status satisfaz o filtro.
func (f StatusFilter) Matches(s StockStatus) bool {
	switch f {
	case FilterAll:
		return true
	case FilterOut:
		return s == StatusOutOfStock
	case FilterCritical:
		return s == StatusCritical
	case FilterResupply:
		return s == StatusNeedsResupply
	case FilterOK:
		return s == StatusInStock
	case FilterAttention:
		return s == StatusOutOfStock || s == StatusCritical || s == StatusNeedsResupply
	case FilterArchived:
		return s == StatusArchived
	}
	return false
}
