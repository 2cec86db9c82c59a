package domain

import (
	"math"
	"time"
)

// UncategorizedLabel é o nome exibido quando o material não tem categoria
// (referência vazia ou categoria removida).
const UncategorizedLabel = "Sem Categoria"

// MaxQuantity é o maior saldo ou quantidade aceito (limite da coluna INTEGER do PostgreSQL).
const MaxQuantity = math.MaxInt32

// DefaultAlertPercentage é aplicado quando o percentual de alerta não é informado na criação.
const DefaultAlertPercentage = 40

// Material representa um item estocado (material de construção).
// A quantidade só é alterada por movimentações depois da criação.
type Material struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	SKU              string    `json:"sku"` // Código de almoxarifado, único entre materiais ativos
	ContractCode     string    `json:"contractCode,omitempty"`
	CategoryID       string    `json:"categoryId,omitempty"`
	Category         string    `json:"category"` // Nome da categoria (join), preenchido na leitura
	Quantity         int       `json:"quantity"`
	MinQuantity      int       `json:"minQuantity"`
	ResupplyQuantity int       `json:"resupplyQuantity"`
	AlertPercentage  int       `json:"alertPercentage"`
	Description      string    `json:"description,omitempty"`
	Image            string    `json:"image,omitempty"`
	IsArchived       bool      `json:"isArchived"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// MaterialView é o material acrescido dos campos derivados, recalculados a cada leitura.
type MaterialView struct {
	Material
	Status             StockStatus `json:"status"`
	ResupplyAlertLevel string      `json:"resupplyAlertLevel"`
}

// NewMaterialView classifica o material e monta a visão de leitura.
func NewMaterialView(m Material) MaterialView {
	return MaterialView{
		Material:           m,
		Status:             Classify(m),
		ResupplyAlertLevel: ResupplyAlertLevel(m).String(),
	}
}

// MaterialInput é o payload de criação de material (POST /v1/materials).
type MaterialInput struct {
	Name             string `json:"name" validate:"required,max=200"`
	SKU              string `json:"sku" validate:"required,max=100"`
	ContractCode     string `json:"contractCode" validate:"max=100"`
	Category         string `json:"category" validate:"max=100"`
	Quantity         int    `json:"quantity" validate:"gte=0,lte=2147483647"`
	MinQuantity      int    `json:"minQuantity" validate:"gte=0,lte=2147483647"`
	ResupplyQuantity int    `json:"resupplyQuantity" validate:"gte=0,lte=2147483647"`
	AlertPercentage  *int   `json:"alertPercentage" validate:"omitempty,gte=0,lte=100"`
	Description      string `json:"description"`
	Image            string `json:"image"`
}

// MaterialUpdate é o payload de atualização (PUT /v1/materials/{id}).
// Quantidade não é editável; Image só é substituída quando informada.
type MaterialUpdate struct {
	Name             string `json:"name" validate:"required,max=200"`
	SKU              string `json:"sku" validate:"required,max=100"`
	ContractCode     string `json:"contractCode" validate:"max=100"`
	Category         string `json:"category" validate:"max=100"`
	MinQuantity      int    `json:"minQuantity" validate:"gte=0,lte=2147483647"`
	ResupplyQuantity int    `json:"resupplyQuantity" validate:"gte=0,lte=2147483647"`
	AlertPercentage  *int   `json:"alertPercentage" validate:"omitempty,gte=0,lte=100"`
	Description      string `json:"description"`
	Image            string `json:"image"`
	IsArchived       *bool  `json:"isArchived"`
}

// MaterialFilter define os parâmetros de busca de materiais.
// Search casa nome ou SKU (parcial, sem diferenciar maiúsculas); SKU é exato.
type MaterialFilter struct {
	Search          string
	SKU             string
	Category        string
	Status          StatusFilter
	IncludeArchived bool
}
