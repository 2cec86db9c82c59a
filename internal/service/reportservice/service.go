// Package reportservice calcula os indicadores do painel e gera a planilha de relatório.
// Só lê: nenhuma operação daqui altera estado.
package reportservice

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/xuri/excelize/v2"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/logger"
)

// MaterialLister é a leitura de materiais usada pelos relatórios.
type MaterialLister interface {
	FindAll(ctx context.Context, filter domain.MaterialFilter) ([]domain.Material, error)
}

// MovementLister é a leitura do livro usada pelos relatórios.
type MovementLister interface {
	ListMovements(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error)
}

// Service agrega materiais ativos e o livro de movimentações.
type Service struct {
	materials MaterialLister
	movements MovementLister
	logger    logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Relatórios.
func NewService(materials MaterialLister, movements MovementLister, logger logger.Logger) *Service {
	return &Service{materials: materials, movements: movements, logger: logger}
}

// Summary calcula os indicadores sobre os materiais ativos e todo o livro.
func (s *Service) Summary(ctx context.Context) (domain.Summary, error) {
	materials, err := s.materials.FindAll(ctx, domain.MaterialFilter{})
	if err != nil {
		return domain.Summary{}, err
	}
	movements, err := s.movements.ListMovements(ctx, domain.MovementFilter{})
	if err != nil {
		return domain.Summary{}, err
	}
	return Summarize(materials, movements), nil
}

// TopMoved devolve os n materiais com maior volume movimentado.
// n <= 0 usa o padrão de 3.
func (s *Service) TopMoved(ctx context.Context, n int) ([]domain.MovedMaterial, error) {
	movements, err := s.movements.ListMovements(ctx, domain.MovementFilter{})
	if err != nil {
		return nil, err
	}
	return TopMoved(movements, n), nil
}

// Summarize é o cálculo puro do resumo. Materiais arquivados são ignorados.
func Summarize(materials []domain.Material, movements []domain.Movement) domain.Summary {
	sum := domain.Summary{
		Categories: make([]domain.CategoryShare, 0),
	}
	perCategory := make(map[string]int)

	for _, m := range materials {
		if m.IsArchived {
			continue
		}
		sum.ActiveMaterials++
		sum.TotalUnits += m.Quantity

		switch {
		case m.Quantity == 0:
			sum.OutOfStockCount++
		case domain.IsLowStock(m):
			sum.LowStockCount++
		}
		if m.Quantity > domain.HighStockThreshold {
			sum.HighStockCount++
		}

		category := m.Category
		if category == "" {
			category = domain.UncategorizedLabel
		}
		perCategory[category]++
	}

	maxCount := 0
	for _, c := range perCategory {
		maxCount = max(maxCount, c)
	}
	for name, count := range perCategory {
		sum.Categories = append(sum.Categories, domain.CategoryShare{
			Category: name,
			Count:    count,
			Ratio:    float64(count) / float64(maxCount),
		})
	}
	slices.SortFunc(sum.Categories, func(a, b domain.CategoryShare) int {
		return strings.Compare(a.Category, b.Category)
	})

	sum.TopMoved = TopMoved(movements, domain.DefaultTopMovedLimit)
	return sum
}

// TopMoved agrupa por material e soma as quantidades brutas: entradas e saídas
// somam juntas, sem compensar a direção. Empates são desfeitos por nome e depois por ID.
// O nome exibido é o da movimentação mais recente do material.
func TopMoved(movements []domain.Movement, n int) []domain.MovedMaterial {
	if n <= 0 {
		n = domain.DefaultTopMovedLimit
	}

	type acc struct {
		name  string
		date  string
		id    string
		total int
	}
	groups := make(map[string]*acc)
	for _, mv := range movements {
		g, ok := groups[mv.MaterialID]
		if !ok {
			g = &acc{}
			groups[mv.MaterialID] = g
		}
		g.total += mv.Quantity
		if mv.Date > g.date || (mv.Date == g.date && mv.ID > g.id) {
			g.name, g.date, g.id = mv.MaterialName, mv.Date, mv.ID
		}
	}

	out := make([]domain.MovedMaterial, 0, len(groups))
	for id, g := range groups {
		out = append(out, domain.MovedMaterial{MaterialID: id, MaterialName: g.name, Total: g.total})
	}
	slices.SortFunc(out, func(a, b domain.MovedMaterial) int {
		if a.Total != b.Total {
			return b.Total - a.Total
		}
		if c := strings.Compare(a.MaterialName, b.MaterialName); c != 0 {
			return c
		}
		return strings.Compare(a.MaterialID, b.MaterialID)
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// Nomes das abas da planilha exportada.
const (
	SheetMaterials = "Materiais"
	SheetMovements = "Movimentações"
)

var (
	materialHeader = []interface{}{"Nome", "SKU", "Contrato", "Categoria", "Quantidade", "Mínimo", "Ressuprimento", "Alerta (%)", "Nível de alerta", "Status"}
	movementHeader = []interface{}{"Data", "Material", "Tipo", "Quantidade", "Motivo"}
)

// ExportWorkbook escreve em w uma planilha XLSX com os materiais ativos (com status)
// e o livro de movimentações.
func (s *Service) ExportWorkbook(ctx context.Context, w io.Writer) error {
	materials, err := s.materials.FindAll(ctx, domain.MaterialFilter{})
	if err != nil {
		return err
	}
	movements, err := s.movements.ListMovements(ctx, domain.MovementFilter{})
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetMaterials); err != nil {
		return apperror.NewInternalError("Falha ao preparar planilha.", err)
	}
	if _, err := f.NewSheet(SheetMovements); err != nil {
		return apperror.NewInternalError("Falha ao preparar planilha.", err)
	}

	if err := writeRow(f, SheetMaterials, 1, materialHeader); err != nil {
		return err
	}
	for i, m := range materials {
		v := domain.NewMaterialView(m)
		row := []interface{}{
			m.Name, m.SKU, m.ContractCode, m.Category, m.Quantity, m.MinQuantity,
			m.ResupplyQuantity, m.AlertPercentage, v.ResupplyAlertLevel, string(v.Status),
		}
		if err := writeRow(f, SheetMaterials, i+2, row); err != nil {
			return err
		}
	}

	if err := writeRow(f, SheetMovements, 1, movementHeader); err != nil {
		return err
	}
	for i, mv := range movements {
		row := []interface{}{mv.Date, mv.MaterialName, string(mv.Type), mv.Quantity, mv.Reason}
		if err := writeRow(f, SheetMovements, i+2, row); err != nil {
			return err
		}
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return apperror.NewInternalError("Falha ao gravar planilha.", err)
	}

	s.logger.Info("Planilha de relatório exportada.", map[string]interface{}{
		"materials": len(materials),
		"movements": len(movements),
	})
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return apperror.NewInternalError("Coordenada de célula inválida.", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return apperror.NewInternalError(fmt.Sprintf("Falha ao escrever linha %d da aba %s.", row, sheet), err)
	}
	return nil
}
