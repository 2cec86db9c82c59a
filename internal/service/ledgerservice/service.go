package ledgerservice

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/google/uuid"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/logger"
	"estoquemaster/internal/pkg/metrics"
)

// Store define o contrato que o livro espera da camada de Persistência.
type Store interface {
	// WithinTx executa fn numa unidade atômica; qualquer erro desfaz tudo.
	WithinTx(ctx context.Context, fn func(tx domain.LedgerTx) error) error
	// ListMovements devolve as movimentações ordenadas por date DESC, id DESC.
	ListMovements(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error)
}

// Service é o livro de movimentações de estoque.
type Service struct {
	store  Store
	logger logger.Logger
	now    func() time.Time
	newID  func() (uuid.UUID, error)
}

// Option ajusta dependências opcionais do serviço.
type Option func(*Service)

// WithClock substitui o relógio usado para a data padrão das movimentações.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService cria e retorna uma nova instância do livro de movimentações.
func NewService(store Store, logger logger.Logger, opts ...Option) *Service {
	s := &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		newID:  uuid.NewV7,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RecordMovement valida e aplica uma movimentação: um registro no livro e um ajuste
// de saldo, confirmados juntos ou não confirmados.
func (s *Service) RecordMovement(ctx context.Context, req domain.MovementRequest) (domain.Movement, error) {
	s.logger.Debug("Iniciando registro de movimentação no serviço.", map[string]interface{}{
		"material_id": req.MaterialID,
		"type":        req.Type,
		"quantity":    req.Quantity,
	})

	materialID := strings.TrimSpace(req.MaterialID)
	if materialID == "" {
		metrics.RecordMovement(string(req.Type), metrics.ResultRejected)
		return domain.Movement{}, apperror.NewInvalidInputError("O material da movimentação é obrigatório.")
	}

	date, err := s.resolveDate(req.Date)
	if err != nil {
		metrics.RecordMovement(string(req.Type), metrics.ResultRejected)
		return domain.Movement{}, err
	}

	var created domain.Movement
	err = s.store.WithinTx(ctx, func(tx domain.LedgerTx) error {
		material, err := tx.MaterialForUpdate(ctx, materialID)
		if err != nil {
			return err
		}
		if material.IsArchived {
			return apperror.NewNotFoundError(fmt.Sprintf("Material %s está arquivado.", materialID))
		}
		if !req.Type.Valid() {
			return apperror.NewInvalidInputError(fmt.Sprintf("Tipo de movimentação %q inválido (use entrada ou saida).", req.Type))
		}
		if req.Type == domain.MovementSaida && material.Quantity < req.Quantity {
			return apperror.NewInsufficientStockError(material.ID, material.Quantity, req.Quantity)
		}
		if req.Quantity <= 0 {
			return apperror.NewInvalidInputError("A quantidade da movimentação deve ser um inteiro positivo.")
		}
		if req.Quantity > domain.MaxQuantity {
			return apperror.NewInvalidInputError(fmt.Sprintf("A quantidade da movimentação excede o máximo de %d.", domain.MaxQuantity))
		}
		if req.Type == domain.MovementEntrada && material.Quantity > domain.MaxQuantity-req.Quantity {
			return apperror.NewInvalidInputError(fmt.Sprintf("A entrada levaria o saldo acima do máximo de %d.", domain.MaxQuantity))
		}

		id, err := s.newID()
		if err != nil {
			return apperror.NewInternalError("Falha ao gerar identificador da movimentação.", err)
		}
		mov := domain.Movement{
			ID:           id.String(),
			MaterialID:   material.ID,
			MaterialName: material.Name,
			Type:         req.Type,
			Quantity:     req.Quantity,
			Date:         date,
			Reason:       req.Reason,
			CreatedAt:    s.now().UTC(),
		}

		if err := tx.InsertMovement(ctx, mov); err != nil {
			return err
		}
		newQty, err := tx.AdjustQuantity(ctx, material.ID, req.Type.Delta(req.Quantity))
		if err != nil {
			return err
		}
		if newQty < 0 {
			return apperror.NewInsufficientStockError(material.ID, material.Quantity, req.Quantity)
		}

		created = mov
		return nil
	})
	if err != nil {
		s.recordFailure(req, err)
		return domain.Movement{}, err
	}

	metrics.RecordMovement(string(req.Type), metrics.ResultAccepted)
	s.logger.Info("Movimentação registrada com sucesso.", map[string]interface{}{
		"movement_id": created.ID,
		"material_id": created.MaterialID,
		"type":        created.Type,
		"quantity":    created.Quantity,
		"date":        created.Date,
	})
	return created, nil
}

// Movements devolve uma sequência preguiçosa de movimentações, da mais recente para a
// mais antiga. A consulta só roda quando a sequência é percorrida e roda de novo a cada
// percurso. Um erro de leitura é entregue como último elemento.
func (s *Service) Movements(ctx context.Context, filter domain.MovementFilter) iter.Seq2[domain.Movement, error] {
	return func(yield func(domain.Movement, error) bool) {
		if err := validateDateFilter(filter.Date); err != nil {
			yield(domain.Movement{}, err)
			return
		}

		movements, err := s.store.ListMovements(ctx, filter)
		if err != nil {
			s.logger.Error("Falha ao listar movimentações no repositório.", err)
			yield(domain.Movement{}, err)
			return
		}
		for _, m := range movements {
			if !yield(m, nil) {
				return
			}
		}
	}
}

// ListMovements coleta Movements numa fatia.
func (s *Service) ListMovements(ctx context.Context, filter domain.MovementFilter) ([]domain.Movement, error) {
	out := make([]domain.Movement, 0)
	for m, err := range s.Movements(ctx, filter) {
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// resolveDate aplica a data local de hoje quando vazia e valida o formato.
func (s *Service) resolveDate(date string) (string, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		return s.now().Format(domain.DateLayout), nil
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return "", apperror.NewInvalidInputError(fmt.Sprintf("Data %q inválida (use AAAA-MM-DD).", date))
	}
	return date, nil
}

func validateDateFilter(date string) error {
	if date == "" {
		return nil
	}
	if _, err := time.Parse(domain.DateLayout, date); err != nil {
		return apperror.NewInvalidInputError(fmt.Sprintf("Data de filtro %q inválida (use AAAA-MM-DD).", date))
	}
	return nil
}

func (s *Service) recordFailure(req domain.MovementRequest, err error) {
	var storageErr *apperror.StorageError
	var internalErr *apperror.InternalError
	if errors.As(err, &storageErr) || errors.As(err, &internalErr) {
		metrics.RecordMovement(string(req.Type), metrics.ResultFailed)
		s.logger.Error("Falha ao registrar movimentação; nenhuma alteração foi aplicada.", err)
		return
	}

	metrics.RecordMovement(string(req.Type), metrics.ResultRejected)
	s.logger.Info("Movimentação rejeitada.", map[string]interface{}{
		"material_id": req.MaterialID,
		"type":        req.Type,
		"quantity":    req.Quantity,
		"reason":      err.Error(),
	})
}
