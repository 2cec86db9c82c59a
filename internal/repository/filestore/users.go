package filestore

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
)

// Save insere um novo usuário; e-mail duplicado gera ConflictError.
func (s *Store) Save(ctx context.Context, user domain.User) (domain.User, error) {
	user.ID = uuid.NewString()
	user.CreatedAt = s.now().UTC()
	user.UpdatedAt = user.CreatedAt

	err := s.mutate(ctx, func(st *snapshot) error {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, user.Email) {
				return apperror.NewConflictError(fmt.Sprintf("O email '%s' já está em uso.", user.Email))
			}
		}
		st.users[user.ID] = userRecord{
			ID:           user.ID,
			Email:        user.Email,
			PasswordHash: user.PasswordHash,
			Role:         user.Role,
			CreatedAt:    user.CreatedAt,
			UpdatedAt:    user.UpdatedAt,
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// FindByEmail busca um usuário pelo e-mail.
func (s *Store) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	var (
		found userRecord
		ok    bool
	)
	s.read(func(st *snapshot) {
		for _, u := range st.users {
			if strings.EqualFold(u.Email, email) {
				found, ok = u, true
				return
			}
		}
	})
	if !ok {
		return domain.User{}, apperror.NewNotFoundError(fmt.Sprintf("Usuário com email '%s' não encontrado", email))
	}
	return domain.User{
		ID:           found.ID,
		Email:        found.Email,
		PasswordHash: found.PasswordHash,
		Role:         found.Role,
		CreatedAt:    found.CreatedAt,
		UpdatedAt:    found.UpdatedAt,
	}, nil
}
