// Package filestore é o backend local do EstoqueMaster: todo o estado fica em memória,
// protegido por um único mutex, e é regravado num arquivo JSON após cada mutação.
// Com caminho vazio o store funciona só em memória (testes e demonstração).
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"estoquemaster/internal/domain"
	apperror "estoquemaster/internal/errors"
	"estoquemaster/internal/pkg/logger"
)

// Nomes dos blobs dentro do documento persistido.
const (
	blobMaterials  = "estoquemaster.materials"
	blobMovements  = "estoquemaster.movements"
	blobCategories = "estoquemaster.categories"
	blobUsers      = "estoquemaster.users"
)

// userRecord existe porque domain.User oculta o hash da senha no JSON.
type userRecord struct {
	ID           string          `json:"id"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"passwordHash"`
	Role         domain.UserRole `json:"role"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// snapshot é o estado completo do store.
type snapshot struct {
	materials  map[string]domain.Material
	movements  []domain.Movement
	categories map[string]domain.Category
	users      map[string]userRecord
}

func newSnapshot() snapshot {
	return snapshot{
		materials:  make(map[string]domain.Material),
		categories: make(map[string]domain.Category),
		users:      make(map[string]userRecord),
	}
}

// clone copia o estado para que uma mutação possa ser descartada por inteiro.
func (s snapshot) clone() snapshot {
	out := snapshot{
		materials:  make(map[string]domain.Material, len(s.materials)),
		movements:  make([]domain.Movement, len(s.movements)),
		categories: make(map[string]domain.Category, len(s.categories)),
		users:      make(map[string]userRecord, len(s.users)),
	}
	for k, v := range s.materials {
		out.materials[k] = v
	}
	copy(out.movements, s.movements)
	for k, v := range s.categories {
		out.categories[k] = v
	}
	for k, v := range s.users {
		out.users[k] = v
	}
	return out
}

// Store implementa os repositórios de material, categoria, usuário e o Store do livro.
type Store struct {
	mu     sync.RWMutex
	path   string
	state  snapshot
	logger logger.Logger
	now    func() time.Time
}

// Open carrega o documento em path (se existir) e devolve o store.
// path vazio cria um store apenas em memória.
func Open(path string, log logger.Logger) (*Store, error) {
	s := &Store{
		path:   path,
		state:  newSnapshot(),
		logger: log,
		now:    time.Now,
	}
	if path == "" {
		log.Info("Store local iniciado em memória (sem arquivo).", nil)
		return s, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("Arquivo de dados inexistente; iniciando store vazio.", map[string]interface{}{"path": path})
		return s, nil
	}
	if err != nil {
		return nil, apperror.NewStorageError(fmt.Sprintf("falha ao ler %s", path), err)
	}

	state, err := decode(raw)
	if err != nil {
		return nil, apperror.NewStorageError(fmt.Sprintf("arquivo %s corrompido", path), err)
	}
	s.state = state

	log.Info("Store local carregado.", map[string]interface{}{
		"path":       path,
		"materials":  len(state.materials),
		"movements":  len(state.movements),
		"categories": len(state.categories),
	})
	return s, nil
}

// NewMemory cria um store sem arquivo.
func NewMemory(log logger.Logger) *Store {
	s, _ := Open("", log)
	return s
}

// read executa fn sob o lock de leitura.
func (s *Store) read(fn func(st *snapshot)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(&s.state)
}

// mutate executa fn sobre uma cópia do estado. A cópia só é publicada se fn
// terminar sem erro e a gravação em disco for bem-sucedida.
func (s *Store) mutate(ctx context.Context, fn func(st *snapshot) error) error {
	if err := ctx.Err(); err != nil {
		return apperror.NewStorageError("operação cancelada", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	staged := s.state.clone()
	if err := fn(&staged); err != nil {
		return err
	}
	if err := s.persist(staged); err != nil {
		s.logger.Error("Falha ao gravar o arquivo de dados; alteração descartada.", err)
		return err
	}
	s.state = staged
	return nil
}

// persist regrava o documento inteiro: arquivo temporário no mesmo diretório e rename.
func (s *Store) persist(st snapshot) error {
	if s.path == "" {
		return nil
	}

	raw, err := encode(st)
	if err != nil {
		return apperror.NewStorageError("falha ao serializar o estado", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return apperror.NewStorageError("falha ao criar arquivo temporário", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return apperror.NewStorageError("falha ao gravar arquivo de dados", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return apperror.NewStorageError("falha ao sincronizar arquivo de dados", err)
	}
	if err := tmp.Close(); err != nil {
		return apperror.NewStorageError("falha ao fechar arquivo de dados", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return apperror.NewStorageError("falha ao substituir arquivo de dados", err)
	}
	return nil
}

func encode(st snapshot) ([]byte, error) {
	materials := make([]domain.Material, 0, len(st.materials))
	for _, m := range st.materials {
		m.Category = ""
		materials = append(materials, m)
	}
	categories := make([]domain.Category, 0, len(st.categories))
	for _, c := range st.categories {
		categories = append(categories, c)
	}
	users := make([]userRecord, 0, len(st.users))
	for _, u := range st.users {
		users = append(users, u)
	}
	sortMaterials(materials)
	sortCategories(categories)

	doc := map[string]interface{}{
		blobMaterials:  materials,
		blobMovements:  st.movements,
		blobCategories: categories,
		blobUsers:      users,
	}
	return json.MarshalIndent(doc, "", "  ")
}

func decode(raw []byte) (snapshot, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return snapshot{}, err
	}

	var (
		materials  []domain.Material
		categories []domain.Category
		users      []userRecord
		movements  []domain.Movement
	)
	blobs := []struct {
		key string
		dst interface{}
	}{
		{blobMaterials, &materials},
		{blobMovements, &movements},
		{blobCategories, &categories},
		{blobUsers, &users},
	}
	for _, b := range blobs {
		data, ok := doc[b.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(data, b.dst); err != nil {
			return snapshot{}, fmt.Errorf("blob %s: %w", b.key, err)
		}
	}

	st := newSnapshot()
	for _, m := range materials {
		st.materials[m.ID] = m
	}
	for _, c := range categories {
		st.categories[c.ID] = c
	}
	for _, u := range users {
		st.users[u.ID] = u
	}
	st.movements = movements
	return st, nil
}
