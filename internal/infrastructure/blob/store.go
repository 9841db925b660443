package blob

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Store - colaborador externo de armazenamento de bytes. O núcleo só registra
// metadados depois que o store confirma o recebimento.
type Store interface {
	Put(ctx context.Context, data []byte) (ref string, size int64, err error)
	Get(ctx context.Context, ref string) ([]byte, error)
	Delete(ctx context.Context, ref string) error
}

// FSStore - implementação em disco local. Em produção o mesmo contrato é
// atendido por um object storage.
type FSStore struct {
	dir string
}

func NewFSStore(dir string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create blob dir: %w", err)
	}
	return &FSStore{dir: dir}, nil
}

// Put - grava os bytes e devolve uma referência opaca estável
func (s *FSStore) Put(ctx context.Context, data []byte) (string, int64, error) {
	ref := uuid.Must(uuid.NewV7()).String()

	path := filepath.Join(s.dir, ref)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", 0, fmt.Errorf("failed to write blob %s: %w", ref, err)
	}

	return ref, int64(len(data)), nil
}

func (s *FSStore) Get(ctx context.Context, ref string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(ref)))
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s: %w", ref, err)
	}
	return data, nil
}

func (s *FSStore) Delete(ctx context.Context, ref string) error {
	return os.Remove(filepath.Join(s.dir, filepath.Base(ref)))
}
