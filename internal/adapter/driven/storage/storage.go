package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/diillson/finops-latam-cli/internal/domain/repository"
	"github.com/diillson/finops-latam-cli/internal/shared/types"
)

// Backends suportados para o armazenamento durável da sessão.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

const appDirName = ".finops-latam"

// NewStorageRepository cria o backend de armazenamento indicado.
// path vazio usa o diretório ~/.finops-latam.
func NewStorageRepository(backend, path string) (repository.StorageRepository, error) {
	switch backend {
	case BackendMemory:
		return NewMemoryStorage(), nil
	case BackendFile, "":
		if path == "" {
			dir, err := defaultDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "session.json")
		}
		return NewFileStorage(path), nil
	case BackendSQLite:
		if path == "" {
			dir, err := defaultDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, "session.db")
		}
		return NewSQLiteStorage(path)
	default:
		return nil, fmt.Errorf("%w: %s", types.ErrUnsupportedStorage, backend)
	}
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not resolve home directory: %w", err)
	}
	return filepath.Join(home, appDirName), nil
}
