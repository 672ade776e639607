package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStorage persiste os itens em um arquivo JSON com permissão 0600.
// Cada escrita regrava o arquivo inteiro via arquivo temporário + rename.
type FileStorage struct {
	mu   sync.Mutex
	path string
}

// NewFileStorage cria um FileStorage; o arquivo é criado na primeira escrita.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path retorna o caminho do arquivo de sessão.
func (s *FileStorage) Path() string {
	return s.path
}

func (s *FileStorage) GetItem(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

func (s *FileStorage) SetItem(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.loadForWrite()
	if err != nil {
		return err
	}
	items[key] = value
	return s.save(items)
}

func (s *FileStorage) RemoveItem(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := s.load()
	var corrupt *corruptFileError
	switch {
	case errors.As(err, &corrupt):
		items = make(map[string]string)
	case err != nil:
		return err
	default:
		if _, ok := items[key]; !ok {
			return nil
		}
	}
	delete(items, key)
	return s.save(items)
}

func (s *FileStorage) Close() error {
	return nil
}

// corruptFileError indica um arquivo de sessão que não é JSON válido.
type corruptFileError struct {
	path string
	err  error
}

func (e *corruptFileError) Error() string {
	return fmt.Sprintf("error parsing session file %s: %v", e.path, e.err)
}

func (e *corruptFileError) Unwrap() error { return e.err }

func (s *FileStorage) load() (map[string]string, error) {
	items := make(map[string]string)

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return items, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading session file: %w", err)
	}
	if len(data) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &corruptFileError{path: s.path, err: err}
	}
	return items, nil
}

// loadForWrite descarta um arquivo ilegível; a escrita seguinte o substitui.
func (s *FileStorage) loadForWrite() (map[string]string, error) {
	items, err := s.load()
	var corrupt *corruptFileError
	if errors.As(err, &corrupt) {
		return make(map[string]string), nil
	}
	return items, err
}

func (s *FileStorage) save(items map[string]string) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("error creating session directory '%s': %w", dir, err)
	}

	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding session file: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".session-*.tmp")
	if err != nil {
		return fmt.Errorf("error creating temporary session file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("error setting session file permissions: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error writing session file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("error replacing session file: %w", err)
	}
	return nil
}
