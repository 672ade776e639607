// Package session mantém o estado de sessão do cliente (token + perfil)
// sincronizado com o armazenamento durável.
package session

import (
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/diillson/finops-latam-cli/internal/domain/entity"
	"github.com/diillson/finops-latam-cli/internal/domain/repository"
)

// Listener recebe o estado da sessão após cada mudança.
type Listener func(entity.Session)

// Store owns the single Session value and mirrors it in durable storage.
type Store struct {
	mu        sync.Mutex
	current   entity.Session
	storage   repository.StorageRepository
	listeners map[int]Listener
	nextID    int
}

// NewStore cria um Store vazio sobre o armazenamento informado.
func NewStore(storage repository.StorageRepository) *Store {
	return &Store{
		storage:   storage,
		listeners: make(map[int]Listener),
	}
}

// Current retorna uma cópia da sessão atual.
func (s *Store) Current() entity.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Set grava token e perfil em memória e no armazenamento durável.
func (s *Store) Set(token string, user entity.Profile) error {
	userData, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("error encoding user data: %w", err)
	}

	s.mu.Lock()
	if err := s.storage.SetItem(repository.KeyAuthToken, token); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("error saving auth token: %w", err)
	}
	if err := s.storage.SetItem(repository.KeyUserData, string(userData)); err != nil {
		// nunca deixa um token sem perfil no armazenamento
		_ = s.storage.RemoveItem(repository.KeyAuthToken)
		s.mu.Unlock()
		return fmt.Errorf("error saving user data: %w", err)
	}
	s.current = entity.Session{Token: token, User: &user}
	snapshot := s.current
	s.mu.Unlock()

	s.notify(snapshot)
	return nil
}

// UpdateProfile substitui o perfil de uma sessão ativa mantendo o token.
// Sem sessão ativa, não faz nada.
func (s *Store) UpdateProfile(user entity.Profile) error {
	s.mu.Lock()
	if !s.current.Active() {
		s.mu.Unlock()
		return nil
	}
	userData, err := json.Marshal(user)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("error encoding user data: %w", err)
	}
	if err := s.storage.SetItem(repository.KeyUserData, string(userData)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("error saving user data: %w", err)
	}
	s.current.User = &user
	snapshot := s.current
	s.mu.Unlock()

	s.notify(snapshot)
	return nil
}

// Clear remove token e perfil da memória e do armazenamento.
// A memória é sempre limpa, mesmo quando o armazenamento falha.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.current = entity.Session{}
	errToken := s.storage.RemoveItem(repository.KeyAuthToken)
	errUser := s.storage.RemoveItem(repository.KeyUserData)
	s.mu.Unlock()

	s.notify(entity.Session{})

	if errToken != nil {
		return fmt.Errorf("error removing auth token: %w", errToken)
	}
	if errUser != nil {
		return fmt.Errorf("error removing user data: %w", errUser)
	}
	return nil
}

// Rehydrate carrega a sessão do armazenamento durável sem notificar os listeners.
// Retorna false quando token ou perfil estão ausentes; nesse caso a memória fica
// vazia e a metade órfã é removida do armazenamento.
func (s *Store) Rehydrate() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, okToken, err := s.storage.GetItem(repository.KeyAuthToken)
	if err != nil {
		return false, fmt.Errorf("error reading auth token: %w", err)
	}
	userData, okUser, err := s.storage.GetItem(repository.KeyUserData)
	if err != nil {
		return false, fmt.Errorf("error reading user data: %w", err)
	}
	if !okToken || !okUser || token == "" || userData == "" {
		s.current = entity.Session{}
		if okToken || okUser {
			if err := s.storage.RemoveItem(repository.KeyAuthToken); err != nil {
				return false, fmt.Errorf("error removing orphaned auth token: %w", err)
			}
			if err := s.storage.RemoveItem(repository.KeyUserData); err != nil {
				return false, fmt.Errorf("error removing orphaned user data: %w", err)
			}
		}
		return false, nil
	}

	var user entity.Profile
	if err := json.Unmarshal([]byte(userData), &user); err != nil {
		s.current = entity.Session{}
		return false, fmt.Errorf("error parsing stored user data: %w", err)
	}

	s.current = entity.Session{Token: token, User: &user}
	return true, nil
}

// MarkUnverified sinaliza que a sessão atual não pôde ser validada no backend.
func (s *Store) MarkUnverified() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current.Active() {
		s.current.Unverified = true
	}
}

// Subscribe registra um listener e retorna a função que o remove.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) notify(current entity.Session) {
	s.mu.Lock()
	ids := make([]int, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	listeners := make([]Listener, 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		listeners = append(listeners, s.listeners[id])
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(current)
	}
}
