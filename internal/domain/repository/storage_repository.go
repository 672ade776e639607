package repository

// Chaves usadas no armazenamento durável da sessão.
const (
	KeyAuthToken = "auth_token"
	KeyUserData  = "user_data"
)

// StorageRepository is a durable string key/value store for the session.
type StorageRepository interface {
	GetItem(key string) (string, bool, error)
	SetItem(key, value string) error
	RemoveItem(key string) error
	Close() error
}
