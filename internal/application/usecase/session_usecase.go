package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/diillson/finops-latam-cli/internal/application/session"
	"github.com/diillson/finops-latam-cli/internal/application/view"
	"github.com/diillson/finops-latam-cli/internal/domain/entity"
	"github.com/diillson/finops-latam-cli/internal/domain/repository"
	"github.com/diillson/finops-latam-cli/internal/shared/types"
)

// ValidationPolicy define o que fazer quando a sessão armazenada não pode ser validada.
type ValidationPolicy string

const (
	// PolicyLenient mantém a sessão (marcada como não verificada) em falhas de transporte.
	PolicyLenient ValidationPolicy = "lenient"
	// PolicyStrict encerra a sessão em qualquer falha de validação.
	PolicyStrict ValidationPolicy = "strict"
)

// ParseValidationPolicy converte o valor de configuração em ValidationPolicy.
func ParseValidationPolicy(s string) (ValidationPolicy, error) {
	switch ValidationPolicy(s) {
	case PolicyLenient, "":
		return PolicyLenient, nil
	case PolicyStrict:
		return PolicyStrict, nil
	default:
		return "", fmt.Errorf("%w: %q (use lenient or strict)", types.ErrUnknownPolicy, s)
	}
}

// Mensagens exibidas ao usuário.
const (
	msgLoginSuccess    = "Login successful"
	msgLoginFailed     = "Login failed"
	msgRegisterSuccess = "Account created successfully"
	msgRegisterFailed  = "Registration failed"
	msgLoggedOut       = "Session closed"
	msgSignInRequired  = "You must sign in to access this feature"
	msgUnverified      = "Could not verify your session with the server; using stored credentials"
)

// FetchRequest descreve uma chamada autenticada arbitrária à API.
type FetchRequest struct {
	Method string
	Path   string
	Header http.Header
	Body   io.Reader
}

// SessionUseCase handles login, registration, logout and session validation.
type SessionUseCase struct {
	apiRepo repository.APIRepository
	store   *session.Store
	console types.ConsoleInterface
	policy  ValidationPolicy
}

// NewSessionUseCase creates a new session use case.
// The UI is re-rendered every time the store reports a change.
func NewSessionUseCase(
	apiRepo repository.APIRepository,
	store *session.Store,
	console types.ConsoleInterface,
	policy ValidationPolicy,
) *SessionUseCase {
	uc := &SessionUseCase{
		apiRepo: apiRepo,
		store:   store,
		console: console,
		policy:  policy,
	}
	store.Subscribe(func(s entity.Session) {
		uc.console.RenderAuth(view.ProjectAuth(s))
	})
	return uc
}

// Session retorna a sessão atual.
func (uc *SessionUseCase) Session() entity.Session {
	return uc.store.Current()
}

// RestoreSession carrega a sessão armazenada sem validá-la no backend.
// Retorna false quando não há sessão salva.
func (uc *SessionUseCase) RestoreSession() (bool, error) {
	ok, err := uc.store.Rehydrate()
	if err != nil {
		return false, fmt.Errorf("error restoring session: %w", err)
	}
	return ok, nil
}

// Login autentica com email e senha.
// Em caso de falha, a mensagem é exibida e a sessão permanece inalterada.
func (uc *SessionUseCase) Login(ctx context.Context, email, password string) error {
	resp, err := uc.apiRepo.Login(ctx, entity.LoginRequest{Email: email, Password: password})
	if err != nil {
		uc.console.LogError("%s", formErrorMessage(err, msgLoginFailed))
		return fmt.Errorf("login: %w", err)
	}
	return uc.startSession(resp, msgLoginSuccess)
}

// Register cria uma conta e inicia a sessão com o token devolvido.
func (uc *SessionUseCase) Register(ctx context.Context, creds types.Credentials) error {
	resp, err := uc.apiRepo.Register(ctx, entity.RegisterRequest{
		CompanyName: creds.CompanyName,
		Email:       creds.Email,
		ContactName: creds.ContactName,
		Password:    creds.Password,
	})
	if err != nil {
		uc.console.LogError("%s", formErrorMessage(err, msgRegisterFailed))
		return fmt.Errorf("register: %w", err)
	}
	return uc.startSession(resp, msgRegisterSuccess)
}

func (uc *SessionUseCase) startSession(resp *entity.AuthResponse, successMessage string) error {
	if err := uc.store.Set(resp.AccessToken, *resp.Client); err != nil {
		uc.console.LogError("Could not save session: %s", err)
		return err
	}
	uc.console.Notify(types.NotifySuccess, successMessage)
	return nil
}

// Logout limpa a sessão em memória e no armazenamento, sem chamar o backend.
func (uc *SessionUseCase) Logout() error {
	err := uc.store.Clear()
	if err != nil {
		uc.console.LogWarning("Could not remove stored session: %s", err)
	}
	uc.console.Notify(types.NotifyInfo, msgLoggedOut)
	return err
}

// CheckAuthStatus reidrata a sessão armazenada e a valida com o perfil do backend.
//
// Uma resposta não-2xx encerra a sessão. Uma falha de transporte segue a
// ValidationPolicy: lenient mantém a sessão como não verificada, strict encerra.
func (uc *SessionUseCase) CheckAuthStatus(ctx context.Context) error {
	ok, err := uc.store.Rehydrate()
	if err != nil {
		uc.console.LogWarning("Stored session is unreadable and will be discarded: %s", err)
		return uc.Logout()
	}
	if !ok {
		uc.UpdateUI()
		return nil
	}

	current := uc.store.Current()
	resp, err := uc.apiRepo.GetProfile(ctx, current.Token)
	if err != nil {
		var apiErr *types.APIError
		switch {
		case errors.As(err, &apiErr):
			uc.console.LogDebug("Profile check rejected the stored token: %s", apiErr)
			return uc.Logout()
		case types.IsConnectionError(err):
			uc.console.LogError("Error verifying token: %s", err)
			if uc.policy == PolicyStrict {
				return uc.Logout()
			}
			uc.store.MarkUnverified()
			uc.console.Notify(types.NotifyWarning, msgUnverified)
		default:
			// o backend aceitou o token; apenas o corpo não pôde ser lido
			uc.console.LogDebug("Ignoring unreadable profile response: %s", err)
		}
		uc.UpdateUI()
		return nil
	}

	if resp.Client != nil && resp.Client.Email != "" {
		if err := uc.store.UpdateProfile(*resp.Client); err != nil {
			uc.console.LogWarning("Could not refresh stored profile: %s", err)
			uc.UpdateUI()
		}
		return nil
	}

	uc.UpdateUI()
	return nil
}

// UpdateUI projeta a sessão atual nas regiões de convidado/usuário.
func (uc *SessionUseCase) UpdateUI() {
	uc.console.RenderAuth(view.ProjectAuth(uc.store.Current()))
}

// AuthenticatedFetch executa uma chamada com o token da sessão.
//
// Sem token, nenhuma chamada é feita: uma notificação de aviso é exibida e
// types.ErrNotAuthenticated é retornado. Falhas de transporte geram uma
// notificação de erro e resposta nula. O chamador fecha o corpo da resposta.
func (uc *SessionUseCase) AuthenticatedFetch(ctx context.Context, req FetchRequest) (*http.Response, error) {
	current := uc.store.Current()
	if current.Token == "" {
		uc.console.Notify(types.NotifyWarning, msgSignInRequired)
		return nil, types.ErrNotAuthenticated
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	resp, err := uc.apiRepo.Do(ctx, method, req.Path, MergeHeaders(current.Token, req.Header), req.Body)
	if err != nil {
		uc.console.Notify(types.NotifyDanger, connectionMessage(err))
		return nil, err
	}
	return resp, nil
}

// MergeHeaders monta os headers de uma chamada autenticada.
//
// Precedência: Content-Type padrão (application/json) < headers do chamador <
// Authorization da sessão. O chamador pode trocar o Content-Type, mas nunca o token.
func MergeHeaders(token string, caller http.Header) http.Header {
	merged := http.Header{}
	merged.Set("Content-Type", "application/json")
	for key, values := range caller {
		merged[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
	merged.Set("Authorization", "Bearer "+token)
	return merged
}

// formErrorMessage escolhe a mensagem exibida junto ao formulário.
func formErrorMessage(err error, fallback string) string {
	var apiErr *types.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	if errors.Is(err, types.ErrMissingToken) {
		return fallback + ": " + err.Error()
	}
	return connectionMessage(err)
}

func connectionMessage(err error) string {
	var connErr *types.ConnectionError
	if errors.As(err, &connErr) {
		return connErr.Error()
	}
	return fmt.Sprintf("Connection error: %v", err)
}
