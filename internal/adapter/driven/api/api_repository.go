package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/diillson/finops-latam-cli/internal/domain/entity"
	"github.com/diillson/finops-latam-cli/internal/domain/repository"
	"github.com/diillson/finops-latam-cli/internal/shared/types"
	"github.com/google/uuid"
)

// Endpoints do backend FinOps.
const (
	PathLogin          = "/api/auth/login"
	PathRegister       = "/api/auth/register"
	PathProfile        = "/api/auth/profile"
	PathFreeTierStatus = "/api/free-tier-status"
	PathEC2Reco        = "/api/ec2-recommendations"
	PathCostOverview   = "/api/cost-overview"
)

// HeaderRequestID carries a per-request UUID for correlating backend logs.
const HeaderRequestID = "X-Request-ID"

const contentTypeJSON = "application/json"

// APIRepositoryImpl implementa o APIRepository sobre HTTP/JSON.
type APIRepositoryImpl struct {
	baseURL string
	client  *http.Client
	console types.ConsoleInterface
}

// NewAPIRepository cria uma nova implementação do APIRepository.
// timeout zero desativa o limite de tempo do cliente HTTP.
func NewAPIRepository(baseURL string, timeout time.Duration, console types.ConsoleInterface) (repository.APIRepository, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", baseURL, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid API URL %q: scheme must be http or https", baseURL)
	}

	return &APIRepositoryImpl{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		console: console,
	}, nil
}

// Login envia as credenciais para o endpoint de login.
func (r *APIRepositoryImpl) Login(ctx context.Context, req entity.LoginRequest) (*entity.AuthResponse, error) {
	return r.authenticate(ctx, PathLogin, req)
}

// Register envia os dados de registro para o endpoint de registro.
func (r *APIRepositoryImpl) Register(ctx context.Context, req entity.RegisterRequest) (*entity.AuthResponse, error) {
	return r.authenticate(ctx, PathRegister, req)
}

func (r *APIRepositoryImpl) authenticate(ctx context.Context, path string, payload interface{}) (*entity.AuthResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error encoding request for %s: %w", path, err)
	}

	header := http.Header{}
	header.Set("Content-Type", contentTypeJSON)

	resp, err := r.Do(ctx, http.MethodPost, path, header, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var authResp entity.AuthResponse
	if err := decodeResponse(resp, path, &authResp); err != nil {
		return nil, err
	}
	if authResp.AccessToken == "" || authResp.Client == nil {
		return nil, types.ErrMissingToken
	}
	return &authResp, nil
}

// GetProfile consulta o perfil do cliente com o token informado.
// Qualquer resposta não-2xx retorna *types.APIError.
func (r *APIRepositoryImpl) GetProfile(ctx context.Context, token string) (*entity.ProfileResponse, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)
	header.Set("Content-Type", contentTypeJSON)

	resp, err := r.Do(ctx, http.MethodGet, PathProfile, header, nil)
	if err != nil {
		return nil, err
	}

	var profile entity.ProfileResponse
	if err := decodeResponse(resp, PathProfile, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetFreeTierStatus busca o estado do Free Tier.
func (r *APIRepositoryImpl) GetFreeTierStatus(ctx context.Context) (*entity.FreeTierStatus, error) {
	var status entity.FreeTierStatus
	if err := r.getJSON(ctx, PathFreeTierStatus, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// GetEC2Recommendations busca as recomendações de rightsizing de EC2.
func (r *APIRepositoryImpl) GetEC2Recommendations(ctx context.Context) (*entity.EC2Recommendations, error) {
	var recos entity.EC2Recommendations
	if err := r.getJSON(ctx, PathEC2Reco, &recos); err != nil {
		return nil, err
	}
	return &recos, nil
}

// GetCostOverview busca a visão de custos dos últimos days dias.
func (r *APIRepositoryImpl) GetCostOverview(ctx context.Context, days int) (*entity.CostOverview, error) {
	path := PathCostOverview + "?days=" + strconv.Itoa(days)

	resp, err := r.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return nil, err
	}

	var raw json.RawMessage
	if err := decodeResponse(resp, PathCostOverview, &raw); err != nil {
		return nil, err
	}

	var overview entity.CostOverview
	if err := json.Unmarshal(raw, &overview); err != nil {
		return nil, fmt.Errorf("error decoding %s response: %w", PathCostOverview, err)
	}
	overview.Raw = raw
	return &overview, nil
}

// Do executa uma requisição contra a URL base da API.
// Falhas de transporte são retornadas como *types.ConnectionError.
func (r *APIRepositoryImpl) Do(ctx context.Context, method, path string, header http.Header, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, r.resolve(path), body)
	if err != nil {
		return nil, fmt.Errorf("error building request for %s: %w", path, err)
	}

	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", contentTypeJSON)
	}
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)

	if r.console != nil {
		r.console.LogDebug("%s %s (request id %s)", method, req.URL.Redacted(), requestID)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, &types.ConnectionError{Err: unwrapURLError(err)}
	}
	return resp, nil
}

func (r *APIRepositoryImpl) getJSON(ctx context.Context, path string, out interface{}) error {
	resp, err := r.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return err
	}
	return decodeResponse(resp, path, out)
}

// resolve aceita caminhos relativos à URL base ou URLs absolutas.
func (r *APIRepositoryImpl) resolve(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return r.baseURL + path
}

// decodeResponse fecha o corpo da resposta e decodifica o JSON em out.
// Respostas não-2xx viram *types.APIError com a mensagem do campo "error" (ou "msg").
func decodeResponse(resp *http.Response, path string, out interface{}) error {
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &types.ConnectionError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &types.APIError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("error decoding %s response: %w", path, err)
	}
	return nil
}

func errorMessage(data []byte) string {
	var payload struct {
		Error string `json:"error"`
		Msg   string `json:"msg"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return ""
	}
	if payload.Error != "" {
		return payload.Error
	}
	return payload.Msg
}

// unwrapURLError remove o prefixo "Get \"url\":" que o net/http adiciona.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}
