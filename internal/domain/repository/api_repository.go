package repository

import (
	"context"
	"io"
	"net/http"

	"github.com/diillson/finops-latam-cli/internal/domain/entity"
)

// APIRepository defines the interface for FinOps backend API interactions.
type APIRepository interface {
	// Auth Operations
	Login(ctx context.Context, req entity.LoginRequest) (*entity.AuthResponse, error)
	Register(ctx context.Context, req entity.RegisterRequest) (*entity.AuthResponse, error)
	GetProfile(ctx context.Context, token string) (*entity.ProfileResponse, error)

	// Dashboard Operations
	GetFreeTierStatus(ctx context.Context) (*entity.FreeTierStatus, error)
	GetEC2Recommendations(ctx context.Context) (*entity.EC2Recommendations, error)
	GetCostOverview(ctx context.Context, days int) (*entity.CostOverview, error)

	// Raw request against the API base URL; the caller owns the response body.
	Do(ctx context.Context, method, path string, header http.Header, body io.Reader) (*http.Response, error)
}
