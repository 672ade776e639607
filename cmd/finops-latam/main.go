package main

import (
	"fmt"
	"os"

	"github.com/diillson/finops-latam-cli/internal/adapter/driven/api"
	"github.com/diillson/finops-latam-cli/internal/adapter/driven/config"
	"github.com/diillson/finops-latam-cli/internal/adapter/driven/export"
	"github.com/diillson/finops-latam-cli/internal/adapter/driven/storage"
	"github.com/diillson/finops-latam-cli/internal/adapter/driving/cli"
	"github.com/diillson/finops-latam-cli/internal/application/session"
	"github.com/diillson/finops-latam-cli/internal/application/usecase"
	"github.com/diillson/finops-latam-cli/internal/shared/types"
	"github.com/diillson/finops-latam-cli/pkg/console"
	"github.com/diillson/finops-latam-cli/pkg/version"
)

func main() {
	consoleImpl := console.NewConsole()
	configRepo := config.NewConfigRepository()

	// Os repositórios dependem da configuração, então são criados por execução
	app := cli.NewCLIApp(version.Version, configRepo, func(cfg *types.Config) (*cli.Services, error) {
		return buildServices(cfg, consoleImpl)
	})

	// Executa o aplicativo
	if err := app.Execute(); err != nil {
		if !cli.IsReported(err) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func buildServices(cfg *types.Config, consoleImpl *console.Console) (*cli.Services, error) {
	consoleImpl.SetDebug(cfg.Debug)

	policy, err := usecase.ParseValidationPolicy(cfg.SessionPolicy)
	if err != nil {
		return nil, err
	}

	apiRepo, err := api.NewAPIRepository(cfg.APIURL, cfg.Timeout(), consoleImpl)
	if err != nil {
		return nil, err
	}

	storageRepo, err := storage.NewStorageRepository(cfg.Storage, cfg.StoragePath)
	if err != nil {
		return nil, err
	}
	consoleImpl.LogDebug("Using %s session storage", cfg.Storage)

	store := session.NewStore(storageRepo)

	return &cli.Services{
		Session:   usecase.NewSessionUseCase(apiRepo, store, consoleImpl, policy),
		Dashboard: usecase.NewDashboardUseCase(apiRepo, export.NewExportRepository(), consoleImpl),
		Close:     storageRepo.Close,
	}, nil
}
