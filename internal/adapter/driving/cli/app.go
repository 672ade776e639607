package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/diillson/finops-latam-cli/internal/application/usecase"
	"github.com/diillson/finops-latam-cli/internal/domain/repository"
	"github.com/diillson/finops-latam-cli/internal/shared/types"
	"github.com/diillson/finops-latam-cli/pkg/version"
	"github.com/spf13/cobra"
)

// Services são os casos de uso construídos a partir da configuração efetiva.
type Services struct {
	Session   *usecase.SessionUseCase
	Dashboard *usecase.DashboardUseCase
	Close     func() error
}

// ServiceFactory monta os serviços para uma execução.
type ServiceFactory func(cfg *types.Config) (*Services, error)

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	configRepo repository.ConfigRepository
	factory    ServiceFactory
	prompt     *prompter
	version    string
}

// NewCLIApp cria uma nova aplicação CLI.
func NewCLIApp(versionStr string, configRepo repository.ConfigRepository, factory ServiceFactory) *CLIApp {
	app := &CLIApp{
		configRepo: configRepo,
		factory:    factory,
		prompt:     newPrompter(os.Stdin, os.Stderr),
		version:    versionStr,
	}

	// Obtem a versão formatada
	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:           "finops-latam",
		Short:         "FinOps Latam cost dashboard CLI",
		Long:          "Checks the stored session and renders the free tier, EC2 recommendation and cost dashboard.",
		Version:       formattedVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          app.runDashboard,
	}

	rootCmd.SetVersionTemplate(`{{printf "FinOps Latam CLI version: %s\n" .Version}}`)

	flags := rootCmd.PersistentFlags()
	flags.StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	flags.StringP("api-url", "u", "", "Base URL of the FinOps backend (default: "+types.DefaultAPIURL+")")
	flags.IntP("days", "t", 0, "Number of days for the cost overview (default: 7)")
	flags.String("storage", "", "Session storage backend: file, sqlite or memory (default: file)")
	flags.String("storage-path", "", "Path of the session storage file (default: ~/.finops-latam)")
	flags.String("session-policy", "", "What to do when the session cannot be verified: lenient or strict (default: lenient)")
	flags.StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	flags.StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, pdf")
	flags.StringP("dir", "d", "", "Directory to save the report files (default: current directory)")
	flags.Bool("debug", false, "Show debug messages (request ids, storage paths)")

	rootCmd.AddCommand(
		app.newLoginCmd(),
		app.newRegisterCmd(),
		app.newLogoutCmd(),
		app.newStatusCmd(),
		app.newFetchCmd(),
	)

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application; SIGINT/SIGTERM cancel in-flight requests.
func (app *CLIApp) Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.rootCmd.ExecuteContext(ctx)
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func parseArgs(cmd *cobra.Command) (*types.CLIArgs, error) {
	flags := cmd.Flags()
	configFile, _ := flags.GetString("config-file")
	apiURL, _ := flags.GetString("api-url")
	days, _ := flags.GetInt("days")
	storage, _ := flags.GetString("storage")
	storagePath, _ := flags.GetString("storage-path")
	sessionPolicy, _ := flags.GetString("session-policy")
	reportName, _ := flags.GetString("report-name")
	reportType, _ := flags.GetStringSlice("report-type")
	dir, _ := flags.GetString("dir")
	debug, _ := flags.GetBool("debug")

	if days < 0 {
		return nil, fmt.Errorf("--days must be positive, got %d", days)
	}

	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		dir = absDir
	}

	// report-type só substitui o arquivo de configuração quando informado
	if !flags.Changed("report-type") {
		reportType = nil
	}

	return &types.CLIArgs{
		ConfigFile:    configFile,
		APIURL:        apiURL,
		Days:          days,
		Storage:       storage,
		StoragePath:   storagePath,
		SessionPolicy: sessionPolicy,
		ReportName:    reportName,
		ReportType:    reportType,
		Dir:           dir,
		Debug:         debug,
	}, nil
}

// loadConfig combina arquivo de configuração e flags; flags prevalecem.
func (app *CLIApp) loadConfig(cmd *cobra.Command) (*types.Config, error) {
	args, err := parseArgs(cmd)
	if err != nil {
		return nil, err
	}

	fileConfig, err := app.configRepo.LoadConfigFile(args.ConfigFile)
	if err != nil {
		return nil, err
	}

	cfg := fileConfig.Merge(args)
	if len(cfg.ReportType) == 0 {
		cfg.ReportType = []string{"csv"}
	}
	if _, err := usecase.ParseValidationPolicy(cfg.SessionPolicy); err != nil {
		return nil, err
	}
	return cfg, nil
}

// withServices carrega a configuração, monta os serviços e os libera ao final.
func (app *CLIApp) withServices(cmd *cobra.Command, fn func(cfg *types.Config, svc *Services) error) (err error) {
	cfg, err := app.loadConfig(cmd)
	if err != nil {
		return err
	}

	svc, err := app.factory(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if svc.Close == nil {
			return
		}
		if closeErr := svc.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return fn(cfg, svc)
}

// runDashboard é o ponto de entrada principal: valida a sessão e carrega o dashboard.
func (app *CLIApp) runDashboard(cmd *cobra.Command, args []string) error {
	displayWelcomeBanner()

	// Verifica a versão mais recente disponível
	go version.CheckLatestVersion(app.version)

	return app.withServices(cmd, func(cfg *types.Config, svc *Services) error {
		ctx := cmd.Context()

		// o dashboard independe da sessão; falhas de sessão já foram exibidas
		authErr := svc.Session.CheckAuthStatus(ctx)

		dashboardErr := svc.Dashboard.RunDashboard(ctx, cfg.CostDays, usecase.ReportOptions{
			Name:  cfg.ReportName,
			Types: cfg.ReportType,
			Dir:   cfg.Dir,
		})
		return reported(errors.Join(authErr, dashboardErr))
	})
}

// reportedError marca erros que já foram exibidos ao usuário.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// IsReported indica se a mensagem do erro já foi exibida pelo caso de uso.
func IsReported(err error) bool {
	var r *reportedError
	return errors.As(err, &r)
}
