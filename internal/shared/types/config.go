package types

import "time"

// Valores padrão aplicados quando nem o arquivo nem as flags definem o campo.
const (
	DefaultAPIURL         = "http://localhost:5000"
	DefaultTimeoutSeconds = 30
	DefaultCostDays       = 7
	DefaultStorage        = "file"
	DefaultSessionPolicy  = "lenient"
)

// Config represents the application configuration that can be loaded from a file.
type Config struct {
	APIURL         string   `json:"api_url" yaml:"api_url" toml:"api_url"`
	TimeoutSeconds *int     `json:"timeout_seconds" yaml:"timeout_seconds" toml:"timeout_seconds"`
	CostDays       int      `json:"cost_days" yaml:"cost_days" toml:"cost_days"`
	Storage        string   `json:"storage" yaml:"storage" toml:"storage"`
	StoragePath    string   `json:"storage_path" yaml:"storage_path" toml:"storage_path"`
	SessionPolicy  string   `json:"session_policy" yaml:"session_policy" toml:"session_policy"`
	ReportName     string   `json:"report_name" yaml:"report_name" toml:"report_name"`
	ReportType     []string `json:"report_type" yaml:"report_type" toml:"report_type"`
	Dir            string   `json:"dir" yaml:"dir" toml:"dir"`
	Debug          bool     `json:"debug" yaml:"debug" toml:"debug"`
}

// DefaultConfig retorna a configuração usada quando nenhum arquivo é informado.
func DefaultConfig() *Config {
	timeout := DefaultTimeoutSeconds
	return &Config{
		APIURL:         DefaultAPIURL,
		TimeoutSeconds: &timeout,
		CostDays:       DefaultCostDays,
		Storage:        DefaultStorage,
		SessionPolicy:  DefaultSessionPolicy,
		ReportType:     []string{"csv"},
	}
}

// Timeout converts TimeoutSeconds into a duration; zero means no timeout.
func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds == nil {
		return DefaultTimeoutSeconds * time.Second
	}
	if *c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(*c.TimeoutSeconds) * time.Second
}

// Merge sobrepõe os valores do arquivo com as flags informadas na linha de comando.
// Flags vazias (ou zero) mantêm o valor do arquivo.
func (c *Config) Merge(args *CLIArgs) *Config {
	merged := *c
	if args == nil {
		return &merged
	}
	if args.APIURL != "" {
		merged.APIURL = args.APIURL
	}
	if args.Days > 0 {
		merged.CostDays = args.Days
	}
	if args.Storage != "" {
		merged.Storage = args.Storage
	}
	if args.StoragePath != "" {
		merged.StoragePath = args.StoragePath
	}
	if args.SessionPolicy != "" {
		merged.SessionPolicy = args.SessionPolicy
	}
	if args.ReportName != "" {
		merged.ReportName = args.ReportName
	}
	if len(args.ReportType) > 0 {
		merged.ReportType = args.ReportType
	}
	if args.Dir != "" {
		merged.Dir = args.Dir
	}
	if args.Debug {
		merged.Debug = true
	}

	if merged.APIURL == "" {
		merged.APIURL = DefaultAPIURL
	}
	if merged.CostDays <= 0 {
		merged.CostDays = DefaultCostDays
	}
	if merged.Storage == "" {
		merged.Storage = DefaultStorage
	}
	if merged.SessionPolicy == "" {
		merged.SessionPolicy = DefaultSessionPolicy
	}
	return &merged
}
