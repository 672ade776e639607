package types

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile    string
	APIURL        string
	Days          int
	Storage       string
	StoragePath   string
	SessionPolicy string
	ReportName    string
	ReportType    []string
	Dir           string
	Debug         bool
}

// Credentials agrupa os campos dos formulários de login e registro.
type Credentials struct {
	CompanyName string
	Email       string
	ContactName string
	Password    string
}
