package cli

import (
	"fmt"

	"github.com/diillson/finops-latam-cli/pkg/version"
	"github.com/fatih/color"
)

// displayWelcomeBanner exibe o banner de boas-vindas com informações de versão.
func displayWelcomeBanner() {
	banner := `
   ___ _        ___                _          _
  | __(_)_ _   / _ \ _ __  ___    | |   __ _ | |_  __ _  _ __
  | _|| | ' \ | (_) | '_ \(_-<    | |__/ _' ||  _|/ _' || '  \
  |_| |_|_||_| \___/| .__//__/    |____\__,_| \__|\__,_||_|_|_|
                    |_|
        `
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	blue := color.New(color.FgBlue, color.Bold).SprintFunc()

	fmt.Println(green(banner))

	// Obtem a string formatada da versão através do pacote version
	formattedVersion := version.FormatVersion()
	fmt.Println(blue(fmt.Sprintf("FinOps Latam CLI (v%s)", formattedVersion)))
}
