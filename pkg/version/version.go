package version

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
)

const devVersion = "0.0.0-dev"

// Preenchidos via -ldflags "-X"; quando vazios, vêm do build info.
var (
	Version   = devVersion
	Commit    = ""
	BuildTime = ""
)

func init() {
	if Version != "" && Version != devVersion {
		return
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		applyBuildInfo(vcsSettings(bi))
	}
}

func vcsSettings(bi *debug.BuildInfo) map[string]string {
	settings := make(map[string]string, len(bi.Settings))
	for _, s := range bi.Settings {
		settings[s.Key] = s.Value
	}
	return settings
}

// applyBuildInfo usa vcs.revision (7 chars), vcs.time e vcs.tag.
// Uma árvore modificada (vcs.modified=true) ganha o sufixo -dirty.
func applyBuildInfo(settings map[string]string) {
	if rev := settings["vcs.revision"]; Commit == "" && len(rev) >= 7 {
		Commit = rev[:7]
	}

	if BuildTime == "" {
		if ts, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
			BuildTime = ts.UTC().Format("2006-01-02T15:04:05Z")
		}
	}

	tag := strings.TrimPrefix(settings["vcs.tag"], "v")
	if tag == "" {
		return
	}
	Version = tag
	if strings.EqualFold(settings["vcs.modified"], "true") {
		Version += "-dirty"
	}
}

// ReleasesURL é o endpoint consultado para descobrir a última versão publicada.
const ReleasesURL = "https://api.github.com/repos/diillson/finops-latam-cli/releases/latest"

// CheckLatestVersion verifica se uma versão mais recente está disponível.
func CheckLatestVersion(currentVersion string) {
	// Versões dev não são verificadas
	if strings.HasSuffix(currentVersion, "-dev") {
		return
	}

	client := &http.Client{Timeout: 3 * time.Second}
	latestVersion, err := latestRelease(client, ReleasesURL)
	if err != nil || latestVersion == "" {
		return
	}

	if newerThan(latestVersion, currentVersion) {
		pterm.Warning.Println(fmt.Sprintf("A new version of FinOps Latam CLI is available: %s", latestVersion))
		pterm.Info.Println("Please update using: go install github.com/diillson/finops-latam-cli/cmd/finops-latam@latest")
	}
}

func latestRelease(client *http.Client, url string) (string, error) {
	resp, err := client.Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.Unmarshal(body, &release); err != nil {
		return "", err
	}
	return strings.TrimPrefix(release.TagName, "v"), nil
}

// newerThan compara versões x.y.z numericamente; sufixos após "-" são ignorados.
func newerThan(latest, current string) bool {
	a, b := versionParts(latest), versionParts(current)
	for i := 0; i < 3; i++ {
		if a[i] != b[i] {
			return a[i] > b[i]
		}
	}
	return false
}

func versionParts(v string) [3]int {
	var parts [3]int
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexByte(v, '-'); i >= 0 {
		v = v[:i]
	}
	for i, field := range strings.SplitN(v, ".", 3) {
		n, err := strconv.Atoi(field)
		if err != nil {
			break
		}
		parts[i] = n
	}
	return parts
}

// FormatVersion retorna a versão com commit e build time, por exemplo
// "1.2.3 (commit: abc1234, built at: 2025-10-23T10:20:30Z)".
func FormatVersion() string {
	ver := Version
	if ver == "" {
		ver = devVersion
	}

	switch {
	case Commit == "" && BuildTime == "":
		return ver + " (development)"
	case BuildTime == "":
		return fmt.Sprintf("%s (commit: %s)", ver, Commit)
	case Commit == "":
		return fmt.Sprintf("%s (commit: development, built at: %s)", ver, BuildTime)
	default:
		return fmt.Sprintf("%s (commit: %s, built at: %s)", ver, Commit, BuildTime)
	}
}
