package usecase

import (
	"fmt"
	"sync"

	"github.com/diillson/finops-latam-cli/internal/shared/types"
)

type notification struct {
	Level   types.NotificationLevel
	Message string
}

// recordingConsole guarda tudo o que os casos de uso exibem.
type recordingConsole struct {
	mu sync.Mutex

	infos         []string
	errors        []string
	warnings      []string
	successes     []string
	notifications []notification

	auth            []types.AuthView
	freeTier        []types.FreeTierCards
	ec2             []types.EC2Counts
	charts          []types.ChartsView
	recommendations []types.RecommendationsView
}

func (c *recordingConsole) LogDebug(format string, a ...interface{}) {}

func (c *recordingConsole) LogInfo(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.infos = append(c.infos, fmt.Sprintf(format, a...))
}

func (c *recordingConsole) LogWarning(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.warnings = append(c.warnings, fmt.Sprintf(format, a...))
}

func (c *recordingConsole) LogError(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errors = append(c.errors, fmt.Sprintf(format, a...))
}

func (c *recordingConsole) LogSuccess(format string, a ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.successes = append(c.successes, fmt.Sprintf(format, a...))
}

func (c *recordingConsole) Notify(level types.NotificationLevel, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notifications = append(c.notifications, notification{Level: level, Message: message})
}

func (c *recordingConsole) Status(message string) types.StatusHandle { return noopStatus{} }

func (c *recordingConsole) RenderAuth(v types.AuthView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.auth = append(c.auth, v)
}

func (c *recordingConsole) RenderFreeTier(v types.FreeTierCards) {
	c.freeTier = append(c.freeTier, v)
}

func (c *recordingConsole) RenderEC2Counts(v types.EC2Counts) {
	c.ec2 = append(c.ec2, v)
}

func (c *recordingConsole) RenderCharts(v types.ChartsView) {
	c.charts = append(c.charts, v)
}

func (c *recordingConsole) RenderRecommendations(v types.RecommendationsView) {
	c.recommendations = append(c.recommendations, v)
}

func (c *recordingConsole) lastAuth() types.AuthView {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.auth) == 0 {
		return types.AuthView{}
	}
	return c.auth[len(c.auth)-1]
}

func (c *recordingConsole) lastNotification() notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.notifications) == 0 {
		return notification{}
	}
	return c.notifications[len(c.notifications)-1]
}

type noopStatus struct{}

func (noopStatus) Stop() {}
