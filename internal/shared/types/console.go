package types

// NotificationLevel classifica as notificações transitórias exibidas ao usuário.
type NotificationLevel string

const (
	NotifySuccess NotificationLevel = "success"
	NotifyInfo    NotificationLevel = "info"
	NotifyWarning NotificationLevel = "warning"
	NotifyDanger  NotificationLevel = "danger"
)

// ConsoleInterface define a interface para saída no console.
type ConsoleInterface interface {
	LogInfo(format string, a ...interface{})
	LogWarning(format string, a ...interface{})
	LogError(format string, a ...interface{})
	LogSuccess(format string, a ...interface{})
	LogDebug(format string, a ...interface{})

	Notify(level NotificationLevel, message string)
	Status(message string) StatusHandle

	RenderAuth(view AuthView)
	RenderFreeTier(view FreeTierCards)
	RenderEC2Counts(view EC2Counts)
	RenderCharts(view ChartsView)
	RenderRecommendations(view RecommendationsView)
}

// StatusHandle encerra um indicador de progresso.
type StatusHandle interface {
	Stop()
}
