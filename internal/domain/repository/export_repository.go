package repository

import (
	"github.com/diillson/finops-latam-cli/internal/domain/entity"
)

type ExportRepository interface {
	ExportDashboardToCSV(snapshot entity.DashboardSnapshot, filename string, outputDir string) (string, error)
	ExportDashboardToJSON(snapshot entity.DashboardSnapshot, filename string, outputDir string) (string, error)
	ExportDashboardToPDF(snapshot entity.DashboardSnapshot, filename string, outputDir string) (string, error)
}
