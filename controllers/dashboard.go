package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"opsdesk-backend/config"
	"opsdesk-backend/models"
	"opsdesk-backend/utils"
)

type DashboardOverview struct {
	TotalCustomers int64        `json:"totalCustomers"`
	TotalProjects  int64        `json:"totalProjects"`
	PipelineValue  float64      `json:"pipelineValue"`
	Invoices       InvoiceStats `json:"invoices"`
}

// GetDashboardOverview returns the headline counts, the open pipeline value
// and the invoice totals.
func GetDashboardOverview(c *gin.Context) {
	var overview DashboardOverview

	if err := config.DB.Model(&models.Customer{}).Count(&overview.TotalCustomers).Error; err != nil {
		config.LogError("controllers", "GetDashboardOverview", "count customers", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	if err := config.DB.Model(&models.Project{}).Count(&overview.TotalProjects).Error; err != nil {
		config.LogError("controllers", "GetDashboardOverview", "count projects", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	var pipeline struct {
		Value decimal.Decimal `gorm:"column:pipelineValue"`
	}
	err := config.DB.Raw(`
		SELECT COALESCE(SUM("estimatedValue"), 0) AS "pipelineValue"
		FROM "Project"
		WHERE "phase" <> ?`, models.PhaseComplete).Scan(&pipeline).Error
	if err != nil {
		config.LogError("controllers", "GetDashboardOverview", "pipeline value", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	overview.PipelineValue = pipeline.Value.InexactFloat64()

	stats, err := invoiceStatsQuery(config.DB)
	if err != nil {
		config.LogError("controllers", "GetDashboardOverview", "invoice stats", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	overview.Invoices = stats

	c.JSON(http.StatusOK, overview)
}
