// controllers/invoice.go
package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"opsdesk-backend/config"
	"opsdesk-backend/models"
	"opsdesk-backend/services"
	"opsdesk-backend/utils"
)

// InvoiceItemInput defines the structure for an invoice line item
type InvoiceItemInput struct {
	Name  string  `json:"name" binding:"required"`
	Qty   int     `json:"qty" binding:"required,min=1"`
	Price float64 `json:"price"`
}

// CreateInvoiceInput defines the expected JSON structure for creating an
// invoice. invoiceId is the human-readable number supplied by the caller; it
// is not checked for uniqueness.
type CreateInvoiceInput struct {
	ID            string             `json:"id"`
	InvoiceNumber string             `json:"invoiceId" binding:"required"`
	Title         string             `json:"title" binding:"required"`
	CustomerID    string             `json:"customerId" binding:"required"`
	ProjectID     *string            `json:"projectId"`
	Items         []InvoiceItemInput `json:"items"`
	Subtotal      float64            `json:"subtotal"`
	Total         float64            `json:"total"`
	Status        string             `json:"status" binding:"required,oneof=Draft Sent Paid Overdue"`
	Date          string             `json:"date" binding:"required"`
}

type UpdateInvoiceStatusInput struct {
	Status string `json:"status" binding:"required,oneof=Draft Sent Paid Overdue"`
}

// InvoiceStats is the dashboard aggregate over all invoices.
type InvoiceStats struct {
	TotalPaid        float64 `json:"totalPaid"`
	TotalOutstanding float64 `json:"totalOutstanding"`
	TotalDraft       float64 `json:"totalDraft"`
	TotalCount       int     `json:"totalCount"`
}

type invoiceCustomerRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// requireAdmin gates invoice mutation on the caller's profile role.
func requireAdmin(c *gin.Context) bool {
	if !IsAdmin(c) {
		utils.RespondWithError(c, http.StatusForbidden, "Unauthorized: Only Admins can modify invoices")
		return false
	}
	return true
}

// effectiveStatus derives Overdue for Sent invoices past the reminder
// window. The stored status is never rewritten.
func effectiveStatus(inv *models.Invoice, now time.Time) string {
	if inv.Status == models.StatusSent && inv.SentAt != nil &&
		utils.DaysBetween(*inv.SentAt, now) >= utils.OverdueAfterDays() {
		return models.StatusOverdue
	}
	return inv.Status
}

func loadInvoiceItems(invoiceID string) ([]models.InvoiceItem, error) {
	items := []models.InvoiceItem{}
	err := config.DB.Where(`"invoiceId" = ?`, invoiceID).Find(&items).Error
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Total = float64(items[i].Qty) * items[i].Price
	}
	return items, nil
}

// GetInvoices retrieves invoices with customer display fields and line
// items, newest first, optionally filtered by project.
func GetInvoices(c *gin.Context) {
	type invoiceRow struct {
		models.Invoice `gorm:"embedded"`
		CustomerName   string `gorm:"column:customerName"`
		CustomerEmail  string `gorm:"column:customerEmail"`
	}

	queryText := `
		SELECT i.*, c."name" AS "customerName", c."email" AS "customerEmail"
		FROM "Invoice" i
		JOIN "Customer" c ON i."customerId" = c."id"`
	args := []interface{}{}

	if projectID := c.Query("projectId"); projectID != "" {
		queryText += ` WHERE i."projectId" = ?`
		args = append(args, projectID)
	}
	queryText += ` ORDER BY i."createdAt" DESC`

	rows := []invoiceRow{}
	if err := config.DB.Raw(queryText, args...).Scan(&rows).Error; err != nil {
		config.LogError("controllers", "GetInvoices", "list invoices", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
		return
	}

	type invoiceView struct {
		models.Invoice
		Customer        invoiceCustomerRef `json:"customer"`
		EffectiveStatus string             `json:"effectiveStatus"`
	}

	now := time.Now()
	views := make([]invoiceView, 0, len(rows))
	for _, row := range rows {
		invoice := row.Invoice
		items, err := loadInvoiceItems(invoice.ID)
		if err != nil {
			config.LogError("controllers", "GetInvoices", "load items", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoices")
			return
		}
		invoice.Items = items
		views = append(views, invoiceView{
			Invoice: invoice,
			Customer: invoiceCustomerRef{
				ID:    invoice.CustomerID,
				Name:  row.CustomerName,
				Email: row.CustomerEmail,
			},
			EffectiveStatus: effectiveStatus(&invoice, now),
		})
	}

	c.JSON(http.StatusOK, views)
}

// CreateInvoice inserts the invoice and its line items in one transaction.
// Admin only; a non-admin caller persists nothing.
func CreateInvoice(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	var input CreateInvoiceInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}

	invoice := models.Invoice{
		ID:            id,
		InvoiceNumber: input.InvoiceNumber,
		Title:         input.Title,
		Subtotal:      input.Subtotal,
		Total:         input.Total,
		Status:        input.Status,
		Date:          input.Date,
		CustomerID:    input.CustomerID,
		ProjectID:     input.ProjectID,
	}
	if invoice.Status == models.StatusSent {
		now := time.Now()
		invoice.SentAt = &now
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&invoice).Error; err != nil {
		tx.Rollback()
		config.LogError("controllers", "CreateInvoice", "insert invoice", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
		return
	}

	for _, item := range input.Items {
		row := models.InvoiceItem{
			ID:        uuid.NewString(),
			Name:      item.Name,
			Qty:       item.Qty,
			Price:     item.Price,
			InvoiceID: invoice.ID,
		}
		if err := tx.Create(&row).Error; err != nil {
			tx.Rollback()
			config.LogError("controllers", "CreateInvoice", "insert item", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create invoice")
			return
		}
		row.Total = float64(row.Qty) * row.Price
		invoice.Items = append(invoice.Items, row)
	}

	tx.Commit()

	c.JSON(http.StatusCreated, invoice)
}

// UpdateInvoiceStatus overwrites the status. Admin only. Transitions are not
// validated in either direction; the first move to Sent stamps sentAt.
func UpdateInvoiceStatus(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	id := c.Param("id")

	var input UpdateInvoiceStatusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var invoice models.Invoice
	if err := config.DB.First(&invoice, `"id" = ?`, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			config.LogError("controllers", "UpdateInvoiceStatus", "load invoice", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	updates := map[string]interface{}{"status": input.Status}
	if input.Status == models.StatusSent && invoice.SentAt == nil {
		updates["sentAt"] = time.Now()
	}

	if err := config.DB.Model(&invoice).Updates(updates).Error; err != nil {
		config.LogError("controllers", "UpdateInvoiceStatus", "update status", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update invoice status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Invoice status updated",
		"projectId": invoice.ProjectID,
	})
}

// DeleteInvoice removes the invoice and its line items in one transaction.
// Admin only. The freed projectId is returned so the client can invalidate
// its project view.
func DeleteInvoice(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	id := c.Param("id")

	var invoice models.Invoice
	if err := config.DB.First(&invoice, `"id" = ?`, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			config.LogError("controllers", "DeleteInvoice", "load invoice", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where(`"invoiceId" = ?`, invoice.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
		tx.Rollback()
		config.LogError("controllers", "DeleteInvoice", "delete items", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}
	if err := tx.Delete(&invoice).Error; err != nil {
		tx.Rollback()
		config.LogError("controllers", "DeleteInvoice", "delete invoice", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete invoice")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{
		"message":   "Invoice deleted successfully",
		"projectId": invoice.ProjectID,
	})
}

// invoiceStatsQuery runs the status-bucket aggregate. SUM comes back as a
// decimal/text value from the driver, so the buckets are scanned as decimals
// and coerced to float64 explicitly.
func invoiceStatsQuery(db *gorm.DB) (InvoiceStats, error) {
	var row struct {
		TotalPaid        decimal.Decimal `gorm:"column:totalPaid"`
		TotalOutstanding decimal.Decimal `gorm:"column:totalOutstanding"`
		TotalDraft       decimal.Decimal `gorm:"column:totalDraft"`
		TotalCount       int64           `gorm:"column:totalCount"`
	}

	err := db.Raw(`
		SELECT
			COALESCE(SUM(CASE WHEN "status" = 'Paid' THEN "total" ELSE 0 END), 0) AS "totalPaid",
			COALESCE(SUM(CASE WHEN "status" IN ('Sent', 'Overdue') THEN "total" ELSE 0 END), 0) AS "totalOutstanding",
			COALESCE(SUM(CASE WHEN "status" = 'Draft' THEN "total" ELSE 0 END), 0) AS "totalDraft",
			COUNT(*) AS "totalCount"
		FROM "Invoice"`).Scan(&row).Error
	if err != nil {
		return InvoiceStats{}, err
	}

	return InvoiceStats{
		TotalPaid:        row.TotalPaid.InexactFloat64(),
		TotalOutstanding: row.TotalOutstanding.InexactFloat64(),
		TotalDraft:       row.TotalDraft.InexactFloat64(),
		TotalCount:       int(row.TotalCount),
	}, nil
}

// GetInvoiceStats returns totals grouped by status bucket plus a row count.
func GetInvoiceStats(c *gin.Context) {
	stats, err := invoiceStatsQuery(config.DB)
	if err != nil {
		config.LogError("controllers", "GetInvoiceStats", "aggregate", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve invoice stats")
		return
	}

	c.JSON(http.StatusOK, stats)
}

// SendInvoice emails the invoice to its customer via the delivery provider
// and marks a Draft invoice as Sent. Admin only.
func SendInvoice(c *gin.Context) {
	if !requireAdmin(c) {
		return
	}

	id := c.Param("id")

	var invoice models.Invoice
	if err := config.DB.First(&invoice, `"id" = ?`, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Invoice not found")
		} else {
			config.LogError("controllers", "SendInvoice", "load invoice", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	var customer models.Customer
	if err := config.DB.First(&customer, `"id" = ?`, invoice.CustomerID).Error; err != nil {
		config.LogError("controllers", "SendInvoice", "load customer", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	items, err := loadInvoiceItems(invoice.ID)
	if err != nil {
		config.LogError("controllers", "SendInvoice", "load items", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	mailer := services.NewMailer()
	if !mailer.Enabled() {
		utils.RespondWithError(c, http.StatusServiceUnavailable, "Email delivery is not configured")
		return
	}

	messageID, err := mailer.SendInvoice(services.InvoiceEmail{
		CustomerName:  customer.Name,
		CustomerEmail: customer.Email,
		InvoiceNumber: invoice.InvoiceNumber,
		Date:          invoice.Date,
		Items:         items,
		Total:         invoice.Total,
	})
	if err != nil {
		config.LogError("controllers", "SendInvoice", "deliver email", err)
		utils.RespondWithError(c, http.StatusBadGateway, "Failed to send email")
		return
	}

	if invoice.Status == models.StatusDraft {
		now := time.Now()
		updates := map[string]interface{}{"status": models.StatusSent, "sentAt": now}
		if err := config.DB.Model(&invoice).Updates(updates).Error; err != nil {
			config.LogError("controllers", "SendInvoice", "mark sent", err)
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "messageId": messageID})
}
