package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"opsdesk-backend/config"
	"opsdesk-backend/models"
	"opsdesk-backend/utils"
)

// CreateCustomerInput defines the expected JSON structure for creating a customer
type CreateCustomerInput struct {
	ID            string `json:"id"`
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
	Location      string `json:"location"`
	Notes         string `json:"notes"`
	AttachmentURL string `json:"attachmentUrl"`
	SignatureURL  string `json:"signatureUrl"`
}

// UpdateCustomerInput defines the expected JSON structure for updating a
// customer. Every field is a pointer: an absent field keeps the stored value,
// an empty string overwrites it.
type UpdateCustomerInput struct {
	Name          *string `json:"name"`
	Email         *string `json:"email"`
	Address       *string `json:"address"`
	Phone         *string `json:"phone"`
	Location      *string `json:"location"`
	Notes         *string `json:"notes"`
	AttachmentURL *string `json:"attachmentUrl"`
	SignatureURL  *string `json:"signatureUrl"`
}

type customerProjectRef struct {
	ID   string `gorm:"column:id" json:"id"`
	Name string `gorm:"column:name" json:"name"`
}

// GetCustomers retrieves all customers ordered by name, each annotated with
// the names of the projects it belongs to. One secondary query per customer;
// fine at this scale.
func GetCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := config.DB.Order(`"name" ASC`).Find(&customers).Error; err != nil {
		config.LogError("controllers", "GetCustomers", "list customers", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
		return
	}

	type customerView struct {
		models.Customer
		Projects []string `json:"projects"`
	}

	views := make([]customerView, 0, len(customers))
	for _, customer := range customers {
		names := []string{}
		err := config.DB.Raw(`
			SELECT p."name"
			FROM "Project" p
			JOIN "ProjectCustomer" pc ON p."id" = pc."projectId"
			WHERE pc."customerId" = ?`, customer.ID).Scan(&names).Error
		if err != nil {
			config.LogError("controllers", "GetCustomers", "load project names", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve customers")
			return
		}
		views = append(views, customerView{Customer: customer, Projects: names})
	}

	c.JSON(http.StatusOK, views)
}

// GetCustomer retrieves a specific customer with its project objects.
func GetCustomer(c *gin.Context) {
	id := c.Param("id")

	var customer models.Customer
	if err := config.DB.First(&customer, `"id" = ?`, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			config.LogError("controllers", "GetCustomer", "load customer", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	projects := []customerProjectRef{}
	err := config.DB.Raw(`
		SELECT p."id", p."name"
		FROM "Project" p
		JOIN "ProjectCustomer" pc ON p."id" = pc."projectId"
		WHERE pc."customerId" = ?`, id).Scan(&projects).Error
	if err != nil {
		config.LogError("controllers", "GetCustomer", "load projects", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":            customer.ID,
		"name":          customer.Name,
		"email":         customer.Email,
		"address":       customer.Address,
		"phone":         customer.Phone,
		"location":      customer.Location,
		"lastVisited":   customer.LastVisited,
		"createdAt":     customer.CreatedAt,
		"updatedAt":     customer.UpdatedAt,
		"notes":         customer.Notes,
		"attachmentUrl": customer.AttachmentURL,
		"signatureUrl":  customer.SignatureURL,
		"projects":      projects,
	})
}

// CreateCustomer inserts a customer, generating an id when the caller did not
// supply one.
func CreateCustomer(c *gin.Context) {
	var input CreateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}

	customer := models.Customer{
		ID:            id,
		Name:          input.Name,
		Email:         input.Email,
		Address:       input.Address,
		Phone:         input.Phone,
		Location:      input.Location,
		LastVisited:   "Never",
		Notes:         input.Notes,
		AttachmentURL: input.AttachmentURL,
		SignatureURL:  input.SignatureURL,
	}

	if err := config.DB.Create(&customer).Error; err != nil {
		config.LogError("controllers", "CreateCustomer", "insert customer", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer")
		return
	}

	c.JSON(http.StatusCreated, customer)
}

// UpdateCustomer applies a partial update. Each field independently defaults
// to its existing value when omitted from the payload.
func UpdateCustomer(c *gin.Context) {
	id := c.Param("id")

	var input UpdateCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	var customer models.Customer
	if err := config.DB.First(&customer, `"id" = ?`, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		} else {
			config.LogError("controllers", "UpdateCustomer", "load customer", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if input.Name != nil {
		customer.Name = *input.Name
	}
	if input.Email != nil {
		customer.Email = *input.Email
	}
	if input.Address != nil {
		customer.Address = *input.Address
	}
	if input.Phone != nil {
		customer.Phone = *input.Phone
	}
	if input.Location != nil {
		customer.Location = *input.Location
	}
	if input.Notes != nil {
		customer.Notes = *input.Notes
	}
	if input.AttachmentURL != nil {
		customer.AttachmentURL = *input.AttachmentURL
	}
	if input.SignatureURL != nil {
		customer.SignatureURL = *input.SignatureURL
	}

	if err := config.DB.Save(&customer).Error; err != nil {
		config.LogError("controllers", "UpdateCustomer", "save customer", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update customer")
		return
	}

	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer removes the customer's project memberships and the customer
// row in one transaction.
func DeleteCustomer(c *gin.Context) {
	id := c.Param("id")

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Where(`"customerId" = ?`, id).Delete(&models.ProjectCustomer{}).Error; err != nil {
		tx.Rollback()
		config.LogError("controllers", "DeleteCustomer", "delete memberships", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}

	result := tx.Where(`"id" = ?`, id).Delete(&models.Customer{})
	if result.Error != nil {
		tx.Rollback()
		config.LogError("controllers", "DeleteCustomer", "delete customer", result.Error)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer")
		return
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		utils.RespondWithError(c, http.StatusNotFound, "Customer not found")
		return
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted successfully"})
}
