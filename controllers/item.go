// controllers/item.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"opsdesk-backend/config"
	"opsdesk-backend/models"
	"opsdesk-backend/utils"
)

// CreateItemInput defines the expected JSON structure for creating a catalog item
type CreateItemInput struct {
	ID          string  `json:"id"`
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	SKU         string  `json:"sku"`
	Type        string  `json:"type"`
}

// GetItems retrieves all catalog items ordered by name.
func GetItems(c *gin.Context) {
	var items []models.Product
	if err := config.DB.Order(`"name" ASC`).Find(&items).Error; err != nil {
		config.LogError("controllers", "GetItems", "list items", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve items")
		return
	}

	c.JSON(http.StatusOK, items)
}

// CreateItem inserts a catalog item, generating an id when absent.
func CreateItem(c *gin.Context) {
	var input CreateItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}

	item := models.Product{
		ID:          id,
		Name:        input.Name,
		Price:       input.Price,
		Description: input.Description,
		Category:    input.Category,
		SKU:         input.SKU,
		Type:        input.Type,
	}

	if err := config.DB.Create(&item).Error; err != nil {
		config.LogError("controllers", "CreateItem", "insert item", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create item")
		return
	}

	c.JSON(http.StatusCreated, item)
}

// DeleteItem removes a catalog item.
func DeleteItem(c *gin.Context) {
	id := c.Param("id")

	result := config.DB.Where(`"id" = ?`, id).Delete(&models.Product{})
	if result.Error != nil {
		config.LogError("controllers", "DeleteItem", "delete item", result.Error)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to delete item")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}
