package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"

	"opsdesk-backend/config"
	"opsdesk-backend/models"
	"opsdesk-backend/utils"
)

// ProjectMemberInput names a customer on a project.
type ProjectMemberInput struct {
	ID        string `json:"id" binding:"required"`
	IsPrimary bool   `json:"isPrimary"`
}

// CreateProjectInput defines the expected JSON structure for creating a project
type CreateProjectInput struct {
	ID             string               `json:"id"`
	Name           string               `json:"name" binding:"required"`
	Phase          string               `json:"phase" binding:"required"`
	Customers      []ProjectMemberInput `json:"customers"`
	Date           string               `json:"date"`
	Description    string               `json:"description"`
	EstimatedValue float64              `json:"estimatedValue"`
	WinConfidence  string               `json:"winConfidence"`
}

// UpdateProjectPhaseInput carries the new pipeline phase. The value is not
// validated against the known phases; any string round-trips.
type UpdateProjectPhaseInput struct {
	Phase string `json:"phase" binding:"required"`
}

type AddProjectCustomerInput struct {
	CustomerID string `json:"customerId" binding:"required"`
	IsPrimary  bool   `json:"isPrimary"`
}

// projectMember is a customer row joined with its membership flag.
type projectMember struct {
	models.Customer `gorm:"embedded"`
	IsPrimary       bool `gorm:"column:isPrimary" json:"isPrimary"`
}

func loadProjectMembers(projectID string) ([]projectMember, error) {
	members := []projectMember{}
	err := config.DB.Raw(`
		SELECT c.*, pc."isPrimary"
		FROM "Customer" c
		JOIN "ProjectCustomer" pc ON c."id" = pc."customerId"
		WHERE pc."projectId" = ?
		ORDER BY pc."isPrimary" DESC, c."name" ASC`, projectID).Scan(&members).Error
	return members, err
}

// GetProjects retrieves all projects with their member customers, primary
// members first.
func GetProjects(c *gin.Context) {
	var projects []models.Project
	if err := config.DB.Order(`"createdAt" DESC`).Find(&projects).Error; err != nil {
		config.LogError("controllers", "GetProjects", "list projects", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve projects")
		return
	}

	type projectView struct {
		models.Project
		Customers []projectMember `json:"customers"`
	}

	views := make([]projectView, 0, len(projects))
	for _, project := range projects {
		members, err := loadProjectMembers(project.ID)
		if err != nil {
			config.LogError("controllers", "GetProjects", "load members", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to retrieve projects")
			return
		}
		views = append(views, projectView{Project: project, Customers: members})
	}

	c.JSON(http.StatusOK, views)
}

// CreateProject inserts the project and one membership row per listed
// customer in a single transaction. At most one member may be flagged
// primary.
func CreateProject(c *gin.Context) {
	var input CreateProjectInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	primaries := 0
	for _, member := range input.Customers {
		if member.IsPrimary {
			primaries++
		}
	}
	if primaries > 1 {
		utils.RespondWithError(c, http.StatusBadRequest, "A project can have at most one primary customer")
		return
	}

	id := input.ID
	if id == "" {
		id = uuid.NewString()
	}
	now := time.Now()

	project := models.Project{
		ID:             id,
		Name:           input.Name,
		Phase:          input.Phase,
		Date:           input.Date,
		Description:    input.Description,
		EstimatedValue: input.EstimatedValue,
		WinConfidence:  input.WinConfidence,
		CreatedAt:      now,
		LastActivity:   now,
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	if err := tx.Create(&project).Error; err != nil {
		tx.Rollback()
		config.LogError("controllers", "CreateProject", "insert project", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create project")
		return
	}

	for _, member := range input.Customers {
		membership := models.ProjectCustomer{
			ProjectID:  project.ID,
			CustomerID: member.ID,
			IsPrimary:  member.IsPrimary,
		}
		if err := tx.Create(&membership).Error; err != nil {
			tx.Rollback()
			config.LogError("controllers", "CreateProject", "insert membership", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create project")
			return
		}
	}

	tx.Commit()

	members, err := loadProjectMembers(project.ID)
	if err != nil {
		config.LogError("controllers", "CreateProject", "load members", err)
		members = nil
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":             project.ID,
		"name":           project.Name,
		"phase":          project.Phase,
		"date":           project.Date,
		"description":    project.Description,
		"estimatedValue": project.EstimatedValue,
		"winConfidence":  project.WinConfidence,
		"createdAt":      project.CreatedAt,
		"lastActivity":   project.LastActivity,
		"customers":      members,
	})
}

// UpdateProjectPhase overwrites the phase and bumps lastActivity. Any phase
// can be set from any other; there are no transition rules.
func UpdateProjectPhase(c *gin.Context) {
	id := c.Param("id")

	var input UpdateProjectPhaseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	result := config.DB.Model(&models.Project{}).
		Where(`"id" = ?`, id).
		Updates(map[string]interface{}{
			"phase":        input.Phase,
			"lastActivity": time.Now(),
		})
	if result.Error != nil {
		config.LogError("controllers", "UpdateProjectPhase", "update phase", result.Error)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update project phase")
		return
	}
	if result.RowsAffected == 0 {
		utils.RespondWithError(c, http.StatusNotFound, "Project not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Project phase updated"})
}

// AddCustomerToProject inserts a membership row, ignoring conflicts on the
// composite key. Adding a new primary member demotes the current primary in
// the same transaction; re-adding an existing member changes nothing.
func AddCustomerToProject(c *gin.Context) {
	projectID := c.Param("id")

	var input AddProjectCustomerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	tx := config.DB.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	membership := models.ProjectCustomer{
		ProjectID:  projectID,
		CustomerID: input.CustomerID,
		IsPrimary:  input.IsPrimary,
	}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&membership)
	if result.Error != nil {
		tx.Rollback()
		config.LogError("controllers", "AddCustomerToProject", "insert membership", result.Error)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to add customer to project")
		return
	}

	if result.RowsAffected > 0 && input.IsPrimary {
		err := tx.Model(&models.ProjectCustomer{}).
			Where(`"projectId" = ? AND "customerId" <> ?`, projectID, input.CustomerID).
			Update("isPrimary", false).Error
		if err != nil {
			tx.Rollback()
			config.LogError("controllers", "AddCustomerToProject", "demote primary", err)
			utils.RespondWithError(c, http.StatusInternalServerError, "Failed to add customer to project")
			return
		}
	}

	tx.Commit()

	c.JSON(http.StatusOK, gin.H{"message": "Customer added to project"})
}

// RemoveCustomerFromProject deletes the membership row.
func RemoveCustomerFromProject(c *gin.Context) {
	projectID := c.Param("id")
	customerID := c.Param("customerId")

	err := config.DB.
		Where(`"projectId" = ? AND "customerId" = ?`, projectID, customerID).
		Delete(&models.ProjectCustomer{}).Error
	if err != nil {
		config.LogError("controllers", "RemoveCustomerFromProject", "delete membership", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to remove customer from project")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer removed from project"})
}
