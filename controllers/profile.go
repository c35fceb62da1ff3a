package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"opsdesk-backend/config"
	"opsdesk-backend/models"
	"opsdesk-backend/utils"
)

// getProfileByID returns nil when no profile exists; absence is not an error.
func getProfileByID(id string) (*models.Profile, error) {
	var profile models.Profile
	err := config.DB.First(&profile, `"id" = ?`, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// SyncProfile provisions a profile row for a newly observed identity with
// role Ops. A conflict on the primary key is a no-op; the row is always read
// back afterwards.
func SyncProfile(id, email string) (*models.Profile, error) {
	profile := models.Profile{ID: id, Email: email, Role: models.RoleOps}
	err := config.DB.
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "id"}}, DoNothing: true}).
		Create(&profile).Error
	if err != nil {
		return nil, err
	}
	return getProfileByID(id)
}

// sessionIdentity pulls the authenticated identity out of the request
// context set by the auth middleware.
func sessionIdentity(c *gin.Context) (id string, email string, ok bool) {
	uid, exists := c.Get("userId")
	if !exists {
		return "", "", false
	}
	id, _ = uid.(string)
	if e, exists := c.Get("email"); exists {
		email, _ = e.(string)
	}
	return id, email, id != ""
}

// IsAdmin loads the caller's profile and checks its role. This is the
// authorization primitive gating invoice mutation.
func IsAdmin(c *gin.Context) bool {
	id, _, ok := sessionIdentity(c)
	if !ok {
		return false
	}
	profile, err := getProfileByID(id)
	if err != nil {
		config.LogError("controllers", "IsAdmin", "load profile", err)
		return false
	}
	return profile.IsAdmin()
}

// GetProfile returns the caller's profile, provisioning it when absent.
func GetProfile(c *gin.Context) {
	id, email, ok := sessionIdentity(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	profile, err := SyncProfile(id, email)
	if err != nil {
		config.LogError("controllers", "GetProfile", "sync profile", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	c.JSON(http.StatusOK, profile)
}
