package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"opsdesk-backend/config"
	"opsdesk-backend/models"
	"opsdesk-backend/utils"
)

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	newUser := models.User{
		Email:    input.Email,
		Name:     input.Name,
		Password: input.Password, // hashed in BeforeCreate hook
	}

	// The email unique index is the authority on duplicates; concurrent
	// registrations cannot both pass a read-then-insert check.
	if err := config.DB.Create(&newUser).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			utils.RespondWithError(c, http.StatusConflict, "Email already registered")
			return
		}
		config.LogError("controllers", "Register", "create user", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	// New identities default to Ops; promotion is out of band.
	profile, err := SyncProfile(newUser.ID.String(), newUser.Email)
	if err != nil {
		config.LogError("controllers", "Register", "sync profile", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to provision profile")
		return
	}

	token, err := utils.GenerateToken(newUser.ID.String(), newUser.Email)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration successful",
		"token":   token,
		"user": gin.H{
			"id":    newUser.ID,
			"email": newUser.Email,
			"name":  newUser.Name,
			"role":  profile.Role,
		},
	})
}

func Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	email := strings.TrimSpace(input.Email)

	var user models.User
	result := config.DB.Where(`"email" = ?`, email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		} else {
			utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		}
		return
	}

	if !utils.CheckPasswordHash(input.Password, user.Password) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	profile, err := SyncProfile(user.ID.String(), user.Email)
	if err != nil {
		config.LogError("controllers", "Login", "sync profile", err)
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to provision profile")
		return
	}

	now := time.Now()
	config.DB.Model(&user).Update("lastLogin", &now)

	token, err := utils.GenerateToken(user.ID.String(), user.Email)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  profile.Role,
		},
	})
}

func Me(c *gin.Context) {
	id, _, ok := sessionIdentity(c)
	if !ok {
		utils.RespondWithError(c, http.StatusUnauthorized, "User ID not found in context")
		return
	}

	var user models.User
	if err := config.DB.First(&user, `"id" = ?`, id).Error; err != nil {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found")
		return
	}

	profile, err := getProfileByID(id)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	role := models.RoleOps
	if profile != nil {
		role = profile.Role
	}

	c.JSON(http.StatusOK, gin.H{
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
			"role":  role,
		},
	})
}
