package handlers

import (
	"errors"

	"github.com/Itachi3355/DegreeWheels-sub001/internal/models"
	"github.com/Itachi3355/DegreeWheels-sub001/pkg/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName" binding:"required"`
	Phone    string `json:"phone"`
	Campus   string `json:"campus"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Register(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		user := models.User{
			Email:    input.Email,
			Password: input.Password,
			FullName: input.FullName,
			Phone:    input.Phone,
			Campus:   input.Campus,
		}

		if err := user.HashPassword(); err != nil {
			c.JSON(500, gin.H{"error": "Failed to hash password"})
			return
		}

		if result := db.Create(&user); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				c.JSON(409, gin.H{"error": "An account with this email already exists"})
				return
			}
			c.JSON(500, gin.H{"error": "Failed to create user"})
			return
		}

		// New accounts start with every notification channel enabled
		if err := db.Create(models.DefaultPreferences(user.ID)).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to create notification preferences"})
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(201, gin.H{
			"token": token,
			"user": gin.H{
				"id":       user.ID,
				"email":    user.Email,
				"fullName": user.FullName,
				"phone":    user.Phone,
				"campus":   user.Campus,
			},
		})
	}
}

func Login(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if result := db.Where("email = ?", input.Email).First(&user); result.Error != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		if err := user.CheckPassword(input.Password); err != nil {
			c.JSON(401, gin.H{"error": "Invalid credentials"})
			return
		}

		token, err := utils.GenerateToken(&user)
		if err != nil {
			c.JSON(500, gin.H{"error": "Failed to generate token"})
			return
		}

		c.JSON(200, gin.H{
			"token": token,
			"user": gin.H{
				"id":       user.ID,
				"email":    user.Email,
				"fullName": user.FullName,
				"phone":    user.Phone,
				"campus":   user.Campus,
			},
		})
	}
}
