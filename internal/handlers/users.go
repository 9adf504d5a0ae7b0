package handlers

import (
	"github.com/Itachi3355/DegreeWheels-sub001/internal/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// GetProfile retrieves the user's profile
func GetProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var user models.User
		if err := db.First(&user, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		c.JSON(200, gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"fullName": user.FullName,
			"phone":    user.Phone,
			"campus":   user.Campus,
		})
	}
}

// UpdateProfile updates the user's profile information
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userId := c.GetUint("userId")

		var input struct {
			FullName *string `json:"fullName"`
			Phone    *string `json:"phone"`
			Campus   *string `json:"campus"`
		}

		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(400, gin.H{"error": err.Error()})
			return
		}

		var user models.User
		if err := db.First(&user, userId).Error; err != nil {
			c.JSON(404, gin.H{"error": "User not found"})
			return
		}

		// Update fields individually to handle empty strings properly
		if input.FullName != nil {
			user.FullName = *input.FullName
		}
		if input.Phone != nil {
			user.Phone = *input.Phone
		}
		if input.Campus != nil {
			user.Campus = *input.Campus
		}

		if err := db.Save(&user).Error; err != nil {
			c.JSON(500, gin.H{"error": "Failed to update profile"})
			return
		}

		c.JSON(200, gin.H{
			"id":       user.ID,
			"email":    user.Email,
			"fullName": user.FullName,
			"phone":    user.Phone,
			"campus":   user.Campus,
		})
	}
}
