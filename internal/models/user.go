package models

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model          // This embeds ID, CreatedAt, UpdatedAt, and DeletedAt
	Email        string `gorm:"column:email;unique;not null" json:"email"`
	Password     string `gorm:"-:migration" json:"-"` // Temporary field for password handling
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	FullName     string `gorm:"column:full_name" json:"fullName"`
	Phone        string `gorm:"column:phone" json:"phone"`
	Campus       string `gorm:"column:campus" json:"campus"`
}

// TableName specifies the table name
func (User) TableName() string {
	return "profiles"
}

func (u *User) HashPassword() error {
	if u.Password == "" {
		return nil
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}
