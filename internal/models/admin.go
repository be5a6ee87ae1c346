// internal/models/admin.go
package models

import (
	"golang.org/x/crypto/bcrypt"
)

// AdminProfile is a back-office staff record. There is no login flow built
// on these yet; the panel only creates and displays them.
type AdminProfile struct {
	BaseModel
	DisplayCode   string      `json:"display_code" gorm:"uniqueIndex;size:10;not null"`
	Name          string      `json:"name" gorm:"size:100;not null"`
	Email         string      `json:"email" gorm:"uniqueIndex;size:255;not null"`
	ContactNumber string      `json:"contact_number" gorm:"size:20"`
	BirthDate     string      `json:"birth_date" gorm:"size:20"`
	RegisteredAt  string      `json:"registered_at" gorm:"size:20"`
	Status        AdminStatus `json:"status" gorm:"type:varchar(10);default:'active'"`
	AvatarURL     string      `json:"avatar_url" gorm:"size:512"`
	AvatarKey     string      `json:"-" gorm:"size:512"`
	PasswordHash  string      `json:"-" gorm:"size:255"`
}

func (a *AdminProfile) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	a.PasswordHash = string(hashedPassword)
	return nil
}

func (a *AdminProfile) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password))
}
