package dao

import (
	"gorm.io/gorm"

	"github.com/asaithebest/Nova/models"
)

// UserDAO handles user-related database operations.
type UserDAO struct {
	db *gorm.DB
}

func NewUserDAO(db *gorm.DB) *UserDAO {
	return &UserDAO{db: db}
}

// CreateUser creates a user with an already-hashed password.
func (d *UserDAO) CreateUser(username, passwordHash string) (*models.User, error) {
	user := &models.User{
		Username:     username,
		PasswordHash: passwordHash,
	}
	if err := d.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByUsername retrieves a user by username.
func (d *UserDAO) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := d.db.First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
