package repository

import (
	"errors"
	"regexp"

	"github.com/Flinmt/pinanca/internal/models"

	"gorm.io/gorm"
)

var usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,20}$`)

// UserRepository persists application users.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create stores a new user. The password must already be hashed.
func (r *UserRepository) Create(user *models.User) error {
	if !usernameRe.MatchString(user.Username) {
		return validationErr("username must be 3-20 letters, digits or underscores")
	}
	if user.PasswordHash == "" {
		return validationErr("password hash is required")
	}

	// case-insensitive uniqueness
	var count int64
	if err := r.db.Model(&models.User{}).
		Where("LOWER(username) = LOWER(?)", user.Username).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return conflictErr("username already taken", nil)
	}

	if err := r.db.Create(user).Error; err != nil {
		return conflictErr("could not create user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("user not found")
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("LOWER(username) = LOWER(?)", username).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundErr("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// Save persists mutable user fields (login bookkeeping, display name).
func (r *UserRepository) Save(user *models.User) error {
	if user.ID == 0 {
		return validationErr("user id is required")
	}
	return r.db.Save(user).Error
}
