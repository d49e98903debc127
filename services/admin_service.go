package services

import (
	"context"
	"fmt"
	"strings"

	"hotel-reservation/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AdminService struct {
	DB *gorm.DB
}

func NewAdminService(db *gorm.DB) *AdminService {
	return &AdminService{DB: db}
}

func (s *AdminService) GetAll(ctx context.Context) ([]models.Admin, error) {
	var admins []models.Admin
	if err := s.DB.WithContext(ctx).Order("id ASC").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	return admins, nil
}

// Create stores a new admin with a bcrypt-hashed password.
func (s *AdminService) Create(ctx context.Context, fullName, username, password string) (*models.Admin, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < 8 {
		return nil, fmt.Errorf("%w: username and a password of at least 8 characters are required", ErrInvalidInput)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	admin := models.Admin{
		FullName: strings.TrimSpace(fullName),
		Username: username,
		Password: string(hash),
	}
	if err := s.DB.WithContext(ctx).Create(&admin).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrDuplicateUsername
		}
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}
	return &admin, nil
}
