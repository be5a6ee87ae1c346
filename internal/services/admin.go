// internal/services/admin.go
package services

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/noblehomes/backoffice/internal/models"
	"github.com/noblehomes/backoffice/internal/utils"
)

type AdminService struct {
	db       *gorm.DB
	uploader *Uploader
	store    ObjectStore
}

func NewAdminService(db *gorm.DB, uploader *Uploader, store ObjectStore) *AdminService {
	return &AdminService{
		db:       db,
		uploader: uploader,
		store:    store,
	}
}

type CreateAdminRequest struct {
	Name            string `json:"name" validate:"required,min=2,max=100"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	ContactNumber   string `json:"contact_number" validate:"required,max=20"`
	BirthDate       string `json:"birth_date" validate:"required"`
	RegisteredAt    string `json:"registered_at" validate:"required"`
}

func (s *AdminService) Create(req *CreateAdminRequest) (*models.AdminProfile, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{
			Message: "Please fill in all the required fields",
			Fields:  utils.GetValidationErrors(err),
		}
	}

	var existing int64
	if err := s.db.Model(&models.AdminProfile{}).Where("email = ?", req.Email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("admin with email %s already exists", req.Email)
	}

	admin := &models.AdminProfile{
		Name:          req.Name,
		Email:         req.Email,
		ContactNumber: req.ContactNumber,
		BirthDate:     req.BirthDate,
		RegisteredAt:  req.RegisteredAt,
		Status:        models.AdminStatusActive,
	}

	if err := admin.SetPassword(req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	code, err := s.nextDisplayCode()
	if err != nil {
		return nil, err
	}
	admin.DisplayCode = code

	if err := s.db.Create(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	return admin, nil
}

func (s *AdminService) Get(id uuid.UUID) (*models.AdminProfile, error) {
	var admin models.AdminProfile
	if err := s.db.First(&admin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &admin, nil
}

func (s *AdminService) List(params utils.PaginationParams) ([]models.AdminProfile, int64, error) {
	query := s.db.Model(&models.AdminProfile{})

	if params.Search != "" {
		searchTerm := "%" + params.Search + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", searchTerm, searchTerm)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count admins: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "name", "email"})
	query = utils.ApplyPagination(query, params)

	var admins []models.AdminProfile
	if err := query.Find(&admins).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch admins: %w", err)
	}

	return admins, total, nil
}

// UploadAvatar replaces the profile image. The previous object, if any, is
// deleted best-effort after the record points at the new one.
func (s *AdminService) UploadAvatar(id uuid.UUID, header *multipart.FileHeader) (*models.AdminProfile, error) {
	admin, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, &TransferError{Key: header.Filename, Err: err}
	}
	signature := make([]byte, 512)
	n, _ := file.Read(signature)
	file.Close()
	if !IsValidImageSignature(signature[:n]) {
		return nil, &ValidationError{Message: "avatar must be a valid image file"}
	}

	assets, err := s.uploader.UploadBatch("admins", "avatars", []*multipart.FileHeader{header}, UploadLimits{
		MaxSize:      2 * 1024 * 1024,
		AllowedTypes: []string{".jpg", ".jpeg", ".png", ".webp"},
	})
	if err != nil {
		return nil, err
	}

	oldKey := admin.AvatarKey
	admin.AvatarURL = assets[0].URL
	admin.AvatarKey = assets[0].Key

	if err := s.db.Model(admin).Updates(map[string]interface{}{
		"avatar_url": admin.AvatarURL,
		"avatar_key": admin.AvatarKey,
	}).Error; err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	if oldKey != "" {
		s.store.Delete(oldKey)
	}

	return admin, nil
}

func (s *AdminService) nextDisplayCode() (string, error) {
	var count int64
	if err := s.db.Unscoped().Model(&models.AdminProfile{}).Count(&count).Error; err != nil {
		return "", fmt.Errorf("database error: %w", err)
	}
	return fmt.Sprintf("#A%03d", count+1), nil
}
