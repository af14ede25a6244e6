package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/marcelojr/urna-online/internal/domain"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(ctx context.Context, a domain.Admin) error {
	if err := r.db.WithContext(ctx).Create(&a).Error; err != nil {
		return wrap("admins", "inserir", err)
	}
	return nil
}

func (r *AdminRepository) FindByUsername(ctx context.Context, username string) (domain.Admin, error) {
	var a domain.Admin
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&a).Error; err != nil {
		return domain.Admin{}, wrap("admins", "buscar por usuario", err)
	}
	return a, nil
}

var _ domain.AdminRepository = (*AdminRepository)(nil)
