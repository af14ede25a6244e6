package postgres

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/marcelojr/urna-online/internal/domain"
)

type VoterRepository struct {
	db *gorm.DB
}

func NewVoterRepository(db *gorm.DB) *VoterRepository {
	return &VoterRepository{db: db}
}

func (r *VoterRepository) Create(ctx context.Context, v domain.Voter) error {
	if err := r.db.WithContext(ctx).Create(&v).Error; err != nil {
		return wrap("voters", "inserir", err)
	}
	return nil
}

func (r *VoterRepository) FindByID(ctx context.Context, id domain.VoterID) (domain.Voter, error) {
	var v domain.Voter
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&v).Error; err != nil {
		return domain.Voter{}, wrap("voters", "buscar por id", err)
	}
	return v, nil
}

func (r *VoterRepository) FindByEmail(ctx context.Context, email string) (domain.Voter, error) {
	var v domain.Voter
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&v).Error; err != nil {
		return domain.Voter{}, wrap("voters", "buscar por email", err)
	}
	return v, nil
}

func (r *VoterRepository) ExistsByEmailOrNationalID(ctx context.Context, email, nationalID string) (bool, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Voter{}).
		Where("email = ? OR national_id = ?", email, nationalID).
		Count(&total).Error; err != nil {
		return false, wrap("voters", "verificar duplicidade", err)
	}
	return total > 0, nil
}

func (r *VoterRepository) List(ctx context.Context) ([]domain.Voter, error) {
	var voters []domain.Voter
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&voters).Error; err != nil {
		return nil, wrap("voters", "listar", err)
	}
	return voters, nil
}

func (r *VoterRepository) SetVerified(ctx context.Context, id domain.VoterID) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Voter{}).
		Where("id = ?", id).
		UpdateColumn("is_verified", true)
	return mustAffect("voters", "verificar", res)
}

func (r *VoterRepository) SetOTP(ctx context.Context, id domain.VoterID, code string, expiry time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Voter{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{"otp_code": code, "otp_expiry": expiry})
	return mustAffect("voters", "gravar otp", res)
}

// ConfirmEmail marca o e-mail como verificado e apaga o OTP usado.
func (r *VoterRepository) ConfirmEmail(ctx context.Context, id domain.VoterID) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Voter{}).
		Where("id = ?", id).
		UpdateColumns(map[string]any{"email_verified": true, "otp_code": nil, "otp_expiry": nil})
	return mustAffect("voters", "confirmar email", res)
}

func (r *VoterRepository) CountVerified(ctx context.Context) (int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&domain.Voter{}).
		Where("is_verified = ?", true).
		Count(&total).Error; err != nil {
		return 0, wrap("voters", "contar verificados", err)
	}
	return total, nil
}

var _ domain.VoterRepository = (*VoterRepository)(nil)
