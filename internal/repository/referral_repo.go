package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/emberly-app/emberly-backend/internal/db"
)

// ReferralEntry is a referral row joined with the referred user's email,
// as shown on the referrer's own list and the admin views.
type ReferralEntry struct {
	ID            uint64    `json:"id"`
	ReferrerID    uint64    `json:"referrer_id,omitempty"`
	ReferrerEmail string    `json:"referrer_email,omitempty"`
	ReferredID    uint64    `json:"referred_id"`
	ReferredEmail string    `json:"referred_email"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReferralRepository provides data access for referral codes and recorded
// referrals.
type ReferralRepository struct {
	db *gorm.DB
}

// NewReferralRepository creates a new repository bound to the given DB connection.
func NewReferralRepository(database *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: database}
}

// FindCodeByReferrer returns the referrer's existing code.
// Returns gorm.ErrRecordNotFound when none has been issued yet.
func (r *ReferralRepository) FindCodeByReferrer(ctx context.Context, referrerID uint64) (string, error) {
	var row db.ReferralCode
	err := r.db.WithContext(ctx).First(&row, referrerID).Error
	if err != nil {
		return "", err
	}
	return row.Code, nil
}

// CodeExists reports whether any referrer already owns the given code.
func (r *ReferralRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.ReferralCode{}).
		Where("code = ?", code).
		Count(&count).Error
	return count > 0, err
}

// CreateCode persists (referrerID, code). The unique index on code is the
// final guard against two generators landing on the same value; the primary
// key on referrer_id guards against two concurrent calls for the same user.
// Both surface as gorm.ErrDuplicatedKey for the caller to resolve.
func (r *ReferralRepository) CreateCode(ctx context.Context, referrerID uint64, code string) error {
	row := db.ReferralCode{
		ReferrerID: referrerID,
		Code:       code,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// FindReferrerByCode resolves a code to its owner.
// Returns gorm.ErrRecordNotFound for unknown codes.
func (r *ReferralRepository) FindReferrerByCode(ctx context.Context, code string) (uint64, error) {
	var row db.ReferralCode
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&row).Error
	if err != nil {
		return 0, err
	}
	return row.ReferrerID, nil
}

// CreateReferral inserts the (referrer, referred) attribution. A duplicate
// pair surfaces as gorm.ErrDuplicatedKey.
func (r *ReferralRepository) CreateReferral(ctx context.Context, referrerID, referredID uint64) error {
	row := db.Referral{
		ReferrerID: referrerID,
		ReferredID: referredID,
	}
	return r.db.WithContext(ctx).Create(&row).Error
}

// ListByReferrer returns a referrer's recorded referrals with the referred
// users' emails, newest first.
func (r *ReferralRepository) ListByReferrer(ctx context.Context, referrerID uint64) ([]ReferralEntry, error) {
	var entries []ReferralEntry
	err := r.db.WithContext(ctx).
		Table("referrals r").
		Select("r.id, r.referred_id, u.email AS referred_email, r.created_at").
		Joins("JOIN users u ON u.id = r.referred_id").
		Where("r.referrer_id = ?", referrerID).
		Order("r.created_at DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// ListAll returns every recorded referral with both parties' emails,
// newest first. Admin view.
func (r *ReferralRepository) ListAll(ctx context.Context) ([]ReferralEntry, error) {
	var entries []ReferralEntry
	err := r.db.WithContext(ctx).
		Table("referrals r").
		Select(`r.id, r.referrer_id, ru.email AS referrer_email,
			r.referred_id, uu.email AS referred_email, r.created_at`).
		Joins("JOIN users ru ON ru.id = r.referrer_id").
		Joins("JOIN users uu ON uu.id = r.referred_id").
		Order("r.created_at DESC").
		Scan(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
