package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/emberly-app/emberly-backend/internal/db"
)

// MatchRepository provides data access for Match rows: one row per
// unordered user pair, canonicalized to (smaller id, larger id).
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// CanonicalPair orders two user ids into the (user1, user2) storage order,
// smaller id first. Readers resolve "which side is the counterpart" by
// comparison, never by assuming a fixed column role.
func CanonicalPair(a, b uint64) (uint64, uint64) {
	if a > b {
		return b, a
	}
	return a, b
}

// Create inserts the match row for the pair {a, b}.
//
// The unique index on the canonical pair is the race guard: when a
// concurrent mutual like already created the row, the insert fails with
// gorm.ErrDuplicatedKey and the existing row is returned with created=false.
// Both racing callers therefore observe the same match.
func (r *MatchRepository) Create(ctx context.Context, a, b uint64) (db.Match, bool, error) {
	u1, u2 := CanonicalPair(a, b)
	match := db.Match{User1ID: u1, User2ID: u2}

	err := r.db.WithContext(ctx).Create(&match).Error
	if err == nil {
		return match, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return db.Match{}, false, err
	}

	var existing db.Match
	if err := r.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ?", u1, u2).
		First(&existing).Error; err != nil {
		return db.Match{}, false, err
	}
	return existing, false, nil
}

// GetByID fetches a single match row.
func (r *MatchRepository) GetByID(ctx context.Context, id uint64) (db.Match, error) {
	var match db.Match
	err := r.db.WithContext(ctx).First(&match, id).Error
	return match, err
}

// ExistsForPair reports whether a match row exists for the pair {a, b}.
func (r *MatchRepository) ExistsForPair(ctx context.Context, a, b uint64) (bool, error) {
	u1, u2 := CanonicalPair(a, b)
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("user1_id = ? AND user2_id = ?", u1, u2).
		Count(&count).Error
	return count > 0, err
}

// ListForUser returns all matches where userID is either participant,
// newest first.
func (r *MatchRepository) ListForUser(ctx context.Context, userID uint64) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&matches).Error
	if err != nil {
		return nil, err
	}
	return matches, nil
}

// Delete removes a match row by id.
func (r *MatchRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&db.Match{}, id).Error
}
