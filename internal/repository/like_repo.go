package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emberly-app/emberly-backend/internal/db"
)

// LikeRepository provides data access for the Like ledger: one-directional
// like facts with at most one row per ordered (actor, target) pair.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// Create inserts the like row for actor -> target. The composite primary key
// rejects a second insert for the same ordered pair; callers receive
// gorm.ErrDuplicatedKey in that case and translate it to the already-liked
// result.
func (r *LikeRepository) Create(ctx context.Context, actorID, targetID uint64) error {
	like := db.Like{
		ActorID:  actorID,
		TargetID: targetID,
	}
	return r.db.WithContext(ctx).Create(&like).Error
}

// Exists reports whether actor has liked target.
//
// Used both for the idempotency short-circuit on repeated likes and as the
// mutual predicate (reversed arguments) when deciding match creation.
func (r *LikeRepository) Exists(ctx context.Context, actorID, targetID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("actor_id = ? AND target_id = ?", actorID, targetID).
		Count(&count).Error
	return count > 0, err
}

// DeletePair removes both directional likes between a and b. Used only
// during unmatch cleanup; absent rows are not an error.
func (r *LikeRepository) DeletePair(ctx context.Context, a, b uint64) error {
	return r.db.WithContext(ctx).
		Where("(actor_id = ? AND target_id = ?) OR (actor_id = ? AND target_id = ?)", a, b, b, a).
		Delete(&db.Like{}).Error
}

// ReceivedBy returns likes targeting userID, newest first, capped at limit.
//
// Excluded:
//   - pairs the user already liked back (mutual pairs surface as matches)
//   - pairs that already have a match row
//   - likes from deactivated accounts
func (r *LikeRepository) ReceivedBy(ctx context.Context, userID uint64, limit int) ([]db.Like, error) {
	var likes []db.Like
	err := r.receivedByQuery(ctx, userID).
		Order("l.created_at DESC, l.actor_id DESC").
		Limit(limit).
		Find(&likes).Error
	if err != nil {
		return nil, err
	}
	return likes, nil
}

// CountReceivedBy counts likes targeting userID under the same exclusions as
// ReceivedBy. Used for the count-only Basic tier view, with Redis in front.
func (r *LikeRepository) CountReceivedBy(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.receivedByQuery(ctx, userID).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *LikeRepository) receivedByQuery(ctx context.Context, userID uint64) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("likes l").
		Where("l.target_id = ?", userID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM likes lb
				WHERE lb.actor_id = ?
				  AND lb.target_id = l.actor_id
			)`, userID).
		Where(`
			NOT EXISTS (
				SELECT 1 FROM matches m
				WHERE (m.user1_id = ? AND m.user2_id = l.actor_id)
				   OR (m.user1_id = l.actor_id AND m.user2_id = ?)
			)`, userID, userID).
		Where(`
			EXISTS (
				SELECT 1 FROM users u
				WHERE u.id = l.actor_id AND u.active = ?
			)`, true)
}
