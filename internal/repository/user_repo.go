package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/emberly-app/emberly-backend/internal/db"
)

// ProfileSummary is the public slice of a user row exposed on match and
// likes-you read paths.
type ProfileSummary struct {
	ID             uint64 `json:"id"`
	Username       string `json:"username"`
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	ProfilePicture string `json:"profile_picture"`
}

// SummaryOf projects a user row onto its public profile summary.
func SummaryOf(u db.User) ProfileSummary {
	return ProfileSummary{
		ID:             u.ID,
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		ProfilePicture: u.ProfilePicture,
	}
}

// UserRepository is the narrow read surface the matching core needs from
// user storage: existence, tier, and profile summaries.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// FindByID fetches a user row. Returns gorm.ErrRecordNotFound when absent.
func (r *UserRepository) FindByID(ctx context.Context, id uint64) (db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return user, err
}

// SummariesByIDs fetches profile summaries for a set of user ids, keyed by
// id. Missing ids are simply absent from the map.
func (r *UserRepository) SummariesByIDs(ctx context.Context, ids []uint64) (map[uint64]ProfileSummary, error) {
	summaries := make(map[uint64]ProfileSummary, len(ids))
	if len(ids) == 0 {
		return summaries, nil
	}

	var users []db.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		summaries[u.ID] = SummaryOf(u)
	}
	return summaries, nil
}
