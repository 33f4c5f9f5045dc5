package db

import (
	"time"
)

// User table. User storage and querying is owned by the profile subsystem;
// the matching core only reads rows for existence checks, tier lookups, and
// profile summaries.
type User struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	Username       string    `gorm:"uniqueIndex;size:64;not null"`
	Email          string    `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash   string    `gorm:"size:255;not null"`
	Active         bool      `gorm:"default:true"`
	Tier           string    `gorm:"size:16;not null;default:Basic"`
	Role           string    `gorm:"size:16;not null;default:user"`
	FirstName      string    `gorm:"size:64"`
	LastName       string    `gorm:"size:64"`
	ProfilePicture string    `gorm:"size:255"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// Like is a one-directional expressed interest from actor to target.
//
// Composite PK: (ActorID, TargetID)
//   - At most one row per ordered pair; A→B is independent of B→A.
//
// Index:
//   - idx_target_created(target_id, created_at DESC)
//     Optimizes "who liked me" queries ordered by recency.
//
// Rows are never mutated. They are deleted only during unmatch cleanup,
// which removes both directions.
type Like struct {
	ActorID   uint64    `gorm:"primaryKey"`
	TargetID  uint64    `gorm:"primaryKey;index:idx_target_created,priority:1"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_target_created,priority:2,sort:desc"`
}

// Match is the symmetric relationship created once a mutual like is detected.
//
// Canonical ordering: User1ID < User2ID, enforced by the repository before
// insert. The unique index on the pair makes match creation idempotent under
// concurrent mutual likes: the losing insert sees a duplicate-key error and
// treats the pair as already matched.
type Match struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	User1ID   uint64    `gorm:"not null;uniqueIndex:uniq_match_pair,priority:1"`
	User2ID   uint64    `gorm:"not null;uniqueIndex:uniq_match_pair,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Notification is a best-effort "someone liked you" signal. The unique index
// on (user_id, type, actor_id) deduplicates repeat alerts for the same
// actor/target pair. Never required for correctness of the match lifecycle.
type Notification struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uniq_notif_dedup,priority:1"`
	Type      string    `gorm:"size:32;not null;uniqueIndex:uniq_notif_dedup,priority:2"`
	ActorID   uint64    `gorm:"not null;uniqueIndex:uniq_notif_dedup,priority:3"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// ReferralCode holds a referrer's unique invite code. One code per referrer
// (PK), globally unique code (unique index), immutable once created.
type ReferralCode struct {
	ReferrerID uint64    `gorm:"primaryKey"`
	Code       string    `gorm:"uniqueIndex;size:16;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// Referral attributes a referred user's registration to a referrer. The
// unique pair index prevents double attribution; re-submitting the same
// registration event is tolerated.
type Referral struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	ReferrerID uint64    `gorm:"not null;uniqueIndex:uniq_referral_pair,priority:1"`
	ReferredID uint64    `gorm:"not null;uniqueIndex:uniq_referral_pair,priority:2"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}
