// Package match implements the like/match state engine: idempotent like
// recording, race-safe mutual-match detection, symmetric unmatch cleanup,
// and the tier-gated likes-you read path.
package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/emberly-app/emberly-backend/internal/app"
	"github.com/emberly-app/emberly-backend/internal/apperr"
	"github.com/emberly-app/emberly-backend/internal/limits"
	"github.com/emberly-app/emberly-backend/internal/repository"
	"github.com/emberly-app/emberly-backend/internal/tier"
)

// likesPageSize caps the likes-you list.
const likesPageSize = 100

// LikeResult reports the outcome of a like action.
type LikeResult struct {
	// Match is true when both directional likes now exist.
	Match bool `json:"match"`
	// AlreadyLiked is true when the actor had liked the target before; the
	// call was a no-op apart from reporting current match status.
	AlreadyLiked bool `json:"alreadyLiked,omitempty"`
}

// MatchEntry is one row of a user's match list, annotated with the other
// participant's public profile.
type MatchEntry struct {
	ID          uint64                    `json:"id"`
	Counterpart repository.ProfileSummary `json:"matchedUser"`
	CreatedAt   time.Time                 `json:"createdAt"`
}

// LikesYou is the tier-shaped "who likes me" result.
type LikesYou struct {
	Identities []repository.ProfileSummary `json:"likes"`
	Count      int                         `json:"count"`
}

// Service owns the match lifecycle on top of the like ledger.
type Service struct {
	appCtx        *app.AppContext
	likes         *repository.LikeRepository
	matches       *repository.MatchRepository
	users         *repository.UserRepository
	notifications *repository.NotificationRepository
	limiter       *limits.SwipeLimiter
}

// NewService creates the match engine with dependencies from AppContext.
func NewService(appCtx *app.AppContext, limiter *limits.SwipeLimiter) *Service {
	return &Service{
		appCtx:        appCtx,
		likes:         repository.NewLikeRepository(appCtx.DB),
		matches:       repository.NewMatchRepository(appCtx.DB),
		users:         repository.NewUserRepository(appCtx.DB),
		notifications: repository.NewNotificationRepository(appCtx.DB),
		limiter:       limiter,
	}
}

// Like records actor's like of target and reports whether it completed a
// mutual match.
//
// Behavior:
//   - Self-likes fail with apperr.ErrInvalidAction, missing targets with
//     apperr.ErrNotFound.
//   - The swipe quota is consumed before anything is written; a rejected
//     request leaves no Like row.
//   - Repeated likes are safe: the call reports AlreadyLiked plus the
//     current mutual status and inserts nothing. The same holds when the
//     insert itself loses a race to a duplicate.
//   - When the reverse like exists, the match row is created under its
//     unique pair constraint; losing that insert race still reports
//     Match=true, so both concurrent callers observe the match.
//   - The Basic-tier "someone liked you" notification is fired on a
//     detached context; its failure is logged and discarded.
func (s *Service) Like(ctx context.Context, actorID, targetID uint64) (LikeResult, error) {
	s.appCtx.Logger.Debug("Like called", "actor", actorID, "target", targetID)

	if actorID == targetID {
		return LikeResult{}, fmt.Errorf("cannot like yourself: %w", apperr.ErrInvalidAction)
	}

	target, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LikeResult{}, fmt.Errorf("user %d: %w", targetID, apperr.ErrNotFound)
		}
		return LikeResult{}, err
	}

	if err := s.limiter.Allow(ctx, actorID); err != nil {
		return LikeResult{}, err
	}

	// Idempotency short-circuit: a repeated like reports current status.
	liked, err := s.likes.Exists(ctx, actorID, targetID)
	if err != nil {
		return LikeResult{}, err
	}
	if liked {
		mutual, err := s.likes.Exists(ctx, targetID, actorID)
		if err != nil {
			return LikeResult{}, err
		}
		return LikeResult{Match: mutual, AlreadyLiked: true}, nil
	}

	if err := s.likes.Create(ctx, actorID, targetID); err != nil {
		// A concurrent duplicate of the same like is the already-liked case.
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return LikeResult{}, err
		}
		mutual, err := s.likes.Exists(ctx, targetID, actorID)
		if err != nil {
			return LikeResult{}, err
		}
		return LikeResult{Match: mutual, AlreadyLiked: true}, nil
	}

	// Side effects off the primary path: count cache invalidation and the
	// Basic-tier notification must never fail the like.
	_ = s.appCtx.RedisCache.InvalidateLikesYouCount(ctx, targetID)
	if tier.Parse(target.Tier) == tier.Basic {
		s.notifyLiked(ctx, targetID, actorID)
	}

	mutual, err := s.likes.Exists(ctx, targetID, actorID)
	if err != nil {
		return LikeResult{}, err
	}
	if !mutual {
		return LikeResult{Match: false}, nil
	}

	if _, created, err := s.matches.Create(ctx, actorID, targetID); err != nil {
		return LikeResult{}, err
	} else if created {
		s.appCtx.Logger.Info("match created", "actor", actorID, "target", targetID)
	}
	_ = s.appCtx.RedisCache.InvalidateLikesYouCount(ctx, actorID, targetID)

	return LikeResult{Match: true}, nil
}

func (s *Service) notifyLiked(ctx context.Context, targetID, actorID uint64) {
	notifyCtx := context.WithoutCancel(ctx)
	go func() {
		if err := s.notifications.CreateLikeNotification(notifyCtx, targetID, actorID); err != nil {
			s.appCtx.Logger.Warn("like notification failed", "target", targetID, "actor", actorID, "err", err)
		}
	}()
}

// Unmatch dissolves a match on behalf of requester and resets the relation:
// the match row and both directional likes are removed. A repeated unmatch
// reports apperr.ErrNotFound, which callers treat as nothing to do.
func (s *Service) Unmatch(ctx context.Context, matchID, requesterID uint64) error {
	m, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("match %d: %w", matchID, apperr.ErrNotFound)
		}
		return err
	}

	if m.User1ID != requesterID && m.User2ID != requesterID {
		return fmt.Errorf("match %d: %w", matchID, apperr.ErrForbidden)
	}

	if err := s.matches.Delete(ctx, m.ID); err != nil {
		return err
	}
	if err := s.likes.DeletePair(ctx, m.User1ID, m.User2ID); err != nil {
		return err
	}
	_ = s.appCtx.RedisCache.InvalidateLikesYouCount(ctx, m.User1ID, m.User2ID)

	s.appCtx.Logger.Info("unmatched", "match", matchID, "by", requesterID)
	return nil
}

// Matches returns all of userID's matches, each annotated with the other
// participant's profile summary. The counterpart is resolved per row by
// comparing ids, never by assuming a fixed column role.
func (s *Service) Matches(ctx context.Context, userID uint64) ([]MatchEntry, error) {
	rows, err := s.matches.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	counterpartIDs := make([]uint64, 0, len(rows))
	for _, m := range rows {
		counterpartIDs = append(counterpartIDs, counterpartOf(m.User1ID, m.User2ID, userID))
	}
	summaries, err := s.users.SummariesByIDs(ctx, counterpartIDs)
	if err != nil {
		return nil, err
	}

	entries := make([]MatchEntry, 0, len(rows))
	for _, m := range rows {
		entries = append(entries, MatchEntry{
			ID:          m.ID,
			Counterpart: summaries[counterpartOf(m.User1ID, m.User2ID, userID)],
			CreatedAt:   m.CreatedAt,
		})
	}
	return entries, nil
}

func counterpartOf(user1, user2, self uint64) uint64 {
	if user1 == self {
		return user2
	}
	return user1
}

// LikesReceived returns who liked userID, shaped by tier: Premium and Elite
// see identities, Basic sees only the count. The count-only path is served
// cache-first from Redis with the DB as fallback.
//
// Route-level authorization already restricts the identity view to
// Premium+; the shaping here is the second, defense-in-depth layer.
func (s *Service) LikesReceived(ctx context.Context, userID uint64, t tier.Tier) (LikesYou, error) {
	if !t.SeesLikerIdentities() {
		count, err := s.countLikesReceived(ctx, userID)
		if err != nil {
			return LikesYou{}, err
		}
		return LikesYou{Count: int(count)}, nil
	}

	rows, err := s.likes.ReceivedBy(ctx, userID, likesPageSize)
	if err != nil {
		return LikesYou{}, err
	}

	actorIDs := make([]uint64, 0, len(rows))
	for _, l := range rows {
		actorIDs = append(actorIDs, l.ActorID)
	}
	summariesByID, err := s.users.SummariesByIDs(ctx, actorIDs)
	if err != nil {
		return LikesYou{}, err
	}

	full := make([]repository.ProfileSummary, 0, len(rows))
	for _, l := range rows {
		if summary, ok := summariesByID[l.ActorID]; ok {
			full = append(full, summary)
		}
	}

	identities, count := tier.Shape(t, full)
	return LikesYou{Identities: identities, Count: count}, nil
}

// countLikesReceived is cache-first: Redis hit wins, DB fallback refreshes
// the cache. Writes to the like ledger invalidate the key. The count is
// capped at likesPageSize so Basic reports the size of the same page a
// Premium caller would see, never a larger number from the full ledger.
func (s *Service) countLikesReceived(ctx context.Context, userID uint64) (int64, error) {
	if count, ok, err := s.appCtx.RedisCache.GetLikesYouCount(ctx, userID); err == nil && ok {
		return count, nil
	}

	count, err := s.likes.CountReceivedBy(ctx, userID)
	if err != nil {
		return 0, err
	}
	if count > likesPageSize {
		count = likesPageSize
	}
	if err := s.appCtx.RedisCache.SetLikesYouCount(ctx, userID, count); err != nil {
		s.appCtx.Logger.Debug("likes-you count cache write failed", "user", userID, "err", err)
	}
	return count, nil
}
