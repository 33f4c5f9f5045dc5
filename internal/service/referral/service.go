// Package referral issues collision-resistant referral codes and records
// referral attributions.
package referral

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/emberly-app/emberly-backend/internal/app"
	"github.com/emberly-app/emberly-backend/internal/apperr"
	"github.com/emberly-app/emberly-backend/internal/repository"
)

const (
	// codeLength is the number of hex characters in a referral code.
	codeLength = 12
	// defaultMaxAttempts bounds generation retries on collision.
	defaultMaxAttempts = 5
)

// Service owns referral code issuance and referral recording.
type Service struct {
	appCtx *app.AppContext
	repo   *repository.ReferralRepository

	// maxAttempts and randHex are swappable in tests to force collisions.
	maxAttempts int
	randHex     func(length int) (string, error)
}

// NewService creates the referral service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		repo:        repository.NewReferralRepository(appCtx.DB),
		maxAttempts: defaultMaxAttempts,
		randHex:     randomHex,
	}
}

// randomHex returns `length` hex characters from a cryptographically strong
// source.
func randomHex(length int) (string, error) {
	buf := make([]byte, (length+1)/2)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return hex.EncodeToString(buf)[:length], nil
}

// GetOrCreateCode returns the user's referral code, generating one on first
// request.
//
// Generation retries up to the attempt bound on collision; the unique code
// constraint in the store is the final race guard, and a concurrent call
// winning the per-referrer insert resolves to the winner's code. Exhausting
// the bound fails with apperr.ErrCodeExhausted rather than accepting a
// colliding code.
func (s *Service) GetOrCreateCode(ctx context.Context, userID uint64) (string, error) {
	code, err := s.repo.FindCodeByReferrer(ctx, userID)
	if err == nil {
		return code, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	for attempt := 0; attempt < s.maxAttempts; attempt++ {
		candidate, err := s.randHex(codeLength)
		if err != nil {
			return "", err
		}

		taken, err := s.repo.CodeExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if taken {
			s.appCtx.Logger.Warn("referral code collision", "attempt", attempt+1)
			continue
		}

		err = s.repo.CreateCode(ctx, userID, candidate)
		if err == nil {
			s.appCtx.Logger.Info("referral code issued", "referrer", userID)
			return candidate, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", err
		}

		// Either a concurrent call already issued this user's code, or the
		// candidate lost the global uniqueness race. Resolve the former,
		// retry the latter.
		if code, lookupErr := s.repo.FindCodeByReferrer(ctx, userID); lookupErr == nil {
			return code, nil
		}
		s.appCtx.Logger.Warn("referral code collision on insert", "attempt", attempt+1)
	}

	return "", apperr.ErrCodeExhausted
}

// RecordReferral attributes referredUserID's registration to the owner of
// code. An unknown code yields a nil referrer without error: registration
// must not fail over a bogus referral code. A duplicate attribution of the
// same pair is tolerated.
func (s *Service) RecordReferral(ctx context.Context, code string, referredUserID uint64) (*uint64, error) {
	referrerID, err := s.repo.FindReferrerByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := s.repo.CreateReferral(ctx, referrerID, referredUserID); err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// re-submitted registration event, already attributed
	}
	return &referrerID, nil
}

// ListReferrals returns the referrer's own recorded referrals.
func (s *Service) ListReferrals(ctx context.Context, referrerID uint64) ([]repository.ReferralEntry, error) {
	return s.repo.ListByReferrer(ctx, referrerID)
}

// ListAll returns every recorded referral. Admin view.
func (s *Service) ListAll(ctx context.Context) ([]repository.ReferralEntry, error) {
	return s.repo.ListAll(ctx)
}
