package db

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SeedTestData resets the database and populates it with demo users, likes,
// and the matches implied by mutual likes.
//
// Behavior:
//  1. Clears existing rows in all matching-core tables.
//  2. Creates 20 users with hashed passwords across the three tiers.
//  3. Generates ~150 likes; every 3rd like gets a reciprocal like plus the
//     resulting match row.
//
// Compatible with both MySQL and SQLite.
func SeedTestData(db *gorm.DB) error {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))

	// --- Fresh start ---
	for _, table := range []string{"referrals", "referral_codes", "notifications", "matches", "likes", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	switch db.Dialector.Name() {
	case "mysql":
		db.Exec("ALTER TABLE users AUTO_INCREMENT = 1")
		db.Exec("ALTER TABLE matches AUTO_INCREMENT = 1")
	case "sqlite":
		db.Exec("DELETE FROM sqlite_sequence WHERE name IN ('users', 'matches', 'notifications', 'referrals')")
	}

	log.Println("Cleared existing data")

	// --- Seed Users ---
	tiers := []string{"Basic", "Basic", "Premium", "Elite"}
	for i := 1; i <= 20; i++ {
		hash, err := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}

		user := User{
			Username:     fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@example.com", i),
			PasswordHash: string(hash),
			Active:       true,
			Tier:         tiers[i%len(tiers)],
			Role:         "user",
			FirstName:    fmt.Sprintf("First%d", i),
			LastName:     fmt.Sprintf("Last%d", i),
		}

		if err := db.Create(&user).Error; err != nil {
			return fmt.Errorf("failed to seed user: %w", err)
		}
	}
	log.Println("Seeded 20 users.")

	// --- Seed Likes (+ matches for mutual pairs) ---
	counter := 0
	for actorID := uint64(1); actorID <= 20; actorID++ {
		for j := 0; j < 8; j++ {
			targetID := uint64(r.Intn(20) + 1)
			if actorID == targetID {
				continue
			}

			like := Like{ActorID: actorID, TargetID: targetID}
			if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&like).Error; err != nil {
				return fmt.Errorf("failed to seed like: %w", err)
			}

			// guarantee a mutual like every 3rd pair
			if counter%3 == 0 {
				recip := Like{ActorID: targetID, TargetID: actorID}
				db.Clauses(clause.OnConflict{DoNothing: true}).Create(&recip)

				u1, u2 := actorID, targetID
				if u1 > u2 {
					u1, u2 = u2, u1
				}
				match := Match{User1ID: u1, User2ID: u2}
				db.Clauses(clause.OnConflict{DoNothing: true}).Create(&match)
			}

			counter++
		}
	}

	return nil
}
