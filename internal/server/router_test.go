package server_test

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/emberly-app/emberly-backend/internal/app"
	"github.com/emberly-app/emberly-backend/internal/auth"
	"github.com/emberly-app/emberly-backend/internal/cache"
	"github.com/emberly-app/emberly-backend/internal/config"
	"github.com/emberly-app/emberly-backend/internal/db"
	"github.com/emberly-app/emberly-backend/internal/server"
)

// setupRouter wires the full HTTP stack against in-memory SQLite and
// miniredis, and returns the engine plus its config for token issuance.
func setupRouter(t *testing.T) (*gin.Engine, *config.Config, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_busy_timeout=5000", t.Name())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(
		&db.User{}, &db.Like{}, &db.Match{}, &db.Notification{}, &db.ReferralCode{}, &db.Referral{},
	))

	tiers := []string{"Basic", "Premium", "Elite"}
	for i, tr := range tiers {
		user := db.User{
			ID:           uint64(i + 1),
			Username:     fmt.Sprintf("user%d", i+1),
			Email:        fmt.Sprintf("u%d@test.com", i+1),
			PasswordHash: "x",
			Active:       true,
			Tier:         tr,
			Role:         "user",
		}
		require.NoError(t, gdb.Create(&user).Error)
	}

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	appCtx := app.New(gdb, cache.NewRedisCache(cfg), logger)

	return server.NewRouter(appCtx, cfg), cfg, gdb
}

func bearerFor(t *testing.T, cfg *config.Config, userID uint64) string {
	t.Helper()
	token, err := auth.IssueToken([]byte(cfg.Auth.JWTSecret), userID, time.Minute)
	require.NoError(t, err)
	return "Bearer " + token
}

func doRequest(router *gin.Engine, method, path, bearer string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set("Authorization", bearer)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	router, _, _ := setupRouter(t)

	rec := doRequest(router, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAPI_RequiresAuth(t *testing.T) {
	router, _, _ := setupRouter(t)

	rec := doRequest(router, http.MethodGet, "/api/matches", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/matches", "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLikeFlow_EndToEnd(t *testing.T) {
	router, cfg, _ := setupRouter(t)
	user1 := bearerFor(t, cfg, 1)
	user2 := bearerFor(t, cfg, 2)

	rec := doRequest(router, http.MethodPost, "/api/matches/like/2", user1)
	require.Equal(t, http.StatusOK, rec.Code)

	var likeResp struct {
		Match        bool `json:"match"`
		AlreadyLiked bool `json:"alreadyLiked"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &likeResp))
	assert.False(t, likeResp.Match)

	rec = doRequest(router, http.MethodPost, "/api/matches/like/1", user2)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &likeResp))
	assert.True(t, likeResp.Match)

	rec = doRequest(router, http.MethodGet, "/api/matches", user1)
	require.Equal(t, http.StatusOK, rec.Code)

	var matches []struct {
		ID          uint64 `json:"id"`
		Counterpart struct {
			ID uint64 `json:"id"`
		} `json:"matchedUser"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, uint64(2), matches[0].Counterpart.ID)

	rec = doRequest(router, http.MethodDelete, fmt.Sprintf("/api/matches/%d", matches[0].ID), user2)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/matches", user1)
	require.Equal(t, http.StatusOK, rec.Code)
	matches = matches[:0]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	assert.Empty(t, matches)
}

func TestLike_SelfIsBadRequest(t *testing.T) {
	router, cfg, _ := setupRouter(t)

	rec := doRequest(router, http.MethodPost, "/api/matches/like/1", bearerFor(t, cfg, 1))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLikesYou_RouteGuard(t *testing.T) {
	router, cfg, _ := setupRouter(t)

	// Basic caller is rejected at the route
	rec := doRequest(router, http.MethodGet, "/api/matches/likes-you", bearerFor(t, cfg, 1))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Premium caller gets identities
	rec = doRequest(router, http.MethodPost, "/api/matches/like/2", bearerFor(t, cfg, 1))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/matches/likes-you", bearerFor(t, cfg, 2))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Likes []struct {
			ID uint64 `json:"id"`
		} `json:"likes"`
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Likes, 1)
	assert.Equal(t, uint64(1), resp.Likes[0].ID)
	assert.Equal(t, 1, resp.Count)
}

func TestReferralRoutes_TierAndRoleGuards(t *testing.T) {
	router, cfg, gdb := setupRouter(t)

	// referral codes are Elite-only
	rec := doRequest(router, http.MethodGet, "/api/referrals/code", bearerFor(t, cfg, 1))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(router, http.MethodGet, "/api/referrals/code", bearerFor(t, cfg, 3))
	require.Equal(t, http.StatusOK, rec.Code)

	var codeResp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &codeResp))
	assert.Len(t, codeResp.Code, 12)

	// admin listing is role-gated
	rec = doRequest(router, http.MethodGet, "/api/referrals/admin", bearerFor(t, cfg, 1))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	require.NoError(t, gdb.Model(&db.User{}).Where("id = ?", 1).Update("role", "admin").Error)
	rec = doRequest(router, http.MethodGet, "/api/referrals/admin", bearerFor(t, cfg, 1))
	assert.Equal(t, http.StatusOK, rec.Code)
}
