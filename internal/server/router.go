package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emberly-app/emberly-backend/internal/app"
	"github.com/emberly-app/emberly-backend/internal/auth"
	"github.com/emberly-app/emberly-backend/internal/config"
	"github.com/emberly-app/emberly-backend/internal/handler"
	"github.com/emberly-app/emberly-backend/internal/limits"
	"github.com/emberly-app/emberly-backend/internal/repository"
	"github.com/emberly-app/emberly-backend/internal/service/match"
	"github.com/emberly-app/emberly-backend/internal/service/referral"
	"github.com/emberly-app/emberly-backend/internal/tier"
)

// NewRouter wires services, middleware, and routes into a gin engine.
func NewRouter(appCtx *app.AppContext, cfg *config.Config) *gin.Engine {
	users := repository.NewUserRepository(appCtx.DB)
	limiter := limits.NewSwipeLimiter(appCtx.RedisCache, cfg.Limits.DailySwipes)

	matchHandler := handler.NewMatchHandler(match.NewService(appCtx, limiter))
	referralHandler := handler.NewReferralHandler(referral.NewService(appCtx))

	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(appCtx.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api", auth.Middleware(cfg, users))

	matches := api.Group("/matches")
	{
		matches.POST("/like/:id", matchHandler.Like)
		matches.GET("", matchHandler.Matches)
		matches.DELETE("/:matchId", matchHandler.Unmatch)
		matches.GET("/likes-you", auth.RequireTier(tier.Premium), matchHandler.LikesYou)
	}

	referrals := api.Group("/referrals")
	{
		referrals.GET("/code", auth.RequireTier(tier.Elite), referralHandler.Code)
		referrals.POST("", referralHandler.Record)
		referrals.GET("/mine", referralHandler.Mine)
		referrals.GET("/admin", auth.RequireAdmin(), referralHandler.AdminList)
		referrals.GET("/admin/:id", auth.RequireAdmin(), referralHandler.AdminList)
	}

	return r
}
