package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emberly-app/emberly-backend/internal/auth"
	"github.com/emberly-app/emberly-backend/internal/repository"
	"github.com/emberly-app/emberly-backend/internal/service/match"
	"github.com/emberly-app/emberly-backend/internal/tier"
)

// MatchHandler exposes the match engine over HTTP.
type MatchHandler struct {
	svc *match.Service
}

func NewMatchHandler(svc *match.Service) *MatchHandler {
	return &MatchHandler{svc: svc}
}

// Like handles POST /api/matches/like/:id.
func (h *MatchHandler) Like(c *gin.Context) {
	targetID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user := auth.CurrentUser(c)

	result, err := h.svc.Like(c.Request.Context(), user.ID, targetID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Matches handles GET /api/matches.
func (h *MatchHandler) Matches(c *gin.Context) {
	user := auth.CurrentUser(c)

	entries, err := h.svc.Matches(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	if entries == nil {
		entries = []match.MatchEntry{}
	}
	c.JSON(http.StatusOK, entries)
}

// Unmatch handles DELETE /api/matches/:matchId.
func (h *MatchHandler) Unmatch(c *gin.Context) {
	matchID, ok := parseIDParam(c, "matchId")
	if !ok {
		return
	}
	user := auth.CurrentUser(c)

	if err := h.svc.Unmatch(c.Request.Context(), matchID, user.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// LikesYou handles GET /api/matches/likes-you.
func (h *MatchHandler) LikesYou(c *gin.Context) {
	user := auth.CurrentUser(c)

	result, err := h.svc.LikesReceived(c.Request.Context(), user.ID, tier.Parse(user.Tier))
	if err != nil {
		respondError(c, err)
		return
	}
	if result.Identities == nil {
		result.Identities = []repository.ProfileSummary{}
	}
	c.JSON(http.StatusOK, result)
}
