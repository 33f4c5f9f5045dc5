package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/emberly-app/emberly-backend/internal/auth"
	"github.com/emberly-app/emberly-backend/internal/repository"
	"github.com/emberly-app/emberly-backend/internal/service/referral"
)

// ReferralHandler exposes the referral program over HTTP.
type ReferralHandler struct {
	svc *referral.Service
}

func NewReferralHandler(svc *referral.Service) *ReferralHandler {
	return &ReferralHandler{svc: svc}
}

// Code handles GET /api/referrals/code. Route-guarded to Elite.
func (h *ReferralHandler) Code(c *gin.Context) {
	user := auth.CurrentUser(c)

	code, err := h.svc.GetOrCreateCode(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": code})
}

type recordReferralReq struct {
	Code string `json:"code" binding:"required"`
}

// Record handles POST /api/referrals: the referred user submits the code
// they registered with.
func (h *ReferralHandler) Record(c *gin.Context) {
	var req recordReferralReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required"})
		return
	}
	user := auth.CurrentUser(c)

	referrerID, err := h.svc.RecordReferral(c.Request.Context(), req.Code, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"referrerId": referrerID})
}

// Mine handles GET /api/referrals/mine.
func (h *ReferralHandler) Mine(c *gin.Context) {
	user := auth.CurrentUser(c)

	list, err := h.svc.ListReferrals(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondReferrals(c, list)
}

// AdminList handles GET /api/referrals/admin and /api/referrals/admin/:id.
func (h *ReferralHandler) AdminList(c *gin.Context) {
	if c.Param("id") != "" {
		referrerID, ok := parseIDParam(c, "id")
		if !ok {
			return
		}
		list, err := h.svc.ListReferrals(c.Request.Context(), referrerID)
		if err != nil {
			respondError(c, err)
			return
		}
		respondReferrals(c, list)
		return
	}

	list, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondReferrals(c, list)
}

func respondReferrals(c *gin.Context, list []repository.ReferralEntry) {
	if list == nil {
		list = []repository.ReferralEntry{}
	}
	c.JSON(http.StatusOK, gin.H{"referrals": list})
}
