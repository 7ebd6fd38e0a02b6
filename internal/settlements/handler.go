package settlements

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ys6448761-hue/yeosu-coupon-system/pkg/response"
)

// Handler exposes settlement read endpoints for partners.
type Handler struct {
	repo *Repository
}

// NewHandler creates a settlements handler.
func NewHandler(repo *Repository) *Handler {
	return &Handler{repo: repo}
}

// CountByPartner handles GET /api/partners/:id/settlements.
func (h *Handler) CountByPartner(c *gin.Context) {
	partnerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid_input", "invalid partner id")
		return
	}
	n, err := h.repo.CountByPartner(c.Request.Context(), partnerID)
	if err != nil {
		response.Internal(c, "internal", "internal server error")
		return
	}
	response.OK(c, gin.H{"partner_id": partnerID, "redeemed_count": n})
}
