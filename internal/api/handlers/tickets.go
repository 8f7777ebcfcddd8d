package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/courtside/internal/models"
	"github.com/stitts-dev/courtside/internal/services"
	"github.com/stitts-dev/courtside/pkg/utils"
)

type TicketHandler struct {
	store *services.TicketStore
}

func NewTicketHandler(store *services.TicketStore) *TicketHandler {
	return &TicketHandler{store: store}
}

// ListTickets handles GET /tickets?date=&kind=&limit=
func (h *TicketHandler) ListTickets(c *gin.Context) {
	filter := services.TicketFilter{Date: c.Query("date")}

	if raw := c.Query("kind"); raw != "" {
		kind, err := models.ParseTicketKind(raw)
		if err != nil {
			utils.SendValidationError(c, "Invalid ticket kind", err.Error())
			return
		}
		filter.Kind = kind
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			utils.SendValidationError(c, "limit must be a positive integer", raw)
			return
		}
		filter.Limit = limit
	}

	records, err := h.store.List(c.Request.Context(), filter)
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccessWithMeta(c, records, &utils.Meta{Total: int64(len(records))})
}

// GetTicket handles GET /tickets/:id and returns the decoded legs.
func (h *TicketHandler) GetTicket(c *gin.Context) {
	rec, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.SendServiceError(c, err)
		return
	}

	ticket, err := services.DecodeTicket(rec)
	if err != nil {
		_ = c.Error(err)
		utils.SendInternalError(c, "Failed to decode ticket")
		return
	}

	utils.SendSuccess(c, gin.H{
		"record": rec,
		"ticket": ticket,
	})
}
