package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/stitts-dev/courtside/internal/models"
	"github.com/stitts-dev/courtside/internal/narrative"
	"github.com/stitts-dev/courtside/internal/services"
	"github.com/stitts-dev/courtside/pkg/utils"
)

// LatestSlater exposes the slate kept by the background fetcher.
type LatestSlater interface {
	LatestSlate() *models.Slate
}

// CompositionHandler serves game compositions, daily multiples and their
// narrative renderings.
type CompositionHandler struct {
	recommendations *services.RecommendationService
	builder         services.SlateSource
	latest          LatestSlater
	formatter       *narrative.Formatter
	now             func() time.Time
}

// NewCompositionHandler builds the handler. builder and latest may be nil;
// without either, GET /slate/today is unavailable.
func NewCompositionHandler(recommendations *services.RecommendationService, builder services.SlateSource, latest LatestSlater) *CompositionHandler {
	return &CompositionHandler{
		recommendations: recommendations,
		builder:         builder,
		latest:          latest,
		formatter:       narrative.NewFormatter(),
		now:             time.Now,
	}
}

type compositionResponse struct {
	Composition models.Composition `json:"composition"`
	Narrative   []narrative.Bucket `json:"narrative"`
	Markdown    string             `json:"markdown,omitempty"`
}

// ComposeGame handles POST /compose/game
func (h *CompositionHandler) ComposeGame(c *gin.Context) {
	var gs models.GameSlate
	if err := c.ShouldBindJSON(&gs); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}
	if msg := validateGame(gs.Game); msg != "" {
		utils.SendValidationError(c, msg, "")
		return
	}

	comp, err := h.recommendations.ComposeGame(c.Request.Context(), gs)
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err)
		return
	}

	resp := compositionResponse{
		Composition: comp,
		Narrative:   h.formatter.FormatComposition(comp),
	}
	if wantMarkdown(c) {
		resp.Markdown = h.formatter.CompositionMarkdown(comp)
	}
	utils.SendSuccess(c, resp)
}

// ComposeSlate handles POST /compose/slate
func (h *CompositionHandler) ComposeSlate(c *gin.Context) {
	slate, ok := h.bindSlate(c)
	if !ok {
		return
	}

	comps, err := h.recommendations.ComposeSlate(c.Request.Context(), slate)
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err)
		return
	}

	utils.SendSuccessWithMeta(c, gin.H{
		"date":         slate.Date,
		"compositions": comps,
	}, &utils.Meta{Total: int64(len(comps))})
}

// DailyMultiple handles POST /multiple. persist=true stores both tickets.
func (h *CompositionHandler) DailyMultiple(c *gin.Context) {
	persist := false
	if raw := c.Query("persist"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			utils.SendValidationError(c, "persist must be a boolean", err.Error())
			return
		}
		persist = v
	}

	slate, ok := h.bindSlate(c)
	if !ok {
		return
	}

	dm, _, err := h.recommendations.DailyMultiple(c.Request.Context(), slate, persist)
	if err != nil {
		_ = c.Error(err)
		utils.SendServiceError(c, err)
		return
	}

	body := gin.H{
		"multiple":     dm,
		"conservative": h.formatter.TicketSummary(dm.Conservative),
		"aggressive":   h.formatter.TicketSummary(dm.Aggressive),
	}
	if wantMarkdown(c) {
		body["markdown"] = h.formatter.MultipleMarkdown(dm)
	}
	utils.SendSuccess(c, body)
}

// Narrative handles POST /narrative, rendering a previously composed game.
func (h *CompositionHandler) Narrative(c *gin.Context) {
	var comp models.Composition
	if err := c.ShouldBindJSON(&comp); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return
	}

	utils.SendSuccess(c, gin.H{
		"summary":  h.formatter.GameSummary(comp.Game),
		"buckets":  h.formatter.FormatComposition(comp),
		"markdown": h.formatter.CompositionMarkdown(comp),
	})
}

// TodaySlate handles GET /slate/today
func (h *CompositionHandler) TodaySlate(c *gin.Context) {
	if h.latest != nil {
		if slate := h.latest.LatestSlate(); slate != nil {
			utils.SendSuccess(c, slate)
			return
		}
	}
	if h.builder == nil {
		utils.SendError(c, http.StatusServiceUnavailable, utils.NewAppError(utils.ErrCodeProvider, "No slate source configured"))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	slate, err := h.builder.Build(ctx, h.now())
	if err != nil {
		_ = c.Error(err)
		if errors.Is(err, services.ErrNoGamesBuilt) {
			utils.SendServiceError(c, errors.Join(utils.ErrProviderUnavailable, err))
			return
		}
		utils.SendServiceError(c, err)
		return
	}
	utils.SendSuccess(c, slate)
}

func (h *CompositionHandler) bindSlate(c *gin.Context) (models.Slate, bool) {
	var slate models.Slate
	if err := c.ShouldBindJSON(&slate); err != nil {
		utils.SendValidationError(c, "Invalid request body", err.Error())
		return slate, false
	}
	if len(slate.Games) == 0 {
		utils.SendValidationError(c, "Slate has no games", "")
		return slate, false
	}
	for _, gs := range slate.Games {
		if msg := validateGame(gs.Game); msg != "" {
			utils.SendValidationError(c, msg, gs.Game.GameID)
			return slate, false
		}
	}
	if slate.Date == "" {
		slate.Date = h.now().Format("2006-01-02")
	}
	return slate, true
}

func validateGame(g models.GameContext) string {
	switch {
	case g.GameID == "":
		return "Game ID is required"
	case g.HomeTeam == "" || g.AwayTeam == "":
		return "Home and away teams are required"
	case g.HomeTeam == g.AwayTeam:
		return "Home and away teams must differ"
	}
	return ""
}

func wantMarkdown(c *gin.Context) bool {
	return c.Query("format") == "markdown"
}
