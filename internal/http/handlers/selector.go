package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/botfabrik/dialog-backend/internal/http/response"
	"github.com/botfabrik/dialog-backend/internal/platform/logger"
	"github.com/botfabrik/dialog-backend/internal/selector"
)

type SelectorHandler struct {
	log *logger.Logger
	sel *selector.Selector
}

func NewSelectorHandler(log *logger.Logger, sel *selector.Selector) *SelectorHandler {
	return &SelectorHandler{
		log: log.With("handler", "Selector"),
		sel: sel,
	}
}

type selectedSkillsRequest struct {
	StatesBatch []selector.Dialog `json:"states_batch"`
}

// SelectedSkills handles POST /selected_skills: one skill-name list per
// dialog state.
func (h *SelectorHandler) SelectedSkills(c *gin.Context) {
	var req selectedSkillsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	start := time.Now()
	skillNames := h.sel.SelectBatch(req.StatesBatch)
	h.log.Info("skill selection done",
		"dialogs", len(req.StatesBatch),
		"latency_ms", time.Since(start).Milliseconds())
	response.RespondOK(c, skillNames)
}
