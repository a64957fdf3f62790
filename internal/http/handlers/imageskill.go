package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/botfabrik/dialog-backend/internal/http/response"
	"github.com/botfabrik/dialog-backend/internal/platform/logger"
	"github.com/botfabrik/dialog-backend/internal/skills/imageskill"
)

type ImageSkillHandler struct {
	log       *logger.Logger
	responder *imageskill.Responder
}

func NewImageSkillHandler(log *logger.Logger, responder *imageskill.Responder) *ImageSkillHandler {
	return &ImageSkillHandler{
		log:       log.With("handler", "ImageSkill"),
		responder: responder,
	}
}

type respondRequest struct {
	Dialogs []imageskill.Dialog `json:"dialogs"`
}

// Respond handles POST /respond: one caption passthrough reply per dialog.
func (h *ImageSkillHandler) Respond(c *gin.Context) {
	var req respondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "bad_request", err)
		return
	}
	response.RespondOK(c, h.responder.RespondBatch(req.Dialogs))
}
