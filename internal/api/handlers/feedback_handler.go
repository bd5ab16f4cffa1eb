package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okkyra/panelist/internal/services"
	"github.com/okkyra/panelist/internal/utils"
)

type FeedbackHandler struct {
	svc services.FeedbackService
}

func NewFeedbackHandler(svc services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{svc: svc}
}

type summarizeRequest struct {
	Conversation string `json:"conversation"`
}

// Summarize mines the supplied conversation window for feedback items and
// returns the session's accumulated set. When a summarization is already
// in flight the trigger is dropped and the current set comes back as-is.
func (h *FeedbackHandler) Summarize(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		writeError(c, utils.E(utils.CodeNotFound, "FeedbackHandler.Summarize", "no active panel session", nil))
		return
	}

	var req summarizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "FeedbackHandler.Summarize", "invalid request body", err))
		return
	}

	items, err := h.svc.Summarize(c.Request.Context(), sid, req.Conversation)
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type applyRequest struct {
	SelectedItems []string `json:"selected_items"`
}

func (h *FeedbackHandler) Apply(c *gin.Context) {
	sid := sessionID(c)
	if sid == "" {
		writeError(c, utils.E(utils.CodeNotFound, "FeedbackHandler.Apply", "no active panel session", nil))
		return
	}

	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "FeedbackHandler.Apply", "invalid request body", err))
		return
	}

	addendum, err := h.svc.Apply(c.Request.Context(), sid, req.SelectedItems)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"brief_addendum": addendum,
	})
}
