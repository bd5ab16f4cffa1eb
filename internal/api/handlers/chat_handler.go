package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okkyra/panelist/internal/models"
	"github.com/okkyra/panelist/internal/services"
	"github.com/okkyra/panelist/internal/utils"
)

type ChatHandler struct {
	svc services.ChatService
}

func NewChatHandler(svc services.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

type chatContextResponse struct {
	PersonaID     int           `json:"personaId"`
	PersonaName   string        `json:"personaName"`
	Descriptor    string        `json:"descriptor"`
	Traits        []string      `json:"characteristics"`
	ReviewText    string        `json:"reviewText"`
	Rating        int           `json:"sentimentRating"`
	DisplayRating float64       `json:"displayRating"`
	History       []models.Turn `json:"history"`
}

// Context serves the chat view's data for one stored persona. A stale or
// unknown id is a 404 so the client knows to regenerate rather than retry.
func (h *ChatHandler) Context(c *gin.Context) {
	id, ok := personaID(c)
	if !ok {
		return
	}

	sid := sessionID(c)
	if sid == "" {
		writeError(c, utils.E(utils.CodeNotFound, "ChatHandler.Context", "no active panel session", nil))
		return
	}

	entry, err := h.svc.Context(c.Request.Context(), sid, id)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, chatContextResponse{
		PersonaID:     entry.Persona.ID,
		PersonaName:   entry.Persona.Name,
		Descriptor:    entry.Persona.Descriptor,
		Traits:        entry.Persona.TraitNames(),
		ReviewText:    entry.Review.Text,
		Rating:        entry.Review.Rating,
		DisplayRating: entry.Review.DisplayRating(),
		History:       entry.History,
	})
}

type chatRequest struct {
	Message string `json:"message"`
}

func (h *ChatHandler) Reply(c *gin.Context) {
	id, ok := personaID(c)
	if !ok {
		return
	}

	sid := sessionID(c)
	if sid == "" {
		writeError(c, utils.E(utils.CodeNotFound, "ChatHandler.Reply", "no active panel session", nil))
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ChatHandler.Reply", "invalid request body", err))
		return
	}

	reply, err := h.svc.Reply(c.Request.Context(), sid, id, req.Message)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
