package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/okkyra/panelist/internal/models"
	"github.com/okkyra/panelist/internal/services"
	"github.com/okkyra/panelist/internal/utils"
)

type CallHandler struct {
	svc services.CallService
}

func NewCallHandler(svc services.CallService) *CallHandler {
	return &CallHandler{svc: svc}
}

type callTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type callRequest struct {
	Message     string     `json:"message"`
	PersonaName string     `json:"persona_name"`
	Tone        string     `json:"tone"`
	Gender      string     `json:"gender"`
	History     []callTurn `json:"history"`
	Initial     bool       `json:"initial"`
}

type callResponse struct {
	Reply string `json:"reply"`
	Audio string `json:"audio,omitempty"` // base64 synthesized speech
}

// Turn handles one voice-call exchange. Call history is client-held and
// arrives in the payload; nothing about the call is written to the store.
func (h *CallHandler) Turn(c *gin.Context) {
	id, ok := personaID(c)
	if !ok {
		return
	}

	var req callRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "CallHandler.Turn", "invalid request body", err))
		return
	}

	history := make([]models.Turn, 0, len(req.History))
	for _, t := range req.History {
		role := models.RoleUser
		// browsers send the chat-completions role name
		if t.Role == "assistant" || t.Role == models.RolePersona {
			role = models.RolePersona
		}
		history = append(history, models.Turn{Role: role, Content: t.Content})
	}

	result, err := h.svc.Turn(c.Request.Context(), sessionID(c), id, services.CallTurnRequest{
		Message:     req.Message,
		PersonaName: req.PersonaName,
		Tone:        req.Tone,
		Gender:      req.Gender,
		History:     history,
		Initial:     req.Initial,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := callResponse{Reply: result.Reply}
	if len(result.Audio) > 0 {
		resp.Audio = base64.StdEncoding.EncodeToString(result.Audio)
	}
	c.JSON(http.StatusOK, resp)
}
