package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/okkyra/panelist/internal/utils"
)

// sessionCookie identifies a panel session. No auth: the cookie is an
// opaque handle issued on the first generate call.
const sessionCookie = "panel_session"

type APIError struct {
	Code    utils.Code `json:"code"`
	Message string     `json:"message"`
}

func writeError(c *gin.Context, err error) {
	status := utils.HTTPStatus(err)

	var ae *utils.AppError
	if errors.As(err, &ae) {
		c.JSON(status, APIError{
			Code:    ae.Code,
			Message: ae.Message,
		})
		return
	}

	c.JSON(status, APIError{
		Code:    utils.CodeInternal,
		Message: http.StatusText(status),
	})
}

// sessionID reads the panel session cookie; empty when none was issued.
func sessionID(c *gin.Context) string {
	v, err := c.Cookie(sessionCookie)
	if err != nil {
		return ""
	}
	return v
}

// ensureSessionID reads the cookie or issues a fresh session id.
func ensureSessionID(c *gin.Context) string {
	if v := sessionID(c); v != "" {
		return v
	}
	v := uuid.NewString()
	c.SetCookie(sessionCookie, v, 0, "/", "", false, true)
	return v
}

// personaID parses the :persona_id path param.
func personaID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("persona_id"))
	if err != nil || id <= 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, "Handlers", "invalid persona id", err))
		return 0, false
	}
	return id, true
}
