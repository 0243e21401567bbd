package api

import (
	"net/http"

	"github.com/Domenick1991/flightapp/internal/session"
	"github.com/gin-gonic/gin"
)

const (
	SessionHeader = "X-Session-Token"
	sessionKey    = "session"
)

type SessionHandler struct {
	registry *session.Registry
}

type sessionResponse struct {
	Token string `json:"token"`
}

func NewSessionHandler(registry *session.Registry) *SessionHandler {
	return &SessionHandler{registry: registry}
}

func (h *SessionHandler) Register(router *gin.RouterGroup) {
	router.POST("/sessions", h.open)
	router.DELETE("/sessions", h.close)
}

func (h *SessionHandler) open(c *gin.Context) {
	sess := h.registry.Open()
	c.JSON(http.StatusCreated, sessionResponse{Token: sess.Token()})
}

func (h *SessionHandler) close(c *gin.Context) {
	if !h.registry.Close(c.GetHeader(SessionHeader)) {
		c.JSON(http.StatusNotFound, errorResponse{Error: "unknown session"})
		return
	}
	c.Status(http.StatusNoContent)
}

// RequireSession resolves the X-Session-Token header to a live session.
func RequireSession(registry *session.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(SessionHeader)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: "missing " + SessionHeader + " header"})
			return
		}
		sess, ok := registry.Get(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: "unknown session"})
			return
		}
		c.Set(sessionKey, sess)
		c.Next()
	}
}

func sessionFrom(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}
