package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/architect/natural-teacher/internal/common/errors"
	"github.com/architect/natural-teacher/internal/common/middleware"
	"github.com/architect/natural-teacher/internal/homework/models"
	"github.com/architect/natural-teacher/internal/homework/services"
	"github.com/architect/natural-teacher/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Auth happens via the bearer token before the upgrade.
		return true
	},
}

// wsReply is one outbound conversation frame.
type wsReply struct {
	Type      string    `json:"type"`
	Reply     string    `json:"reply,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RealTimeConversation handles POST /homework/real-time-conversation, the
// plain HTTP relay for clients without websocket support.
func RealTimeConversation(c *gin.Context) {
	var req models.ConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.Validation("invalid conversation payload", err.Error()))
		return
	}

	reply, err := services.Converse(middleware.UserID(c), req.SessionID, req.Message)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}

// ConversationSocket handles GET /homework/conversation/ws?session_id=,
// upgrading to a websocket that relays turns to the tutoring service. One
// connection serves one session.
func ConversationSocket(c *gin.Context) {
	sessionID, err := strconv.ParseUint(c.Query("session_id"), 10, 32)
	if err != nil || sessionID == 0 {
		middleware.JSONErrorResponse(c, errors.BadRequest("invalid session_id parameter"))
		return
	}

	userID := middleware.UserID(c)
	if _, err := services.SessionDetail(userID, uint(sessionID)); err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed",
			zap.Uint64("session_id", sessionID), zap.Error(err))
		return
	}
	defer conn.Close()

	logger.Info("conversation started",
		zap.Uint64("session_id", sessionID), zap.Uint("user_id", userID))

	for {
		var msg models.ConversationRequest
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("conversation read failed",
					zap.Uint64("session_id", sessionID), zap.Error(err))
			}
			return
		}
		if msg.Message == "" {
			conn.WriteJSON(wsReply{
				Type:      "error",
				Error:     "message must not be empty",
				Timestamp: time.Now(),
			})
			continue
		}

		reply, err := services.Converse(userID, uint(sessionID), msg.Message)
		if err != nil {
			conn.WriteJSON(wsReply{
				Type:      "error",
				Error:     err.Error(),
				Timestamp: time.Now(),
			})
			continue
		}

		if err := conn.WriteJSON(wsReply{
			Type:      "response",
			Reply:     reply,
			Timestamp: time.Now(),
		}); err != nil {
			return
		}
	}
}
