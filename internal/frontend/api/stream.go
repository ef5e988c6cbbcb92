package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const writeWait = 10 * time.Second

// streamError is the final frame sent when a streamed battle cannot run.
type streamError struct {
	Status  string `json:"status"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// stream runs a battle between two stored characters and relays every log
// line over a websocket as it is produced, followed by the JSON summary.
//
// Precondition: the character1Id and character2Id query parameters are set.
// Postcondition: the connection is closed with a normal closure frame.
func (h *Handler) stream(c *gin.Context) {
	var req startBattleRequest
	if err := c.ShouldBindQuery(&req); err != nil || req.Character1ID == "" || req.Character2ID == "" {
		fail(c, http.StatusBadRequest, "Both character IDs are required")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	var writeErr error
	send := func(line string) {
		if writeErr != nil {
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		writeErr = conn.WriteMessage(websocket.TextMessage, []byte(line))
	}

	report, err := h.arena.StartBattle(c.Request.Context(), req.Character1ID, req.Character2ID, send)
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err != nil {
		status, message := battleErrorResponse(err)
		h.logger.Warn("streamed battle failed", zap.Int("code", status), zap.Error(err))
		_ = conn.WriteJSON(streamError{Status: "fail", Code: status, Message: message})
		closeStream(conn, websocket.CloseNormalClosure, "")
		return
	}
	if writeErr != nil {
		h.logger.Warn("battle stream client went away",
			zap.Int64("battle_id", report.History.ID),
			zap.Error(writeErr),
		)
		return
	}
	if err := conn.WriteJSON(reportResponse(report)); err != nil {
		h.logger.Warn("writing battle summary", zap.Error(err))
		return
	}
	closeStream(conn, websocket.CloseNormalClosure, "battle finished")
}

func closeStream(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
