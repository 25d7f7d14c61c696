package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/scriptbridge/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/scriptbridge/internal/shared/id"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ConsoleMessage is sent by console clients
type ConsoleMessage struct {
	Type   string `json:"type"`
	Script string `json:"script,omitempty"`
}

// console is a REPL over WebSocket. Each connection owns a session, so
// globals defined by one message are visible to the next.
func (s *Server) console(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	sessionID := id.NewSessionID()
	log := s.logger.With(zap.String("session", sessionID.String()))

	session, err := s.plugin.NewSession(s.runtime)
	if err != nil {
		log.Error("failed to create console session", zap.Error(err))
		s.send(conn, gin.H{"type": "error", "error": err.Error()})
		return
	}
	defer session.Close()

	s.metrics.IncWSConnections()
	defer s.metrics.DecWSConnections()

	s.send(conn, gin.H{
		"type":     "system",
		"session":  sessionID,
		"instance": session.Instance().ID(),
		"message":  "Connected to " + s.plugin.Manifest().Name,
	})

	reqCtx := c.Request.Context()
	for {
		var msg ConsoleMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug("WebSocket read error", zap.Error(err))
			}
			break
		}
		s.metrics.RecordWSMessage("in", messageLabel(msg.Type))

		switch msg.Type {
		case "eval":
			if len(msg.Script) > MaxScriptBytes {
				s.sendError(conn, "script too large")
				continue
			}
			timer := monitoring.NewTimer(s.metrics, "console")
			result, err := session.Execute(reqCtx, msg.Script)
			if result == nil {
				timer.Stop("error")
				s.sendError(conn, errString(err))
				continue
			}
			if err != nil {
				timer.Stop("error")
			} else {
				timer.Stop("ok")
			}
			resp := evalResponse(id.NewRequestID().String(), result)
			s.send(conn, gin.H{"type": "result", "result": resp})
		case "reset":
			if err := session.Reset(); err != nil {
				s.sendError(conn, err.Error())
				continue
			}
			s.send(conn, gin.H{"type": "reset", "instance": session.Instance().ID()})
		case "ping":
			s.send(conn, gin.H{"type": "pong"})
		default:
			s.sendError(conn, "unknown message type")
		}
	}
}

func messageLabel(t string) string {
	switch t {
	case "eval", "reset", "ping":
		return t
	}
	return "unknown"
}

func (s *Server) send(conn *websocket.Conn, msg gin.H) error {
	s.metrics.RecordWSMessage("out", msg["type"].(string))
	return conn.WriteJSON(msg)
}

func (s *Server) sendError(conn *websocket.Conn, message string) error {
	return s.send(conn, gin.H{"type": "error", "error": message})
}
