package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/sprite-ai/commitlint-core/internal/analysis"
	"github.com/sprite-ai/commitlint-core/internal/commit"
	"github.com/sprite-ai/commitlint-core/internal/model"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024 * 64,
	WriteBufferSize: 1024 * 64,
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins for local dev; restrict in production
	},
}

// WebSocket message types from client.
const (
	wsMsgValidate = "validate"
)

// WebSocket message types to client.
const (
	wsMsgReport = "report"
	wsMsgError  = "error"
)

// wsMessage is the envelope for WebSocket messages in both directions.
type wsMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// wsValidate is the payload for "validate" messages.
type wsValidate struct {
	ID      string                `json:"id,omitempty"`
	Message string                `json:"message"`
	Meta    *model.ChangeMetadata `json:"meta,omitempty"`
}

// wsReport is sent for each validated message.
type wsReport struct {
	ID       string             `json:"id,omitempty"`
	Status   model.Status       `json:"status"`
	Summary  string             `json:"summary"`
	Findings []analysis.Finding `json:"findings"`
}

type wsError struct {
	ID      string `json:"id,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	log := s.logger.With(zap.String("request_id", requestID(r.Context())))

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("websocket upgrade", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("websocket read", zap.Error(err))
			}
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.sendWSError(conn, wsError{Message: "invalid message format"})
			continue
		}

		switch msg.Type {
		case wsMsgValidate:
			s.handleWSValidate(conn, msg.Data)
		default:
			s.sendWSError(conn, wsError{Message: "unknown message type: " + msg.Type})
		}
	}
}

func (s *Server) handleWSValidate(conn *websocket.Conn, data json.RawMessage) {
	var req wsValidate
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWSError(conn, wsError{Message: "invalid validate data"})
		return
	}

	res, err := s.engine.Analyze(req.Message, req.Meta)
	if err != nil {
		e := wsError{ID: req.ID, Message: err.Error()}
		var pe *commit.ParseError
		if errors.As(err, &pe) {
			e.Code = string(pe.Code)
		}
		s.sendWSError(conn, e)
		return
	}

	findings := res.Report.Findings
	if findings == nil {
		findings = []analysis.Finding{}
	}
	s.sendWSMessage(conn, wsMsgReport, wsReport{
		ID:       req.ID,
		Status:   res.Report.Status,
		Summary:  res.Report.Summary(),
		Findings: findings,
	})
}

func (s *Server) sendWSMessage(conn *websocket.Conn, msgType string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		s.logger.Warn("ws marshal", zap.Error(err))
		return
	}
	msg := wsMessage{Type: msgType, Data: raw}
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Warn("ws write", zap.Error(err))
	}
}

func (s *Server) sendWSError(conn *websocket.Conn, e wsError) {
	s.sendWSMessage(conn, wsMsgError, e)
}
