package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/kaholo/kansible/internal/api"
	"github.com/kaholo/kansible/internal/constants"
	apperrors "github.com/kaholo/kansible/internal/errors"
	"github.com/kaholo/kansible/internal/executor"

	"github.com/gorilla/websocket"
)

// handleStreamPlaybook handles GET /api/v1/playbooks/stream.
// The first client frame is the RunPlaybookRequest. The server answers with
// output frames while the playbook runs, then one result or error frame, then
// a normal close. The run is cancelled when the client goes away.
func (r *Router) handleStreamPlaybook(w http.ResponseWriter, req *http.Request) {
	log := r.GetLoggerFromContext(req.Context())

	conn, err := r.upgrader.Upgrade(w, req, nil)
	if err != nil {
		log.Warn("failed to upgrade stream connection", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()
	conn.SetReadLimit(constants.WebSocketReadLimit)

	stream := &streamWriter{conn: conn, log: log}
	defer stream.close()

	var runReq api.RunPlaybookRequest
	if err = conn.ReadJSON(&runReq); err != nil {
		log.Warn("failed to read stream request", "error", err)
		stream.send(api.StreamMessage{
			Type:  api.StreamMessageTypeError,
			Error: errorResponse(apperrors.ErrValidation("invalid request frame", err)),
		})
		return
	}

	ctx, cancel := context.WithCancel(req.Context())
	defer cancel()
	go watchClientClose(conn, cancel)

	resp, err := r.svc.RunPlaybook(ctx, &runReq, stream.output)
	if err != nil {
		log.Error("streamed run failed", "error_code", apperrors.GetErrorCode(err))
		stream.send(api.StreamMessage{Type: api.StreamMessageTypeError, Error: errorResponse(err)})
		return
	}
	stream.send(api.StreamMessage{Type: api.StreamMessageTypeResult, Result: resp})
}

// watchClientClose reads until the connection fails or the client closes it,
// then cancels the run.
func watchClientClose(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	for {
		if _, _, err := conn.NextReader(); err != nil {
			return
		}
	}
}

// streamWriter sends frames to one client. After the first write error every
// later frame is dropped.
type streamWriter struct {
	conn   *websocket.Conn
	log    *slog.Logger
	failed bool
}

func (s *streamWriter) output(chunk executor.Chunk) {
	s.send(api.StreamMessage{
		Type:   api.StreamMessageTypeOutput,
		Stream: string(chunk.Stream),
		Data:   string(chunk.Data),
	})
}

func (s *streamWriter) send(msg api.StreamMessage) {
	if s.failed {
		return
	}
	_ = s.conn.SetWriteDeadline(time.Now().Add(constants.WebSocketWriteTimeout))
	if err := s.conn.WriteJSON(msg); err != nil {
		s.failed = true
		s.log.Warn("failed to write stream frame", "error", err)
	}
}

func (s *streamWriter) close() {
	if s.failed {
		return
	}
	_ = s.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, "run completed"),
		time.Now().Add(constants.WebSocketWriteTimeout),
	)
}
