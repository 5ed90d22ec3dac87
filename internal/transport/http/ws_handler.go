package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"kyoto-kentei/internal/app"
)

// WSHandler plays one quiz per connection. A client either sends "start" or
// connects with ?quizId= to resume a session created over REST.
type WSHandler struct {
	service      *app.QuizService
	logger       *zap.Logger
	defaultCount int
	upgrader     websocket.Upgrader
}

// NewWSHandler builds the handler; defaultCount applies to "start" messages without a count.
func NewWSHandler(service *app.QuizService, logger *zap.Logger, defaultCount int) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		service:      service,
		logger:       logger,
		defaultCount: defaultCount,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type wsStartPayload struct {
	Level string `json:"level"`
	Count *int   `json:"count"`
}

type wsAnswerPayload struct {
	Index *int `json:"index"`
}

type wsReportPayload struct {
	QuestionID string `json:"questionId"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type jsonWriter interface {
	WriteJSON(v any) error
}

// outbox is the single writer of a connection; gorilla connections allow one
// concurrent writer. After a write fails, push drops messages and returns false.
type outbox struct {
	send chan outboundMessage[any]
	done chan struct{}
}

func newOutbox(w jsonWriter, onError func(error)) *outbox {
	o := &outbox{
		send: make(chan outboundMessage[any], 16),
		done: make(chan struct{}),
	}
	go func() {
		defer close(o.done)
		for msg := range o.send {
			if err := w.WriteJSON(msg); err != nil {
				onError(err)
				return
			}
		}
	}()
	return o
}

func (o *outbox) push(msg outboundMessage[any]) bool {
	select {
	case <-o.done:
		return false
	default:
	}
	select {
	case o.send <- msg:
		return true
	case <-o.done:
		return false
	}
}

// close flushes queued messages and waits for the writer to stop.
func (o *outbox) close() {
	close(o.send)
	<-o.done
}

// connState is owned by the read loop.
type connState struct {
	quizID string
	// owned is set when the quiz was started over this connection; it is
	// abandoned when the connection closes.
	owned bool
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	state := connState{quizID: r.URL.Query().Get("quizId")}
	if state.quizID != "" {
		if _, err := h.service.State(r.Context(), state.quizID); err != nil {
			writeError(w, err)
			return
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	out := newOutbox(conn, func(err error) {
		h.logger.Warn("ws write error", zap.Error(err))
		// Unblocks ReadJSON so the read loop ends too.
		_ = conn.Close()
	})

	if state.quizID != "" {
		if current, err := h.service.State(r.Context(), state.quizID); err == nil {
			out.push(outboundMessage[any]{Type: "state", Payload: current})
		}
	}

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		msgType, payload := h.dispatch(r, &state, inbound)
		if !out.push(outboundMessage[any]{Type: msgType, Payload: payload}) {
			break
		}
	}
	out.close()

	if state.owned {
		// The request context is done once the connection is gone.
		_ = h.service.Abandon(context.WithoutCancel(r.Context()), state.quizID)
	}
}

func (h *WSHandler) dispatch(r *http.Request, state *connState, inbound inboundMessage) (string, any) {
	ctx := r.Context()
	fail := func(err error) (string, any) {
		return "error", errorPayload{Message: err.Error()}
	}
	invalid := func(what string) (string, any) {
		return "error", errorPayload{Message: "invalid " + what + " payload"}
	}
	needQuiz := func() bool { return state.quizID != "" }

	switch inbound.Type {
	case "start":
		var p wsStartPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil {
			return invalid("start")
		}
		count := h.defaultCount
		if p.Count != nil {
			count = *p.Count
		}
		quiz, err := h.service.Start(ctx, p.Level, count)
		if err != nil {
			return fail(err)
		}
		if state.owned {
			_ = h.service.Abandon(ctx, state.quizID)
		}
		state.quizID, state.owned = quiz.QuizID, true
		return "state", quiz

	case "answer":
		var p wsAnswerPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil || p.Index == nil {
			return invalid("answer")
		}
		if !needQuiz() {
			return "error", errorPayload{Message: "no quiz in progress"}
		}
		feedback, err := h.service.Answer(ctx, state.quizID, *p.Index)
		if err != nil {
			return fail(err)
		}
		return "feedback", feedback

	case "next":
		if !needQuiz() {
			return "error", errorPayload{Message: "no quiz in progress"}
		}
		next, err := h.service.Next(ctx, state.quizID)
		if err != nil {
			return fail(err)
		}
		return "state", next

	case "result":
		if !needQuiz() {
			return "error", errorPayload{Message: "no quiz in progress"}
		}
		result, err := h.service.Finish(ctx, state.quizID)
		if err != nil {
			return fail(err)
		}
		return "result", result

	case "report":
		var p wsReportPayload
		if err := json.Unmarshal(inbound.Payload, &p); err != nil {
			return invalid("report")
		}
		report, err := h.service.Report(ctx, p.QuestionID)
		if err != nil {
			return fail(err)
		}
		return "reported", report

	default:
		return "error", errorPayload{Message: "unsupported message type"}
	}
}
