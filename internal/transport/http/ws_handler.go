package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/websocket"

	"uap-profile-service/internal/app"
	"uap-profile-service/internal/domain"
	"uap-profile-service/internal/logger"
)

type WSHandler struct {
	service  *app.ProfileService
	log      *logger.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.ProfileService, log *logger.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     logger.OrNop(log).With("component", "WSHandler"),
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

type answerPayload struct {
	QuestionID string `json:"questionId"`
	Value      string `json:"value"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// pathPayload reports the device's path; Active is false after exploreFreely.
type pathPayload struct {
	Active bool              `json:"active"`
	State  *domain.PathState `json:"state,omitempty"`
}

// ServeWS upgrades HTTP requests to websockets and drives one device's quiz.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	scope := deviceID(r)
	if scope == "" {
		http.Error(w, "missing deviceId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ctx := r.Context()
	log := h.log.With("scope", scope)

	view, err := h.service.StartQuiz(ctx, scope)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	events, cancel := h.service.Subscribe(scope)
	defer cancel()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	eventsDone := make(chan struct{})

	// single writer; gorilla connections do not allow concurrent writes
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Debug("ws write failed", "error", err)
				return
			}
		}
	}()

	go func() {
		defer close(eventsDone)
		for {
			select {
			case evt, ok := <-events:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "storageChanged", Payload: evt}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
				return
			}
		}
	}()

	send <- sessionMessage(view)

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		msg, done := h.dispatch(ctx, scope, inbound)
		send <- msg
		if done {
			break
		}
	}

	close(closeSignals)
	<-eventsDone
	close(send)
	<-writerDone
}

// dispatch runs one inbound message. done ends the connection.
func (h *WSHandler) dispatch(ctx context.Context, scope string, inbound inboundMessage) (outboundMessage[any], bool) {
	switch inbound.Type {
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			return errorMessage("invalid answer payload"), false
		}
		view, accepted, err := h.service.Answer(ctx, scope, payload.QuestionID, payload.Value)
		if err != nil {
			return errorMessage(err.Error()), false
		}
		if !accepted {
			return errorMessage("unknown question or option"), false
		}
		return sessionMessage(view), false
	case "back":
		view, err := h.service.Back(ctx, scope)
		if err != nil {
			return errorMessage(err.Error()), false
		}
		return sessionMessage(view), false
	case "retake":
		view, err := h.service.Retake(ctx, scope)
		if err != nil {
			return errorMessage(err.Error()), false
		}
		return sessionMessage(view), false
	case "abandon":
		h.service.Abandon(ctx, scope)
		return outboundMessage[any]{Type: "abandoned", Payload: struct{}{}}, true
	case "startPath":
		state, err := h.service.StartPath(ctx, scope)
		if err != nil {
			return errorMessage(err.Error()), false
		}
		return outboundMessage[any]{Type: "path", Payload: pathPayload{Active: true, State: &state}}, false
	case "exploreFreely":
		if err := h.service.ExploreFreely(ctx, scope); err != nil {
			return errorMessage(err.Error()), false
		}
		return outboundMessage[any]{Type: "path", Payload: pathPayload{}}, false
	default:
		return errorMessage("unsupported message type"), false
	}
}

func sessionMessage(view app.SessionView) outboundMessage[any] {
	if view.State == app.StateResults {
		return outboundMessage[any]{Type: "results", Payload: view}
	}
	return outboundMessage[any]{Type: "question", Payload: view}
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}

func deviceID(r *http.Request) string {
	if id := r.URL.Query().Get("deviceId"); id != "" {
		return id
	}
	return r.Header.Get("X-Device-ID")
}

// statusFor maps service errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrMissingScope),
		errors.Is(err, domain.ErrInvalidContentType),
		errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrUnknownArchetype):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrQuizNotFinished):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
