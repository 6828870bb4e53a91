package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"assessment-service/internal/domain"
	"assessment-service/internal/wizard"
	"github.com/gorilla/websocket"
)

// attributionParams are the marketing query parameters captured at wizard start.
var attributionParams = []string{"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content", "referrer"}

type WSHandler struct {
	service  *wizard.Service
	upgrader websocket.Upgrader
}

func NewWSHandler(service *wizard.Service) *WSHandler {
	return &WSHandler{
		service: service,
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

type answersPayload struct {
	Answers domain.AnswerSet `json:"answers"`
}

type submitPayload struct {
	Contact domain.Contact   `json:"contact"`
	Answers domain.AnswerSet `json:"answers"`
}

type togglePayload struct {
	Question string             `json:"question"`
	Current  domain.AnswerValue `json:"current"`
	Option   string             `json:"option"`
}

type toggleResult struct {
	Question string             `json:"question"`
	Value    domain.AnswerValue `json:"value"`
	Accepted bool               `json:"accepted"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message   string `json:"message"`
	Retryable bool   `json:"retryable,omitempty"`
}

// ServeWS upgrades the request and drives one wizard attempt over the socket.
// The client sends start/next/back/submit messages; the server answers with
// the active section view, a generating notice, and finally the report.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	wizardID := r.URL.Query().Get("wizardId")
	visitorID := r.URL.Query().Get("visitorId")
	if wizardID == "" || visitorID == "" {
		http.Error(w, "missing wizardId or visitorId", http.StatusBadRequest)
		return
	}
	sessionKey := wizardID + ":" + visitorID

	attribution := map[string]string{}
	for _, param := range attributionParams {
		if v := r.URL.Query().Get(param); v != "" {
			attribution[param] = v
		}
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	send := make(chan any, 16)
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}

		switch inbound.Type {
		case "start":
			view, err := h.service.Start(r.Context(), sessionKey, wizardID, attribution)
			if err != nil {
				send <- errorMessage(err)
				continue
			}
			send <- outboundMessage[wizard.View]{Type: "section", Payload: view}

		case "next":
			var payload answersPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage(errors.New("invalid answers payload"))
				continue
			}
			view, err := h.service.Advance(r.Context(), sessionKey, payload.Answers)
			if err != nil {
				send <- errorMessage(err)
				continue
			}
			send <- outboundMessage[wizard.View]{Type: "section", Payload: view}

		case "toggle":
			var payload togglePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage(errors.New("invalid toggle payload"))
				continue
			}
			view, err := h.service.CurrentSection(r.Context(), sessionKey)
			if err != nil {
				send <- errorMessage(err)
				continue
			}
			question, ok := findQuestion(view.Questions, payload.Question)
			if !ok {
				send <- errorMessage(domain.ErrUnknownQuestion)
				continue
			}
			// Selections past the bound are ignored, not errors; the client
			// keeps rendering the unchanged value.
			value, accepted := wizard.ToggleOption(question, payload.Current, payload.Option)
			send <- outboundMessage[toggleResult]{Type: "answer", Payload: toggleResult{
				Question: payload.Question,
				Value:    value,
				Accepted: accepted,
			}}

		case "back":
			view, err := h.service.Back(r.Context(), sessionKey)
			if err != nil {
				send <- errorMessage(err)
				continue
			}
			send <- outboundMessage[wizard.View]{Type: "section", Payload: view}

		case "submit":
			var payload submitPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- errorMessage(errors.New("invalid submit payload"))
				continue
			}
			// Give a session whose record creation failed at start one more
			// chance before Submit refuses it.
			if err := h.service.RetrySession(r.Context(), sessionKey); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
				send <- errorMessage(domain.ErrNoPersistedSession)
				continue
			}
			send <- outboundMessage[struct{}]{Type: "generating", Payload: struct{}{}}
			rep, err := h.service.Submit(r.Context(), sessionKey, payload.Contact, payload.Answers)
			if err != nil {
				send <- errorMessage(err)
				continue
			}
			send <- outboundMessage[domain.Report]{Type: "report", Payload: rep}

		default:
			send <- errorMessage(errors.New("unsupported message type"))
		}
	}

	close(send)
	<-writerDone
}

func findQuestion(questions []domain.Question, key string) (domain.Question, bool) {
	for _, q := range questions {
		if q.Key == key {
			return q, true
		}
	}
	return domain.Question{}, false
}

func errorMessage(err error) outboundMessage[errorPayload] {
	return outboundMessage[errorPayload]{
		Type: "error",
		Payload: errorPayload{
			Message:   err.Error(),
			Retryable: retryable(err),
		},
	}
}

// retryable flags the failures a client may resolve by re-sending the same
// message, per the submission retry contract.
func retryable(err error) bool {
	return !errors.Is(err, domain.ErrSectionIncomplete) &&
		!errors.Is(err, domain.ErrContactIncomplete) &&
		!errors.Is(err, domain.ErrInvalidEmail) &&
		!errors.Is(err, domain.ErrUnknownQuestion) &&
		!errors.Is(err, domain.ErrUnknownOption) &&
		!errors.Is(err, domain.ErrAlreadyCompleted)
}
