package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"study-session-service/internal/app"
	"study-session-service/internal/domain"
)

// WSHandler drives one quiz session per websocket connection: the gate is
// evaluated at entry, then the session engine owns all interaction until a
// terminal outcome or the client disconnects.
type WSHandler struct {
	service  *app.SessionService
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.SessionService) *WSHandler {
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

type answerPayload struct {
	QuestionID string `json:"questionId"`
	ChoiceID   string `json:"choiceId"`
}

type navigatePayload struct {
	Index int `json:"index"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// choiceView hides the correct flag from clients; scoring stays server-side.
type choiceView struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type questionView struct {
	ID       string              `json:"id"`
	Text     string              `json:"text"`
	Type     domain.QuestionType `json:"type"`
	Required bool                `json:"required"`
	Choices  []choiceView        `json:"choices"`
}

type loadedPayload struct {
	SessionID        string         `json:"sessionId"`
	Phase            domain.Phase   `json:"phase"`
	Title            string         `json:"title"`
	Description      string         `json:"description"`
	TimeLimitMinutes int            `json:"timeLimitMinutes"`
	Questions        []questionView `json:"questions"`
}

type resultPayload struct {
	Attempt  domain.QuizAttempt          `json:"attempt"`
	Progress *domain.ParticipantProgress `json:"progress,omitempty"`
}

// ServeSession upgrades the connection and runs the gate-then-engine flow.
func (h *WSHandler) ServeSession(w http.ResponseWriter, r *http.Request) {
	phase, err := domain.ParsePhase(r.URL.Query().Get("phase"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	eligibility, err := h.service.CheckEligibility(r.Context(), userID, phase)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	if !eligibility.Allowed {
		_ = conn.WriteJSON(outboundMessage[domain.Eligibility]{Type: "eligibility", Payload: eligibility})
		return
	}

	// Buffered so the exactly-once completion callback can never block the
	// engine while it holds the session lock.
	completed := make(chan domain.QuizAttempt, 1)
	session, err := h.service.StartSession(r.Context(), userID, phase, func(attempt domain.QuizAttempt) {
		completed <- attempt
	})
	if err != nil {
		// Unrecoverable load failure: tell the client to leave the session.
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "leave", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer session.Close()

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})
	var submits sync.WaitGroup

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	// Queue the question set before subscribing so clients always see
	// "loaded" ahead of the first state snapshot.
	send <- outboundMessage[any]{Type: "loaded", Payload: loadedView(session)}

	updates, cancel := session.Subscribe()
	defer cancel()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case update, ok := <-updates:
				if !ok {
					return
				}
				select {
				case send <- outboundMessage[any]{Type: "state", Payload: update}:
				case <-closeSignals:
					return
				}
			case attempt := <-completed:
				payload := resultPayload{Attempt: attempt, Progress: session.UpdatedProgress()}
				select {
				case send <- outboundMessage[any]{Type: "result", Payload: payload}:
				case <-closeSignals:
					return
				}
			case <-closeSignals:
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
		case "answer":
			var payload answerPayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid answer payload"}}
				continue
			}
			session.SelectAnswer(payload.QuestionID, payload.ChoiceID)
		case "navigate":
			var payload navigatePayload
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "invalid navigate payload"}}
				continue
			}
			session.Navigate(payload.Index)
		case "submit":
			// Run off the read loop so the engine stays responsive while the
			// submission transport call is outstanding.
			submits.Add(1)
			go func() {
				defer submits.Done()
				err := session.Submit(r.Context())
				if err == nil {
					return
				}
				msg := outboundMessage[any]{Type: "submitFailed", Payload: errorPayload{Message: "submission failed, you may retry"}}
				var validation *domain.ValidationError
				if errors.As(err, &validation) || errors.Is(err, domain.ErrSubmitInFlight) || errors.Is(err, domain.ErrSessionNotActive) {
					msg = outboundMessage[any]{Type: "error", Payload: errorPayload{Message: err.Error()}}
				}
				select {
				case send <- msg:
				case <-closeSignals:
				}
			}()
		default:
			send <- outboundMessage[any]{Type: "error", Payload: errorPayload{Message: "unsupported message type"}}
		}
	}

	close(closeSignals)
	<-updatesDone
	submits.Wait()
	close(send)
	<-writerDone
}

func loadedView(session *app.Session) loadedPayload {
	content := session.Content()
	questions := make([]questionView, 0, len(content.Questions))
	for _, q := range content.Questions {
		choices := make([]choiceView, 0, len(q.Choices))
		for _, c := range q.Choices {
			choices = append(choices, choiceView{ID: c.ID, Text: c.Text})
		}
		questions = append(questions, questionView{
			ID:       q.ID,
			Text:     q.Text,
			Type:     q.Type,
			Required: q.Required,
			Choices:  choices,
		})
	}
	return loadedPayload{
		SessionID:        session.ID(),
		Phase:            session.Phase(),
		Title:            content.Title,
		Description:      content.Description,
		TimeLimitMinutes: content.TimeLimitMinutes,
		Questions:        questions,
	}
}
