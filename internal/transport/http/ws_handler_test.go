package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"assessment-service/internal/domain"
	"assessment-service/internal/infra/memory"
	"assessment-service/internal/report"
	"assessment-service/internal/wizard"
	"github.com/gorilla/websocket"
)

const wsDashboardJSON = `{
	"overallScore": 64,
	"industryAverage": 52,
	"summary": "A solid start.",
	"dimensions": [
		{"name": "Strategy", "score": 61, "explanation": "Direction is forming."},
		{"name": "Data", "score": 67, "explanation": "Good foundations."}
	]
}`

func newWSServer(t *testing.T) (*httptest.Server, *memory.SessionStore, *memory.ResponseRepository) {
	t.Helper()

	gen := report.NewMockGenerator().
		Respond(report.KindDashboard, wsDashboardJSON).
		Respond(report.KindFeedback, "Your written assessment.")

	store := memory.NewSessionStore()
	definitions := memory.NewDefinitionRepository(
		memory.NewStaticDefinitionLoader(map[string]domain.Wizard{"ai-readiness": wsWizard()}),
		time.Minute,
	)
	responses := memory.NewResponseRepository()
	service := wizard.NewService(store, definitions, responses, gen)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", NewWSHandler(service).ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, store, responses
}

func TestWebSocketWizardFlow(t *testing.T) {
	server, store, responses := newWSServer(t)

	u := "ws" + server.URL[len("http"):] + "/ws?wizardId=ai-readiness&visitorId=v1&utm_source=newsletter"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{"type": "start"}); err != nil {
		t.Fatalf("write start: %v", err)
	}
	_, payload := readNext(conn, t, "section")
	if payload["sectionKey"] != "company" {
		t.Fatalf("expected first section, got %v", payload["sectionKey"])
	}
	if payload["canGoBack"] == true {
		t.Fatal("first section must not allow back")
	}

	// Incomplete answers keep the section and report a non-retryable error.
	if err := conn.WriteJSON(map[string]any{
		"type":    "next",
		"payload": map[string]any{"answers": map[string]any{}},
	}); err != nil {
		t.Fatalf("write next: %v", err)
	}
	_, errPayload := readNext(conn, t, "error")
	if errPayload["retryable"] == true {
		t.Fatal("validation failures are not retryable")
	}

	if err := conn.WriteJSON(map[string]any{
		"type": "next",
		"payload": map[string]any{"answers": map[string]any{
			"company_size": map[string]any{"kind": "single", "option": "11-50"},
		}},
	}); err != nil {
		t.Fatalf("write next: %v", err)
	}
	_, payload = readNext(conn, t, "section")
	if payload["sectionKey"] != "goals" {
		t.Fatalf("expected goals section, got %v", payload["sectionKey"])
	}

	// Back returns to the first section without complaint.
	if err := conn.WriteJSON(map[string]any{"type": "back"}); err != nil {
		t.Fatalf("write back: %v", err)
	}
	_, payload = readNext(conn, t, "section")
	if payload["sectionKey"] != "company" {
		t.Fatalf("expected company after back, got %v", payload["sectionKey"])
	}

	if err := conn.WriteJSON(map[string]any{
		"type": "next",
		"payload": map[string]any{"answers": map[string]any{
			"company_size": map[string]any{"kind": "single", "option": "11-50"},
		}},
	}); err != nil {
		t.Fatalf("write next: %v", err)
	}
	readNext(conn, t, "section")

	if err := conn.WriteJSON(map[string]any{
		"type": "submit",
		"payload": map[string]any{
			"contact": map[string]any{
				"firstName": "Jo",
				"lastName":  "Doe",
				"email":     "jo@acme.test",
				"company":   "Acme",
			},
			"answers": map[string]any{
				"primary_goal": map[string]any{"kind": "single", "option": "Grow revenue"},
			},
		},
	}); err != nil {
		t.Fatalf("write submit: %v", err)
	}

	readNext(conn, t, "generating")
	_, reportPayload := readNext(conn, t, "report")
	if reportPayload["narrative"] != "Your written assessment." {
		t.Fatalf("unexpected narrative: %v", reportPayload["narrative"])
	}
	if reportPayload["dashboard"] == nil {
		t.Fatal("expected dashboard in report payload")
	}

	sess, ok := store.Get("ai-readiness:v1")
	if !ok {
		t.Fatal("expected live session")
	}
	stored, ok := responses.Response(sess.RecordID())
	if !ok {
		t.Fatal("expected persisted response")
	}
	if stored.Status != domain.StatusCompleted {
		t.Fatalf("status: %q", stored.Status)
	}
	record, ok := responses.Session(sess.RecordID())
	if !ok {
		t.Fatal("expected session record")
	}
	if record.Attribution["utm_source"] != "newsletter" {
		t.Fatalf("attribution lost: %v", record.Attribution)
	}
}

func TestWebSocketToggleEnforcesSelectionBound(t *testing.T) {
	server, _, _ := newWSServer(t)

	u := "ws" + server.URL[len("http"):] + "/ws?wizardId=ai-readiness&visitorId=v2"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{"type": "start"}); err != nil {
		t.Fatalf("write start: %v", err)
	}
	readNext(conn, t, "section")
	if err := conn.WriteJSON(map[string]any{
		"type": "next",
		"payload": map[string]any{"answers": map[string]any{
			"company_size": map[string]any{"kind": "single", "option": "11-50"},
		}},
	}); err != nil {
		t.Fatalf("write next: %v", err)
	}
	readNext(conn, t, "section")

	toggle := func(current map[string]any, option string) map[string]any {
		t.Helper()
		if err := conn.WriteJSON(map[string]any{
			"type": "toggle",
			"payload": map[string]any{
				"question": "focus_areas",
				"current":  current,
				"option":   option,
			},
		}); err != nil {
			t.Fatalf("write toggle: %v", err)
		}
		_, payload := readNext(conn, t, "answer")
		return payload
	}

	current := map[string]any{"kind": "multi"}
	payload := toggle(current, "Sales")
	if payload["accepted"] != true {
		t.Fatalf("first selection rejected: %v", payload)
	}
	current = payload["value"].(map[string]any)
	payload = toggle(current, "Operations")
	if payload["accepted"] != true {
		t.Fatalf("second selection rejected: %v", payload)
	}
	current = payload["value"].(map[string]any)

	// Third selection exceeds MaxSelections and leaves the value unchanged.
	payload = toggle(current, "Support")
	if payload["accepted"] == true {
		t.Fatalf("selection past the bound must be ignored: %v", payload)
	}
	value := payload["value"].(map[string]any)
	options, _ := value["options"].([]any)
	if len(options) != 2 {
		t.Fatalf("expected 2 selections, got %v", options)
	}

	// Deselecting is always allowed.
	payload = toggle(value, "Sales")
	if payload["accepted"] != true {
		t.Fatalf("deselect rejected: %v", payload)
	}
}

func TestWebSocketRequiresIdentity(t *testing.T) {
	server, _, _ := newWSServer(t)

	resp, err := http.Get(server.URL + "/ws?wizardId=ai-readiness")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 without visitorId, got %d", resp.StatusCode)
	}
}

func TestWebSocketUnknownWizard(t *testing.T) {
	server, _, _ := newWSServer(t)

	u := "ws" + server.URL[len("http"):] + "/ws?wizardId=nope&visitorId=v1"
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(map[string]any{"type": "start"}); err != nil {
		t.Fatalf("write start: %v", err)
	}
	readNext(conn, t, "error")
}

func readNext(conn *websocket.Conn, t *testing.T, expect string) (string, map[string]any) {
	t.Helper()
	var msg struct {
		Type    string         `json:"type"`
		Payload map[string]any `json:"payload"`
	}
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read json: %v", err)
	}
	if expect != "" && msg.Type != expect {
		t.Fatalf("expected type %s, got %s (payload %v)", expect, msg.Type, msg.Payload)
	}
	return msg.Type, msg.Payload
}

func wsWizard() domain.Wizard {
	return domain.Wizard{
		ID:    "ai-readiness",
		Title: "AI Readiness Assessment",
		Sections: []domain.Section{
			{
				Key:     "company",
				Ordinal: 0,
				Title:   "About your company",
				Questions: []domain.Question{
					{
						Key:     "company_size",
						Prompt:  "How large is your team?",
						Type:    domain.QuestionSingleChoice,
						Options: []string{"1-10", "11-50", "51-200"},
					},
				},
			},
			{
				Key:     "goals",
				Ordinal: 1,
				Title:   "Your goals",
				Questions: []domain.Question{
					{
						Key:     "primary_goal",
						Prompt:  "What matters most?",
						Type:    domain.QuestionSingleChoice,
						Options: []string{"Grow revenue", "Cut costs"},
					},
					{
						Key:           "focus_areas",
						Prompt:        "Where do you want to focus?",
						Type:          domain.QuestionMultiChoice,
						Options:       []string{"Sales", "Operations", "Support"},
						MaxSelections: 2,
						Optional:      true,
					},
				},
			},
		},
		Dimensions:      []string{"Strategy", "Data"},
		DashboardPrompt: "Score [COMPANY_NAME].",
		FeedbackPrompt:  "Advise [FIRST_NAME].",
	}
}
