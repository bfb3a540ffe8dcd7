package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/minhqv/nhombot/internal/command"
	"github.com/minhqv/nhombot/internal/infohub"
	"github.com/minhqv/nhombot/internal/ledger"
)

func testAPI() *API {
	return &API{
		processor: command.NewProcessor(ledger.NewRegistry(), infohub.NewRegistry()),
	}
}

func TestHandleHealth(t *testing.T) {
	api := testAPI()

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	api.handleHealth(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status OK, got %v", resp.StatusCode)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestHandleProcess(t *testing.T) {
	api := testAPI()

	payload := `{"user_input": "/tiền an nợ bình 100k", "group_id": "g1"}`
	req := httptest.NewRequest("POST", "/api/process", strings.NewReader(payload))
	w := httptest.NewRecorder()

	api.handleProcess(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected status OK, got %v", resp.StatusCode)
	}

	var body command.Response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Action != command.ActionPayment {
		t.Errorf("action = %v, want payment (message %q)", body.Action, body.Message)
	}
}

func TestHandleProcessMissingFields(t *testing.T) {
	api := testAPI()

	tests := []struct {
		name    string
		payload string
	}{
		{"missing group_id", `{"user_input": "/thống-kê"}`},
		{"missing user_input", `{"group_id": "g1"}`},
		{"not json", `tiền đâu`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/process", strings.NewReader(tt.payload))
			w := httptest.NewRecorder()

			api.handleProcess(w, req)

			if w.Result().StatusCode != http.StatusBadRequest {
				t.Errorf("status = %v, want 400", w.Result().StatusCode)
			}
		})
	}
}

func TestHandleProcessFallback(t *testing.T) {
	api := testAPI()

	payload := `{"user_input": "chào cả nhà", "group_id": "g1"}`
	req := httptest.NewRequest("POST", "/api/process", strings.NewReader(payload))
	w := httptest.NewRecorder()

	api.handleProcess(w, req)

	var body command.Response
	if err := json.NewDecoder(w.Result().Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Action != command.ActionFallback {
		t.Errorf("action = %v, want fallback", body.Action)
	}
}
