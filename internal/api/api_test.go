package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sprite-ai/commitlint-core/internal/engine"
	"github.com/sprite-ai/commitlint-core/internal/scope"
)

const testDiff = `diff --git a/web/app.ts b/web/app.ts
index abc1234..def5678 100644
--- a/web/app.ts
+++ b/web/app.ts
@@ -1,2 +1,3 @@
 export const a = 1;
 export const b = 2;
+export const c = 3;
`

func newTestServer() *Server {
	eng := engine.New(engine.Options{
		Registry: scope.MustNewRegistry([]scope.Entry{
			{Scope: "ui", Globs: []string{"web/**"}},
			{Scope: "api", Globs: []string{"internal/api/**"}},
		}),
	})
	return New(":0", eng, nil)
}

func post(t *testing.T, srv *Server, path string, v any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}

	var resp healthResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
	if len(resp.Scopes) != 2 || resp.Scopes[0] != "ui" {
		t.Errorf("unexpected scopes %v", resp.Scopes)
	}
	if w.Header().Get(RequestIDHeader) == "" {
		t.Error("expected a request id header")
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv := newTestServer()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	if got := w.Header().Get(RequestIDHeader); got != "req-123" {
		t.Errorf("expected echoed request id, got %q", got)
	}
}

func TestRequestsAreLogged(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	srv := New(":0", engine.New(engine.Options{}), zap.New(core))

	w := post(t, srv, "/api/validate", map[string]string{"message": "fix stuff"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 request log, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/api/validate" || fields["status"] != int64(http.StatusOK) {
		t.Errorf("unexpected log fields %v", fields)
	}
}

func TestValidateEndpoint(t *testing.T) {
	srv := newTestServer()
	w := post(t, srv, "/api/validate", map[string]string{"message": "refactor(api)!: change endpoint structure"})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		RequestID string `json:"request_id"`
		Status    string `json:"status"`
		Findings  []struct {
			Code     string `json:"code"`
			Severity string `json:"severity"`
			Location string `json:"location"`
		} `json:"findings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp.Status != "fail" {
		t.Errorf("expected fail, got %q", resp.Status)
	}
	if len(resp.Findings) != 1 || resp.Findings[0].Code != "BREAKING_UNDOCUMENTED" {
		t.Fatalf("unexpected findings %+v", resp.Findings)
	}
	if resp.Findings[0].Severity != "critical" || resp.Findings[0].Location != "footer" {
		t.Errorf("unexpected finding %+v", resp.Findings[0])
	}
	if resp.RequestID == "" || resp.RequestID != w.Header().Get(RequestIDHeader) {
		t.Errorf("request id mismatch: body %q header %q", resp.RequestID, w.Header().Get(RequestIDHeader))
	}
}

func TestValidateWithDiff(t *testing.T) {
	srv := newTestServer()
	w := post(t, srv, "/api/validate", map[string]string{"message": "feat(ux): tweak", "diff": testDiff})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp validateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp.Scope.SuggestedScope == nil || *resp.Scope.SuggestedScope != "ui" {
		t.Errorf("expected suggested scope ui, got %v", resp.Scope.SuggestedScope)
	}
	if resp.Status.String() != "warn" {
		t.Errorf("expected warn, got %s", resp.Status)
	}
}

func TestValidateRendered(t *testing.T) {
	srv := newTestServer()
	w := post(t, srv, "/api/validate", map[string]string{"message": "fix stuff", "format": "markdown"})

	var resp validateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if !strings.Contains(resp.Rendered, "## Commit Message Report") {
		t.Errorf("expected markdown rendering, got %q", resp.Rendered)
	}

	bad := post(t, srv, "/api/validate", map[string]string{"message": "fix stuff", "format": "html"})
	if bad.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown format, got %d", bad.Code)
	}
}

func TestValidateBadRequests(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		name string
		body string
		code int
	}{
		{"invalid json", "{bad json", http.StatusBadRequest},
		{"empty body", "", http.StatusBadRequest},
		{"unknown field", `{"message": "fix: x", "repo": "."}`, http.StatusBadRequest},
		{"meta and diff", `{"message": "fix: x", "meta": {"filesChanged": []}, "diff": "x"}`, http.StatusBadRequest},
		{"empty header", `{"message": "\n\nbody"}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/validate", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, req)
			if w.Code != tt.code {
				t.Errorf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}
}

func TestEmptyHeaderErrorCode(t *testing.T) {
	srv := newTestServer()
	w := post(t, srv, "/api/validate", map[string]string{"message": ""})

	var resp errorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp.Code != "EMPTY_HEADER" {
		t.Errorf("expected EMPTY_HEADER, got %q", resp.Code)
	}
}

func TestParseEndpoint(t *testing.T) {
	srv := newTestServer()
	w := post(t, srv, "/api/parse", map[string]string{
		"message": "feat(ui)!: drop legacy theme\n\nThe old palette is gone.\n\nBREAKING CHANGE: custom themes must be migrated",
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp engine.View
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp.Header != "feat(ui)!: drop legacy theme" {
		t.Errorf("unexpected header %q", resp.Header)
	}
	if resp.ParsedHeader.Type == nil || *resp.ParsedHeader.Type != "feat" {
		t.Errorf("unexpected type %v", resp.ParsedHeader.Type)
	}
	if !resp.ParsedHeader.BreakingMarker {
		t.Error("expected breaking marker")
	}
	if len(resp.Footers) != 1 || resp.Footers[0].Key != "BREAKING CHANGE" {
		t.Errorf("unexpected footers %+v", resp.Footers)
	}
	if resp.Classification.Confidence != 1.0 {
		t.Errorf("expected explicit classification, got %+v", resp.Classification)
	}
}

func TestBatchEndpoint(t *testing.T) {
	srv := newTestServer()
	w := post(t, srv, "/api/batch", map[string]any{
		"items": []map[string]string{
			{"id": "a", "message": "feat(ui): add a dark mode toggle"},
			{"message": "fix stuff"},
			{"id": "c", "message": ""},
		},
	})

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Total   int            `json:"total"`
		Counts  map[string]int `json:"counts"`
		Entries []struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"entries"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode: %v", err)
	}
	if resp.Total != 3 {
		t.Fatalf("expected 3 entries, got %d", resp.Total)
	}
	want := []struct{ id, status string }{{"a", "pass"}, {"2", "fail"}, {"c", "error"}}
	for i, wnt := range want {
		if resp.Entries[i].ID != wnt.id || resp.Entries[i].Status != wnt.status {
			t.Errorf("entry %d: got %+v, want %+v", i, resp.Entries[i], wnt)
		}
	}
}

func TestBatchRequiresItems(t *testing.T) {
	w := post(t, newTestServer(), "/api/batch", map[string]any{"items": []any{}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/validate", nil)
	w := httptest.NewRecorder()
	newTestServer().Handler().ServeHTTP(w, req)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405, got %d", w.Code)
	}
}

func TestWebSocketValidate(t *testing.T) {
	srv := newTestServer()
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	defer conn.Close()

	send := func(msgType string, payload any) {
		t.Helper()
		data, _ := json.Marshal(payload)
		if err := conn.WriteJSON(wsMessage{Type: msgType, Data: data}); err != nil {
			t.Fatalf("ws write: %v", err)
		}
	}
	read := func() wsMessage {
		t.Helper()
		var msg wsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ws read: %v", err)
		}
		return msg
	}

	send(wsMsgValidate, wsValidate{ID: "m1", Message: "fix stuff"})
	msg := read()
	if msg.Type != wsMsgReport {
		t.Fatalf("expected report, got %q", msg.Type)
	}
	var rep wsReport
	if err := json.Unmarshal(msg.Data, &rep); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if rep.ID != "m1" || rep.Status.String() != "fail" || len(rep.Findings) != 2 {
		t.Errorf("unexpected report %+v", rep)
	}

	send(wsMsgValidate, wsValidate{ID: "m2", Message: ""})
	msg = read()
	if msg.Type != wsMsgError {
		t.Fatalf("expected error, got %q", msg.Type)
	}
	var e wsError
	if err := json.Unmarshal(msg.Data, &e); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if e.ID != "m2" || e.Code != "EMPTY_HEADER" {
		t.Errorf("unexpected error %+v", e)
	}

	send("approve", map[string]int{"file_index": 0})
	if msg = read(); msg.Type != wsMsgError {
		t.Errorf("expected error for unknown type, got %q", msg.Type)
	}

	// The session survives errors.
	send(wsMsgValidate, wsValidate{Message: "docs: describe the websocket protocol"})
	msg = read()
	if msg.Type != wsMsgReport {
		t.Fatalf("expected report, got %q", msg.Type)
	}
}
