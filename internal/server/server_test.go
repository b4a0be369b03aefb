package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"focusd/internal/clock"
	"focusd/internal/session"
)

func newTestServer(t *testing.T) (*Server, *clock.Fake) {
	t.Helper()
	clk := clock.NewFake(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC))
	ctrl := session.NewController(session.Deps{
		Repo:  session.NewRepository(session.NewMemoryKV()),
		Clock: clk,
	})
	return New(ctrl), clk
}

func decodeFrame(t *testing.T, w *httptest.ResponseRecorder) frame {
	t.Helper()
	var f frame
	if err := json.NewDecoder(w.Body).Decode(&f); err != nil {
		t.Fatalf("decode frame: %v", err)
	}
	return f
}

func TestGetSessionEmpty(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	req := httptest.NewRequest("GET", "/session", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if f := decodeFrame(t, w); f.Session != nil {
		t.Fatalf("expected nil session, got %+v", f.Session)
	}
}

func TestStartSession(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	body := `{"duration_ms":1500000,"activity_id":"deep-work","music_choice":"none"}`
	req := httptest.NewRequest("POST", "/session", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	f := decodeFrame(t, w)
	if f.Session == nil || f.Session.Remaining != 25*time.Minute {
		t.Fatalf("unexpected session: %+v", f.Session)
	}
}

func TestStartSessionBadBody(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	req := httptest.NewRequest("POST", "/session", strings.NewReader("invalid json"))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestStartSessionInvalidDuration(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	req := httptest.NewRequest("POST", "/session", strings.NewReader(`{"duration_ms":0}`))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestStartSessionConflict(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	body := `{"duration_ms":60000}`
	req := httptest.NewRequest("POST", "/session", strings.NewReader(body))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest("POST", "/session", strings.NewReader(body))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", w.Code)
	}
}

func TestPauseResumeRoundTrip(t *testing.T) {
	srv, clk := newTestServer(t)
	handler := srv.Handler()

	req := httptest.NewRequest("POST", "/session", strings.NewReader(`{"duration_ms":300000}`))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	clk.Advance(100 * time.Second)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/session/pause", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("pause status %d", w.Code)
	}
	f := decodeFrame(t, w)
	if !f.Session.Paused || f.Session.Remaining != 200*time.Second {
		t.Fatalf("unexpected paused session: %+v", f.Session)
	}

	clk.Advance(time.Hour)
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/session/resume", nil))
	f = decodeFrame(t, w)
	if f.Session.Paused || f.Session.Remaining != 200*time.Second {
		t.Fatalf("unexpected resumed session: %+v", f.Session)
	}
}

func TestPauseWithoutSession(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/session/pause", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", w.Code)
	}
}

func TestStopIsIdempotentOverHTTP(t *testing.T) {
	srv, _ := newTestServer(t)
	handler := srv.Handler()

	req := httptest.NewRequest("POST", "/session", strings.NewReader(`{"duration_ms":60000}`))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, httptest.NewRequest("DELETE", "/session", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("stop #%d status %d", i+1, w.Code)
		}
	}
}

func TestTickEndpoint(t *testing.T) {
	srv, clk := newTestServer(t)
	handler := srv.Handler()

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/tick", nil))
	var resp map[string]string
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["outcome"] != "no-data" {
		t.Fatalf("outcome = %q, want no-data", resp["outcome"])
	}

	req := httptest.NewRequest("POST", "/session", strings.NewReader(`{"duration_ms":60000}`))
	handler.ServeHTTP(httptest.NewRecorder(), req)
	clk.Advance(2 * time.Minute)

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest("POST", "/tick", nil))
	json.NewDecoder(w.Body).Decode(&resp)
	if resp["outcome"] != "new-data" {
		t.Fatalf("outcome = %q, want new-data", resp["outcome"])
	}
}

func TestWebSocketReceivesStateOnConnect(t *testing.T) {
	srv, _ := newTestServer(t)
	httpSrv := httptest.NewServer(srv.Handler())
	defer httpSrv.Close()

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read: %v", err)
	}
	if f.Type != "session" || f.Session != nil {
		t.Fatalf("unexpected initial frame: %+v", f)
	}
}

func TestWebSocketReceivesBroadcasts(t *testing.T) {
	srv, _ := newTestServer(t)
	httpSrv := httptest.NewServer(srv.Handler())
	defer httpSrv.Close()

	wsURL := "ws" + strings.TrimPrefix(httpSrv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Drain the initial state frame.
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var f frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read initial: %v", err)
	}

	// Starting a session over REST should reach the websocket client.
	resp, err := http.Post(httpSrv.URL+"/session", "application/json",
		strings.NewReader(`{"duration_ms":60000}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	if err := conn.ReadJSON(&f); err != nil {
		t.Fatalf("read broadcast: %v", err)
	}
	if f.Session == nil || f.Session.Duration != time.Minute {
		t.Fatalf("unexpected broadcast frame: %+v", f)
	}
}
