package dashboard

import (
	"context"
	"encoding/json"
	"image/png"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"volsurface/internal/config"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.Default()
	cfg.Chart.Width, cfg.Chart.Height = 400, 300
	srv := httptest.NewServer(NewServer(cfg, zerolog.Nop()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, v interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	if v != nil {
		if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
			t.Fatalf("decoding %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestSurfaceEndpoint(t *testing.T) {
	srv := newTestServer(t)

	var view View
	if code := getJSON(t, srv.URL+"/api/surface", &view); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if view.Controls.NStrikes != 20 || view.Controls.NTenors != 10 {
		t.Errorf("default controls = %+v", view.Controls)
	}
	if view.Table != nil {
		t.Error("table should be absent by default")
	}
	if view.Plot == nil || view.Plot.Layout.Title != "Implied Volatility Surface" {
		t.Errorf("unexpected plot: %+v", view.Plot)
	}

	view = View{}
	if code := getJSON(t, srv.URL+"/api/surface?strikes=100&tenors=6&table=1", &view); code != http.StatusOK {
		t.Fatalf("status = %d", code)
	}
	if view.Controls.NStrikes != 50 || view.Controls.NTenors != 6 {
		t.Errorf("controls not clamped: %+v", view.Controls)
	}
	if view.Table == nil || view.Table.Index[0] != "70.00" || view.Table.Columns[5] != "2.00Y" {
		t.Errorf("unexpected table: %+v", view.Table)
	}
}

func TestSurfaceEndpointBadRequest(t *testing.T) {
	srv := newTestServer(t)

	var body map[string]string
	if code := getJSON(t, srv.URL+"/api/surface?strikes=ten", &body); code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", code)
	}
	if !strings.Contains(body["error"], "invalid parameter") {
		t.Errorf("error body = %v", body)
	}
}

func TestSmileChartEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/smile.png?strikes=15&tenors=5")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Errorf("content type = %q", ct)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatalf("decoding png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Errorf("size = %dx%d", b.Dx(), b.Dy())
	}
}

func TestIndexAndHealth(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	page := string(body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(page, "Volatility Surface Visualization") {
		t.Errorf("index page status=%d", resp.StatusCode)
	}
	if !strings.Contains(page, `min="10" max="50" value="20"`) {
		t.Errorf("strike slider bounds missing from page")
	}

	var health map[string]string
	if code := getJSON(t, srv.URL+"/api/health", &health); code != http.StatusOK || health["status"] != "ok" {
		t.Errorf("health = %d %v", code, health)
	}

	resp, err = http.Post(srv.URL+"/api/surface", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", resp.StatusCode)
	}
}

func TestWebsocketRoundTrip(t *testing.T) {
	srv := newTestServer(t)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var reply wsReply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("reading initial view: %v", err)
	}
	if reply.Type != "view" || reply.View.Controls.NStrikes != 20 {
		t.Fatalf("unexpected initial reply: %+v", reply)
	}

	if err := conn.WriteJSON(Controls{NStrikes: 12, NTenors: 8, ShowTable: true}); err != nil {
		t.Fatal(err)
	}
	reply = wsReply{}
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("reading view: %v", err)
	}
	if reply.Type != "view" || reply.View.Table == nil || len(reply.View.Table.Index) != 12 {
		t.Errorf("unexpected reply: %+v", reply)
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := ln.Addr().String()
	ln.Close()

	cfg := config.Default()
	cfg.Server.Addr = addr
	s := NewServer(cfg, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		resp, err := http.Get("http://" + addr + "/api/health")
		if err == nil {
			resp.Body.Close()
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("server never came up: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Start returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
