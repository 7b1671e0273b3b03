package device

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != DefaultAddress {
		t.Fatalf("host = %q, want %q", u.Host, DefaultAddress)
	}

	u, err = parseBaseURL("http://light.local:8080/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
	if u.Host != "light.local:8080" {
		t.Fatalf("host = %q, want light.local:8080", u.Host)
	}
}

func TestParseBaseURL_RejectsMissingHost(t *testing.T) {
	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL returned nil error, want error")
	}
}

func TestClient_FetchConfigKeepsOrder(t *testing.T) {
	t.Parallel()

	var gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserAgent = r.Header.Get("User-Agent")
		if r.URL.Path != "/config" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"firmware":"1.11","deviceName":"Hall","ledType":3,"ledStatus":false,"redPin":12}`))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	resp, err := c.FetchConfig(context.Background())
	if err != nil {
		t.Fatalf("FetchConfig returned error: %v", err)
	}
	var keys []string
	for _, f := range resp.Fields() {
		keys = append(keys, f.Key)
	}
	if strings.Join(keys, ",") != "firmware,deviceName,ledType,ledStatus,redPin" {
		t.Fatalf("keys = %v, want document order", keys)
	}
	if v, _ := resp.Get("ledStatus"); v != "false" {
		t.Fatalf("ledStatus = %q, want false", v)
	}
	if resp.Firmware() != "1.11" {
		t.Fatalf("Firmware = %q, want 1.11", resp.Firmware())
	}
	if !strings.HasPrefix(gotUserAgent, "lightpanel/") {
		t.Fatalf("User-Agent = %q, want lightpanel/*", gotUserAgent)
	}
}

func TestClient_SaveSettingsEncodesQueryInOrder(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var gotPath, gotRawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotPath = r.URL.Path
		gotRawQuery = r.URL.RawQuery
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	s := Settings{
		DeviceName:   "A B",
		NetName:      "HOME",
		LEDType:      "3",
		ColdWhitePin: "0",
		WarmWhitePin: "0",
		RedPin:       "12",
		GreenPin:     "13",
		BluePin:      "14",
	}
	if err := c.SaveSettings(context.Background(), s); err != nil {
		t.Fatalf("SaveSettings returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotPath != "/setting" {
		t.Fatalf("path = %q, want /setting", gotPath)
	}
	want := "deviceName=A%20B&espnowNetName=HOME&ledType=3&coldWhitePin=0&warmWhitePin=0&redPin=12&greenPin=13&bluePin=14"
	if gotRawQuery != want {
		t.Fatalf("query = %q, want %q", gotRawQuery, want)
	}
}

func TestClient_RestartIgnoresFormState(t *testing.T) {
	t.Parallel()

	var mu sync.Mutex
	var gotPath, gotRawQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		gotPath = r.URL.Path
		gotRawQuery = r.URL.RawQuery
		mu.Unlock()
		_, _ = w.Write([]byte("ignored"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if err := c.Restart(context.Background()); err != nil {
		t.Fatalf("Restart returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotPath != "/restart" || gotRawQuery != "" {
		t.Fatalf("restart hit %q?%q, want /restart with no query", gotPath, gotRawQuery)
	}
}

func TestClient_FetchPage(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("<body>{{deviceName}}</body>"))
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	page, err := c.FetchPage(context.Background())
	if err != nil {
		t.Fatalf("FetchPage returned error: %v", err)
	}
	if page != "<body>{{deviceName}}</body>" {
		t.Fatalf("FetchPage = %q", page)
	}
}

func TestClient_HTTPErrorAndDecodeError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/config":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte("{not-json"))
		case "/restart":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	_, err = c.FetchConfig(context.Background())
	if err == nil || !strings.Contains(err.Error(), "decode response") {
		t.Fatalf("FetchConfig error = %v, want decode response error", err)
	}

	err = c.Restart(context.Background())
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("Restart error = %v, want status 500 error", err)
	}

	_, err = c.FetchPage(context.Background())
	if err != nil {
		t.Fatalf("FetchPage error = %v, want nil for /", err)
	}
}

func TestClient_NilReceiver(t *testing.T) {
	var c *Client
	if _, err := c.FetchConfig(context.Background()); err == nil {
		t.Fatalf("FetchConfig on nil client returned nil error")
	}
	if err := c.Restart(context.Background()); err == nil {
		t.Fatalf("Restart on nil client returned nil error")
	}
}
