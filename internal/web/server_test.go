package web

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/pable/scrimstats/internal/dashboard"
	"github.com/pable/scrimstats/internal/model"
	"github.com/pable/scrimstats/internal/roster"
)

const scrimCSV = `경기 번호,날짜,맵,닉네임,요원,ACS,FK,FD,HS,ADR,DDΔ,MK,PL,DF,킬,데스,어시스트,승패,rounds
1,2025-04-01,바인드,강지형,제트,250,3,1,25,160,40,2,1,0,20,10,5,v,13
1,2025-04-01,바인드,뱅,오멘,180,1,2,20,120,-10,0,0,1,12,14,8,v,
1,2025-04-01,바인드,눈꽃,소바,210,2,2,22,140,5,1,0,0,15,12,6,l,9
1,2025-04-01,바인드,조별하,제트,190,1,3,18,130,-5,0,2,0,14,13,4,l,9
2,2025-04-02,헤이븐,강지형,레이나,200,2,1,30,150,20,1,0,0,16,12,3,l,11
2,2025-04-02,헤이븐,눈꽃,소바,230,1,1,28,155,15,1,1,0,18,11,7,v,13
2,2025-04-02,헤이븐,손님,세이지,150,0,2,10,100,-30,0,0,0,8,15,9,l,11
`

const internalCSV = `경기 번호,날짜,맵,닉네임,요원,ACS,FK,HS,ADR,DDΔ,킬,데스,어시스트,승패
1,2025-04-01,바인드,뱅,오멘,180,1,20,120,-10,12,14,8,v
`

func newTestServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return newTestServerWithOrigins(t, body, []string{"*"})
}

func newTestServerWithOrigins(t *testing.T, body string, origins []string) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	h := New(Config{
		Source:         dashboard.Source{DataPath: path},
		AllowedOrigins: origins,
		Logger:         zap.NewNop(),
	})
	srv := httptest.NewServer(h.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, srv *httptest.Server, path string) (int, string) {
	t.Helper()
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}}
	resp, err := client.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if resp.StatusCode == http.StatusFound {
		return resp.StatusCode, resp.Header.Get("Location")
	}
	return resp.StatusCode, string(body)
}

func TestIndexRedirectsToFirstView(t *testing.T) {
	srv := newTestServer(t, scrimCSV)
	status, loc := get(t, srv, "/")
	if status != http.StatusFound {
		t.Fatalf("expected 302, got %d", status)
	}
	if loc != "/views/teams" {
		t.Errorf("scrim data should open on the teams view, got %q", loc)
	}

	srv = newTestServer(t, internalCSV)
	if _, loc := get(t, srv, "/"); loc != "/views/players" {
		t.Errorf("internal data should open on the players view, got %q", loc)
	}
}

func TestPlayersView(t *testing.T) {
	srv := newTestServer(t, scrimCSV)
	status, body := get(t, srv, "/views/players")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}
	for _, want := range []string{"1. 스트리머별 종합 스탯", "[A-모운] 강지형", "멀티킬", `name="f"`} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "손님") {
		t.Error("mercenaries are excluded by the default filters")
	}
}

func TestSubmittedFilters(t *testing.T) {
	srv := newTestServer(t, scrimCSV)
	q := url.Values{
		"f":          {"1"},
		"tier":       {"A"},
		"role":       {roster.RoleDuelist},
		"map_filter": {"바인드", "헤이븐"},
		"team":       {"모운", "파인"},
	}
	status, body := get(t, srv, "/views/players?"+q.Encode())
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(body, "강지형") || !strings.Contains(body, "조별하") {
		t.Error("tier A duelists should be listed")
	}
	if strings.Contains(body, "뱅") {
		t.Error("tier B players should be filtered out")
	}
}

func TestEmptySelectionShowsMessage(t *testing.T) {
	srv := newTestServer(t, scrimCSV)
	status, body := get(t, srv, "/views/players?f=1")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(body, noDataMessage) {
		t.Error("an empty selection should show the no-data message")
	}
}

func TestHistoryView(t *testing.T) {
	srv := newTestServer(t, scrimCSV)
	status, body := get(t, srv, "/views/history?player="+url.QueryEscape("눈꽃"))
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(body, `class="win"`) || !strings.Contains(body, `class="loss"`) {
		t.Error("history rows should be coloured by outcome")
	}
	if !strings.Contains(body, `<option value="눈꽃" selected>`) {
		t.Error("requested player should be selected")
	}
}

func TestTeamsView(t *testing.T) {
	srv := newTestServer(t, scrimCSV)
	status, body := get(t, srv, "/views/teams")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	for _, want := range []string{"팀별 승률", "3승 1패", "경기 2: 모운 vs 파인 (11 : 13)"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}

	srv = newTestServer(t, internalCSV)
	if status, _ := get(t, srv, "/views/teams"); status != http.StatusNotFound {
		t.Errorf("internal data has no teams view, got %d", status)
	}
}

func TestUnknownView(t *testing.T) {
	srv := newTestServer(t, scrimCSV)
	if status, _ := get(t, srv, "/views/nope"); status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}
}

func TestMissingColumn(t *testing.T) {
	srv := newTestServer(t, "경기 번호,맵,닉네임,요원,킬,데스,어시스트\n1,바인드,뱅,오멘,1,1,1\n")
	status, body := get(t, srv, "/views/players")
	if status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", status)
	}
	if !strings.Contains(body, "컬럼이 누락되었습니다") {
		t.Errorf("error page should name the missing column:\n%s", body)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, scrimCSV)
	status, body := get(t, srv, "/healthz")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	var resp map[string]interface{}
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "ok" {
		t.Errorf("expected status ok, got %v", resp["status"])
	}
}

func TestMetrics(t *testing.T) {
	srv := newTestServer(t, scrimCSV)
	get(t, srv, "/healthz")
	status, body := get(t, srv, "/metrics")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(body, `scrimstats_http_requests_total{route="/healthz",status="200"}`) {
		t.Error("request counter missing from metrics output")
	}
}

// send issues a request without the transport's transparent gzip handling,
// so Content-Encoding and the raw body are visible.
func send(t *testing.T, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	client := &http.Client{Transport: &http.Transport{DisableCompression: true}}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, body
}

func TestCompression(t *testing.T) {
	srv := newTestServer(t, scrimCSV)
	tests := []struct {
		name           string
		path           string
		acceptEncoding string
		wantGzip       bool
	}{
		{"page with gzip", "/views/players", "gzip", true},
		{"page without gzip", "/views/players", "", false},
		{"small response", "/healthz", "gzip", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodGet, srv.URL+tt.path, nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			resp, body := send(t, req)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("expected 200, got %d", resp.StatusCode)
			}
			gzipped := resp.Header.Get("Content-Encoding") == "gzip"
			if gzipped != tt.wantGzip {
				t.Fatalf("Content-Encoding = %q, want gzip=%v", resp.Header.Get("Content-Encoding"), tt.wantGzip)
			}
			if !gzipped {
				return
			}
			zr, err := gzip.NewReader(strings.NewReader(string(body)))
			if err != nil {
				t.Fatalf("gzip reader: %v", err)
			}
			plain, err := io.ReadAll(zr)
			if err != nil {
				t.Fatalf("decompress: %v", err)
			}
			if !strings.Contains(string(plain), "[A-모운] 강지형") {
				t.Error("decompressed page is missing the player table")
			}
		})
	}
}

func TestCORS(t *testing.T) {
	srv := newTestServerWithOrigins(t, scrimCSV, []string{"https://stats.example"})
	tests := []struct {
		name       string
		method     string
		origin     string
		preflight  string // Access-Control-Request-Method
		wantOrigin string
	}{
		{"allowed origin", http.MethodGet, "https://stats.example", "", "https://stats.example"},
		{"other origin", http.MethodGet, "https://evil.example", "", ""},
		{"preflight", http.MethodOptions, "https://stats.example", http.MethodGet, "https://stats.example"},
		{"preflight for a write", http.MethodOptions, "https://stats.example", http.MethodPost, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := http.NewRequest(tt.method, srv.URL+"/healthz", nil)
			req.Header.Set("Origin", tt.origin)
			if tt.preflight != "" {
				req.Header.Set("Access-Control-Request-Method", tt.preflight)
			}
			resp, _ := send(t, req)
			if got := resp.Header.Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, tt.wantOrigin)
			}
		})
	}
}

func TestOutcomeClass(t *testing.T) {
	tests := []struct {
		outcome model.Outcome
		want    string
	}{
		{model.OutcomeWin, "win"},
		{model.OutcomeLoss, "loss"},
		{model.OutcomeUnknown, "loss"},
	}
	for _, tt := range tests {
		if got := outcomeClass(tt.outcome); got != tt.want {
			t.Errorf("outcomeClass(%q) = %q, want %q", tt.outcome, got, tt.want)
		}
	}
}
