package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"contagio/internal/app"
	"contagio/internal/db"
	"contagio/internal/domain"
	"contagio/internal/flavor"
	"contagio/internal/migrate"
	"contagio/internal/repo"
	"contagio/internal/savefile"
)

const testSecret = "test-secret"

type testServer struct {
	URL    string
	client *http.Client
	close  func()
}

func (s *testServer) Close() { s.close() }

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	workspace := t.TempDir()
	conn, err := db.Open(db.Config{Workspace: workspace})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := migrate.Migrate(conn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	r := &repo.Repo{DB: conn}
	session, err := app.Bootstrap(context.Background(), app.Options{Repo: r})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	handler, err := New(Config{
		Session: session,
		Repo:    r,
		Flavor:  flavor.Fallback{},
		Auth:    AuthConfig{JWTSecret: testSecret},
	})
	if err != nil {
		t.Fatalf("build handler: %v", err)
	}
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go srv.Serve(ln)
	ts := &testServer{
		URL:    "http://" + ln.Addr().String(),
		client: &http.Client{},
		close: func() {
			srv.Shutdown(context.Background())
			ln.Close()
			conn.Close()
		},
	}
	t.Cleanup(ts.Close)
	return ts
}

func mintToken(t *testing.T, subject string) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, client *http.Client, method, url string, body any, headers map[string]string) (*http.Response, []byte) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := client.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()
	data, err := io.ReadAll(res.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return res, data
}

func decodeMissions(t *testing.T, data []byte) []domain.Mission {
	t.Helper()
	var missions []domain.Mission
	if err := json.Unmarshal(data, &missions); err != nil {
		t.Fatalf("decode missions: %v (%s)", err, data)
	}
	return missions
}

func TestVisibleHidesLockedAndOtherMode(t *testing.T) {
	ts := newTestServer(t)
	res, data := doJSON(t, ts.client, http.MethodGet, ts.URL+"/v0/missions/visible", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%s)", res.StatusCode, data)
	}
	for _, m := range decodeMissions(t, data) {
		if m.Status == domain.StatusLocked {
			t.Errorf("locked mission leaked: %s", m.ID)
		}
		if m.GameMode != domain.ModeHeroes {
			t.Errorf("other-mode mission leaked: %s", m.ID)
		}
	}
}

func TestSetStatusCascadesOverAPI(t *testing.T) {
	ts := newTestServer(t)
	res, data := doJSON(t, ts.client, http.MethodPut, ts.URL+"/v0/missions/kraven-hunt/status",
		SetStatusRequest{Status: domain.StatusCompleted}, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%s)", res.StatusCode, data)
	}
	res, data = doJSON(t, ts.client, http.MethodGet, ts.URL+"/v0/missions/meat-sleeps", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("get = %d (%s)", res.StatusCode, data)
	}
	var m domain.Mission
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Status != domain.StatusAvailable {
		t.Fatalf("meat-sleeps = %s, want AVAILABLE", m.Status)
	}
}

func TestNotFoundUsesErrorEnvelope(t *testing.T) {
	ts := newTestServer(t)
	res, data := doJSON(t, ts.client, http.MethodGet, ts.URL+"/v0/missions/nope", nil, nil)
	if res.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", res.StatusCode)
	}
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		t.Fatalf("decode envelope: %v (%s)", err, data)
	}
	if envelope.Error.Code != "not_found" {
		t.Fatalf("code = %q (%s)", envelope.Error.Code, data)
	}
}

func TestInvalidStatusIsBadRequest(t *testing.T) {
	ts := newTestServer(t)
	res, data := doJSON(t, ts.client, http.MethodPut, ts.URL+"/v0/missions/kraven-hunt/status",
		map[string]string{"status": "DONE"}, nil)
	if res.StatusCode != http.StatusBadRequest && res.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d (%s)", res.StatusCode, data)
	}
}

func TestGenerateMissionUsesFallbackBriefing(t *testing.T) {
	ts := newTestServer(t)
	res, data := doJSON(t, ts.client, http.MethodPost, ts.URL+"/v0/missions/generate",
		GenerateMissionRequest{Zone: 4}, nil)
	if res.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d (%s)", res.StatusCode, data)
	}
	var m domain.Mission
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.Title != "Operación Dr. Doom #1" {
		t.Fatalf("title = %q", m.Title)
	}
	if len(m.Objectives) != 3 {
		t.Fatalf("objectives = %d", len(m.Objectives))
	}
}

func TestModeSwitchChangesVisibleBoard(t *testing.T) {
	ts := newTestServer(t)
	res, data := doJSON(t, ts.client, http.MethodPut, ts.URL+"/v0/session/mode",
		SetModeRequest{GameMode: domain.ModeZombies}, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("status = %d (%s)", res.StatusCode, data)
	}
	_, data = doJSON(t, ts.client, http.MethodGet, ts.URL+"/v0/missions/visible", nil, nil)
	missions := decodeMissions(t, data)
	if len(missions) != 1 || missions[0].ID != "patient-zero" {
		t.Fatalf("zombies board = %v", missions)
	}
}

func TestSaveSlotsRequireAuth(t *testing.T) {
	ts := newTestServer(t)
	res, _ := doJSON(t, ts.client, http.MethodGet, ts.URL+"/v0/save/slots", nil, nil)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d", res.StatusCode)
	}
	headers := map[string]string{"Authorization": "Bearer " + mintToken(t, "alice")}
	res, data := doJSON(t, ts.client, http.MethodPut, ts.URL+"/v0/save/slots/run-1", nil, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("store = %d (%s)", res.StatusCode, data)
	}
	res, data = doJSON(t, ts.client, http.MethodGet, ts.URL+"/v0/save/slots", nil, headers)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("list = %d (%s)", res.StatusCode, data)
	}
	var slots []SlotResponse
	if err := json.Unmarshal(data, &slots); err != nil {
		t.Fatalf("decode: %v", err)
	}
	found := false
	for _, s := range slots {
		if s.Slot == "run-1" {
			found = true
		}
	}
	if !found {
		t.Fatalf("run-1 missing from %v", slots)
	}
}

func TestBadTokenRejected(t *testing.T) {
	ts := newTestServer(t)
	headers := map[string]string{"Authorization": "Bearer not-a-token"}
	res, _ := doJSON(t, ts.client, http.MethodGet, ts.URL+"/v0/missions", nil, headers)
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d", res.StatusCode)
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	res, data := doJSON(t, ts.client, http.MethodGet, ts.URL+"/v0/save/export", nil, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("export = %d (%s)", res.StatusCode, data)
	}
	var rec savefile.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.Version != savefile.Version || len(rec.Missions) != 7 {
		t.Fatalf("record = %+v", rec)
	}
	// Trim the record and import it back.
	rec.Missions = rec.Missions[:2]
	rec.Heroes = nil
	res, data = doJSON(t, ts.client, http.MethodPost, ts.URL+"/v0/save/import", rec, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("import = %d (%s)", res.StatusCode, data)
	}
	var session SessionResponse
	if err := json.Unmarshal(data, &session); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if session.MissionCount != 2 || session.HeroCount != 0 {
		t.Fatalf("session = %+v", session)
	}
}

func TestHeroAssignmentOverAPI(t *testing.T) {
	ts := newTestServer(t)
	target := "kraven-hunt"
	res, data := doJSON(t, ts.client, http.MethodPut, ts.URL+"/v0/heroes/spiderman/assignment",
		AssignHeroRequest{MissionID: &target}, nil)
	if res.StatusCode != http.StatusOK {
		t.Fatalf("assign = %d (%s)", res.StatusCode, data)
	}
	var h domain.Hero
	if err := json.Unmarshal(data, &h); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if h.AssignedMissionID == nil || *h.AssignedMissionID != target {
		t.Fatalf("assignment = %v", h.AssignedMissionID)
	}
}
