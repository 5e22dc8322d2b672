package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/go-table-reservation/config"
	"github.com/oksasatya/go-table-reservation/internal/application"
	"github.com/oksasatya/go-table-reservation/internal/container"
	"github.com/oksasatya/go-table-reservation/internal/infrastructure/memory"
	"github.com/oksasatya/go-table-reservation/pkg/helpers"
)

const (
	testPhone    = "555-0100"
	testPassword = "s3cret"
)

type recordingNotifier struct {
	mu      sync.Mutex
	notices []application.ReservationNotice
	err     error
}

func (n *recordingNotifier) NotifyReservation(_ context.Context, notice application.ReservationNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return n.err
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type testApp struct {
	engine   *gin.Engine
	c        *container.Container
	notifier *recordingNotifier
}

func newTestApp(t *testing.T, mutate func(c *container.Container)) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	n := &recordingNotifier{}
	c := &container.Container{
		Config: &config.Config{
			StorageDriver:       config.StorageDriverMemory,
			ReservationCapacity: 10,
		},
		Logger:       helpers.NewDiscardLogger(),
		Users:        memory.NewUserRepository(),
		Reservations: memory.NewReservationRepository(),
		Notifier:     n,
	}
	if mutate != nil {
		mutate(c)
	}
	return &testApp{engine: NewEngine(c), c: c, notifier: n}
}

func (a *testApp) do(t *testing.T, method, path string, body any, auth bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			if err := json.NewEncoder(&buf).Encode(b); err != nil {
				t.Fatalf("encode body: %v", err)
			}
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.SetBasicAuth(testPhone, testPassword)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

func (a *testApp) register(t *testing.T) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/user/add", map[string]string{
		"telephone": testPhone,
		"password":  testPassword,
		"email":     "ada@example.com",
		"name":      "Ada",
	}, false)
	if w.Code != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	return w.Header().Get("Location")
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &m); err != nil {
		t.Fatalf("invalid json %q: %v", w.Body.String(), err)
	}
	return m
}

func TestRegisterAndGetUser(t *testing.T) {
	app := newTestApp(t, nil)

	loc := app.register(t)
	if !strings.HasPrefix(loc, "/api/user/") {
		t.Fatalf("unexpected Location %q", loc)
	}

	w := app.do(t, http.MethodGet, loc, nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["telephone"] != testPhone {
		t.Errorf("unexpected body %v", body)
	}
	if _, leaked := body["password"]; leaked {
		t.Error("password must not be returned")
	}

	w = app.do(t, http.MethodGet, "/api/user/does-not-exist", nil, false)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if decode(t, w)["message"] != "user not found" {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestRegisterStatusBody(t *testing.T) {
	app := newTestApp(t, nil)
	w := app.do(t, http.MethodPost, "/api/user/add", map[string]string{
		"telephone": testPhone, "password": testPassword, "email": "ada@example.com", "name": "Ada",
	}, false)
	if got := decode(t, w)["status"]; got != "User added successfully!" {
		t.Errorf("unexpected status %v", got)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	app := newTestApp(t, nil)
	app.register(t)

	tests := []struct {
		name string
		body any
	}{
		{name: "missing telephone", body: map[string]string{"password": "x", "email": "a@example.com", "name": "A"}},
		{name: "blank name", body: map[string]string{"telephone": "555-0101", "password": "x", "email": "a@example.com", "name": "   "}},
		{name: "bad email", body: map[string]string{"telephone": "555-0101", "password": "x", "email": "nope", "name": "A"}},
		{name: "duplicate phone", body: map[string]string{"telephone": testPhone, "password": "x", "email": "b@example.com", "name": "B"}},
		{name: "password over 72 bytes", body: map[string]string{"telephone": "555-0101", "password": strings.Repeat("é", 40), "email": "a@example.com", "name": "A"}},
		{name: "email over 255 characters", body: map[string]string{"telephone": "555-0101", "password": "x", "email": strings.Repeat("a", 250) + "@example.com", "name": "A"}},
		{name: "malformed json", body: `{"telephone":`},
		{name: "empty body", body: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(t, http.MethodPost, "/api/user/add", tt.body, false)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
			}
			if msg, _ := decode(t, w)["message"].(string); msg == "" {
				t.Errorf("expected a message, got %s", w.Body.String())
			}
		})
	}
	if n := app.c.Users.(*memory.UserRepository).Len(); n != 1 {
		t.Errorf("expected the store to hold only the first user, got %d", n)
	}
}

func TestResourceRequiresBasicAuth(t *testing.T) {
	app := newTestApp(t, nil)
	app.register(t)

	w := app.do(t, http.MethodGet, "/api/resource", nil, false)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w.Header().Get("WWW-Authenticate") == "" {
		t.Error("expected Basic challenge header")
	}
	if decode(t, w)["error"] != "Unauthorized access" {
		t.Errorf("unexpected body %s", w.Body.String())
	}

	w = app.do(t, http.MethodGet, "/api/resource", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["data"]; got != "Hello, "+testPhone+"!" {
		t.Errorf("unexpected greeting %v", got)
	}
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	app := newTestApp(t, nil)
	w := app.do(t, http.MethodGet, "/api/nowhere", nil, false)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if decode(t, w)["error"] != "Not found" {
		t.Errorf("unexpected body %s", w.Body.String())
	}
}

func TestElevenSequentialBookings(t *testing.T) {
	app := newTestApp(t, nil)
	app.register(t)

	confirmed, rejected := 0, 0
	for i := 0; i < 11; i++ {
		w := app.do(t, http.MethodPost, "/api/reservation", map[string]string{"date": "2024-03-01"}, true)
		if w.Code != http.StatusOK {
			t.Fatalf("booking %d: expected 200, got %d: %s", i, w.Code, w.Body.String())
		}
		switch decode(t, w)["status"] {
		case application.OutcomeConfirmedWithNotification.Message():
			confirmed++
		case application.OutcomeCapacityExceeded.Message():
			rejected++
		default:
			t.Fatalf("unexpected status %s", w.Body.String())
		}
	}
	if confirmed != 10 || rejected != 1 {
		t.Fatalf("expected 10 confirmed and 1 rejected, got %d and %d", confirmed, rejected)
	}
	if len(app.notifier.notices) != 10 {
		t.Errorf("expected 10 notifications, got %d", len(app.notifier.notices))
	}

	w := app.do(t, http.MethodGet, "/api/reservation/availability?date=2024-03-01", nil, true)
	if w.Code != http.StatusOK {
		t.Fatalf("availability: expected 200, got %d", w.Code)
	}
	av := decode(t, w)
	if av["reserved"] != float64(10) || av["remaining"] != float64(0) || av["capacity"] != float64(10) || av["date"] != "2024-03-01" {
		t.Errorf("unexpected availability %v", av)
	}

	w = app.do(t, http.MethodGet, "/api/reservations", nil, true)
	var list struct {
		Reservations []struct {
			ID   string `json:"id"`
			Date string `json:"date"`
		} `json:"reservations"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(list.Reservations) != 10 || list.Reservations[0].Date != "2024-03-01" || list.Reservations[0].ID == "" {
		t.Errorf("unexpected list %+v", list)
	}
}

func TestConcurrentBookingsNeverOverbook(t *testing.T) {
	app := newTestApp(t, nil)
	app.register(t)

	const requests = 20
	statuses := make(chan string, requests)
	var wg sync.WaitGroup
	for i := 0; i < requests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := app.do(t, http.MethodPost, "/api/reservation", map[string]string{"date": "2024-03-02"}, true)
			var body map[string]string
			_ = json.Unmarshal(w.Body.Bytes(), &body)
			statuses <- body["status"]
		}()
	}
	wg.Wait()
	close(statuses)

	confirmed, rejected := 0, 0
	for s := range statuses {
		switch s {
		case application.OutcomeConfirmedWithNotification.Message():
			confirmed++
		case application.OutcomeCapacityExceeded.Message():
			rejected++
		}
	}
	if confirmed != 10 || rejected != 10 {
		t.Fatalf("expected 10/10, got %d confirmed and %d rejected", confirmed, rejected)
	}
	day := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	if n, _ := app.c.Reservations.CountForDate(context.Background(), day); n != 10 {
		t.Errorf("expected 10 rows, got %d", n)
	}
}

func TestBookingNotificationFailure(t *testing.T) {
	app := newTestApp(t, nil)
	app.notifier.err = errors.New("mailgun down")
	app.register(t)

	w := app.do(t, http.MethodPost, "/api/reservation", map[string]string{"date": "2024-03-03"}, true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if got := decode(t, w)["status"]; got != application.OutcomeConfirmedWithoutNotification.Message() {
		t.Errorf("unexpected status %v", got)
	}
	day := time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC)
	if n, _ := app.c.Reservations.CountForDate(context.Background(), day); n != 1 {
		t.Errorf("expected reservation kept, got %d rows", n)
	}
}

func TestBookingRejectsInvalidDates(t *testing.T) {
	app := newTestApp(t, nil)
	app.register(t)

	for _, body := range []any{
		map[string]string{"date": "03/01/2024"},
		map[string]string{"date": "2024-02-30"},
		map[string]string{},
		`{"date": 20240301}`,
	} {
		w := app.do(t, http.MethodPost, "/api/reservation", body, true)
		if w.Code != http.StatusBadRequest {
			t.Errorf("body %v: expected 400, got %d: %s", body, w.Code, w.Body.String())
		}
	}

	w := app.do(t, http.MethodGet, "/api/reservation/availability?date=tomorrow", nil, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("availability: expected 400, got %d", w.Code)
	}
	w = app.do(t, http.MethodGet, "/api/reservation/availability", nil, true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("availability without date: expected 400, got %d", w.Code)
	}
}

func TestReservationRoutesRequireAuth(t *testing.T) {
	app := newTestApp(t, nil)
	for _, tc := range []struct{ method, path string }{
		{http.MethodPost, "/api/reservation"},
		{http.MethodGet, "/api/reservation/availability?date=2024-03-01"},
		{http.MethodGet, "/api/reservations"},
	} {
		w := app.do(t, tc.method, tc.path, nil, false)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestHealthAndDebugVars(t *testing.T) {
	app := newTestApp(t, nil)
	w := app.do(t, http.MethodGet, "/api/health", nil, false)
	if w.Code != http.StatusOK || decode(t, w)["status"] != "ok" {
		t.Fatalf("unexpected health %d %s", w.Code, w.Body.String())
	}
	if w := app.do(t, http.MethodGet, "/api/debug/vars", nil, false); w.Code != http.StatusNotFound {
		t.Errorf("expected debug vars hidden by default, got %d", w.Code)
	}

	down := newTestApp(t, func(c *container.Container) {
		c.Pinger = fakePinger{err: errors.New("connection refused")}
		c.Config.DebugMetricsEnabled = true
	})
	w = down.do(t, http.MethodGet, "/api/health", nil, false)
	if w.Code != http.StatusServiceUnavailable || decode(t, w)["status"] != "unavailable" {
		t.Fatalf("unexpected health %d %s", w.Code, w.Body.String())
	}
	w = down.do(t, http.MethodGet, "/api/debug/vars", nil, false)
	if w.Code != http.StatusOK {
		t.Fatalf("expected debug vars, got %d", w.Code)
	}
	if _, ok := decode(t, w)["reservation_outcomes"]; !ok {
		t.Error("expected reservation_outcomes in expvar output")
	}
}

func TestRequestIDHeader(t *testing.T) {
	app := newTestApp(t, nil)
	w := app.do(t, http.MethodGet, "/api/health", nil, false)
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestCORSAllowedOrigin(t *testing.T) {
	app := newTestApp(t, func(c *container.Container) {
		c.Config.CORSAllowedOrigins = "http://frontend.test"
	})
	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://frontend.test")
	w := httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://frontend.test" {
		t.Errorf("expected allowed origin echoed, got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	app.engine.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("expected foreign origin rejected, got %q", got)
	}
}
