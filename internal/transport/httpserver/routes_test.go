package httpserver_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"mess-app-go/internal/config"
	accountdomain "mess-app-go/internal/domain/account"
	admindomain "mess-app-go/internal/domain/admin"
	attendancedomain "mess-app-go/internal/domain/attendance"
	menudomain "mess-app-go/internal/domain/menu"
	reviewdomain "mess-app-go/internal/domain/review"
	statsdomain "mess-app-go/internal/domain/stats"
	"mess-app-go/internal/identity/memory"
	"mess-app-go/internal/identity/supabase"
	"mess-app-go/internal/metrics"
	"mess-app-go/internal/repository/inmemory"
	"mess-app-go/internal/transport/httpserver"
	"mess-app-go/internal/transport/httpserver/handler"
	adminhandler "mess-app-go/internal/transport/httpserver/handler/admin"
	attendancehandler "mess-app-go/internal/transport/httpserver/handler/attendance"
	commonhandler "mess-app-go/internal/transport/httpserver/handler/common"
	menuhandler "mess-app-go/internal/transport/httpserver/handler/menu"
	reviewshandler "mess-app-go/internal/transport/httpserver/handler/reviews"
	authmw "mess-app-go/internal/transport/httpserver/middleware"
	"mess-app-go/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "secret123"

type store struct {
	mu         sync.Mutex
	profiles   map[string]accountdomain.Profile
	roles      map[string]string
	attendance map[string]attendancedomain.Record
	reviews    []reviewdomain.Review
	menu       []menudomain.Day
	deleted    map[string]bool
}

func newStore() *store {
	s := &store{
		profiles:   make(map[string]accountdomain.Profile),
		roles:      make(map[string]string),
		attendance: make(map[string]attendancedomain.Record),
		deleted:    make(map[string]bool),
	}
	for i, day := range menudomain.DaysOrder {
		s.menu = append(s.menu, menudomain.Day{
			ID:        "00000000-0000-0000-0000-00000000000" + string(rune('1'+i)),
			DayOfWeek: day,
			Breakfast: "Paratha",
			Lunch:     "Daal",
			Dinner:    "Karahi",
		})
	}
	return s
}

func recordKey(userID string, date time.Time) string {
	return userID + "|" + attendancedomain.FormatDate(date)
}

type accountRepo struct{ *store }

func (r accountRepo) Transaction(_ context.Context, fn func(accountdomain.Repository) error) error {
	return fn(r)
}

func (r accountRepo) GetProfile(_ context.Context, userID string) (*accountdomain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, accountdomain.ErrAccountNotFound
	}
	return &profile, nil
}

func (r accountRepo) GetProfileByEmail(_ context.Context, email string) (*accountdomain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, profile := range r.profiles {
		if profile.Email == email {
			p := profile
			return &p, nil
		}
	}
	return nil, accountdomain.ErrAccountNotFound
}

func (r accountRepo) UpsertProfile(_ context.Context, profile *accountdomain.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.profiles[profile.ID]; ok && profile.FullName == "" {
		profile.FullName = existing.FullName
	}
	r.profiles[profile.ID] = *profile
	return nil
}

func (r accountRepo) EnsureRole(_ context.Context, userID, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.roles[userID]; !ok {
		r.roles[userID] = role
	}
	return nil
}

func (r accountRepo) SetRole(_ context.Context, userID, role string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.roles[userID] = role
	return nil
}

func (r accountRepo) GetRole(_ context.Context, userID string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.roles[userID]
	if !ok {
		return "", accountdomain.ErrAccountNotFound
	}
	return role, nil
}

func (r accountRepo) IsDeleted(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.deleted[userID], nil
}

type attendanceRepo struct{ *store }

func (r attendanceRepo) GetRecord(_ context.Context, userID string, date time.Time) (*attendancedomain.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.attendance[recordKey(userID, date)]
	if !ok {
		return nil, attendancedomain.ErrRecordNotFound
	}
	return &record, nil
}

func (r attendanceRepo) Upsert(_ context.Context, record *attendancedomain.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attendance[recordKey(record.UserID, record.Date)] = *record
	return nil
}

func (r attendanceRepo) CountIn(_ context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, record := range r.attendance {
		if record.UserID == userID && record.IsIn {
			count++
		}
	}
	return count, nil
}

type menuRepo struct{ *store }

func (r menuRepo) ListDays(context.Context) ([]menudomain.Day, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]menudomain.Day(nil), r.menu...), nil
}

func (r menuRepo) UpdateDay(_ context.Context, input menudomain.UpdateInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.menu {
		if r.menu[i].ID == input.ID {
			r.menu[i].Breakfast = input.Breakfast
			r.menu[i].Lunch = input.Lunch
			r.menu[i].Dinner = input.Dinner
			return nil
		}
	}
	return menudomain.ErrMenuDayNotFound
}

type reviewRepo struct{ *store }

func (r reviewRepo) Create(_ context.Context, review *reviewdomain.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.UserID == review.UserID {
			return reviewdomain.ErrAlreadyReviewed
		}
	}
	r.reviews = append(r.reviews, *review)
	return nil
}

func (r reviewRepo) HasReviewed(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.reviews {
		if existing.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (r reviewRepo) ListWithNames(context.Context) ([]reviewdomain.WithName, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	items := make([]reviewdomain.WithName, 0, len(r.reviews))
	for _, review := range r.reviews {
		items = append(items, reviewdomain.WithName{Review: review, FullName: r.profiles[review.UserID].FullName})
	}
	return items, nil
}

type statsRepo struct{ *store }

func (r statsRepo) students(today time.Time) []statsdomain.StudentRow {
	rows := make([]statsdomain.StudentRow, 0)
	for id, role := range r.roles {
		if role != accountdomain.RoleStudent {
			continue
		}
		profile := r.profiles[id]
		row := statsdomain.StudentRow{UserID: id, Email: profile.Email, FullName: profile.FullName}
		for _, record := range r.attendance {
			if record.UserID != id || !record.IsIn {
				continue
			}
			row.TotalDays++
			if record.Date.Equal(today) {
				row.IsInToday = true
			}
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].FullName != rows[j].FullName {
			return rows[i].FullName < rows[j].FullName
		}
		return rows[i].Email < rows[j].Email
	})
	return rows
}

func (r statsRepo) CountStudents(context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.students(time.Time{}))), nil
}

func (r statsRepo) PeriodCounts(_ context.Context, from, to time.Time) (statsdomain.PeriodCounts, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var counts statsdomain.PeriodCounts
	seen := make(map[string]bool)
	for _, record := range r.attendance {
		if !record.IsIn || record.Date.Before(from) || record.Date.After(to) || r.roles[record.UserID] != accountdomain.RoleStudent {
			continue
		}
		counts.InRecords++
		if !seen[record.UserID] {
			seen[record.UserID] = true
			counts.DistinctIn++
		}
	}
	return counts, nil
}

func (r statsRepo) DailyInCounts(_ context.Context, from, to time.Time) ([]statsdomain.DayCount, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	byDay := make(map[time.Time]int64)
	for _, record := range r.attendance {
		if record.IsIn && !record.Date.Before(from) && !record.Date.After(to) && r.roles[record.UserID] == accountdomain.RoleStudent {
			byDay[record.Date]++
		}
	}
	counts := make([]statsdomain.DayCount, 0, len(byDay))
	for day, count := range byDay {
		counts = append(counts, statsdomain.DayCount{Date: day, InCount: count})
	}
	return counts, nil
}

func (r statsRepo) ListStudents(_ context.Context, today time.Time, search string) ([]statsdomain.StudentRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rows := make([]statsdomain.StudentRow, 0)
	for _, row := range r.students(today) {
		if search == "" || strings.Contains(strings.ToLower(row.Email+row.FullName), strings.ToLower(search)) {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (r statsRepo) GetStudentByEmail(_ context.Context, email string, today time.Time) (*statsdomain.StudentRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range r.students(today) {
		if row.Email == email {
			return &row, nil
		}
	}
	return nil, statsdomain.ErrStudentNotFound
}

type adminStore struct{ *store }

func (s adminStore) Transaction(_ context.Context, fn func(admindomain.Store) error) error {
	return fn(s)
}

func (s adminStore) ProfileExists(_ context.Context, userID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.profiles[userID]
	return ok, nil
}

func (s adminStore) DeleteAttendance(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for key, record := range s.attendance {
		if record.UserID == userID {
			delete(s.attendance, key)
			deleted++
		}
	}
	return deleted, nil
}

func (s adminStore) DeleteReviews(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.reviews[:0]
	var deleted int64
	for _, review := range s.reviews {
		if review.UserID == userID {
			deleted++
			continue
		}
		kept = append(kept, review)
	}
	s.reviews = kept
	return deleted, nil
}

func (s adminStore) DeleteRole(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.roles, userID)
	return nil
}

func (s adminStore) DeleteProfile(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, userID)
	return nil
}

func (s adminStore) MarkDeleted(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted[userID] = true
	return nil
}

type testEnv struct {
	server *httptest.Server
	store  *store
}

func setup(t *testing.T) *testEnv {
	t.Helper()
	return setupWithIdentity(t, memory.New("test-secret"))
}

func setupWithIdentity(t *testing.T, identity accountdomain.Identity) *testEnv {
	t.Helper()

	log := logger.Discard()
	data := newStore()

	cfg := config.Config{CORSOrigins: []string{"http://localhost:5173"}}
	rules := accountdomain.NewEmailRules("giki.edu.pk", "admin@giki.edu.pk")
	policy := attendancedomain.DefaultPolicy(time.UTC)

	accounts := accountdomain.NewService(accountRepo{data}, identity, rules)
	attendance := attendancedomain.NewService(attendanceRepo{data}, policy)
	menu := menudomain.NewService(menuRepo{data}, inmemory.NewInMemoryMenuCache(), time.Minute)
	reviews := reviewdomain.NewService(reviewRepo{data})
	stats := statsdomain.NewService(statsRepo{data}, policy, rules)
	gateway := admindomain.NewGateway(adminStore{data}, accounts, identity, attendance)

	m := metrics.New()
	validate := commonhandler.NewValidator(rules)
	health := func(context.Context) error { return nil }

	handlers := handler.New(
		commonhandler.New(accounts, health, validate, log),
		attendancehandler.New(attendance, m, validate, log),
		menuhandler.New(menu, attendance, time.UTC, validate, log),
		reviewshandler.New(reviews, m, validate, log),
		adminhandler.New(stats, gateway, accounts, m, validate, log),
	)

	router := httpserver.NewRouter(cfg, handlers, authmw.NewAuth(accounts, log), m, log)
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testEnv{server: server, store: data}
}

func (e *testEnv) do(t *testing.T, method, path, token string, payload interface{}) (int, []byte) {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, e.server.URL+path, body)
	require.NoError(t, err)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, respBody
}

func (e *testEnv) signUp(t *testing.T, email, name string) string {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email":     email,
		"password":  testPassword,
		"full_name": name,
	})
	require.Equal(t, http.StatusCreated, status, string(body))

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	return created.ID
}

func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()
	status, body := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	require.Equal(t, http.StatusOK, status, string(body))

	var session struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(body, &session))
	require.NotEmpty(t, session.AccessToken)
	return session.AccessToken
}

func (e *testEnv) adminToken(t *testing.T) string {
	t.Helper()
	e.signUp(t, "admin@giki.edu.pk", "Mess Office")
	return e.login(t, "admin@giki.edu.pk")
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type gatewayResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var value T
	require.NoError(t, json.Unmarshal(body, &value), string(body))
	return value
}

func TestHealth(t *testing.T) {
	env := setup(t)

	status, body := env.do(t, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestSignUpRules(t *testing.T) {
	env := setup(t)

	status, body := env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "someone@gmail.com", "password": testPassword, "full_name": "Someone",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_email", decode[errorEnvelope](t, body).Error.Code)

	status, body = env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "staff@giki.edu.pk", "password": testPassword, "full_name": "Staff",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_email", decode[errorEnvelope](t, body).Error.Code)

	status, body = env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "admin@giki.edu.pk", "password": testPassword, "full_name": "Mess Office",
	})
	require.Equal(t, http.StatusCreated, status, string(body))
	assert.True(t, decode[struct {
		IsAdmin bool `json:"is_admin"`
	}](t, body).IsAdmin)

	status, body = env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "u2021001@giki.edu.pk", "password": "abc", "full_name": "Ali",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "password_too_short", decode[errorEnvelope](t, body).Error.Code)

	env.signUp(t, "u2021001@giki.edu.pk", "Ali Khan")

	status, body = env.do(t, http.MethodPost, "/api/auth/signup", "", map[string]string{
		"email": "U2021001@giki.edu.pk", "password": testPassword, "full_name": "Ali Again",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already_registered", decode[errorEnvelope](t, body).Error.Code)
}

func TestLoginAndMe(t *testing.T) {
	env := setup(t)
	id := env.signUp(t, "u2021001@giki.edu.pk", "Ali Khan")

	status, _ := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "u2021001@giki.edu.pk", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, _ = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "u2021001@gmail.com", "password": testPassword,
	})
	assert.Equal(t, http.StatusBadRequest, status)

	token := env.login(t, "u2021001@giki.edu.pk")

	status, body := env.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)

	me := decode[struct {
		ID      string `json:"id"`
		Role    string `json:"role"`
		IsAdmin bool   `json:"is_admin"`
	}](t, body)
	assert.Equal(t, id, me.ID)
	assert.Equal(t, accountdomain.RoleStudent, me.Role)
	assert.False(t, me.IsAdmin)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := setup(t)

	for _, path := range []string{"/api/auth/me", "/api/attendance/me", "/api/menu", "/api/reviews"} {
		status, _ := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)

		status, _ = env.do(t, http.MethodGet, path, "not-a-jwt", nil)
		assert.Equal(t, http.StatusUnauthorized, status, path)
	}
}

func TestAttendanceMarkAndTotals(t *testing.T) {
	env := setup(t)
	env.signUp(t, "u2021001@giki.edu.pk", "Ali Khan")
	token := env.login(t, "u2021001@giki.edu.pk")

	status, body := env.do(t, http.MethodPost, "/api/attendance/me", token, map[string]interface{}{})
	assert.Equal(t, http.StatusBadRequest, status, string(body))

	status, body = env.do(t, http.MethodPost, "/api/attendance/me", token, map[string]bool{"is_in": true})
	require.Equal(t, http.StatusOK, status, string(body))

	mark := decode[struct {
		IsIn   bool `json:"is_in"`
		Totals struct {
			Days   int64 `json:"days"`
			Amount int64 `json:"amount"`
		} `json:"totals"`
	}](t, body)
	assert.True(t, mark.IsIn)
	assert.Equal(t, int64(1), mark.Totals.Days)
	assert.Equal(t, int64(attendancedomain.FeePerDay), mark.Totals.Amount)

	status, body = env.do(t, http.MethodPost, "/api/attendance/me", token, map[string]bool{"is_in": false})
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = env.do(t, http.MethodGet, "/api/attendance/me", token, nil)
	require.Equal(t, http.StatusOK, status)

	dashboard := decode[struct {
		Cutoff string `json:"cutoff"`
		Totals struct {
			Days   int64 `json:"days"`
			Amount int64 `json:"amount"`
		} `json:"totals"`
	}](t, body)
	assert.Equal(t, "09:00", dashboard.Cutoff)
	assert.Equal(t, int64(0), dashboard.Totals.Days)
	assert.Equal(t, int64(0), dashboard.Totals.Amount)
}

func TestMenuListAndAdminUpdate(t *testing.T) {
	env := setup(t)
	env.signUp(t, "u2021001@giki.edu.pk", "Ali Khan")
	student := env.login(t, "u2021001@giki.edu.pk")
	admin := env.adminToken(t)

	status, body := env.do(t, http.MethodGet, "/api/menu", student, nil)
	require.Equal(t, http.StatusOK, status)

	listed := decode[struct {
		Days []struct {
			ID        string `json:"id"`
			DayOfWeek string `json:"day_of_week"`
		} `json:"days"`
	}](t, body)
	require.Len(t, listed.Days, 7)
	for i, day := range listed.Days {
		assert.Equal(t, menudomain.DaysOrder[i], day.DayOfWeek)
	}

	update := map[string]interface{}{
		"days": []map[string]string{{
			"id":        listed.Days[0].ID,
			"breakfast": "Halwa Puri",
			"lunch":     "Biryani",
			"dinner":    "Nihari",
		}},
	}

	status, _ = env.do(t, http.MethodPut, "/api/menu", student, update)
	assert.Equal(t, http.StatusForbidden, status)

	status, body = env.do(t, http.MethodPut, "/api/menu", admin, update)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Contains(t, string(body), "Halwa Puri")

	status, body = env.do(t, http.MethodGet, "/api/menu", student, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "Halwa Puri")
}

func TestReviewsOncePerAccount(t *testing.T) {
	env := setup(t)
	env.signUp(t, "u2021001@giki.edu.pk", "Ali Khan")
	token := env.login(t, "u2021001@giki.edu.pk")

	status, body := env.do(t, http.MethodGet, "/api/reviews", token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "0.0", decode[struct {
		Average string `json:"average"`
	}](t, body).Average)

	status, body = env.do(t, http.MethodPost, "/api/reviews", token, map[string]interface{}{"rating": 0})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "please select a rating", decode[errorEnvelope](t, body).Error.Message)

	status, body = env.do(t, http.MethodPost, "/api/reviews", token, map[string]interface{}{"rating": 4, "comment": "Good food"})
	require.Equal(t, http.StatusCreated, status, string(body))

	status, body = env.do(t, http.MethodPost, "/api/reviews", token, map[string]interface{}{"rating": 5})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "already_reviewed", decode[errorEnvelope](t, body).Error.Code)

	status, body = env.do(t, http.MethodGet, "/api/reviews", token, nil)
	require.Equal(t, http.StatusOK, status)

	summary := decode[struct {
		Count       int    `json:"count"`
		Average     string `json:"average"`
		HasReviewed bool   `json:"has_reviewed"`
	}](t, body)
	assert.Equal(t, 1, summary.Count)
	assert.Equal(t, "4.0", summary.Average)
	assert.True(t, summary.HasReviewed)
}

func TestAdminRoutesRejectStudents(t *testing.T) {
	env := setup(t)
	env.signUp(t, "u2021001@giki.edu.pk", "Ali Khan")
	token := env.login(t, "u2021001@giki.edu.pk")

	for _, path := range []string{
		"/api/admin/overview",
		"/api/admin/students",
		"/api/admin/students/lookup?reg=2021001",
		"/api/admin/stats?period=week",
		"/api/admin/stats/daily?window=month",
	} {
		status, _ := env.do(t, http.MethodGet, path, token, nil)
		assert.Equal(t, http.StatusForbidden, status, path)
	}
}

func TestAdminStatsAndLookup(t *testing.T) {
	env := setup(t)
	env.signUp(t, "u2021001@giki.edu.pk", "Ali Khan")
	env.signUp(t, "u2021002@giki.edu.pk", "Sara Ahmed")
	student := env.login(t, "u2021001@giki.edu.pk")
	admin := env.adminToken(t)

	status, _ := env.do(t, http.MethodPost, "/api/attendance/me", student, map[string]bool{"is_in": true})
	require.Equal(t, http.StatusOK, status)

	status, body := env.do(t, http.MethodGet, "/api/admin/students", admin, nil)
	require.Equal(t, http.StatusOK, status)
	students := decode[struct {
		Students []struct {
			Email       string `json:"email"`
			TotalDays   int64  `json:"total_days"`
			TotalAmount int64  `json:"total_amount"`
		} `json:"students"`
	}](t, body).Students
	require.Len(t, students, 2)
	assert.Equal(t, "u2021001@giki.edu.pk", students[0].Email)
	assert.Equal(t, int64(1), students[0].TotalDays)
	assert.Equal(t, int64(attendancedomain.FeePerDay), students[0].TotalAmount)

	status, body = env.do(t, http.MethodGet, "/api/admin/students?q=sara", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), "u2021002@giki.edu.pk")
	assert.NotContains(t, string(body), "u2021001@giki.edu.pk")

	status, body = env.do(t, http.MethodGet, "/api/admin/students/lookup?reg=2021001", admin, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	assert.Contains(t, string(body), `"full_name":"Ali Khan"`)

	status, _ = env.do(t, http.MethodGet, "/api/admin/students/lookup?reg=12345", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodGet, "/api/admin/students/lookup?reg=9999999", admin, nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = env.do(t, http.MethodGet, "/api/admin/stats?period=week", admin, nil)
	require.Equal(t, http.StatusOK, status, string(body))
	week := decode[struct {
		TotalStudents int64 `json:"total_students"`
		StudentsIn    int64 `json:"students_in"`
		StudentsOut   int64 `json:"students_out"`
	}](t, body)
	assert.Equal(t, int64(2), week.TotalStudents)
	assert.Equal(t, week.TotalStudents, week.StudentsIn+week.StudentsOut)

	status, _ = env.do(t, http.MethodGet, "/api/admin/stats?period=year", admin, nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, body = env.do(t, http.MethodGet, "/api/admin/stats/daily?window=month", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[struct {
		Points []json.RawMessage `json:"points"`
	}](t, body).Points, statsdomain.MonthWindowDays)

	status, body = env.do(t, http.MethodGet, "/api/admin/overview", admin, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, int64(2), decode[struct {
		TotalStudents int64 `json:"total_students"`
	}](t, body).TotalStudents)
}

func TestAdminOperationsGateway(t *testing.T) {
	env := setup(t)
	targetID := env.signUp(t, "u2021001@giki.edu.pk", "Ali Khan")
	student := env.login(t, "u2021001@giki.edu.pk")
	admin := env.adminToken(t)

	status, body := env.do(t, http.MethodPost, "/api/admin/operations", "", map[string]string{"action": "delete_user"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "missing authorization header", decode[gatewayResponse](t, body).Error)

	status, body = env.do(t, http.MethodPost, "/api/admin/operations", student, map[string]string{
		"action": "delete_user", "targetUserId": targetID,
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "only admins can perform this action", decode[gatewayResponse](t, body).Error)

	status, body = env.do(t, http.MethodPost, "/api/admin/operations", admin, map[string]string{
		"action": "drop_tables", "targetUserId": targetID,
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid action", decode[gatewayResponse](t, body).Error)

	status, body = env.do(t, http.MethodPost, "/api/admin/operations", admin, map[string]interface{}{
		"action": "update_attendance", "targetUserId": targetID, "isIn": true, "date": "2024-05-15",
	})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.True(t, decode[gatewayResponse](t, body).Success)

	env.store.mu.Lock()
	record, ok := env.store.attendance[targetID+"|2024-05-15"]
	env.store.mu.Unlock()
	require.True(t, ok)
	assert.True(t, record.IsIn)

	status, body = env.do(t, http.MethodPost, "/api/admin/operations", admin, map[string]interface{}{
		"action": "update_password", "targetUserId": targetID, "newPassword": "abc",
	})
	assert.Equal(t, http.StatusBadRequest, status, string(body))

	status, body = env.do(t, http.MethodPost, "/api/admin/operations", admin, map[string]interface{}{
		"action": "update_password", "targetUserId": targetID, "newPassword": "brand-new-pass",
	})
	require.Equal(t, http.StatusOK, status, string(body))

	status, _ = env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "u2021001@giki.edu.pk", "password": "brand-new-pass",
	})
	assert.Equal(t, http.StatusOK, status)

	status, body = env.do(t, http.MethodPost, "/api/admin/operations", admin, map[string]string{
		"action": "delete_user", "targetUserId": targetID,
	})
	require.Equal(t, http.StatusOK, status, string(body))

	env.store.mu.Lock()
	_, profileLeft := env.store.profiles[targetID]
	_, recordLeft := env.store.attendance[targetID+"|2024-05-15"]
	env.store.mu.Unlock()
	assert.False(t, profileLeft)
	assert.False(t, recordLeft)

	status, _ = env.do(t, http.MethodGet, "/api/auth/me", student, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = env.do(t, http.MethodPost, "/api/admin/operations", admin, map[string]string{
		"action": "delete_user", "targetUserId": targetID,
	})
	assert.Equal(t, http.StatusNotFound, status, string(body))
}

func TestMetricsEndpoint(t *testing.T) {
	env := setup(t)

	status, _ := env.do(t, http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, status)

	status, body := env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `mess_http_requests_total{method="GET",route="/api/health",status="200"} 1`)
}

func TestAdminActionMetricLabelsAreBounded(t *testing.T) {
	env := setup(t)
	targetID := env.signUp(t, "u2021001@giki.edu.pk", "Ali Khan")
	student := env.login(t, "u2021001@giki.edu.pk")
	admin := env.adminToken(t)

	for i := 0; i < 50; i++ {
		status, _ := env.do(t, http.MethodPost, "/api/admin/operations", student, map[string]string{
			"action": fmt.Sprintf("junk-%d", i), "targetUserId": targetID,
		})
		require.Equal(t, http.StatusForbidden, status)
	}

	status, _ := env.do(t, http.MethodPost, "/api/admin/operations", admin, map[string]string{
		"action": "drop_tables", "targetUserId": targetID,
	})
	require.Equal(t, http.StatusBadRequest, status)

	status, _ = env.do(t, http.MethodPost, "/api/admin/operations", admin, map[string]interface{}{
		"action": "update_attendance", "targetUserId": targetID, "isIn": true,
	})
	require.Equal(t, http.StatusOK, status)

	status, body := env.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, status)
	metricsText := string(body)
	assert.NotContains(t, metricsText, "junk-")
	assert.NotContains(t, metricsText, "drop_tables")
	assert.Contains(t, metricsText, `mess_admin_actions_total{action="unknown",outcome="forbidden"} 50`)
	assert.Contains(t, metricsText, `mess_admin_actions_total{action="unknown",outcome="rejected"} 1`)
	assert.Contains(t, metricsText, `mess_admin_actions_total{action="update_attendance",outcome="ok"} 1`)
}

const localJWTSecret = "local-jwt-secret"

// newLocalJWTIdentity returns a Supabase client that verifies tokens with the
// project secret and a GoTrue stand-in that accepts admin deletes.
func newLocalJWTIdentity(t *testing.T) (*supabase.Client, func() []string) {
	t.Helper()

	var mu sync.Mutex
	deleted := make([]string, 0)
	gotrue := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "/auth/v1/admin/users/"
		if r.Method != http.MethodDelete || !strings.HasPrefix(r.URL.Path, prefix) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		mu.Lock()
		deleted = append(deleted, strings.TrimPrefix(r.URL.Path, prefix))
		mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(gotrue.Close)

	client := supabase.New(config.SupabaseConfig{
		URL:            gotrue.URL,
		PublishableKey: "anon-key",
		ServiceRoleKey: "service-role-key",
		JWTSecret:      localJWTSecret,
	})
	return client, func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), deleted...)
	}
}

func signLocalToken(t *testing.T, userID, email, name string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":           userID,
		"email":         email,
		"role":          "authenticated",
		"user_metadata": map[string]string{"full_name": name},
		"exp":           time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(localJWTSecret))
	require.NoError(t, err)
	return signed
}

func TestDeletedAccountTokenIsRejected(t *testing.T) {
	identity, goTrueDeletes := newLocalJWTIdentity(t)
	env := setupWithIdentity(t, identity)

	const studentID = "5a0c7c1e-8d3f-4b52-9a41-0f6f2d9c1a01"
	student := signLocalToken(t, studentID, "u2021001@giki.edu.pk", "Ali Khan")
	admin := signLocalToken(t, "5a0c7c1e-8d3f-4b52-9a41-0f6f2d9c1a02", "admin@giki.edu.pk", "Mess Office")

	status, body := env.do(t, http.MethodPost, "/api/attendance/me", student, map[string]bool{"is_in": true})
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = env.do(t, http.MethodGet, "/api/auth/me", admin, nil)
	require.Equal(t, http.StatusOK, status, string(body))

	status, body = env.do(t, http.MethodPost, "/api/admin/operations", admin, map[string]string{
		"action": "delete_user", "targetUserId": studentID,
	})
	require.Equal(t, http.StatusOK, status, string(body))
	assert.True(t, decode[gatewayResponse](t, body).Success)
	assert.Equal(t, []string{studentID}, goTrueDeletes())

	status, _ = env.do(t, http.MethodPost, "/api/attendance/me", student, map[string]bool{"is_in": true})
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = env.do(t, http.MethodPost, "/api/reviews", student, map[string]interface{}{"rating": 5, "comment": "back again"})
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = env.do(t, http.MethodGet, "/api/auth/me", student, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	env.store.mu.Lock()
	_, profileBack := env.store.profiles[studentID]
	_, roleBack := env.store.roles[studentID]
	attendanceLeft := len(env.store.attendance)
	env.store.mu.Unlock()
	assert.False(t, profileBack)
	assert.False(t, roleBack)
	assert.Zero(t, attendanceLeft)
}
