package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/luishrb/congress-portal/internal/auth"
	"github.com/luishrb/congress-portal/internal/handler"
	"github.com/luishrb/congress-portal/internal/model"
	"github.com/luishrb/congress-portal/internal/repository/repotest"
	"github.com/luishrb/congress-portal/internal/service"
)

type testServer struct {
	router       http.Handler
	store        *repotest.Store
	adminToken   string
	visitorToken string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store := repotest.NewStore()
	users := repotest.NewUsers()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	authSvc := service.NewAuthService(users, tokens, log)

	ctx := context.Background()
	require.NoError(t, authSvc.EnsureAdmin(ctx, "admin@congress.test", "bootpass"))

	hash, err := bcrypt.GenerateFromPassword([]byte("visitorpass"), bcrypt.MinCost)
	require.NoError(t, err)
	_, err = users.Create(ctx, "visitor@congress.test", string(hash), false)
	require.NoError(t, err)

	router := handler.NewRouter(handler.Services{
		Auth:          authSvc,
		Minicourses:   service.NewMinicourseService(store.Minicourses(), store.Registrations()),
		News:          service.NewNewsService(repotest.NewNews()),
		Schedule:      service.NewScheduleService(repotest.NewSchedule()),
		Subscriptions: service.NewSubscriptionService(repotest.NewSubscriptions()),
	}, log)

	ts := &testServer{router: router, store: store}
	ts.adminToken = ts.login(t, "admin@congress.test", "bootpass")
	ts.visitorToken = ts.login(t, "visitor@congress.test", "visitorpass")
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out), "body: %s", rec.Body.String())
	return out
}

func (ts *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/auth/login", "", model.LoginRequest{Email: email, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	result := decodeBody[service.LoginResult](t, rec)
	require.NotEmpty(t, result.Token)
	return result.Token
}

func (ts *testServer) createPublishedCourse(t *testing.T, vacancies int) model.Minicourse {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/admin/minicourses", ts.adminToken, model.MinicourseInput{
		Title:     "Introdução a Redes Neurais",
		Vacancies: vacancies,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	course := decodeBody[model.Minicourse](t, rec)

	rec = ts.do(t, http.MethodPost, "/admin/minicourses/"+course.ID+"/publish", ts.adminToken, model.PublishUpdate{Published: true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return course
}

func validRegistration() model.RegisterRequest {
	return model.RegisterRequest{
		Name:  "Maria Silva",
		Email: "maria@example.com",
		CPF:   "529.982.247-25",
		Phone: "(34) 99999-0000",
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminGuard(t *testing.T) {
	ts := newTestServer(t)
	in := model.MinicourseInput{Title: "Curso", Vacancies: 5}

	rec := ts.do(t, http.MethodPost, "/admin/minicourses", "", in)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/admin/minicourses", ts.visitorToken, in)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(t, http.MethodPost, "/admin/minicourses", "garbage-token", in)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/admin/minicourses", ts.adminToken, in)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ts := newTestServer(t)
	rec := ts.do(t, http.MethodPost, "/auth/login", "", model.LoginRequest{
		Email: "admin@congress.test", Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegistrationFlow(t *testing.T) {
	ts := newTestServer(t)
	course := ts.createPublishedCourse(t, 1)

	rec := ts.do(t, http.MethodPost, "/minicourses/"+course.ID+"/register", "", validRegistration())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	reg := decodeBody[model.Registration](t, rec)
	assert.Equal(t, "52998224725", reg.CPF)
	assert.False(t, reg.IsPaid)

	// Seat pool is exhausted now.
	rec = ts.do(t, http.MethodPost, "/minicourses/"+course.ID+"/register", "", validRegistration())
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodGet, "/minicourses/"+course.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decodeBody[model.Minicourse](t, rec)
	assert.Equal(t, 0, got.VacanciesLeft)
}

func TestRegistrationValidation(t *testing.T) {
	ts := newTestServer(t)
	course := ts.createPublishedCourse(t, 3)

	bad := validRegistration()
	bad.CPF = "123"
	rec := ts.do(t, http.MethodPost, "/minicourses/"+course.ID+"/register", "", bad)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	errResp := decodeBody[model.ErrorResponse](t, rec)
	assert.Equal(t, "cpf", errResp.Field)

	rec = ts.do(t, http.MethodPost, "/minicourses/does-not-exist/register", "", validRegistration())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPaymentToggleAndCancel(t *testing.T) {
	ts := newTestServer(t)
	course := ts.createPublishedCourse(t, 2)

	rec := ts.do(t, http.MethodPost, "/minicourses/"+course.ID+"/register", "", validRegistration())
	require.Equal(t, http.StatusCreated, rec.Code)
	reg := decodeBody[model.Registration](t, rec)

	rec = ts.do(t, http.MethodPost, "/admin/registrations/"+reg.ID+"/payment", ts.adminToken, model.PaymentUpdate{IsPaid: true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	paid := decodeBody[model.Registration](t, rec)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)

	// Payment never touches the seat pool.
	rec = ts.do(t, http.MethodGet, "/minicourses/"+course.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decodeBody[model.Minicourse](t, rec).VacanciesLeft)

	// Cancelling a paid registration still returns the seat.
	rec = ts.do(t, http.MethodDelete, "/admin/registrations/"+reg.ID, ts.adminToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodGet, "/minicourses/"+course.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, decodeBody[model.Minicourse](t, rec).VacanciesLeft)

	rec = ts.do(t, http.MethodDelete, "/admin/registrations/"+reg.ID, ts.adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteMinicourseGuard(t *testing.T) {
	ts := newTestServer(t)
	course := ts.createPublishedCourse(t, 2)

	rec := ts.do(t, http.MethodPost, "/minicourses/"+course.ID+"/register", "", validRegistration())
	require.Equal(t, http.StatusCreated, rec.Code)
	reg := decodeBody[model.Registration](t, rec)

	rec = ts.do(t, http.MethodDelete, "/admin/minicourses/"+course.ID, ts.adminToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/admin/registrations/"+reg.ID, ts.adminToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(t, http.MethodDelete, "/admin/minicourses/"+course.ID, ts.adminToken, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestVisitorCatalogHidesUnpublished(t *testing.T) {
	ts := newTestServer(t)
	ts.createPublishedCourse(t, 5)

	rec := ts.do(t, http.MethodPost, "/admin/minicourses", ts.adminToken, model.MinicourseInput{
		Title: "Rascunho", Vacancies: 5,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	draft := decodeBody[model.Minicourse](t, rec)

	rec = ts.do(t, http.MethodGet, "/minicourses", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]model.Minicourse](t, rec), 1)

	rec = ts.do(t, http.MethodGet, "/minicourses/"+draft.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Admins see drafts.
	rec = ts.do(t, http.MethodGet, "/minicourses", ts.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]model.Minicourse](t, rec), 2)
}

func TestRegistrationExportCSV(t *testing.T) {
	ts := newTestServer(t)
	course := ts.createPublishedCourse(t, 3)

	rec := ts.do(t, http.MethodPost, "/minicourses/"+course.ID+"/register", "", validRegistration())
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodGet, "/admin/minicourses/"+course.ID+"/registrations/export", ts.adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "name,email,cpf"))
	assert.Contains(t, lines[1], "52998224725")
}

func TestSubscriptionEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/subscriptions", "", model.SubscribeRequest{
		Name:  "Carlos Souza",
		Email: "carlos@example.com",
		CPF:   "529.982.247-25",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	sub := decodeBody[model.Subscription](t, rec)
	assert.Equal(t, "pending", sub.Status)

	rec = ts.do(t, http.MethodGet, "/admin/subscriptions", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(t, http.MethodPost, "/admin/subscriptions/"+sub.ID+"/payment", ts.adminToken, model.PaymentUpdate{IsPaid: true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "confirmed", decodeBody[model.Subscription](t, rec).Status)
}

func TestNewsLifecycle(t *testing.T) {
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/admin/news", ts.adminToken, model.NewsInput{
		Title:   "Inscrições abertas",
		Content: "As inscrições para o congresso estão abertas.",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	post := decodeBody[model.News](t, rec)
	assert.Equal(t, "medium", post.ImageSize)

	// Drafts stay out of the public feed until published.
	rec = ts.do(t, http.MethodGet, "/news", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]model.News](t, rec), 0)

	rec = ts.do(t, http.MethodPost, "/admin/news/"+post.ID+"/publish", ts.adminToken, model.PublishUpdate{Published: true})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = ts.do(t, http.MethodGet, "/news", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody[[]model.News](t, rec), 1)
}

func TestMalformedBody(t *testing.T) {
	ts := newTestServer(t)
	course := ts.createPublishedCourse(t, 1)

	req := httptest.NewRequest(http.MethodPost, "/minicourses/"+course.ID+"/register", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// A rejected body must not consume a seat.
	rec2 := ts.do(t, http.MethodGet, "/minicourses/"+course.ID, "", nil)
	require.Equal(t, http.StatusOK, rec2.Code)
	assert.Equal(t, 1, decodeBody[model.Minicourse](t, rec2).VacanciesLeft)
}
