package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luishrb/congress-portal/internal/auth"
	"github.com/luishrb/congress-portal/internal/model"
	"github.com/luishrb/congress-portal/internal/repository"
	"github.com/luishrb/congress-portal/internal/repository/repotest"
)

var (
	admin   = auth.Actor{ID: "admin-1", Email: "admin@congress.test", IsAdmin: true}
	visitor = auth.Anonymous
)

func newTestService(t *testing.T) (*MinicourseService, repository.RegistrationRepository) {
	t.Helper()
	store := repotest.NewStore()
	regs := store.Registrations()
	return NewMinicourseService(store.Minicourses(), regs), regs
}

// validRegisterRequest returns a well-formed registration payload. The CPF
// and phone carry Brazilian formatting on purpose to exercise normalization.
func validRegisterRequest(email string) model.RegisterRequest {
	if email == "" {
		email = strings.ToLower(uuid.New().String()[:8]) + "@example.com"
	}
	return model.RegisterRequest{
		Name:        "Maria Silva",
		Email:       email,
		CPF:         "529.982.247-25",
		Phone:       "(34) 99999-0000",
		Institution: "UFU",
	}
}

func createPublished(t *testing.T, svc *MinicourseService, vacancies int) *model.Minicourse {
	t.Helper()
	ctx := context.Background()
	m, err := svc.CreateMinicourse(ctx, admin, model.MinicourseInput{
		Title:     "Introduction to Genomics",
		Vacancies: vacancies,
		Price:     50,
	})
	require.NoError(t, err)
	require.NoError(t, svc.SetPublished(ctx, admin, m.ID, true))
	return m
}

func TestRegisterClaimsOneSeat(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	m := createPublished(t, svc, 3)

	reg, err := svc.Register(ctx, m.ID, validRegisterRequest("maria@example.com"))
	require.NoError(t, err)
	assert.Equal(t, m.ID, reg.MinicourseID)
	assert.False(t, reg.IsPaid)
	assert.Nil(t, reg.PaidAt)
	assert.Equal(t, "52998224725", reg.CPF, "CPF stored as bare digits")
	assert.Equal(t, "34999990000", reg.Phone)

	got, err := svc.GetMinicourse(ctx, admin, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.VacanciesLeft)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	m := createPublished(t, svc, 3)

	cases := []struct {
		name  string
		mut   func(*model.RegisterRequest)
		field string
	}{
		{"missing name", func(r *model.RegisterRequest) { r.Name = "  " }, "name"},
		{"missing email", func(r *model.RegisterRequest) { r.Email = "" }, "email"},
		{"bad email", func(r *model.RegisterRequest) { r.Email = "not-an-email" }, "email"},
		{"short cpf", func(r *model.RegisterRequest) { r.CPF = "123.456" }, "cpf"},
		{"long cpf", func(r *model.RegisterRequest) { r.CPF = "529982247251" }, "cpf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRegisterRequest("")
			tc.mut(&req)
			_, err := svc.Register(ctx, m.ID, req)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}

	// Validation failures must not consume seats.
	got, err := svc.GetMinicourse(ctx, admin, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.VacanciesLeft)
}

func TestRegisterUnknownAndUnpublished(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, "missing-id", validRegisterRequest(""))
	assert.ErrorIs(t, err, repository.ErrMinicourseNotFound)

	m, err := svc.CreateMinicourse(ctx, admin, model.MinicourseInput{Title: "Draft", Vacancies: 5})
	require.NoError(t, err)
	_, err = svc.Register(ctx, m.ID, validRegisterRequest(""))
	assert.ErrorIs(t, err, repository.ErrMinicourseNotFound,
		"unpublished minicourses read as missing to registrants")
}

func TestCapacityExhaustion(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	m := createPublished(t, svc, 1)

	regA, err := svc.Register(ctx, m.ID, validRegisterRequest("a@example.com"))
	require.NoError(t, err)

	got, _ := svc.GetMinicourse(ctx, admin, m.ID)
	assert.Equal(t, 0, got.VacanciesLeft)

	_, err = svc.Register(ctx, m.ID, validRegisterRequest("b@example.com"))
	assert.ErrorIs(t, err, repository.ErrNoVacanciesLeft)

	regs, err := svc.ListRegistrations(ctx, admin, m.ID, nil)
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, regA.ID, regs[0].ID)
}

func TestCancelThenReRegister(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	m := createPublished(t, svc, 1)

	regA, err := svc.Register(ctx, m.ID, validRegisterRequest("a@example.com"))
	require.NoError(t, err)

	require.NoError(t, svc.CancelRegistration(ctx, admin, regA.ID))

	got, _ := svc.GetMinicourse(ctx, admin, m.ID)
	assert.Equal(t, 1, got.VacanciesLeft, "cancellation returns the seat")

	err = svc.CancelRegistration(ctx, admin, regA.ID)
	assert.ErrorIs(t, err, repository.ErrRegistrationNotFound, "cancelled registration is gone")

	_, err = svc.Register(ctx, m.ID, validRegisterRequest("c@example.com"))
	require.NoError(t, err)
	got, _ = svc.GetMinicourse(ctx, admin, m.ID)
	assert.Equal(t, 0, got.VacanciesLeft)
}

func TestCancelReturnsSeatRegardlessOfPayment(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	m := createPublished(t, svc, 2)

	reg, err := svc.Register(ctx, m.ID, validRegisterRequest(""))
	require.NoError(t, err)
	_, err = svc.SetRegistrationPayment(ctx, admin, reg.ID, true)
	require.NoError(t, err)

	require.NoError(t, svc.CancelRegistration(ctx, admin, reg.ID))
	got, _ := svc.GetMinicourse(ctx, admin, m.ID)
	assert.Equal(t, 2, got.VacanciesLeft)
}

func TestPaymentToggleRoundTrip(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	m := createPublished(t, svc, 2)

	reg, err := svc.Register(ctx, m.ID, validRegisterRequest(""))
	require.NoError(t, err)
	require.False(t, reg.IsPaid)
	require.Nil(t, reg.PaidAt)

	paid, err := svc.SetRegistrationPayment(ctx, admin, reg.ID, true)
	require.NoError(t, err)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)

	unpaid, err := svc.SetRegistrationPayment(ctx, admin, reg.ID, false)
	require.NoError(t, err)
	assert.False(t, unpaid.IsPaid)
	assert.Nil(t, unpaid.PaidAt)
}

func TestPaymentToggleIsCapacityNeutral(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	m := createPublished(t, svc, 5)

	reg, err := svc.Register(ctx, m.ID, validRegisterRequest(""))
	require.NoError(t, err)

	before, _ := svc.GetMinicourse(ctx, admin, m.ID)
	for i := 0; i < 6; i++ {
		_, err := svc.SetRegistrationPayment(ctx, admin, reg.ID, i%2 == 0)
		require.NoError(t, err)
	}
	after, _ := svc.GetMinicourse(ctx, admin, m.ID)
	assert.Equal(t, before.VacanciesLeft, after.VacanciesLeft)
}

func TestDeleteMinicourseGuard(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	m := createPublished(t, svc, 2)

	reg, err := svc.Register(ctx, m.ID, validRegisterRequest(""))
	require.NoError(t, err)

	err = svc.DeleteMinicourse(ctx, admin, m.ID)
	assert.ErrorIs(t, err, repository.ErrHasRegistrations)

	// Still retrievable after the refused delete.
	_, err = svc.GetMinicourse(ctx, admin, m.ID)
	require.NoError(t, err)

	require.NoError(t, svc.CancelRegistration(ctx, admin, reg.ID))
	require.NoError(t, svc.DeleteMinicourse(ctx, admin, m.ID))

	_, err = svc.GetMinicourse(ctx, admin, m.ID)
	assert.ErrorIs(t, err, repository.ErrMinicourseNotFound)
}

func TestConservationInvariant(t *testing.T) {
	svc, regs := newTestService(t)
	ctx := context.Background()
	m := createPublished(t, svc, 10)

	var regIDs []string
	for i := 0; i < 7; i++ {
		reg, err := svc.Register(ctx, m.ID, validRegisterRequest(""))
		require.NoError(t, err)
		regIDs = append(regIDs, reg.ID)
	}
	for _, id := range regIDs[:3] {
		require.NoError(t, svc.CancelRegistration(ctx, admin, id))
	}

	got, _ := svc.GetMinicourse(ctx, admin, m.ID)
	total, _, err := regs.CountByMinicourse(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Vacancies-got.VacanciesLeft, total,
		"vacancies - vacancies_left must equal live registrations")
}

// TestConcurrentRegistrationNeverOversells hammers one minicourse from many
// goroutines and checks the capacity floor: at most N registrations, never a
// negative counter.
func TestConcurrentRegistrationNeverOversells(t *testing.T) {
	svc, regRepo := newTestService(t)
	ctx := context.Background()

	const seats = 10
	const attempts = 100
	m := createPublished(t, svc, seats)

	var wg sync.WaitGroup
	errs := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Register(ctx, m.ID, validRegisterRequest(""))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var wins, fulls int
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, repository.ErrNoVacanciesLeft):
			fulls++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, seats, wins)
	assert.Equal(t, attempts-seats, fulls)

	got, _ := svc.GetMinicourse(ctx, admin, m.ID)
	assert.Equal(t, 0, got.VacanciesLeft)
	assert.GreaterOrEqual(t, got.VacanciesLeft, 0, "counter must never go negative")

	total, _, err := regRepo.CountByMinicourse(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, seats, total)
}

func TestAdminOnlyOperations(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	m := createPublished(t, svc, 2)
	reg, err := svc.Register(ctx, m.ID, validRegisterRequest(""))
	require.NoError(t, err)

	_, err = svc.CreateMinicourse(ctx, visitor, model.MinicourseInput{Title: "x", Vacancies: 1})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.CancelRegistration(ctx, visitor, reg.ID), ErrForbidden)
	_, err = svc.SetRegistrationPayment(ctx, visitor, reg.ID, true)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.DeleteMinicourse(ctx, visitor, m.ID), ErrForbidden)
	_, err = svc.ListRegistrations(ctx, visitor, m.ID, nil)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestVisibilityForVisitors(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	published := createPublished(t, svc, 2)
	draft, err := svc.CreateMinicourse(ctx, admin, model.MinicourseInput{Title: "Draft", Vacancies: 2})
	require.NoError(t, err)

	list, err := svc.ListMinicourses(ctx, visitor)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, published.ID, list[0].ID)

	_, err = svc.GetMinicourse(ctx, visitor, draft.ID)
	assert.ErrorIs(t, err, repository.ErrMinicourseNotFound)

	adminList, err := svc.ListMinicourses(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, adminList, 2)
}

func TestRegistrationSummary(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	m := createPublished(t, svc, 5)

	var regs []*model.Registration
	for i := 0; i < 3; i++ {
		reg, err := svc.Register(ctx, m.ID, validRegisterRequest(""))
		require.NoError(t, err)
		regs = append(regs, reg)
	}
	_, err := svc.SetRegistrationPayment(ctx, admin, regs[0].ID, true)
	require.NoError(t, err)

	summary, err := svc.RegistrationSummary(ctx, admin, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 1, summary.Paid)
	assert.Equal(t, 2, summary.Unpaid)
	assert.Equal(t, 2, summary.VacanciesLeft)
	assert.Equal(t, 5, summary.Vacancies)
}

func TestUpdateCapacityKeepsCounterInRange(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	m := createPublished(t, svc, 3)

	for i := 0; i < 2; i++ {
		_, err := svc.Register(ctx, m.ID, validRegisterRequest(""))
		require.NoError(t, err)
	}

	// Shrink below the claimed count: counter clamps to zero.
	require.NoError(t, svc.UpdateCapacity(ctx, admin, m.ID, 1))
	got, _ := svc.GetMinicourse(ctx, admin, m.ID)
	assert.Equal(t, 1, got.Vacancies)
	assert.Equal(t, 0, got.VacanciesLeft)

	// Grow again: freed headroom reappears.
	require.NoError(t, svc.UpdateCapacity(ctx, admin, m.ID, 5))
	got, _ = svc.GetMinicourse(ctx, admin, m.ID)
	assert.Equal(t, 5, got.Vacancies)
	assert.Equal(t, 4, got.VacanciesLeft)
}
