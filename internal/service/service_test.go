package service

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/events"
	"github.com/spec-kit/ticketdesk/internal/persistence"
	"github.com/spec-kit/ticketdesk/internal/repository"
	"github.com/spec-kit/ticketdesk/internal/repository/sqlite"
	apperrors "github.com/spec-kit/ticketdesk/pkg/util/errorutil"
)

type testEnv struct {
	store    repository.Store
	auth     *AuthService
	users    *UserService
	clients  *ClientService
	tickets  *TicketService
	recorder *eventRecorder
	now      time.Time
}

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) record(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *eventRecorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	db, err := persistence.NewSQLite(ctx, filepath.Join(t.TempDir(), "svc.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, persistence.RunSQLiteMigrations(ctx, db.DB, zap.NewNop()))

	env := &testEnv{
		store:    sqlite.NewStore(db.DB),
		recorder: &eventRecorder{},
		now:      time.Date(2025, 5, 4, 10, 0, 0, 0, time.UTC),
	}

	dispatcher := events.NewInMemoryDispatcher()
	for _, et := range []events.EventType{
		events.EventUserRegistered, events.EventClientDeleted,
		events.EventTicketCreated, events.EventTicketUpdated, events.EventTicketDeleted,
	} {
		dispatcher.Subscribe(et, env.recorder.record)
	}

	deps := Dependencies{Dispatcher: dispatcher, Logger: zap.NewNop(), Clock: func() time.Time { return env.now }}
	authCfg := config.AuthConfig{JWTSecret: "test-secret", BcryptCost: bcrypt.MinCost}

	env.auth = NewAuthService(authCfg, env.store.Users, deps)
	env.users = NewUserService(authCfg, env.store.Users, deps)
	env.clients = NewClientService(env.store.Clients, deps)
	env.tickets = NewTicketService(env.store.Tickets, env.store.Clients, deps)
	return env
}

func requireDomainError(t *testing.T, err error, status int, message string) {
	t.Helper()
	require.Error(t, err)
	de := apperrors.ToDomainError(err)
	assert.Equal(t, status, de.HTTPStatus, "error: %v", err)
	if message != "" {
		assert.Equal(t, message, de.Message)
	}
}

func strPtr(s string) *string { return &s }

func TestRegister_DuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	in := RegisterInput{Name: "A", Email: "x@y.com", Password: "p"}

	user, err := env.auth.Register(ctx, in)
	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.NotEqual(t, "p", user.PasswordHash)

	_, err = env.auth.Register(ctx, in)
	requireDomainError(t, err, http.StatusBadRequest, "email already registered")
	assert.Equal(t, "CONFLICT", apperrors.ToDomainError(err).Code)

	assert.Equal(t, []events.EventType{events.EventUserRegistered}, env.recorder.types())
}

func TestRegister_Validation(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.auth.Register(context.Background(), RegisterInput{Email: "x@y.com", Password: "p"})
	requireDomainError(t, err, http.StatusBadRequest, "")

	_, err = env.auth.Register(context.Background(), RegisterInput{
		Name: "A", Email: "x@y.com", Password: strings.Repeat("p", 73),
	})
	requireDomainError(t, err, http.StatusBadRequest, "password must be at most 72 bytes")
	assert.Empty(t, env.recorder.types())
}

func TestRegister_ConcurrentSameEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	const attempts = 4
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.auth.Register(ctx, RegisterInput{Name: "A", Email: "race@y.com", Password: "p"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		requireDomainError(t, err, http.StatusBadRequest, "email already registered")
	}
	assert.Equal(t, 1, succeeded)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, RegisterInput{Name: "A", Email: "x@y.com", Password: "p"})
	require.NoError(t, err)

	_, err = env.auth.Login(ctx, "nobody@y.com", "p")
	requireDomainError(t, err, http.StatusBadRequest, "user not found")

	_, err = env.auth.Login(ctx, "x@y.com", "wrong")
	requireDomainError(t, err, http.StatusBadRequest, "wrong password")

	token, err := env.auth.Login(ctx, "x@y.com", "p")
	require.NoError(t, err)
	assert.NotEmpty(t, token.Value)
	assert.False(t, token.HasExpiry())
	assert.True(t, env.now.Equal(token.IssuedAt))

	require.NoError(t, env.auth.VerifyToken(ctx, token.Value))
}

func TestVerifyToken(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	requireDomainError(t, env.auth.VerifyToken(ctx, ""), http.StatusUnauthorized, "token not provided")
	requireDomainError(t, env.auth.VerifyToken(ctx, "garbage"), http.StatusUnauthorized, "invalid token")

	user, err := env.auth.Register(ctx, RegisterInput{Name: "A", Email: "x@y.com", Password: "p"})
	require.NoError(t, err)
	token, err := env.auth.Login(ctx, "x@y.com", "p")
	require.NoError(t, err)

	_, err = env.users.Delete(ctx, user.ID)
	require.NoError(t, err)
	requireDomainError(t, env.auth.VerifyToken(ctx, token.Value), http.StatusUnauthorized, "invalid token")

	foreign, _, err := NewAuthService(config.AuthConfig{JWTSecret: "other"}, env.store.Users, Dependencies{}).
		TokenManager().GenerateToken(user.ID)
	require.NoError(t, err)
	requireDomainError(t, env.auth.VerifyToken(ctx, foreign), http.StatusUnauthorized, "invalid token")
}

func TestUserUpdate_Partial(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user, err := env.auth.Register(ctx, RegisterInput{Name: "A", Email: "x@y.com", Password: "p"})
	require.NoError(t, err)

	env.now = env.now.Add(time.Hour)
	updated, err := env.users.Update(ctx, user.ID, UserUpdateInput{Name: strPtr("New"), Email: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, "x@y.com", updated.Email)
	assert.Equal(t, user.PasswordHash, updated.PasswordHash)
	assert.True(t, env.now.Equal(updated.UpdatedAt))

	// The old password still works.
	_, err = env.auth.Login(ctx, "x@y.com", "p")
	require.NoError(t, err)

	_, err = env.users.Update(ctx, user.ID, UserUpdateInput{Password: strPtr("p2")})
	require.NoError(t, err)
	_, err = env.auth.Login(ctx, "x@y.com", "p2")
	require.NoError(t, err)

	_, err = env.users.Update(ctx, user.ID, UserUpdateInput{Password: strPtr(strings.Repeat("q", 80))})
	requireDomainError(t, err, http.StatusBadRequest, "password must be at most 72 bytes")
	_, err = env.auth.Login(ctx, "x@y.com", "p2")
	require.NoError(t, err)
}

func TestDefaultClockMicrosecondPrecision(t *testing.T) {
	now := utcNow()
	assert.Equal(t, time.UTC, now.Location())
	assert.True(t, now.Equal(now.Truncate(time.Microsecond)))
}

func TestUserUpdate_EmailConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, err := env.auth.Register(ctx, RegisterInput{Name: "A", Email: "a@y.com", Password: "p"})
	require.NoError(t, err)
	b, err := env.auth.Register(ctx, RegisterInput{Name: "B", Email: "b@y.com", Password: "p"})
	require.NoError(t, err)

	_, err = env.users.Update(ctx, b.ID, UserUpdateInput{Email: strPtr("a@y.com")})
	requireDomainError(t, err, http.StatusBadRequest, "email already registered")

	// Re-sending one's own email is fine.
	_, err = env.users.Update(ctx, b.ID, UserUpdateInput{Email: strPtr("b@y.com")})
	require.NoError(t, err)

	_, err = env.users.Update(ctx, "00000000-0000-0000-0000-000000000000", UserUpdateInput{Name: strPtr("x")})
	requireDomainError(t, err, http.StatusNotFound, "user not found")
}

func TestUserGetListDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.users.Get(ctx, "not-an-id")
	requireDomainError(t, err, http.StatusNotFound, "user not found")

	user, err := env.auth.Register(ctx, RegisterInput{Name: "A", Email: "a@y.com", Password: "p"})
	require.NoError(t, err)

	users, err := env.users.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)

	got, err := env.users.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "a@y.com", got.Email)

	deleted, err := env.users.Delete(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, deleted.ID)

	_, err = env.users.Delete(ctx, user.ID)
	requireDomainError(t, err, http.StatusNotFound, "user not found")
}

func TestClientReplaceClearsOmittedFields(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	client, err := env.clients.Create(ctx, ClientInput{Name: "Acme", TaxID: "123", Address: "Main St"})
	require.NoError(t, err)

	replaced, err := env.clients.Replace(ctx, client.ID, ClientInput{Name: "Acme 2"})
	require.NoError(t, err)
	assert.Equal(t, "Acme 2", replaced.Name)
	assert.Empty(t, replaced.TaxID)
	assert.True(t, client.CreatedAt.Equal(replaced.CreatedAt))

	_, err = env.clients.Replace(ctx, "missing", ClientInput{Name: "x"})
	requireDomainError(t, err, http.StatusNotFound, "client not found")

	requireDomainError(t, env.clients.Delete(ctx, "missing"), http.StatusNotFound, "client not found")
	require.NoError(t, env.clients.Delete(ctx, client.ID))
	_, err = env.clients.Get(ctx, client.ID)
	requireDomainError(t, err, http.StatusNotFound, "client not found")
}

func TestTicketCreate_RequiresExistingClient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.tickets.Create(ctx, TicketInput{Subject: "s"})
	requireDomainError(t, err, http.StatusBadRequest, "client required")

	_, err = env.tickets.Create(ctx, TicketInput{ClientID: "6f1c1f5e-9b51-4a55-9a7e-1f2b3c4d5e6f", Subject: "s"})
	requireDomainError(t, err, http.StatusBadRequest, "client not found")
	assert.Equal(t, "CLIENT_NOT_FOUND", apperrors.ToDomainError(err).Code)

	client, err := env.clients.Create(ctx, ClientInput{Name: "Acme"})
	require.NoError(t, err)

	ticket, err := env.tickets.Create(ctx, TicketInput{ClientID: client.ID, Subject: "s", Status: "open", Description: "d"})
	require.NoError(t, err)
	assert.Equal(t, client.ID, ticket.ClientID)
	assert.True(t, env.now.Equal(ticket.CreatedAt))

	list, err := env.tickets.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Client)
	assert.Equal(t, "Acme", list[0].Client.Name)
}

func TestTicket_RoundTripAndDanglingClient(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.clients.Create(ctx, ClientInput{Name: "First"})
	require.NoError(t, err)
	second, err := env.clients.Create(ctx, ClientInput{Name: "Second"})
	require.NoError(t, err)

	ticket, err := env.tickets.Create(ctx, TicketInput{ClientID: first.ID, Subject: "s", Status: "open"})
	require.NoError(t, err)
	created := ticket.CreatedAt

	env.now = env.now.Add(24 * time.Hour)
	updated, err := env.tickets.Update(ctx, ticket.ID, TicketInput{ClientID: second.ID, Subject: "s2", Status: "closed", Description: "done"})
	require.NoError(t, err)
	assert.Equal(t, second.ID, updated.ClientID)
	assert.True(t, created.Equal(updated.CreatedAt))

	got, err := env.tickets.Get(ctx, ticket.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Client)
	assert.Equal(t, "Second", got.Client.Name)
	assert.True(t, created.Equal(got.CreatedAt))

	stillFirst, err := env.clients.Get(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "First", stillFirst.Name)

	_, err = env.tickets.Update(ctx, ticket.ID, TicketInput{ClientID: "6f1c1f5e-9b51-4a55-9a7e-1f2b3c4d5e6f"})
	requireDomainError(t, err, http.StatusBadRequest, "client not found")
	_, err = env.tickets.Update(ctx, "6f1c1f5e-9b51-4a55-9a7e-1f2b3c4d5e6f", TicketInput{ClientID: second.ID})
	requireDomainError(t, err, http.StatusNotFound, "ticket not found")

	require.NoError(t, env.clients.Delete(ctx, second.ID))
	list, err := env.tickets.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].Client)
	assert.Equal(t, second.ID, list[0].ClientID)

	require.NoError(t, env.tickets.Delete(ctx, ticket.ID))
	requireDomainError(t, env.tickets.Delete(ctx, ticket.ID), http.StatusNotFound, "ticket not found")

	assert.Equal(t, []events.EventType{
		events.EventTicketCreated,
		events.EventTicketUpdated,
		events.EventClientDeleted,
		events.EventTicketDeleted,
	}, env.recorder.types())
}
