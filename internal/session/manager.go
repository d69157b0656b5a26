// Package session holds the ambient authentication session: one owned,
// process-wide state object mutated only by the Manager and exposed to
// consumers as immutable snapshots.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	domainauth "github.com/hrnova/ui-api/internal/domain/auth"
	"github.com/hrnova/ui-api/internal/ports"
)

// Snapshot is a value copy of the session state.
// Invariant: once IsLoading is false, IsAuthenticated == (User != nil).
type Snapshot struct {
	User            *domainauth.User
	IsAuthenticated bool
	IsLoading       bool
}

// Options groups dependencies for the Manager.
type Options struct {
	Provider    ports.IdentityProvider
	Credentials ports.CredentialStore
	Roles       ports.RoleMapper
	Policy      *domainauth.Policy
	Logger      *slog.Logger
}

// Manager is the only component permitted to mutate the ambient session.
// It lives for the process lifetime. Overlapping mutations carry a monotonic
// generation counter; a completion whose generation is stale mutates neither
// the in-memory state nor the persisted credential keys, though its result
// still reaches its own caller.
type Manager struct {
	provider ports.IdentityProvider
	creds    ports.CredentialStore
	roles    ports.RoleMapper
	policy   *domainauth.Policy
	logger   *slog.Logger

	mu         sync.Mutex
	user       *domainauth.User
	loading    bool
	generation uint64
	nextSubID  int
	subs       map[int]func(Snapshot)
}

// NewManager constructs a Manager in the bootstrapping state
// (loading, no user) until Bootstrap completes.
func NewManager(opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	policy := opts.Policy
	if policy == nil {
		policy = domainauth.DefaultPolicy()
	}
	return &Manager{
		provider: opts.Provider,
		creds:    opts.Credentials,
		roles:    opts.Roles,
		policy:   policy,
		logger:   logger,
		loading:  true,
		subs:     make(map[int]func(Snapshot)),
	}
}

// Bootstrap restores the session from the persisted token. All failures
// (no stored token, network error, malformed claims) are absorbed into the
// unauthenticated state; no error escapes. The loading flag always clears.
func (m *Manager) Bootstrap(ctx context.Context) {
	gen := m.begin()

	token, err := m.creds.LoadToken(ctx)
	if err != nil {
		if !errors.Is(err, ports.ErrNoCredentials) {
			m.logger.Warn("session bootstrap: load token failed", "error", err)
		}
		m.commit(ctx, gen, nil, "")
		return
	}

	claims, err := m.provider.CurrentSession(ctx, token)
	if err != nil {
		m.logger.Warn("session bootstrap: no current session", "error", err)
		m.commit(ctx, gen, nil, "")
		return
	}

	user, ok := domainauth.NewUser(claims, m.roles.Map(claims.Groups))
	if !ok {
		m.commit(ctx, gen, nil, "")
		return
	}

	m.commit(ctx, gen, &user, token)
}

// Login submits credentials to the identity provider. On success the mapped
// User is returned and becomes the session user; on failure the session rolls
// back to unauthenticated and the error is returned for the caller to render.
func (m *Manager) Login(ctx context.Context, identifier, secret string) (domainauth.User, error) {
	gen := m.begin()

	res, err := m.provider.SignIn(ctx, identifier, secret)
	if err != nil {
		m.commit(ctx, gen, nil, "")
		return domainauth.User{}, fmt.Errorf("sign in: %w", err)
	}

	user, ok := domainauth.NewUser(res.Claims, m.roles.Map(res.Claims.Groups))
	if !ok {
		m.commit(ctx, gen, nil, "")
		return domainauth.User{}, errors.New("sign in: claims carry no subject")
	}

	m.commit(ctx, gen, &user, res.Token)
	return user, nil
}

// Logout terminates the session. The remote sign-out is best effort; local
// state and persisted keys are cleared regardless of its outcome.
func (m *Manager) Logout(ctx context.Context) {
	gen := m.begin()

	if token, err := m.creds.LoadToken(ctx); err == nil && token != "" {
		if signOutErr := m.provider.SignOut(ctx, token); signOutErr != nil {
			m.logger.Warn("session logout: remote sign-out failed", "error", signOutErr)
		}
	}

	m.commit(ctx, gen, nil, "")
}

// HasRole reports whether a user is present and its role is in the given set.
func (m *Manager) HasRole(roles ...domainauth.Role) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return false
	}
	for _, r := range roles {
		if m.user.Role == r {
			return true
		}
	}
	return false
}

// CanAccessModule reports whether a user is present and the policy table
// grants its role access to the module.
func (m *Manager) CanAccessModule(module domainauth.Module) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return false
	}
	return m.policy.CanAccess(m.user.Role, module)
}

// Snapshot returns a value copy of the current session state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Subscribe registers fn to be called after every state change with a fresh
// snapshot. The returned function removes the subscription.
func (m *Manager) Subscribe(fn func(Snapshot)) func() {
	m.mu.Lock()
	id := m.nextSubID
	m.nextSubID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// begin marks the start of a mutating operation and returns its generation.
func (m *Manager) begin() uint64 {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.loading = true
	m.mu.Unlock()
	m.notify()
	return gen
}

// commit applies the operation's outcome unless a later operation has started
// since. The credential keys mirror the in-memory user, so both move inside
// the same generation-guarded critical section; a stale completion touches
// neither.
func (m *Manager) commit(ctx context.Context, gen uint64, user *domainauth.User, token string) {
	m.mu.Lock()
	if gen != m.generation {
		m.mu.Unlock()
		return
	}
	if user != nil {
		m.persist(ctx, *user, token)
	} else {
		m.clearPersisted(ctx)
	}
	m.user = user
	m.loading = false
	m.mu.Unlock()
	m.notify()
}

func (m *Manager) persist(ctx context.Context, user domainauth.User, token string) {
	if err := m.creds.SaveUser(ctx, user); err != nil {
		m.logger.Warn("session: persist user failed", "error", err)
	}
	if err := m.creds.SaveToken(ctx, token); err != nil {
		m.logger.Warn("session: persist token failed", "error", err)
	}
}

func (m *Manager) clearPersisted(ctx context.Context) {
	if err := m.creds.Clear(ctx); err != nil {
		m.logger.Warn("session: clear credentials failed", "error", err)
	}
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{
		IsAuthenticated: m.user != nil,
		IsLoading:       m.loading,
	}
	if m.user != nil {
		u := *m.user
		snap.User = &u
	}
	return snap
}

func (m *Manager) notify() {
	m.mu.Lock()
	snap := m.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
