package console

import (
	"context"
	"sync"
)

// AuthStatus is the coarse session phase the view layer keys off.
type AuthStatus string

const (
	// StatusChecking means a startup verification is still in flight.
	// Callers must render a waiting indicator, never redirect.
	StatusChecking AuthStatus = "checking"
	// StatusAuthenticated means an admin session is active.
	StatusAuthenticated AuthStatus = "authenticated"
	// StatusUnauthenticated means no valid admin session exists.
	StatusUnauthenticated AuthStatus = "unauthenticated"
)

// AuthState is the reactive snapshot consumed by views and the route guard.
type AuthState struct {
	Status   AuthStatus
	Identity *Identity
	Err      error
}

// AuthOptions configures the AuthController. Every collaborator is provided
// via interface so applications can swap implementations.
type AuthOptions struct {
	Client    AuthClient
	Tokens    TokenStore
	Provider  IdentityProvider
	Broadcast *Broadcast
	Telemetry Telemetry
}

// AuthController orchestrates login, startup verification, and logout, and
// owns the session token store. It is the only writer of the token store.
type AuthController struct {
	opts AuthOptions

	mu      sync.Mutex
	state   AuthState
	attempt uint64
	started bool
}

// NewAuthController builds a controller with safe defaults. The auth client
// is the one required collaborator.
func NewAuthController(opts AuthOptions) (*AuthController, error) {
	if opts.Client == nil {
		return nil, errMissingAuthClient
	}
	if opts.Tokens == nil {
		opts.Tokens = NewMemoryTokenStore()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	return &AuthController{
		opts:  opts,
		state: AuthState{Status: StatusChecking},
	}, nil
}

// State returns the current snapshot.
func (c *AuthController) State() AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Subscribe exposes state transitions through the broadcast hub.
func (c *AuthController) Subscribe() (<-chan Event, func()) {
	if c.opts.Broadcast == nil {
		ch := make(chan Event)
		close(ch)
		return ch, func() {}
	}
	return c.opts.Broadcast.Subscribe()
}

// Start runs the startup verification exactly once per controller and
// returns the resulting state. It never returns an error: every failure
// degrades to unauthenticated with a telemetry record, and the stored token
// is cleared on any path where the backend did not vouch for it.
func (c *AuthController) Start(ctx context.Context) AuthState {
	c.mu.Lock()
	if c.started {
		state := c.state
		c.mu.Unlock()
		return state
	}
	c.started = true
	c.state = AuthState{Status: StatusChecking}
	c.mu.Unlock()

	token, err := c.opts.Tokens.Load()
	if err != nil {
		c.opts.Telemetry.Record(ctx, "console.auth.load_failed", map[string]any{"error": err.Error()})
		return c.setState(AuthState{Status: StatusUnauthenticated})
	}
	if token == "" {
		return c.setState(AuthState{Status: StatusUnauthenticated})
	}

	identity, err := c.opts.Client.Verify(ctx, token)
	if err != nil {
		c.opts.Telemetry.Record(ctx, "console.auth.verify_failed", map[string]any{"error": err.Error()})
		_ = c.opts.Tokens.Clear()
		return c.setState(AuthState{Status: StatusUnauthenticated})
	}
	session := Session{Token: token, Identity: identity}
	if !session.Authorized() {
		c.opts.Telemetry.Record(ctx, "console.auth.role_rejected", map[string]any{"role": string(identity.Role)})
		_ = c.opts.Tokens.Clear()
		return c.setState(AuthState{Status: StatusUnauthenticated})
	}
	c.opts.Telemetry.Record(ctx, "console.auth.restored", map[string]any{"user": identity.Email})
	return c.setState(AuthState{Status: StatusAuthenticated, Identity: &identity})
}

// Login exchanges direct credentials for a session. A newer Login or
// LoginWithProvider call supersedes this one: a response that lost the race
// is discarded without touching state, and Login returns nil so the stale
// caller stays quiet while the winning attempt reports its own outcome.
func (c *AuthController) Login(ctx context.Context, email, password string) error {
	attempt := c.beginAttempt()
	session, err := c.opts.Client.Login(ctx, Credentials{Email: email, Password: password})
	return c.finishAttempt(ctx, attempt, session, err)
}

// LoginWithProvider obtains an assertion from the external identity provider
// and exchanges it with the backend for a session. The same supersession
// discipline as Login applies.
func (c *AuthController) LoginWithProvider(ctx context.Context, email, password string) error {
	if c.opts.Provider == nil {
		return c.Login(ctx, email, password)
	}
	attempt := c.beginAttempt()
	assertion, err := c.opts.Provider.SignIn(ctx, email, password)
	if err != nil {
		return c.finishAttempt(ctx, attempt, Session{}, &NetworkError{Op: "provider sign-in", Err: err})
	}
	session, err := c.opts.Client.ExchangeAssertion(ctx, assertion)
	if err != nil {
		// The provider vouched for the user but the backend refused;
		// drop the provider session so the two cannot drift apart.
		_ = c.opts.Provider.SignOut(ctx)
	}
	return c.finishAttempt(ctx, attempt, session, err)
}

// Logout revokes the external provider session best-effort, clears the
// stored token, and resets state.
func (c *AuthController) Logout(ctx context.Context) {
	if c.opts.Provider != nil {
		_ = c.opts.Provider.SignOut(ctx)
	}
	c.bumpAttempt()
	_ = c.opts.Tokens.Clear()
	c.setState(AuthState{Status: StatusUnauthenticated})
	c.opts.Telemetry.Record(ctx, "console.auth.logout", nil)
}

// Invalidate handles a 401/403 observed on any authenticated call: the
// session is already dead server-side, so clear it locally and transition
// to unauthenticated. Subsequent guard checks fail immediately.
func (c *AuthController) Invalidate(ctx context.Context, cause error) {
	c.bumpAttempt()
	_ = c.opts.Tokens.Clear()
	c.setState(AuthState{Status: StatusUnauthenticated, Err: ErrSessionInvalid})
	payload := map[string]any{}
	if cause != nil {
		payload["cause"] = cause.Error()
	}
	c.opts.Telemetry.Record(ctx, "console.auth.invalidated", payload)
}

// OnSessionInvalid adapts Invalidate to the storeapi hook signature.
func (c *AuthController) OnSessionInvalid(ctx context.Context, cause error) {
	c.Invalidate(ctx, cause)
}

func (c *AuthController) beginAttempt() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attempt++
	return c.attempt
}

func (c *AuthController) bumpAttempt() {
	c.mu.Lock()
	c.attempt++
	c.mu.Unlock()
}

// finishAttempt applies a login outcome iff it belongs to the latest
// attempt. The lock is held from the attempt check through the token save
// and the state write, so an outcome that passed the check can never be
// interleaved with a newer attempt or an invalidation. Stale outcomes are
// dropped wholesale: last dispatch wins, not first response.
func (c *AuthController) finishAttempt(ctx context.Context, attempt uint64, session Session, err error) error {
	c.mu.Lock()
	if attempt != c.attempt {
		c.mu.Unlock()
		c.opts.Telemetry.Record(ctx, "console.auth.stale_discarded", map[string]any{"attempt": attempt})
		return nil
	}

	if err != nil {
		c.commitState(AuthState{Status: StatusUnauthenticated, Err: err})
		c.opts.Telemetry.Record(ctx, "console.auth.login_failed", map[string]any{"error": err.Error()})
		return err
	}
	if !session.Authorized() {
		c.commitState(AuthState{Status: StatusUnauthenticated, Err: ErrNotAuthorized})
		c.opts.Telemetry.Record(ctx, "console.auth.role_rejected", map[string]any{"role": string(session.Identity.Role)})
		return ErrNotAuthorized
	}
	if err := c.opts.Tokens.Save(session.Token); err != nil {
		c.commitState(AuthState{Status: StatusUnauthenticated, Err: err})
		return err
	}
	identity := session.Identity
	c.commitState(AuthState{Status: StatusAuthenticated, Identity: &identity})
	c.opts.Telemetry.Record(ctx, "console.auth.login", map[string]any{"user": identity.Email})
	return nil
}

// commitState stores state and releases the mutex the caller holds, then
// publishes so subscribers never run under the lock.
func (c *AuthController) commitState(state AuthState) {
	c.state = state
	c.mu.Unlock()
	if c.opts.Broadcast != nil {
		publishAuthState(c.opts.Broadcast, state)
	}
}

func (c *AuthController) setState(state AuthState) AuthState {
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
	if c.opts.Broadcast != nil {
		publishAuthState(c.opts.Broadcast, state)
	}
	return state
}
