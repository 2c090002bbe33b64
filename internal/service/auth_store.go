package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/scope"
	"storefront/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrNotSignedIn          = errors.New("not signed in")
	ErrPasswordMismatch     = errors.New("new passwords do not match")
	ErrMissingCredentials   = errors.New("email and password are required")
	ErrSubmissionInProgress = errors.New("submission already in progress")
)

// Demo account accepted by SignIn.
const (
	demoEmail    = "user@example.com"
	demoPassword = "password"
	demoUserID   = "1"
	demoUserName = "Demo User"
)

// userKey is the scope key holding the signed-in user.
const userKey = "user"

// AuthStore is the mock authentication state of one session. The current
// user is kept as JSON in the session scope.
type AuthStore struct {
	scope   scope.Store
	delay   time.Duration
	pending inflight
	logger  *zap.Logger
}

func NewAuthStore(s scope.Store, delay time.Duration) *AuthStore {
	return &AuthStore{
		scope:  s,
		delay:  delay,
		logger: util.GetLogger(),
	}
}

// CurrentUser returns the signed-in user, or nil. Unreadable session data
// counts as signed out.
func (a *AuthStore) CurrentUser(ctx context.Context) *models.User {
	raw, ok, err := a.scope.Get(ctx, userKey)
	if err != nil {
		a.logger.Warn("Failed to read session user", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}

	var u models.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		a.logger.Warn("Discarding malformed session user", zap.Error(err))
		return nil
	}
	return &u
}

// Busy reports whether an auth operation is pending.
func (a *AuthStore) Busy() bool {
	return a.pending.busy("auth")
}

// SignIn accepts only the demo account.
func (a *AuthStore) SignIn(ctx context.Context, email, password string) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "AuthStore.SignIn")
	defer span.End()

	if !a.pending.begin("auth") {
		return nil, ErrSubmissionInProgress
	}
	defer a.pending.end("auth")

	if err := simulateLatency(ctx, a.delay); err != nil {
		return nil, err
	}

	if email != demoEmail || password != demoPassword {
		util.SignInsTotal.WithLabelValues("rejected").Inc()
		return nil, ErrInvalidCredentials
	}

	user := &models.User{ID: demoUserID, Name: demoUserName, Email: email}
	if err := a.save(ctx, user); err != nil {
		return nil, err
	}

	util.SignInsTotal.WithLabelValues("accepted").Inc()
	a.logger.Info("User signed in", zap.String("user_id", user.ID))
	return user, nil
}

// SignUp registers any account and signs it in.
func (a *AuthStore) SignUp(ctx context.Context, email, password, name string) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "AuthStore.SignUp")
	defer span.End()

	if email == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	if !a.pending.begin("auth") {
		return nil, ErrSubmissionInProgress
	}
	defer a.pending.end("auth")

	if err := simulateLatency(ctx, a.delay); err != nil {
		return nil, err
	}

	user := &models.User{ID: uuid.New().String(), Name: name, Email: email}
	if err := a.save(ctx, user); err != nil {
		return nil, err
	}

	a.logger.Info("User signed up", zap.String("user_id", user.ID))
	return user, nil
}

// SignOut forgets the current user.
func (a *AuthStore) SignOut(ctx context.Context) error {
	if err := a.scope.Remove(ctx, userKey); err != nil {
		return fmt.Errorf("failed to sign out: %w", err)
	}
	return nil
}

// UpdateProfile changes the name and email of the current user.
func (a *AuthStore) UpdateProfile(ctx context.Context, name, email string) (*models.User, error) {
	ctx, span := util.StartSpan(ctx, "AuthStore.UpdateProfile")
	defer span.End()

	user := a.CurrentUser(ctx)
	if user == nil {
		return nil, ErrNotSignedIn
	}

	if !a.pending.begin("auth") {
		return nil, ErrSubmissionInProgress
	}
	defer a.pending.end("auth")

	if err := simulateLatency(ctx, a.delay); err != nil {
		return nil, err
	}

	user.Name = name
	user.Email = email
	if err := a.save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdatePassword only checks that the confirmation matches; no password
// is stored.
func (a *AuthStore) UpdatePassword(ctx context.Context, current, next, confirm string) error {
	ctx, span := util.StartSpan(ctx, "AuthStore.UpdatePassword")
	defer span.End()

	if a.CurrentUser(ctx) == nil {
		return ErrNotSignedIn
	}
	if next != confirm {
		return ErrPasswordMismatch
	}

	if !a.pending.begin("auth") {
		return ErrSubmissionInProgress
	}
	defer a.pending.end("auth")

	return simulateLatency(ctx, a.delay)
}

func (a *AuthStore) save(ctx context.Context, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := a.scope.Set(ctx, userKey, string(raw)); err != nil {
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}
