package service

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"menugenius/domain"
	"menugenius/kiosk/internal/state"
	"menugenius/kiosk/internal/storage"
	"menugenius/token"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	DefaultSessionDuration = 8 * time.Hour
	ExpiryWarningWindow    = 5 * time.Minute
	minPasswordLength      = 6
)

// credential is one row of the demo credential table. Passwords are held and
// compared in plain text; this stub is not a secret handling design and must
// be replaced by a real identity provider before production use.
type credential struct {
	password string
	user     domain.User
}

type AuthConfig struct {
	Secret          []byte
	SessionDuration time.Duration
	Now             func() time.Time
	AfterFunc       AfterFunc
}

// Auth is the single slot session holder for kitchen staff.
type Auth struct {
	session   storage.KV
	local     storage.KV
	logger    *zap.Logger
	secret    []byte
	duration  time.Duration
	now       func() time.Time
	afterFunc AfterFunc

	mu         sync.Mutex
	users      map[string]credential
	timer      Timer
	generation uint64
	current    *state.Cell[*domain.Session]
}

func NewAuth(sessionStore, localStore storage.KV, logger *zap.Logger, cfg AuthConfig) *Auth {
	if cfg.SessionDuration <= 0 {
		cfg.SessionDuration = DefaultSessionDuration
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.AfterFunc == nil {
		cfg.AfterFunc = func(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
	}
	return &Auth{
		session:   sessionStore,
		local:     localStore,
		logger:    logger,
		secret:    cfg.Secret,
		duration:  cfg.SessionDuration,
		now:       cfg.Now,
		afterFunc: cfg.AfterFunc,
		users:     defaultUsers(cfg.Now()),
		current:   state.NewCell[*domain.Session](nil),
	}
}

func defaultUsers(createdAt time.Time) map[string]credential {
	users := make(map[string]credential)
	add := func(username, password, fullName, email string, role domain.Role) {
		users[username] = credential{
			password: password,
			user: domain.User{
				Username:    username,
				FullName:    fullName,
				Role:        role,
				Email:       email,
				Permissions: domain.PermissionsFor(role),
				CreatedAt:   createdAt,
			},
		}
	}
	add("admin", "admin123", "Admin User", "admin@menugenius.com", domain.RoleAdmin)
	add("kitchen", "kitchen123", "Kitchen Manager", "kitchen@menugenius.com", domain.RoleKitchen)
	add("staff", "staff123", "Staff Member", "staff@menugenius.com", domain.RoleStaff)
	return users
}

func (a *Auth) SessionStream() state.Observable[*domain.Session] {
	return a.current
}

// Login checks the credential table. Unknown users and wrong passwords fail
// with the same error.
func (a *Auth) Login(username, password string) (domain.Session, error) {
	username = normalizeUsername(username)
	password = strings.TrimSpace(password)
	if username == "" || password == "" {
		return domain.Session{}, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	cred, ok := a.users[username]
	expected := cred.password
	if !ok {
		expected = "\x00" + password
	}
	match := subtle.ConstantTimeCompare([]byte(password), []byte(expected)) == 1
	if !ok || !match {
		a.logger.Info("kitchen login rejected")
		return domain.Session{}, domain.ErrInvalidCredentials
	}

	now := a.now()
	user := cred.user
	user.ID = uuid.NewString()
	user.Permissions = append([]string(nil), cred.user.Permissions...)
	user.LastLogin = &now

	session, err := a.issueLocked(user)
	if err != nil {
		return domain.Session{}, err
	}
	a.logger.Info("kitchen login", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return session, nil
}

func (a *Auth) Logout() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.clearLocked()
}

// Restore picks up a session left by a previous run. A live session is
// resumed as is. An expired one is discarded. Without any session entry the
// durable user copy starts a fresh session.
func (a *Auth) Restore() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	var session domain.Session
	err := storage.GetJSON(a.session, storage.KeyAuthSession, &session)
	switch {
	case err == nil:
		if session.Expired(a.now()) {
			a.clearLocked()
			return false
		}
		a.current.Set(&session)
		a.armTimerLocked(session.ExpiresAt.Sub(a.now()))
		return true
	case !errors.Is(err, storage.ErrNotFound):
		a.logger.Warn("failed to load session", zap.Error(err))
	}

	var user domain.User
	if err := storage.GetJSON(a.local, storage.KeyAuthUser, &user); err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			a.logger.Warn("failed to load stored user", zap.Error(err))
			a.clearLocked()
		}
		return false
	}
	cred, ok := a.users[user.Username]
	if !ok {
		a.clearLocked()
		return false
	}
	user.Role = cred.user.Role
	user.Permissions = append([]string(nil), cred.user.Permissions...)
	if _, err := a.issueLocked(user); err != nil {
		a.logger.Warn("failed to restore session", zap.Error(err))
		a.clearLocked()
		return false
	}
	return true
}

// IsAuthenticated reports whether a session exists and has not expired. An
// expired session found here is cleared.
func (a *Auth) IsAuthenticated() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.liveLocked() != nil
}

func (a *Auth) CurrentSession() (domain.Session, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.liveLocked()
	if s == nil {
		return domain.Session{}, false
	}
	return *s, true
}

func (a *Auth) CurrentUser() *domain.User {
	s, ok := a.CurrentSession()
	if !ok {
		return nil
	}
	return &s.User
}

// Token returns the bearer token of the live session.
func (a *Auth) Token() (string, error) {
	s, ok := a.CurrentSession()
	if !ok {
		return "", domain.ErrUnauthorized
	}
	return s.Token, nil
}

// Touch records user activity and pushes the expiry out by a full session
// duration.
func (a *Auth) Touch() {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.liveLocked()
	if s == nil {
		return
	}
	renewed := *s
	renewed.ExpiresAt = a.now().Add(a.duration)
	a.storeLocked(renewed)
	a.current.Set(&renewed)
	a.armTimerLocked(a.duration)
}

// ExtendSession issues a new token with a full session duration.
func (a *Auth) ExtendSession() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.liveLocked()
	if s == nil {
		return domain.ErrUnauthorized
	}
	_, err := a.issueLocked(s.User)
	return err
}

func (a *Auth) TimeRemaining() time.Duration {
	s, ok := a.CurrentSession()
	if !ok {
		return 0
	}
	if d := s.ExpiresAt.Sub(a.now()); d > 0 {
		return d
	}
	return 0
}

func (a *Auth) AboutToExpire() bool {
	remaining := a.TimeRemaining()
	return remaining > 0 && remaining < ExpiryWarningWindow
}

func (a *Auth) HasPermission(permission string) bool {
	u := a.CurrentUser()
	return u != nil && u.HasPermission(permission)
}

func (a *Auth) HasAnyPermission(permissions ...string) bool {
	u := a.CurrentUser()
	if u == nil {
		return false
	}
	for _, p := range permissions {
		if u.HasPermission(p) {
			return true
		}
	}
	return false
}

func (a *Auth) HasAllPermissions(permissions ...string) bool {
	u := a.CurrentUser()
	if u == nil {
		return false
	}
	for _, p := range permissions {
		if !u.HasPermission(p) {
			return false
		}
	}
	return true
}

func (a *Auth) CanAccessKitchen() bool {
	u := a.CurrentUser()
	if u == nil {
		return false
	}
	_, err := domain.ParseRole(string(u.Role))
	return err == nil
}

type NewUser struct {
	Username string
	Password string
	FullName string
	Role     domain.Role
	Email    string
}

func (a *Auth) RegisterUser(nu NewUser) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireAdminLocked("register users"); err != nil {
		return err
	}
	username := normalizeUsername(nu.Username)
	if username == "" || nu.Password == "" || strings.TrimSpace(nu.FullName) == "" {
		return fmt.Errorf("%w: all required fields must be filled", domain.ErrValidation)
	}
	role, err := domain.ParseRole(string(nu.Role))
	if err != nil {
		return err
	}
	if _, exists := a.users[username]; exists {
		return fmt.Errorf("%w: username already exists", domain.ErrValidation)
	}

	a.users[username] = credential{
		password: nu.Password,
		user: domain.User{
			Username:    username,
			FullName:    strings.TrimSpace(nu.FullName),
			Role:        role,
			Email:       nu.Email,
			Permissions: domain.PermissionsFor(role),
			CreatedAt:   a.now(),
		},
	}
	return nil
}

func (a *Auth) DeleteUser(username string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireAdminLocked("delete users"); err != nil {
		return err
	}
	username = normalizeUsername(username)
	if username == a.current.Get().User.Username {
		return fmt.Errorf("%w: you cannot delete your own account", domain.ErrValidation)
	}
	if _, ok := a.users[username]; !ok {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
	}
	delete(a.users, username)
	return nil
}

func (a *Auth) UpdateUserRole(username string, role domain.Role) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireAdminLocked("update user roles"); err != nil {
		return err
	}
	role, err := domain.ParseRole(string(role))
	if err != nil {
		return err
	}
	username = normalizeUsername(username)
	cred, ok := a.users[username]
	if !ok {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, username)
	}
	cred.user.Role = role
	cred.user.Permissions = domain.PermissionsFor(role)
	a.users[username] = cred
	return nil
}

func (a *Auth) ListUsers() ([]domain.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.requireAdminLocked("list users"); err != nil {
		return nil, err
	}
	users := make([]domain.User, 0, len(a.users))
	for _, cred := range a.users {
		u := cred.user
		u.Permissions = append([]string(nil), u.Permissions...)
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (a *Auth) ChangePassword(currentPassword, newPassword string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	s := a.liveLocked()
	if s == nil {
		return domain.ErrUnauthorized
	}
	cred, ok := a.users[s.User.Username]
	if !ok {
		return fmt.Errorf("%w: user %s", domain.ErrNotFound, s.User.Username)
	}
	if subtle.ConstantTimeCompare([]byte(currentPassword), []byte(cred.password)) != 1 {
		return fmt.Errorf("%w: current password is incorrect", domain.ErrValidation)
	}
	if len(newPassword) < minPasswordLength {
		return fmt.Errorf("%w: new password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	cred.password = newPassword
	a.users[s.User.Username] = cred
	return nil
}

func (a *Auth) requireAdminLocked(action string) error {
	s := a.liveLocked()
	if s == nil || s.User.Role != domain.RoleAdmin {
		return fmt.Errorf("%w: only administrators can %s", domain.ErrUnauthorized, action)
	}
	return nil
}

func (a *Auth) liveLocked() *domain.Session {
	s := a.current.Get()
	if s == nil {
		return nil
	}
	if s.Expired(a.now()) {
		a.logger.Info("session expired", zap.String("username", s.User.Username))
		a.clearLocked()
		return nil
	}
	return s
}

func (a *Auth) issueLocked(user domain.User) (domain.Session, error) {
	now := a.now()
	expiresAt := now.Add(a.duration)
	signed, err := token.Issue(a.secret, user, now, expiresAt)
	if err != nil {
		return domain.Session{}, err
	}
	session := domain.Session{User: user, Token: signed, ExpiresAt: expiresAt}
	a.storeLocked(session)
	a.current.Set(&session)
	a.armTimerLocked(a.duration)
	return session, nil
}

func (a *Auth) storeLocked(session domain.Session) {
	if err := storage.SetJSON(a.local, storage.KeyAuthUser, session.User); err != nil {
		a.logger.Warn("failed to store user", zap.Error(err))
	}
	if err := storage.SetJSON(a.session, storage.KeyAuthSession, session); err != nil {
		a.logger.Warn("failed to store session", zap.Error(err))
	}
}

func (a *Auth) clearLocked() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.generation++
	if err := a.local.Delete(storage.KeyAuthUser); err != nil {
		a.logger.Warn("failed to clear stored user", zap.Error(err))
	}
	if err := a.session.Delete(storage.KeyAuthSession); err != nil {
		a.logger.Warn("failed to clear session", zap.Error(err))
	}
	if a.current.Get() != nil {
		a.current.Set(nil)
	}
}

// armTimerLocked replaces the expiry timer. A timer that fires after being
// replaced finds a newer generation and does nothing.
func (a *Auth) armTimerLocked(d time.Duration) {
	if a.timer != nil {
		a.timer.Stop()
	}
	a.generation++
	gen := a.generation
	a.timer = a.afterFunc(d, func() { a.expire(gen) })
}

func (a *Auth) expire(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if gen != a.generation {
		return
	}
	a.logger.Info("session timed out")
	a.clearLocked()
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
