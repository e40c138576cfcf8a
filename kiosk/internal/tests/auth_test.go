package tests

import (
	"sync"
	"testing"
	"time"

	"menugenius/domain"
	"menugenius/kiosk/internal/service"
	"menugenius/kiosk/internal/storage"
	"menugenius/token"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

var testSecret = []byte("test-secret")

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fakeTimer struct {
	f       func()
	d       time.Duration
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

type timerLog struct {
	timers []*fakeTimer
}

func (l *timerLog) AfterFunc(d time.Duration, f func()) service.Timer {
	ft := &fakeTimer{f: f, d: d}
	l.timers = append(l.timers, ft)
	return ft
}

func (l *timerLog) last() *fakeTimer {
	return l.timers[len(l.timers)-1]
}

type authFixture struct {
	auth    *service.Auth
	session *storage.MemoryStore
	local   *storage.MemoryStore
	clock   *fakeClock
	timers  *timerLog
}

// newAuthFixture starts the clock at wall time so issued tokens still parse.
func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		session: storage.NewMemoryStore(),
		local:   storage.NewMemoryStore(),
		clock:   &fakeClock{now: time.Now()},
		timers:  &timerLog{},
	}
	f.auth = f.newAuth()
	return f
}

func (f *authFixture) newAuth() *service.Auth {
	return service.NewAuth(f.session, f.local, zap.NewNop(), service.AuthConfig{
		Secret:          testSecret,
		SessionDuration: time.Hour,
		Now:             f.clock.Now,
		AfterFunc:       f.timers.AfterFunc,
	})
}

func (f *authFixture) assertCleared(t *testing.T) {
	t.Helper()
	assert.False(t, f.auth.IsAuthenticated())
	_, err := f.session.Get(storage.KeyAuthSession)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = f.local.Get(storage.KeyAuthUser)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestAuth_LoginIssuesSession(t *testing.T) {
	f := newAuthFixture(t)

	session, err := f.auth.Login("  Admin ", "admin123")
	require.NoError(t, err)

	assert.Equal(t, "admin", session.User.Username)
	assert.Equal(t, domain.RoleAdmin, session.User.Role)
	assert.Equal(t, f.clock.Now().Add(time.Hour), session.ExpiresAt)
	require.NotNil(t, session.User.LastLogin)
	assert.True(t, f.auth.IsAuthenticated())
	assert.True(t, f.auth.CanAccessKitchen())

	claims, err := token.Parse(testSecret, session.Token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.True(t, claims.HasPermission(domain.PermManageStaff))

	raw, err := f.auth.Token()
	require.NoError(t, err)
	assert.Equal(t, session.Token, raw)

	var stored domain.Session
	require.NoError(t, storage.GetJSON(f.session, storage.KeyAuthSession, &stored))
	assert.Equal(t, session.Token, stored.Token)
	var user domain.User
	require.NoError(t, storage.GetJSON(f.local, storage.KeyAuthUser, &user))
	assert.Equal(t, "admin", user.Username)

	require.Len(t, f.timers.timers, 1)
	assert.Equal(t, time.Hour, f.timers.last().d)
}

func TestAuth_LoginFailures(t *testing.T) {
	tests := []struct {
		name        string
		username    string
		password    string
		expectedErr error
	}{
		{name: "wrong password", username: "kitchen", password: "nope", expectedErr: domain.ErrInvalidCredentials},
		{name: "unknown user", username: "ghost", password: "kitchen123", expectedErr: domain.ErrInvalidCredentials},
		{name: "empty username", username: "  ", password: "x", expectedErr: domain.ErrValidation},
		{name: "empty password", username: "staff", password: "", expectedErr: domain.ErrValidation},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newAuthFixture(t)

			_, err := f.auth.Login(testCase.username, testCase.password)
			assert.ErrorIs(t, err, testCase.expectedErr)
			f.assertCleared(t)
			assert.Empty(t, f.timers.timers)
		})
	}
}

func TestAuth_WrongPasswordAndUnknownUserLookAlike(t *testing.T) {
	f := newAuthFixture(t)

	_, wrong := f.auth.Login("staff", "bad-password")
	_, unknown := f.auth.Login("nobody", "bad-password")
	assert.Equal(t, wrong.Error(), unknown.Error())
	assert.Equal(t, domain.UserMessage(wrong), domain.UserMessage(unknown))
}

func TestAuth_ExpiresByClock(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.auth.Login("staff", "staff123")
	require.NoError(t, err)

	f.clock.Advance(59 * time.Minute)
	assert.True(t, f.auth.IsAuthenticated())

	f.clock.Advance(time.Minute)
	f.assertCleared(t)
	assert.Nil(t, f.auth.CurrentUser())
	_, err = f.auth.Token()
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestAuth_ExpiresByTimer(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.auth.Login("kitchen", "kitchen123")
	require.NoError(t, err)

	var seen []*domain.Session
	f.auth.SessionStream().Subscribe(func(s *domain.Session) { seen = append(seen, s) })

	f.timers.last().f()

	f.assertCleared(t)
	require.Len(t, seen, 2)
	assert.NotNil(t, seen[0])
	assert.Nil(t, seen[1])
}

func TestAuth_TouchResetsExpiryAndRetiresOldTimer(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.auth.Login("staff", "staff123")
	require.NoError(t, err)
	first := f.timers.last()

	f.clock.Advance(50 * time.Minute)
	f.auth.Touch()

	session, ok := f.auth.CurrentSession()
	require.True(t, ok)
	assert.Equal(t, f.clock.Now().Add(time.Hour), session.ExpiresAt)
	assert.True(t, first.stopped)
	require.Len(t, f.timers.timers, 2)

	first.f()
	assert.True(t, f.auth.IsAuthenticated())

	f.clock.Advance(30 * time.Minute)
	assert.True(t, f.auth.IsAuthenticated())

	var stored domain.Session
	require.NoError(t, storage.GetJSON(f.session, storage.KeyAuthSession, &stored))
	assert.True(t, session.ExpiresAt.Equal(stored.ExpiresAt))
}

func TestAuth_ExtendSessionIssuesNewToken(t *testing.T) {
	f := newAuthFixture(t)
	assert.ErrorIs(t, f.auth.ExtendSession(), domain.ErrUnauthorized)

	before, err := f.auth.Login("admin", "admin123")
	require.NoError(t, err)

	f.clock.Advance(10 * time.Minute)
	require.NoError(t, f.auth.ExtendSession())

	after, ok := f.auth.CurrentSession()
	require.True(t, ok)
	assert.NotEqual(t, before.Token, after.Token)
	assert.True(t, after.ExpiresAt.After(before.ExpiresAt))
}

func TestAuth_TimeRemainingAndAboutToExpire(t *testing.T) {
	f := newAuthFixture(t)
	assert.Zero(t, f.auth.TimeRemaining())
	assert.False(t, f.auth.AboutToExpire())

	_, err := f.auth.Login("staff", "staff123")
	require.NoError(t, err)
	assert.Equal(t, time.Hour, f.auth.TimeRemaining())
	assert.False(t, f.auth.AboutToExpire())

	f.clock.Advance(56 * time.Minute)
	assert.Equal(t, 4*time.Minute, f.auth.TimeRemaining())
	assert.True(t, f.auth.AboutToExpire())
}

func TestAuth_Restore(t *testing.T) {
	t.Run("live session resumes", func(t *testing.T) {
		f := newAuthFixture(t)
		original, err := f.auth.Login("kitchen", "kitchen123")
		require.NoError(t, err)

		f.clock.Advance(20 * time.Minute)
		restored := f.newAuth()
		require.True(t, restored.Restore())

		session, ok := restored.CurrentSession()
		require.True(t, ok)
		assert.Equal(t, original.Token, session.Token)
		assert.Equal(t, 40*time.Minute, f.timers.last().d)
	})

	t.Run("expired session is discarded", func(t *testing.T) {
		f := newAuthFixture(t)
		_, err := f.auth.Login("kitchen", "kitchen123")
		require.NoError(t, err)

		f.clock.Advance(2 * time.Hour)
		f.auth = f.newAuth()
		assert.False(t, f.auth.Restore())
		f.assertCleared(t)
	})

	t.Run("stored user starts a fresh session", func(t *testing.T) {
		f := newAuthFixture(t)
		require.NoError(t, storage.SetJSON(f.local, storage.KeyAuthUser, domain.User{
			Username: "staff",
			FullName: "Staff Member",
			Role:     domain.RoleAdmin,
		}))

		require.True(t, f.auth.Restore())
		user := f.auth.CurrentUser()
		require.NotNil(t, user)
		assert.Equal(t, domain.RoleStaff, user.Role)
		assert.False(t, f.auth.HasPermission(domain.PermManageStaff))
	})

	t.Run("stored user no longer known", func(t *testing.T) {
		f := newAuthFixture(t)
		require.NoError(t, storage.SetJSON(f.local, storage.KeyAuthUser, domain.User{Username: "ghost"}))

		assert.False(t, f.auth.Restore())
		f.assertCleared(t)
	})

	t.Run("nothing stored", func(t *testing.T) {
		f := newAuthFixture(t)
		assert.False(t, f.auth.Restore())
		assert.False(t, f.auth.IsAuthenticated())
	})
}

func TestAuth_Logout(t *testing.T) {
	f := newAuthFixture(t)
	_, err := f.auth.Login("admin", "admin123")
	require.NoError(t, err)
	timer := f.timers.last()

	f.auth.Logout()

	f.assertCleared(t)
	assert.True(t, timer.stopped)
	assert.False(t, f.auth.CanAccessKitchen())
}

func TestAuth_Permissions(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
		any      []string
		all      []string
		wantAny  bool
		wantAll  bool
	}{
		{
			name: "staff", username: "staff", password: "staff123",
			any: []string{domain.PermManageMenu, domain.PermViewOrders}, all: []string{domain.PermViewOrders, domain.PermViewMenu},
			wantAny: true, wantAll: false,
		},
		{
			name: "kitchen", username: "kitchen", password: "kitchen123",
			any: []string{domain.PermManageStaff, domain.PermViewStaff}, all: []string{domain.PermManageOrders, domain.PermManageMenu},
			wantAny: false, wantAll: true,
		},
		{
			name: "admin", username: "admin", password: "admin123",
			any: []string{domain.PermManageStaff}, all: []string{domain.PermViewStaff, domain.PermManageStaff, domain.PermManageOrders},
			wantAny: true, wantAll: true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			f := newAuthFixture(t)
			_, err := f.auth.Login(testCase.username, testCase.password)
			require.NoError(t, err)

			assert.Equal(t, testCase.wantAny, f.auth.HasAnyPermission(testCase.any...))
			assert.Equal(t, testCase.wantAll, f.auth.HasAllPermissions(testCase.all...))
			assert.True(t, f.auth.HasPermission(domain.PermViewOrders))
		})
	}

	f := newAuthFixture(t)
	assert.False(t, f.auth.HasPermission(domain.PermViewOrders))
	assert.False(t, f.auth.HasAnyPermission(domain.PermViewOrders))
	assert.False(t, f.auth.HasAllPermissions())
}

func TestAuth_AdminOperations(t *testing.T) {
	f := newAuthFixture(t)

	_, err := f.auth.ListUsers()
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.auth.Login("kitchen", "kitchen123")
	require.NoError(t, err)
	assert.ErrorIs(t, f.auth.RegisterUser(service.NewUser{Username: "x", Password: "secret1", FullName: "X", Role: domain.RoleStaff}), domain.ErrUnauthorized)

	_, err = f.auth.Login("admin", "admin123")
	require.NoError(t, err)

	require.NoError(t, f.auth.RegisterUser(service.NewUser{Username: " Chef ", Password: "chef1234", FullName: "Head Chef", Role: domain.RoleKitchen}))
	assert.ErrorIs(t, f.auth.RegisterUser(service.NewUser{Username: "chef", Password: "other1", FullName: "Dup", Role: domain.RoleStaff}), domain.ErrValidation)
	assert.ErrorIs(t, f.auth.RegisterUser(service.NewUser{Username: "bad", Password: "pw1234", FullName: "Bad", Role: "owner"}), domain.ErrValidation)
	assert.ErrorIs(t, f.auth.RegisterUser(service.NewUser{Username: "blank", Password: "pw1234"}), domain.ErrValidation)

	users, err := f.auth.ListUsers()
	require.NoError(t, err)
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	assert.Equal(t, []string{"admin", "chef", "kitchen", "staff"}, names)

	require.NoError(t, f.auth.UpdateUserRole("chef", domain.RoleStaff))
	assert.ErrorIs(t, f.auth.UpdateUserRole("ghost", domain.RoleStaff), domain.ErrNotFound)
	assert.ErrorIs(t, f.auth.UpdateUserRole("chef", "owner"), domain.ErrValidation)

	assert.ErrorIs(t, f.auth.DeleteUser("admin"), domain.ErrValidation)
	assert.ErrorIs(t, f.auth.DeleteUser("ghost"), domain.ErrNotFound)
	require.NoError(t, f.auth.DeleteUser("staff"))

	f.auth.Logout()
	session, err := f.auth.Login("chef", "chef1234")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleStaff, session.User.Role)

	_, err = f.auth.Login("staff", "staff123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestAuth_ChangePassword(t *testing.T) {
	f := newAuthFixture(t)
	assert.ErrorIs(t, f.auth.ChangePassword("staff123", "another1"), domain.ErrUnauthorized)

	_, err := f.auth.Login("staff", "staff123")
	require.NoError(t, err)

	assert.ErrorIs(t, f.auth.ChangePassword("wrong", "another1"), domain.ErrValidation)
	assert.ErrorIs(t, f.auth.ChangePassword("staff123", "short"), domain.ErrValidation)
	require.NoError(t, f.auth.ChangePassword("staff123", "another1"))

	f.auth.Logout()
	_, err = f.auth.Login("staff", "staff123")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.auth.Login("staff", "another1")
	require.NoError(t, err)
}
