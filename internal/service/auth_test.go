package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"elivtory/inventory-api/config"
	"elivtory/inventory-api/db"
	"elivtory/inventory-api/internal/model"
	"elivtory/inventory-api/internal/store"
	"elivtory/inventory-api/pkg/security"
	"elivtory/inventory-api/pkg/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []*Mail
	err  error
}

func (m *recordingMailer) Send(_ context.Context, mail *Mail) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.err != nil {
		return m.err
	}

	m.sent = append(m.sent, mail)
	return nil
}

func (m *recordingMailer) last(t *testing.T) *Mail {
	t.Helper()

	m.mu.Lock()
	defer m.mu.Unlock()

	require.NotEmpty(t, m.sent, "no mail was sent")
	return m.sent[len(m.sent)-1]
}

var resetLink = regexp.MustCompile(`href="https://app\.example/resetpassword/([^"]+)"`)

func (m *recordingMailer) resetToken(t *testing.T) string {
	t.Helper()

	match := resetLink.FindStringSubmatch(m.last(t).HTMLBody)
	require.Len(t, match, 2, "mail does not contain a reset link")
	return match[1]
}

type fixture struct {
	db     *gorm.DB
	auth   *Auth
	store  *store.Store
	mailer *recordingMailer
	cfg    *config.Config
}

func testConfig() *config.Config {
	return &config.Config{
		Frontend: config.Frontend{URL: "https://app.example/"},
		Session: config.Session{
			Secret:       "test-secret",
			TTL:          30 * 24 * time.Hour,
			CookieName:   "token",
			CookieSecure: true,
		},
		Reset: config.Reset{TTL: 30 * time.Minute},
		Mail: config.Mail{
			From:           "noreply@app.example",
			SupportAddress: "support@app.example",
		},
		Security: config.Security{
			Argon: config.Argon{Memory: 1024, Iterations: 1, Parallelism: 1},
		},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := db.New(config.Database{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", util.RandStr(12)),
	})
	require.NoError(t, err)

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	cfg := testConfig()
	s := store.New(conn)
	m := &recordingMailer{}

	return &fixture{
		db:     conn,
		auth:   NewAuth(cfg, s, security.NewArgon(cfg.Security.Argon), security.NewSessionIssuer(cfg.Session), m),
		store:  s,
		mailer: m,
		cfg:    cfg,
	}
}

func (f *fixture) register(t *testing.T, name, email, password string) *Session {
	t.Helper()

	s, err := f.auth.Register(context.Background(), RegisterInput{Name: name, Email: email, Password: password})
	require.NoError(t, err)
	return s
}

func TestRegister(t *testing.T) {
	f := newFixture(t)

	s := f.register(t, "Ana", "ana@x.com", "secret1")

	assert.NotEmpty(t, s.Profile.ID)
	assert.Equal(t, "Ana", s.Profile.Name)
	assert.Equal(t, "ana@x.com", s.Profile.Email)
	assert.Equal(t, model.DefaultPhoto, s.Profile.Photo)
	assert.Equal(t, model.DefaultPhone, s.Profile.Phone)
	assert.Equal(t, model.DefaultBio, s.Profile.Bio)
	assert.True(t, f.auth.LoginStatus(s.Token))

	stored, err := f.store.Users().FindByID(context.Background(), s.Profile.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$argon2id$"))
}

func TestRegister_NormalizesEmail(t *testing.T) {
	f := newFixture(t)

	s := f.register(t, "  Ana ", " Ana@X.com ", "secret1")
	assert.Equal(t, "ana@x.com", s.Profile.Email)
	assert.Equal(t, "Ana", s.Profile.Name)

	_, err := f.auth.Login(context.Background(), "ANA@x.com", "secret1")
	assert.NoError(t, err)
}

func TestRegister_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, in := range []RegisterInput{
		{Email: "ana@x.com", Password: "secret1"},
		{Name: "Ana", Password: "secret1"},
		{Name: "Ana", Email: "ana@x.com"},
		{Name: "Ana", Email: "not-an-email", Password: "secret1"},
		{Name: "Ana", Email: "ana@x.com", Password: "12345"},
		{Name: "Ana", Email: "ana@x.com", Password: "ééé"},
	} {
		_, err := f.auth.Register(ctx, in)
		assert.ErrorIs(t, err, ErrValidation, "%+v", in)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newFixture(t)

	f.register(t, "Ana", "ana@x.com", "secret1")

	_, err := f.auth.Register(context.Background(), RegisterInput{Name: "Other", Email: "ana@x.com", Password: "secret2"})
	require.ErrorIs(t, err, ErrConflict)

	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Email has already been registered", e.Message)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	reg := f.register(t, "Ana", "ana@x.com", "secret1")

	s, err := f.auth.Login(ctx, "ana@x.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, reg.Profile.ID, s.Profile.ID)
	assert.True(t, f.auth.LoginStatus(s.Token))

	_, err = f.auth.Login(ctx, "ana@x.com", "wrong-password")
	assert.ErrorIs(t, err, ErrAuth)

	_, err = f.auth.Login(ctx, "nobody@x.com", "secret1")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.auth.Login(ctx, "", "secret1")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginStatus(t *testing.T) {
	f := newFixture(t)

	assert.False(t, f.auth.LoginStatus(""))
	assert.False(t, f.auth.LoginStatus("garbage"))

	expired := security.NewSessionIssuer(config.Session{Secret: "test-secret", TTL: -time.Minute})
	tok, _, err := expired.Issue("u1")
	require.NoError(t, err)
	assert.False(t, f.auth.LoginStatus(tok))
}

func TestProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.register(t, "Ana", "ana@x.com", "secret1")

	p, err := f.auth.Profile(ctx, s.Profile.ID)
	require.NoError(t, err)
	assert.Equal(t, s.Profile, p)

	_, err = f.auth.Profile(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.register(t, "Ana", "ana@x.com", "secret1")

	p, err := f.auth.UpdateProfile(ctx, s.Profile.ID, ProfilePatch{Bio: "Shop owner", Phone: "+51 999"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", p.Name, "empty name keeps the stored one")
	assert.Equal(t, "Shop owner", p.Bio)
	assert.Equal(t, "+51 999", p.Phone)
	assert.Equal(t, model.DefaultPhoto, p.Photo)
	assert.Equal(t, "ana@x.com", p.Email)

	got, err := f.auth.Profile(ctx, s.Profile.ID)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	_, err = f.auth.UpdateProfile(ctx, s.Profile.ID, ProfilePatch{Bio: strings.Repeat("b", 251)})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.auth.UpdateProfile(ctx, "missing", ProfilePatch{Name: "X"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.register(t, "Ana", "ana@x.com", "secret1")

	err := f.auth.ChangePassword(ctx, s.Profile.ID, "wrong-old", "secret2")
	assert.ErrorIs(t, err, ErrAuth)

	assert.ErrorIs(t, f.auth.ChangePassword(ctx, s.Profile.ID, "", "secret2"), ErrValidation)
	assert.ErrorIs(t, f.auth.ChangePassword(ctx, s.Profile.ID, "secret1", ""), ErrValidation)
	assert.ErrorIs(t, f.auth.ChangePassword(ctx, s.Profile.ID, "secret1", "123"), ErrValidation)
	assert.ErrorIs(t, f.auth.ChangePassword(ctx, "missing", "secret1", "secret2"), ErrNotFound)

	require.NoError(t, f.auth.ChangePassword(ctx, s.Profile.ID, "secret1", "secret2"))

	_, err = f.auth.Login(ctx, "ana@x.com", "secret1")
	assert.ErrorIs(t, err, ErrAuth)

	_, err = f.auth.Login(ctx, "ana@x.com", "secret2")
	assert.NoError(t, err)
}

func TestForgotAndResetPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.register(t, "Ana", "ana@x.com", "secret1")

	require.NoError(t, f.auth.ForgotPassword(ctx, "ana@x.com"))

	mail := f.mailer.last(t)
	assert.Equal(t, "ana@x.com", mail.To)
	assert.Equal(t, "noreply@app.example", mail.From)
	assert.Equal(t, "Password Reset Request", mail.Subject)
	assert.Contains(t, mail.HTMLBody, "Hello Ana")

	raw := f.mailer.resetToken(t)
	assert.True(t, strings.HasSuffix(raw, s.Profile.ID))

	// Only the hash is stored
	_, err := f.store.ResetTokens().FindValid(ctx, raw, time.Now().UTC())
	assert.ErrorIs(t, err, store.ErrNotFound)
	stored, err := f.store.ResetTokens().FindValid(ctx, security.HashResetToken(raw), time.Now().UTC())
	require.NoError(t, err)
	assert.WithinDuration(t, stored.CreatedAt.Add(30*time.Minute), stored.ExpiresAt, time.Second)

	require.NoError(t, f.auth.ResetPassword(ctx, raw, "new-secret"))

	err = f.auth.ResetPassword(ctx, raw, "another-secret")
	assert.ErrorIs(t, err, ErrInvalidOrExpiredToken, "token is single use")

	_, err = f.auth.Login(ctx, "ana@x.com", "secret1")
	assert.ErrorIs(t, err, ErrAuth)

	_, err = f.auth.Login(ctx, "ana@x.com", "new-secret")
	assert.NoError(t, err)
}

func TestForgotPassword_ReplacesPreviousToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register(t, "Ana", "ana@x.com", "secret1")

	require.NoError(t, f.auth.ForgotPassword(ctx, "ana@x.com"))
	first := f.mailer.resetToken(t)

	require.NoError(t, f.auth.ForgotPassword(ctx, "ana@x.com"))
	second := f.mailer.resetToken(t)

	require.NotEqual(t, first, second)

	assert.ErrorIs(t, f.auth.ResetPassword(ctx, first, "new-secret"), ErrInvalidOrExpiredToken)
	assert.NoError(t, f.auth.ResetPassword(ctx, second, "new-secret"))
}

func TestForgotPassword_UnknownEmail(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.auth.ForgotPassword(context.Background(), "nobody@x.com"), ErrNotFound)
	assert.ErrorIs(t, f.auth.ForgotPassword(context.Background(), ""), ErrValidation)
}

func TestForgotPassword_MailFailureKeepsToken(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.register(t, "Ana", "ana@x.com", "secret1")

	f.mailer.err = errors.New("smtp down")

	err := f.auth.ForgotPassword(ctx, "ana@x.com")
	require.ErrorIs(t, err, ErrEmailDelivery)

	var count int64
	require.NoError(t, f.db.Model(&model.ResetToken{}).Where("user_id = ?", s.Profile.ID).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestResetPassword_Expired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.register(t, "Ana", "ana@x.com", "secret1")

	issuedAt := time.Now().Add(-31 * time.Minute)
	f.auth.now = func() time.Time { return issuedAt }
	require.NoError(t, f.auth.ForgotPassword(ctx, "ana@x.com"))
	raw := f.mailer.resetToken(t)

	f.auth.now = time.Now
	assert.ErrorIs(t, f.auth.ResetPassword(ctx, raw, "new-secret"), ErrInvalidOrExpiredToken)

	_, err := f.auth.Login(ctx, "ana@x.com", "secret1")
	assert.NoError(t, err, "old password still works")
}

func TestResetPassword_Invalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	assert.ErrorIs(t, f.auth.ResetPassword(ctx, "", "new-secret"), ErrInvalidOrExpiredToken)
	assert.ErrorIs(t, f.auth.ResetPassword(ctx, "made-up", "new-secret"), ErrInvalidOrExpiredToken)
	assert.ErrorIs(t, f.auth.ResetPassword(ctx, "made-up", "123"), ErrValidation)
}

func TestAuthenticate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	s := f.register(t, "Ana", "ana@x.com", "secret1")

	u, err := f.auth.Authenticate(ctx, s.Token)
	require.NoError(t, err)
	assert.Equal(t, s.Profile.ID, u.ID)
	assert.Empty(t, u.PasswordHash)

	t.Run("no token", func(t *testing.T) {
		_, err := f.auth.Authenticate(ctx, "")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		tok, _, err := security.NewSessionIssuer(config.Session{Secret: "test-secret", TTL: -time.Minute}).Issue(s.Profile.ID)
		require.NoError(t, err)

		_, err = f.auth.Authenticate(ctx, tok)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("tampered signature", func(t *testing.T) {
		_, err := f.auth.Authenticate(ctx, s.Token[:len(s.Token)-2]+"xx")
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("other secret", func(t *testing.T) {
		tok, _, err := security.NewSessionIssuer(config.Session{Secret: "other", TTL: time.Hour}).Issue(s.Profile.ID)
		require.NoError(t, err)

		_, err = f.auth.Authenticate(ctx, tok)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})

	t.Run("deleted user", func(t *testing.T) {
		other := f.register(t, "Bob", "bob@x.com", "secret1")
		require.NoError(t, f.store.Users().Delete(ctx, other.Profile.ID))

		_, err := f.auth.Authenticate(ctx, other.Token)
		assert.ErrorIs(t, err, ErrUnauthorized)
	})
}

func TestContact(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	c := NewContact(f.cfg, f.mailer)
	user := &model.User{Name: "Ana", Email: "ana@x.com"}

	require.NoError(t, c.Send(ctx, user, "Stock question", "Do you <b>restock</b>?"))

	mail := f.mailer.last(t)
	assert.Equal(t, "support@app.example", mail.To)
	assert.Equal(t, "noreply@app.example", mail.From)
	assert.Equal(t, "ana@x.com", mail.ReplyTo)
	assert.Equal(t, "Stock question", mail.Subject)
	assert.Contains(t, mail.HTMLBody, "&lt;b&gt;restock&lt;/b&gt;")

	assert.ErrorIs(t, c.Send(ctx, user, "", "hi"), ErrValidation)

	f.mailer.err = errors.New("smtp down")
	assert.ErrorIs(t, c.Send(ctx, user, "Hi", "there"), ErrEmailDelivery)
}

func TestFormatFileSize(t *testing.T) {
	assert.Equal(t, "999 bytes", FormatFileSize(999))
	assert.Equal(t, "1.500 KB", FormatFileSize(1500))
	assert.Equal(t, "2.000 MB", FormatFileSize(2_000_000))
}
