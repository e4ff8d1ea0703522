package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"elivtory/inventory-api/config"
	"elivtory/inventory-api/internal/model"
	"elivtory/inventory-api/internal/store"
	"elivtory/inventory-api/pkg/security"
	"elivtory/inventory-api/pkg/util"
	"elivtory/inventory-api/pkg/validators"
)

// Auth implements the account operations: registration, login, sessions,
// profile updates and the password change and reset flows
type Auth struct {
	cfg      *config.Config
	store    *store.Store
	argon    *security.ArgonHash
	sessions *security.SessionIssuer
	mailer   Mailer
	now      func() time.Time
}

func NewAuth(cfg *config.Config, s *store.Store, argon *security.ArgonHash, sessions *security.SessionIssuer, mailer Mailer) *Auth {
	return &Auth{
		cfg:      cfg,
		store:    s,
		argon:    argon,
		sessions: sessions,
		mailer:   mailer,
		now:      time.Now,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// ProfilePatch holds the editable profile fields. Empty fields keep the
// stored value.
type ProfilePatch struct {
	Name  string
	Phone string
	Bio   string
	Photo string
}

// Session is returned after a successful register or login
type Session struct {
	Profile   *model.Profile
	Token     string
	ExpiresAt time.Time
}

func (a *Auth) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	name := strings.TrimSpace(in.Name)
	email := validators.NormalizeEmail(in.Email)

	if name == "" || email == "" || in.Password == "" {
		return nil, newError(ErrValidation, "Please fill in all fields")
	}

	if err := validators.EmailValidator(email); err != nil {
		return nil, newError(ErrValidation, err.Error())
	}

	if err := validators.PasswordValidator(in.Password); err != nil {
		return nil, newError(ErrValidation, err.Error())
	}

	if err := validators.ProfileValidator(name, "", ""); err != nil {
		return nil, newError(ErrValidation, err.Error())
	}

	_, err := a.store.Users().FindByEmail(ctx, email)
	if err == nil {
		return nil, newError(ErrConflict, "Email has already been registered")
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("failed to check if user is registered, %w", err)
	}

	hash, err := a.argon.GenerateFromPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	userID, err := util.NewID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user ID, %w", err)
	}

	user := &model.User{
		ID:           userID,
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Photo:        model.DefaultPhoto,
		Phone:        model.DefaultPhone,
		Bio:          model.DefaultBio,
	}

	if err := a.store.Users().Create(ctx, user); err != nil {
		// Lost a race with a concurrent registration for the same email
		if errors.Is(err, store.ErrDuplicateEmail) {
			return nil, newError(ErrConflict, "Email has already been registered")
		}

		return nil, err
	}

	return a.startSession(user)
}

func (a *Auth) Login(ctx context.Context, email, password string) (*Session, error) {
	email = validators.NormalizeEmail(email)

	if email == "" || password == "" {
		return nil, newError(ErrValidation, "Please add email and password")
	}

	user, err := a.store.Users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "User not found, please register")
		}

		return nil, fmt.Errorf("failed to find user, %w", err)
	}

	ok, err := a.argon.VerifyPasswd(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return nil, newError(ErrAuth, "Invalid email or password")
	}

	return a.startSession(user)
}

func (a *Auth) startSession(user *model.User) (*Session, error) {
	token, exp, err := a.sessions.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session, %w", err)
	}

	return &Session{
		Profile:   user.Profile(),
		Token:     token,
		ExpiresAt: exp,
	}, nil
}

func (a *Auth) Profile(ctx context.Context, userID string) (*model.Profile, error) {
	user, err := a.store.Users().FindIdentity(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}

		return nil, fmt.Errorf("failed to find user, %w", err)
	}

	return user.Profile(), nil
}

// LoginStatus reports whether token is a valid session. It never fails.
func (a *Auth) LoginStatus(token string) bool {
	if token == "" {
		return false
	}

	_, err := a.sessions.Verify(token)
	return err == nil
}

// Authenticate resolves the user a session token belongs to. Every failure,
// including internal ones, is reported as ErrUnauthorized so callers can't
// tell a forged token from a deleted account.
func (a *Auth) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, newError(ErrUnauthorized, "Not authorized, please login")
	}

	userID, err := a.sessions.Verify(token)
	if err != nil {
		return nil, wrapError(ErrUnauthorized, "Not authorized, please login", err)
	}

	user, err := a.store.Users().FindIdentity(ctx, userID)
	if err != nil {
		return nil, wrapError(ErrUnauthorized, "Not authorized, please login", err)
	}

	return user, nil
}

func (a *Auth) UpdateProfile(ctx context.Context, userID string, p ProfilePatch) (*model.Profile, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Phone = strings.TrimSpace(p.Phone)
	p.Bio = strings.TrimSpace(p.Bio)
	p.Photo = strings.TrimSpace(p.Photo)

	if err := validators.ProfileValidator(p.Name, p.Bio, p.Photo); err != nil {
		return nil, newError(ErrValidation, err.Error())
	}

	user, err := a.store.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}

		return nil, fmt.Errorf("failed to find user, %w", err)
	}

	if p.Name != "" {
		user.Name = p.Name
	}
	if p.Phone != "" {
		user.Phone = p.Phone
	}
	if p.Bio != "" {
		user.Bio = p.Bio
	}
	if p.Photo != "" {
		user.Photo = p.Photo
	}

	if err := a.store.Users().Save(ctx, user); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, newError(ErrNotFound, "User not found")
		}

		return nil, err
	}

	return user.Profile(), nil
}

func (a *Auth) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return newError(ErrValidation, "Please add old password and new password")
	}

	if err := validators.PasswordValidator(newPassword); err != nil {
		return newError(ErrValidation, err.Error())
	}

	user, err := a.store.Users().FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newError(ErrNotFound, "User not found, please signup")
		}

		return fmt.Errorf("failed to find user, %w", err)
	}

	ok, err := a.argon.VerifyPasswd(oldPassword, user.PasswordHash)
	if err != nil {
		return fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return newError(ErrAuth, "Old password is incorrect")
	}

	hash, err := a.argon.GenerateFromPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password, %w", err)
	}

	user.PasswordHash = hash
	return a.store.Users().Save(ctx, user)
}

// ForgotPassword replaces any reset token of the user with a new one and
// mails the raw token. When the mail can't be sent the token is kept, so
// the user can simply ask again.
func (a *Auth) ForgotPassword(ctx context.Context, email string) error {
	email = validators.NormalizeEmail(email)
	if email == "" {
		return newError(ErrValidation, "Please add an email")
	}

	user, err := a.store.Users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newError(ErrNotFound, "User not found, please register")
		}

		return fmt.Errorf("failed to find user, %w", err)
	}

	// Concurrent requests for the same user race here, the last one wins
	if err := a.store.ResetTokens().DeleteForUser(ctx, user.ID); err != nil {
		return err
	}

	raw, hash, err := security.NewResetToken(user.ID)
	if err != nil {
		return fmt.Errorf("failed to generate reset token, %w", err)
	}

	now := a.now().UTC()

	err = a.store.ResetTokens().Create(ctx, &model.ResetToken{
		UserID:    user.ID,
		TokenHash: hash,
		CreatedAt: now,
		ExpiresAt: now.Add(a.cfg.Reset.TTL),
	})
	if err != nil {
		return err
	}

	resetURL := strings.TrimRight(a.cfg.Frontend.URL, "/") + "/resetpassword/" + raw

	err = a.mailer.Send(ctx, &Mail{
		Subject:  "Password Reset Request",
		HTMLBody: resetMail(user.Name, resetURL, a.cfg.Reset.TTL),
		To:       user.Email,
		From:     a.cfg.Mail.From,
	})
	if err != nil {
		return wrapError(ErrEmailDelivery, "Email not sent, please try again later", err)
	}

	return nil
}

// ResetPassword sets a new password for the owner of rawToken. The token is
// deleted in the same transaction, so it can only be used once.
func (a *Auth) ResetPassword(ctx context.Context, rawToken, password string) error {
	if err := validators.PasswordValidator(password); err != nil {
		return newError(ErrValidation, err.Error())
	}

	if rawToken == "" {
		return newError(ErrInvalidOrExpiredToken, "Invalid or Expired token")
	}

	now := a.now().UTC()

	token, err := a.store.ResetTokens().FindValid(ctx, security.HashResetToken(rawToken), now)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newError(ErrInvalidOrExpiredToken, "Invalid or Expired token")
		}

		return fmt.Errorf("failed to find reset token, %w", err)
	}

	hash, err := a.argon.GenerateFromPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash password, %w", err)
	}

	err = a.store.Transaction(ctx, func(tx *store.Store) error {
		if err := tx.ResetTokens().Consume(ctx, token.ID, now); err != nil {
			return err
		}

		user, err := tx.Users().FindByID(ctx, token.UserID)
		if err != nil {
			return err
		}

		user.PasswordHash = hash
		return tx.Users().Save(ctx, user)
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return newError(ErrInvalidOrExpiredToken, "Invalid or Expired token")
		}

		return fmt.Errorf("failed to reset password, %w", err)
	}

	return nil
}
