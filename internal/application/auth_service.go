package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/chirper/internal/domain/entity"
	"github.com/oksasatya/chirper/internal/domain/repository"
	"github.com/oksasatya/chirper/pkg/helpers"
)

var (
	ErrSignInFailed      = errors.New("sign-in failed")
	ErrInvalidVerifyCode = errors.New("invalid or expired verification code")
	ErrProviderProfile   = errors.New("provider profile missing email")
)

// ProviderGoogle is the only external provider with a reconciliation path.
const ProviderGoogle = "google"

// usernameRetries bounds how often Reconcile regenerates a synthesized
// username after a random-suffix collision.
const usernameRetries = 3

// LoginStatus is the outcome of a credential authentication attempt.
type LoginStatus int

const (
	// StatusOK means the credentials matched a verified account.
	StatusOK LoginStatus = iota
	// StatusInvalidCredentials covers missing input, unknown email, and wrong
	// password alike, so callers cannot enumerate accounts.
	StatusInvalidCredentials
	// StatusUnverified means the credentials were correct but the account has
	// not completed email verification. User-actionable, unlike the others.
	StatusUnverified
	// StatusFailure means the attempt could not be evaluated (storage fault).
	StatusFailure
)

// LoginResult is the multi-variant outcome of Authenticate. Identity is only
// populated when Status is StatusOK.
type LoginResult struct {
	Status   LoginStatus
	Identity helpers.Identity
}

// Profile is the identity information supplied by an external OAuth provider,
// validated at the callback boundary before reconciliation.
type Profile struct {
	Email   string
	Name    string
	Picture string
}

// RegisterInput carries a local sign-up request into the service.
type RegisterInput struct {
	Username    string
	Email       string
	FullName    string
	Password    string
	DateOfBirth time.Time
}

type AuthService struct {
	Users  repository.UserRepository
	Logger *logrus.Logger
}

func NewAuthService(users repository.UserRepository, logger *logrus.Logger) *AuthService {
	return &AuthService{Users: users, Logger: logger}
}

func identityOf(u *entity.User) helpers.Identity {
	return helpers.Identity{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
		Name:     u.FullName,
		Image:    u.ProfilePicture,
	}
}

// Authenticate validates email/password against the user store. Unknown email
// and wrong password produce the same result; only the unverified state is
// distinguishable, so the caller can tell the user to verify first.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) LoginResult {
	if email == "" || password == "" {
		return LoginResult{Status: StatusInvalidCredentials}
	}
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return LoginResult{Status: StatusInvalidCredentials}
		}
		s.Logger.WithError(err).WithField("email", email).Error("credential lookup failed")
		return LoginResult{Status: StatusFailure}
	}
	if !helpers.CheckPassword(u.PasswordHash, password) {
		return LoginResult{Status: StatusInvalidCredentials}
	}
	if !u.IsVerified {
		return LoginResult{Status: StatusUnverified}
	}
	return LoginResult{Status: StatusOK, Identity: identityOf(u)}
}

// Reconcile maps an externally-authenticated profile to a canonical local
// account, creating one on first sign-in. The find-or-create sequence is not
// locked; the unique email index arbitrates concurrent first sign-ins and the
// loser re-fetches the winner's record.
func (s *AuthService) Reconcile(ctx context.Context, provider string, p Profile) (helpers.Identity, error) {
	if provider != ProviderGoogle {
		// No reconciliation path configured; pass through caller-supplied fields.
		return helpers.Identity{Email: p.Email, Name: p.Name, Image: p.Picture}, nil
	}
	if p.Email == "" {
		return helpers.Identity{}, ErrProviderProfile
	}

	u, err := s.Users.GetByEmail(ctx, p.Email)
	if err == nil {
		return identityOf(u), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.Logger.WithError(err).WithField("email", p.Email).Error("reconcile lookup failed")
		return helpers.Identity{}, ErrSignInFailed
	}

	return s.provision(ctx, p)
}

// provision creates the local account for a first-time OAuth sign-in.
func (s *AuthService) provision(ctx context.Context, p Profile) (helpers.Identity, error) {
	// The account has no usable local password; any credential sign-in
	// against it will fail verification.
	throwaway, err := helpers.GenToken(24)
	if err != nil {
		return helpers.Identity{}, ErrSignInFailed
	}
	hash, err := helpers.HashPassword(throwaway)
	if err != nil {
		return helpers.Identity{}, ErrSignInFailed
	}

	name := p.Name
	if name == "" {
		name = "Google User"
	}
	picture := p.Picture
	if picture == "" {
		picture = entity.DefaultProfilePicture
	}
	local := p.Email
	if i := strings.Index(p.Email, "@"); i > 0 {
		local = p.Email[:i]
	}

	for attempt := 0; attempt < usernameRetries; attempt++ {
		suffix, err := helpers.GenUsernameSuffix()
		if err != nil {
			return helpers.Identity{}, ErrSignInFailed
		}
		u := &entity.User{
			Username:       local + "_" + suffix,
			Email:          p.Email,
			FullName:       name,
			PasswordHash:   hash,
			ProfilePicture: picture,
			DateOfBirth:    time.Now().UTC(),
			// The provider already verified the email out-of-band.
			VerifyCode:       "",
			VerifyCodeExpiry: time.Now().UTC(),
			IsVerified:       true,
		}
		err = s.Users.Create(ctx, u)
		switch {
		case err == nil:
			return identityOf(u), nil
		case errors.Is(err, repository.ErrDuplicateEmail):
			// Lost the race to a concurrent first sign-in; use the winner.
			winner, ferr := s.Users.GetByEmail(ctx, p.Email)
			if ferr != nil {
				s.Logger.WithError(ferr).WithField("email", p.Email).Error("reconcile re-fetch failed")
				return helpers.Identity{}, ErrSignInFailed
			}
			return identityOf(winner), nil
		case errors.Is(err, repository.ErrDuplicateUsername):
			continue
		default:
			s.Logger.WithError(err).WithField("email", p.Email).Error("account provisioning failed")
			return helpers.Identity{}, ErrSignInFailed
		}
	}
	s.Logger.WithField("email", p.Email).Error("username suffix collisions exhausted retries")
	return helpers.Identity{}, ErrSignInFailed
}

// Register creates an unverified local account with a pending verification
// code. Duplicate username/email surface as the repository sentinels so the
// handler can report which field collided.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*entity.User, error) {
	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	code, err := helpers.GenVerifyCode()
	if err != nil {
		return nil, err
	}
	u := &entity.User{
		Username:         in.Username,
		Email:            in.Email,
		FullName:         in.FullName,
		PasswordHash:     hash,
		ProfilePicture:   entity.DefaultProfilePicture,
		DateOfBirth:      in.DateOfBirth,
		VerifyCode:       code,
		VerifyCodeExpiry: time.Now().UTC().Add(time.Hour),
		IsVerified:       false,
	}
	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// VerifyEmail confirms account ownership with the out-of-band code.
// Verifying an already-verified account is a no-op.
func (s *AuthService) VerifyEmail(ctx context.Context, email, code string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidVerifyCode
		}
		s.Logger.WithError(err).WithField("email", email).Error("verify lookup failed")
		return ErrSignInFailed
	}
	if u.IsVerified {
		return nil
	}
	if u.VerifyCode == "" || code != u.VerifyCode || time.Now().After(u.VerifyCodeExpiry) {
		return ErrInvalidVerifyCode
	}
	return s.Users.SetVerified(ctx, u.ID.Hex())
}

// ChangePassword re-hashes and stores a new password for the account.
func (s *AuthService) ChangePassword(ctx context.Context, userID, newPassword string) error {
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.Users.UpdatePassword(ctx, userID, hash)
}
