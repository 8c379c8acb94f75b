package application

import (
	"context"
	"io"
	"regexp"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oksasatya/chirper/internal/domain/entity"
	"github.com/oksasatya/chirper/internal/domain/repository"
	"github.com/oksasatya/chirper/pkg/helpers"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func registerAlice(t *testing.T, svc *AuthService) *entity.User {
	t.Helper()
	u, err := svc.Register(context.Background(), RegisterInput{
		Username:    "alice_1",
		Email:       "alice@example.com",
		FullName:    "Alice Example",
		Password:    "Secr3tPW!",
		DateOfBirth: time.Date(1995, 6, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return u
}

func TestRegister_CreatesUnverifiedAccount(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, testLogger())

	u := registerAlice(t, svc)

	assert.False(t, u.IsVerified)
	assert.Regexp(t, regexp.MustCompile(`^\d{6}$`), u.VerifyCode)
	assert.True(t, u.VerifyCodeExpiry.After(time.Now()))
	assert.Equal(t, entity.DefaultProfilePicture, u.ProfilePicture)
	assert.NotEqual(t, "Secr3tPW!", u.PasswordHash)
	assert.True(t, helpers.CheckPassword(u.PasswordHash, "Secr3tPW!"))
}

func TestRegister_DuplicateSentinels(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, testLogger())
	registerAlice(t, svc)

	_, err := svc.Register(context.Background(), RegisterInput{
		Username: "someone_else",
		Email:    "alice@example.com",
		FullName: "Other",
		Password: "another-pw",
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	_, err = svc.Register(context.Background(), RegisterInput{
		Username: "alice_1",
		Email:    "other@example.com",
		FullName: "Other",
		Password: "another-pw",
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateUsername)
}

func TestAuthenticate_UnverifiedThenVerified(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, testLogger())
	u := registerAlice(t, svc)

	// Correct credentials on a fresh registration report the unverified
	// state instead of signing in.
	res := svc.Authenticate(context.Background(), "alice@example.com", "Secr3tPW!")
	assert.Equal(t, StatusUnverified, res.Status)

	require.NoError(t, svc.VerifyEmail(context.Background(), "alice@example.com", u.VerifyCode))

	res = svc.Authenticate(context.Background(), "alice@example.com", "Secr3tPW!")
	require.Equal(t, StatusOK, res.Status)
	assert.Equal(t, u.ID.Hex(), res.Identity.ID)
	assert.Equal(t, "alice_1", res.Identity.Username)
	assert.Equal(t, "alice@example.com", res.Identity.Email)
}

func TestAuthenticate_IndistinguishableFailures(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, testLogger())
	u := registerAlice(t, svc)
	require.NoError(t, repo.SetVerified(context.Background(), u.ID.Hex()))

	// Unknown email, wrong password, and missing input all collapse into the
	// same result so callers cannot probe which accounts exist.
	for name, attempt := range map[string][2]string{
		"unknown email":  {"nobody@example.com", "Secr3tPW!"},
		"wrong password": {"alice@example.com", "wrong"},
		"empty email":    {"", "Secr3tPW!"},
		"empty password": {"alice@example.com", ""},
	} {
		res := svc.Authenticate(context.Background(), attempt[0], attempt[1])
		assert.Equal(t, StatusInvalidCredentials, res.Status, name)
		assert.Empty(t, res.Identity.ID, name)
	}
}

func TestVerifyEmail(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, testLogger())
	u := registerAlice(t, svc)
	ctx := context.Background()

	assert.ErrorIs(t, svc.VerifyEmail(ctx, "alice@example.com", "000000"), ErrInvalidVerifyCode)
	assert.ErrorIs(t, svc.VerifyEmail(ctx, "nobody@example.com", u.VerifyCode), ErrInvalidVerifyCode)

	require.NoError(t, svc.VerifyEmail(ctx, "alice@example.com", u.VerifyCode))

	// Already verified: a no-op regardless of the code supplied.
	assert.NoError(t, svc.VerifyEmail(ctx, "alice@example.com", "whatever"))

	got, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, got.IsVerified)
	assert.Empty(t, got.VerifyCode)
}

func TestVerifyEmail_ExpiredCode(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, testLogger())
	u := registerAlice(t, svc)
	ctx := context.Background()

	stored, err := repo.GetByID(ctx, u.ID.Hex())
	require.NoError(t, err)
	stored.VerifyCodeExpiry = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Update(ctx, stored))

	assert.ErrorIs(t, svc.VerifyEmail(ctx, "alice@example.com", u.VerifyCode), ErrInvalidVerifyCode)
}

func TestReconcile_ProvisionsVerifiedAccount(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, testLogger())
	ctx := context.Background()

	id, err := svc.Reconcile(ctx, ProviderGoogle, Profile{
		Email:   "bob@example.com",
		Name:    "Bob Builder",
		Picture: "https://lh3.example.com/bob.jpg",
	})
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^bob_[a-z0-9]{6}$`), id.Username)
	assert.Equal(t, "bob@example.com", id.Email)
	assert.Equal(t, "Bob Builder", id.Name)

	stored, err := repo.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.True(t, stored.IsVerified)
	assert.Equal(t, id.ID, stored.ID.Hex())
	assert.NotEmpty(t, stored.PasswordHash)
}

func TestReconcile_IdempotentOnRepeatSignIn(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, testLogger())
	ctx := context.Background()
	p := Profile{Email: "bob@example.com", Name: "Bob Builder"}

	first, err := svc.Reconcile(ctx, ProviderGoogle, p)
	require.NoError(t, err)
	second, err := svc.Reconcile(ctx, ProviderGoogle, p)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Username, second.Username)
	assert.Equal(t, 1, repo.count())
}

func TestReconcile_ExistingAccountNotMutated(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, testLogger())
	ctx := context.Background()

	u := registerAlice(t, svc)

	// Provider reports a different display name and picture; the local
	// record stays authoritative.
	id, err := svc.Reconcile(ctx, ProviderGoogle, Profile{
		Email:   "alice@example.com",
		Name:    "Completely Different",
		Picture: "https://lh3.example.com/new.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), id.ID)
	assert.Equal(t, "alice_1", id.Username)
	assert.Equal(t, "Alice Example", id.Name)

	stored, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Alice Example", stored.FullName)
	assert.Equal(t, entity.DefaultProfilePicture, stored.ProfilePicture)
}

func TestReconcile_DuplicateEmailRaceUsesWinner(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, testLogger())
	ctx := context.Background()

	// A concurrent first sign-in wins the insert just before ours commits;
	// the unique index rejects ours and we must return the winner.
	winner := &entity.User{
		Username:   "bob_aaaaaa",
		Email:      "bob@example.com",
		FullName:   "Bob Builder",
		IsVerified: true,
	}
	fired := false
	repo.onCreate = func(u *entity.User) error {
		if fired {
			return nil
		}
		fired = true
		repo.onCreate = nil
		err := repo.Create(ctx, winner)
		repo.onCreate = func(*entity.User) error { return nil }
		return err
	}

	id, err := svc.Reconcile(ctx, ProviderGoogle, Profile{Email: "bob@example.com", Name: "Bob Builder"})
	require.NoError(t, err)
	assert.Equal(t, winner.ID.Hex(), id.ID)
	assert.Equal(t, "bob_aaaaaa", id.Username)
	assert.Equal(t, 1, repo.count())
}

func TestReconcile_UsernameCollisionRetries(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, testLogger())
	ctx := context.Background()

	// First two attempts collide on the synthesized username, third lands.
	collisions := 0
	repo.onCreate = func(u *entity.User) error {
		if collisions < 2 {
			collisions++
			return repository.ErrDuplicateUsername
		}
		return nil
	}

	id, err := svc.Reconcile(ctx, ProviderGoogle, Profile{Email: "bob@example.com"})
	require.NoError(t, err)
	assert.Equal(t, 2, collisions)
	assert.Regexp(t, regexp.MustCompile(`^bob_[a-z0-9]{6}$`), id.Username)
}

func TestReconcile_UsernameCollisionExhausted(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, testLogger())

	repo.onCreate = func(u *entity.User) error {
		return repository.ErrDuplicateUsername
	}

	_, err := svc.Reconcile(context.Background(), ProviderGoogle, Profile{Email: "bob@example.com"})
	assert.ErrorIs(t, err, ErrSignInFailed)
}

func TestReconcile_MissingEmail(t *testing.T) {
	svc := NewAuthService(newMemUserRepo(), testLogger())

	_, err := svc.Reconcile(context.Background(), ProviderGoogle, Profile{Name: "No Email"})
	assert.ErrorIs(t, err, ErrProviderProfile)
}

func TestReconcile_UnknownProviderPassesThrough(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, testLogger())

	id, err := svc.Reconcile(context.Background(), "credentials", Profile{
		Email: "alice@example.com",
		Name:  "Alice Example",
	})
	require.NoError(t, err)
	assert.Empty(t, id.ID)
	assert.Equal(t, "alice@example.com", id.Email)
	assert.Equal(t, 0, repo.count())
}

func TestReconcile_ProvisionedAccountRejectsLocalLogin(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, testLogger())
	ctx := context.Background()

	_, err := svc.Reconcile(ctx, ProviderGoogle, Profile{Email: "bob@example.com"})
	require.NoError(t, err)

	// The throwaway hash is never disclosed, so no guessed password works.
	for _, pw := range []string{"", "password", "bob@example.com"} {
		res := svc.Authenticate(ctx, "bob@example.com", pw)
		assert.Equal(t, StatusInvalidCredentials, res.Status)
	}
}

func TestChangePassword(t *testing.T) {
	repo := newMemUserRepo()
	svc := NewAuthService(repo, testLogger())
	ctx := context.Background()

	u := registerAlice(t, svc)
	require.NoError(t, repo.SetVerified(ctx, u.ID.Hex()))

	require.NoError(t, svc.ChangePassword(ctx, u.ID.Hex(), "N3wSecret!"))

	assert.Equal(t, StatusInvalidCredentials, svc.Authenticate(ctx, "alice@example.com", "Secr3tPW!").Status)
	assert.Equal(t, StatusOK, svc.Authenticate(ctx, "alice@example.com", "N3wSecret!").Status)

	assert.ErrorIs(t, svc.ChangePassword(ctx, primitive.NewObjectID().Hex(), "x"), repository.ErrNotFound)
}
