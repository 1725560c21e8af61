package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"winehouse/internal/domain/model"
	auth "winehouse/internal/usecase/auth_usecase"
)

// =====================
// Fakes
// =====================

type fakeAccountRepo struct {
	byEmail map[string]*model.Account
	nextID  int64
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{byEmail: map[string]*model.Account{}, nextID: 1}
}

func (f *fakeAccountRepo) Create(ctx context.Context, a *model.Account) error {
	a.ID = f.nextID
	f.nextID++
	f.byEmail[a.Email] = a
	return nil
}

func (f *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*model.Account, error) {
	return f.byEmail[email], nil
}

func (f *fakeAccountRepo) FindByID(ctx context.Context, id int64) (*model.Account, error) {
	for _, a := range f.byEmail {
		if a.ID == id {
			return a, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) Update(ctx context.Context, a *model.Account) error {
	f.byEmail[a.Email] = a
	return nil
}

type testClock struct{ now time.Time }

func (c *testClock) Now() time.Time { return c.now }

type stubIssuer struct{}

func (i *stubIssuer) Issue(accountID int64, role model.Role, now time.Time) (string, time.Time, error) {
	return "signed-token", now.Add(15 * time.Minute), nil
}

func newRegisterUC(repo *fakeAccountRepo) *auth.RegisterAccountUsecase {
	// テストなのでcostは最小にする
	return auth.NewRegisterAccountUsecase(repo, auth.NewBcryptPasswordHasher(4), &testClock{now: time.Now()})
}

// =====================
// Register
// =====================

func TestRegisterAccount_InvalidEmail(t *testing.T) {
	uc := newRegisterUC(newFakeAccountRepo())

	_, err := uc.Execute(context.Background(), auth.RegisterAccountInput{
		Email: "not-an-email", Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidEmailFormat)
}

func TestRegisterAccount_PasswordTooShort(t *testing.T) {
	uc := newRegisterUC(newFakeAccountRepo())

	_, err := uc.Execute(context.Background(), auth.RegisterAccountInput{
		Email: "a@example.com", Password: "short",
	})
	assert.ErrorIs(t, err, auth.ErrPasswordTooShort)
}

func TestRegisterAccount_WeakPassword(t *testing.T) {
	uc := newRegisterUC(newFakeAccountRepo())

	_, err := uc.Execute(context.Background(), auth.RegisterAccountInput{
		Email: "a@example.com", Password: "123456789012",
	})
	assert.ErrorIs(t, err, auth.ErrWeakPassword)
}

func TestRegisterAccount_DuplicateEmail(t *testing.T) {
	repo := newFakeAccountRepo()
	uc := newRegisterUC(repo)

	in := auth.RegisterAccountInput{Email: "a@example.com", Password: "correct horse battery"}

	_, err := uc.Execute(context.Background(), in)
	assert.NoError(t, err)

	_, err = uc.Execute(context.Background(), in)
	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
}

func TestRegisterAccount_HashesPassword(t *testing.T) {
	repo := newFakeAccountRepo()
	uc := newRegisterUC(repo)

	out, err := uc.Execute(context.Background(), auth.RegisterAccountInput{
		Email: "a@example.com", Password: "correct horse battery", FirstName: "Ana",
	})
	assert.NoError(t, err)
	assert.Equal(t, model.RoleUser, out.Account.Role)
	assert.True(t, out.Account.IsActive)

	stored := repo.byEmail["a@example.com"]
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEqual(t, "correct horse battery", stored.PasswordHash)

	// 保存されたハッシュで照合できる
	verifier := auth.NewBcryptPasswordVerifier()
	assert.True(t, verifier.Verify("correct horse battery", stored.PasswordHash))
	assert.False(t, verifier.Verify("wrong password!!", stored.PasswordHash))
}

// =====================
// Login
// =====================

func seedAccount(t *testing.T, repo *fakeAccountRepo, email, password string, active bool) {
	t.Helper()
	hasher := auth.NewBcryptPasswordHasher(4)
	hash, err := hasher.Hash(password)
	assert.NoError(t, err)
	_ = repo.Create(context.Background(), &model.Account{
		Email: email, PasswordHash: hash, Role: model.RoleUser, IsActive: active,
	})
}

func TestLogin_Success(t *testing.T) {
	repo := newFakeAccountRepo()
	seedAccount(t, repo, "a@example.com", "correct horse battery", true)

	now := time.Date(2025, 3, 17, 12, 0, 0, 0, time.UTC)
	uc := auth.NewLoginUsecase(repo, auth.NewBcryptPasswordVerifier(), &stubIssuer{}, &testClock{now: now})

	out, err := uc.Execute(context.Background(), auth.LoginInput{
		Email: "a@example.com", Password: "correct horse battery",
	})
	assert.NoError(t, err)
	assert.Equal(t, "signed-token", out.Token.AccessToken)
	assert.Equal(t, 900, out.Token.ExpiresIn)

	// 最終ログイン時刻が更新される
	stored := repo.byEmail["a@example.com"]
	assert.NotNil(t, stored.LastLoginAt)
	assert.Equal(t, now, *stored.LastLoginAt)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeAccountRepo()
	seedAccount(t, repo, "a@example.com", "correct horse battery", true)

	uc := auth.NewLoginUsecase(repo, auth.NewBcryptPasswordVerifier(), &stubIssuer{}, &testClock{now: time.Now()})

	_, err := uc.Execute(context.Background(), auth.LoginInput{
		Email: "a@example.com", Password: "wrong password!!",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	uc := auth.NewLoginUsecase(newFakeAccountRepo(), auth.NewBcryptPasswordVerifier(), &stubIssuer{}, &testClock{now: time.Now()})

	_, err := uc.Execute(context.Background(), auth.LoginInput{
		Email: "nobody@example.com", Password: "whatever at all",
	})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestLogin_InactiveAccount(t *testing.T) {
	repo := newFakeAccountRepo()
	seedAccount(t, repo, "a@example.com", "correct horse battery", false)

	uc := auth.NewLoginUsecase(repo, auth.NewBcryptPasswordVerifier(), &stubIssuer{}, &testClock{now: time.Now()})

	_, err := uc.Execute(context.Background(), auth.LoginInput{
		Email: "a@example.com", Password: "correct horse battery",
	})
	assert.ErrorIs(t, err, auth.ErrAccountInactive)
}
