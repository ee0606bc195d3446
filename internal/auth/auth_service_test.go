package auth_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/yhnjiuy4321/BankSystem/internal/auth"
	autherrors "github.com/yhnjiuy4321/BankSystem/internal/auth/errors"
	"github.com/yhnjiuy4321/BankSystem/internal/loginattempt"
	"github.com/yhnjiuy4321/BankSystem/internal/loginhistory"
	"github.com/yhnjiuy4321/BankSystem/internal/user"

	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepository struct {
	findByAccountFn func(ctx context.Context, account, role string) (*user.User, error)
	stampLoginFn    func(ctx context.Context, account string, at time.Time) error
}

func (f *fakeUserRepository) WithTx(tx *sql.Tx) user.Repository              { return f }
func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error { return nil }

func (f *fakeUserRepository) FindByAccount(ctx context.Context, account, role string) (*user.User, error) {
	if f.findByAccountFn != nil {
		return f.findByAccountFn(ctx, account, role)
	}
	return &user.User{Account: account, Role: role}, nil
}

func (f *fakeUserRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return nil, nil
}
func (f *fakeUserRepository) Update(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUserRepository) Delete(ctx context.Context, id string) error    { return nil }

func (f *fakeUserRepository) ListByRole(ctx context.Context, role, department, name string, page, pageSize int) ([]user.User, int64, error) {
	return nil, 0, nil
}

func (f *fakeUserRepository) ListByDepartment(ctx context.Context, department string, positions []string) ([]user.User, error) {
	return nil, nil
}

func (f *fakeUserRepository) TouchActivity(ctx context.Context, account string, at time.Time) error {
	return nil
}

func (f *fakeUserRepository) StampLogin(ctx context.Context, account string, at time.Time) error {
	if f.stampLoginFn != nil {
		return f.stampLoginFn(ctx, account, at)
	}
	return nil
}

func (f *fakeUserRepository) SetVerificationCode(ctx context.Context, account, code string) error {
	return nil
}
func (f *fakeUserRepository) ClearVerificationCode(ctx context.Context, account string) error {
	return nil
}
func (f *fakeUserRepository) UpdatePassword(ctx context.Context, account, hashed string, firstLogin bool) error {
	return nil
}

type fakeGuard struct {
	checkFn           func(ctx context.Context, account, role string) (loginattempt.CheckResult, error)
	registerFailureFn func(ctx context.Context, account, role, ip string) (loginattempt.FailureResult, error)
	registerSuccessFn func(ctx context.Context, account, role string) error
	verifyUnlockFn    func(ctx context.Context, account, code string) error
}

func (f *fakeGuard) Check(ctx context.Context, account, role string) (loginattempt.CheckResult, error) {
	if f.checkFn != nil {
		return f.checkFn(ctx, account, role)
	}
	return loginattempt.CheckResult{AttemptsLeft: loginattempt.MaxAttempts}, nil
}

func (f *fakeGuard) RegisterFailure(ctx context.Context, account, role, ip string) (loginattempt.FailureResult, error) {
	if f.registerFailureFn != nil {
		return f.registerFailureFn(ctx, account, role, ip)
	}
	return loginattempt.FailureResult{AttemptsLeft: loginattempt.MaxAttempts - 1}, nil
}

func (f *fakeGuard) RegisterSuccess(ctx context.Context, account, role string) error {
	if f.registerSuccessFn != nil {
		return f.registerSuccessFn(ctx, account, role)
	}
	return nil
}

func (f *fakeGuard) VerifyUnlock(ctx context.Context, account, code string) error {
	if f.verifyUnlockFn != nil {
		return f.verifyUnlockFn(ctx, account, code)
	}
	return nil
}

func (f *fakeGuard) SetLock(ctx context.Context, account, role string, locked bool) error {
	return nil
}

func (f *fakeGuard) LockStatuses(ctx context.Context, role string) ([]loginattempt.LockStatusResponse, error) {
	return nil, nil
}

type fakeHistory struct {
	records []loginhistory.LoginHistory
}

func (f *fakeHistory) Record(ctx context.Context, record loginhistory.LoginHistory) {
	f.records = append(f.records, record)
}

func (f *fakeHistory) List(ctx context.Context, req loginhistory.ListRequest) ([]loginhistory.HistoryResponse, int64, error) {
	return nil, 0, nil
}

func (f *fakeHistory) Stats(ctx context.Context) (loginhistory.StatsResponse, error) {
	return loginhistory.StatsResponse{}, nil
}

func (f *fakeHistory) Cleanup(ctx context.Context) (int64, error) { return 0, nil }

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(hashed)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("locked account is rejected before password check", func(t *testing.T) {
		guard := &fakeGuard{
			checkFn: func(ctx context.Context, account, role string) (loginattempt.CheckResult, error) {
				return loginattempt.CheckResult{Locked: true, RequireVerification: true}, nil
			},
		}
		history := &fakeHistory{}
		users := &fakeUserRepository{
			findByAccountFn: func(ctx context.Context, account, role string) (*user.User, error) {
				t.Fatal("user lookup must not run for a locked account")
				return nil, nil
			},
		}
		svc := auth.NewService(users, guard, history, auth.NewTokenIssuer())

		_, err := svc.Login(ctx, auth.LoginRequest{Account: "BDC001", Password: "whatever"}, "user", "10.0.0.9", "test-agent")

		assert.ErrorIs(t, err, autherrors.ErrAccountLocked)
		assert.Len(t, history.records, 1)
		assert.Equal(t, loginhistory.StatusFailed, history.records[0].Status)
	})

	t.Run("unknown account", func(t *testing.T) {
		users := &fakeUserRepository{
			findByAccountFn: func(ctx context.Context, account, role string) (*user.User, error) {
				return nil, sql.ErrNoRows
			},
		}
		history := &fakeHistory{}
		svc := auth.NewService(users, &fakeGuard{}, history, auth.NewTokenIssuer())

		_, err := svc.Login(ctx, auth.LoginRequest{Account: "ghost", Password: "whatever"}, "user", "10.0.0.9", "test-agent")

		assert.ErrorIs(t, err, autherrors.ErrAccountNotFound)
		assert.Len(t, history.records, 1)
	})

	t.Run("wrong password counts a failure", func(t *testing.T) {
		failureRegistered := false
		users := &fakeUserRepository{
			findByAccountFn: func(ctx context.Context, account, role string) (*user.User, error) {
				return &user.User{Account: account, Role: role, Password: mustHash(t, "correct-password")}, nil
			},
		}
		guard := &fakeGuard{
			registerFailureFn: func(ctx context.Context, account, role, ip string) (loginattempt.FailureResult, error) {
				failureRegistered = true
				return loginattempt.FailureResult{AttemptsLeft: 2}, nil
			},
		}
		history := &fakeHistory{}
		svc := auth.NewService(users, guard, history, auth.NewTokenIssuer())

		_, err := svc.Login(ctx, auth.LoginRequest{Account: "BDC001", Password: "wrong"}, "user", "10.0.0.9", "test-agent")

		assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
		assert.True(t, failureRegistered)
		assert.Len(t, history.records, 1)
		assert.Equal(t, "wrong password", history.records[0].Reason)
	})

	t.Run("wrong password triggering the lock", func(t *testing.T) {
		users := &fakeUserRepository{
			findByAccountFn: func(ctx context.Context, account, role string) (*user.User, error) {
				return &user.User{Account: account, Role: role, Password: mustHash(t, "correct-password")}, nil
			},
		}
		guard := &fakeGuard{
			registerFailureFn: func(ctx context.Context, account, role, ip string) (loginattempt.FailureResult, error) {
				return loginattempt.FailureResult{Locked: true, RequireVerification: true}, nil
			},
		}
		svc := auth.NewService(users, guard, &fakeHistory{}, auth.NewTokenIssuer())

		_, err := svc.Login(ctx, auth.LoginRequest{Account: "BDC001", Password: "wrong"}, "user", "10.0.0.9", "test-agent")

		assert.ErrorIs(t, err, autherrors.ErrAccountLocked)
	})

	t.Run("success issues a token and resets the guard", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "test-secret")
		resetCalled := false
		loginStamped := false

		users := &fakeUserRepository{
			findByAccountFn: func(ctx context.Context, account, role string) (*user.User, error) {
				return &user.User{
					EmployeeID:   "2026001",
					Account:      account,
					Role:         role,
					Name:         "陳科員",
					Department:   "業務部",
					Position:     "科員",
					Password:     mustHash(t, "correct-password"),
					IsFirstLogin: true,
				}, nil
			},
			stampLoginFn: func(ctx context.Context, account string, at time.Time) error {
				loginStamped = true
				return nil
			},
		}
		guard := &fakeGuard{
			registerSuccessFn: func(ctx context.Context, account, role string) error {
				resetCalled = true
				return nil
			},
		}
		history := &fakeHistory{}
		svc := auth.NewService(users, guard, history, auth.NewTokenIssuer())

		resp, err := svc.Login(ctx, auth.LoginRequest{Account: "BDC001", Password: "correct-password"}, "user", "10.0.0.9", "test-agent")

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.Token)
		assert.True(t, resp.IsFirstLogin)
		assert.Equal(t, "BD", resp.User.Department)
		assert.Equal(t, "C", resp.User.Position)
		assert.True(t, resetCalled)
		assert.True(t, loginStamped)
		assert.Len(t, history.records, 1)
		assert.Equal(t, loginhistory.StatusSuccess, history.records[0].Status)
	})
}

func TestAuthService_VerifyUnlock(t *testing.T) {
	ctx := context.Background()

	t.Run("delegates to the guard", func(t *testing.T) {
		var gotAccount, gotCode string
		guard := &fakeGuard{
			verifyUnlockFn: func(ctx context.Context, account, code string) error {
				gotAccount, gotCode = account, code
				return nil
			},
		}
		svc := auth.NewService(&fakeUserRepository{}, guard, &fakeHistory{}, auth.NewTokenIssuer())

		err := svc.VerifyUnlock(ctx, auth.VerifyUnlockRequest{Account: "BDC001", Code: "654321"})

		assert.NoError(t, err)
		assert.Equal(t, "BDC001", gotAccount)
		assert.Equal(t, "654321", gotCode)
	})
}
