package user_test

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/yhnjiuy4321/BankSystem/internal/user"
	usererrors "github.com/yhnjiuy4321/BankSystem/internal/user/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type fakeRepository struct {
	findByAccountFn    func(ctx context.Context, account, role string) (*user.User, error)
	findByEmployeeIDFn func(ctx context.Context, employeeID string) (*user.User, error)
	updateFn           func(ctx context.Context, u *user.User) error
	deleteFn           func(ctx context.Context, id string) error
	listByRoleFn       func(ctx context.Context, role, department, name string, page, pageSize int) ([]user.User, int64, error)
	listByDepartmentFn func(ctx context.Context, department string, positions []string) ([]user.User, error)
	updatePasswordFn   func(ctx context.Context, account, hashed string, firstLogin bool) error
	touchActivityFn    func(ctx context.Context, account string, at time.Time) error
}

func (f *fakeRepository) WithTx(tx *sql.Tx) user.Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, u *user.User) error { return nil }

func (f *fakeRepository) FindByAccount(ctx context.Context, account, role string) (*user.User, error) {
	if f.findByAccountFn != nil {
		return f.findByAccountFn(ctx, account, role)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*user.User, error) {
	if f.findByEmployeeIDFn != nil {
		return f.findByEmployeeIDFn(ctx, employeeID)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeRepository) Update(ctx context.Context, u *user.User) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, u)
	}
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeRepository) ListByRole(ctx context.Context, role, department, name string, page, pageSize int) ([]user.User, int64, error) {
	if f.listByRoleFn != nil {
		return f.listByRoleFn(ctx, role, department, name, page, pageSize)
	}
	return nil, 0, nil
}

func (f *fakeRepository) ListByDepartment(ctx context.Context, department string, positions []string) ([]user.User, error) {
	if f.listByDepartmentFn != nil {
		return f.listByDepartmentFn(ctx, department, positions)
	}
	return nil, nil
}

func (f *fakeRepository) TouchActivity(ctx context.Context, account string, at time.Time) error {
	if f.touchActivityFn != nil {
		return f.touchActivityFn(ctx, account, at)
	}
	return nil
}

func (f *fakeRepository) StampLogin(ctx context.Context, account string, at time.Time) error {
	return nil
}

func (f *fakeRepository) SetVerificationCode(ctx context.Context, account, code string) error {
	return nil
}

func (f *fakeRepository) ClearVerificationCode(ctx context.Context, account string) error {
	return nil
}

func (f *fakeRepository) UpdatePassword(ctx context.Context, account, hashed string, firstLogin bool) error {
	if f.updatePasswordFn != nil {
		return f.updatePasswordFn(ctx, account, hashed, firstLogin)
	}
	return nil
}

type fakeMailer struct {
	resetErr    error
	resetTo     string
	resetPass   string
	resetCalled bool
}

func (f *fakeMailer) SendAccountCredentials(ctx context.Context, to, name, account, password string) error {
	return nil
}

func (f *fakeMailer) SendUserLockNotice(ctx context.Context, to, name, verificationCode string) error {
	return nil
}

func (f *fakeMailer) SendAdminLockNotice(ctx context.Context, to, name string, adminOverride bool) error {
	return nil
}

func (f *fakeMailer) SendPasswordReset(ctx context.Context, to, name, tempPassword string) error {
	f.resetCalled = true
	f.resetTo = to
	f.resetPass = tempPassword
	return f.resetErr
}

type fakeTokenIssuer struct {
	token string
	err   error
}

func (f *fakeTokenIssuer) Issue(u *user.User) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.token != "" {
		return f.token, nil
	}
	return "token-" + u.Account, nil
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	assert.NoError(t, err)
	return string(h)
}

func clerk(t *testing.T) *user.User {
	return &user.User{
		ID:         uuid.New(),
		EmployeeID: "2026001",
		Name:       "陳小明",
		Account:    "BDC001",
		Password:   hash(t, "secret123"),
		Role:       "user",
		Department: "BD",
		Position:   "C",
		Email:      "chen@gmail.com",
	}
}

func TestUserService_UpdateProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("updates contact fields", func(t *testing.T) {
		var saved *user.User
		repo := &fakeRepository{
			findByAccountFn: func(ctx context.Context, account, role string) (*user.User, error) {
				return clerk(t), nil
			},
			updateFn: func(ctx context.Context, u *user.User) error {
				saved = u
				return nil
			},
		}
		svc := user.NewService(repo, &fakeMailer{}, &fakeTokenIssuer{})

		resp, err := svc.UpdateProfile(ctx, "BDC001", "user", user.UpdateProfileRequest{
			Email:         "new.chen@gmail.com",
			PersonalPhone: "0912345678",
			Birthday:      "1995-06-15",
			EmergencyContact: user.EmergencyContactPayload{
				Name: "陳媽媽", Phone: "0987654321", Relationship: "母親",
			},
		})

		assert.NoError(t, err)
		assert.Equal(t, "new.chen@gmail.com", resp.Email)
		assert.Equal(t, "1995-06-15", resp.Birthday)
		assert.NotNil(t, saved)
		assert.Equal(t, "0912345678", saved.PersonalPhone)
		assert.Equal(t, "陳媽媽", saved.EmergencyContact.Name)
	})

	t.Run("negative non-gmail address", func(t *testing.T) {
		repo := &fakeRepository{
			findByAccountFn: func(ctx context.Context, account, role string) (*user.User, error) {
				return clerk(t), nil
			},
		}
		svc := user.NewService(repo, &fakeMailer{}, &fakeTokenIssuer{})

		_, err := svc.UpdateProfile(ctx, "BDC001", "user", user.UpdateProfileRequest{Email: "chen@yahoo.com"})
		assert.ErrorIs(t, err, usererrors.ErrInvalidEmail)
	})

	t.Run("negative malformed phone", func(t *testing.T) {
		repo := &fakeRepository{
			findByAccountFn: func(ctx context.Context, account, role string) (*user.User, error) {
				return clerk(t), nil
			},
		}
		svc := user.NewService(repo, &fakeMailer{}, &fakeTokenIssuer{})

		_, err := svc.UpdateProfile(ctx, "BDC001", "user", user.UpdateProfileRequest{PersonalPhone: "12345"})
		assert.ErrorIs(t, err, usererrors.ErrInvalidPhone)
	})

	t.Run("negative bad birthday format", func(t *testing.T) {
		repo := &fakeRepository{
			findByAccountFn: func(ctx context.Context, account, role string) (*user.User, error) {
				return clerk(t), nil
			},
		}
		svc := user.NewService(repo, &fakeMailer{}, &fakeTokenIssuer{})

		_, err := svc.UpdateProfile(ctx, "BDC001", "user", user.UpdateProfileRequest{Birthday: "15/06/1995"})
		assert.ErrorIs(t, err, usererrors.ErrInvalidBirthday)
	})
}

func TestUserService_UploadAvatar(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepository{
		findByAccountFn: func(ctx context.Context, account, role string) (*user.User, error) {
			return clerk(t), nil
		},
	}
	svc := user.NewService(repo, &fakeMailer{}, &fakeTokenIssuer{})

	t.Run("accepts a small data uri", func(t *testing.T) {
		payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte("tiny png"))
		err := svc.UploadAvatar(ctx, "BDC001", "user", user.UploadAvatarRequest{Avatar: payload})
		assert.NoError(t, err)
	})

	t.Run("negative not a data uri", func(t *testing.T) {
		err := svc.UploadAvatar(ctx, "BDC001", "user", user.UploadAvatarRequest{Avatar: "https://cdn.example.com/x.png"})
		assert.ErrorIs(t, err, usererrors.ErrInvalidAvatar)
	})

	t.Run("negative over the size cap", func(t *testing.T) {
		big := strings.Repeat("a", 3<<20)
		payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString([]byte(big))
		err := svc.UploadAvatar(ctx, "BDC001", "user", user.UploadAvatarRequest{Avatar: payload})
		assert.ErrorIs(t, err, usererrors.ErrAvatarTooLarge)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("issues a fresh token and clears first login", func(t *testing.T) {
		var persistedFirstLogin *bool
		repo := &fakeRepository{
			findByAccountFn: func(ctx context.Context, account, role string) (*user.User, error) {
				return clerk(t), nil
			},
			updatePasswordFn: func(ctx context.Context, account, hashed string, firstLogin bool) error {
				persistedFirstLogin = &firstLogin
				assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hashed), []byte("brandNew456")))
				return nil
			},
		}
		svc := user.NewService(repo, &fakeMailer{}, &fakeTokenIssuer{})

		resp, err := svc.ChangePassword(ctx, "BDC001", "user", user.ChangePasswordRequest{
			OldPassword: "secret123",
			NewPassword: "brandNew456",
		})

		assert.NoError(t, err)
		assert.Equal(t, "token-BDC001", resp.Token)
		if assert.NotNil(t, persistedFirstLogin) {
			assert.False(t, *persistedFirstLogin)
		}
	})

	t.Run("negative wrong old password", func(t *testing.T) {
		repo := &fakeRepository{
			findByAccountFn: func(ctx context.Context, account, role string) (*user.User, error) {
				return clerk(t), nil
			},
		}
		svc := user.NewService(repo, &fakeMailer{}, &fakeTokenIssuer{})

		_, err := svc.ChangePassword(ctx, "BDC001", "user", user.ChangePasswordRequest{
			OldPassword: "nope",
			NewPassword: "brandNew456",
		})
		assert.ErrorIs(t, err, usererrors.ErrWrongOldPassword)
	})

	t.Run("negative new password equals old", func(t *testing.T) {
		repo := &fakeRepository{
			findByAccountFn: func(ctx context.Context, account, role string) (*user.User, error) {
				return clerk(t), nil
			},
		}
		svc := user.NewService(repo, &fakeMailer{}, &fakeTokenIssuer{})

		_, err := svc.ChangePassword(ctx, "BDC001", "user", user.ChangePasswordRequest{
			OldPassword: "secret123",
			NewPassword: "secret123",
		})
		assert.ErrorIs(t, err, usererrors.ErrSamePassword)
	})
}

func TestUserService_ResetPassword(t *testing.T) {
	ctx := context.Background()

	t.Run("mails the temp password that was persisted", func(t *testing.T) {
		var persistedHash string
		repo := &fakeRepository{
			findByAccountFn: func(ctx context.Context, account, role string) (*user.User, error) {
				return clerk(t), nil
			},
			updatePasswordFn: func(ctx context.Context, account, hashed string, firstLogin bool) error {
				persistedHash = hashed
				assert.True(t, firstLogin)
				return nil
			},
		}
		mailer := &fakeMailer{}
		svc := user.NewService(repo, mailer, &fakeTokenIssuer{})

		resp, err := svc.ResetPassword(ctx, "BDC001")

		assert.NoError(t, err)
		assert.True(t, resp.EmailSent)
		assert.Equal(t, "chen@gmail.com", mailer.resetTo)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(persistedHash), []byte(mailer.resetPass)))
	})

	t.Run("no email on file downgrades to a warning", func(t *testing.T) {
		repo := &fakeRepository{
			findByAccountFn: func(ctx context.Context, account, role string) (*user.User, error) {
				u := clerk(t)
				u.Email = ""
				return u, nil
			},
		}
		mailer := &fakeMailer{}
		svc := user.NewService(repo, mailer, &fakeTokenIssuer{})

		resp, err := svc.ResetPassword(ctx, "BDC001")
		assert.NoError(t, err)
		assert.False(t, resp.EmailSent)
		assert.False(t, mailer.resetCalled)
	})

	t.Run("mail failure does not undo the reset", func(t *testing.T) {
		repo := &fakeRepository{
			findByAccountFn: func(ctx context.Context, account, role string) (*user.User, error) {
				return clerk(t), nil
			},
		}
		svc := user.NewService(repo, &fakeMailer{resetErr: errors.New("smtp unavailable")}, &fakeTokenIssuer{})

		resp, err := svc.ResetPassword(ctx, "BDC001")
		assert.NoError(t, err)
		assert.False(t, resp.EmailSent)
	})
}

func TestUserService_DepartmentEmployees(t *testing.T) {
	ctx := context.Background()

	supervisor := &user.User{ID: uuid.New(), EmployeeID: "2026002", Department: "BD", Position: "S"}
	manager := &user.User{ID: uuid.New(), EmployeeID: "2026003", Department: "BD", Position: "M"}

	t.Run("supervisor sees staff only", func(t *testing.T) {
		var gotPositions []string
		repo := &fakeRepository{
			findByEmployeeIDFn: func(ctx context.Context, employeeID string) (*user.User, error) {
				return supervisor, nil
			},
			listByDepartmentFn: func(ctx context.Context, department string, positions []string) ([]user.User, error) {
				gotPositions = positions
				assert.Equal(t, "BD", department)
				return nil, nil
			},
		}
		svc := user.NewService(repo, &fakeMailer{}, &fakeTokenIssuer{})

		_, err := svc.DepartmentEmployees(ctx, supervisor.EmployeeID)
		assert.NoError(t, err)
		assert.Equal(t, []string{"C"}, gotPositions)
	})

	t.Run("manager sees every position", func(t *testing.T) {
		var gotPositions []string
		repo := &fakeRepository{
			findByEmployeeIDFn: func(ctx context.Context, employeeID string) (*user.User, error) {
				return manager, nil
			},
			listByDepartmentFn: func(ctx context.Context, department string, positions []string) ([]user.User, error) {
				gotPositions = positions
				return nil, nil
			},
		}
		svc := user.NewService(repo, &fakeMailer{}, &fakeTokenIssuer{})

		_, err := svc.DepartmentEmployees(ctx, manager.EmployeeID)
		assert.NoError(t, err)
		assert.Nil(t, gotPositions)
	})

	t.Run("negative staff cannot list the department", func(t *testing.T) {
		repo := &fakeRepository{
			findByEmployeeIDFn: func(ctx context.Context, employeeID string) (*user.User, error) {
				return clerk(t), nil
			},
		}
		svc := user.NewService(repo, &fakeMailer{}, &fakeTokenIssuer{})

		_, err := svc.DepartmentEmployees(ctx, "2026001")
		assert.ErrorIs(t, err, usererrors.ErrSupervisorOnly)
	})
}

func TestUserService_ListEmployees(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes the department filter", func(t *testing.T) {
		var gotDept string
		repo := &fakeRepository{
			listByRoleFn: func(ctx context.Context, role, department, name string, page, pageSize int) ([]user.User, int64, error) {
				gotDept = department
				assert.Equal(t, "user", role)
				assert.Equal(t, 1, page)
				assert.Equal(t, 10, pageSize)
				return []user.User{*clerk(t)}, 1, nil
			},
		}
		svc := user.NewService(repo, &fakeMailer{}, &fakeTokenIssuer{})

		items, total, err := svc.ListEmployees(ctx, "業務部", "", 0, 0)
		assert.NoError(t, err)
		assert.Equal(t, "BD", gotDept)
		assert.Equal(t, int64(1), total)
		assert.Len(t, items, 1)
	})

	t.Run("negative unknown department", func(t *testing.T) {
		svc := user.NewService(&fakeRepository{}, &fakeMailer{}, &fakeTokenIssuer{})

		_, _, err := svc.ListEmployees(ctx, "不存在的部門", "", 1, 10)
		assert.ErrorIs(t, err, usererrors.ErrInvalidDepartment)
	})
}

func TestUserService_Delete(t *testing.T) {
	ctx := context.Background()
	target := clerk(t)

	var deletedID string
	repo := &fakeRepository{
		findByEmployeeIDFn: func(ctx context.Context, employeeID string) (*user.User, error) {
			return target, nil
		},
		deleteFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}
	svc := user.NewService(repo, &fakeMailer{}, &fakeTokenIssuer{})

	err := svc.Delete(ctx, target.EmployeeID)
	assert.NoError(t, err)
	assert.Equal(t, target.ID.String(), deletedID)

	t.Run("negative unknown employee", func(t *testing.T) {
		svc := user.NewService(&fakeRepository{}, &fakeMailer{}, &fakeTokenIssuer{})
		err := svc.Delete(ctx, "9999999")
		assert.Error(t, err)
	})
}
