package account_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/yhnjiuy4321/BankSystem/internal/account"
	accounterrors "github.com/yhnjiuy4321/BankSystem/internal/account/errors"
	"github.com/yhnjiuy4321/BankSystem/internal/approval"
	"github.com/yhnjiuy4321/BankSystem/internal/newemployee"
	newemployeeerrors "github.com/yhnjiuy4321/BankSystem/internal/newemployee/errors"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/sequence"
	"github.com/yhnjiuy4321/BankSystem/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepository struct {
	createFn func(ctx context.Context, u *user.User) error
}

func (f *fakeUserRepository) WithTx(tx *sql.Tx) user.Repository { return f }

func (f *fakeUserRepository) Create(ctx context.Context, u *user.User) error {
	if f.createFn != nil {
		return f.createFn(ctx, u)
	}
	return nil
}

func (f *fakeUserRepository) FindByAccount(ctx context.Context, account, role string) (*user.User, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepository) FindByEmployeeID(ctx context.Context, employeeID string) (*user.User, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	return nil, sql.ErrNoRows
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

type fakeNewEmployeeRepository struct {
	findByIDFn        func(ctx context.Context, id string) (*newemployee.NewEmployee, error)
	markProvisionedFn func(ctx context.Context, id, employeeID, account, createdBy string, at time.Time) (int64, error)
}

func (f *fakeNewEmployeeRepository) WithTx(tx *sql.Tx) newemployee.Repository { return f }

func (f *fakeNewEmployeeRepository) CreateBatch(ctx context.Context, items []*newemployee.NewEmployee) error {
	return nil
}

func (f *fakeNewEmployeeRepository) FindByID(ctx context.Context, id string) (*newemployee.NewEmployee, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, sql.ErrNoRows
}

func (f *fakeNewEmployeeRepository) ListBySubmitter(ctx context.Context, submitterEmployeeID string) ([]newemployee.NewEmployee, error) {
	return nil, nil
}

func (f *fakeNewEmployeeRepository) ListByDepartment(ctx context.Context, department string) ([]newemployee.NewEmployee, error) {
	return nil, nil
}

func (f *fakeNewEmployeeRepository) ListPending(ctx context.Context, department string) ([]newemployee.NewEmployee, error) {
	return nil, nil
}

func (f *fakeNewEmployeeRepository) ListApproved(ctx context.Context, filter newemployee.ApprovedFilter, page, pageSize int) ([]newemployee.NewEmployee, int64, error) {
	return nil, 0, nil
}

func (f *fakeNewEmployeeRepository) UpdateReview(ctx context.Context, id, fromStatus, toStatus string, chain approval.Chain) (int64, error) {
	return 1, nil
}

func (f *fakeNewEmployeeRepository) MarkProvisioned(ctx context.Context, id, employeeID, account, createdBy string, at time.Time) (int64, error) {
	if f.markProvisionedFn != nil {
		return f.markProvisionedFn(ctx, id, employeeID, account, createdBy, at)
	}
	return 1, nil
}

type fakeSequenceRepository struct {
	maxEmployeeIDSeq int
	employeeIDTaken  bool
	maxAccountSeq    int
	accountTaken     bool
}

func (f *fakeSequenceRepository) WithTx(tx *sql.Tx) sequence.Repository { return f }

func (f *fakeSequenceRepository) MaxEmployeeIDSeq(ctx context.Context, prefix string) (int, error) {
	return f.maxEmployeeIDSeq, nil
}

func (f *fakeSequenceRepository) EmployeeIDExists(ctx context.Context, employeeID string) (bool, error) {
	return f.employeeIDTaken, nil
}

func (f *fakeSequenceRepository) MaxAccountSeq(ctx context.Context, prefix string) (int, error) {
	return f.maxAccountSeq, nil
}

func (f *fakeSequenceRepository) AccountExists(ctx context.Context, account string) (bool, error) {
	return f.accountTaken, nil
}

func (f *fakeSequenceRepository) MaxLoanApplicationSeq(ctx context.Context, prefix string) (int, error) {
	return 0, nil
}

func (f *fakeSequenceRepository) LoanApplicationIDExists(ctx context.Context, applicationID string) (bool, error) {
	return false, nil
}

type fakeMailer struct {
	sendErr      error
	sentAccount  string
	sentPassword string
	sentTo       string
}

func (f *fakeMailer) SendAccountCredentials(ctx context.Context, to, name, account, password string) error {
	f.sentTo = to
	f.sentAccount = account
	f.sentPassword = password
	return f.sendErr
}

func (f *fakeMailer) SendUserLockNotice(ctx context.Context, to, name, verificationCode string) error {
	return nil
}

func (f *fakeMailer) SendAdminLockNotice(ctx context.Context, to, name string, adminOverride bool) error {
	return nil
}

func (f *fakeMailer) SendPasswordReset(ctx context.Context, to, name, tempPassword string) error {
	return nil
}

func approvedSubmission(id uuid.UUID) *newemployee.NewEmployee {
	return &newemployee.NewEmployee{
		ID:         id,
		Name:       "新人甲",
		Email:      "hire.a@gmail.com",
		StartDate:  time.Now().AddDate(0, 1, 0),
		Department: "BD",
		Position:   "C",
		Status:     approval.StatusApproved,
	}
}

func TestAccountService_Provision(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	now := time.Now()

	t.Run("provisions user row and marks the submission", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectCommit()

		var createdUser *user.User
		users := &fakeUserRepository{
			createFn: func(ctx context.Context, u *user.User) error {
				createdUser = u
				return nil
			},
		}
		var markedBy string
		newemps := &fakeNewEmployeeRepository{
			findByIDFn: func(ctx context.Context, lookup string) (*newemployee.NewEmployee, error) {
				return approvedSubmission(id), nil
			},
			markProvisionedFn: func(ctx context.Context, lookup, employeeID, account, createdBy string, at time.Time) (int64, error) {
				markedBy = createdBy
				return 1, nil
			},
		}
		mailer := &fakeMailer{}
		svc := account.NewService(db, users, newemps, &fakeSequenceRepository{maxEmployeeIDSeq: 7, maxAccountSeq: 4}, mailer)

		resp, err := svc.Provision(ctx, id.String(), "admin001")

		assert.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%04d%02d008", now.Year(), int(now.Month())), resp.EmployeeID)
		assert.Equal(t, "BDC005", resp.Account)
		assert.True(t, resp.EmailSent)
		assert.Equal(t, "admin001", markedBy)

		assert.NotNil(t, createdUser)
		assert.Equal(t, "user", createdUser.Role)
		assert.True(t, createdUser.IsFirstLogin)
		assert.Equal(t, "BDC005", mailer.sentAccount)
		assert.Equal(t, "hire.a@gmail.com", mailer.sentTo)
		// the mailed password must match the stored hash
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(createdUser.Password), []byte(mailer.sentPassword)))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative submission not yet approved", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		newemps := &fakeNewEmployeeRepository{
			findByIDFn: func(ctx context.Context, lookup string) (*newemployee.NewEmployee, error) {
				n := approvedSubmission(id)
				n.Status = approval.StatusPending
				return n, nil
			},
		}
		svc := account.NewService(db, &fakeUserRepository{}, newemps, &fakeSequenceRepository{}, &fakeMailer{})

		_, err = svc.Provision(ctx, id.String(), "admin001")
		assert.ErrorIs(t, err, newemployeeerrors.ErrNotApproved)
	})

	t.Run("negative already provisioned", func(t *testing.T) {
		db, _, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		newemps := &fakeNewEmployeeRepository{
			findByIDFn: func(ctx context.Context, lookup string) (*newemployee.NewEmployee, error) {
				n := approvedSubmission(id)
				n.HasAccount = true
				return n, nil
			},
		}
		svc := account.NewService(db, &fakeUserRepository{}, newemps, &fakeSequenceRepository{}, &fakeMailer{})

		_, err = svc.Provision(ctx, id.String(), "admin001")
		assert.ErrorIs(t, err, newemployeeerrors.ErrAlreadyProvisioned)
	})

	t.Run("negative monthly employee id space exhausted", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectRollback()

		newemps := &fakeNewEmployeeRepository{
			findByIDFn: func(ctx context.Context, lookup string) (*newemployee.NewEmployee, error) {
				return approvedSubmission(id), nil
			},
		}
		svc := account.NewService(db, &fakeUserRepository{}, newemps, &fakeSequenceRepository{maxEmployeeIDSeq: 999}, &fakeMailer{})

		_, err = svc.Provision(ctx, id.String(), "admin001")
		assert.ErrorIs(t, err, accounterrors.ErrEmployeeIDExhausted)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative account collision is not retried", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectRollback()

		newemps := &fakeNewEmployeeRepository{
			findByIDFn: func(ctx context.Context, lookup string) (*newemployee.NewEmployee, error) {
				return approvedSubmission(id), nil
			},
		}
		svc := account.NewService(db, &fakeUserRepository{}, newemps, &fakeSequenceRepository{accountTaken: true}, &fakeMailer{})

		_, err = svc.Provision(ctx, id.String(), "admin001")
		assert.ErrorIs(t, err, accounterrors.ErrSequenceCollision)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative unknown department code", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectRollback()

		newemps := &fakeNewEmployeeRepository{
			findByIDFn: func(ctx context.Context, lookup string) (*newemployee.NewEmployee, error) {
				n := approvedSubmission(id)
				n.Department = "XX"
				return n, nil
			},
		}
		svc := account.NewService(db, &fakeUserRepository{}, newemps, &fakeSequenceRepository{}, &fakeMailer{})

		_, err = svc.Provision(ctx, id.String(), "admin001")
		assert.ErrorIs(t, err, accounterrors.ErrUnknownOrgCode)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("negative concurrent provision loses on the guarded update", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectRollback()

		newemps := &fakeNewEmployeeRepository{
			findByIDFn: func(ctx context.Context, lookup string) (*newemployee.NewEmployee, error) {
				return approvedSubmission(id), nil
			},
			markProvisionedFn: func(ctx context.Context, lookup, employeeID, account, createdBy string, at time.Time) (int64, error) {
				return 0, nil
			},
		}
		svc := account.NewService(db, &fakeUserRepository{}, newemps, &fakeSequenceRepository{}, &fakeMailer{})

		_, err = svc.Provision(ctx, id.String(), "admin001")
		assert.ErrorIs(t, err, newemployeeerrors.ErrAlreadyProvisioned)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("email failure does not undo the commit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectCommit()

		newemps := &fakeNewEmployeeRepository{
			findByIDFn: func(ctx context.Context, lookup string) (*newemployee.NewEmployee, error) {
				return approvedSubmission(id), nil
			},
		}
		mailer := &fakeMailer{sendErr: errors.New("smtp unavailable")}
		svc := account.NewService(db, &fakeUserRepository{}, newemps, &fakeSequenceRepository{}, mailer)

		resp, err := svc.Provision(ctx, id.String(), "admin001")
		assert.NoError(t, err)
		assert.False(t, resp.EmailSent)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAccountService_BatchProvision(t *testing.T) {
	ctx := context.Background()
	goodID := uuid.New()
	badID := uuid.New()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	defer db.Close()
	mock.ExpectBegin()
	mock.ExpectCommit()

	newemps := &fakeNewEmployeeRepository{
		findByIDFn: func(ctx context.Context, lookup string) (*newemployee.NewEmployee, error) {
			if lookup == badID.String() {
				return nil, sql.ErrNoRows
			}
			return approvedSubmission(goodID), nil
		},
	}
	svc := account.NewService(db, &fakeUserRepository{}, newemps, &fakeSequenceRepository{}, &fakeMailer{})

	resp, err := svc.BatchProvision(ctx, account.BatchProvisionRequest{
		NewEmployeeIDs: []string{goodID.String(), badID.String()},
	}, "admin001")

	assert.NoError(t, err)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	assert.Len(t, resp.Results, 2)
	assert.True(t, resp.Results[0].Success)
	assert.False(t, resp.Results[1].Success)
	assert.NotEmpty(t, resp.Results[1].Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}
