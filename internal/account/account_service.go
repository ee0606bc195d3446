package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	accounterrors "github.com/yhnjiuy4321/BankSystem/internal/account/errors"
	"github.com/yhnjiuy4321/BankSystem/internal/approval"
	"github.com/yhnjiuy4321/BankSystem/internal/newemployee"
	newemployeeerrors "github.com/yhnjiuy4321/BankSystem/internal/newemployee/errors"
	"github.com/yhnjiuy4321/BankSystem/internal/notification"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/credentials"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/orgcode"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/sequence"
	"github.com/yhnjiuy4321/BankSystem/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxSequence    = 999
	passwordLength = 6
)

//go:generate mockgen -source=account_service.go -destination=mock/account_service_mock.go -package=mock
type Service interface {
	Provision(ctx context.Context, newEmployeeID, adminAccount string) (ProvisionResponse, error)
	BatchProvision(ctx context.Context, req BatchProvisionRequest, adminAccount string) (BatchProvisionResponse, error)
}

type service struct {
	db      *sql.DB
	users   user.Repository
	newemps newemployee.Repository
	seq     sequence.Repository
	mailer  notification.Mailer
	logger  *zap.Logger
}

func NewService(
	db *sql.DB,
	users user.Repository,
	newemps newemployee.Repository,
	seq sequence.Repository,
	mailer notification.Mailer,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("account.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("account.service")
	}
	return &service{
		db:      db,
		users:   users,
		newemps: newemps,
		seq:     seq,
		mailer:  mailer,
		logger:  l,
	}
}

// nextEmployeeID reserves the next {yyyy}{mm}{seq:3} employee id inside the
// caller's transaction. A collision after the max query is a hard invariant
// violation, never silently retried.
func (s *service) nextEmployeeID(ctx context.Context, qseq sequence.Repository, now time.Time) (string, error) {
	prefix := fmt.Sprintf("%04d%02d", now.Year(), int(now.Month()))

	max, err := qseq.MaxEmployeeIDSeq(ctx, prefix)
	if err != nil {
		return "", err
	}
	if max >= maxSequence {
		return "", accounterrors.ErrEmployeeIDExhausted
	}

	employeeID := fmt.Sprintf("%s%03d", prefix, max+1)
	taken, err := qseq.EmployeeIDExists(ctx, employeeID)
	if err != nil {
		return "", err
	}
	if taken {
		s.logger.Error("employee id collision", zap.String("employee_id", employeeID))
		return "", accounterrors.ErrSequenceCollision
	}
	return employeeID, nil
}

// nextAccount reserves the next {dept}{pos}{seq:3} login account. The
// per-prefix space is hard capped at 999.
func (s *service) nextAccount(ctx context.Context, qseq sequence.Repository, department, position string) (string, error) {
	prefix, ok := orgcode.AccountPrefix(department, position)
	if !ok {
		return "", accounterrors.ErrUnknownOrgCode
	}

	max, err := qseq.MaxAccountSeq(ctx, prefix)
	if err != nil {
		return "", err
	}
	if max >= maxSequence {
		s.logger.Warn("account sequence exhausted", zap.String("prefix", prefix))
		return "", accounterrors.ErrAccountExhausted
	}

	account := fmt.Sprintf("%s%03d", prefix, max+1)
	taken, err := qseq.AccountExists(ctx, account)
	if err != nil {
		return "", err
	}
	if taken {
		s.logger.Error("account collision", zap.String("account", account))
		return "", accounterrors.ErrSequenceCollision
	}
	return account, nil
}

// Provision creates the user row and stamps the onboarding submission in one
// transaction: both happen or neither does. The credentials email is sent
// after commit, best effort.
func (s *service) Provision(ctx context.Context, newEmployeeID, adminAccount string) (ProvisionResponse, error) {
	s.logger.Debug("provision requested", zap.String("new_employee_id", newEmployeeID))

	n, err := s.newemps.FindByID(ctx, newEmployeeID)
	if err != nil {
		return ProvisionResponse{}, newemployeeerrors.ErrNewEmployeeNotFound
	}
	if n.Status != approval.StatusApproved {
		return ProvisionResponse{}, newemployeeerrors.ErrNotApproved
	}
	if n.HasAccount {
		return ProvisionResponse{}, newemployeeerrors.ErrAlreadyProvisioned
	}

	plainPassword, err := credentials.GeneratePassword(passwordLength)
	if err != nil {
		s.logger.Error("password generation failed", zap.Error(err))
		return ProvisionResponse{}, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plainPassword), bcrypt.DefaultCost)
	if err != nil {
		return ProvisionResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("provision begin tx failed", zap.Error(err))
		return ProvisionResponse{}, err
	}
	defer tx.Rollback()

	now := time.Now()
	qseq := s.seq.WithTx(tx)

	employeeID, err := s.nextEmployeeID(ctx, qseq, now)
	if err != nil {
		return ProvisionResponse{}, err
	}
	account, err := s.nextAccount(ctx, qseq, n.Department, n.Position)
	if err != nil {
		return ProvisionResponse{}, err
	}

	u := &user.User{
		ID:           uuid.New(),
		EmployeeID:   employeeID,
		Name:         n.Name,
		Account:      account,
		Password:     string(hashed),
		Role:         orgcode.RoleUser,
		Department:   n.Department,
		Position:     n.Position,
		Email:        n.Email,
		IsFirstLogin: true,
	}
	if err := s.users.WithTx(tx).Create(ctx, u); err != nil {
		s.logger.Error("provision user insert failed", zap.Error(err))
		return ProvisionResponse{}, user.MapRepositoryError(err)
	}

	affected, err := s.newemps.WithTx(tx).MarkProvisioned(ctx, newEmployeeID, employeeID, account, adminAccount, now)
	if err != nil {
		s.logger.Error("provision mark failed", zap.Error(err))
		return ProvisionResponse{}, err
	}
	if affected == 0 {
		return ProvisionResponse{}, newemployeeerrors.ErrAlreadyProvisioned
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("provision commit failed", zap.Error(err))
		return ProvisionResponse{}, err
	}

	// Email failure must not undo a committed provisioning
	emailSent := true
	if err := s.mailer.SendAccountCredentials(ctx, n.Email, n.Name, account, plainPassword); err != nil {
		emailSent = false
		s.logger.Warn("credentials email failed",
			zap.String("account", account),
			zap.Error(err),
		)
	}

	s.logger.Info("account provisioned",
		zap.String("new_employee_id", newEmployeeID),
		zap.String("employee_id", employeeID),
		zap.String("account", account),
		zap.Bool("email_sent", emailSent),
	)
	return ProvisionResponse{
		NewEmployeeID: newEmployeeID,
		EmployeeID:    employeeID,
		Account:       account,
		Name:          n.Name,
		Email:         n.Email,
		EmailSent:     emailSent,
	}, nil
}

// BatchProvision runs each submission in its own transaction; one failure
// never rolls back its siblings.
func (s *service) BatchProvision(ctx context.Context, req BatchProvisionRequest, adminAccount string) (BatchProvisionResponse, error) {
	resp := BatchProvisionResponse{Results: make([]BatchItemResult, 0, len(req.NewEmployeeIDs))}

	for _, id := range req.NewEmployeeIDs {
		item, err := s.Provision(ctx, id, adminAccount)
		if err != nil {
			resp.Failed++
			resp.Results = append(resp.Results, BatchItemResult{
				NewEmployeeID: id,
				Success:       false,
				Error:         err.Error(),
			})
			continue
		}
		resp.Succeeded++
		resp.Results = append(resp.Results, BatchItemResult{
			NewEmployeeID: id,
			Success:       true,
			EmployeeID:    item.EmployeeID,
			Account:       item.Account,
		})
	}

	s.logger.Info("batch provision finished",
		zap.Int("succeeded", resp.Succeeded),
		zap.Int("failed", resp.Failed),
	)
	return resp, nil
}
