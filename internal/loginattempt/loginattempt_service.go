package loginattempt

import (
	"context"
	"encoding/json"
	"time"

	"github.com/yhnjiuy4321/BankSystem/internal/events"
	loginattempterrors "github.com/yhnjiuy4321/BankSystem/internal/loginattempt/errors"
	"github.com/yhnjiuy4321/BankSystem/internal/messaging/kafka"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/contextutil"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/credentials"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/orgcode"
	"github.com/yhnjiuy4321/BankSystem/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MaxAttempts locks the account; further failures never raise the count
	// past the lock.
	MaxAttempts = 5
	// LockDuration is the time based unlock window.
	LockDuration = 15 * time.Minute
)

//go:generate mockgen -source=loginattempt_service.go -destination=mock/loginattempt_service_mock.go -package=mock
type Service interface {
	Check(ctx context.Context, account, role string) (CheckResult, error)
	RegisterFailure(ctx context.Context, account, role, ip string) (FailureResult, error)
	RegisterSuccess(ctx context.Context, account, role string) error
	VerifyUnlock(ctx context.Context, account, code string) error
	SetLock(ctx context.Context, account, role string, locked bool) error
	LockStatuses(ctx context.Context, role string) ([]LockStatusResponse, error)
}

type service struct {
	repo   Repository
	users  user.Repository
	outbox kafka.OutboxRepository
	logger *zap.Logger
}

func NewService(repo Repository, users user.Repository, outbox kafka.OutboxRepository, logger ...*zap.Logger) Service {
	l := zap.L().Named("loginattempt.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("loginattempt.service")
	}
	return &service{repo: repo, users: users, outbox: outbox, logger: l}
}

// Check reports the guard state before password verification. Expired locks
// unlock lazily here: the first check past lock_until resets the row.
func (s *service) Check(ctx context.Context, account, role string) (CheckResult, error) {
	attempt, err := s.repo.Find(ctx, account, role)
	if err != nil {
		return CheckResult{}, err
	}
	if attempt == nil {
		return CheckResult{AttemptsLeft: MaxAttempts}, nil
	}

	if attempt.Status == StatusLocked {
		if attempt.LockUntil != nil && !time.Now().Before(*attempt.LockUntil) {
			if err := s.repo.Reset(ctx, account, role); err != nil {
				return CheckResult{}, err
			}
			if role == orgcode.RoleUser {
				// A stale unlock code must not survive the time based unlock
				if err := s.users.ClearVerificationCode(ctx, account); err != nil {
					s.logger.Warn("clear verification code failed", zap.String("account", account), zap.Error(err))
				}
			}
			s.logger.Info("account unlocked by time", zap.String("account", account), zap.String("role", role))
			return CheckResult{AttemptsLeft: MaxAttempts}, nil
		}

		result := CheckResult{Locked: true}
		if attempt.LockUntil != nil {
			result.LockUntil = attempt.LockUntil.Format(time.RFC3339)
		}
		if role == orgcode.RoleUser {
			if u, err := s.users.FindByAccount(ctx, account, role); err == nil {
				result.RequireVerification = u.VerificationCode.IsValid
			}
		}
		return result, nil
	}

	return CheckResult{AttemptsLeft: MaxAttempts - attempt.Attempts}, nil
}

// RegisterFailure bumps the counter atomically and locks the account when it
// reaches MaxAttempts. User accounts additionally get a one time unlock code.
func (s *service) RegisterFailure(ctx context.Context, account, role, ip string) (FailureResult, error) {
	attempts, err := s.repo.IncrementAttempts(ctx, account, role, ip)
	if err != nil {
		return FailureResult{}, err
	}

	if attempts < MaxAttempts {
		s.logger.Info("login failure recorded",
			zap.String("account", account),
			zap.String("role", role),
			zap.Int("attempts", attempts),
		)
		return FailureResult{AttemptsLeft: MaxAttempts - attempts}, nil
	}

	until := time.Now().Add(LockDuration)
	if err := s.repo.Lock(ctx, account, role, until); err != nil {
		return FailureResult{}, err
	}
	s.logger.Warn("account locked",
		zap.String("account", account),
		zap.String("role", role),
		zap.Time("lock_until", until),
	)

	result := FailureResult{Locked: true}
	if role == orgcode.RoleUser {
		code := s.issueVerificationCode(ctx, account)
		result.RequireVerification = code != ""
		s.queueLockNotice(ctx, account, role, code, false)
	} else {
		s.queueLockNotice(ctx, account, role, "", false)
	}

	return result, nil
}

func (s *service) RegisterSuccess(ctx context.Context, account, role string) error {
	return s.repo.Reset(ctx, account, role)
}

// VerifyUnlock consumes the one time code. The code is cleared whether the
// unlock succeeds or not only on success; a wrong guess leaves it valid.
func (s *service) VerifyUnlock(ctx context.Context, account, code string) error {
	u, err := s.users.FindByAccount(ctx, account, orgcode.RoleUser)
	if err != nil {
		return loginattempterrors.ErrInvalidVerificationCode
	}

	attempt, err := s.repo.Find(ctx, account, orgcode.RoleUser)
	if err != nil {
		return err
	}
	if attempt == nil || attempt.Status != StatusLocked {
		return loginattempterrors.ErrNotLocked
	}

	if !u.VerificationCode.IsValid || u.VerificationCode.Code == "" || u.VerificationCode.Code != code {
		s.logger.Warn("verification unlock rejected", zap.String("account", account))
		return loginattempterrors.ErrInvalidVerificationCode
	}

	if err := s.users.ClearVerificationCode(ctx, account); err != nil {
		return err
	}
	if err := s.repo.Reset(ctx, account, orgcode.RoleUser); err != nil {
		return err
	}

	s.logger.Info("account unlocked by verification code", zap.String("account", account))
	return nil
}

// SetLock is the admin override in both directions.
func (s *service) SetLock(ctx context.Context, account, role string, locked bool) error {
	if locked {
		// Seed the row if the account has never failed a login
		if _, err := s.repo.IncrementAttempts(ctx, account, role, ""); err != nil {
			return err
		}
		until := time.Now().Add(LockDuration)
		if err := s.repo.Lock(ctx, account, role, until); err != nil {
			return err
		}
		s.logger.Warn("account locked by admin", zap.String("account", account), zap.String("role", role))
		s.queueLockNotice(ctx, account, role, "", true)
		return nil
	}

	if err := s.repo.Reset(ctx, account, role); err != nil {
		return err
	}
	if role == orgcode.RoleUser {
		if err := s.users.ClearVerificationCode(ctx, account); err != nil {
			s.logger.Warn("clear verification code failed", zap.String("account", account), zap.Error(err))
		}
	}
	s.logger.Info("account unlocked by admin", zap.String("account", account), zap.String("role", role))
	return nil
}

func (s *service) LockStatuses(ctx context.Context, role string) ([]LockStatusResponse, error) {
	attempts, err := s.repo.ListByRole(ctx, role)
	if err != nil {
		return nil, err
	}

	resp := make([]LockStatusResponse, 0, len(attempts))
	for _, a := range attempts {
		item := LockStatusResponse{
			Account:     a.Account,
			Role:        a.Role,
			Attempts:    a.Attempts,
			Status:      a.Status,
			IPAddress:   a.IPAddress,
			LastAttempt: a.LastAttempt.Format(time.RFC3339),
		}
		if a.LockUntil != nil {
			item.LockUntil = a.LockUntil.Format(time.RFC3339)
		}
		if u, err := s.users.FindByAccount(ctx, a.Account, a.Role); err == nil {
			item.Name = u.Name
		}
		resp = append(resp, item)
	}
	return resp, nil
}

// issueVerificationCode generates and stores a one time unlock code, best
// effort. An empty return means the code path is unavailable.
func (s *service) issueVerificationCode(ctx context.Context, account string) string {
	code, err := credentials.GenerateVerificationCode()
	if err != nil {
		s.logger.Error("generate verification code failed", zap.String("account", account), zap.Error(err))
		return ""
	}
	if err := s.users.SetVerificationCode(ctx, account, code); err != nil {
		s.logger.Error("store verification code failed", zap.String("account", account), zap.Error(err))
		return ""
	}
	return code
}

// queueLockNotice writes the notification through the outbox. Failures are
// logged and swallowed: a dead broker must never break the lockout itself.
func (s *service) queueLockNotice(ctx context.Context, account, role, code string, adminOverride bool) {
	if s.outbox == nil {
		return
	}

	name, email := "", ""
	if u, err := s.users.FindByAccount(ctx, account, role); err == nil {
		name, email = u.Name, u.Email
	}
	if email == "" {
		s.logger.Warn("lock notice skipped, no email on file", zap.String("account", account))
		return
	}

	event := events.AccountLockedEvent{
		EventType:        "account_locked",
		RequestID:        contextutil.GetRequestID(ctx),
		Account:          account,
		Role:             role,
		Name:             name,
		Email:            email,
		VerificationCode: code,
		AdminOverride:    adminOverride,
		OccurredAt:       time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal lock event failed", zap.Error(err))
		return
	}

	err = s.outbox.Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     event.RequestID,
		AggregateType: "login_attempt",
		AggregateID:   account,
		EventType:     event.EventType,
		Topic:         events.AccountLockedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
	if err != nil {
		s.logger.Error("queue lock notice failed", zap.String("account", account), zap.Error(err))
		return
	}

	s.logger.Info("lock notice queued", zap.String("account", account), zap.Bool("admin_override", adminOverride))
}
