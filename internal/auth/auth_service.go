package auth

import (
	"context"
	"time"

	autherrors "github.com/yhnjiuy4321/BankSystem/internal/auth/errors"
	"github.com/yhnjiuy4321/BankSystem/internal/loginattempt"
	"github.com/yhnjiuy4321/BankSystem/internal/loginhistory"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/orgcode"
	"github.com/yhnjiuy4321/BankSystem/internal/user"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest, role, ip, userAgent string) (LoginResponse, error)
	VerifyUnlock(ctx context.Context, req VerifyUnlockRequest) error
	Logout(ctx context.Context, account, role string) error
}

type service struct {
	users   user.Repository
	guard   loginattempt.Service
	history loginhistory.Service
	tokens  *TokenIssuer
	logger  *zap.Logger
}

func NewService(users user.Repository, guard loginattempt.Service, history loginhistory.Service, tokens *TokenIssuer, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{users: users, guard: guard, history: history, tokens: tokens, logger: l}
}

// Login runs the full gate: lock guard, credential check, failure counting,
// history audit, token issue. Order matters: the guard is consulted before
// the password is ever compared.
func (s *service) Login(ctx context.Context, req LoginRequest, role, ip, userAgent string) (LoginResponse, error) {
	s.logger.Debug("login attempt", zap.String("account", req.Account), zap.String("role", role))

	check, err := s.guard.Check(ctx, req.Account, role)
	if err != nil {
		return LoginResponse{}, err
	}
	if check.Locked {
		s.recordHistory(ctx, req.Account, role, "", loginhistory.StatusFailed, ip, userAgent, "account locked")
		return LoginResponse{}, autherrors.ErrAccountLocked.WithDetails(map[string]any{
			"lock_until":           check.LockUntil,
			"require_verification": check.RequireVerification,
		})
	}

	u, err := s.users.FindByAccount(ctx, req.Account, role)
	if err != nil {
		s.recordHistory(ctx, req.Account, role, "", loginhistory.StatusFailed, ip, userAgent, "account not found")
		return LoginResponse{}, autherrors.ErrAccountNotFound
	}

	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)) != nil {
		return LoginResponse{}, s.handleWrongPassword(ctx, u, role, ip, userAgent)
	}

	if err := s.guard.RegisterSuccess(ctx, req.Account, role); err != nil {
		s.logger.Warn("reset login attempts failed", zap.String("account", req.Account), zap.Error(err))
	}

	// Stored codes may predate the canonical code set
	if dept, ok := orgcode.NormalizeDepartment(u.Department); ok {
		u.Department = dept
	}
	if pos, ok := orgcode.NormalizePosition(u.Position); ok {
		u.Position = pos
	}

	now := time.Now()
	if err := s.users.StampLogin(ctx, req.Account, now); err != nil {
		s.logger.Warn("stamp login time failed", zap.String("account", req.Account), zap.Error(err))
	}

	token, err := s.tokens.Issue(u)
	if err != nil {
		s.logger.Error("issue token failed", zap.String("account", req.Account), zap.Error(err))
		return LoginResponse{}, err
	}

	s.recordHistory(ctx, u.Account, role, u.Name, loginhistory.StatusSuccess, ip, userAgent, "")
	s.logger.Info("login success", zap.String("account", u.Account), zap.String("role", role))

	return LoginResponse{
		Token:        token,
		IsFirstLogin: u.IsFirstLogin,
		User: LoginUser{
			EmployeeID: u.EmployeeID,
			Account:    u.Account,
			Name:       u.Name,
			Role:       u.Role,
			Department: u.Department,
			Position:   u.Position,
		},
	}, nil
}

func (s *service) handleWrongPassword(ctx context.Context, u *user.User, role, ip, userAgent string) error {
	result, err := s.guard.RegisterFailure(ctx, u.Account, role, ip)
	if err != nil {
		return err
	}

	reason := "wrong password"
	if result.Locked {
		reason = "wrong password, account locked"
	}
	s.recordHistory(ctx, u.Account, role, u.Name, loginhistory.StatusFailed, ip, userAgent, reason)

	if result.Locked {
		s.logger.Warn("login locked out", zap.String("account", u.Account), zap.String("role", role))
		return autherrors.ErrAccountLocked.WithDetails(map[string]any{
			"require_verification": result.RequireVerification,
		})
	}
	return autherrors.ErrInvalidCredentials.WithDetails(map[string]any{
		"attempts_left": result.AttemptsLeft,
	})
}

// VerifyUnlock consumes the emailed one time code for user accounts.
func (s *service) VerifyUnlock(ctx context.Context, req VerifyUnlockRequest) error {
	if err := s.guard.VerifyUnlock(ctx, req.Account, req.Code); err != nil {
		return err
	}
	s.recordHistory(ctx, req.Account, orgcode.RoleUser, "", loginhistory.StatusSuccess, "", "", "unlocked by verification code")
	return nil
}

// Logout only stamps the audit trail. The token stays valid until its expiry
// or the inactivity window, whichever comes first.
func (s *service) Logout(ctx context.Context, account, role string) error {
	s.logger.Info("logout", zap.String("account", account), zap.String("role", role))
	return nil
}

func (s *service) recordHistory(ctx context.Context, account, role, name, status, ip, userAgent, reason string) {
	if s.history == nil {
		return
	}
	s.history.Record(ctx, loginhistory.LoginHistory{
		Account:   account,
		Role:      role,
		Name:      name,
		Status:    status,
		IPAddress: ip,
		UserAgent: userAgent,
		Reason:    reason,
	})
}
