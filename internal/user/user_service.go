package user

import (
	"context"
	"encoding/base64"
	"regexp"
	"strings"
	"time"

	"github.com/yhnjiuy4321/BankSystem/internal/notification"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/credentials"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/orgcode"
	usererrors "github.com/yhnjiuy4321/BankSystem/internal/user/errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const maxAvatarBytes = 2 << 20

var (
	gmailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@gmail\.com$`)
	phonePattern = regexp.MustCompile(`^09\d{8}$`)
)

// TokenIssuer lets ChangePassword hand back a fresh session token without
// importing the auth package.
type TokenIssuer interface {
	Issue(u *User) (string, error)
}

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	GetProfile(ctx context.Context, account, role string) (ProfileResponse, error)
	UpdateProfile(ctx context.Context, account, role string, req UpdateProfileRequest) (ProfileResponse, error)
	UploadAvatar(ctx context.Context, account, role string, req UploadAvatarRequest) error
	ChangePassword(ctx context.Context, account, role string, req ChangePasswordRequest) (ChangePasswordResponse, error)
	Status(ctx context.Context, account, role string) (StatusResponse, error)
	TouchActivity(ctx context.Context, account string)

	ListEmployees(ctx context.Context, department, name string, page, pageSize int) ([]EmployeeResponse, int64, error)
	DepartmentEmployees(ctx context.Context, actorEmployeeID string) ([]EmployeeResponse, error)
	EmployeeDetails(ctx context.Context, employeeID string) (ProfileResponse, error)
	ResetPassword(ctx context.Context, account string) (ResetPasswordResponse, error)
	Delete(ctx context.Context, employeeID string) error
}

type service struct {
	repo   Repository
	mailer notification.Mailer
	tokens TokenIssuer
	logger *zap.Logger
}

func NewService(repo Repository, mailer notification.Mailer, tokens TokenIssuer, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, mailer: mailer, tokens: tokens, logger: l}
}

func (s *service) GetProfile(ctx context.Context, account, role string) (ProfileResponse, error) {
	u, err := s.repo.FindByAccount(ctx, account, role)
	if err != nil {
		return ProfileResponse{}, MapRepositoryError(err)
	}
	return mapToProfile(u), nil
}

func (s *service) UpdateProfile(ctx context.Context, account, role string, req UpdateProfileRequest) (ProfileResponse, error) {
	s.logger.Debug("update profile requested", zap.String("account", account))

	u, err := s.repo.FindByAccount(ctx, account, role)
	if err != nil {
		return ProfileResponse{}, MapRepositoryError(err)
	}

	if req.Email != "" {
		if !gmailPattern.MatchString(req.Email) {
			s.logger.Warn("update profile invalid email", zap.String("account", account))
			return ProfileResponse{}, usererrors.ErrInvalidEmail
		}
		u.Email = req.Email
	}
	if req.PersonalPhone != "" {
		if !phonePattern.MatchString(req.PersonalPhone) {
			return ProfileResponse{}, usererrors.ErrInvalidPhone
		}
		u.PersonalPhone = req.PersonalPhone
	}
	if req.EmergencyContact.Phone != "" && !phonePattern.MatchString(req.EmergencyContact.Phone) {
		return ProfileResponse{}, usererrors.ErrInvalidPhone
	}
	if req.Extension != "" {
		u.Extension = req.Extension
	}
	if req.Birthday != "" {
		birthday, err := time.Parse("2006-01-02", req.Birthday)
		if err != nil {
			return ProfileResponse{}, usererrors.ErrInvalidBirthday
		}
		u.Birthday = &birthday
	}
	if req.EmergencyContact != (EmergencyContactPayload{}) {
		u.EmergencyContact = EmergencyContact{
			Name:         req.EmergencyContact.Name,
			Phone:        req.EmergencyContact.Phone,
			Relationship: req.EmergencyContact.Relationship,
		}
	}

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("update profile persist failed", zap.String("account", account), zap.Error(err))
		return ProfileResponse{}, MapRepositoryError(err)
	}

	s.logger.Info("update profile success", zap.String("account", account))
	return mapToProfile(u), nil
}

func (s *service) UploadAvatar(ctx context.Context, account, role string, req UploadAvatarRequest) error {
	payload := req.Avatar
	if !strings.HasPrefix(payload, "data:image/") {
		return usererrors.ErrInvalidAvatar
	}

	_, encoded, found := strings.Cut(payload, ",")
	if !found {
		return usererrors.ErrInvalidAvatar
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return usererrors.ErrInvalidAvatar
	}
	if len(raw) > maxAvatarBytes {
		return usererrors.ErrAvatarTooLarge
	}

	u, err := s.repo.FindByAccount(ctx, account, role)
	if err != nil {
		return MapRepositoryError(err)
	}
	u.Avatar = payload

	if err := s.repo.Update(ctx, u); err != nil {
		s.logger.Error("upload avatar persist failed", zap.String("account", account), zap.Error(err))
		return MapRepositoryError(err)
	}

	s.logger.Info("upload avatar success", zap.String("account", account), zap.Int("bytes", len(raw)))
	return nil
}

func (s *service) ChangePassword(ctx context.Context, account, role string, req ChangePasswordRequest) (ChangePasswordResponse, error) {
	s.logger.Debug("change password requested", zap.String("account", account))

	u, err := s.repo.FindByAccount(ctx, account, role)
	if err != nil {
		return ChangePasswordResponse{}, MapRepositoryError(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.OldPassword)); err != nil {
		s.logger.Warn("change password wrong old password", zap.String("account", account))
		return ChangePasswordResponse{}, usererrors.ErrWrongOldPassword
	}
	if req.OldPassword == req.NewPassword {
		return ChangePasswordResponse{}, usererrors.ErrSamePassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return ChangePasswordResponse{}, err
	}

	if err := s.repo.UpdatePassword(ctx, account, string(hashed), false); err != nil {
		s.logger.Error("change password persist failed", zap.String("account", account), zap.Error(err))
		return ChangePasswordResponse{}, MapRepositoryError(err)
	}

	u.Password = string(hashed)
	u.IsFirstLogin = false
	token, err := s.tokens.Issue(u)
	if err != nil {
		s.logger.Error("change password token issue failed", zap.String("account", account), zap.Error(err))
		return ChangePasswordResponse{}, err
	}

	s.logger.Info("change password success", zap.String("account", account))
	return ChangePasswordResponse{Token: token}, nil
}

func (s *service) Status(ctx context.Context, account, role string) (StatusResponse, error) {
	u, err := s.repo.FindByAccount(ctx, account, role)
	if err != nil {
		return StatusResponse{}, MapRepositoryError(err)
	}
	return StatusResponse{IsFirstLogin: u.IsFirstLogin}, nil
}

// TouchActivity refreshes the inactivity clock. A storage failure here must
// never fail the request, so the error is only logged.
func (s *service) TouchActivity(ctx context.Context, account string) {
	if err := s.repo.TouchActivity(ctx, account, time.Now().UTC()); err != nil {
		s.logger.Warn("touch activity failed", zap.String("account", account), zap.Error(err))
	}
}

func (s *service) ListEmployees(ctx context.Context, department, name string, page, pageSize int) ([]EmployeeResponse, int64, error) {
	if department != "" {
		dept, ok := orgcode.NormalizeDepartment(department)
		if !ok {
			return nil, 0, usererrors.ErrInvalidDepartment
		}
		department = dept
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 10
	}

	users, total, err := s.repo.ListByRole(ctx, orgcode.RoleUser, department, name, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return mapToEmployeeList(users), total, nil
}

func (s *service) DepartmentEmployees(ctx context.Context, actorEmployeeID string) ([]EmployeeResponse, error) {
	actor, err := s.repo.FindByEmployeeID(ctx, actorEmployeeID)
	if err != nil {
		return nil, MapRepositoryError(err)
	}

	var positions []string
	switch actor.Position {
	case orgcode.PosSupervisor:
		positions = []string{orgcode.PosStaff}
	case orgcode.PosManager:
		positions = nil // all positions
	default:
		return nil, usererrors.ErrSupervisorOnly
	}

	users, err := s.repo.ListByDepartment(ctx, actor.Department, positions)
	if err != nil {
		return nil, err
	}
	return mapToEmployeeList(users), nil
}

func (s *service) EmployeeDetails(ctx context.Context, employeeID string) (ProfileResponse, error) {
	u, err := s.repo.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		return ProfileResponse{}, MapRepositoryError(err)
	}
	return mapToProfile(u), nil
}

func (s *service) ResetPassword(ctx context.Context, account string) (ResetPasswordResponse, error) {
	s.logger.Debug("reset password requested", zap.String("account", account))

	u, err := s.repo.FindByAccount(ctx, account, orgcode.RoleUser)
	if err != nil {
		return ResetPasswordResponse{}, MapRepositoryError(err)
	}

	tempPassword, err := credentials.GeneratePassword(10)
	if err != nil {
		return ResetPasswordResponse{}, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		return ResetPasswordResponse{}, err
	}

	if err := s.repo.UpdatePassword(ctx, account, string(hashed), true); err != nil {
		s.logger.Error("reset password persist failed", zap.String("account", account), zap.Error(err))
		return ResetPasswordResponse{}, MapRepositoryError(err)
	}

	// Delivery failure downgrades to a soft warning; the reset itself stands.
	emailSent := true
	if u.Email == "" {
		emailSent = false
	} else if err := s.mailer.SendPasswordReset(ctx, u.Email, u.Name, tempPassword); err != nil {
		s.logger.Warn("reset password mail failed", zap.String("account", account), zap.Error(err))
		emailSent = false
	}

	s.logger.Info("reset password success", zap.String("account", account), zap.Bool("email_sent", emailSent))
	return ResetPasswordResponse{EmailSent: emailSent}, nil
}

func (s *service) Delete(ctx context.Context, employeeID string) error {
	u, err := s.repo.FindByEmployeeID(ctx, employeeID)
	if err != nil {
		return MapRepositoryError(err)
	}

	// Workflow records (leaves, loans, onboarding, login history) reference
	// the employee id and are deliberately left in place.
	if err := s.repo.Delete(ctx, u.ID.String()); err != nil {
		s.logger.Error("delete user failed", zap.String("employee_id", employeeID), zap.Error(err))
		return MapRepositoryError(err)
	}

	s.logger.Info("delete user success", zap.String("employee_id", employeeID))
	return nil
}

func mapToProfile(u *User) ProfileResponse {
	resp := ProfileResponse{
		ID:             u.ID.String(),
		EmployeeID:     u.EmployeeID,
		Name:           u.Name,
		Account:        u.Account,
		Role:           u.Role,
		Department:     u.Department,
		DepartmentName: orgcode.DepartmentName(u.Department),
		Position:       u.Position,
		PositionName:   orgcode.PositionName(u.Position),
		Email:          u.Email,
		Extension:      u.Extension,
		PersonalPhone:  u.PersonalPhone,
		EmergencyContact: EmergencyContactPayload{
			Name:         u.EmergencyContact.Name,
			Phone:        u.EmergencyContact.Phone,
			Relationship: u.EmergencyContact.Relationship,
		},
		Avatar:       u.Avatar,
		IsFirstLogin: u.IsFirstLogin,
	}
	if u.Birthday != nil {
		resp.Birthday = u.Birthday.Format("2006-01-02")
	}
	if u.LastLoginTime != nil {
		v := u.LastLoginTime.Format(time.RFC3339)
		resp.LastLoginTime = &v
	}
	return resp
}

func mapToEmployeeList(users []User) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(users))
	for i, u := range users {
		resp[i] = EmployeeResponse{
			EmployeeID:     u.EmployeeID,
			Name:           u.Name,
			Account:        u.Account,
			Department:     u.Department,
			DepartmentName: orgcode.DepartmentName(u.Department),
			Position:       u.Position,
			PositionName:   orgcode.PositionName(u.Position),
			Extension:      u.Extension,
			Email:          u.Email,
		}
	}
	return resp
}
