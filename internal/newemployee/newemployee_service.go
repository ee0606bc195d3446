package newemployee

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/yhnjiuy4321/BankSystem/internal/approval"
	newemployeeerrors "github.com/yhnjiuy4321/BankSystem/internal/newemployee/errors"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/orgcode"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var gmailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@gmail\.com$`)

//go:generate mockgen -source=newemployee_service.go -destination=mock/newemployee_service_mock.go -package=mock
type Service interface {
	Submit(ctx context.Context, submitter Submitter, req SubmitRequest) ([]NewEmployeeResponse, error)
	List(ctx context.Context, viewer Submitter) ([]NewEmployeeResponse, error)
	Pending(ctx context.Context, reviewer approval.Reviewer) ([]NewEmployeeResponse, error)
	Review(ctx context.Context, reviewer approval.Reviewer, id string, req ReviewRequest) (NewEmployeeResponse, error)
	ApprovedList(ctx context.Context, req ApprovedListRequest) ([]NewEmployeeResponse, int64, error)
}

type service struct {
	repo   Repository
	policy approval.Policy
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("newemployee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("newemployee.service")
	}
	return &service{
		repo:   repo,
		policy: approval.OnboardingPolicy{},
		logger: l,
	}
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return newemployeeerrors.ErrNewEmployeeNotFound
	}
	return err
}

// Submit files a batch of onboarding entries. The department is always the
// submitter's own and new hires always start as staff.
func (s *service) Submit(ctx context.Context, submitter Submitter, req SubmitRequest) ([]NewEmployeeResponse, error) {
	s.logger.Debug("onboarding submit requested",
		zap.String("submitter", submitter.EmployeeID),
		zap.Int("count", len(req.Employees)),
	)

	if len(req.Employees) == 0 {
		return nil, newemployeeerrors.ErrEmptyBatch
	}

	today := time.Now().Truncate(24 * time.Hour)
	items := make([]*NewEmployee, 0, len(req.Employees))
	for i, item := range req.Employees {
		if !gmailPattern.MatchString(item.Email) {
			return nil, newemployeeerrors.ErrInvalidEmail.WithDetails(map[string]any{"index": i})
		}
		startDate, err := time.Parse("2006-01-02", item.StartDate)
		if err != nil || startDate.Before(today) {
			return nil, newemployeeerrors.ErrStartDateInPast.WithDetails(map[string]any{"index": i})
		}

		items = append(items, &NewEmployee{
			Name:                item.Name,
			Email:               item.Email,
			Phone:               item.Phone,
			StartDate:           startDate,
			Department:          submitter.Department,
			Position:            orgcode.PosStaff,
			SubmitterEmployeeID: submitter.EmployeeID,
			SubmitterName:       submitter.Name,
			SubmitterPosition:   submitter.Position,
			Status:              approval.StatusPending,
			Chain:               approval.Chain{},
		})
	}

	if err := s.repo.CreateBatch(ctx, items); err != nil {
		s.logger.Error("onboarding batch insert failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("onboarding submitted",
		zap.String("submitter", submitter.EmployeeID),
		zap.String("department", submitter.Department),
		zap.Int("count", len(items)),
	)

	resp := make([]NewEmployeeResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toResponse(item))
	}
	return resp, nil
}

// List shows supervisors their own submissions and managers the whole
// department. Provisioned entries are filtered out by the repository.
func (s *service) List(ctx context.Context, viewer Submitter) ([]NewEmployeeResponse, error) {
	var (
		items []NewEmployee
		err   error
	)
	if viewer.Position == orgcode.PosManager {
		items, err = s.repo.ListByDepartment(ctx, viewer.Department)
	} else {
		items, err = s.repo.ListBySubmitter(ctx, viewer.EmployeeID)
	}
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

func (s *service) Pending(ctx context.Context, reviewer approval.Reviewer) ([]NewEmployeeResponse, error) {
	items, err := s.repo.ListPending(ctx, reviewer.Department)
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

// Review is the single manager approval. The guarded update turns a second
// concurrent decision into a conflict.
func (s *service) Review(ctx context.Context, reviewer approval.Reviewer, id string, req ReviewRequest) (NewEmployeeResponse, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return NewEmployeeResponse{}, mapRepositoryError(err)
	}

	approve := req.Approve != nil && *req.Approve
	next, entry, err := approval.Evaluate(s.policy, approval.Request{
		SubmitterEmployeeID: n.SubmitterEmployeeID,
		Department:          n.Department,
		SubmitterPosition:   n.SubmitterPosition,
		Status:              n.Status,
		Chain:               n.Chain,
	}, reviewer, approve, req.Comment)
	if err != nil {
		s.logger.Warn("onboarding review rejected by policy",
			zap.String("id", id),
			zap.String("reviewer", reviewer.EmployeeID),
			zap.Error(err),
		)
		return NewEmployeeResponse{}, err
	}

	chain := n.Chain.Append(entry)
	affected, err := s.repo.UpdateReview(ctx, id, n.Status, next, chain)
	if err != nil {
		s.logger.Error("onboarding review update failed", zap.String("id", id), zap.Error(err))
		return NewEmployeeResponse{}, err
	}
	if affected == 0 {
		return NewEmployeeResponse{}, newemployeeerrors.ErrReviewConflict
	}

	n.Status = next
	n.Chain = chain
	s.logger.Info("onboarding reviewed",
		zap.String("id", id),
		zap.String("reviewer", reviewer.EmployeeID),
		zap.String("status", next),
	)
	return toResponse(n), nil
}

func (s *service) ApprovedList(ctx context.Context, req ApprovedListRequest) ([]NewEmployeeResponse, int64, error) {
	filter := ApprovedFilter{
		HasAccount: req.HasAccount,
		Department: req.Department,
	}
	if req.From != "" {
		if from, err := time.Parse("2006-01-02", req.From); err == nil {
			filter.From = from
		}
	}
	if req.To != "" {
		if to, err := time.Parse("2006-01-02", req.To); err == nil {
			filter.To = to
		}
	}

	items, total, err := s.repo.ListApproved(ctx, filter, req.Page, req.PageSize)
	if err != nil {
		return nil, 0, err
	}
	return toResponses(items), total, nil
}
