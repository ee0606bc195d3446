package leave

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/yhnjiuy4321/BankSystem/internal/approval"
	approvalerrors "github.com/yhnjiuy4321/BankSystem/internal/approval/errors"
	leaveerrors "github.com/yhnjiuy4321/BankSystem/internal/leave/errors"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const remainingKeyPrefix = "leave:remaining:"

func remainingKey(employeeID string, year int) string {
	return fmt.Sprintf("%s%s:%d", remainingKeyPrefix, employeeID, year)
}

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, applicant Applicant, req ApplyRequest) (LeaveResponse, error)
	List(ctx context.Context, employeeID string, req ListRequest) ([]LeaveResponse, int64, error)
	Remaining(ctx context.Context, employeeID string, year int) (RemainingResponse, error)
	CalculateDuration(ctx context.Context, req DurationRequest) (DurationResponse, error)
	PendingApprovals(ctx context.Context, reviewer approval.Reviewer) ([]LeaveResponse, error)
	DepartmentHistory(ctx context.Context, department string, req ListRequest) ([]LeaveResponse, int64, error)
	Review(ctx context.Context, reviewer approval.Reviewer, id string, req ReviewRequest) (LeaveResponse, error)
	Cancel(ctx context.Context, employeeID, id string) error
	Stats(ctx context.Context, department string, year int) (StatsResponse, error)
	Distribution(ctx context.Context, department string, year int) ([]DistributionItem, error)
}

type service struct {
	repo   Repository
	policy approval.Policy
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{
		repo:   repo,
		policy: approval.LeavePolicy{},
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return leaveerrors.ErrLeaveNotFound
	}
	return err
}

// Apply validates the period, charges the annual pool when applicable and
// files the request as pending.
func (s *service) Apply(ctx context.Context, applicant Applicant, req ApplyRequest) (LeaveResponse, error) {
	s.logger.Debug("leave apply requested",
		zap.String("employee_id", applicant.EmployeeID),
		zap.String("leave_type", req.LeaveType),
	)

	if !ValidType(req.LeaveType) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}
	if req.StartTime.Before(time.Now()) {
		return LeaveResponse{}, leaveerrors.ErrPastDate
	}

	hours, err := BusinessHours(req.StartTime, req.EndTime)
	if err != nil {
		return LeaveResponse{}, err
	}

	overlap, err := s.repo.HasOverlap(ctx, applicant.EmployeeID, req.StartTime, req.EndTime)
	if err != nil {
		s.logger.Error("leave overlap check failed", zap.Error(err))
		return LeaveResponse{}, err
	}
	if overlap {
		return LeaveResponse{}, leaveerrors.ErrOverlappingLeave
	}

	if req.LeaveType == TypeAnnual {
		year := req.StartTime.Year()
		used, err := s.repo.UsedHours(ctx, applicant.EmployeeID, year)
		if err != nil {
			s.logger.Error("leave used hours query failed", zap.Error(err))
			return LeaveResponse{}, err
		}
		if used+hours > AnnualEntitlementHours {
			s.logger.Warn("leave apply over annual balance",
				zap.String("employee_id", applicant.EmployeeID),
				zap.Float64("used", used),
				zap.Float64("requested", hours),
			)
			return LeaveResponse{}, leaveerrors.ErrInsufficientBalance.WithDetails(map[string]any{
				"remaining": AnnualEntitlementHours - used,
				"requested": hours,
			})
		}
	}

	l := &Leave{
		EmployeeID:    applicant.EmployeeID,
		ApplicantName: applicant.Name,
		Department:    applicant.Department,
		Position:      applicant.Position,
		LeaveType:     req.LeaveType,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		Hours:         hours,
		Reason:        req.Reason,
		Status:        approval.StatusPending,
		Chain:         approval.Chain{},
	}
	if err := s.repo.Create(ctx, l); err != nil {
		s.logger.Error("leave create failed", zap.Error(err))
		return LeaveResponse{}, err
	}

	if req.LeaveType == TypeAnnual {
		s.invalidateRemaining(ctx, applicant.EmployeeID, req.StartTime.Year())
	}

	s.logger.Info("leave applied",
		zap.String("leave_id", l.ID.String()),
		zap.String("employee_id", applicant.EmployeeID),
		zap.Float64("hours", hours),
	)
	return toLeaveResponse(l), nil
}

func (s *service) List(ctx context.Context, employeeID string, req ListRequest) ([]LeaveResponse, int64, error) {
	filter := ListFilter{LeaveType: req.LeaveType, Status: req.Status, Year: req.Year}
	leaves, total, err := s.repo.ListByEmployee(ctx, employeeID, filter, req.Page, req.PageSize)
	if err != nil {
		return nil, 0, err
	}
	return toLeaveResponses(leaves), total, nil
}

// Remaining reads the annual pool balance through a short lived cache.
// Singleflight collapses concurrent misses onto one query.
func (s *service) Remaining(ctx context.Context, employeeID string, year int) (RemainingResponse, error) {
	key := remainingKey(employeeID, year)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var resp RemainingResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		used, err := s.repo.UsedHours(ctx, employeeID, year)
		if err != nil {
			return nil, err
		}
		resp := RemainingResponse{
			Year:        year,
			Entitlement: AnnualEntitlementHours,
			Used:        used,
			Remaining:   AnnualEntitlementHours - used,
		}
		if s.rdb != nil {
			if payload, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, key, payload, 5*time.Minute)
			}
		}
		return resp, nil
	})
	if err != nil {
		return RemainingResponse{}, err
	}
	return v.(RemainingResponse), nil
}

// CalculateDuration is a dry run for the apply form.
func (s *service) CalculateDuration(ctx context.Context, req DurationRequest) (DurationResponse, error) {
	hours, err := BusinessHours(req.StartTime, req.EndTime)
	if err != nil {
		return DurationResponse{}, err
	}
	return DurationResponse{Hours: hours, Days: hours / HoursPerDay}, nil
}

func (s *service) PendingApprovals(ctx context.Context, reviewer approval.Reviewer) ([]LeaveResponse, error) {
	positions := reviewerPositions(reviewer.Position)
	if positions == nil {
		return nil, approvalerrors.ErrNotEligible
	}

	leaves, err := s.repo.ListPending(ctx, reviewer.Department, positions)
	if err != nil {
		return nil, err
	}

	// A reviewer never sees their own submissions in the queue
	resp := make([]LeaveResponse, 0, len(leaves))
	for i := range leaves {
		if leaves[i].EmployeeID == reviewer.EmployeeID {
			continue
		}
		resp = append(resp, toLeaveResponse(&leaves[i]))
	}
	return resp, nil
}

func (s *service) DepartmentHistory(ctx context.Context, department string, req ListRequest) ([]LeaveResponse, int64, error) {
	filter := ListFilter{LeaveType: req.LeaveType, Status: req.Status, Year: req.Year}
	leaves, total, err := s.repo.ListByDepartment(ctx, department, filter, req.Page, req.PageSize)
	if err != nil {
		return nil, 0, err
	}
	return toLeaveResponses(leaves), total, nil
}

// Review runs the approval engine and persists the transition with a
// status-guarded update so concurrent reviewers serialize.
func (s *service) Review(ctx context.Context, reviewer approval.Reviewer, id string, req ReviewRequest) (LeaveResponse, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return LeaveResponse{}, mapRepositoryError(err)
	}

	approve := req.Approve != nil && *req.Approve
	next, entry, err := approval.Evaluate(s.policy, approval.Request{
		SubmitterEmployeeID: l.EmployeeID,
		Department:          l.Department,
		SubmitterPosition:   l.Position,
		Status:              l.Status,
		Chain:               l.Chain,
	}, reviewer, approve, req.Comment)
	if err != nil {
		s.logger.Warn("leave review rejected by policy",
			zap.String("leave_id", id),
			zap.String("reviewer", reviewer.EmployeeID),
			zap.Error(err),
		)
		return LeaveResponse{}, err
	}

	chain := l.Chain.Append(entry)
	affected, err := s.repo.UpdateReview(ctx, id, l.Status, next, chain)
	if err != nil {
		s.logger.Error("leave review update failed", zap.String("leave_id", id), zap.Error(err))
		return LeaveResponse{}, err
	}
	if affected == 0 {
		return LeaveResponse{}, leaveerrors.ErrReviewConflict
	}

	if l.LeaveType == TypeAnnual && next == approval.StatusRejected {
		s.invalidateRemaining(ctx, l.EmployeeID, l.StartTime.Year())
	}

	l.Status = next
	l.Chain = chain
	s.logger.Info("leave reviewed",
		zap.String("leave_id", id),
		zap.String("reviewer", reviewer.EmployeeID),
		zap.String("status", next),
	)
	return toLeaveResponse(l), nil
}

// Cancel withdraws the caller's own pending request before it starts.
func (s *service) Cancel(ctx context.Context, employeeID, id string) error {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return mapRepositoryError(err)
	}
	if l.EmployeeID != employeeID {
		return leaveerrors.ErrNotOwner
	}
	if l.Status != approval.StatusPending {
		return leaveerrors.ErrNotPending
	}
	if !l.StartTime.After(time.Now()) {
		return leaveerrors.ErrAlreadyStarted
	}

	affected, err := s.repo.CancelOwned(ctx, id, employeeID)
	if err != nil {
		return err
	}
	if affected == 0 {
		// A reviewer moved it between our read and the update
		return leaveerrors.ErrReviewConflict
	}

	if l.LeaveType == TypeAnnual {
		s.invalidateRemaining(ctx, employeeID, l.StartTime.Year())
	}
	s.logger.Info("leave cancelled", zap.String("leave_id", id), zap.String("employee_id", employeeID))
	return nil
}

func (s *service) Stats(ctx context.Context, department string, year int) (StatsResponse, error) {
	counts, err := s.repo.CountByStatus(ctx, department, year)
	if err != nil {
		return StatsResponse{}, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return StatsResponse{Department: department, Year: year, Total: total, ByStatus: counts}, nil
}

func (s *service) Distribution(ctx context.Context, department string, year int) ([]DistributionItem, error) {
	hours, err := s.repo.HoursByType(ctx, department, year)
	if err != nil {
		return nil, err
	}

	items := make([]DistributionItem, 0, len(Types))
	for _, t := range Types {
		if h, ok := hours[t]; ok {
			items = append(items, DistributionItem{LeaveType: t, Hours: h})
		}
	}
	return items, nil
}

func (s *service) invalidateRemaining(ctx context.Context, employeeID string, year int) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, remainingKey(employeeID, year)).Err(); err != nil {
		s.logger.Warn("invalidate remaining cache failed", zap.String("employee_id", employeeID), zap.Error(err))
	}
}

func toLeaveResponses(leaves []Leave) []LeaveResponse {
	resp := make([]LeaveResponse, 0, len(leaves))
	for i := range leaves {
		resp = append(resp, toLeaveResponse(&leaves[i]))
	}
	return resp
}
