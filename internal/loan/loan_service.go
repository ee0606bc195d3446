package loan

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/yhnjiuy4321/BankSystem/internal/approval"
	approvalerrors "github.com/yhnjiuy4321/BankSystem/internal/approval/errors"
	loanerrors "github.com/yhnjiuy4321/BankSystem/internal/loan/errors"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/orgcode"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/sequence"
	"github.com/yhnjiuy4321/BankSystem/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// Taiwan national ID: one letter, gender digit, eight digits.
	customerIDPattern    = regexp.MustCompile(`^[A-Z][12]\d{8}$`)
	customerPhonePattern = regexp.MustCompile(`^09\d{8}$`)
)

const maxMonthlySeq = 999

//go:generate mockgen -source=loan_service.go -destination=mock/loan_service_mock.go -package=mock
type Service interface {
	Apply(ctx context.Context, applicant Applicant, req ApplyRequest) (LoanResponse, error)
	List(ctx context.Context, employeeID string, req ListRequest) ([]LoanResponse, int64, error)
	Pending(ctx context.Context, reviewer approval.Reviewer) ([]LoanResponse, error)
	Review(ctx context.Context, reviewer approval.Reviewer, applicationID string, req ReviewRequest) (LoanResponse, error)
	ReviewHistory(ctx context.Context, reviewerEmployeeID string, page, pageSize int) ([]LoanResponse, int64, error)
	AddNote(ctx context.Context, author Applicant, applicationID string, req NoteRequest) (LoanResponse, error)
	Assign(ctx context.Context, applicationID string, req AssignRequest) (LoanResponse, error)
	Stats(ctx context.Context) (StatsResponse, error)
	Trend(ctx context.Context, days int) ([]TrendPoint, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	seq    sequence.Repository
	users  user.Repository
	policy approval.Policy
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, seq sequence.Repository, users user.Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("loan.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("loan.service")
	}
	return &service{
		db:     db,
		repo:   repo,
		seq:    seq,
		users:  users,
		policy: approval.NewLoanPolicy(),
		logger: l,
	}
}

func mapRepositoryError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return loanerrors.ErrLoanNotFound
	}
	return err
}

func validateApply(req ApplyRequest) error {
	if !customerIDPattern.MatchString(req.Customer.IDNumber) {
		return loanerrors.ErrInvalidCustomerID
	}
	if !customerPhonePattern.MatchString(req.Customer.Phone) {
		return loanerrors.ErrInvalidCustomerPhone
	}
	if !ValidPurpose(req.Loan.Purpose) {
		return loanerrors.ErrInvalidPurpose
	}
	if req.Loan.Amount < MinAmount {
		return loanerrors.ErrAmountTooSmall.WithDetails(map[string]any{"minimum": MinAmount})
	}
	if !ValidTerm(req.Loan.TermMonths) {
		return loanerrors.ErrInvalidTerm
	}
	return nil
}

// Apply files a new application. The application id is reserved and the row
// inserted in one transaction so a concurrent submit cannot reuse the
// sequence number.
func (s *service) Apply(ctx context.Context, applicant Applicant, req ApplyRequest) (LoanResponse, error) {
	s.logger.Debug("loan apply requested",
		zap.String("employee_id", applicant.EmployeeID),
		zap.Int64("amount", req.Loan.Amount),
	)

	if applicant.Department != orgcode.DeptLoan {
		return LoanResponse{}, loanerrors.ErrLoanDepartmentOnly
	}
	if err := validateApply(req); err != nil {
		return LoanResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("loan apply begin tx failed", zap.Error(err))
		return LoanResponse{}, err
	}
	defer tx.Rollback()

	now := time.Now()
	prefix := fmt.Sprintf("L%04d%02d", now.Year(), int(now.Month()))

	qseq := s.seq.WithTx(tx)
	max, err := qseq.MaxLoanApplicationSeq(ctx, prefix)
	if err != nil {
		s.logger.Error("loan sequence query failed", zap.Error(err))
		return LoanResponse{}, err
	}
	if max >= maxMonthlySeq {
		s.logger.Warn("loan sequence exhausted", zap.String("prefix", prefix))
		return LoanResponse{}, loanerrors.ErrApplicationIDExhausted
	}

	applicationID := fmt.Sprintf("%s%03d", prefix, max+1)
	taken, err := qseq.LoanApplicationIDExists(ctx, applicationID)
	if err != nil {
		return LoanResponse{}, err
	}
	if taken {
		s.logger.Error("loan application id collision", zap.String("application_id", applicationID))
		return LoanResponse{}, loanerrors.ErrApplicationIDCollision
	}

	l := &Loan{
		ID:               uuid.New(),
		ApplicationID:    applicationID,
		EmployeeID:       applicant.EmployeeID,
		ApplicantName:    applicant.Name,
		Department:       applicant.Department,
		Position:         applicant.Position,
		CustomerName:     req.Customer.Name,
		CustomerIDNumber: req.Customer.IDNumber,
		CustomerPhone:    req.Customer.Phone,
		Purpose:          req.Loan.Purpose,
		Amount:           req.Loan.Amount,
		TermMonths:       req.Loan.TermMonths,
		IsUrgent:         req.Loan.IsUrgent,
		Status:           approval.StatusPending,
		Chain:            approval.Chain{},
		Notes:            Notes{},
		CreatedAt:        now,
	}
	if err := s.repo.WithTx(tx).Create(ctx, l); err != nil {
		s.logger.Error("loan insert failed", zap.Error(err))
		return LoanResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		s.logger.Error("loan apply commit failed", zap.Error(err))
		return LoanResponse{}, err
	}

	s.logger.Info("loan applied",
		zap.String("application_id", applicationID),
		zap.String("employee_id", applicant.EmployeeID),
		zap.Int64("amount", l.Amount),
	)
	return toLoanResponse(l), nil
}

func (s *service) List(ctx context.Context, employeeID string, req ListRequest) ([]LoanResponse, int64, error) {
	filter := ListFilter{Status: req.Status, MinAmount: req.MinAmount}
	loans, total, err := s.repo.ListByEmployee(ctx, employeeID, filter, req.Page, req.PageSize)
	if err != nil {
		return nil, 0, err
	}
	return toLoanResponses(loans), total, nil
}

// Pending returns the reviewer's queue: supervisors see pending, managers
// see escalated (processing) applications.
func (s *service) Pending(ctx context.Context, reviewer approval.Reviewer) ([]LoanResponse, error) {
	var status string
	switch reviewer.Position {
	case orgcode.PosSupervisor:
		status = approval.StatusPending
	case orgcode.PosManager:
		status = approval.StatusProcessing
	default:
		return nil, approvalerrors.ErrNotEligible
	}

	loans, err := s.repo.ListByStatus(ctx, status)
	if err != nil {
		return nil, err
	}

	resp := make([]LoanResponse, 0, len(loans))
	for i := range loans {
		if loans[i].EmployeeID == reviewer.EmployeeID {
			continue
		}
		resp = append(resp, toLoanResponse(&loans[i]))
	}
	return resp, nil
}

func (s *service) Review(ctx context.Context, reviewer approval.Reviewer, applicationID string, req ReviewRequest) (LoanResponse, error) {
	l, err := s.repo.FindByApplicationID(ctx, applicationID)
	if err != nil {
		return LoanResponse{}, mapRepositoryError(err)
	}

	approve := req.Approve != nil && *req.Approve
	next, entry, err := approval.Evaluate(s.policy, approval.Request{
		SubmitterEmployeeID: l.EmployeeID,
		Department:          l.Department,
		SubmitterPosition:   l.Position,
		Status:              l.Status,
		Amount:              l.Amount,
		Chain:               l.Chain,
	}, reviewer, approve, req.Comment)
	if err != nil {
		s.logger.Warn("loan review rejected by policy",
			zap.String("application_id", applicationID),
			zap.String("reviewer", reviewer.EmployeeID),
			zap.Error(err),
		)
		return LoanResponse{}, err
	}

	chain := l.Chain.Append(entry)
	affected, err := s.repo.UpdateReview(ctx, applicationID, l.Status, next, chain)
	if err != nil {
		s.logger.Error("loan review update failed", zap.String("application_id", applicationID), zap.Error(err))
		return LoanResponse{}, err
	}
	if affected == 0 {
		return LoanResponse{}, loanerrors.ErrReviewConflict
	}

	l.Status = next
	l.Chain = chain
	s.logger.Info("loan reviewed",
		zap.String("application_id", applicationID),
		zap.String("reviewer", reviewer.EmployeeID),
		zap.String("status", next),
	)
	return toLoanResponse(l), nil
}

func (s *service) ReviewHistory(ctx context.Context, reviewerEmployeeID string, page, pageSize int) ([]LoanResponse, int64, error) {
	loans, total, err := s.repo.ListReviewedBy(ctx, reviewerEmployeeID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return toLoanResponses(loans), total, nil
}

func (s *service) AddNote(ctx context.Context, author Applicant, applicationID string, req NoteRequest) (LoanResponse, error) {
	l, err := s.repo.FindByApplicationID(ctx, applicationID)
	if err != nil {
		return LoanResponse{}, mapRepositoryError(err)
	}

	l.Notes = append(l.Notes, Note{
		AuthorEmployeeID: author.EmployeeID,
		AuthorName:       author.Name,
		Content:          req.Content,
		CreatedAt:        time.Now().UTC(),
	})
	if err := s.repo.UpdateNotes(ctx, applicationID, l.Notes); err != nil {
		s.logger.Error("loan note update failed", zap.String("application_id", applicationID), zap.Error(err))
		return LoanResponse{}, err
	}
	return toLoanResponse(l), nil
}

// Assign hands the application to a named reviewer for follow up. The
// assignee must be a supervisor or manager in the loan department.
func (s *service) Assign(ctx context.Context, applicationID string, req AssignRequest) (LoanResponse, error) {
	l, err := s.repo.FindByApplicationID(ctx, applicationID)
	if err != nil {
		return LoanResponse{}, mapRepositoryError(err)
	}

	assignee, err := s.users.FindByEmployeeID(ctx, req.AssigneeEmployeeID)
	if err != nil {
		return LoanResponse{}, loanerrors.ErrAssigneeNotReviewer
	}
	if assignee.Department != orgcode.DeptLoan || assignee.Position == orgcode.PosStaff {
		return LoanResponse{}, loanerrors.ErrAssigneeNotReviewer
	}

	if err := s.repo.UpdateAssignee(ctx, applicationID, assignee.EmployeeID, assignee.Name); err != nil {
		s.logger.Error("loan assign failed", zap.String("application_id", applicationID), zap.Error(err))
		return LoanResponse{}, err
	}

	l.AssigneeEmployeeID = assignee.EmployeeID
	l.AssigneeName = assignee.Name
	s.logger.Info("loan assigned",
		zap.String("application_id", applicationID),
		zap.String("assignee", assignee.EmployeeID),
	)
	return toLoanResponse(l), nil
}

// Stats derives the per-stage queues from the status column, which the
// review engine keeps consistent with the chain.
func (s *service) Stats(ctx context.Context) (StatsResponse, error) {
	counts, err := s.repo.CountByStatus(ctx)
	if err != nil {
		return StatsResponse{}, err
	}

	var total int64
	for _, c := range counts {
		total += c
	}
	return StatsResponse{
		Total:             total,
		ByStatus:          counts,
		SupervisorPending: counts[approval.StatusPending],
		ManagerPending:    counts[approval.StatusProcessing],
	}, nil
}

func (s *service) Trend(ctx context.Context, days int) ([]TrendPoint, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	return s.repo.Trend(ctx, days)
}
