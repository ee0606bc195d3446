// Package approval is the shared review engine for leave requests, loan
// applications and onboarding submissions. Workflow modules own their rows
// and status columns; this package owns the precondition checks, the rank
// rules and the chain entries so the three workflows cannot drift apart.
package approval

import (
	"time"

	approvalerrors "github.com/yhnjiuy4321/BankSystem/internal/approval/errors"
)

// Request statuses shared across all workflow kinds. "processing" only occurs
// on loan applications that escalated to a manager.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusApproved   = "approved"
	StatusRejected   = "rejected"
	StatusCancelled  = "cancelled"
)

// Reviewer identifies the acting approver.
type Reviewer struct {
	EmployeeID string
	Name       string
	Department string
	Position   string
}

// Request is the snapshot of the reviewed item the engine needs. Amount is
// only meaningful for loan applications and is zero elsewhere.
type Request struct {
	SubmitterEmployeeID string
	Department          string
	SubmitterPosition   string
	Status              string
	Amount              int64
	Chain               Chain
}

// Policy decides, per workflow kind, whether this reviewer may act at the
// request's current stage and which status the request moves to.
type Policy interface {
	Review(req Request, reviewer Reviewer, approve bool) (string, error)
}

// Evaluate runs the shared precondition checks in a fixed order, then asks
// the policy for the next status. On success it returns the status the
// request moves to and the chain entry to append.
//
// Check order: cross department, self review, duplicate reviewer, then the
// policy's own stage and rank rules. Callers must have already resolved the
// request (not found is theirs to report) and must persist the transition
// with a status-guarded update so concurrent reviewers serialize.
func Evaluate(policy Policy, req Request, reviewer Reviewer, approve bool, comment string) (string, Entry, error) {
	if reviewer.Department != req.Department {
		return "", Entry{}, approvalerrors.ErrCrossDepartment
	}
	if reviewer.EmployeeID == req.SubmitterEmployeeID {
		return "", Entry{}, approvalerrors.ErrSelfReview
	}
	if req.Chain.HasReviewer(reviewer.EmployeeID) {
		return "", Entry{}, approvalerrors.ErrDuplicateReviewer
	}

	next, err := policy.Review(req, reviewer, approve)
	if err != nil {
		return "", Entry{}, err
	}

	decision := DecisionApproved
	if !approve {
		decision = DecisionRejected
	}

	entry := Entry{
		ApproverEmployeeID: reviewer.EmployeeID,
		ApproverName:       reviewer.Name,
		ApproverPosition:   reviewer.Position,
		Status:             decision,
		Comment:            comment,
		Timestamp:          time.Now().UTC(),
	}

	return next, entry, nil
}

// IsTerminal reports whether a status accepts no further reviews.
func IsTerminal(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}
