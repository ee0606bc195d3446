package approval

import (
	approvalerrors "github.com/yhnjiuy4321/BankSystem/internal/approval/errors"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/orgcode"
)

// DefaultLoanEscalationAmount is the loan amount (NTD) at and above which a
// supervisor approval escalates to a manager instead of closing the request.
const DefaultLoanEscalationAmount int64 = 5_000_000

// LoanPolicy: two stages. Stage one (pending) belongs to supervisors; an
// approval either closes the request or, at or above EscalationAmount, moves
// it to processing. Stage two (processing) belongs to managers and is
// terminal.
type LoanPolicy struct {
	EscalationAmount int64
}

func NewLoanPolicy() LoanPolicy {
	return LoanPolicy{EscalationAmount: DefaultLoanEscalationAmount}
}

func (p LoanPolicy) Review(req Request, reviewer Reviewer, approve bool) (string, error) {
	threshold := p.EscalationAmount
	if threshold <= 0 {
		threshold = DefaultLoanEscalationAmount
	}

	switch req.Status {
	case StatusPending:
		if reviewer.Position != orgcode.PosSupervisor {
			return "", approvalerrors.ErrNotEligible
		}
		if !approve {
			return StatusRejected, nil
		}
		if req.Amount >= threshold {
			return StatusProcessing, nil
		}
		return StatusApproved, nil

	case StatusProcessing:
		if reviewer.Position != orgcode.PosManager {
			return "", approvalerrors.ErrNotEligible
		}
		if req.Amount < threshold {
			return "", approvalerrors.ErrBelowEscalationAmount
		}
		if !approve {
			return StatusRejected, nil
		}
		return StatusApproved, nil

	default:
		return "", approvalerrors.ErrAlreadyProcessed
	}
}
