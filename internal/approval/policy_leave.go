package approval

import (
	approvalerrors "github.com/yhnjiuy4321/BankSystem/internal/approval/errors"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/orgcode"
)

// LeavePolicy: single stage. A supervisor may only review staff requests, a
// manager may review anyone in the department including other managers. The
// first decision is terminal.
type LeavePolicy struct{}

func (LeavePolicy) Review(req Request, reviewer Reviewer, approve bool) (string, error) {
	if req.Status != StatusPending {
		return "", approvalerrors.ErrAlreadyProcessed
	}

	switch reviewer.Position {
	case orgcode.PosSupervisor:
		if req.SubmitterPosition != orgcode.PosStaff {
			return "", approvalerrors.ErrNotEligible
		}
	case orgcode.PosManager:
		// managers review every position
	default:
		return "", approvalerrors.ErrNotEligible
	}

	if approve {
		return StatusApproved, nil
	}
	return StatusRejected, nil
}
