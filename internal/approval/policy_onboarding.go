package approval

import (
	approvalerrors "github.com/yhnjiuy4321/BankSystem/internal/approval/errors"
	"github.com/yhnjiuy4321/BankSystem/internal/shared/orgcode"
)

// OnboardingPolicy: single stage, manager only, exactly one chain entry. The
// submitting supervisor is the request's "submitter", so the engine's self
// review check also blocks supervisors approving their own submissions.
type OnboardingPolicy struct{}

func (OnboardingPolicy) Review(req Request, reviewer Reviewer, approve bool) (string, error) {
	if req.Status != StatusPending {
		return "", approvalerrors.ErrAlreadyProcessed
	}
	if len(req.Chain) > 0 {
		return "", approvalerrors.ErrAlreadyProcessed
	}
	if reviewer.Position != orgcode.PosManager {
		return "", approvalerrors.ErrNotEligible
	}

	if approve {
		return StatusApproved, nil
	}
	return StatusRejected, nil
}
