package approval_test

import (
	"testing"

	"github.com/yhnjiuy4321/BankSystem/internal/approval"
	approvalerrors "github.com/yhnjiuy4321/BankSystem/internal/approval/errors"

	"github.com/stretchr/testify/assert"
)

func staffRequest(status string) approval.Request {
	return approval.Request{
		SubmitterEmployeeID: "202401001",
		Department:          "BD",
		SubmitterPosition:   "C",
		Status:              status,
	}
}

func supervisor() approval.Reviewer {
	return approval.Reviewer{EmployeeID: "202203007", Name: "林主管", Department: "BD", Position: "S"}
}

func manager() approval.Reviewer {
	return approval.Reviewer{EmployeeID: "202001002", Name: "王經理", Department: "BD", Position: "M"}
}

func TestEvaluate_SharedChecks(t *testing.T) {
	policy := approval.LeavePolicy{}

	t.Run("negative cross department", func(t *testing.T) {
		rev := supervisor()
		rev.Department = "FD"

		_, _, err := approval.Evaluate(policy, staffRequest(approval.StatusPending), rev, true, "")
		assert.ErrorIs(t, err, approvalerrors.ErrCrossDepartment)
	})

	t.Run("negative self review", func(t *testing.T) {
		req := staffRequest(approval.StatusPending)
		rev := supervisor()
		req.SubmitterEmployeeID = rev.EmployeeID
		req.SubmitterPosition = "S"

		_, _, err := approval.Evaluate(policy, req, rev, true, "")
		assert.ErrorIs(t, err, approvalerrors.ErrSelfReview)
	})

	t.Run("negative duplicate reviewer", func(t *testing.T) {
		req := staffRequest(approval.StatusPending)
		rev := supervisor()
		req.Chain = approval.Chain{{ApproverEmployeeID: rev.EmployeeID, Status: approval.DecisionApproved}}

		_, _, err := approval.Evaluate(policy, req, rev, true, "")
		assert.ErrorIs(t, err, approvalerrors.ErrDuplicateReviewer)
	})

	t.Run("cross department wins over self review", func(t *testing.T) {
		req := staffRequest(approval.StatusPending)
		rev := supervisor()
		rev.Department = "LD"
		req.SubmitterEmployeeID = rev.EmployeeID

		_, _, err := approval.Evaluate(policy, req, rev, true, "")
		assert.ErrorIs(t, err, approvalerrors.ErrCrossDepartment)
	})
}

func TestLeavePolicy(t *testing.T) {
	policy := approval.LeavePolicy{}

	t.Run("supervisor approves staff", func(t *testing.T) {
		next, entry, err := approval.Evaluate(policy, staffRequest(approval.StatusPending), supervisor(), true, "ok")

		assert.NoError(t, err)
		assert.Equal(t, approval.StatusApproved, next)
		assert.Equal(t, approval.DecisionApproved, entry.Status)
		assert.Equal(t, "ok", entry.Comment)
		assert.Equal(t, "S", entry.ApproverPosition)
		assert.False(t, entry.Timestamp.IsZero())
	})

	t.Run("supervisor rejects staff", func(t *testing.T) {
		next, entry, err := approval.Evaluate(policy, staffRequest(approval.StatusPending), supervisor(), false, "no coverage")

		assert.NoError(t, err)
		assert.Equal(t, approval.StatusRejected, next)
		assert.Equal(t, approval.DecisionRejected, entry.Status)
	})

	t.Run("negative supervisor cannot review supervisor", func(t *testing.T) {
		req := staffRequest(approval.StatusPending)
		req.SubmitterPosition = "S"
		req.SubmitterEmployeeID = "202203099"

		_, _, err := approval.Evaluate(policy, req, supervisor(), true, "")
		assert.ErrorIs(t, err, approvalerrors.ErrNotEligible)
	})

	t.Run("manager reviews supervisor", func(t *testing.T) {
		req := staffRequest(approval.StatusPending)
		req.SubmitterPosition = "S"

		next, _, err := approval.Evaluate(policy, req, manager(), true, "")
		assert.NoError(t, err)
		assert.Equal(t, approval.StatusApproved, next)
	})

	t.Run("manager reviews another manager", func(t *testing.T) {
		req := staffRequest(approval.StatusPending)
		req.SubmitterPosition = "M"

		next, _, err := approval.Evaluate(policy, req, manager(), true, "")
		assert.NoError(t, err)
		assert.Equal(t, approval.StatusApproved, next)
	})

	t.Run("negative staff cannot review", func(t *testing.T) {
		rev := approval.Reviewer{EmployeeID: "202401099", Department: "BD", Position: "C"}

		_, _, err := approval.Evaluate(policy, staffRequest(approval.StatusPending), rev, true, "")
		assert.ErrorIs(t, err, approvalerrors.ErrNotEligible)
	})

	t.Run("negative already approved", func(t *testing.T) {
		_, _, err := approval.Evaluate(policy, staffRequest(approval.StatusApproved), manager(), true, "")
		assert.ErrorIs(t, err, approvalerrors.ErrAlreadyProcessed)
	})
}

func TestLoanPolicy(t *testing.T) {
	policy := approval.NewLoanPolicy()

	loanRequest := func(status string, amount int64) approval.Request {
		req := staffRequest(status)
		req.Department = "LD"
		req.Amount = amount
		return req
	}
	ldSupervisor := func() approval.Reviewer {
		rev := supervisor()
		rev.Department = "LD"
		return rev
	}
	ldManager := func() approval.Reviewer {
		rev := manager()
		rev.Department = "LD"
		return rev
	}

	t.Run("small amount closes at supervisor", func(t *testing.T) {
		next, _, err := approval.Evaluate(policy, loanRequest(approval.StatusPending, 4_999_999), ldSupervisor(), true, "")

		assert.NoError(t, err)
		assert.Equal(t, approval.StatusApproved, next)
	})

	t.Run("amount at threshold escalates", func(t *testing.T) {
		next, _, err := approval.Evaluate(policy, loanRequest(approval.StatusPending, 5_000_000), ldSupervisor(), true, "")

		assert.NoError(t, err)
		assert.Equal(t, approval.StatusProcessing, next)
	})

	t.Run("supervisor rejection is terminal regardless of amount", func(t *testing.T) {
		next, _, err := approval.Evaluate(policy, loanRequest(approval.StatusPending, 9_000_000), ldSupervisor(), false, "risk")

		assert.NoError(t, err)
		assert.Equal(t, approval.StatusRejected, next)
	})

	t.Run("negative manager cannot act at pending stage", func(t *testing.T) {
		_, _, err := approval.Evaluate(policy, loanRequest(approval.StatusPending, 6_000_000), ldManager(), true, "")
		assert.ErrorIs(t, err, approvalerrors.ErrNotEligible)
	})

	t.Run("manager closes escalated request", func(t *testing.T) {
		req := loanRequest(approval.StatusProcessing, 6_000_000)
		req.Chain = approval.Chain{{ApproverEmployeeID: "202203007", Status: approval.DecisionApproved}}

		next, _, err := approval.Evaluate(policy, req, ldManager(), true, "")
		assert.NoError(t, err)
		assert.Equal(t, approval.StatusApproved, next)
	})

	t.Run("negative supervisor cannot act at processing stage", func(t *testing.T) {
		_, _, err := approval.Evaluate(policy, loanRequest(approval.StatusProcessing, 6_000_000), ldSupervisor(), true, "")
		assert.ErrorIs(t, err, approvalerrors.ErrNotEligible)
	})

	t.Run("negative processing below threshold", func(t *testing.T) {
		_, _, err := approval.Evaluate(policy, loanRequest(approval.StatusProcessing, 1_000_000), ldManager(), true, "")
		assert.ErrorIs(t, err, approvalerrors.ErrBelowEscalationAmount)
	})

	t.Run("negative terminal status", func(t *testing.T) {
		_, _, err := approval.Evaluate(policy, loanRequest(approval.StatusRejected, 6_000_000), ldManager(), true, "")
		assert.ErrorIs(t, err, approvalerrors.ErrAlreadyProcessed)
	})
}

func TestOnboardingPolicy(t *testing.T) {
	policy := approval.OnboardingPolicy{}

	onboarding := func() approval.Request {
		// submitter is the supervisor who filed the onboarding request
		return approval.Request{
			SubmitterEmployeeID: "202203007",
			Department:          "BD",
			SubmitterPosition:   "S",
			Status:              approval.StatusPending,
		}
	}

	t.Run("manager approves", func(t *testing.T) {
		next, entry, err := approval.Evaluate(policy, onboarding(), manager(), true, "welcome")

		assert.NoError(t, err)
		assert.Equal(t, approval.StatusApproved, next)
		assert.Equal(t, approval.DecisionApproved, entry.Status)
	})

	t.Run("negative supervisor cannot approve", func(t *testing.T) {
		rev := supervisor()
		rev.EmployeeID = "202203050"

		_, _, err := approval.Evaluate(policy, onboarding(), rev, true, "")
		assert.ErrorIs(t, err, approvalerrors.ErrNotEligible)
	})

	t.Run("negative submitting supervisor blocked as self review", func(t *testing.T) {
		_, _, err := approval.Evaluate(policy, onboarding(), supervisor(), true, "")
		assert.ErrorIs(t, err, approvalerrors.ErrSelfReview)
	})

	t.Run("negative second decision conflicts", func(t *testing.T) {
		req := onboarding()
		req.Chain = approval.Chain{{ApproverEmployeeID: "202001009", Status: approval.DecisionApproved}}

		_, _, err := approval.Evaluate(policy, req, manager(), true, "")
		assert.ErrorIs(t, err, approvalerrors.ErrAlreadyProcessed)
	})
}

func TestChainScanValue(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		chain := approval.Chain{{
			ApproverEmployeeID: "202203007",
			ApproverName:       "林主管",
			ApproverPosition:   "S",
			Status:             approval.DecisionApproved,
			Comment:            "ok",
		}}

		raw, err := chain.Value()
		assert.NoError(t, err)

		var got approval.Chain
		assert.NoError(t, got.Scan(raw))
		assert.Len(t, got, 1)
		assert.Equal(t, "202203007", got[0].ApproverEmployeeID)
		assert.True(t, got.HasReviewer("202203007"))
		assert.False(t, got.HasReviewer("202401001"))
	})

	t.Run("nil scan yields empty chain", func(t *testing.T) {
		var got approval.Chain
		assert.NoError(t, got.Scan(nil))
		assert.NotNil(t, got)
		assert.Len(t, got, 0)
	})
}
