package leave

import (
	"time"
)

type ApplyRequest struct {
	LeaveType string    `json:"leave_type" binding:"required"`
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
	Reason    string    `json:"reason" binding:"required,max=500"`
}

type ListRequest struct {
	LeaveType string `form:"leave_type"`
	Status    string `form:"status" binding:"omitempty,oneof=pending processing approved rejected cancelled"`
	Year      int    `form:"year" binding:"omitempty,min=2000,max=2100"`
	Page      int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

type DurationRequest struct {
	StartTime time.Time `json:"start_time" binding:"required"`
	EndTime   time.Time `json:"end_time" binding:"required"`
}

type DurationResponse struct {
	Hours float64 `json:"hours"`
	Days  float64 `json:"days"`
}

type ReviewRequest struct {
	Approve *bool  `json:"approve" binding:"required"`
	Comment string `json:"comment" binding:"max=500"`
}

type ChainEntryResponse struct {
	ApproverEmployeeID string `json:"approver_employee_id"`
	ApproverName       string `json:"approver_name"`
	ApproverPosition   string `json:"approver_position"`
	Status             string `json:"status"`
	Comment            string `json:"comment,omitempty"`
	Timestamp          string `json:"timestamp"`
}

type LeaveResponse struct {
	ID            string               `json:"id"`
	EmployeeID    string               `json:"employee_id"`
	ApplicantName string               `json:"applicant_name"`
	Department    string               `json:"department"`
	Position      string               `json:"position"`
	LeaveType     string               `json:"leave_type"`
	StartTime     string               `json:"start_time"`
	EndTime       string               `json:"end_time"`
	Hours         float64              `json:"hours"`
	Reason        string               `json:"reason"`
	Status        string               `json:"status"`
	Chain         []ChainEntryResponse `json:"chain"`
	CancelledAt   string               `json:"cancelled_at,omitempty"`
	CreatedAt     string               `json:"created_at"`
}

type RemainingResponse struct {
	Year        int     `json:"year"`
	Entitlement float64 `json:"entitlement"`
	Used        float64 `json:"used"`
	Remaining   float64 `json:"remaining"`
}

type StatsResponse struct {
	Department string           `json:"department"`
	Year       int              `json:"year"`
	Total      int64            `json:"total"`
	ByStatus   map[string]int64 `json:"by_status"`
}

type DistributionItem struct {
	LeaveType string  `json:"leave_type"`
	Hours     float64 `json:"hours"`
}

func toLeaveResponse(l *Leave) LeaveResponse {
	chain := make([]ChainEntryResponse, 0, len(l.Chain))
	for _, e := range l.Chain {
		chain = append(chain, ChainEntryResponse{
			ApproverEmployeeID: e.ApproverEmployeeID,
			ApproverName:       e.ApproverName,
			ApproverPosition:   e.ApproverPosition,
			Status:             e.Status,
			Comment:            e.Comment,
			Timestamp:          e.Timestamp.Format(time.RFC3339),
		})
	}
	resp := LeaveResponse{
		ID:            l.ID.String(),
		EmployeeID:    l.EmployeeID,
		ApplicantName: l.ApplicantName,
		Department:    l.Department,
		Position:      l.Position,
		LeaveType:     l.LeaveType,
		StartTime:     l.StartTime.Format(time.RFC3339),
		EndTime:       l.EndTime.Format(time.RFC3339),
		Hours:         l.Hours,
		Reason:        l.Reason,
		Status:        l.Status,
		Chain:         chain,
		CreatedAt:     l.CreatedAt.Format(time.RFC3339),
	}
	if l.CancelledAt != nil {
		resp.CancelledAt = l.CancelledAt.Format(time.RFC3339)
	}
	return resp
}

// Applicant is the identity snapshot taken from the session at submit time.
type Applicant struct {
	EmployeeID string
	Name       string
	Department string
	Position   string
}

// reviewerPositions maps a reviewer rank to the submitter positions whose
// pending requests they may see.
func reviewerPositions(position string) []string {
	switch position {
	case "M":
		return []string{"C", "S", "M"}
	case "S":
		return []string{"C"}
	}
	return nil
}
