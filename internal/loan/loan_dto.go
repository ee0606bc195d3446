package loan

import "time"

type CustomerInfo struct {
	Name     string `json:"name" binding:"required,max=50"`
	IDNumber string `json:"id_number" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
}

type LoanInfo struct {
	Purpose    string `json:"purpose" binding:"required"`
	Amount     int64  `json:"amount" binding:"required,min=1"`
	TermMonths int    `json:"term_months" binding:"required"`
	IsUrgent   bool   `json:"is_urgent"`
}

type ApplyRequest struct {
	Customer CustomerInfo `json:"customer" binding:"required"`
	Loan     LoanInfo     `json:"loan" binding:"required"`
}

type ListRequest struct {
	Status    string `form:"status" binding:"omitempty,oneof=pending processing approved rejected cancelled"`
	MinAmount int64  `form:"min_amount" binding:"omitempty,min=0"`
	Page      int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

type ReviewRequest struct {
	Approve *bool  `json:"approve" binding:"required"`
	Comment string `json:"comment" binding:"max=500"`
}

type NoteRequest struct {
	Content string `json:"content" binding:"required,max=500"`
}

type AssignRequest struct {
	AssigneeEmployeeID string `json:"assignee_employee_id" binding:"required"`
}

type NoteResponse struct {
	AuthorEmployeeID string `json:"author_employee_id"`
	AuthorName       string `json:"author_name"`
	Content          string `json:"content"`
	CreatedAt        string `json:"created_at"`
}

type ChainEntryResponse struct {
	ApproverEmployeeID string `json:"approver_employee_id"`
	ApproverName       string `json:"approver_name"`
	ApproverPosition   string `json:"approver_position"`
	Status             string `json:"status"`
	Comment            string `json:"comment,omitempty"`
	Timestamp          string `json:"timestamp"`
}

type LoanResponse struct {
	ApplicationID      string               `json:"application_id"`
	EmployeeID         string               `json:"employee_id"`
	ApplicantName      string               `json:"applicant_name"`
	CustomerName       string               `json:"customer_name"`
	CustomerIDNumber   string               `json:"customer_id_number"`
	CustomerPhone      string               `json:"customer_phone"`
	Purpose            string               `json:"purpose"`
	Amount             int64                `json:"amount"`
	TermMonths         int                  `json:"term_months"`
	IsUrgent           bool                 `json:"is_urgent"`
	Status             string               `json:"status"`
	Chain              []ChainEntryResponse `json:"chain"`
	Notes              []NoteResponse       `json:"notes"`
	AssigneeEmployeeID string               `json:"assignee_employee_id,omitempty"`
	AssigneeName       string               `json:"assignee_name,omitempty"`
	CreatedAt          string               `json:"created_at"`
}

type StatsResponse struct {
	Total             int64            `json:"total"`
	ByStatus          map[string]int64 `json:"by_status"`
	SupervisorPending int64            `json:"supervisor_pending"`
	ManagerPending    int64            `json:"manager_pending"`
}

// Applicant is the identity snapshot taken from the session at submit time.
type Applicant struct {
	EmployeeID string
	Name       string
	Department string
	Position   string
}

func toLoanResponse(l *Loan) LoanResponse {
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
	notes := make([]NoteResponse, 0, len(l.Notes))
	for _, n := range l.Notes {
		notes = append(notes, NoteResponse{
			AuthorEmployeeID: n.AuthorEmployeeID,
			AuthorName:       n.AuthorName,
			Content:          n.Content,
			CreatedAt:        n.CreatedAt.Format(time.RFC3339),
		})
	}
	return LoanResponse{
		ApplicationID:      l.ApplicationID,
		EmployeeID:         l.EmployeeID,
		ApplicantName:      l.ApplicantName,
		CustomerName:       l.CustomerName,
		CustomerIDNumber:   l.CustomerIDNumber,
		CustomerPhone:      l.CustomerPhone,
		Purpose:            l.Purpose,
		Amount:             l.Amount,
		TermMonths:         l.TermMonths,
		IsUrgent:           l.IsUrgent,
		Status:             l.Status,
		Chain:              chain,
		Notes:              notes,
		AssigneeEmployeeID: l.AssigneeEmployeeID,
		AssigneeName:       l.AssigneeName,
		CreatedAt:          l.CreatedAt.Format(time.RFC3339),
	}
}

func toLoanResponses(loans []Loan) []LoanResponse {
	resp := make([]LoanResponse, 0, len(loans))
	for i := range loans {
		resp = append(resp, toLoanResponse(&loans[i]))
	}
	return resp
}
