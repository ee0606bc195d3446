package newemployee

import "time"

type SubmitItem struct {
	Name      string `json:"name" binding:"required,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Phone     string `json:"phone" binding:"omitempty,len=10"`
	StartDate string `json:"start_date" binding:"required,datetime=2006-01-02"`
}

type SubmitRequest struct {
	Employees []SubmitItem `json:"employees" binding:"required,dive"`
}

type ReviewRequest struct {
	Approve *bool  `json:"approve" binding:"required"`
	Comment string `json:"comment" binding:"max=500"`
}

type ApprovedListRequest struct {
	HasAccount *bool  `form:"has_account"`
	Department string `form:"department"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

type ChainEntryResponse struct {
	ApproverEmployeeID string `json:"approver_employee_id"`
	ApproverName       string `json:"approver_name"`
	ApproverPosition   string `json:"approver_position"`
	Status             string `json:"status"`
	Comment            string `json:"comment,omitempty"`
	Timestamp          string `json:"timestamp"`
}

type NewEmployeeResponse struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	Email               string               `json:"email"`
	Phone               string               `json:"phone,omitempty"`
	StartDate           string               `json:"start_date"`
	Department          string               `json:"department"`
	Position            string               `json:"position"`
	SubmitterEmployeeID string               `json:"submitter_employee_id"`
	SubmitterName       string               `json:"submitter_name"`
	Status              string               `json:"status"`
	Chain               []ChainEntryResponse `json:"chain"`
	HasAccount          bool                 `json:"has_account"`
	EmployeeID          string               `json:"employee_id,omitempty"`
	Account             string               `json:"account,omitempty"`
	IsActivated         bool                 `json:"is_activated"`
	CreatedAt           string               `json:"created_at"`
}

// Submitter is the identity snapshot taken from the session.
type Submitter struct {
	EmployeeID string
	Name       string
	Department string
	Position   string
}

func toResponse(n *NewEmployee) NewEmployeeResponse {
	chain := make([]ChainEntryResponse, 0, len(n.Chain))
	for _, e := range n.Chain {
		chain = append(chain, ChainEntryResponse{
			ApproverEmployeeID: e.ApproverEmployeeID,
			ApproverName:       e.ApproverName,
			ApproverPosition:   e.ApproverPosition,
			Status:             e.Status,
			Comment:            e.Comment,
			Timestamp:          e.Timestamp.Format(time.RFC3339),
		})
	}
	return NewEmployeeResponse{
		ID:                  n.ID.String(),
		Name:                n.Name,
		Email:               n.Email,
		Phone:               n.Phone,
		StartDate:           n.StartDate.Format("2006-01-02"),
		Department:          n.Department,
		Position:            n.Position,
		SubmitterEmployeeID: n.SubmitterEmployeeID,
		SubmitterName:       n.SubmitterName,
		Status:              n.Status,
		Chain:               chain,
		HasAccount:          n.HasAccount,
		EmployeeID:          n.EmployeeID,
		Account:             n.Account,
		IsActivated:         n.IsActivated,
		CreatedAt:           n.CreatedAt.Format(time.RFC3339),
	}
}

func toResponses(items []NewEmployee) []NewEmployeeResponse {
	resp := make([]NewEmployeeResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp
}
