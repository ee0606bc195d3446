package account

type ProvisionRequest struct {
	NewEmployeeID string `json:"new_employee_id" binding:"required,uuid"`
}

type BatchProvisionRequest struct {
	NewEmployeeIDs []string `json:"new_employee_ids" binding:"required,min=1,dive,uuid"`
}

type ProvisionResponse struct {
	NewEmployeeID string `json:"new_employee_id"`
	EmployeeID    string `json:"employee_id"`
	Account       string `json:"account"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	EmailSent     bool   `json:"email_sent"`
}

type BatchItemResult struct {
	NewEmployeeID string `json:"new_employee_id"`
	Success       bool   `json:"success"`
	EmployeeID    string `json:"employee_id,omitempty"`
	Account       string `json:"account,omitempty"`
	Error         string `json:"error,omitempty"`
}

type BatchProvisionResponse struct {
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
	Results   []BatchItemResult `json:"results"`
}
