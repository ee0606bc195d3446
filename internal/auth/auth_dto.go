package auth

type LoginRequest struct {
	Account  string `json:"account" binding:"required,max=10"`
	Password string `json:"password" binding:"required"`
}

type VerifyUnlockRequest struct {
	Account string `json:"account" binding:"required,max=10"`
	Code    string `json:"code" binding:"required,len=6,numeric"`
}

type LoginUser struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Account    string `json:"account"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
}

type LoginResponse struct {
	Token        string    `json:"token"`
	IsFirstLogin bool      `json:"is_first_login"`
	User         LoginUser `json:"user"`
}
