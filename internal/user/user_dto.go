package user

type EmergencyContactPayload struct {
	Name         string `json:"name" binding:"omitempty,max=50"`
	Phone        string `json:"phone" binding:"omitempty,max=20"`
	Relationship string `json:"relationship" binding:"omitempty,max=20"`
}

type UpdateProfileRequest struct {
	Email            string                  `json:"email" binding:"omitempty,email"`
	Extension        string                  `json:"extension" binding:"omitempty,numeric,max=10"`
	Birthday         string                  `json:"birthday" binding:"omitempty"`
	PersonalPhone    string                  `json:"personal_phone" binding:"omitempty"`
	EmergencyContact EmergencyContactPayload `json:"emergency_contact"`
}

type UploadAvatarRequest struct {
	Avatar string `json:"avatar" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type ResetPasswordRequest struct {
	Account string `json:"account" binding:"required"`
}

type ProfileResponse struct {
	ID               string                  `json:"id"`
	EmployeeID       string                  `json:"employee_id"`
	Name             string                  `json:"name"`
	Account          string                  `json:"account"`
	Role             string                  `json:"role"`
	Department       string                  `json:"department"`
	DepartmentName   string                  `json:"department_name"`
	Position         string                  `json:"position"`
	PositionName     string                  `json:"position_name"`
	Email            string                  `json:"email,omitempty"`
	Extension        string                  `json:"extension,omitempty"`
	Birthday         string                  `json:"birthday,omitempty"`
	PersonalPhone    string                  `json:"personal_phone,omitempty"`
	EmergencyContact EmergencyContactPayload `json:"emergency_contact"`
	Avatar           string                  `json:"avatar,omitempty"`
	IsFirstLogin     bool                    `json:"is_first_login"`
	LastLoginTime    *string                 `json:"last_login_time,omitempty"`
}

type EmployeeResponse struct {
	EmployeeID     string `json:"employee_id"`
	Name           string `json:"name"`
	Account        string `json:"account"`
	Department     string `json:"department"`
	DepartmentName string `json:"department_name"`
	Position       string `json:"position"`
	PositionName   string `json:"position_name"`
	Extension      string `json:"extension,omitempty"`
	Email          string `json:"email,omitempty"`
}

type StatusResponse struct {
	IsFirstLogin bool `json:"is_first_login"`
}

type ChangePasswordResponse struct {
	Token string `json:"token"`
}

type ResetPasswordResponse struct {
	EmailSent bool `json:"email_sent"`
}
