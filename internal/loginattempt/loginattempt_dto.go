package loginattempt

// CheckResult is the guard's verdict before a password is even looked at.
type CheckResult struct {
	Locked              bool   `json:"locked"`
	AttemptsLeft        int    `json:"attempts_left"`
	RequireVerification bool   `json:"require_verification"`
	LockUntil           string `json:"lock_until,omitempty"`
}

// FailureResult reports the state after a failed password attempt.
type FailureResult struct {
	Locked              bool `json:"locked"`
	AttemptsLeft        int  `json:"attempts_left"`
	RequireVerification bool `json:"require_verification"`
}

type SetLockRequest struct {
	Account string `json:"account" binding:"required"`
	Role    string `json:"role" binding:"required,oneof=user admin"`
	Locked  bool   `json:"locked"`
}

type LockStatusResponse struct {
	Account     string `json:"account"`
	Name        string `json:"name,omitempty"`
	Role        string `json:"role"`
	Attempts    int    `json:"attempts"`
	Status      string `json:"status"`
	LockUntil   string `json:"lock_until,omitempty"`
	IPAddress   string `json:"ip_address,omitempty"`
	LastAttempt string `json:"last_attempt"`
}
