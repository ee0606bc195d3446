package loginhistory

type ListRequest struct {
	Account  string `form:"account"`
	Role     string `form:"role"`
	Status   string `form:"status" binding:"omitempty,oneof=success failed"`
	From     string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page,default=1" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size,default=20" binding:"omitempty,min=1,max=100"`
}

type StatsResponse struct {
	TodaySuccess int64 `json:"today_success"`
	TodayFailed  int64 `json:"today_failed"`
	TotalSuccess int64 `json:"total_success"`
	TotalFailed  int64 `json:"total_failed"`
}

type HistoryResponse struct {
	ID        string `json:"id"`
	Account   string `json:"account"`
	Role      string `json:"role"`
	Name      string `json:"name,omitempty"`
	Status    string `json:"status"`
	IPAddress string `json:"ip_address,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Reason    string `json:"reason,omitempty"`
	LoginTime string `json:"login_time"`
}
