// Package modeldto provides types for API request and response bodies.
package modeldto

type (
	User struct {
		Login    string `json:"login"`
		Password string `json:"password"`
	}
	NewAccount struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	Account struct {
		AccountID string `json:"id"`
		Name      string `json:"name"`
		Color     string `json:"color"`
		CreatedAt string `json:"created_at"`
	}
	NewEntry struct {
		AccountID string `json:"account_id"`
		Date      string `json:"date"`
		Points    int    `json:"points"`
	}
	Entry struct {
		AccountID string `json:"account_id"`
		Date      string `json:"date"`
		Points    int    `json:"points"`
	}
	DailyGoal struct {
		TodayPoints int     `json:"todayPoints"`
		GoalPoints  int     `json:"goalPoints"`
		Achieved    bool    `json:"achieved"`
		Progress    float64 `json:"progress"`
		Date        string  `json:"date"`
	}
	MonthlyTarget struct {
		Points    int     `json:"points"`
		Earnings  float64 `json:"earnings"`
		UpdatedAt string  `json:"updated_at"`
	}
	NewMonthlyTarget struct {
		Points   *float64 `json:"points"`
		Earnings *float64 `json:"earnings"`
	}
	Balance struct {
		CurrentAmount   float64 `json:"current"`
		WithdrawnAmount float64 `json:"withdrawn"`
	}
	NewWithdrawal struct {
		AccountID  string  `json:"account_id"`
		CardNumber string  `json:"card"`
		Amount     float64 `json:"amount"`
	}
	Withdrawal struct {
		WithdrawalID   string  `json:"id"`
		AccountID      string  `json:"account_id"`
		Amount         float64 `json:"amount"`
		Status         string  `json:"status"`
		RequestedAt    string  `json:"requested_at"`
		CompletedAt    string  `json:"completed_at,omitempty"`
		ProcessingDays int     `json:"processing_days,omitempty"`
		Speed          string  `json:"speed,omitempty"`
	}
	RecentWithdrawal struct {
		WithdrawalID string  `json:"id"`
		Amount       float64 `json:"amount"`
		Status       string  `json:"status"`
		RequestedAt  string  `json:"requested_at"`
		CompletedAt  string  `json:"completed_at"`
		AccountName  string  `json:"account_name"`
		AccountColor string  `json:"account_color"`
		UpdatedAt    string  `json:"updated_at"`
	}
	Notification struct {
		NotificationID string `json:"id"`
		Kind           string `json:"type"`
		Title          string `json:"title"`
		Message        string `json:"message"`
		Read           bool   `json:"read"`
		Priority       string `json:"priority"`
		CreatedAt      string `json:"created_at"`
	}
	NotificationID struct {
		NotificationID string `json:"id"`
	}
	NotificationIDs struct {
		NotificationIDs []string `json:"ids"`
	}
	SweepResult struct {
		Removed int `json:"removed"`
	}
	PayoutStatus struct {
		WithdrawalID string `json:"id"`
		Status       string `json:"status"`
	}
)
