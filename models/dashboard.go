package models

type DashboardStats struct {
	TotalFighters    int     `json:"total_fighters"`
	VerifiedFighters int     `json:"verified_fighters"`
	ActiveFighters   int     `json:"active_fighters"`
	VerificationRate float64 `json:"verification_rate"`
}

type MatchmakingStats struct {
	TotalEvents          int                       `json:"total_events"`
	PendingApplications  int                       `json:"pending_applications"`
	ConfirmedPairs       int                       `json:"confirmed_pairs"`
	ApplicationsByStatus map[ApplicationStatus]int `json:"applications_by_status"`
	ActiveContracts      int                       `json:"active_contracts"`
	OpenTasks            int                       `json:"open_tasks"`
}
