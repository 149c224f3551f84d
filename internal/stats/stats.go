package stats

type UserStats struct {
	TotalLogs      int    `json:"total_logs"`
	DaysActive     int    `json:"days_active"`
	LoggedToday    bool   `json:"logged_today"`
	CurrentStreak  int    `json:"current_streak"`
	LongestStreak  int    `json:"longest_streak"`
	Points         int    `json:"points"`
	Level          int    `json:"level"`
	Rank           string `json:"rank"`
	TasksCompleted int    `json:"tasks_completed"`
}
