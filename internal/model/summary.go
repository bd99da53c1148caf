package model

import "time"

// SummaryVersion is bumped on breaking changes to the summary schema.
const SummaryVersion = 1

// Summary is a versioned, self-contained snapshot of a user's planner
// state. It is a pure function of stored state at computation time and is
// never cached or partially filled.
type Summary struct {
	AppID       string        `json:"appId"`
	Version     int           `json:"version"`
	GeneratedAt time.Time     `json:"generatedAt"`
	Totals      SummaryTotals `json:"totals"`
	Recent      SummaryRecent `json:"recent"`
}

type SummaryTotals struct {
	PlansTotal     int `json:"plansTotal"`
	PlansActive    int `json:"plansActive"`
	TasksTotal     int `json:"tasksTotal"`
	TasksCompleted int `json:"tasksCompleted"`
	TasksDueToday  int `json:"tasksDueToday"`
	LogsThisWeek   int `json:"logsThisWeek"`
	BookmarksTotal int `json:"bookmarksTotal"`
}

type SummaryRecent struct {
	RecentPlans []SummaryItem `json:"recentPlans"`
	RecentTasks []SummaryItem `json:"recentTasks"`
	RecentLogs  []SummaryItem `json:"recentLogs"`
}

// SummaryItem is a recently-touched entity reduced to its display essentials.
type SummaryItem struct {
	ID        int        `json:"id"`
	Title     string     `json:"title"`
	Timestamp *time.Time `json:"timestamp"`
}
