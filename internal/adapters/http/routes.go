package web

import "net/http"

// registerRoutes maps API paths to handlers. Method dispatch happens inside
// each handler.
func registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", handleHealthz)

	mux.HandleFunc("/api/data", handleData)

	mux.HandleFunc("/api/members", handleMembers)
	mux.HandleFunc("/api/members/forecast-status", handleForecastStatus)

	mux.HandleFunc("/api/sales", handleSales)
	mux.HandleFunc("/api/sessions", handleSessions)

	mux.HandleFunc("/api/calendar", handleCalendar)
	mux.HandleFunc("/api/schedule", handleSchedule)
	mux.HandleFunc("/api/schedule/preview", handleSchedulePreview)
	mux.HandleFunc("/api/schedule/series", handleScheduleSeries)
	mux.HandleFunc("/api/workouts/complete", handleCompleteWorkout)
	mux.HandleFunc("/api/workouts/uncomplete", handleUncompleteWorkout)
	mux.HandleFunc("/api/weekly", handleWeekly)

	mux.HandleFunc("/api/forecast", handleForecast)
	mux.HandleFunc("/api/forecast/buckets", handleForecastBuckets)
	mux.HandleFunc("/api/stats/members", handleMemberStats)
	mux.HandleFunc("/api/dashboard", handleDashboard)
	mux.HandleFunc("/api/planned-monthly", handlePlannedMonthly)

	mux.HandleFunc("/api/import/attendance", handleImportAttendance)

	mux.HandleFunc("/api/reminders", handleReminders)
	mux.HandleFunc("/api/reminders/", handleReminders)
	mux.HandleFunc("/api/reminders/queue", handleQueueReminders)

	mux.HandleFunc("/api/perf", handlePerf)
}
