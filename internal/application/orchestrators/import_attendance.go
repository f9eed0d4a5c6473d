package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	memberStore "gymdesk/internal/adapters/storage/member"
	"gymdesk/internal/application/dateutil"
	domainSale "gymdesk/internal/domain/sale"
)

// AttendanceRow is one scanned name+date pair from the attendance sheet.
type AttendanceRow struct {
	Name string
	Date string // YYYY-MM-DD or ISO datetime; normalized on import
}

// ImportAttendanceInput carries the scanned rows.
type ImportAttendanceInput struct {
	Rows []AttendanceRow
}

// ImportAttendanceRowError describes why a single row was not imported.
type ImportAttendanceRowError struct {
	Row     int
	Name    string
	Message string
}

// ImportAttendanceResult holds aggregate counts and per-row errors.
type ImportAttendanceResult struct {
	Total    int
	Imported int
	Skipped  int
	Errors   []ImportAttendanceRowError
}

// ImportAttendanceDeps holds dependencies for ImportAttendance.
type ImportAttendanceDeps struct {
	MemberStore memberStore.Store
	AddSession  AddSessionDeps
	Now         func() time.Time
}

// ExecuteImportAttendance resolves scanned attendance rows against the member
// registry and logs one session per matched row. Name matching is exact but
// case- and whitespace-insensitive. Unmatched names, bad dates, and exhausted
// balances are reported per row; the import never fails as a whole for a bad
// row.
// PRE: Rows parsed from the external scan service
// POST: Imported+Skipped == Total; every skip carries a row error
func ExecuteImportAttendance(ctx context.Context, input ImportAttendanceInput, deps ImportAttendanceDeps) (ImportAttendanceResult, error) {
	result := ImportAttendanceResult{Total: len(input.Rows)}

	for i, row := range input.Rows {
		rowNum := i + 1

		name := strings.TrimSpace(row.Name)
		if name == "" {
			result.Skipped++
			result.Errors = append(result.Errors, ImportAttendanceRowError{Row: rowNum, Message: "name is required"})
			continue
		}

		date := dateutil.Normalize(row.Date)
		if date == "" {
			result.Skipped++
			result.Errors = append(result.Errors, ImportAttendanceRowError{Row: rowNum, Name: name, Message: "invalid date: " + row.Date})
			continue
		}

		m, err := deps.MemberStore.FindByName(ctx, name)
		if err != nil || !m.MatchesName(name) {
			result.Skipped++
			result.Errors = append(result.Errors, ImportAttendanceRowError{Row: rowNum, Name: name, Message: "no registered member with this name"})
			continue
		}

		_, err = ExecuteAddSession(ctx, AddSessionInput{
			MemberID:    m.ID,
			SessionDate: date,
		}, deps.AddSession)
		if err != nil {
			result.Skipped++
			msg := "session write failed: " + err.Error()
			if err == domainSale.ErrNoRemainingSessions {
				msg = "no remaining sessions"
			}
			result.Errors = append(result.Errors, ImportAttendanceRowError{Row: rowNum, Name: name, Message: msg})
			continue
		}
		result.Imported++
	}

	slog.Info("attendance_imported", "total", result.Total, "imported", result.Imported, "skipped", result.Skipped)
	return result, nil
}
