package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	calendarStore "gymdesk/internal/adapters/storage/calendar"
	memberStore "gymdesk/internal/adapters/storage/member"
	saleStore "gymdesk/internal/adapters/storage/sale"
	"gymdesk/internal/application/dateutil"
	domainCalendar "gymdesk/internal/domain/calendar"
	domainSale "gymdesk/internal/domain/sale"
)

// RecordSaleInput carries input for the orchestrator.
type RecordSaleInput struct {
	MemberID   string
	SaleDate   string // YYYY-MM-DD, defaults to today
	ClassCount int
	UnitPrice  int
	PaidAmount int // < 0 means fully paid
}

// RecordSaleResult reports the aggregate outcome of the multi-step write.
type RecordSaleResult struct {
	SaleID        string
	MemberUpdated bool
	EventCreated  bool
}

// RecordSaleDeps holds dependencies for RecordSale.
type RecordSaleDeps struct {
	MemberStore   memberStore.Store
	SaleStore     saleStore.Store
	CalendarStore calendarStore.Store
	Now           func() time.Time
}

// ExecuteRecordSale creates a sale, refreshes the member's most-recent-package
// fields, and drops a sale marker on the calendar. The steps are independent
// writes; a later failure does not roll back an earlier one, and the result
// reports which steps landed.
// PRE: MemberID exists, ClassCount > 0, UnitPrice >= 0
// POST: Sale persisted; member and calendar updated best effort
func ExecuteRecordSale(ctx context.Context, input RecordSaleInput, deps RecordSaleDeps) (RecordSaleResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}

	m, err := deps.MemberStore.GetByID(ctx, input.MemberID)
	if err != nil {
		return RecordSaleResult{}, err
	}

	saleDate := dateutil.Normalize(input.SaleDate)
	if saleDate == "" {
		saleDate = dateutil.Format(now())
	}

	id, err := nextSeqID(ctx, EntitySale, saleDate, deps.SaleStore.CountByDatePrefix)
	if err != nil {
		return RecordSaleResult{}, err
	}

	s := domainSale.NewSale(id, saleDate, m.ID, m.Name, input.ClassCount, input.UnitPrice)
	if input.PaidAmount >= 0 {
		s.PaidAmount = input.PaidAmount
	}
	if err := s.Validate(); err != nil {
		return RecordSaleResult{}, err
	}

	if err := deps.SaleStore.Save(ctx, s); err != nil {
		return RecordSaleResult{}, err
	}
	result := RecordSaleResult{SaleID: s.ID}

	m.RecordPackage(input.ClassCount, input.UnitPrice)
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		slog.Error("record_sale_member_update_failed", "sale_id", s.ID, "member_id", m.ID, "error", err.Error())
	} else {
		result.MemberUpdated = true
	}

	event := domainCalendar.Event{
		ID:       s.ID + "-event",
		Date:     saleDate,
		Type:     domainCalendar.TypeSale,
		Title:    m.Name,
		MemberID: m.ID,
	}
	if err := deps.CalendarStore.Save(ctx, event); err != nil {
		slog.Warn("record_sale_marker_failed", "sale_id", s.ID, "error", err.Error())
	} else {
		result.EventCreated = true
	}

	slog.Info("sale_recorded", "sale_id", s.ID, "member_id", m.ID, "class_count", input.ClassCount, "amount", s.Amount)
	return result, nil
}

// ErrSaleNotFound reports a delete against a missing sale.
var ErrSaleNotFound = errors.New("sale not found")

// ExecuteDeleteSale removes a sale and restores the member's previous-package
// fields from the remaining sales.
// PRE: saleID is non-empty
// POST: Sale removed; member mirrors the newest remaining sale
func ExecuteDeleteSale(ctx context.Context, saleID string, deps RecordSaleDeps) error {
	s, err := deps.SaleStore.GetByID(ctx, saleID)
	if err != nil {
		return ErrSaleNotFound
	}

	if err := deps.SaleStore.Delete(ctx, saleID); err != nil {
		return err
	}

	m, err := deps.MemberStore.GetByID(ctx, s.MemberID)
	if err != nil {
		slog.Warn("delete_sale_member_missing", "sale_id", saleID, "member_id", s.MemberID)
		return nil
	}

	remaining, err := deps.SaleStore.ListByMemberID(ctx, s.MemberID)
	if err != nil {
		slog.Error("delete_sale_list_failed", "member_id", s.MemberID, "error", err.Error())
		return nil
	}
	if len(remaining) > 0 {
		latest := remaining[len(remaining)-1]
		m.RecordPackage(latest.ClassCount, latest.UnitPrice)
	} else {
		m.RecordPackage(0, 0)
	}
	if err := deps.MemberStore.Save(ctx, m); err != nil {
		slog.Error("delete_sale_member_update_failed", "member_id", m.ID, "error", err.Error())
	}

	slog.Info("sale_deleted", "sale_id", saleID, "member_id", s.MemberID)
	return nil
}
