package orchestrators

import (
	"context"
	"fmt"
	"strings"
)

// Entity prefixes for composite IDs.
const (
	EntityMember   = "member"
	EntitySale     = "sale"
	EntitySession  = "session"
	EntitySchedule = "schedule"
	EntityForecast = "forecast"
)

// nextSeqID builds a `{entity}-{YYYYMMDD}-{seq}` identifier where seq is one
// past the number of records already carrying that date.
// PRE: date is YYYY-MM-DD; countByDate reports existing records for the date
// POST: Returned ID is unique for the date as long as writes are sequential
func nextSeqID(ctx context.Context, entity, date string, countByDate func(context.Context, string) (int, error)) (string, error) {
	count, err := countByDate(ctx, date)
	if err != nil {
		return "", fmt.Errorf("count %s records for %s: %w", entity, date, err)
	}
	return fmt.Sprintf("%s-%s-%d", entity, strings.ReplaceAll(date, "-", ""), count+1), nil
}
