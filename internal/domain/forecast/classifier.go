package forecast

import (
	"time"

	"gymdesk/internal/domain/member"
)

// DefaultReregisterThreshold is the remaining-session count at or below which
// a member becomes a re-registration candidate.
const DefaultReregisterThreshold = 3

// Grace windows for the automatic classification.
const (
	reregisterRecencyMonths = 5
	dormancyMonths          = 6
)

// Candidate is one classified member with the inputs that drove the decision.
type Candidate struct {
	MemberID        string
	Name            string
	Remaining       int
	LastSessionDate string // YYYY-MM-DD, empty if never trained
	Manual          bool   // placed here by a manual override
}

// MemberActivity is the classifier's per-member input: the remaining balance
// and last-activity date derived from the raw collections.
type MemberActivity struct {
	Member          member.Member
	Remaining       int
	LastSessionDate string // YYYY-MM-DD, empty if never trained
}

// Buckets is the classifier output. A member never appears in both lists.
type Buckets struct {
	Reregister []Candidate
	Dormant    []Candidate
}

// Classify partitions members into re-registration candidates and dormant
// members, applying manual overrides last.
//
// Auto rules: re-register when 0 <= remaining <= threshold and the member has
// either never trained or trained within the last five months (never seen
// means never given a grace period). Dormant when remaining > 0 and the last
// session is older than six months; a missing last-session date disqualifies
// dormancy since there is no data to prove absence. Manual overrides are
// exclusive and force the member into exactly one bucket.
//
// Pure function of its input: running it twice on unchanged data produces
// identical bucket membership.
// PRE: threshold >= 0 (use DefaultReregisterThreshold for the standard rule)
// POST: no member ID appears in both buckets
func Classify(activities []MemberActivity, threshold int, now time.Time) Buckets {
	reregisterCutoff := now.AddDate(0, -reregisterRecencyMonths, 0)
	dormancyCutoff := now.AddDate(0, -dormancyMonths, 0)

	var buckets Buckets
	for _, a := range activities {
		c := Candidate{
			MemberID:        a.Member.ID,
			Name:            a.Member.Name,
			Remaining:       a.Remaining,
			LastSessionDate: a.LastSessionDate,
		}

		switch a.Member.ForecastStatus {
		case member.ForecastDormant:
			c.Manual = true
			buckets.Dormant = append(buckets.Dormant, c)
			continue
		case member.ForecastReregister:
			c.Manual = true
			buckets.Reregister = append(buckets.Reregister, c)
			continue
		}

		lastSession, hasLastSession := parseDate(a.LastSessionDate)

		if a.Remaining >= 0 && a.Remaining <= threshold {
			if !hasLastSession || lastSession.After(reregisterCutoff) {
				buckets.Reregister = append(buckets.Reregister, c)
				continue
			}
		}

		if a.Remaining > 0 && hasLastSession && lastSession.Before(dormancyCutoff) {
			buckets.Dormant = append(buckets.Dormant, c)
		}
	}
	return buckets
}

func parseDate(date string) (time.Time, bool) {
	if date == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
