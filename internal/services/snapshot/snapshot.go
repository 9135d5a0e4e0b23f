// Package snapshot keeps one value-point per day and compares against the prior Friday
package snapshot

import (
	"math"
	"sort"
	"time"

	"github.com/bobmcallan/piewatch/internal/models"
)

const (
	// DateLayout is the calendar-day key format, always in UTC.
	DateLayout = "2006-01-02"

	// DefaultMaxDays is the retained history window.
	DefaultMaxDays = 120
)

// DateKey returns the UTC calendar day of t.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// FromMetrics builds the snapshot for the metrics' calendar day.
func FromMetrics(m *models.Metrics) models.DailySnapshot {
	return models.DailySnapshot{
		Date:    DateKey(m.AsOf),
		Total:   m.Account.Total,
		AIValue: m.AI.Value,
		OLValue: m.OuterLimits.Value,
	}
}

// Write upserts snap by date, sorts ascending and keeps the most recent maxDays.
// Writing the same date twice leaves one entry equal to the later write.
func Write(h *models.SnapshotHistory, snap models.DailySnapshot, maxDays int) *models.SnapshotHistory {
	if h == nil {
		h = models.NewSnapshotHistory()
	}
	if maxDays <= 0 {
		maxDays = DefaultMaxDays
	}

	replaced := false
	for i := range h.Days {
		if h.Days[i].Date == snap.Date {
			h.Days[i] = snap
			replaced = true
			break
		}
	}
	if !replaced {
		h.Days = append(h.Days, snap)
	}

	sort.SliceStable(h.Days, func(i, j int) bool {
		return h.Days[i].Date < h.Days[j].Date
	})

	if len(h.Days) > maxDays {
		h.Days = append([]models.DailySnapshot(nil), h.Days[len(h.Days)-maxDays:]...)
	}
	return h
}

// IsFriday reports whether t falls on a Friday in UTC.
func IsFriday(t time.Time) bool {
	return t.UTC().Weekday() == time.Friday
}

// FindPriorFriday returns the most recent Friday snapshot strictly before today's UTC date.
func FindPriorFriday(h *models.SnapshotHistory, today time.Time) (models.DailySnapshot, bool) {
	if h == nil {
		return models.DailySnapshot{}, false
	}
	todayKey := DateKey(today)
	for i := len(h.Days) - 1; i >= 0; i-- {
		day := h.Days[i]
		if day.Date >= todayKey {
			continue
		}
		d, err := time.Parse(DateLayout, day.Date)
		if err != nil {
			continue
		}
		if d.Weekday() == time.Friday {
			return day, true
		}
	}
	return models.DailySnapshot{}, false
}

// WeeklyWrap computes week-over-week deltas. The best mover is the pie with
// the larger absolute delta; a tie goes to the AI pie.
func WeeklyWrap(current, prior models.DailySnapshot, labels models.PieLabels) *models.WeeklyWrap {
	wrap := &models.WeeklyWrap{
		Prior:      prior,
		Current:    current,
		TotalDelta: current.Total - prior.Total,
		AIDelta:    current.AIValue - prior.AIValue,
		OLDelta:    current.OLValue - prior.OLValue,
	}

	if math.Abs(wrap.AIDelta) >= math.Abs(wrap.OLDelta) {
		wrap.BestMover, wrap.BestMoverDelta = labels.AI, wrap.AIDelta
	} else {
		wrap.BestMover, wrap.BestMoverDelta = labels.OuterLimits, wrap.OLDelta
	}
	return wrap
}

// Weekly returns the wrap for a Friday run, or nil on other days or when
// no prior Friday is retained.
func Weekly(h *models.SnapshotHistory, current models.DailySnapshot, now time.Time, labels models.PieLabels) *models.WeeklyWrap {
	if !IsFriday(now) {
		return nil
	}
	prior, ok := FindPriorFriday(h, now)
	if !ok {
		return nil
	}
	return WeeklyWrap(current, prior, labels)
}
