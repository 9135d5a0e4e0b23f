package models

// DailySnapshot is the value-point recorded for one calendar day (UTC, "2006-01-02").
type DailySnapshot struct {
	Date    string  `json:"date"`
	Total   float64 `json:"total"`
	AIValue float64 `json:"aiValue"`
	OLValue float64 `json:"olValue"`
}

// SnapshotHistory is the persisted snapshot document, ordered by date ascending.
type SnapshotHistory struct {
	Days []DailySnapshot `json:"days"`
}

// NewSnapshotHistory returns an empty history.
func NewSnapshotHistory() *SnapshotHistory {
	return &SnapshotHistory{Days: []DailySnapshot{}}
}

// WeeklyWrap compares today's values with the prior Friday snapshot.
type WeeklyWrap struct {
	Prior          DailySnapshot `json:"prior"`
	Current        DailySnapshot `json:"current"`
	TotalDelta     float64       `json:"totalDelta"`
	AIDelta        float64       `json:"aiDelta"`
	OLDelta        float64       `json:"olDelta"`
	BestMover      string        `json:"bestMover"`
	BestMoverDelta float64       `json:"bestMoverDelta"`
}
