package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/piewatch/internal/models"
)

func day(date string, total float64) models.DailySnapshot {
	return models.DailySnapshot{Date: date, Total: total}
}

func TestWrite_IdempotentPerDate(t *testing.T) {
	h := Write(nil, day("2024-05-03", 100), 0)
	h = Write(h, day("2024-05-03", 250), 0)

	require.Len(t, h.Days, 1)
	assert.Equal(t, 250.0, h.Days[0].Total)
}

func TestWrite_SortsAscending(t *testing.T) {
	h := models.NewSnapshotHistory()
	h = Write(h, day("2024-05-03", 3), 0)
	h = Write(h, day("2024-05-01", 1), 0)
	h = Write(h, day("2024-05-02", 2), 0)

	require.Len(t, h.Days, 3)
	assert.Equal(t, "2024-05-01", h.Days[0].Date)
	assert.Equal(t, "2024-05-02", h.Days[1].Date)
	assert.Equal(t, "2024-05-03", h.Days[2].Date)
}

func TestWrite_Retention(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	h := models.NewSnapshotHistory()
	for i := 0; i < 130; i++ {
		h = Write(h, day(DateKey(start.AddDate(0, 0, i)), float64(i)), DefaultMaxDays)
	}

	require.Len(t, h.Days, 120)
	assert.Equal(t, DateKey(start.AddDate(0, 0, 10)), h.Days[0].Date)
	assert.Equal(t, DateKey(start.AddDate(0, 0, 129)), h.Days[119].Date)
}

func TestFindPriorFriday(t *testing.T) {
	h := &models.SnapshotHistory{Days: []models.DailySnapshot{
		day("2024-04-19", 1), // Friday
		day("2024-04-25", 2), // Thursday
		day("2024-04-26", 3), // Friday
		day("2024-04-29", 4), // Monday
		day("2024-05-03", 5), // Friday (today)
	}}
	today := time.Date(2024, 5, 3, 18, 0, 0, 0, time.UTC)

	prior, ok := FindPriorFriday(h, today)
	require.True(t, ok)
	assert.Equal(t, "2024-04-26", prior.Date, "today's own snapshot is excluded")
}

func TestFindPriorFriday_NoneFound(t *testing.T) {
	h := &models.SnapshotHistory{Days: []models.DailySnapshot{
		day("2024-04-29", 4),
		day("2024-04-30", 4),
		day("not-a-date", 4),
	}}

	_, ok := FindPriorFriday(h, time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC))
	assert.False(t, ok)

	_, ok = FindPriorFriday(nil, time.Now())
	assert.False(t, ok)
}

func TestWeeklyWrap_Deltas(t *testing.T) {
	prior := models.DailySnapshot{Date: "2024-04-26", Total: 1000, AIValue: 600, OLValue: 350}
	current := models.DailySnapshot{Date: "2024-05-03", Total: 1050, AIValue: 580, OLValue: 420}

	wrap := WeeklyWrap(current, prior, models.DefaultPieLabels())

	assert.Equal(t, 50.0, wrap.TotalDelta)
	assert.Equal(t, -20.0, wrap.AIDelta)
	assert.Equal(t, 70.0, wrap.OLDelta)
	assert.Equal(t, "OuterLimits", wrap.BestMover)
	assert.Equal(t, 70.0, wrap.BestMoverDelta)
}

func TestWeeklyWrap_TieGoesToAI(t *testing.T) {
	prior := models.DailySnapshot{AIValue: 100, OLValue: 100}
	current := models.DailySnapshot{AIValue: 90, OLValue: 110}

	wrap := WeeklyWrap(current, prior, models.DefaultPieLabels())
	assert.Equal(t, "AI", wrap.BestMover)
	assert.Equal(t, -10.0, wrap.BestMoverDelta)
}

func TestWeekly_OnlyOnFridays(t *testing.T) {
	h := &models.SnapshotHistory{Days: []models.DailySnapshot{day("2024-04-26", 900)}}
	current := day("2024-05-02", 1000)

	thursday := time.Date(2024, 5, 2, 18, 0, 0, 0, time.UTC)
	assert.Nil(t, Weekly(h, current, thursday, models.DefaultPieLabels()))

	friday := time.Date(2024, 5, 3, 18, 0, 0, 0, time.UTC)
	wrap := Weekly(h, current, friday, models.DefaultPieLabels())
	require.NotNil(t, wrap)
	assert.Equal(t, 100.0, wrap.TotalDelta)
}

func TestWeekly_FridayWithoutPrior(t *testing.T) {
	friday := time.Date(2024, 5, 3, 18, 0, 0, 0, time.UTC)
	assert.Nil(t, Weekly(models.NewSnapshotHistory(), day("2024-05-03", 1), friday, models.DefaultPieLabels()))
}

func TestIsFriday_UsesUTC(t *testing.T) {
	sydney := time.FixedZone("AEST", 10*60*60)
	// Saturday 08:00 in Sydney is Friday 22:00 UTC.
	assert.True(t, IsFriday(time.Date(2024, 5, 4, 8, 0, 0, 0, sydney)))
}

func TestFromMetrics(t *testing.T) {
	m := &models.Metrics{
		AsOf:        time.Date(2024, 5, 3, 23, 30, 0, 0, time.UTC),
		Account:     models.AccountSnapshot{Total: 1050},
		AI:          models.PieMetric{Value: 600},
		OuterLimits: models.PieMetric{Value: 400},
	}

	snap := FromMetrics(m)
	assert.Equal(t, models.DailySnapshot{Date: "2024-05-03", Total: 1050, AIValue: 600, OLValue: 400}, snap)
}
