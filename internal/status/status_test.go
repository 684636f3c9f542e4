package status

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var now = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

func days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

// window builds a validity window of total days that ends remaining days
// after now.
func window(total, remaining int) (time.Time, time.Time) {
	end := now.Add(days(remaining))
	return end.Add(-days(total)), end
}

func TestClassifyExpired(t *testing.T) {
	start, end := window(400, -3)
	info := Classify(start, end, now)

	assert.True(t, info.IsExpired)
	assert.Equal(t, Expired, info.Status)
	assert.Equal(t, -3, info.DaysRemaining)
}

func TestClassifyExpiredWithinTheSameDay(t *testing.T) {
	end := now.Add(-time.Hour)
	info := Classify(end.Add(-days(30)), end, now)

	assert.True(t, info.IsExpired)
	assert.Equal(t, Expired, info.Status)
	assert.Equal(t, 0, info.DaysRemaining)
}

func TestClassifyEndingNowIsNotExpired(t *testing.T) {
	info := Classify(now.Add(-days(10)), now, now)

	assert.False(t, info.IsExpired)
	assert.Equal(t, Danger, info.Status)
	assert.Equal(t, 0, info.DaysRemaining)
}

func TestClassifyThresholdBands(t *testing.T) {
	cases := []struct {
		name      string
		total     int
		remaining int
		want      Status
	}{
		{"long window inside 90", 400, 80, Danger},
		{"long window at 90", 365, 90, Danger},
		{"long window past 90", 400, 91, Safe},
		{"mid window past 30", 200, 40, Warning},
		{"mid window at 30", 200, 30, Danger},
		{"mid window just above 182", 183, 40, Warning},
		{"short window at 182 inside 45", 182, 40, Danger},
		{"short window at 45", 100, 45, Danger},
		{"short window at 46", 100, 46, Warning},
		{"short window at 90", 150, 90, Warning},
		{"mid window safe", 300, 120, Safe},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := window(tc.total, tc.remaining)
			info := Classify(start, end, now)
			assert.Equal(t, tc.want, info.Status)
			assert.Equal(t, tc.remaining, info.DaysRemaining)
			assert.False(t, info.IsExpired)
		})
	}
}

func TestWholeDaysBetweenTruncates(t *testing.T) {
	assert.Equal(t, 1, WholeDaysBetween(now.Add(days(1)+23*time.Hour), now))
	assert.Equal(t, -1, WholeDaysBetween(now.Add(-days(1)-23*time.Hour), now))
	assert.Equal(t, 0, WholeDaysBetween(now.Add(23*time.Hour), now))
}

type item struct {
	name       string
	owner      string
	start, end time.Time
}

func (i item) Window() (time.Time, time.Time) { return i.start, i.end }

func TestSortExpiringAndGroup(t *testing.T) {
	s1, e1 := window(400, 200)
	s2, e2 := window(400, 10)
	s3, e3 := window(200, -1)
	items := []item{
		{name: "passport", owner: "Rina", start: s1, end: e1},
		{name: "license", owner: "Budi", start: s2, end: e2},
		{name: "permit", owner: "Rina", start: s3, end: e3},
	}

	SortByEndDate(items)
	assert.Equal(t, []string{"permit", "license", "passport"}, []string{items[0].name, items[1].name, items[2].name})

	expiring := Expiring(items, now)
	if assert.Len(t, expiring, 1) {
		assert.Equal(t, "license", expiring[0].name)
	}

	groups, names := GroupBy(items, func(i item) string { return i.owner })
	assert.Equal(t, []string{"Budi", "Rina"}, names)
	assert.Len(t, groups["Rina"], 2)
}
