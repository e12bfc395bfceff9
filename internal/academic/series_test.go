package academic

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDailySeries_DedupsSameStudent(t *testing.T) {
	iv := NewInterval(date("2025-01-01"), date("2025-01-01"))
	leaves := []Span{
		{StudentID: "A", Start: date("2025-01-01"), End: date("2025-01-01")},
		{StudentID: "A", Start: date("2024-12-30"), End: date("2025-01-03")},
	}

	series := ComputeDailySeries(iv, []string{"A"}, leaves, nil)
	require.Len(t, series, 1)
	assert.Equal(t, 1, series[0].LeaveCount)
	assert.Equal(t, 0, series[0].ODCount)
}

func TestComputeDailySeries_ZeroFilled(t *testing.T) {
	iv := NewInterval(date("2025-02-01"), date("2025-02-10"))

	series := ComputeDailySeries(iv, []string{"A", "B"}, nil, nil)
	require.Len(t, series, 10)
	for i, dc := range series {
		assert.Equal(t, iv.Start.AddDate(0, 0, i), dc.Date)
		assert.Zero(t, dc.LeaveCount)
		assert.Zero(t, dc.ODCount)
	}
}

func TestComputeDailySeries_EmptyPopulation(t *testing.T) {
	iv := NewInterval(date("2025-02-01"), date("2025-02-03"))
	leaves := []Span{{StudentID: "A", Start: date("2025-02-01"), End: date("2025-02-03")}}

	series := ComputeDailySeries(iv, nil, leaves, leaves)
	require.Len(t, series, 3)
	for _, dc := range series {
		assert.Zero(t, dc.LeaveCount)
		assert.Zero(t, dc.ODCount)
	}
}

func TestComputeDailySeries_EmptyInterval(t *testing.T) {
	iv := NewInterval(date("2025-02-03"), date("2025-02-01"))
	series := ComputeDailySeries(iv, []string{"A"}, nil, nil)
	assert.NotNil(t, series)
	assert.Empty(t, series)
}

func TestComputeDailySeries_LeaveAndODSeparate(t *testing.T) {
	iv := NewInterval(date("2025-03-01"), date("2025-03-05"))
	leaves := []Span{
		{StudentID: "A", Start: date("2025-02-25"), End: date("2025-03-02")},
		{StudentID: "B", Start: date("2025-03-02"), End: date("2025-03-02")},
		{StudentID: "outsider", Start: date("2025-03-01"), End: date("2025-03-05")},
	}
	ods := []Span{
		{StudentID: "B", Start: date("2025-03-04"), End: date("2025-03-09")},
		{StudentID: "C", Start: date("2025-03-05"), End: date("2025-03-05")},
		{StudentID: "C", Start: date("2025-03-06"), End: date("2025-03-01")}, // inverted, ignored
	}

	series := ComputeDailySeries(iv, []string{"A", "B", "C"}, leaves, ods)
	require.Len(t, series, 5)

	wantLeave := []int{1, 2, 0, 0, 0}
	wantOD := []int{0, 0, 0, 1, 2}
	for i, dc := range series {
		assert.Equal(t, wantLeave[i], dc.LeaveCount, "leave on %s", FormatDate(dc.Date))
		assert.Equal(t, wantOD[i], dc.ODCount, "od on %s", FormatDate(dc.Date))
	}
}

func TestComputeDailySeries_SumMatchesStudentDays(t *testing.T) {
	iv := NewInterval(date("2025-04-01"), date("2025-04-30"))
	students := []string{"A", "B", "C"}
	leaves := []Span{
		{StudentID: "A", Start: date("2025-03-28"), End: date("2025-04-03")},
		{StudentID: "A", Start: date("2025-04-02"), End: date("2025-04-05")},
		{StudentID: "B", Start: date("2025-04-10"), End: date("2025-04-10")},
		{StudentID: "C", Start: date("2025-04-29"), End: date("2025-05-04")},
	}

	series := ComputeDailySeries(iv, students, leaves, nil)

	total := 0
	for _, dc := range series {
		total += dc.LeaveCount
	}

	// brute force: distinct (day, student) pairs
	pairs := make(map[string]struct{})
	iv.Each(func(d time.Time) {
		for _, sp := range leaves {
			if !Day(d).Before(Day(sp.Start)) && !Day(d).After(Day(sp.End)) {
				pairs[FormatDate(d)+"|"+sp.StudentID] = struct{}{}
			}
		}
	})
	assert.Equal(t, len(pairs), total)
	assert.Equal(t, 5+1+2, total)
}

func TestCountByStudent(t *testing.T) {
	counts := CountByStudent([]Span{{StudentID: "A"}, {StudentID: "A"}, {StudentID: "B"}})
	assert.Equal(t, 2, counts["A"])
	assert.Equal(t, 1, counts["B"])
	assert.Zero(t, counts["C"])
}

func TestInterval_DaysBeyondDurationRange(t *testing.T) {
	// 300 years: longer than time.Duration can hold
	iv := NewInterval(date("1900-01-01"), date("2199-12-31"))
	assert.Equal(t, 109573, iv.Days())

	leaves := []Span{{StudentID: "A", Start: date("2199-12-30"), End: date("2200-01-05")}}
	series := ComputeDailySeries(iv, []string{"A"}, leaves, nil)
	require.Len(t, series, 109573)
	last := series[len(series)-1]
	assert.Equal(t, date("2199-12-31"), last.Date)
	assert.Equal(t, 1, last.LeaveCount)
	assert.Equal(t, 1, series[len(series)-2].LeaveCount)
	assert.Zero(t, series[len(series)-3].LeaveCount)
}

func TestInterval_ValidateAggregation(t *testing.T) {
	assert.NoError(t, NewInterval(date("2022-07-01"), date("2026-06-30")).ValidateAggregation())
	assert.Error(t, NewInterval(date("2022-07-01"), date("2026-07-05")).ValidateAggregation())
	assert.Error(t, NewInterval(date("2025-02-02"), date("2025-02-01")).ValidateAggregation())
}
