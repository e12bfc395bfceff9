package academic

import "time"

// Span the inclusive day range of one approved leave or OD request
type Span struct {
	StudentID string
	Start     time.Time
	End       time.Time
}

// DailyCount distinct students on leave and on OD for one day
type DailyCount struct {
	Date       time.Time
	LeaveCount int
	ODCount    int
}

// ComputeDailySeries one entry per day of iv, ascending. Counts are distinct
// students: overlapping requests of the same student on a day count once.
// Only students listed in studentIDs are counted. An empty interval yields an
// empty series; an empty population yields zero counts.
func ComputeDailySeries(iv Interval, studentIDs []string, leaves, ods []Span) []DailyCount {
	n := iv.Days()
	if n == 0 {
		return []DailyCount{}
	}

	population := make(map[string]struct{}, len(studentIDs))
	for _, id := range studentIDs {
		population[id] = struct{}{}
	}

	leaveSets := bucketByDay(iv, n, population, leaves)
	odSets := bucketByDay(iv, n, population, ods)

	series := make([]DailyCount, 0, n)
	i := 0
	iv.Each(func(day time.Time) {
		series = append(series, DailyCount{
			Date:       day,
			LeaveCount: len(leaveSets[i]),
			ODCount:    len(odSets[i]),
		})
		i++
	})
	return series
}

// bucketByDay clips each span to iv and records its student in the set of
// every covered day index
func bucketByDay(iv Interval, n int, population map[string]struct{}, spans []Span) []map[string]struct{} {
	sets := make([]map[string]struct{}, n)
	for _, sp := range spans {
		if _, ok := population[sp.StudentID]; !ok {
			continue
		}
		start, end := Day(sp.Start), Day(sp.End)
		if start.After(end) {
			continue
		}
		if start.Before(iv.Start) {
			start = iv.Start
		}
		if end.After(iv.End) {
			end = iv.End
		}
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			idx := daysBetween(iv.Start, d)
			if sets[idx] == nil {
				sets[idx] = make(map[string]struct{})
			}
			sets[idx][sp.StudentID] = struct{}{}
		}
	}
	return sets
}

// CountByStudent number of spans per student
func CountByStudent(spans []Span) map[string]int {
	counts := make(map[string]int)
	for _, sp := range spans {
		counts[sp.StudentID]++
	}
	return counts
}
