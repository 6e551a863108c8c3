// Package agg has the classification, filtering and counting logic applied to controller entities.
package agg

import (
	"math"
	"strings"
	"time"

	"github.com/hycu-tools/check-hycu/schema"
)

// FilterPeriod keeps the entities whose timestamp falls in [now - period, now].
// Source order is preserved and entities without a timestamp are dropped.
func FilterPeriod(entities []schema.Entity, period schema.PeriodSpec, now time.Time) []schema.Entity {
	start := now.Add(-time.Duration(period.Hours) * time.Hour)
	kept := make([]schema.Entity, 0, len(entities))
	for _, e := range entities {
		if e.Timestamp.IsZero() {
			continue
		}
		if e.Timestamp.Before(start) || e.Timestamp.After(now) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}

// JobCounts is the status breakdown of a set of jobs.
type JobCounts struct {
	Total   int
	OK      int
	Warning int
	Error   int
	Running int
	Other   int
	Failed  []schema.Entity // WARNING and ERROR jobs, in source order
}

// FailedCount is the number of jobs that ended in WARNING or ERROR.
func (c JobCounts) FailedCount() int {
	return c.Warning + c.Error
}

// SuccessRate is ok/total as a percentage rounded to 2 decimals, 0 when nothing ran.
func (c JobCounts) SuccessRate() float64 {
	if c.Total == 0 {
		return 0
	}
	return math.Round(float64(c.OK)/float64(c.Total)*100*100) / 100
}

// CountJobs tallies jobs by normalized status.
func CountJobs(jobs []schema.Entity) JobCounts {
	var counts JobCounts
	for _, j := range jobs {
		counts.Total++
		switch j.Status {
		case schema.StatusOK:
			counts.OK++
		case schema.StatusWarning:
			counts.Warning++
			counts.Failed = append(counts.Failed, j)
		case schema.StatusError:
			counts.Error++
			counts.Failed = append(counts.Failed, j)
		case schema.StatusRunning:
			counts.Running++
		default:
			counts.Other++
		}
	}
	return counts
}

// validationMarkers identify backup validation jobs by their type.
var validationMarkers = []string{"VALIDATION", "RESTORE_VALIDATE"}

// FilterValidationJobs keeps the jobs whose type marks them as a backup validation.
func FilterValidationJobs(jobs []schema.Entity) []schema.Entity {
	kept := make([]schema.Entity, 0, len(jobs))
	for _, j := range jobs {
		t := strings.ToUpper(j.Type)
		for _, marker := range validationMarkers {
			if strings.Contains(t, marker) {
				kept = append(kept, j)
				break
			}
		}
	}
	return kept
}
