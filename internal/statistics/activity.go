package statistics

import (
	"fmt"
	"sort"

	"github.com/at-ishikawa/recallr/internal/memory"
)

// ReviewActivity holds review counts for a month, e.g. "2025-03".
type ReviewActivity struct {
	Period      string
	Reviews     int
	Successes   int
	Failures    int
	UniqueItems int
}

// ActivityResult holds per-period activity, newest first, and the totals.
type ActivityResult struct {
	Periods   []ReviewActivity
	Aggregate ReviewActivity
}

type periodData struct {
	reviews   int
	successes int
	items     map[int64]struct{}
}

// CalculateReviewActivity counts attempted reviews per month. Year and month
// filter the periods; 0 means no filter.
func CalculateReviewActivity(items []memory.Item, year, month int) ActivityResult {
	stats := make(map[string]*periodData)
	globalItems := make(map[int64]struct{})

	for _, item := range items {
		for _, ri := range item.Intervals {
			if !ri.Attempted() {
				continue
			}
			at := *ri.ActualTime
			if !matchesFilter(at.Year(), int(at.Month()), year, month) {
				continue
			}

			period := fmt.Sprintf("%d-%02d", at.Year(), int(at.Month()))
			data, ok := stats[period]
			if !ok {
				data = &periodData{items: make(map[int64]struct{})}
				stats[period] = data
			}
			data.reviews++
			if ri.Success {
				data.successes++
			}
			data.items[item.ID] = struct{}{}
			globalItems[item.ID] = struct{}{}
		}
	}

	periods := make([]ReviewActivity, 0, len(stats))
	aggregate := ReviewActivity{UniqueItems: len(globalItems)}
	for period, data := range stats {
		periods = append(periods, ReviewActivity{
			Period:      period,
			Reviews:     data.reviews,
			Successes:   data.successes,
			Failures:    data.reviews - data.successes,
			UniqueItems: len(data.items),
		})
		aggregate.Reviews += data.reviews
		aggregate.Successes += data.successes
	}
	aggregate.Failures = aggregate.Reviews - aggregate.Successes

	sort.Slice(periods, func(i, j int) bool {
		return periods[i].Period > periods[j].Period
	})
	return ActivityResult{Periods: periods, Aggregate: aggregate}
}

func matchesFilter(logYear, logMonth, filterYear, filterMonth int) bool {
	if filterYear == 0 {
		return true
	}
	if logYear != filterYear {
		return false
	}
	if filterMonth == 0 {
		return true
	}
	return logMonth == filterMonth
}
