package stats

import (
	"sort"

	"temperature-dashboard/internal/models"
)

// ConditionHumidity is the mean humidity of all records sharing one exact
// condition string.
type ConditionHumidity struct {
	Condition          string  `json:"condition"`
	AvgHumidityPercent float64 `json:"avgHumidityPercent"`
	Records            int     `json:"records"`
}

// Summary holds the aggregate statistics for one ResultSet.
type Summary struct {
	Count                  int                      `json:"count"`
	MeanMaxTempC           float64                  `json:"meanMaxTempC"`
	MeanMinTempC           float64                  `json:"meanMinTempC"`
	Hottest                models.TemperatureRecord `json:"hottestCity"`
	Coldest                models.TemperatureRecord `json:"coldestCity"`
	Top5Hottest            models.ResultSet         `json:"top5Hottest"`
	Top5Coldest            models.ResultSet         `json:"top5Coldest"`
	AvgHumidityByCondition []ConditionHumidity      `json:"avgHumidityByCondition"`
}

// Summarize computes aggregate statistics over rs. All tie-breaks are
// stable: the record appearing first in rs wins. Returns ErrNoData when rs
// is empty.
func Summarize(rs models.ResultSet) (*Summary, error) {
	if len(rs) == 0 {
		return nil, models.ErrNoData
	}

	summary := &Summary{
		Count:   len(rs),
		Hottest: rs[0],
		Coldest: rs[0],
	}

	var sumMax, sumMin float64
	for _, record := range rs {
		sumMax += record.MaxTempC
		sumMin += record.MinTempC

		if record.MaxTempC > summary.Hottest.MaxTempC {
			summary.Hottest = record
		}
		if record.MinTempC < summary.Coldest.MinTempC {
			summary.Coldest = record
		}
	}

	n := float64(len(rs))
	summary.MeanMaxTempC = sumMax / n
	summary.MeanMinTempC = sumMin / n

	summary.Top5Hottest = topN(rs, 5, func(a, b models.TemperatureRecord) bool {
		return a.MaxTempC > b.MaxTempC
	})
	summary.Top5Coldest = topN(rs, 5, func(a, b models.TemperatureRecord) bool {
		return a.MinTempC < b.MinTempC
	})
	summary.AvgHumidityByCondition = humidityByCondition(rs)

	return summary, nil
}

// topN returns the first n records of rs under the given ordering,
// preserving original order among equals.
func topN(rs models.ResultSet, n int, less func(a, b models.TemperatureRecord) bool) models.ResultSet {
	sorted := make(models.ResultSet, len(rs))
	copy(sorted, rs)

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

func humidityByCondition(rs models.ResultSet) []ConditionHumidity {
	type group struct {
		sum   int
		count int
	}

	groups := make(map[string]*group)
	var order []string

	for _, record := range rs {
		g, ok := groups[record.Condition]
		if !ok {
			g = &group{}
			groups[record.Condition] = g
			order = append(order, record.Condition)
		}
		g.sum += record.HumidityPercent
		g.count++
	}

	result := make([]ConditionHumidity, 0, len(order))
	for _, condition := range order {
		g := groups[condition]
		result = append(result, ConditionHumidity{
			Condition:          condition,
			AvgHumidityPercent: float64(g.sum) / float64(g.count),
			Records:            g.count,
		})
	}

	// Descending by mean humidity; encounter order breaks ties.
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AvgHumidityPercent > result[j].AvgHumidityPercent
	})

	return result
}
