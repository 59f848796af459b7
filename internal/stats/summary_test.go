package stats

import (
	"testing"

	"temperature-dashboard/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(city string, minT, maxT float64, condition string, humidity int) models.TemperatureRecord {
	return models.TemperatureRecord{
		City:            city,
		MinTempC:        minT,
		MaxTempC:        maxT,
		Condition:       condition,
		HumidityPercent: humidity,
	}
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := Summarize(nil)
	assert.ErrorIs(t, err, models.ErrNoData)

	_, err = Summarize(models.ResultSet{})
	assert.ErrorIs(t, err, models.ErrNoData)
}

func TestSummarizeTwoCities(t *testing.T) {
	rs := models.ResultSet{
		record("Mumbai", 26, 34, "Sunny", 60),
		record("Shimla", 8, 18, "Clear", 40),
	}

	summary, err := Summarize(rs)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Count)
	assert.Equal(t, "Mumbai", summary.Hottest.City)
	assert.Equal(t, "Shimla", summary.Coldest.City)
	assert.InDelta(t, 26.0, summary.MeanMaxTempC, 1e-9)
	assert.InDelta(t, 17.0, summary.MeanMinTempC, 1e-9)

	// Fewer than five records: lists are truncated, not padded.
	assert.Len(t, summary.Top5Hottest, 2)
	assert.Len(t, summary.Top5Coldest, 2)
	assert.Equal(t, "Mumbai", summary.Top5Hottest[0].City)
	assert.Equal(t, "Shimla", summary.Top5Coldest[0].City)
}

func TestSummarizeTopFiveOrdering(t *testing.T) {
	rs := models.ResultSet{
		record("A", 5, 30, "Sunny", 50),
		record("B", 3, 35, "Sunny", 50),
		record("C", 9, 28, "Sunny", 50),
		record("D", 1, 40, "Sunny", 50),
		record("E", 7, 32, "Sunny", 50),
		record("F", 2, 38, "Sunny", 50),
		record("G", 4, 25, "Sunny", 50),
	}

	summary, err := Summarize(rs)
	require.NoError(t, err)

	hottest := make([]string, 0, 5)
	for _, r := range summary.Top5Hottest {
		hottest = append(hottest, r.City)
	}
	assert.Equal(t, []string{"D", "F", "B", "E", "A"}, hottest)

	coldest := make([]string, 0, 5)
	for _, r := range summary.Top5Coldest {
		coldest = append(coldest, r.City)
	}
	assert.Equal(t, []string{"D", "F", "B", "G", "A"}, coldest)
}

func TestSummarizeTiesAreStable(t *testing.T) {
	rs := models.ResultSet{
		record("First", 10, 30, "Sunny", 50),
		record("Second", 10, 30, "Sunny", 50),
		record("Third", 10, 30, "Sunny", 50),
	}

	summary, err := Summarize(rs)
	require.NoError(t, err)

	// First occurrence wins on ties, and top lists keep original order.
	assert.Equal(t, "First", summary.Hottest.City)
	assert.Equal(t, "First", summary.Coldest.City)
	assert.Equal(t, "First", summary.Top5Hottest[0].City)
	assert.Equal(t, "Second", summary.Top5Hottest[1].City)
	assert.Equal(t, "Third", summary.Top5Hottest[2].City)
}

func TestSummarizeHumidityByCondition(t *testing.T) {
	rs := models.ResultSet{
		record("A", 1, 10, "Sunny", 40),
		record("B", 1, 10, "Haze", 80),
		record("C", 1, 10, "Sunny", 60),
		record("D", 1, 10, "Clear", 65),
	}

	summary, err := Summarize(rs)
	require.NoError(t, err)

	require.Len(t, summary.AvgHumidityByCondition, 3)

	assert.Equal(t, "Haze", summary.AvgHumidityByCondition[0].Condition)
	assert.InDelta(t, 80.0, summary.AvgHumidityByCondition[0].AvgHumidityPercent, 1e-9)

	assert.Equal(t, "Clear", summary.AvgHumidityByCondition[1].Condition)
	assert.InDelta(t, 65.0, summary.AvgHumidityByCondition[1].AvgHumidityPercent, 1e-9)

	assert.Equal(t, "Sunny", summary.AvgHumidityByCondition[2].Condition)
	assert.InDelta(t, 50.0, summary.AvgHumidityByCondition[2].AvgHumidityPercent, 1e-9)
	assert.Equal(t, 2, summary.AvgHumidityByCondition[2].Records)
}

func TestSummarizeIsIdempotent(t *testing.T) {
	rs := models.ResultSet{
		record("Mumbai", 26, 34, "Sunny", 60),
		record("Shimla", 8, 18, "Clear", 40),
		record("Jaipur", 20, 38, "Haze", 30),
	}

	first, err := Summarize(rs)
	require.NoError(t, err)
	second, err := Summarize(rs)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	// Summarize did not reorder the caller's ResultSet.
	assert.Equal(t, "Mumbai", rs[0].City)
	assert.Equal(t, "Shimla", rs[1].City)
	assert.Equal(t, "Jaipur", rs[2].City)
}

func TestRenderReport(t *testing.T) {
	rs := models.ResultSet{
		record("Mumbai", 26, 34, "Sunny", 60),
		record("Shimla", 8, 18, "Clear", 40),
	}

	summary, err := Summarize(rs)
	require.NoError(t, err)

	report := Render(summary)
	assert.Contains(t, report, "TEMPERATURE SUMMARY")
	assert.Contains(t, report, "Total cities: 2")
	assert.Contains(t, report, "Hottest City:")
	assert.Contains(t, report, "Mumbai (34.0°C)")
	assert.Contains(t, report, "Coldest City:")
	assert.Contains(t, report, "Shimla (8.0°C)")
	assert.Contains(t, report, "Top 5 Hottest Cities:")
	assert.Contains(t, report, "Average Humidity by Condition:")
}
