package stats

import (
	"fmt"
	"strings"
)

const lineWidth = 60

// Render formats a summary as the plain-text report shown by the CLI.
func Render(s *Summary) string {
	var b strings.Builder

	heavy := strings.Repeat("=", lineWidth)
	light := strings.Repeat("-", lineWidth)

	fmt.Fprintf(&b, "%s\nTEMPERATURE SUMMARY\n%s\n\n", heavy, heavy)

	fmt.Fprintf(&b, "Total cities: %d\n", s.Count)
	fmt.Fprintf(&b, "Average Max Temperature: %.1f°C\n", s.MeanMaxTempC)
	fmt.Fprintf(&b, "Average Min Temperature: %.1f°C\n\n", s.MeanMinTempC)

	fmt.Fprintf(&b, "%-20s %s (%.1f°C)\n", "Hottest City:", s.Hottest.City, s.Hottest.MaxTempC)
	fmt.Fprintf(&b, "%-20s %s (%.1f°C)\n", "Coldest City:", s.Coldest.City, s.Coldest.MinTempC)
	fmt.Fprintf(&b, "%-20s %.1f°C to %.1f°C\n", "Temperature Range:", s.Coldest.MinTempC, s.Hottest.MaxTempC)

	fmt.Fprintf(&b, "\n%s\nTop 5 Hottest Cities:\n%s\n", light, light)
	for i, record := range s.Top5Hottest {
		fmt.Fprintf(&b, "%d. %-20s Max: %6.1f°C | Min: %6.1f°C | %s\n",
			i+1, record.City, record.MaxTempC, record.MinTempC, record.Condition)
	}

	fmt.Fprintf(&b, "\n%s\nTop 5 Coldest Cities:\n%s\n", light, light)
	for i, record := range s.Top5Coldest {
		fmt.Fprintf(&b, "%d. %-20s Min: %6.1f°C | Max: %6.1f°C | %s\n",
			i+1, record.City, record.MinTempC, record.MaxTempC, record.Condition)
	}

	fmt.Fprintf(&b, "\n%s\nAverage Humidity by Condition:\n%s\n", light, light)
	for _, group := range s.AvgHumidityByCondition {
		fmt.Fprintf(&b, "%-30s %6.1f%%\n", group.Condition, group.AvgHumidityPercent)
	}

	fmt.Fprintf(&b, "%s\n", heavy)

	return b.String()
}
