package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoData is returned when a summary or export is requested before any
// successful fetch has produced records.
var ErrNoData = errors.New("no temperature data available")

// TimestampLayout is the wall-clock format used for fetch timestamps in
// both export formats.
const TimestampLayout = "2006-01-02 15:04:05"

// Timestamp is a local-time fetch timestamp that serializes as
// "2006-01-02 15:04:05".
type Timestamp struct {
	time.Time
}

func Now() Timestamp {
	return Timestamp{time.Now()}
}

func (t Timestamp) String() string {
	return t.Format(TimestampLayout)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid timestamp %s", s)
	}
	parsed, err := time.ParseInLocation(TimestampLayout, s[1:len(s)-1], time.Local)
	if err != nil {
		return err
	}
	t.Time = parsed
	return nil
}

// TemperatureRecord is one city's normalized reading for a single fetch.
// Records are immutable once created; min/max and humidity/wind values are
// passed through from the source unchecked.
type TemperatureRecord struct {
	City            string    `json:"city"`
	MinTempC        float64   `json:"minTempC"`
	MaxTempC        float64   `json:"maxTempC"`
	Condition       string    `json:"condition"`
	HumidityPercent int       `json:"humidityPercent"`
	WindSpeedKmh    float64   `json:"windSpeedKmh"`
	FetchedAt       Timestamp `json:"fetchedAt"`
}

// ResultSet is the ordered collection of records from one pipeline run.
// Order follows the configured city list, successes only.
type ResultSet []TemperatureRecord

// FailureReason classifies why a city's fetch produced no record.
type FailureReason string

const (
	FailureNetwork FailureReason = "network"
	FailureParse   FailureReason = "parse"
)

// FetchError reports a per-city fetch failure. Failures are non-fatal to a
// pipeline run; the driver logs them and moves on.
type FetchError struct {
	City   string
	Reason FailureReason
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %s failure: %v", e.City, e.Reason, e.Err)
	}
	return fmt.Sprintf("fetch %s: %s failure", e.City, e.Reason)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
