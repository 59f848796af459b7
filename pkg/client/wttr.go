package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"temperature-dashboard/internal/models"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// DefaultUserAgent identifies outbound requests to wttr.in.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WttrClient fetches current conditions for a single city from the wttr.in
// JSON API. Each Fetch is a single GET, no retries; a circuit breaker
// guards against hammering the service while it is down.
type WttrClient struct {
	client    HTTPClient
	baseURL   string
	userAgent string
	breaker   *gobreaker.CircuitBreaker
	logger    *zap.Logger
}

type ClientConfig struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// wttrResponse covers the slice of the wttr.in ?format=j1 schema we read.
// Numeric values arrive as strings.
type wttrResponse struct {
	CurrentCondition []struct {
		Humidity      string `json:"humidity"`
		WindspeedKmph string `json:"windspeedKmph"`
		WeatherDesc   []struct {
			Value string `json:"value"`
		} `json:"weatherDesc"`
	} `json:"current_condition"`
	Weather []struct {
		MintempC string `json:"mintempC"`
		MaxtempC string `json:"maxtempC"`
	} `json:"weather"`
}

func NewWttrClient(cfg ClientConfig, logger *zap.Logger) *WttrClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://wttr.in"
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	breakerSettings := gobreaker.Settings{
		Name:        "wttr",
		MaxRequests: 5,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				zap.String("client", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	}

	return &WttrClient{
		client:    &http.Client{Timeout: cfg.Timeout},
		baseURL:   cfg.BaseURL,
		userAgent: cfg.UserAgent,
		breaker:   gobreaker.NewCircuitBreaker(breakerSettings),
		logger:    logger,
	}
}

// Fetch retrieves one TemperatureRecord for city. Transport errors, non-2xx
// statuses and an open breaker come back as network FetchErrors; a body
// that cannot be decoded into the expected shape comes back as a parse
// FetchError.
func (c *WttrClient) Fetch(ctx context.Context, city string) (models.TemperatureRecord, error) {
	body, err := c.get(ctx, city)
	if err != nil {
		return models.TemperatureRecord{}, &models.FetchError{
			City:   city,
			Reason: models.FailureNetwork,
			Err:    err,
		}
	}

	record, err := parseRecord(city, body)
	if err != nil {
		return models.TemperatureRecord{}, &models.FetchError{
			City:   city,
			Reason: models.FailureParse,
			Err:    err,
		}
	}

	return record, nil
}

func (c *WttrClient) get(ctx context.Context, city string) ([]byte, error) {
	u := fmt.Sprintf("%s/%s?format=j1", c.baseURL, url.PathEscape(city))

	result, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("creating request failed: %w", err)
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		c.logger.Debug("Request successful",
			zap.String("city", city),
			zap.Int("status", resp.StatusCode),
			zap.Int("body_size", len(body)))

		return body, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}

func parseRecord(city string, body []byte) (models.TemperatureRecord, error) {
	var payload wttrResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.TemperatureRecord{}, fmt.Errorf("decoding response: %w", err)
	}

	if len(payload.CurrentCondition) == 0 {
		return models.TemperatureRecord{}, fmt.Errorf("missing current_condition element")
	}
	if len(payload.Weather) == 0 {
		return models.TemperatureRecord{}, fmt.Errorf("missing weather element")
	}

	current := payload.CurrentCondition[0]
	if len(current.WeatherDesc) == 0 {
		return models.TemperatureRecord{}, fmt.Errorf("missing weather description")
	}

	minTemp, err := strconv.ParseFloat(payload.Weather[0].MintempC, 64)
	if err != nil {
		return models.TemperatureRecord{}, fmt.Errorf("invalid mintempC %q", payload.Weather[0].MintempC)
	}
	maxTemp, err := strconv.ParseFloat(payload.Weather[0].MaxtempC, 64)
	if err != nil {
		return models.TemperatureRecord{}, fmt.Errorf("invalid maxtempC %q", payload.Weather[0].MaxtempC)
	}
	humidity, err := strconv.Atoi(current.Humidity)
	if err != nil {
		return models.TemperatureRecord{}, fmt.Errorf("invalid humidity %q", current.Humidity)
	}
	windSpeed, err := strconv.ParseFloat(current.WindspeedKmph, 64)
	if err != nil {
		return models.TemperatureRecord{}, fmt.Errorf("invalid windspeedKmph %q", current.WindspeedKmph)
	}

	return models.TemperatureRecord{
		City:            city,
		MinTempC:        minTemp,
		MaxTempC:        maxTemp,
		Condition:       current.WeatherDesc[0].Value,
		HumidityPercent: humidity,
		WindSpeedKmh:    windSpeed,
		FetchedAt:       models.Now(),
	}, nil
}
