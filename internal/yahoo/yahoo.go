// Package yahoo fetches daily closing prices from the Yahoo Finance chart
// API. It is the system's only external price feed.
package yahoo

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// FinanceClient wraps an HTTP client for querying the Yahoo Finance chart
// endpoints.
type FinanceClient struct {
	httpClient *http.Client
}

// NewFinanceClient creates a Yahoo Finance client with a 30 second request
// timeout.
func NewFinanceClient() *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// DailyCloses fetches closing prices for a ticker between startDate and
// endDate inclusive, one point per trading day in ascending date order.
// Days where Yahoo reports no close (holidays, halted sessions) are skipped.
func (c *FinanceClient) DailyCloses(ticker string, startDate, endDate time.Time) ([]DailyClose, error) {
	url := fmt.Sprintf(
		"https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		ticker,
		startDate.Unix(),
		endDate.Unix(),
	)
	return c.fetchCloses(ticker, url)
}

// RecentCloses fetches the last five trading days for a ticker. Used to pick
// up the latest close without computing an explicit range.
func (c *FinanceClient) RecentCloses(ticker string) ([]DailyClose, error) {
	url := fmt.Sprintf(
		"https://query1.finance.yahoo.com/v8/finance/chart/%s?interval=1d&range=5d",
		ticker,
	)
	return c.fetchCloses(ticker, url)
}

func (c *FinanceClient) fetchCloses(ticker, url string) ([]DailyClose, error) {
	response, err := c.query(url)
	if err != nil {
		return nil, err
	}
	if len(response.Chart.Result) == 0 {
		return nil, fmt.Errorf("no results returned for ticker %s", ticker)
	}

	result := response.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return nil, fmt.Errorf("no price data returned for ticker %s", ticker)
	}
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("no close prices returned for ticker %s", ticker)
	}

	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("mismatched data lengths for ticker %s", ticker)
	}

	points := make([]DailyClose, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if closes[i] == 0 {
			continue
		}
		points = append(points, DailyClose{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: closes[i],
		})
	}

	return points, nil
}

// query executes one request against the chart API. The browser User-Agent
// is required: Yahoo rejects default Go client requests.
func (c *FinanceClient) query(url string) (Response, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		return Response{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("yahoo error: %s", *response.Chart.Error)
	}

	return response, nil
}
