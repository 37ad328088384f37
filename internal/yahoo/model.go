package yahoo

import "time"

// Response maps the raw JSON returned by the Yahoo Finance chart API.
// Only the fields the price loader consumes are declared; the API returns
// considerably more.
type Response struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency     string `json:"currency"`
				Symbol       string `json:"symbol"`
				ExchangeName string `json:"exchangeName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *string `json:"error"`
	} `json:"chart"`
}

// DailyClose is one trading day's closing price for a ticker, with the date
// truncated to midnight UTC.
type DailyClose struct {
	Date  time.Time
	Close float64
}
