package testutil

import (
	"time"

	"portfolioanalyser/internal/yahoo"
)

// MockPriceFeed is a canned implementation of the price feed for testing.
// It returns predefined closes instead of calling the Yahoo API.
type MockPriceFeed struct {
	// Closes is returned from both query methods.
	Closes []yahoo.DailyClose
	// Err is returned from both query methods when set.
	Err error
	// Calls records each ticker queried, in order.
	Calls []string
}

// NewMockPriceFeed creates a mock feed with n consecutive daily closes
// starting at start, priced 1.00, 1.01, 1.02, ...
func NewMockPriceFeed(start time.Time, n int) *MockPriceFeed {
	closes := make([]yahoo.DailyClose, n)
	for i := range closes {
		closes[i] = yahoo.DailyClose{
			Date:  start.AddDate(0, 0, i),
			Close: 1 + float64(i)/100,
		}
	}
	return &MockPriceFeed{Closes: closes}
}

// DailyCloses returns the canned closes that fall inside the requested range.
func (m *MockPriceFeed) DailyCloses(ticker string, startDate, endDate time.Time) ([]yahoo.DailyClose, error) {
	m.Calls = append(m.Calls, ticker)
	if m.Err != nil {
		return nil, m.Err
	}

	var inRange []yahoo.DailyClose
	for _, c := range m.Closes {
		if !c.Date.Before(startDate) && !c.Date.After(endDate) {
			inRange = append(inRange, c)
		}
	}
	return inRange, nil
}

// RecentCloses returns the last five canned closes.
func (m *MockPriceFeed) RecentCloses(ticker string) ([]yahoo.DailyClose, error) {
	m.Calls = append(m.Calls, ticker)
	if m.Err != nil {
		return nil, m.Err
	}

	if len(m.Closes) <= 5 {
		return m.Closes, nil
	}
	return m.Closes[len(m.Closes)-5:], nil
}
