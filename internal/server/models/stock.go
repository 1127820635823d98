package models

import "fmt"

type Stock struct {
	ID     string
	Ticker string
	Name   string
}

func (s Stock) String() string {
	return fmt.Sprintf("%s - %s", s.Ticker, s.Name)
}

// CatalogEntry describes a ticker the dashboard supports.
type CatalogEntry struct {
	Ticker    string
	Name      string
	BasePrice float64
}

// Catalog is the fixed, ordered list of supported tickers.
var Catalog = []CatalogEntry{
	{Ticker: "GOOG", Name: "Alphabet Inc.", BasePrice: 1500},
	{Ticker: "TSLA", Name: "Tesla Inc.", BasePrice: 700},
	{Ticker: "AMZN", Name: "Amazon.com Inc.", BasePrice: 3200},
	{Ticker: "META", Name: "Meta Platforms Inc.", BasePrice: 300},
	{Ticker: "NVDA", Name: "NVIDIA Corporation", BasePrice: 800},
}

// SupportedTickers returns the catalog tickers in catalog order.
func SupportedTickers() []string {
	tickers := make([]string, len(Catalog))
	for i, e := range Catalog {
		tickers[i] = e.Ticker
	}
	return tickers
}
