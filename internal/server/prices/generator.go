// Package prices simulates stock prices around a fixed per-ticker base.
package prices

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dmitrijs2005/stockwatch/internal/server/models"
	"github.com/shopspring/decimal"
)

const (
	// DefaultBasePrice applies to tickers outside the catalog.
	DefaultBasePrice = 100.0
	// Spread is the maximum distance of a generated price from its base.
	Spread = 50.0
)

var basePrices = func() map[string]float64 {
	m := make(map[string]float64, len(models.Catalog))
	for _, e := range models.Catalog {
		m[e.Ticker] = e.BasePrice
	}
	return m
}()

// BasePrice returns the anchor price for ticker.
func BasePrice(ticker string) float64 {
	if p, ok := basePrices[ticker]; ok {
		return p
	}
	return DefaultBasePrice
}

// Generator produces prices uniformly distributed in [base-Spread, base+Spread],
// rounded to cents. It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewGenerator builds a Generator over src. A nil src seeds a PCG from the
// clock.
func NewGenerator(src rand.Source) *Generator {
	if src == nil {
		now := uint64(time.Now().UnixNano())
		src = rand.NewPCG(now, now>>17|1)
	}
	return &Generator{rnd: rand.New(src)}
}

func (g *Generator) Generate(ticker string) decimal.Decimal {
	g.mu.Lock()
	f := g.rnd.Float64()
	g.mu.Unlock()

	offset := f*2*Spread - Spread
	return decimal.NewFromFloat(BasePrice(ticker) + offset).Round(2)
}

// Snapshot generates one price per ticker.
func (g *Generator) Snapshot(tickers []string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(tickers))
	for _, t := range tickers {
		out[t] = g.Generate(t)
	}
	return out
}
