// Package fallback fabricates plausible message records when no upstream
// provider can supply one. Every generated record is flagged synthetic.
package fallback

import (
	"math/rand"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/chainsafe/bridge-tracker/pkg/message"
)

const (
	// DefaultSourceChainID is the LayerZero v1 endpoint id of Ethereum mainnet.
	DefaultSourceChainID int64 = 101
	// DefaultDestChainID is the LayerZero v1 endpoint id of Polygon mainnet.
	DefaultDestChainID int64 = 109

	createdWindow = 10 * time.Minute
	updatedWindow = 5 * time.Minute
)

// RandSource is the randomness used for generated fields. *rand.Rand
// satisfies it.
type RandSource interface {
	Float64() float64
	Int63n(n int64) int64
	Read(p []byte) (int, error)
}

// Generator produces synthetic message records. It is safe for concurrent use.
type Generator struct {
	mu            sync.Mutex
	rnd           RandSource
	now           func() time.Time
	sourceChainID int64
	destChainID   int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithRand sets the random source.
func WithRand(rnd RandSource) Option {
	return func(g *Generator) { g.rnd = rnd }
}

// WithClock sets the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithChains sets the source and destination chain ids written into records.
func WithChains(sourceChainID, destChainID int64) Option {
	return func(g *Generator) {
		g.sourceChainID = sourceChainID
		g.destChainID = destChainID
	}
}

// NewGenerator creates a Generator. Without WithRand it seeds its own source.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		now:           time.Now,
		sourceChainID: DefaultSourceChainID,
		destChainID:   DefaultDestChainID,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rnd == nil {
		g.rnd = rand.New(rand.NewSource(time.Now().UnixNano())) //nolint:gosec // not security sensitive
	}
	return g
}

// Generate returns a synthetic record for id. The id doubles as the source
// transaction hash; the status is DELIVERED or INFLIGHT with equal odds.
func (g *Generator) Generate(id string) *message.Record {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	rec := &message.Record{
		ID:            id,
		SourceChainID: g.sourceChainID,
		DestChainID:   g.destChainID,
		SourceTxHash:  id,
		Status:        message.StatusInFlight,
		SourceAddress: g.randomAddress(),
		DestAddress:   g.randomAddress(),
		CreatedAt:     now.Add(-g.randomDuration(createdWindow)),
		UpdatedAt:     now.Add(-g.randomDuration(updatedWindow)),
		IsSynthetic:   true,
	}
	if rec.UpdatedAt.Before(rec.CreatedAt) {
		rec.UpdatedAt = rec.CreatedAt
	}

	if g.rnd.Float64() > 0.5 {
		rec.Status = message.StatusDelivered
		rec.DestTxHash = g.randomHash()
	}
	return rec
}

func (g *Generator) randomDuration(window time.Duration) time.Duration {
	return time.Duration(g.rnd.Int63n(window.Milliseconds())) * time.Millisecond
}

func (g *Generator) randomHash() string {
	return hexutil.Encode(g.randomBytes(common.HashLength))
}

func (g *Generator) randomAddress() string {
	return hexutil.Encode(g.randomBytes(common.AddressLength))
}

func (g *Generator) randomBytes(n int) []byte {
	b := make([]byte, n)
	_, _ = g.rnd.Read(b)
	return b
}
