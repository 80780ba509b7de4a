// Package mockreply provides a canned driven.Responder that simulates the
// chatbot backend with a fixed latency and randomly assembled answers.
package mockreply

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/chatdesk/internal/core/domain"
	"github.com/custodia-labs/chatdesk/internal/core/ports/driven"
)

// Ensure Responder implements the interface.
var _ driven.Responder = (*Responder)(nil)

// MaxSources is the largest number of sources attached to one answer.
const MaxSources = 4

// Responder returns canned answers after a fixed delay.
type Responder struct {
	delay time.Duration

	mu  sync.Mutex
	rng *rand.Rand
}

// New creates a responder. A zero seed seeds from the clock.
func New(delay time.Duration, seed int64) *Responder {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Responder{
		delay: delay,
		rng:   rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
	}
}

// Reply waits for the configured delay, then returns a random answer
// with 1 to MaxSources sources.
func (r *Responder) Reply(ctx context.Context, prompt string, _ []domain.Message) (*domain.Answer, error) {
	if r.delay > 0 {
		timer := time.NewTimer(r.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	} else if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	answer := &domain.Answer{
		Content: fmt.Sprintf(replies[r.rng.IntN(len(replies))], prompt),
	}

	n := 1 + r.rng.IntN(MaxSources)
	types := domain.AllSourceTypes()
	ranks := make(map[domain.SourceType]int, len(types))
	for i := 0; i < n; i++ {
		typ := types[r.rng.IntN(len(types))]
		ranks[typ]++
		answer.Sources = append(answer.Sources, r.source(typ, ranks[typ]))
	}

	return answer, nil
}

func (r *Responder) source(typ domain.SourceType, rank int) domain.Source {
	pool := samples[typ]
	sample := pool[r.rng.IntN(len(pool))]
	src := domain.Source{
		ID:      uuid.New().String(),
		Type:    typ,
		Rank:    rank,
		Title:   sample.title,
		Content: sample.content,
	}
	switch typ {
	case domain.SourceRetrieval:
		src.Score = 0.5 + r.rng.Float64()/2
	case domain.SourceAPI:
		src.URL = "https://api.example.com/" + sample.path
	case domain.SourcePIM:
		src.Attributes = map[string]string{"sku": sample.path}
	}
	return src
}

var replies = []string{
	"Here is what I found about %q.",
	"Based on our knowledge base, this should answer %q.",
	"I checked a few systems for %q; details are in the sources.",
	"Short answer to %q: see the top source below.",
}

type sample struct {
	title   string
	content string
	path    string
}

var samples = map[domain.SourceType][]sample{
	domain.SourceRetrieval: {
		{"Refunds and returns", "Refunds are issued to the original payment method within 5 business days.", ""},
		{"Shipping times", "Standard shipping takes 2-3 business days. Express orders arrive next day.", ""},
		{"Warranty", "All devices carry a two year limited warranty covering manufacturing defects.", ""},
	},
	domain.SourceAPI: {
		{"Order status", "Order 1042 shipped on Monday and is out for delivery.", "orders/1042"},
		{"Account lookup", "The customer account is active and has two open tickets.", "accounts/c-88"},
	},
	domain.SourceChat: {
		{"Earlier conversation", "The customer asked about refund timing last week.", ""},
		{"Escalated thread", "Support agreed to replace the damaged item.", ""},
	},
	domain.SourcePIM: {
		{"Travel adapter", "Universal adapter with two USB-C ports. Weight 120g.", "TA-200"},
		{"Parcel box M", "Medium shipping box, 30x20x15cm, recyclable cardboard.", "BOX-M"},
	},
}
