package httpapi

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"bulletin-engine/internal/reconcile"
)

// PendingReview is a mailbox-sourced preview waiting for the operator.
// Nothing in here has touched the store yet.
type PendingReview struct {
	ID      string            `json:"id"`
	Source  string            `json:"source"`
	At      time.Time         `json:"at"`
	Buckets reconcile.Buckets `json:"buckets"`
}

type PendingReviews struct {
	mu sync.Mutex
	m  map[string]PendingReview
}

func NewPendingReviews() *PendingReviews {
	return &PendingReviews{m: make(map[string]PendingReview)}
}

func (p *PendingReviews) Add(source string, b reconcile.Buckets) PendingReview {
	pr := PendingReview{
		ID:      uuid.NewString(),
		Source:  source,
		At:      time.Now().UTC(),
		Buckets: b,
	}
	p.mu.Lock()
	p.m[pr.ID] = pr
	p.mu.Unlock()
	return pr
}

func (p *PendingReviews) List() []PendingReview {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]PendingReview, 0, len(p.m))
	for _, pr := range p.m {
		out = append(out, pr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].At.Before(out[j].At) })
	return out
}

func (p *PendingReviews) Remove(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.m[id]; !ok {
		return false
	}
	delete(p.m, id)
	return true
}
