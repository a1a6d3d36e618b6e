package microlog

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"
)

// AutoPoster drains the pending queue in the background: at most one
// successful post per minimum gap, checked once per poll interval. The
// gate is time since the last *success*, so after a failed attempt the
// head is retried on the very next tick instead of waiting out the full
// gap. Only the head is ever attempted; a persistently failing entry
// blocks the ones behind it, which is acceptable at single-operator
// scale.
type AutoPoster struct {
	queue     *Queue
	ledger    *Ledger
	composer  *Composer
	publisher Publisher
	cache     *recordCache

	poll           time.Duration
	minGap         time.Duration
	publishTimeout time.Duration

	mu          sync.Mutex
	lastSuccess time.Time
}

// NewAutoPoster wires the scheduler. The last-success clock starts at
// construction time, so the first drain happens one full gap after
// startup.
func NewAutoPoster(q *Queue, l *Ledger, c *Composer, p Publisher, cache *recordCache, poll, minGap, publishTimeout time.Duration) *AutoPoster {
	return &AutoPoster{
		queue:          q,
		ledger:         l,
		composer:       c,
		publisher:      p,
		cache:          cache,
		poll:           poll,
		minGap:         minGap,
		publishTimeout: publishTimeout,
		lastSuccess:    time.Now(),
	}
}

// LastSuccess returns the time of the last successful auto- or manual
// post.
func (p *AutoPoster) LastSuccess() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSuccess
}

// ResetTimer marks now as the last successful post. The manual post-now
// path calls this so an interactive post delays the next queue drain.
func (p *AutoPoster) ResetTimer() {
	p.mu.Lock()
	p.lastSuccess = time.Now()
	p.mu.Unlock()
}

// Run polls until ctx is canceled. Errors inside a tick are logged and
// never stop the loop.
func (p *AutoPoster) Run(ctx context.Context) {
	ticker := time.NewTicker(p.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick runs one scheduler cycle: if the minimum gap has elapsed, take
// the queue head and try to post it.
func (p *AutoPoster) tick(ctx context.Context) {
	if time.Since(p.LastSuccess()) < p.minGap {
		return
	}

	lines, err := p.queue.Lines()
	if err != nil {
		log.Printf("auto-poster: %v", err)
		return
	}
	if len(lines) == 0 {
		return
	}

	head := strings.TrimSpace(lines[0])
	if head == "" {
		// A blank entry is not a post: drop it without touching the
		// timer so the next real entry goes out on the next tick.
		if err := p.queue.Remove(0); err != nil {
			log.Printf("auto-poster: drop blank entry: %v", err)
		}
		return
	}

	attemptCtx, cancel := context.WithTimeout(ctx, p.publishTimeout)
	defer cancel()

	rec := p.composer.Compose(attemptCtx, head)
	if err := p.publisher.Publish(attemptCtx, rec); err != nil {
		// Leave the head in place; it is retried next tick.
		log.Printf("auto-poster: publish %q: %v", head, err)
		return
	}

	if err := p.queue.Remove(0); err != nil {
		log.Printf("auto-poster: dequeue %q: %v", head, err)
		return
	}
	if err := p.ledger.Append(rec); err != nil {
		log.Printf("auto-poster: append %q: %v", head, err)
		return
	}
	if p.cache != nil {
		p.cache.Invalidate()
	}
	p.ResetTimer()
	log.Printf("auto-posted: %s", head)
}
