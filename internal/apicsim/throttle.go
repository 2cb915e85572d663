package apicsim

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// idleAfter is how long a client's failure bucket survives without failures.
const idleAfter = time.Hour

// loginThrottle locks a client address out of aaaLogin after too many failed
// attempts. Each address gets a token bucket holding perMinute failures that
// refills at perMinute per minute.
type loginThrottle struct {
	perMinute int
	now       func() time.Time

	mu      sync.Mutex
	clients map[string]*failureBucket
}

type failureBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// newLoginThrottle returns nil when perMinute is not positive, which disables
// throttling.
func newLoginThrottle(perMinute int) *loginThrottle {
	if perMinute <= 0 {
		return nil
	}
	return &loginThrottle{
		perMinute: perMinute,
		now:       time.Now,
		clients:   make(map[string]*failureBucket),
	}
}

// Blocked reports whether addr has used up its failures, and if so how long
// until the next attempt is accepted.
func (t *loginThrottle) Blocked(addr string) (bool, time.Duration) {
	if t == nil {
		return false, 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.clients[addr]
	if !ok {
		return false, 0
	}
	tokens := b.limiter.TokensAt(t.now())
	if tokens >= 1 {
		return false, 0
	}
	wait := time.Duration((1 - tokens) / float64(b.limiter.Limit()) * float64(time.Second))
	return true, wait
}

// Fail records a failed attempt from addr.
func (t *loginThrottle) Fail(addr string) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.prune(now)
	b, ok := t.clients[addr]
	if !ok {
		b = &failureBucket{limiter: rate.NewLimiter(rate.Limit(float64(t.perMinute)/60), t.perMinute)}
		t.clients[addr] = b
	}
	b.lastSeen = now
	b.limiter.AllowN(now, 1)
}

// Len returns the number of tracked addresses.
func (t *loginThrottle) Len() int {
	if t == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.clients)
}

func (t *loginThrottle) prune(now time.Time) {
	for addr, b := range t.clients {
		if now.Sub(b.lastSeen) > idleAfter {
			delete(t.clients, addr)
		}
	}
}
