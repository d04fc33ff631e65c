package predictors

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// Counter predicts " n", where n is the number of requests made since the
// last one that resolved. It makes debounce and cancellation visible: fast
// typing that keeps superseding requests drives n up.
type Counter struct {
	Delay time.Duration

	mu sync.Mutex
	n  int
}

func NewCounter(delay time.Duration) *Counter {
	return &Counter{Delay: delay}
}

func (c *Counter) Predict(ctx context.Context, _ string) (string, error) {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return "", err
	}
	t := time.NewTimer(c.Delay)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-t.C:
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	out := " " + strconv.Itoa(c.n)
	c.n = 0
	return out, nil
}
