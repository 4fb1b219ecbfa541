package session

import (
	"context"
	"sync"

	"github.com/umerwe/school-frontend-sub001/internal/client/models"
	"github.com/umerwe/school-frontend-sub001/internal/logging"
)

const DefaultUnreachableThreshold = 3

// Detector counts consecutive server-down outcomes (no response, or 503)
// and ends the session once the count reaches the threshold. Any success
// resets the count to zero; every other outcome leaves it unchanged.
type Detector struct {
	threshold int
	term      SessionTerminator
	log       logging.Logger

	mu    sync.Mutex
	count int
}

// NewDetector returns a detector; a threshold below 1 selects the default.
func NewDetector(threshold int, term SessionTerminator, log logging.Logger) *Detector {
	if threshold < 1 {
		threshold = DefaultUnreachableThreshold
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Detector{threshold: threshold, term: term, log: log}
}

// Observe records out and reports whether it was the strike that ended the
// session.
func (d *Detector) Observe(ctx context.Context, out models.Outcome) bool {
	var fire bool

	d.mu.Lock()
	switch {
	case out.OK():
		d.count = 0
	case out.ServerDown():
		d.count++
		d.log.Warn(ctx, "server unreachable", "strike", d.count, "threshold", d.threshold, "detail", out.Detail)
		if d.count >= d.threshold {
			d.count = 0
			fire = true
		}
	}
	d.mu.Unlock()

	if fire {
		d.log.Error(ctx, "server considered down, ending session")
		d.term.Terminate(ctx, ReasonServerDown)
	}
	return fire
}

// Count returns the current number of consecutive strikes.
func (d *Detector) Count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.count
}

func (d *Detector) Reset() {
	d.mu.Lock()
	d.count = 0
	d.mu.Unlock()
}
