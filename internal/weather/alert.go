package weather

import "sync"

// Decision is the outcome of feeding one reading to the AlertTracker.
type Decision int

const (
	NoAlert Decision = iota
	Alert
)

// AlertTracker counts consecutive threshold breaches per location. A reading
// at or below the threshold resets the streak; once the streak reaches the
// required length an Alert is emitted and the streak starts over, so a fresh
// run of breaches is needed to alert again.
//
// Counters live only in memory; a process restart clears breach history.
type AlertTracker struct {
	mu        sync.Mutex
	threshold float64
	required  int
	counts    map[string]int
}

// NewAlertTracker creates a tracker with the given temperature threshold and
// required consecutive-breach count. A required value below 1 is pinned to 1.
func NewAlertTracker(threshold float64, required int) *AlertTracker {
	if required < 1 {
		required = 1
	}
	return &AlertTracker{
		threshold: threshold,
		required:  required,
		counts:    make(map[string]int),
	}
}

// Observe feeds one temperature reading for a location through the state
// machine and reports whether an alert fires. Safe for concurrent use; calls
// for the same location must arrive in reading order.
func (t *AlertTracker) Observe(location string, temperature float64) Decision {
	t.mu.Lock()
	defer t.mu.Unlock()

	if temperature <= t.threshold {
		t.counts[location] = 0
		return NoAlert
	}

	t.counts[location]++
	if t.counts[location] >= t.required {
		t.counts[location] = 0
		return Alert
	}
	return NoAlert
}

// Threshold returns the configured breach temperature.
func (t *AlertTracker) Threshold() float64 { return t.threshold }

// Required returns the configured consecutive-breach count.
func (t *AlertTracker) Required() int { return t.required }
