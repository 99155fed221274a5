package bulk

import (
	"time"

	"github.com/samber/lo"

	"github.com/tbckr/krwhois/internal/services/whois"
)

// Summary is the running aggregate of one bulk run. It is created fresh per
// run and only the orchestrator mutates it, between batches.
type Summary struct {
	RunID     string
	Total     int
	Succeeded int
	Failed    int
	Batches   int
	Outcomes  []whois.Outcome
	Started   time.Time
	Finished  time.Time
}

// Processed returns the number of outcomes collected so far. It is below
// Total only when the run was cancelled.
func (s *Summary) Processed() int { return len(s.Outcomes) }

// SuccessRate returns the share of successful lookups in percent, or 0 for
// an empty run.
func (s *Summary) SuccessRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Succeeded) / float64(s.Total) * 100
}

// Successes returns the successful outcomes in input order.
func (s *Summary) Successes() []whois.Outcome {
	return lo.Filter(s.Outcomes, func(o whois.Outcome, _ int) bool { return o.Succeeded() })
}

// Failures returns the failed outcomes in input order.
func (s *Summary) Failures() []whois.Outcome {
	return lo.Filter(s.Outcomes, func(o whois.Outcome, _ int) bool { return o.Failed() })
}

// Duration returns the wall time of the run.
func (s *Summary) Duration() time.Duration {
	if s.Finished.IsZero() {
		return 0
	}
	return s.Finished.Sub(s.Started)
}

// add folds one completed batch into the summary.
func (s *Summary) add(outcomes []whois.Outcome) {
	for _, o := range outcomes {
		if o.Succeeded() {
			s.Succeeded++
		} else {
			s.Failed++
		}
	}
	s.Outcomes = append(s.Outcomes, outcomes...)
	s.Batches++
}
