package domain

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusSuccess   Status = "success"
	StatusDuplicate Status = "duplicate"
	StatusSkipped   Status = "skipped"
	StatusError     Status = "error"
)

// Outcome classifies one record after one ingestion attempt.
type Outcome struct {
	Status  Status `json:"status"`
	Record  Record `json:"record"`
	Message string `json:"message,omitempty"`
}

// Summary holds the outcomes of one ingestion run in input order.
// Every other view of the run is derived from it.
type Summary struct {
	RunID       uuid.UUID
	ContentType ContentType
	Outcomes    []Outcome
	StartedAt   time.Time
	Duration    time.Duration
}

func (s *Summary) filter(status Status) []Outcome {
	var out []Outcome
	for _, o := range s.Outcomes {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}

func (s *Summary) Saved() []Outcome      { return s.filter(StatusSuccess) }
func (s *Summary) Duplicates() []Outcome { return s.filter(StatusDuplicate) }
func (s *Summary) Skipped() []Outcome    { return s.filter(StatusSkipped) }
func (s *Summary) Errors() []Outcome     { return s.filter(StatusError) }

// Counts tallies outcomes by status.
func (s *Summary) Counts() map[Status]int {
	counts := map[Status]int{
		StatusSuccess:   0,
		StatusDuplicate: 0,
		StatusSkipped:   0,
		StatusError:     0,
	}
	for _, o := range s.Outcomes {
		counts[o.Status]++
	}
	return counts
}

// RecordError pairs a failed record with the store's message.
type RecordError struct {
	Record  Record `json:"record"`
	Message string `json:"message"`
}

// Report is the caller-facing aggregate view of a Summary.
type Report struct {
	Message        string        `json:"message"`
	RunID          string        `json:"run_id"`
	TotalProcessed int           `json:"total_processed"`
	Saved          int           `json:"saved"`
	Duplicates     int           `json:"duplicates"`
	Skipped        int           `json:"skipped"`
	Errors         []RecordError `json:"errors"`
}

func (s *Summary) Report(message string) *Report {
	counts := s.Counts()
	errs := make([]RecordError, 0, counts[StatusError])
	for _, o := range s.Errors() {
		errs = append(errs, RecordError{Record: o.Record, Message: o.Message})
	}
	return &Report{
		Message:        message,
		RunID:          s.RunID.String(),
		TotalProcessed: len(s.Outcomes),
		Saved:          counts[StatusSuccess],
		Duplicates:     counts[StatusDuplicate],
		Skipped:        counts[StatusSkipped],
		Errors:         errs,
	}
}
