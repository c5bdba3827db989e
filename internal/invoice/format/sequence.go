package format

import "time"

// Sequencer derives invoice numbers from the issue time. The sequence is the
// millisecond of the day plus one, bumped past the last value handed out on
// the same day and past any number the caller reports as taken, so numbers
// stay unique even when the clock stalls or steps back. Callers serialize
// access.
type Sequencer struct {
	template string
	lastDay  string
	lastSeq  int64
}

func NewSequencer(template string) *Sequencer {
	if template == "" {
		template = DefaultInvoiceNumberTemplate
	}
	return &Sequencer{template: template}
}

// Next returns a fresh invoice number. taken may be nil.
func (s *Sequencer) Next(issuedAt time.Time, taken func(string) bool) (string, error) {
	day := issuedAt.Format("2006-01-02")
	midnight := time.Date(issuedAt.Year(), issuedAt.Month(), issuedAt.Day(), 0, 0, 0, 0, issuedAt.Location())
	seq := issuedAt.Sub(midnight).Milliseconds() + 1

	if day == s.lastDay && seq <= s.lastSeq {
		seq = s.lastSeq + 1
	}

	for {
		number, err := FormatInvoiceNumber(s.template, issuedAt, seq)
		if err != nil {
			return "", err
		}
		if taken == nil || !taken(number) {
			s.lastDay = day
			s.lastSeq = seq
			return number, nil
		}
		seq++
	}
}
