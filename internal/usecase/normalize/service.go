package normalize

import (
	"strings"

	"github.com/querylens/topicforge/internal/domain"
)

// Stats counts records dropped or merged during normalization, for
// diagnostics only.
type Stats struct {
	DroppedEmpty int
	Merged       int
}

// Service canonicalizes raw query text and removes duplicate variants.
type Service struct{}

// New creates a normalizer service.
func New() *Service {
	return &Service{}
}

// Run normalizes every record and deduplicates by normalized text. Exactly
// one record survives per distinct normalized form: on collision the record
// with strictly greater demand wins (absent demand compares as -1), ties go
// to the first-seen record. Records that normalize to the empty string are
// dropped and counted. Output preserves first-seen order of surviving keys.
func (s *Service) Run(records []domain.QueryRecord) ([]domain.QueryRecord, Stats) {
	var stats Stats

	byText := make(map[string]int, len(records))
	out := make([]domain.QueryRecord, 0, len(records))

	for _, rec := range records {
		rec.TextNormalized = NormalizeText(rec.TextOriginal)
		if rec.TextNormalized == "" {
			stats.DroppedEmpty++
			continue
		}
		if !rec.Source.IsValid() {
			rec.Source = domain.SourceGenerated
		}
		if rec.Intent == "" {
			rec.Intent = domain.IntentUnknown
		}

		idx, seen := byText[rec.TextNormalized]
		if !seen {
			byText[rec.TextNormalized] = len(out)
			out = append(out, rec)
			continue
		}

		stats.Merged++
		if rec.DemandKey() > out[idx].DemandKey() {
			out[idx] = rec
		}
	}

	return out, stats
}

// NormalizeText canonicalizes a raw query: lowercase, trim, strip trailing
// punctuation, collapse whitespace runs, and collapse consecutive repeats of
// the same word ("brand brand x" -> "brand x").
func NormalizeText(text string) string {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.TrimRight(text, "?.!")

	words := strings.Fields(text)
	out := words[:0]
	for _, w := range words {
		if len(out) > 0 && out[len(out)-1] == w {
			continue
		}
		out = append(out, w)
	}

	return strings.Join(out, " ")
}
