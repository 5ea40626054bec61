package topics

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/querylens/topicforge/internal/domain"
	"github.com/querylens/topicforge/internal/metrics"
	"github.com/querylens/topicforge/internal/usecase/cluster"
)

const (
	// maxLabelRunes rejects implausibly long collaborator labels.
	maxLabelRunes = 60
	// maxLabelInputs bounds how many query texts feed the labeler.
	maxLabelInputs = 10
	// maxExtractiveTokens is the label length of the extractive fallback.
	maxExtractiveTokens = 4
)

// labelTopic picks the topic name. Keyword-mode clusters already carry
// their bucket name; vector-mode clusters prefer the external labeler and
// fall back to an extractive label when it is missing, failing, or returns
// something implausible.
func (s *Service) labelTopic(ctx context.Context, cl *cluster.Cluster, top []domain.ScoredQuery) string {
	if cl.Label != "" {
		metrics.TopicLabelsTotal.WithLabelValues("bucket").Inc()
		return cl.Label
	}

	if s.labeler != nil {
		texts := make([]string, 0, maxLabelInputs)
		for i := range top {
			if i == maxLabelInputs {
				break
			}
			texts = append(texts, top[i].TextNormalized)
		}

		label, err := s.labeler.Label(ctx, texts)
		if err != nil {
			s.logger.Warn("Topic labeling failed, using extractive fallback", zap.Error(err))
		} else if plausibleLabel(label) {
			metrics.TopicLabelsTotal.WithLabelValues("external").Inc()
			return strings.TrimSpace(label)
		}
	}

	metrics.TopicLabelsTotal.WithLabelValues("extractive").Inc()
	return ExtractiveLabel(cl.Seed().TextNormalized)
}

func plausibleLabel(label string) bool {
	trimmed := strings.TrimSpace(label)
	return trimmed != "" && utf8.RuneCountInString(trimmed) <= maxLabelRunes
}

// labelStopWords are stripped before extracting a label: articles,
// auxiliaries, wh-words, and pronouns carry no topical content.
var labelStopWords = map[string]struct{}{
	// articles
	"a": {}, "an": {}, "the": {},
	// auxiliaries
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"do": {}, "does": {}, "did": {}, "have": {}, "has": {}, "had": {},
	"can": {}, "could": {}, "will": {}, "would": {}, "shall": {}, "should": {},
	"may": {}, "might": {}, "must": {},
	// wh-words
	"what": {}, "when": {}, "where": {}, "who": {}, "whom": {}, "whose": {},
	"which": {}, "why": {}, "how": {},
	// pronouns
	"i": {}, "you": {}, "he": {}, "she": {}, "it": {}, "we": {}, "they": {},
	"me": {}, "him": {}, "her": {}, "us": {}, "them": {},
	"my": {}, "your": {}, "his": {}, "its": {}, "our": {}, "their": {},
}

// ExtractiveLabel derives a deterministic topic name from the highest-ranked
// query: strip stop words, keep the first few remaining tokens, title-case
// the first letter. When every token is a stop word the raw tokens are used
// instead, so the label is never empty for non-empty input.
func ExtractiveLabel(text string) string {
	tokens := strings.Fields(text)

	kept := make([]string, 0, maxExtractiveTokens)
	for _, tok := range tokens {
		if _, stop := labelStopWords[tok]; stop {
			continue
		}
		kept = append(kept, tok)
		if len(kept) == maxExtractiveTokens {
			break
		}
	}
	if len(kept) == 0 {
		kept = tokens
		if len(kept) > maxExtractiveTokens {
			kept = kept[:maxExtractiveTokens]
		}
	}

	return titleFirst(strings.Join(kept, " "))
}

func titleFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
