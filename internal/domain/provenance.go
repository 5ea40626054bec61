package domain

// Provenance tags identify which process or data provider contributed a
// piece of data.
const (
	TagOriginGenerated   = "origin:generated"
	TagOriginDiscovered  = "origin:discovered"
	TagEstimatedFallback = "estimated:fallback"
)

// VolumeTag returns the provenance tag for a demand-data provider.
func VolumeTag(provider string) string {
	return "volume:" + provider
}

// ProvenanceTags returns the ordered, de-duplicated provenance tags for a
// record: discovery origin first, then the demand-data source if present.
func ProvenanceTags(q *QueryRecord) []string {
	tags := make([]string, 0, 2)

	switch q.Source {
	case SourceDiscovered:
		tags = append(tags, TagOriginDiscovered)
	default:
		tags = append(tags, TagOriginGenerated)
	}

	if q.HasDemand {
		switch q.DemandProvider {
		case "", "fallback":
			tags = appendUnique(tags, TagEstimatedFallback)
		default:
			tags = appendUnique(tags, VolumeTag(q.DemandProvider))
		}
	}

	return tags
}

func appendUnique(tags []string, tag string) []string {
	for _, t := range tags {
		if t == tag {
			return tags
		}
	}
	return append(tags, tag)
}
