package domain

// WordTag is one of the five fixed difficulty classification tiers.
// Lower Priority means more urgent; the classifier evaluates rules in
// priority order and the first match wins.
type WordTag struct {
	ID       string
	Label    string
	Color    string
	Priority int
}

var (
	TagProblematic   = WordTag{ID: "problematic", Label: "Problematic", Color: "#e53935", Priority: 1}
	TagStruggling    = WordTag{ID: "struggling", Label: "Struggling", Color: "#fb8c00", Priority: 2}
	TagNeedsPractice = WordTag{ID: "needs_practice", Label: "Needs practice", Color: "#fdd835", Priority: 3}
	TagImproving     = WordTag{ID: "improving", Label: "Improving", Color: "#43a047", Priority: 4}
	TagMastered      = WordTag{ID: "mastered", Label: "Mastered", Color: "#1e88e5", Priority: 5}
)

// AllTags lists the five tiers in priority order.
func AllTags() []WordTag {
	return []WordTag{TagProblematic, TagStruggling, TagNeedsPractice, TagImproving, TagMastered}
}
