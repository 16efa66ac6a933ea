package gesture

import (
	"github.com/ayusman/mudra/internal/detector"
	"github.com/ayusman/mudra/internal/hand"
)

// Match returns the first spec in c that h satisfies, or None. A nil hand
// never matches.
func (c Catalog) Match(h *hand.Hand) Name {
	if h == nil {
		return None
	}
	for _, s := range c {
		if s.Matches(h) {
			return s.Name
		}
	}
	return None
}

// Matcher pairs a classifier with a catalog so callers can go from raw
// landmarks to a gesture name in one step.
type Matcher struct {
	classifier *hand.Classifier
	catalog    Catalog
}

// NewMatcher creates a Matcher.
func NewMatcher(classifier *hand.Classifier, catalog Catalog) *Matcher {
	return &Matcher{classifier: classifier, catalog: catalog}
}

// Catalog returns the matcher's catalog.
func (m *Matcher) Catalog() Catalog {
	return m.catalog
}

// Recognize classifies points and matches the result. The Hand is returned
// alongside the name so callers can keep it as the previous frame's
// snapshot.
func (m *Matcher) Recognize(points []detector.Point3D) (*hand.Hand, Name, error) {
	h, err := m.classifier.Classify(points)
	if err != nil {
		return nil, None, err
	}
	return h, m.catalog.Match(h), nil
}
