package domain

import (
	"fmt"
	"sort"
)

// OriginKind identifies where a document unit came from.
type OriginKind string

const (
	// OriginWeb marks units produced by the website scraper.
	OriginWeb OriginKind = "web"

	// OriginPDF marks units produced by the PDF extractor.
	OriginPDF OriginKind = "pdf"
)

// IsValid returns true if the origin kind is recognised.
func (o OriginKind) IsValid() bool {
	return o == OriginWeb || o == OriginPDF
}

// String returns the string representation.
func (o OriginKind) String() string {
	return string(o)
}

// DocumentUnit is a chunk of extracted text with its provenance.
// Units are immutable once produced by an extractor.
type DocumentUnit struct {
	// Source is the original location (URL or file path).
	Source string

	// Origin identifies the extractor that produced this unit.
	Origin OriginKind

	// Heading is the section heading the text was found under, if any.
	Heading string

	// Text is the cleaned text content.
	Text string

	// Position is the stable ordinal index within the corpus.
	// It provides deterministic tie-breaking during scoring.
	Position int
}

// IsEmpty returns true if the unit carries no text.
func (u DocumentUnit) IsEmpty() bool {
	return u.Text == ""
}

// Size returns the content size in characters, used for budget accounting.
func (u DocumentUnit) Size() int {
	return len(u.Text)
}

// Corpus is the ordered sequence of document units for one institution.
// It is built once per analysis run and read-only thereafter, so concurrent
// category tasks may share it without locking.
type Corpus struct {
	// School is the institution the corpus was extracted for.
	School string

	// Units holds the extracted units in position order.
	Units []DocumentUnit
}

// NewCorpus builds a corpus from units, normalising positions so ordering
// is deterministic regardless of the order extractors delivered them.
func NewCorpus(school string, units []DocumentUnit) *Corpus {
	sorted := make([]DocumentUnit, len(units))
	copy(sorted, units)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position < sorted[j].Position
	})
	for i := range sorted {
		sorted[i].Position = i
	}
	return &Corpus{School: school, Units: sorted}
}

// Len returns the number of units.
func (c *Corpus) Len() int {
	return len(c.Units)
}

// IsEmpty returns true if the corpus has no units.
func (c *Corpus) IsEmpty() bool {
	return c == nil || len(c.Units) == 0
}

// ByOrigin returns the units produced by the given origin kind,
// preserving position order.
func (c *Corpus) ByOrigin(origin OriginKind) []DocumentUnit {
	var units []DocumentUnit
	for _, u := range c.Units {
		if u.Origin == origin {
			units = append(units, u)
		}
	}
	return units
}

// HasOrigin returns true if at least one unit came from the given origin.
func (c *Corpus) HasOrigin(origin OriginKind) bool {
	for _, u := range c.Units {
		if u.Origin == origin {
			return true
		}
	}
	return false
}

// Validate checks corpus integrity: a school name, valid origins, and
// contiguous positions starting at zero. NewCorpus always produces a
// valid corpus; this guards corpora deserialised from elsewhere.
func (c *Corpus) Validate() error {
	if c == nil || c.School == "" {
		return fmt.Errorf("%w: corpus school is required", ErrInvalidInput)
	}
	for i, u := range c.Units {
		if !u.Origin.IsValid() {
			return fmt.Errorf("%w: unit %d has unknown origin %q", ErrInvalidInput, i, u.Origin)
		}
		if u.Position != i {
			return fmt.Errorf("%w: unit %d has position %d", ErrInvalidInput, i, u.Position)
		}
	}
	return nil
}

// MissingOrigins lists origin kinds with no units in the corpus.
// The analyzer records these as extraction-gap caveats rather than failing.
func (c *Corpus) MissingOrigins() []OriginKind {
	var missing []OriginKind
	for _, origin := range []OriginKind{OriginWeb, OriginPDF} {
		if !c.HasOrigin(origin) {
			missing = append(missing, origin)
		}
	}
	return missing
}
