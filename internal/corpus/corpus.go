// Package corpus persists extracted document units between commands.
// Extraction (scrape, pdf) and analysis (analyze) are separate CLI
// invocations, so the corpus travels through a JSON file on disk.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/admitscan-cli/internal/core/domain"
)

// fileVersion guards against loading corpus files written by an
// incompatible release.
const fileVersion = 1

// corpusFile is the on-disk JSON shape.
type corpusFile struct {
	Version int        `json:"version"`
	School  string     `json:"school"`
	Units   []unitJSON `json:"units"`
}

// unitJSON is the on-disk shape of one document unit.
type unitJSON struct {
	Source   string `json:"source"`
	Origin   string `json:"origin"`
	Heading  string `json:"heading,omitempty"`
	Text     string `json:"text"`
	Position int    `json:"position"`
}

// Save writes the corpus to path, creating parent directories as needed.
// An existing corpus file for the same school is merged rather than
// replaced, so web and PDF extractions accumulate. Units from the
// origins being saved are replaced wholesale, so re-running an
// extraction refreshes its share of the corpus without duplicating it.
func Save(path string, c *domain.Corpus) error {
	existing, err := Load(path)
	if err == nil && existing.School == c.School {
		incoming := make(map[domain.OriginKind]struct{})
		for _, u := range c.Units {
			incoming[u.Origin] = struct{}{}
		}
		var merged []domain.DocumentUnit
		for _, u := range existing.Units {
			if _, replaced := incoming[u.Origin]; !replaced {
				merged = append(merged, u)
			}
		}
		merged = append(merged, c.Units...)
		c = domain.NewCorpus(c.School, merged)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create corpus directory: %w", err)
	}

	out := corpusFile{
		Version: fileVersion,
		School:  c.School,
		Units:   make([]unitJSON, 0, c.Len()),
	}
	for _, u := range c.Units {
		out.Units = append(out.Units, unitJSON{
			Source:   u.Source,
			Origin:   string(u.Origin),
			Heading:  u.Heading,
			Text:     u.Text,
			Position: u.Position,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal corpus: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// Load reads a corpus from path.
func Load(path string) (*domain.Corpus, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	var parsed corpusFile
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: parse corpus file: %v", domain.ErrInvalidInput, err)
	}
	if parsed.Version != fileVersion {
		return nil, fmt.Errorf("%w: unsupported corpus file version %d", domain.ErrInvalidInput, parsed.Version)
	}

	units := make([]domain.DocumentUnit, 0, len(parsed.Units))
	for _, u := range parsed.Units {
		origin := domain.OriginKind(u.Origin)
		if !origin.IsValid() {
			return nil, fmt.Errorf("%w: unknown origin %q", domain.ErrInvalidInput, u.Origin)
		}
		units = append(units, domain.DocumentUnit{
			Source:   u.Source,
			Origin:   origin,
			Heading:  u.Heading,
			Text:     u.Text,
			Position: u.Position,
		})
	}
	c := domain.NewCorpus(parsed.School, units)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// DefaultPath returns the conventional corpus location for a school,
// a slug-named file under dir.
func DefaultPath(dir, school string) string {
	return filepath.Join(dir, slug(school)+".corpus.json")
}

// slug lowercases and hyphenates a school name for use in filenames.
func slug(s string) string {
	out := make([]rune, 0, len(s))
	lastHyphen := true
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
			lastHyphen = false
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
			lastHyphen = false
		default:
			if !lastHyphen {
				out = append(out, '-')
				lastHyphen = true
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return "corpus"
	}
	return string(out)
}
