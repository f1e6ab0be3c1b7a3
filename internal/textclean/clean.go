// Package textclean normalises extracted text before it enters the
// corpus. Cleaning is lossy on purpose: navigation boilerplate, URLs,
// cookie banners, and near-duplicate chunks add nothing to coverage
// evaluation and inflate the token bill.
package textclean

import (
	"html"
	"regexp"
	"strings"
	"unicode"
)

const (
	// MinChunkLen is the minimum length, in characters, for a cleaned
	// chunk to be kept. Shorter fragments are almost always nav labels
	// or orphaned headings.
	MinChunkLen = 20

	// MaxChunkLen is the length above which a chunk is split at
	// sentence boundaries.
	MaxChunkLen = 800

	// nearDupThreshold is the token-overlap ratio above which two
	// chunks are treated as duplicates of each other.
	nearDupThreshold = 0.8
)

var (
	urlPattern        = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailPattern      = regexp.MustCompile(`\S+@\S+\.\S+`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	boilerplatePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(skip to (main )?content|back to top|return to top)`),
		regexp.MustCompile(`(?i)^(home|menu|search|login|log in|sign in|sign up|subscribe)$`),
		regexp.MustCompile(`(?i)cookie(s)? (policy|preferences|settings|notice)`),
		regexp.MustCompile(`(?i)^(accept|decline) (all )?cookies`),
		regexp.MustCompile(`(?i)all rights reserved`),
		regexp.MustCompile(`(?i)^copyright( ©)?\s*\d{4}`),
		regexp.MustCompile(`(?i)^©\s*\d{4}`),
		regexp.MustCompile(`(?i)^(privacy policy|terms of (use|service)|accessibility( statement)?|site ?map)$`),
		regexp.MustCompile(`(?i)^(follow us|connect with us|share this)`),
		regexp.MustCompile(`(?i)^loading\.{0,3}$`),
		regexp.MustCompile(`(?i)javascript (is )?(required|disabled)`),
	}

	sentenceEnd = regexp.MustCompile(`([.!?])\s+`)
)

// Clean normalises a raw text fragment: HTML entities are unescaped,
// URLs and email addresses removed, whitespace collapsed. Returns the
// empty string when nothing useful remains.
func Clean(text string) string {
	if text == "" {
		return ""
	}
	text = html.UnescapeString(text)
	text = urlPattern.ReplaceAllString(text, " ")
	text = emailPattern.ReplaceAllString(text, " ")
	text = whitespacePattern.ReplaceAllString(text, " ")
	text = strings.TrimSpace(text)
	if len(text) < MinChunkLen {
		return ""
	}
	return text
}

// IsBoilerplate reports whether a cleaned chunk is navigation or legal
// boilerplate that should never reach the corpus.
func IsBoilerplate(text string) bool {
	trimmed := strings.TrimSpace(text)
	for _, p := range boilerplatePatterns {
		if p.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// SplitSentences splits text into sentences, keeping terminal
// punctuation attached. Abbreviation handling is deliberately naive;
// over-splitting costs nothing downstream because chunks are
// reassembled up to MaxChunkLen.
func SplitSentences(text string) []string {
	marked := sentenceEnd.ReplaceAllString(text, "$1\x00")
	parts := strings.Split(marked, "\x00")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// SplitLongChunks breaks a chunk longer than MaxChunkLen into pieces
// at sentence boundaries. A single sentence longer than the limit is
// kept whole rather than cut mid-word.
func SplitLongChunks(text string) []string {
	if len(text) <= MaxChunkLen {
		return []string{text}
	}
	sentences := SplitSentences(text)
	var chunks []string
	var b strings.Builder
	for _, s := range sentences {
		if b.Len() > 0 && b.Len()+1+len(s) > MaxChunkLen {
			chunks = append(chunks, b.String())
			b.Reset()
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	if b.Len() > 0 {
		chunks = append(chunks, b.String())
	}
	return chunks
}

// Tokenize lowercases text and splits it into alphanumeric word
// tokens. Punctuation and symbols act as separators.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// tokenSet returns the set of unique tokens in text.
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		set[tok] = struct{}{}
	}
	return set
}

// nearDuplicate reports whether the smaller of the two token sets
// overlaps the other by more than nearDupThreshold.
func nearDuplicate(a, b map[string]struct{}) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	overlap := 0
	for tok := range small {
		if _, ok := large[tok]; ok {
			overlap++
		}
	}
	return float64(overlap)/float64(len(small)) > nearDupThreshold
}

// CleanChunks runs the full pipeline over raw fragments: clean each,
// drop boilerplate and short fragments, split oversized chunks, and
// suppress exact and near duplicates. Input order is preserved for the
// survivors.
func CleanChunks(raw []string) []string {
	var out []string
	seen := make(map[string]struct{})
	var sets []map[string]struct{}

	for _, fragment := range raw {
		cleaned := Clean(fragment)
		if cleaned == "" || IsBoilerplate(cleaned) {
			continue
		}
		for _, chunk := range SplitLongChunks(cleaned) {
			if len(chunk) < MinChunkLen {
				continue
			}
			key := strings.ToLower(chunk)
			if _, dup := seen[key]; dup {
				continue
			}
			set := tokenSet(chunk)
			isDup := false
			for _, prev := range sets {
				if nearDuplicate(set, prev) {
					isDup = true
					break
				}
			}
			if isDup {
				continue
			}
			seen[key] = struct{}{}
			sets = append(sets, set)
			out = append(out, chunk)
		}
	}
	return out
}

// SmartTruncate shortens text to at most limit characters, preferring
// the last sentence boundary in the final quarter of the window so the
// cut does not land mid-sentence.
func SmartTruncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	window := text[:limit]
	cut := strings.LastIndexAny(window, ".!?")
	if cut >= limit*3/4 {
		return strings.TrimSpace(window[:cut+1])
	}
	return strings.TrimSpace(window)
}
