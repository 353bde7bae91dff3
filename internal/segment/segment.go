// Package segment divides raw contract text into an ordered sequence
// of clause strings. Segmentation is pure and deterministic: no I/O,
// no external calls, and no failure mode -- unstructured input degrades
// to coarser clauses, worst case the whole document as one clause.
package segment

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

const (
	// minClauseLen is the one-line length floor for the primary detectors
	minClauseLen = 20

	// minParagraphLen is the stricter floor for the paragraph fallback
	minParagraphLen = 50
)

// boilerplateHeadings are document titles stripped before detection
// when they open the document and are followed by a blank line.
var boilerplateHeadings = []string{
	"SERVICE AGREEMENT",
	"AGREEMENT",
	"CONTRACT",
	"TERMS AND CONDITIONS",
}

// Segmenter turns document text into clauses using a primary boundary
// detector with a blank-line paragraph fallback.
type Segmenter struct {
	detector Detector
}

// NewSegmenter creates a segmenter for the named strategy
// ("anchor" or "digits").
func NewSegmenter(strategy string) (*Segmenter, error) {
	switch strings.ToLower(strategy) {
	case "", "anchor":
		return &Segmenter{detector: &AnchorDetector{}}, nil
	case "digits":
		return &Segmenter{detector: &DigitDetector{}}, nil
	default:
		return nil, fmt.Errorf("unknown segmentation strategy: %s (supported: anchor, digits)", strategy)
	}
}

// Strategy returns the active detector name
func (s *Segmenter) Strategy() string {
	return s.detector.Name()
}

// Segment splits the document into clauses in source order
func (s *Segmenter) Segment(text string) []string {
	clauses, _ := s.SegmentDetail(text)
	return clauses
}

// SegmentDetail is Segment plus a flag reporting whether the paragraph
// fallback produced the result.
func (s *Segmenter) SegmentDetail(text string) ([]string, bool) {
	text = normalize(text)
	if strings.TrimSpace(text) == "" {
		return nil, false
	}

	text = stripHeading(text)

	clauses := s.detector.Split(text)
	if len(clauses) >= s.detector.MinClauses() {
		return clauses, false
	}

	return splitParagraphs(text), true
}

// normalize collapses line-ending variants so boundary patterns only
// have to reason about "\n".
func normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// stripHeading removes a recognized boilerplate title paragraph from
// the start of the document. Only the header paragraph goes; without a
// blank line after it there is nothing to cut.
func stripHeading(text string) string {
	trimmed := strings.TrimLeft(text, " \t\n")
	upper := strings.ToUpper(trimmed)

	for _, heading := range boilerplateHeadings {
		if !strings.HasPrefix(upper, heading) {
			continue
		}
		if idx := strings.Index(trimmed, "\n\n"); idx >= 0 {
			return trimmed[idx+2:]
		}
		return text
	}
	return text
}

// paragraphBreak is a run of two or more consecutive newlines
var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// splitParagraphs is the permissive fallback: blank-line separated
// pieces, keeping only those long enough to carry clause body and not
// shaped like a shouted section title.
func splitParagraphs(text string) []string {
	var kept []string
	for _, p := range paragraphBreak.Split(text, -1) {
		p = strings.TrimSpace(p)
		if p == "" || len(p) < minParagraphLen {
			continue
		}
		if isShoutedTitle(p) {
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// isShoutedTitle reports whether the text is nothing but uppercase
// letters and whitespace, e.g. "GENERAL TERMS AND CONDITIONS".
func isShoutedTitle(text string) bool {
	sawLetter := false
	for _, r := range text {
		switch {
		case unicode.IsSpace(r):
		case unicode.IsUpper(r):
			sawLetter = true
		default:
			return false
		}
	}
	return sawLetter
}
