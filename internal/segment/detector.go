package segment

import (
	"regexp"
	"strings"
)

// Detector locates clause boundaries in raw document text.
// A detector returns candidate clauses that already passed the
// minimum-content filter; MinClauses is the count below which
// the segmenter falls through to paragraph splitting.
type Detector interface {
	// Name returns the detector name
	Name() string

	// Split returns filtered candidate clauses in document order
	Split(text string) []string

	// MinClauses returns the minimum acceptable clause count
	MinClauses() int
}

// anchorPattern matches numbered-list markers at start of line or start
// of text: "1.", "12)", "2.1.", "(a)", "-", "*" or a bullet glyph, each
// followed by horizontal whitespace. Mid-sentence numbers never match.
var anchorPattern = regexp.MustCompile(`(?m)^[ \t]*(?:\d{1,2}(?:\.\d+)*[.)]|\([A-Za-z]\)|[-*\x{2022}])[ \t]+`)

// AnchorDetector splits at structural list markers (numbered sections,
// dotted multi-level numbering, lettered sub-items, bullets). Markers
// stay with their clause: "(a)" and "2.1." prefixes carry
// cross-reference meaning in contracts.
type AnchorDetector struct{}

// Name returns the detector name
func (d *AnchorDetector) Name() string { return "anchor" }

// MinClauses returns the acceptance threshold for this detector
func (d *AnchorDetector) MinClauses() int { return 1 }

// Split splits the text immediately before each structural marker.
// No markers means no boundaries: the detector yields nothing and the
// segmenter falls through to paragraph splitting.
func (d *AnchorDetector) Split(text string) []string {
	matches := anchorPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var segments []string

	// Text before the first marker is a candidate too (preamble)
	if lead := text[:matches[0][0]]; strings.TrimSpace(lead) != "" {
		segments = append(segments, lead)
	}

	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		segments = append(segments, text[m[0]:end])
	}

	return filterClauses(segments)
}

// digitPattern matches a line beginning with "<digits>." -- the simpler
// boundary used by the leading-digit strategy.
var digitPattern = regexp.MustCompile(`(?m)^\d+\.`)

// digitMarker strips the leading "<digits>." marker off a segment
var digitMarker = regexp.MustCompile(`^\d+\.\s*`)

// DigitDetector splits at lines that begin with "<digits>." and strips
// the marker from each emitted clause. It only trusts documents that
// are plainly numbered, so it demands at least three clauses before the
// segmenter accepts its output.
type DigitDetector struct{}

// Name returns the detector name
func (d *DigitDetector) Name() string { return "digits" }

// MinClauses returns the acceptance threshold for this detector
func (d *DigitDetector) MinClauses() int { return 3 }

// Split splits before each leading-digit marker, filters, then strips
// the markers. Filtering happens before stripping so the marker counts
// toward the one-line length floor.
func (d *DigitDetector) Split(text string) []string {
	matches := digitPattern.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var segments []string
	if lead := text[:matches[0][0]]; strings.TrimSpace(lead) != "" {
		segments = append(segments, lead)
	}
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		segments = append(segments, text[m[0]:end])
	}

	kept := filterClauses(segments)
	for i, s := range kept {
		kept[i] = strings.TrimSpace(digitMarker.ReplaceAllString(s, ""))
	}
	return kept
}

// filterClauses trims candidates and drops those that cannot be real
// clauses: empty after trimming, or a single line shorter than 20
// characters (almost always a stray heading, not a clause body).
func filterClauses(segments []string) []string {
	var kept []string
	for _, s := range segments {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if len(s) < minClauseLen && !strings.Contains(s, "\n") {
			continue
		}
		kept = append(kept, s)
	}
	return kept
}
