package markup

import "regexp"

// reScoreOpen matches the opening of an elided score block. Group 1 is the
// text preceding the marker. The "maybe" group matches LilyPond commands
// that indicate a score block whose <score> tag is missing.
var reScoreOpen = regexp.MustCompile(
	`(.*?)(<score( [^>]+)?>|(?P<maybe>` +
		`\\override Score\.\b|` +
		`\\new Staff\b|` +
		`\\new PianoStaff\b|` +
		`\\relative c\b|` +
		`\\clef\b|` +
		`\\unfoldRepeats\b))`)

// reScoreClose matches the closing tag; group 1 is the text after it.
var reScoreClose = regexp.MustCompile(`</score>(.*)`)

var scoreMaybeIndex = reScoreOpen.SubexpIndex("maybe")

type blockState int

const (
	stateNormal blockState = iota
	stateInBlock
	stateMaybeBlock
)

// ScoreBlockFilter elides multi-line score blocks from a document's line
// stream. Blocks open with <score> (or, heuristically, with a LilyPond
// command when the tag is missing) and close with </score>. Lines seen while
// a heuristic block is open are buffered so they can be recovered if the
// block turns out not to be one.
//
// The zero value is ready to use for a new document.
type ScoreBlockFilter struct {
	state blockState
	buf   []string
}

// Feed processes one line. It returns the portion of the line that should be
// tokenized now and whether any such portion exists. A fully elided line
// returns ("", false).
func (f *ScoreBlockFilter) Feed(line string) (string, bool) {
	if f.state != stateNormal {
		m := reScoreClose.FindStringSubmatch(line)
		if m == nil {
			if f.state == stateMaybeBlock {
				// Kept in case the closing tag never appears.
				f.buf = append(f.buf, line)
			}
			return "", false
		}
		f.state = stateNormal
		f.buf = nil
		return m[1], true // text after </score>
	}

	m := reScoreOpen.FindStringSubmatchIndex(line)
	if m == nil {
		return line, true
	}
	before := line[m[2]:m[3]]

	// Opened and closed on the same line: keep both surrounding fragments.
	if mc := reScoreClose.FindStringSubmatchIndex(line); mc != nil && mc[0] > m[0] {
		return before + " " + line[mc[2]:mc[3]], true
	}

	if m[2*scoreMaybeIndex] >= 0 {
		// Heuristic opener: emit the text before the command now and
		// buffer the rest in case this is not a real block. Either way
		// the prefix is counted exactly once.
		f.state = stateMaybeBlock
		f.buf = []string{line[m[3]:]}
		return before, before != ""
	}
	f.state = stateInBlock
	return before, true
}

// Close ends the current document. It reports whether a block was still open
// (a diagnostic condition) and returns any buffered lines from a heuristic
// block, which the caller must reprocess as ordinary content. The filter is
// reset for the next document.
func (f *ScoreBlockFilter) Close() (recovered []string, unclosed bool) {
	switch f.state {
	case stateInBlock:
		unclosed = true
	case stateMaybeBlock:
		unclosed = true
		recovered = f.buf
	}
	f.state = stateNormal
	f.buf = nil
	return recovered, unclosed
}
