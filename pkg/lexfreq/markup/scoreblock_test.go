package markup

import "testing"

func TestScoreBlockTagged(t *testing.T) {
	var f ScoreBlockFilter

	text, ok := f.Feed("intro <score vorbis=\"1\">\\relative c' {")
	if !ok || text != "intro " {
		t.Fatalf("open line: got %q, %v", text, ok)
	}
	if _, ok := f.Feed("c4 d e f"); ok {
		t.Fatal("line inside block should be elided")
	}
	text, ok = f.Feed("}</score> outro")
	if !ok || text != " outro" {
		t.Fatalf("close line: got %q, %v", text, ok)
	}
	if recovered, unclosed := f.Close(); unclosed || recovered != nil {
		t.Fatalf("clean close: recovered=%v unclosed=%v", recovered, unclosed)
	}
}

func TestScoreBlockSameLine(t *testing.T) {
	var f ScoreBlockFilter
	text, ok := f.Feed("before <score>c d e</score> after")
	if !ok {
		t.Fatal("same-line block should keep surrounding text")
	}
	if text != "before   after" {
		t.Fatalf("got %q", text)
	}
	if _, unclosed := f.Close(); unclosed {
		t.Fatal("no block should remain open")
	}
}

func TestScoreBlockUnclosed(t *testing.T) {
	var f ScoreBlockFilter
	if text, _ := f.Feed("head <score>"); text != "head " {
		t.Fatalf("got %q", text)
	}
	if _, ok := f.Feed("c4 d e"); ok {
		t.Fatal("elided line leaked")
	}
	recovered, unclosed := f.Close()
	if !unclosed {
		t.Fatal("expected unclosed diagnostic")
	}
	if recovered != nil {
		t.Fatal("tagged block must not recover elided lines")
	}
	// Filter is reset for the next document.
	if text, ok := f.Feed("plain"); !ok || text != "plain" {
		t.Fatalf("after reset: got %q, %v", text, ok)
	}
}

func TestScoreBlockMaybeRecovery(t *testing.T) {
	var f ScoreBlockFilter
	// The text before the suspected opener is emitted immediately; only
	// the command itself and later lines are buffered.
	text, ok := f.Feed("text \\clef treble more")
	if !ok || text != "text " {
		t.Fatalf("maybe-open line: got %q, %v", text, ok)
	}
	if _, ok := f.Feed("second line of suspected score"); ok {
		t.Fatal("suspected score line leaked")
	}
	recovered, unclosed := f.Close()
	if !unclosed {
		t.Fatal("expected diagnostic for maybe-block")
	}
	want := []string{"\\clef treble more", "second line of suspected score"}
	if len(recovered) != 2 || recovered[0] != want[0] || recovered[1] != want[1] {
		t.Fatalf("recovered = %v", recovered)
	}
}

func TestScoreBlockMaybeProperlyClosed(t *testing.T) {
	var f ScoreBlockFilter
	text, ok := f.Feed("intro \\new Staff {")
	if !ok || text != "intro " {
		t.Fatalf("maybe-open line: got %q, %v", text, ok)
	}
	if _, ok := f.Feed("c4 d"); ok {
		t.Fatal("elided line leaked")
	}
	text, ok = f.Feed("}</score> tail")
	if !ok || text != " tail" {
		t.Fatalf("got %q, %v", text, ok)
	}
	// Correctly bounded after all: the buffer is discarded.
	if recovered, unclosed := f.Close(); unclosed || recovered != nil {
		t.Fatalf("recovered=%v unclosed=%v", recovered, unclosed)
	}
}

func TestScoreBlockMaybeOpeners(t *testing.T) {
	for _, ln := range []string{
		"\\override Score.BarNumber",
		"\\new PianoStaff <<",
		"\\relative c'' {",
		"\\unfoldRepeats \\score",
	} {
		var f ScoreBlockFilter
		if _, ok := f.Feed(ln); ok {
			t.Errorf("%q should open a maybe-block", ln)
		}
		if recovered, _ := f.Close(); len(recovered) != 1 {
			t.Errorf("%q: buffer not kept", ln)
		}
	}
}
