package chatlog

import (
	"strings"
	"testing"
)

func TestParseSplitsMessages(t *testing.T) {
	text := strings.Join([]string{
		"3/5/24, 9:00 PM - Alice: Saved 160 Tk",
		"3/5/24, 9:05 PM - Bob: 200",
		"3/6/24, 8:00 AM - Alice: BDT 90",
	}, "\n")

	msgs := Parse(text)
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[0].Date != "3/5/24" || msgs[0].Time != "9:00 PM" || msgs[0].Sender != "Alice" || msgs[0].Text != "Saved 160 Tk" {
		t.Fatalf("unexpected first message: %+v", msgs[0])
	}
	if msgs[1].Sender != "Bob" || msgs[1].Text != "200" {
		t.Fatalf("unexpected second message: %+v", msgs[1])
	}
}

func TestParseContinuationLines(t *testing.T) {
	text := strings.Join([]string{
		"3/5/24, 9:00 PM - Alice: Saved 160 Tk",
		"by skipping lunch",
		"  and walking home  ",
		"3/5/24, 9:10 PM - Bob: 200",
	}, "\n")

	msgs := Parse(text)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	want := "Saved 160 Tk by skipping lunch and walking home"
	if msgs[0].Text != want {
		t.Fatalf("text = %q, want %q", msgs[0].Text, want)
	}
}

func TestParseSystemMessageHasNoSender(t *testing.T) {
	msgs := Parse("3/5/24, 8:55 PM - Alice added Bob")
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Sender != "" {
		t.Fatalf("expected empty sender, got %q", msgs[0].Sender)
	}
	if msgs[0].Text != "Alice added Bob" {
		t.Fatalf("text = %q", msgs[0].Text)
	}
}

func TestParseStripsUnicodeMarks(t *testing.T) {
	// Narrow no-break space between time and AM/PM marker, LTR mark in text.
	text := "3/5/24, 9:00 PM - Alice: ‎Saved 160 Tk"
	msgs := Parse(text)
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Time != "9:00 PM" {
		t.Fatalf("time = %q", msgs[0].Time)
	}
	if msgs[0].Text != "Saved 160 Tk" {
		t.Fatalf("text = %q", msgs[0].Text)
	}
}

func TestParseTolleratesBOMAndCRLF(t *testing.T) {
	text := "\ufeff3/5/24, 9:00 PM - Alice: Saved 160 Tk\r\n3/5/24, 9:10 PM - Bob: 200\r\n"
	msgs := Parse(text)
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Sender != "Alice" || msgs[1].Sender != "Bob" {
		t.Fatalf("unexpected senders: %+v", msgs)
	}
}

func TestParseLowercaseMarkerAndLooseSpacing(t *testing.T) {
	msgs := Parse("11/23/24, 10:15pm - +880 1712-345678: 500 taka")
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Time != "10:15PM" {
		t.Fatalf("time = %q", msgs[0].Time)
	}
	if msgs[0].Sender != "+880 1712-345678" {
		t.Fatalf("sender = %q", msgs[0].Sender)
	}
}

func TestParseEmptyInput(t *testing.T) {
	if msgs := Parse(""); len(msgs) != 0 {
		t.Fatalf("expected no messages, got %d", len(msgs))
	}
	// Continuation lines before any message start are dropped.
	if msgs := Parse("orphan line\nanother one"); len(msgs) != 0 {
		t.Fatalf("expected no messages, got %d", len(msgs))
	}
}

func TestParseReconstructsContent(t *testing.T) {
	lines := []string{
		"3/5/24, 9:00 PM - Alice: part one",
		"part two",
		"part three",
	}
	msgs := Parse(strings.Join(lines, "\n"))
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	joined := msgs[0].Text
	for _, frag := range []string{"part one", "part two", "part three"} {
		if !strings.Contains(joined, frag) {
			t.Fatalf("text %q missing fragment %q", joined, frag)
		}
	}
}
