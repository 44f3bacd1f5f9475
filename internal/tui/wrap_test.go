package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

var plain = lipgloss.NewStyle()

func TestWrapBreaksAtLastSpace(t *testing.T) {
	got := wrapText("what does ephemeral mean", plain, 10)
	want := "what does\nephemeral\nmean"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWrapSplitsLongWord(t *testing.T) {
	got := wrapText("abcdefgh", plain, 3)
	if got != "abc\ndef\ngh" {
		t.Fatalf("unexpected wrap %q", got)
	}
}

func TestWrapCountsWideRunes(t *testing.T) {
	got := wrapText("日本語", plain, 4)
	if got != "日本\n語" {
		t.Fatalf("unexpected wide wrap %q", got)
	}
}

func TestWrapDisabledForZeroWidth(t *testing.T) {
	if got := wrapText("a b c", plain, 0); got != "a b c" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestBuildStyledRunesMarksSpaces(t *testing.T) {
	runes := buildStyledRunes("a b", plain)
	if len(runes) != 3 {
		t.Fatalf("expected 3 runes, got %d", len(runes))
	}
	if !runes[1].isSpace || runes[0].isSpace {
		t.Fatalf("unexpected space flags %+v", runes)
	}
	if runes[0].width != 1 {
		t.Fatalf("expected width 1, got %d", runes[0].width)
	}
}
