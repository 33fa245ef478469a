package render

import (
	"strings"
	"testing"
)

func TestPageLabel(t *testing.T) {
	if got := PageLabel(nil); got != "N/A" {
		t.Errorf("PageLabel(nil) = %q, want %q", got, "N/A")
	}
	page := 7
	if got := PageLabel(&page); got != "7" {
		t.Errorf("PageLabel(&7) = %q, want %q", got, "7")
	}
}

func TestPreviewTextShortInputUnchanged(t *testing.T) {
	if got := PreviewText("short", 200); got != "short" {
		t.Errorf("PreviewText = %q, want %q", got, "short")
	}
}

func TestPreviewTextTruncatesByRunes(t *testing.T) {
	text := strings.Repeat("é", 250)
	got := PreviewText(text, 200)
	want := strings.Repeat("é", 200) + "..."
	if got != want {
		t.Errorf("PreviewText kept %d runes, want 200 plus ellipsis", len([]rune(got))-3)
	}
}

func TestPreviewTextExactLimit(t *testing.T) {
	text := strings.Repeat("a", 200)
	if got := PreviewText(text, 200); got != text {
		t.Errorf("PreviewText at exact limit = %q, want input unchanged", got)
	}
}
