package subtitles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00,000"},
		{-1, "00:00:00,000"},
		{1.5, "00:00:01,500"},
		{3723.456, "01:02:03,456"},
		{59.9995, "00:01:00,000"},
	}
	for _, tc := range cases {
		if got := FormatTimestamp(tc.seconds); got != tc.want {
			t.Fatalf("FormatTimestamp(%v) = %q, want %q", tc.seconds, got, tc.want)
		}
	}
}

func TestParseTimestamp(t *testing.T) {
	seconds, err := ParseTimestamp("01:02:03,456")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if seconds != 3723.456 {
		t.Fatalf("unexpected seconds: %v", seconds)
	}
	if _, err := ParseTimestamp("01:02:03.456"); err != nil {
		t.Fatalf("period separator should parse: %v", err)
	}
	for _, bad := range []string{"", "12:34", "aa:bb:cc,ddd"} {
		if _, err := ParseTimestamp(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestRenderSRT(t *testing.T) {
	cues := []Cue{
		{Start: 0, End: 2.5, Text: "第一句话。"},
		{Start: 2.5, End: 5, Text: "第二句话。"},
	}
	content := RenderSRT(cues)
	want := "1\n00:00:00,000 --> 00:00:02,500\n第一句话。\n\n2\n00:00:02,500 --> 00:00:05,000\n第二句话。\n\n"
	if content != want {
		t.Fatalf("unexpected srt content:\n%s", content)
	}
}

func TestWriteAndValidateSRT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.srt")
	cues := []Cue{
		{Start: 0.5, End: 2, Text: "hello there."},
		{Start: 2, End: 4.25, Text: "goodbye."},
	}
	if err := WriteSRT(path, cues); err != nil {
		t.Fatalf("write srt: %v", err)
	}

	count, err := CountCues(path)
	if err != nil {
		t.Fatalf("count cues: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 cues, got %d", count)
	}

	first, last, err := Bounds(path)
	if err != nil {
		t.Fatalf("bounds: %v", err)
	}
	if first != 0.5 || last != 4.25 {
		t.Fatalf("unexpected bounds: %v-%v", first, last)
	}

	if issues := Validate(path, 10); len(issues) != 0 {
		t.Fatalf("expected clean validation, got %v", issues)
	}
}

func TestWriteSRTRejectsEmptyCueList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.srt")
	if err := WriteSRT(path, nil); err == nil {
		t.Fatal("expected error for empty cue list")
	}
}

func TestValidateFlagsProblems(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.srt")
	if err := os.WriteFile(empty, []byte("   \n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	issues := Validate(empty, 0)
	if len(issues) != 1 || issues[0] != "empty_subtitle_file" {
		t.Fatalf("unexpected issues: %v", issues)
	}

	overrun := filepath.Join(dir, "overrun.srt")
	cues := []Cue{{Start: 0, End: 30, Text: "runs long."}}
	if err := WriteSRT(overrun, cues); err != nil {
		t.Fatalf("write srt: %v", err)
	}
	issues = Validate(overrun, 10)
	if len(issues) != 1 || !strings.HasPrefix(issues[0], "duration_overrun") {
		t.Fatalf("unexpected issues: %v", issues)
	}
}

func TestWriteTranscript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "talk.txt")
	sentences := []Sentence{
		{Text: "第一句话。"},
		{Text: "  "},
		{Text: "第二句话。"},
	}
	if err := WriteTranscript(path, "第一句话。第二句话。", sentences); err != nil {
		t.Fatalf("write transcript: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read transcript: %v", err)
	}
	if string(data) != "第一句话。\n第二句话。\n" {
		t.Fatalf("unexpected transcript: %q", string(data))
	}

	flat := filepath.Join(t.TempDir(), "flat.txt")
	if err := WriteTranscript(flat, "flat text", nil); err != nil {
		t.Fatalf("write flat transcript: %v", err)
	}
	data, _ = os.ReadFile(flat)
	if string(data) != "flat text\n" {
		t.Fatalf("unexpected flat transcript: %q", string(data))
	}

	if err := WriteTranscript(filepath.Join(t.TempDir(), "none.txt"), "", nil); err == nil {
		t.Fatal("expected error for empty transcript")
	}
}
