package subtitles

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func TestSplitTranscriptBySentence(t *testing.T) {
	cues := SplitTranscript("你好。世界！", 10, DefaultOptions())
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[0].Text != "你好。" || cues[1].Text != "世界！" {
		t.Fatalf("unexpected cue texts: %q %q", cues[0].Text, cues[1].Text)
	}
	if !almostEqual(cues[0].Start, 0) || !almostEqual(cues[0].End, 5) {
		t.Fatalf("unexpected first cue timing: %v-%v", cues[0].Start, cues[0].End)
	}
	if !almostEqual(cues[1].End, 10) {
		t.Fatalf("last cue should end at audio duration, got %v", cues[1].End)
	}
}

func TestSplitTranscriptStretchesFinalCue(t *testing.T) {
	cues := SplitTranscript("好。", 100, DefaultOptions())
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	// Cue span is clamped to the maximum, then stretched to cover the tail.
	if !almostEqual(cues[0].End, 100) {
		t.Fatalf("expected final cue stretched to 100s, got %v", cues[0].End)
	}
}

func TestSplitTranscriptWithoutPunctuationChunksByLength(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxCharsPerCue = 3
	cues := SplitTranscript("没有标点的文本", 6, opts)
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}
	if cues[0].Text != "没有标" || cues[2].Text != "本" {
		t.Fatalf("unexpected chunking: %q %q %q", cues[0].Text, cues[1].Text, cues[2].Text)
	}
	if !almostEqual(cues[2].End, 6) {
		t.Fatalf("expected last cue to end at 6s, got %v", cues[2].End)
	}
}

func TestSplitTranscriptKeepsUnterminatedTail(t *testing.T) {
	cues := SplitTranscript("第一句。还没说完", 8, DefaultOptions())
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if cues[1].Text != "还没说完" {
		t.Fatalf("unexpected tail cue: %q", cues[1].Text)
	}
}

func TestSplitTranscriptEmptyInput(t *testing.T) {
	if cues := SplitTranscript("", 10, DefaultOptions()); cues != nil {
		t.Fatalf("expected nil cues for empty text, got %v", cues)
	}
	if cues := SplitTranscript("text", 0, DefaultOptions()); cues != nil {
		t.Fatalf("expected nil cues for zero duration, got %v", cues)
	}
}

func TestFromSentencesUsesTimestamps(t *testing.T) {
	sentences := []Sentence{
		{Text: "第一句话。", Start: 0.5, End: 2.5},
		{Text: "第二句话。", Start: 2.5, End: 4.0},
	}
	cues := FromSentences(sentences, 10, DefaultOptions())
	if len(cues) != 2 {
		t.Fatalf("expected 2 cues, got %d", len(cues))
	}
	if !almostEqual(cues[0].Start, 0.5) || !almostEqual(cues[0].End, 2.5) {
		t.Fatalf("unexpected first cue timing: %v-%v", cues[0].Start, cues[0].End)
	}
}

func TestFromSentencesChunksLongSentence(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxCharsPerCue = 4
	sentences := []Sentence{{Text: "一二三四五六七八九十", Start: 0, End: 5}}
	cues := FromSentences(sentences, 10, opts)
	if len(cues) != 3 {
		t.Fatalf("expected 3 cues, got %d", len(cues))
	}
	if !almostEqual(cues[0].End, 2) || !almostEqual(cues[1].End, 4) || !almostEqual(cues[2].End, 5) {
		t.Fatalf("unexpected chunk timing: %v %v %v", cues[0].End, cues[1].End, cues[2].End)
	}
}

func TestFromSentencesClampsToDuration(t *testing.T) {
	sentences := []Sentence{{Text: "结尾。", Start: 9, End: 15}}
	cues := FromSentences(sentences, 10, DefaultOptions())
	if len(cues) != 1 {
		t.Fatalf("expected 1 cue, got %d", len(cues))
	}
	if !almostEqual(cues[0].End, 10) {
		t.Fatalf("expected cue clamped to 10s, got %v", cues[0].End)
	}
}

func TestFromSentencesSkipsEmptyText(t *testing.T) {
	sentences := []Sentence{{Text: "   ", Start: 0, End: 1}, {Text: "有内容", Start: 1, End: 2}}
	cues := FromSentences(sentences, 5, DefaultOptions())
	if len(cues) != 1 || cues[0].Text != "有内容" {
		t.Fatalf("unexpected cues: %v", cues)
	}
}
