package textutil_test

import (
	"testing"

	"soundshield/internal/textutil"
)

func TestDeriveTitle(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"/media/recordings/team_standup-2026.mp3", "Team Standup 2026"},
		{"interview.final.take2.wav", "Interview Final Take2"},
		{"会议记录.m4a", "会议记录"},
		{"___.mp3", "Untitled Recording"},
		{"", "Untitled Recording"},
	}
	for _, tc := range cases {
		if got := textutil.DeriveTitle(tc.path); got != tc.want {
			t.Fatalf("DeriveTitle(%q) = %q, want %q", tc.path, got, tc.want)
		}
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"a/b:c", "a-b-c"},
		{`what?"`, "what"},
		{"  spaced  ", "spaced"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := textutil.SanitizeFileName(tc.in); got != tc.want {
			t.Fatalf("SanitizeFileName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
