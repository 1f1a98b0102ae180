package services_test

import (
	"errors"
	"strings"
	"testing"

	"soundshield/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "transcription", "run model", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"transcription", "run model", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransientMarker(t *testing.T) {
	err := services.Wrap(nil, "audioprep", "extract", "ffmpeg exited", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestDetailsClassification(t *testing.T) {
	cases := []struct {
		name   string
		marker error
		kind   services.Kind
	}{
		{"external tool", services.ErrExternalTool, services.KindExternalTool},
		{"validation", services.ErrValidation, services.KindValidation},
		{"configuration", services.ErrConfiguration, services.KindConfiguration},
		{"not found", services.ErrNotFound, services.KindNotFound},
		{"timeout", services.ErrTimeout, services.KindTimeout},
		{"transient", services.ErrTransient, services.KindTransient},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := services.Wrap(tc.marker, "stage", "op", "message", nil)
			details := services.Details(err)
			if details.Kind != tc.kind {
				t.Fatalf("expected kind %s, got %s", tc.kind, details.Kind)
			}
			if strings.HasPrefix(details.Message, tc.marker.Error()) {
				t.Fatalf("expected marker prefix stripped, got %q", details.Message)
			}
			if !strings.Contains(details.Message, "stage: op: message") {
				t.Fatalf("unexpected message %q", details.Message)
			}
		})
	}
}

func TestDetailsNilError(t *testing.T) {
	details := services.Details(nil)
	if details.Kind != services.KindTransient || details.Message != "" || details.Cause != nil {
		t.Fatalf("unexpected details for nil error: %#v", details)
	}
}
