package logging

import (
	"testing"

	"go.uber.org/zap"
)

func TestNew_Levels(t *testing.T) {
	prod, err := New(true, "")
	if err != nil {
		t.Fatalf("New(prod) failed: %v", err)
	}
	if prod.Core().Enabled(zap.DebugLevel) {
		t.Error("production logger should not log debug")
	}

	dev, err := New(false, "warn")
	if err != nil {
		t.Fatalf("New(dev, warn) failed: %v", err)
	}
	if dev.Core().Enabled(zap.InfoLevel) || !dev.Core().Enabled(zap.WarnLevel) {
		t.Error("LOG_LEVEL=warn not applied")
	}

	if _, err := New(false, "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
