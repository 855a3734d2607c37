package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		debug   bool
		info    bool
		warn    bool
	}{
		{name: "cli quiet", verbose: false, debug: false, info: false, warn: true},
		{name: "cli verbose", verbose: true, debug: true, info: true, warn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.verbose)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			core := l.Core()
			if got := core.Enabled(zapcore.DebugLevel); got != tt.debug {
				t.Errorf("debug enabled = %v, want %v", got, tt.debug)
			}
			if got := core.Enabled(zapcore.InfoLevel); got != tt.info {
				t.Errorf("info enabled = %v, want %v", got, tt.info)
			}
			if got := core.Enabled(zapcore.WarnLevel); got != tt.warn {
				t.Errorf("warn enabled = %v, want %v", got, tt.warn)
			}
		})
	}
}

func TestNewServer_LogsRequests(t *testing.T) {
	l, err := NewServer(false)
	if err != nil {
		t.Fatalf("NewServer failed: %v", err)
	}
	if !l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("expected info level enabled for the server")
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("expected debug level disabled for the server")
	}
}
