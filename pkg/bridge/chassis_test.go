package bridge

import (
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nidefawl/yabridge/pkg/transport"
)

func TestWatchdogDisabled(t *testing.T) {
	t.Setenv(WatchdogEnvVar, "")
	if WatchdogDisabled() {
		t.Error("watchdog reported disabled with the variable unset")
	}
	t.Setenv(WatchdogEnvVar, "1")
	if !WatchdogDisabled() {
		t.Error("watchdog reported enabled with the variable set")
	}
}

func TestStartFailsWhenHostMissing(t *testing.T) {
	_, err := Start(Options{
		PluginPath:  "/nonexistent/plugin.dll",
		HostBinary:  "/nonexistent/yabridge-host.exe",
		SocketNames: transport.Vst2SocketNames,
		Logger:      zap.NewNop(),
	})
	if err == nil {
		t.Fatal("expected spawn failure for a missing host binary")
	}
}

func TestStartFailsWhenHostExitsBeforeHandshake(t *testing.T) {
	t.Setenv(WatchdogEnvVar, "")
	start := time.Now()
	_, err := Start(Options{
		PluginPath:    "/nonexistent/plugin.dll",
		HostBinary:    "/bin/true",
		SocketNames:   transport.Vst2SocketNames,
		AcceptTimeout: 30 * time.Second,
		Logger:        zap.NewNop(),
	})
	if err == nil {
		t.Fatal("expected handshake failure when the host exits immediately")
	}
	// The watchdog must fire on process exit, well before the accept
	// deadline.
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("watchdog took %v to notice the dead host", elapsed)
	}
}

func TestSanitizeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"/home/user/.vst/Serum.dll", "Serum"},
		{"plugin.vst3", "plugin"},
		{"", "plugin"},
	}
	for _, tt := range tests {
		if got := sanitizeName(tt.in); got != tt.want {
			t.Errorf("sanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
