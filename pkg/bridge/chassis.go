package bridge

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/nidefawl/yabridge/pkg/realtime"
	"github.com/nidefawl/yabridge/pkg/transport"
)

// WatchdogEnvVar disables the startup watchdog when set to 1. Only useful
// when the foreign host runs under a separate namespace; a hung plugin scan
// will then block indefinitely.
const WatchdogEnvVar = "YABRIDGE_NO_WATCHDOG"

// Options describes one plugin load.
type Options struct {
	// PluginPath is the foreign library the host process should load.
	PluginPath string
	// HostBinary is the foreign host executable. Spawned with the socket
	// directory and plugin path as arguments.
	HostBinary string
	// GroupID optionally names a host group; passed through to the host
	// process for orchestration layers above the core.
	GroupID string
	// SocketNames is the fixed socket set for the plugin's ABI.
	SocketNames []string
	// AcceptTimeout bounds the handshake; zero means the default.
	AcceptTimeout time.Duration
	// Logger receives lifecycle events and warnings; nil means none.
	Logger *zap.Logger
	// Config is the immutable configuration record.
	Config Config
}

// Chassis owns the process-level plumbing of one bridged plugin instance.
// The ABI bridges embed it and layer their proxies on top.
type Chassis struct {
	Group  *transport.Group
	Config Config
	Logger *zap.Logger

	host        *exec.Cmd
	hostExited  chan error
	peerVersion string
}

// WatchdogDisabled reports whether the startup watchdog was opted out of
// via the environment.
func WatchdogDisabled() bool {
	return os.Getenv(WatchdogEnvVar) == "1"
}

// Start creates the socket group, spawns the foreign host, and waits for
// every channel to be paired. On any failure the socket group is torn down
// and construction fails.
func Start(opts Options) (*Chassis, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	baseName := "yabridge-" + sanitizeName(opts.PluginPath)
	group, err := transport.NewGroup(transport.RuntimeDir(), baseName, opts.SocketNames, logger)
	if err != nil {
		return nil, err
	}

	c := &Chassis{
		Group:      group,
		Config:     opts.Config,
		Logger:     logger,
		hostExited: make(chan error, 1),
	}

	args := []string{group.Dir(), opts.PluginPath}
	if opts.GroupID != "" {
		args = append(args, opts.GroupID)
	}
	c.host = exec.Command(opts.HostBinary, args...)
	// The compatibility layer is driven entirely through the environment;
	// forward it unchanged.
	c.host.Env = os.Environ()
	if err := c.host.Start(); err != nil {
		group.Close()
		return nil, fmt.Errorf("bridge: spawning %s: %w", opts.HostBinary, err)
	}
	go func() { c.hostExited <- c.host.Wait() }()

	if err := c.accept(opts.AcceptTimeout); err != nil {
		c.host.Process.Kill()
		group.Close()
		return nil, err
	}

	realtime.WarnOnResourceLimits(logger)
	return c, nil
}

func (c *Chassis) accept(timeout time.Duration) error {
	if WatchdogDisabled() {
		return c.Group.Accept(timeout)
	}

	// The watchdog watches process liveness during the handshake: a host
	// that dies before pairing every socket fails startup immediately
	// instead of waiting out the accept deadline.
	accepted := make(chan error, 1)
	go func() { accepted <- c.Group.Accept(timeout) }()

	select {
	case err := <-accepted:
		return err
	case err := <-c.hostExited:
		c.hostExited <- err
		return fmt.Errorf("bridge: foreign host exited during handshake: %v", err)
	}
}

// ExchangeVersions runs the post-handshake version exchange on the given
// control channel and remembers the peer's version.
func (c *Chassis) ExchangeVersions(ch *transport.Channel) error {
	peer, err := transport.ExchangeVersions(ch, c.Logger)
	if err != nil {
		return err
	}
	c.peerVersion = peer
	return nil
}

// PeerVersion returns the foreign host's announced version.
func (c *Chassis) PeerVersion() string { return c.peerVersion }

// Alive reports whether the foreign host process is still running.
func (c *Chassis) Alive() bool {
	select {
	case err := <-c.hostExited:
		c.hostExited <- err
		return false
	default:
		return true
	}
}

// Close tears the instance down: sockets first, which makes the foreign
// host exit when its control channel drains, then a bounded wait on the
// process. Errors are collected, not fatal; everything here runs with the
// remote end possibly already gone.
func (c *Chassis) Close() error {
	err := c.Group.Close()

	if c.host != nil && c.host.Process != nil {
		select {
		case <-c.hostExited:
		case <-time.After(2 * time.Second):
			err = multierr.Append(err, c.host.Process.Kill())
			<-c.hostExited
		}
	}
	if err != nil {
		c.Logger.Debug("teardown finished with errors", zap.Error(err))
	}
	return err
}

func sanitizeName(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "plugin"
	}
	return name
}
