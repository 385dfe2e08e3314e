package transport

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Socket names within a group. Names stay stable across versions since the
// foreign host locates its endpoints by name.
const (
	SocketDispatch   = "host_vst_dispatch"
	SocketCallback   = "vst_host_callback"
	SocketParameters = "host_vst_parameters"
	SocketProcess    = "host_vst_process"

	SocketControl        = "host_plugin_control"
	SocketPluginCallback = "plugin_host_callback"
	SocketAudioProcessor = "audio_processor"
	SocketHostControl    = "host_control"
)

// Vst2SocketNames is the fixed socket set for a legacy-ABI instance.
var Vst2SocketNames = []string{SocketDispatch, SocketCallback, SocketParameters, SocketProcess}

// Vst3SocketNames is the fixed socket set for a modern-ABI instance.
var Vst3SocketNames = []string{SocketControl, SocketPluginCallback, SocketAudioProcessor, SocketHostControl}

// DefaultAcceptTimeout bounds the startup handshake. The foreign host must
// connect to every endpoint within this window.
const DefaultAcceptTimeout = 20 * time.Second

// RuntimeDir returns the directory socket groups are created under:
// $XDG_RUNTIME_DIR when set, the OS temporary directory otherwise.
func RuntimeDir() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}

// Group is the per-instance socket directory with its listeners. The native
// side creates the group, spawns the foreign host with the directory path,
// then accepts one connection per socket.
type Group struct {
	dir       string
	listeners map[string]*net.UnixListener
	channels  map[string]*Channel
	logger    *zap.Logger
}

// NewGroup creates the socket directory with 0700 permissions and binds a
// listener for every name. baseName gets a per-instance suffix so multiple
// instances of the same plugin coexist.
func NewGroup(parent, baseName string, names []string, logger *zap.Logger) (*Group, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	dir, err := os.MkdirTemp(parent, baseName+"-*")
	if err != nil {
		return nil, fmt.Errorf("transport: creating socket directory: %w", err)
	}
	if err := os.Chmod(dir, 0o700); err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("transport: restricting socket directory: %w", err)
	}

	g := &Group{
		dir:       dir,
		listeners: make(map[string]*net.UnixListener, len(names)),
		channels:  make(map[string]*Channel, len(names)),
		logger:    logger,
	}
	for _, name := range names {
		addr := &net.UnixAddr{Name: filepath.Join(dir, name), Net: "unix"}
		ln, err := net.ListenUnix("unix", addr)
		if err != nil {
			g.Close()
			return nil, fmt.Errorf("transport: binding %s: %w", name, err)
		}
		g.listeners[name] = ln
	}
	return g, nil
}

// Dir returns the socket directory path, passed to the foreign host on
// spawn.
func (g *Group) Dir() string { return g.dir }

// Accept waits for the foreign host to connect to every endpoint. One
// deadline, timeout from the call, covers all listeners together; a missing
// connection fails the whole handshake.
func (g *Group) Accept(timeout time.Duration) error {
	if timeout == 0 {
		timeout = DefaultAcceptTimeout
	}
	deadline := time.Now().Add(timeout)
	for name, ln := range g.listeners {
		if err := ln.SetDeadline(deadline); err != nil {
			return err
		}
		conn, err := ln.Accept()
		if err != nil {
			return fmt.Errorf("transport: waiting for %s: %w", name, err)
		}
		g.channels[name] = NewChannel(name, conn, 0)
	}
	g.logger.Debug("all sockets paired", zap.String("dir", g.dir))
	return nil
}

// Channel returns the paired channel for a socket name. Only valid after
// Accept succeeds.
func (g *Group) Channel(name string) *Channel {
	return g.channels[name]
}

// Close tears the group down: connections, listeners, then the directory
// and everything in it.
func (g *Group) Close() error {
	var err error
	for _, ch := range g.channels {
		err = multierr.Append(err, ch.Close())
	}
	for _, ln := range g.listeners {
		err = multierr.Append(err, ln.Close())
	}
	err = multierr.Append(err, os.RemoveAll(g.dir))
	return err
}

// Connect dials every socket in a group directory from the foreign-host
// side, in the given name order.
func Connect(dir string, names []string) (map[string]*Channel, error) {
	channels := make(map[string]*Channel, len(names))
	for _, name := range names {
		conn, err := net.DialUnix("unix", nil,
			&net.UnixAddr{Name: filepath.Join(dir, name), Net: "unix"})
		if err != nil {
			for _, ch := range channels {
				ch.Close()
			}
			return nil, fmt.Errorf("transport: connecting to %s: %w", name, err)
		}
		channels[name] = NewChannel(name, conn, 0)
	}
	return channels, nil
}
