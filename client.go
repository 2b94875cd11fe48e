// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package hostshim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/carabiner-dev/hostshim/internal/clipboard"
	"github.com/carabiner-dev/hostshim/internal/common"
	"github.com/carabiner-dev/hostshim/internal/server"
	"github.com/carabiner-dev/hostshim/options"
	"github.com/carabiner-dev/hostshim/toolkit"
)

// EnvVarOptions carries the JSON encoded options from a client to the
// daemon it spawns.
const EnvVarOptions = "HOSTSHIM_OPTIONS"

var (
	// ErrNotConnected is returned by calls made before Connect.
	ErrNotConnected = errors.New("not connected to server")

	// ErrServerUnavailable is wrapped by errors caused by a daemon that
	// is not running or stopped answering.
	ErrServerUnavailable = common.ErrServerUnavailable
)

// daemonStartupWait bounds how long Connect polls the socket of a daemon
// it just spawned.
const daemonStartupWait = 2 * time.Second

// Client is the hostshim client.
//
// Host runtimes that cannot link the shims use it (or the gRPC service it
// talks to) to read process working directories and to reach the clipboard.
type Client struct {
	options *options.Client
	conn    *grpc.ClientConn
	client  common.HostShimClient

	// display serves the clipboard calls in NoServer mode
	display toolkit.Display
}

// NewClient returns a client for the daemon on the socket in opts. An
// empty socket path is filled with the default for this binary and user.
func NewClient(opts *options.Client) *Client {
	if opts.SocketPath == "" {
		opts.SocketPath = common.DefaultSocketPath()
	}
	return &Client{options: opts}
}

// Connect prepares the client for calls. In NoServer mode it opens the
// local clipboard backend. Otherwise it dials the daemon, spawning it
// first when AutoStart is set and nothing listens on the socket.
func (c *Client) Connect(ctx context.Context) error {
	if c.options.NoServer {
		display, err := clipboard.NewBackend(ctx, c.options.ClipboardBackend, c.options.MaxClipboardSize)
		if err != nil {
			return fmt.Errorf("opening %q clipboard backend: %w", c.options.ClipboardBackend, err)
		}
		c.display = display
		return nil
	}

	if c.IsServerRunning(ctx) {
		return c.dial()
	}

	if !c.options.AutoStart {
		return fmt.Errorf("%w: nothing listening on %s", ErrServerUnavailable, c.options.SocketPath)
	}

	if err := c.spawnDaemon(ctx); err != nil {
		return fmt.Errorf("spawning daemon: %w", err)
	}

	deadline := time.Now().Add(daemonStartupWait)
	for time.Now().Before(deadline) {
		time.Sleep(100 * time.Millisecond)
		if c.IsServerRunning(ctx) {
			return c.dial()
		}
	}

	return fmt.Errorf("%w: daemon did not listen on %s after %s", ErrServerUnavailable, c.options.SocketPath, daemonStartupWait)
}

// IsServerRunning reports whether the socket accepts connections.
func (c *Client) IsServerRunning(ctx context.Context) bool {
	d := net.Dialer{Timeout: time.Second}
	conn, err := d.DialContext(ctx, "unix", c.options.SocketPath)
	if err != nil {
		return false
	}
	conn.Close() //nolint:errcheck,gosec
	return true
}

// dial sets up the gRPC connection. The target is a placeholder, every
// connection goes through the unix socket dialer.
func (c *Client) dial() error {
	socket := c.options.SocketPath
	conn, err := grpc.NewClient(
		"passthrough:///hostshim",
		grpc.WithTransportCredentials(server.NewPeerCredentials()),
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "unix", socket)
		}),
	)
	if err != nil {
		return fmt.Errorf("creating connection to %s: %w", socket, err)
	}

	c.conn = conn
	c.client = common.NewHostShimClient(conn)
	return nil
}

// daemonCommand builds the command that runs the daemon: the configured
// server binary, or this executable's serve subcommand.
func (c *Client) daemonCommand(ctx context.Context) (*exec.Cmd, error) {
	if c.options.ServerBinary != "" {
		return exec.CommandContext(ctx, c.options.ServerBinary), nil //nolint:gosec // Path is configured
	}

	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locating own executable: %w", err)
	}
	return exec.CommandContext(ctx, self, "serve"), nil //nolint:gosec // Path is our own binary
}

// spawnDaemon starts the daemon in its own session so it survives the
// caller. It inherits the client options through EnvVarOptions.
func (c *Client) spawnDaemon(ctx context.Context) error {
	cmd, err := c.daemonCommand(context.WithoutCancel(ctx))
	if err != nil {
		return err
	}

	encoded, err := json.Marshal(c.options.Common)
	if err != nil {
		return fmt.Errorf("encoding daemon options: %w", err)
	}
	cmd.Env = append(os.Environ(), EnvVarOptions+"="+string(encoded))
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	if c.options.Debug {
		// Daemon logs end up next to the caller's
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	} else {
		devNull, err := os.OpenFile(os.DevNull, os.O_RDWR, 0)
		if err != nil {
			return fmt.Errorf("opening %s: %w", os.DevNull, err)
		}
		defer devNull.Close() //nolint:errcheck
		cmd.Stdin = devNull
		cmd.Stdout = devNull
		cmd.Stderr = devNull
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", cmd.Path, err)
	}

	// Reap the daemon if it exits while we are still around
	go cmd.Wait() //nolint:errcheck

	return nil
}

// Ping checks the daemon answers. It always succeeds in NoServer mode.
func (c *Client) Ping(ctx context.Context) error {
	if c.options.NoServer {
		return nil
	}
	if c.client == nil {
		return ErrNotConnected
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	resp, err := c.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrServerUnavailable, err)
	}
	if !resp.GetValue() {
		return fmt.Errorf("%w: daemon reported not ready", ErrServerUnavailable)
	}
	return nil
}

// Close releases the connection to the daemon.
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}
