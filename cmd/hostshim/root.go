// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/carabiner-dev/hostshim"
	"github.com/carabiner-dev/hostshim/internal/common"
	"github.com/carabiner-dev/hostshim/internal/server"
	"github.com/carabiner-dev/hostshim/options"
	"github.com/carabiner-dev/hostshim/toolkit"
)

const longDescription = `hostshim - process and clipboard shims for host runtimes

hostshim reads the working directory of other processes and gives access
to the toolkit clipboard through a small daemon listening on a per-user
unix socket. The daemon is started on demand and exits after a period of
inactivity.

Every flag can also be set in the environment with the HOSTSHIM_ prefix,
for example HOSTSHIM_SOCKET or HOSTSHIM_DEBUG=1.`

// settings holds the configuration resolved from flags and environment
type settings struct {
	v *viper.Viper
}

func (s *settings) common() options.Common {
	c := options.DefaultClient().Common
	c.SocketPath = s.v.GetString("socket")
	c.Debug = s.v.GetBool("debug")
	c.ClipboardBackend = s.v.GetString("clipboard-backend")
	c.MaxClipboardSize = s.v.GetInt64("max-clipboard-size")
	c.InactivityTimeout = s.v.GetDuration("inactivity-timeout")
	return c
}

func (s *settings) clientOptions() *options.Client {
	opts := options.DefaultClient()
	opts.Common = s.common()
	opts.NoServer = s.v.GetBool("local")
	return opts
}

func newRootCommand() *cobra.Command {
	s := &settings{v: viper.New()}
	s.v.SetEnvPrefix("HOSTSHIM")
	s.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	s.v.AutomaticEnv()

	defaults := options.DefaultClient()

	cmd := &cobra.Command{
		Use:           "hostshim",
		Short:         "Process and clipboard shims for host runtimes",
		Long:          longDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SetContext(withLogger(cmd.Context(), s.v.GetBool("debug")))
			return nil
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("socket", "", "unix socket path (defaults to a per-binary, per-user tmp path)")
	flags.Bool("debug", false, "enable debug output")
	flags.Bool("local", false, "run queries in this process instead of the daemon")
	flags.String("clipboard-backend", defaults.ClipboardBackend, "clipboard backend: auto, system, keyring or memory")
	flags.Int64("max-clipboard-size", defaults.MaxClipboardSize, "maximum clipboard text size in bytes")
	flags.Duration("inactivity-timeout", defaults.InactivityTimeout, "daemon shutdown delay when idle")
	if err := s.v.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("binding flags: %v", err))
	}

	cmd.AddCommand(
		newCwdCommand(s),
		newClipboardCommand(s),
		newDragActionCommand(),
		newPingCommand(s),
		newServeCommand(s),
	)
	return cmd
}

// withLogger sets up the clog logger carried in the context
func withLogger(ctx context.Context, debug bool) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	logger := clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return clog.WithLogger(ctx, logger)
}

// connect creates a client and connects it
func connect(ctx context.Context, s *settings) (*hostshim.Client, error) {
	c := hostshim.NewClient(s.clientOptions())
	if err := c.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	return c, nil
}

func newCwdCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "cwd <pid>",
		Short: "Print the current working directory of a process",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := strconv.ParseInt(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid pid: %w", err)
			}

			c, err := connect(cmd.Context(), s)
			if err != nil {
				return err
			}
			defer c.Close() //nolint:errcheck

			path, err := c.ReadCwd(cmd.Context(), int32(pid))
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
}

func newClipboardCommand(s *settings) *cobra.Command {
	var selection string

	selectionFlag := func() (toolkit.Selection, error) {
		return toolkit.ParseSelection(selection)
	}

	cmd := &cobra.Command{
		Use:   "clipboard",
		Short: "Read and write the toolkit clipboard",
	}
	cmd.PersistentFlags().StringVar(&selection, "selection", "CLIPBOARD", "selection to use: CLIPBOARD or PRIMARY")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "get",
			Short: "Print the clipboard text",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				sel, err := selectionFlag()
				if err != nil {
					return err
				}
				c, err := connect(cmd.Context(), s)
				if err != nil {
					return err
				}
				defer c.Close() //nolint:errcheck

				text, err := c.ClipboardText(cmd.Context(), sel)
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), text)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <text>",
			Short: "Replace the clipboard text",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				sel, err := selectionFlag()
				if err != nil {
					return err
				}
				c, err := connect(cmd.Context(), s)
				if err != nil {
					return err
				}
				defer c.Close() //nolint:errcheck

				return c.SetClipboardText(cmd.Context(), sel, args[0])
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the clipboard",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				sel, err := selectionFlag()
				if err != nil {
					return err
				}
				c, err := connect(cmd.Context(), s)
				if err != nil {
					return err
				}
				defer c.Close() //nolint:errcheck

				return c.ClearClipboard(cmd.Context(), sel)
			},
		},
	)
	return cmd
}

func newDragActionCommand() *cobra.Command {
	var actions string

	cmd := &cobra.Command{
		Use:   "drag-action <suggested>",
		Short: "Print the toolkit value of a drag action",
		Long: `Prints the numeric toolkit value of the action a drag source suggests,
for hosts that cannot reference the toolkit constants. Actions are
written as names joined by "|", eg "copy|move".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			suggested, err := toolkit.ParseDragAction(args[0])
			if err != nil {
				return err
			}
			supported, err := toolkit.ParseDragAction(actions)
			if err != nil {
				return err
			}

			drag := toolkit.NewDrag(suggested, supported)
			action := toolkit.ExtractSuggestedAction(drag)
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", uint32(action), action, drag.Actions())
			return nil
		},
	}
	cmd.Flags().StringVar(&actions, "actions", "", "actions supported by the drag source")
	return cmd
}

func newPingCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check if the daemon is running",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := s.clientOptions()
			opts.AutoStart = false
			c := hostshim.NewClient(opts)

			// If the server is not running, stop here to avoid
			// starting the daemon when just checking.
			if !opts.NoServer && !c.IsServerRunning(cmd.Context()) {
				return fmt.Errorf("server is not running")
			}

			if err := c.Connect(cmd.Context()); err != nil {
				return fmt.Errorf("error connecting to server: %w", err)
			}
			defer c.Close() //nolint:errcheck

			if err := c.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("server ping failed: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "server is alive")
			return nil
		},
	}
}

func newServeCommand(s *settings) *cobra.Command {
	var allowForeign bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the daemon in the foreground",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := options.DefaultServer()
			opts.Common = s.common()
			opts.AllowForeignProcesses = allowForeign

			// A server spawned by a client gets its options as JSON
			if raw := os.Getenv(hostshim.EnvVarOptions); raw != "" {
				if err := json.Unmarshal([]byte(raw), &opts.Common); err != nil {
					return fmt.Errorf("parsing %s: %w", hostshim.EnvVarOptions, err)
				}
				cmd.SetContext(withLogger(cmd.Context(), opts.Debug))
			}

			if opts.SocketPath == "" {
				opts.SocketPath = common.DefaultSocketPath()
			}

			srv, err := server.NewServer(cmd.Context(), opts, nil)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			clog.FromContext(cmd.Context()).Debugf("Starting hostshim server on %s", opts.SocketPath)
			return srv.Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&allowForeign, "allow-foreign-processes", false, "let any user read the cwd of processes they do not own")
	return cmd
}
