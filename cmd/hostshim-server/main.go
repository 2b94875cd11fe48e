// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package main provides a minimal server-only entry point for the hostshim
// daemon, for deployments that run it as a user service instead of letting
// clients spawn it on demand. It is configured from the environment.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/chainguard-dev/clog"

	"github.com/carabiner-dev/hostshim/internal/common"
	"github.com/carabiner-dev/hostshim/internal/server"
	"github.com/carabiner-dev/hostshim/options"
)

func main() {
	serverOpts := options.DefaultServer()

	if socketPath := os.Getenv(serverOpts.EnvVarSocket); socketPath != "" {
		serverOpts.SocketPath = socketPath
	} else {
		serverOpts.SocketPath = common.DefaultSocketPath()
	}

	if backend := os.Getenv("HOSTSHIM_CLIPBOARD_BACKEND"); backend != "" {
		serverOpts.ClipboardBackend = backend
	}

	// Running as a service, only exit when told to
	serverOpts.InactivityTimeout = 0

	level := slog.LevelInfo
	if os.Getenv(serverOpts.EnvVarDebug) == "1" {
		serverOpts.Debug = true
		level = slog.LevelDebug
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx = clog.WithLogger(ctx, clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	srv, err := server.NewServer(ctx, serverOpts, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create server: %v\n", err)
		os.Exit(1) //nolint:gocritic
	}

	clog.FromContext(ctx).Infof("Starting hostshim server on %s", serverOpts.SocketPath)

	if err := srv.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
