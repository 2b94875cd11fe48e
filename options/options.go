// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package options

import "time"

// Clipboard backends the server can be configured with
const (
	ClipboardAuto    = "auto"
	ClipboardSystem  = "system"
	ClipboardKeyring = "keyring"
	ClipboardMemory  = "memory"
)

// Common options for client and server options
type Common struct {
	SocketPath        string        `json:"socket_path"`
	InactivityTimeout time.Duration `json:"inactivity_timeout"`
	Debug             bool          `json:"debug"`
	EnvVarSocket      string        `json:"envar_socket"`
	EnvVarDebug       string        `json:"envar_debug"`
	MaxClipboardSize  int64         `json:"max_clipboard_size"` // Maximum clipboard text size in bytes
	ClipboardBackend  string        `json:"clipboard_backend"`
}

// Server options set
type Server struct {
	Common

	// AllowForeignProcesses lets any caller read the cwd of processes
	// owned by other users. By default only root can.
	AllowForeignProcesses bool `json:"allow_foreign_processes"`
}

// Client options set
type Client struct {
	Common

	// AutoStart spawns a server when none is listening on the socket
	AutoStart bool `json:"auto_start"`

	// NoServer runs every query in the client process
	NoServer bool `json:"no_server"`

	// ServerBinary is the program spawned by AutoStart. Empty means
	// the running binary invoked with the serve subcommand.
	ServerBinary string `json:"server_binary"`
}

// defaultCommon default common options shared by default server and client sets
var defaultCommon = Common{
	SocketPath:        "", // Empty = auto-generate based on client binary hash
	InactivityTimeout: 10 * time.Minute,
	Debug:             false,
	EnvVarSocket:      "HOSTSHIM_SOCKET",
	EnvVarDebug:       "HOSTSHIM_DEBUG",
	MaxClipboardSize:  1024 * 1024, // 1 MB
	ClipboardBackend:  ClipboardAuto,
}

// DefaultClient returns the default client options
func DefaultClient() *Client {
	return &Client{
		Common:    defaultCommon,
		AutoStart: true,
	}
}

// DefaultServer returns the default server options
func DefaultServer() *Server {
	return &Server{
		Common: defaultCommon,
	}
}
