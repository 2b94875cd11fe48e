// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package clipboard

// hasDesktopSession is always true where the clipboard is reached through
// the OS instead of a display server.
func hasDesktopSession() bool {
	return true
}
