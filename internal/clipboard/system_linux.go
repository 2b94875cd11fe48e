// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package clipboard

import "os"

// hasDesktopSession reports whether an X11 or Wayland display is set. The
// clipboard utilities are installed on many headless hosts where they can
// only fail.
func hasDesktopSession() bool {
	return os.Getenv("DISPLAY") != "" || os.Getenv("WAYLAND_DISPLAY") != ""
}
