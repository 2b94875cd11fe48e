// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

//go:build linux

package procinfo

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
)

var (
	procRoot   = "/proc"
	procRootMu sync.RWMutex
)

// SetProcRoot changes the procfs mount used to look up processes. This
// is needed when running in a container with the host procfs mounted
// somewhere else (eg /host/proc).
func SetProcRoot(root string) {
	procRootMu.Lock()
	defer procRootMu.Unlock()
	procRoot = root
}

func procPath(pid int32, elem ...string) string {
	procRootMu.RLock()
	defer procRootMu.RUnlock()
	return filepath.Join(append([]string{procRoot, strconv.Itoa(int(pid))}, elem...)...)
}

// getCwd reads the /proc/[pid]/cwd symlink
func getCwd(pid int32) (string, error) {
	return os.Readlink(procPath(pid, "cwd"))
}

// getBinaryPath gets the binary path for a process on Linux
func getBinaryPath(pid int32) (string, error) {
	return os.Readlink(procPath(pid, "exe"))
}

// getOwner returns the owner of the /proc/[pid] directory, which procfs
// sets to the effective UID of the process.
func getOwner(pid int32) (uint32, error) {
	info, err := os.Stat(procPath(pid))
	if err != nil {
		return 0, err
	}

	st, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, fmt.Errorf("unexpected stat type %T", info.Sys())
	}
	return st.Uid, nil
}
