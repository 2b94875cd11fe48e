// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package procinfo reads information about other processes on the host,
// most importantly their current working directory, using the native
// process information facility of each platform.
package procinfo

import (
	"errors"
	"fmt"
)

var (
	// ErrQueryFailed is returned when the OS cannot supply the process
	// metadata: the process does not exist, the caller lacks permission
	// or the platform API returned no data.
	ErrQueryFailed = errors.New("process query failed")

	// ErrBufferTooSmall is returned by ReadCwd when the caller buffer
	// cannot hold the path and its terminator.
	ErrBufferTooSmall = errors.New("buffer too small")

	// ErrUnsupported is wrapped in ErrQueryFailed on platforms that
	// have no process information backend.
	ErrUnsupported = errors.New("process information not supported on this platform")
)

// ReadCwd writes the current working directory of the process pid into
// buf followed by a NUL terminator and returns the length of the path,
// not counting the terminator.
//
// On failure it returns -1 and buf is not written.
func ReadCwd(pid int32, buf []byte) (int, error) {
	path, err := Cwd(pid)
	if err != nil {
		return -1, err
	}

	if len(path)+1 > len(buf) {
		return -1, fmt.Errorf("%w: path needs %d bytes, buffer holds %d", ErrBufferTooSmall, len(path)+1, len(buf))
	}

	n := copy(buf, path)
	buf[n] = 0
	return n, nil
}

// Cwd returns the current working directory of the process pid.
func Cwd(pid int32) (string, error) {
	if pid <= 0 {
		return "", fmt.Errorf("%w: invalid pid %d", ErrQueryFailed, pid)
	}

	path, err := getCwd(pid)
	if err != nil {
		return "", fmt.Errorf("%w: reading cwd of pid %d: %w", ErrQueryFailed, pid, err)
	}

	if path == "" {
		return "", fmt.Errorf("%w: no cwd returned for pid %d", ErrQueryFailed, pid)
	}

	return path, nil
}

// Executable returns the path to the binary the process pid is running.
func Executable(pid int32) (string, error) {
	if pid <= 0 {
		return "", fmt.Errorf("%w: invalid pid %d", ErrQueryFailed, pid)
	}

	path, err := getBinaryPath(pid)
	if err != nil {
		return "", fmt.Errorf("%w: reading executable of pid %d: %w", ErrQueryFailed, pid, err)
	}
	return path, nil
}

// Owner returns the real user ID the process pid runs as.
func Owner(pid int32) (uint32, error) {
	if pid <= 0 {
		return 0, fmt.Errorf("%w: invalid pid %d", ErrQueryFailed, pid)
	}

	uid, err := getOwner(pid)
	if err != nil {
		return 0, fmt.Errorf("%w: reading owner of pid %d: %w", ErrQueryFailed, pid, err)
	}
	return uid, nil
}
