// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

//go:build !linux && !darwin

package procinfo

// SetProcRoot is a no-op on platforms without procfs.
func SetProcRoot(string) {}

func getCwd(int32) (string, error) {
	return "", ErrUnsupported
}

func getBinaryPath(int32) (string, error) {
	return "", ErrUnsupported
}

func getOwner(int32) (uint32, error) {
	return 0, ErrUnsupported
}
