// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/crypto/blake2b"
)

// HashFile computes the BLAKE2b-256 hash of a file
func HashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close() //nolint:errcheck

	hasher, err := blake2b.New256(nil)
	if err != nil {
		return "", fmt.Errorf("creating hasher: %w", err)
	}
	if _, err := io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("hashing file: %w", err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// GetCurrentBinaryHash returns the hash of the currently running binary
func GetCurrentBinaryHash() (string, error) {
	exePath, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting the executable path: %w", err)
	}

	// Resolve symlinks
	exePath, err = filepath.EvalSymlinks(exePath)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks: %w", err)
	}

	return HashFile(exePath)
}

// SocketName derives the socket file name for a binary hash and a user.
// Different users running the same binary get different sockets.
func SocketName(binaryHash string, uid int) string {
	var uidBytes [8]byte
	binary.BigEndian.PutUint64(uidBytes[:], uint64(uid)) //nolint:gosec

	sum := blake2b.Sum256(append([]byte(binaryHash), uidBytes[:]...))
	return fmt.Sprintf("hostshim-%x.sock", sum[:8])
}

// DefaultSocketPath returns the socket path for the running binary and user.
func DefaultSocketPath() string {
	hash, err := GetCurrentBinaryHash()
	if err != nil {
		// Fallback to a default path if we can't compute the hash
		hash = "unknown"
	}
	return filepath.Join(os.TempDir(), SocketName(hash, os.Getuid()))
}
