// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestHashFile(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a")
	b := filepath.Join(dir, "b")
	if err := os.WriteFile(a, []byte("binary-one"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("binary-two"), 0o600); err != nil {
		t.Fatal(err)
	}

	hashA, err := HashFile(a)
	if err != nil {
		t.Fatalf("HashFile failed: %v", err)
	}
	if len(hashA) != 64 {
		t.Errorf("Expected 64 hex chars, got %d", len(hashA))
	}

	again, err := HashFile(a)
	if err != nil {
		t.Fatal(err)
	}
	if again != hashA {
		t.Errorf("Hash is not deterministic: %s != %s", again, hashA)
	}

	hashB, err := HashFile(b)
	if err != nil {
		t.Fatal(err)
	}
	if hashB == hashA {
		t.Errorf("Different files produced the same hash")
	}

	if _, err := HashFile(filepath.Join(dir, "missing")); err == nil {
		t.Errorf("Expected error hashing a missing file")
	}
}

func TestSocketName(t *testing.T) {
	name := SocketName("abc", 1000)
	if !strings.HasPrefix(name, "hostshim-") || !strings.HasSuffix(name, ".sock") {
		t.Errorf("Unexpected socket name %q", name)
	}

	if SocketName("abc", 1000) != name {
		t.Errorf("Socket name is not deterministic")
	}

	if SocketName("abc", 1001) == name {
		t.Errorf("Expected different users to get different sockets")
	}

	if SocketName("abd", 1000) == name {
		t.Errorf("Expected different binaries to get different sockets")
	}
}

func TestDefaultSocketPath(t *testing.T) {
	path := DefaultSocketPath()
	if filepath.Dir(path) != filepath.Clean(os.TempDir()) {
		t.Errorf("Expected socket in %s, got %s", os.TempDir(), path)
	}
}
