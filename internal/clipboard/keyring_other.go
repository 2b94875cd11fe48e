// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

//go:build !linux

package clipboard

import (
	"fmt"

	"github.com/carabiner-dev/hostshim/toolkit"
)

// NewKeyringDisplay always returns an error on non-Linux platforms.
func NewKeyringDisplay(int64) (toolkit.Display, error) {
	return nil, fmt.Errorf("%w: kernel keyring is only supported on Linux", ErrUnavailable)
}
