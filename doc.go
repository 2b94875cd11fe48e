// SPDX-FileCopyrightText: Copyright 2025 Carabiner Systems, Inc
// SPDX-License-Identifier: Apache-2.0

// Package hostshim is the client library of the hostshim daemon.
//
// hostshim gives host language runtimes two platform facilities they cannot
// reach natively: the working directory of an arbitrary process (see the
// procinfo package) and the toolkit clipboard (see the toolkit package).
// The client talks to a small gRPC server listening on a per-user unix
// socket, spawning it on demand, or runs the queries in-process when
// configured with NoServer.
package hostshim
