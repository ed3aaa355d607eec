// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the application runtime.
//
// It wires storage, the peer adapter, the network scanner, services, the
// peer endpoint and the terminal UI into a single process lifecycle.
package client
