// Gamenight - Steam Library Aggregation and Game-Night Recommendations
// Copyright 2026 Gamenight contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/gamenighthq/gamenight

// Package middleware provides HTTP middleware shared by the API router:
// request id propagation and Prometheus request instrumentation.
package middleware
