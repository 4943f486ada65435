// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session runs the send pipeline: append the user's message,
// route the prompt to a backend, and append the normalized result (or
// an error placeholder) to the chat.
//
// A single in-flight flag gates the pipeline. While a backend call is
// outstanding, further submissions are rejected with ErrBusy and no
// message is appended; there is no queueing and no cancellation. The
// flag is always cleared, success or failure.
package session
