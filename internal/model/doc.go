// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chats, messages, grounding
// sources, and backend modes.
//
// All types serialize to JSON for persistence. Messages are immutable once
// created; the only mutation a chat supports is whole-message deletion.
package model
