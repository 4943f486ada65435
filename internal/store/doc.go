// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store owns the chat list and the active selection, and persists
// both the list and the webhook URL through an injected key-value Persister.
//
// Every chat mutation goes through Store.Update, which keeps persistence
// triggering centralized: the list is saved as a side effect of any change,
// except that an empty list is never written (so a crash before Load cannot
// erase saved data).
package store
