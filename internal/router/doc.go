// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router classifies a submitted prompt and dispatches it to
// exactly one backend capability.
//
// Classification is ordered, first match wins: the "/generate " prefix
// requests image generation, the "/edit " prefix with an attached image
// requests an image edit, and everything else dispatches on the
// selected backend mode (web search, n8n agent, or conversational
// chat). A prompt matching no rule produces a fixed fallback response
// without touching any backend.
//
// Every backend result is reduced to the same Response shape so the
// send pipeline can turn it into a message without caring which
// capability produced it. Backend errors propagate to the caller
// unchanged; only the webhook backend normalizes its own failures into
// response text, because a misconfigured webhook is user-actionable in
// a way a transient model failure is not.
package router
