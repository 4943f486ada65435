// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package gemini wraps the Google GenAI SDK for the four Gemini-backed
// capabilities: conversational chat (fast and capable tiers), web-search
// grounded generation, image generation, and image editing.
//
// Images cross this boundary as data URIs (data:image/...;base64,...), the
// same encoding the chat history persists.
package gemini
