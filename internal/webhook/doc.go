// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package webhook calls a user-configured n8n workflow webhook and
// normalizes whatever JSON shape the workflow returns into display text.
//
// Unlike the Gemini backends, webhook failures are recoverable and
// user-actionable (wrong URL, inactive workflow, CORS), so the client never
// surfaces an error to the caller: misconfiguration and transport failures
// are converted into diagnostic response text instead.
package webhook
