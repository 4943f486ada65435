// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gemini

import (
	"encoding/base64"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/morganforge/gemchat-tui/internal/model"
)

// =============================================================================
// DATA URI HANDLING
// =============================================================================

// jpegDataURIPrefix is the header a JPEG payload's data URI starts with.
// Anything else is treated as PNG.
const jpegDataURIPrefix = "data:image/jpeg"

// mimeFromDataURI infers the MIME type from a data URI header.
func mimeFromDataURI(uri string) string {
	if strings.HasPrefix(uri, jpegDataURIPrefix) {
		return "image/jpeg"
	}
	return "image/png"
}

// dataURIPayload decodes the base64 payload of a data URI.
func dataURIPayload(uri string) ([]byte, error) {
	_, payload, found := strings.Cut(uri, ",")
	if !found {
		return nil, fmt.Errorf("image is not a data URI")
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image payload: %w", err)
	}
	return data, nil
}

// dataURI encodes raw image bytes as a data URI with the given MIME type.
func dataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// imagePart converts a data URI into an inline-data part.
func imagePart(uri string) (*genai.Part, error) {
	data, err := dataURIPayload(uri)
	if err != nil {
		return nil, err
	}
	return genai.NewPartFromBytes(data, mimeFromDataURI(uri)), nil
}

// =============================================================================
// HISTORY TRANSLATION
// =============================================================================

// messageParts converts a message's image and text into ordered parts.
// The image part is emitted before the text part when both are present.
func messageParts(text, image string) ([]*genai.Part, error) {
	var parts []*genai.Part
	if image != "" {
		part, err := imagePart(image)
		if err != nil {
			return nil, err
		}
		parts = append(parts, part)
	}
	if text != "" {
		parts = append(parts, genai.NewPartFromText(text))
	}
	return parts, nil
}

// historyContents translates the prior chat history into the ordered
// role-tagged content sequence the conversational backend expects, with the
// new prompt (and optional image) appended as the final user entry.
func historyContents(history []model.Message, prompt, image string) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, len(history)+1)

	for _, msg := range history {
		parts, err := messageParts(msg.Text, msg.Image)
		if err != nil {
			return nil, err
		}
		role := genai.Role(genai.RoleUser)
		if msg.Role == model.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromParts(parts, role))
	}

	parts, err := messageParts(prompt, image)
	if err != nil {
		return nil, err
	}
	contents = append(contents, genai.NewContentFromParts(parts, genai.RoleUser))

	return contents, nil
}
