// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"os"
	"path/filepath"

	"github.com/morganforge/gemchat-tui/internal/util"
)

// Storage keys for the two persisted blobs.
const (
	// KeyChats holds the full chat list as a JSON array.
	KeyChats = "chats"

	// KeyWebhookURL holds the n8n webhook URL as a JSON string.
	KeyWebhookURL = "webhook_url"
)

// =============================================================================
// PERSISTER INTERFACE
// =============================================================================

// Persister is the external key-value persistence collaborator.
// Implementations store opaque JSON blobs under fixed string keys.
type Persister interface {
	// Load returns the blob stored under key. The second return is false
	// when nothing is stored under that key.
	Load(key string) ([]byte, bool, error)

	// Save stores the blob under key, replacing any previous value.
	Save(key string, data []byte) error
}

// =============================================================================
// FILE PERSISTER
// =============================================================================

// FilePersister stores each key as a JSON file in a base directory.
// Writes are atomic (temp file + fsync + rename) so a crash mid-save leaves
// either the old blob or the new complete blob, never a torn file.
type FilePersister struct {
	// BaseDir is the directory holding the blob files.
	// Default: ~/.gemchat/
	BaseDir string
}

// NewFilePersister creates a persister rooted at the given directory,
// creating it if needed.
func NewFilePersister(baseDir string) (*FilePersister, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &FilePersister{BaseDir: baseDir}, nil
}

// Load reads the blob file for key. A missing file is reported as absent,
// not as an error.
func (p *FilePersister) Load(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(p.filePath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

// Save writes the blob file for key atomically.
func (p *FilePersister) Save(key string, data []byte) error {
	return util.AtomicWriteFile(p.filePath(key), data, 0644)
}

// filePath returns the blob file path for a storage key.
func (p *FilePersister) filePath(key string) string {
	return filepath.Join(p.BaseDir, key+".json")
}

// =============================================================================
// MEMORY PERSISTER
// =============================================================================

// MemPersister is an in-memory Persister for tests.
type MemPersister struct {
	blobs map[string][]byte
}

// NewMemPersister creates an empty in-memory persister.
func NewMemPersister() *MemPersister {
	return &MemPersister{blobs: make(map[string][]byte)}
}

// Load returns the blob stored under key.
func (p *MemPersister) Load(key string) ([]byte, bool, error) {
	data, ok := p.blobs[key]
	return data, ok, nil
}

// Save stores the blob under key.
func (p *MemPersister) Save(key string, data []byte) error {
	cp := make([]byte, len(data))
	copy(cp, data)
	p.blobs[key] = cp
	return nil
}
