package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// FileStore keeps the cache as a flat JSON object {"<key>": distance}
type FileStore struct {
	memo
	filePath string
}

// NewFileStore creates a file-backed store; nothing is read until Load
func NewFileStore(filePath string) *FileStore {
	return &FileStore{memo: newMemo(), filePath: filePath}
}

// Path returns the backing file path
func (c *FileStore) Path() string {
	return c.filePath
}

// Load reads the cache file. A missing or unreadable file yields an
// empty cache.
func (c *FileStore) Load(ctx context.Context) error {
	data, err := os.ReadFile(c.filePath)
	if os.IsNotExist(err) {
		c.replace(make(map[string]float64))
		return nil
	}
	if err != nil {
		log.Printf("[WARN] Failed to read cache file %s, starting empty: %v", c.filePath, err)
		c.replace(make(map[string]float64))
		return nil
	}

	entries := make(map[string]float64)
	if err := json.Unmarshal(data, &entries); err != nil {
		log.Printf("[WARN] Failed to parse cache file %s, starting empty: %v", c.filePath, err)
		c.replace(make(map[string]float64))
		return nil
	}

	c.replace(entries)
	log.Printf("[CACHE] Loaded distance cache: %d entries", len(entries))
	return nil
}

// Save writes the whole mapping atomically (temp file + rename)
func (c *FileStore) Save(ctx context.Context) error {
	keys, _ := c.pending()
	data, err := json.Marshal(c.snapshot())
	if err != nil {
		return fmt.Errorf("failed to marshal cache data: %w", err)
	}

	if dir := filepath.Dir(c.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create cache directory: %w", err)
		}
	}

	tmpFile := c.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}

	if err := os.Rename(tmpFile, c.filePath); err != nil {
		return fmt.Errorf("failed to rename temp cache file: %w", err)
	}

	c.markClean(keys)
	return nil
}

// Close is a no-op for the file store
func (c *FileStore) Close() error {
	return nil
}
