package dictionary

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileCache keeps one JSON response per word under rootDir.
type FileCache struct {
	rootDir string
}

func NewFileCache(cacheDirectory string) *FileCache {
	return &FileCache{
		rootDir: cacheDirectory,
	}
}

func (f *FileCache) filePath(word string) string {
	name := strings.ToLower(strings.TrimSpace(word))
	name = strings.ReplaceAll(name, "/", "_")
	return filepath.Join(f.rootDir, name+".json")
}

// cache returns the stored response of a word, or stores what fetch returns.
func (cache *FileCache) cache(word string, fetch func() ([]byte, error)) ([]byte, error) {
	contents, err := cache.read(word)
	if err == nil {
		return contents, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("cache.read > %w", err)
	}

	contents, err = fetch()
	if err != nil {
		return nil, fmt.Errorf("fetch(%s) > %w", word, err)
	}

	if err := os.MkdirAll(cache.rootDir, 0o755); err != nil {
		return contents, fmt.Errorf("os.MkdirAll > %w", err)
	}
	if err := os.WriteFile(cache.filePath(word), contents, 0o644); err != nil {
		return contents, fmt.Errorf("os.WriteFile > %w", err)
	}
	return contents, nil
}

func (cache *FileCache) read(word string) ([]byte, error) {
	return os.ReadFile(cache.filePath(word))
}
