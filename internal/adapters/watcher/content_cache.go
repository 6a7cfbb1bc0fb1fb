package watcher

import (
	"io"
	"os"
	"sync"
	"unique"

	"github.com/cespare/xxhash/v2"
)

// ContentCache remembers content hashes of watched files so event batches
// that did not change any bytes (editor touch, identical re-save) can be
// dropped before they trigger a rerun.
type ContentCache struct {
	mu     sync.Mutex
	hashes map[unique.Handle[string]]uint64
}

// NewContentCache creates an empty content cache.
func NewContentCache() *ContentCache {
	return &ContentCache{
		hashes: make(map[unique.Handle[string]]uint64),
	}
}

// Changed filters paths down to those whose content differs from the cached
// hash, updating the cache as it goes. Paths that cannot be hashed (removed,
// unreadable) always count as changed. Directories never do.
func (c *ContentCache) Changed(paths []string) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	changed := make([]string, 0, len(paths))

	for _, path := range paths {
		handle := unique.Make(path)

		info, err := os.Stat(path)
		if err != nil {
			delete(c.hashes, handle)
			changed = append(changed, path)
			continue
		}
		if info.IsDir() {
			continue
		}

		hash, err := hashFile(path)
		if err != nil {
			delete(c.hashes, handle)
			changed = append(changed, path)
			continue
		}

		if prev, ok := c.hashes[handle]; ok && prev == hash {
			continue
		}
		c.hashes[handle] = hash
		changed = append(changed, path)
	}

	return changed
}

// hashFile computes the XXHash of a file's content.
func hashFile(path string) (uint64, error) {
	f, err := os.Open(path) //nolint:gosec // Paths come from the file watcher
	if err != nil {
		return 0, err
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	hasher := xxhash.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return 0, err
	}

	return hasher.Sum64(), nil
}
