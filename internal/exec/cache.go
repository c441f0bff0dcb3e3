package exec

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"golang.org/x/crypto/blake2b"

	"adeptc/internal/task"
)

// cacheSchemaVersion is bumped whenever the on-disk entry shape changes
// incompatibly; a mismatched header means the whole file is discarded
// rather than partially trusted, per spec §4.1 "on start, the cache is
// loaded (if schema version matches)".
const cacheSchemaVersion = "adept.cache v1\n"

// cacheEntry is one persisted request_key -> (output, inputs_fingerprint,
// revision_completed) row, spec §4.1's cache mapping. Output is stored
// as a raw JSON message rather than interface{} so loading does not
// need to know every task's result type up front; lookup decodes it
// into a generic interface{} value (JSON maps, slices, float64, string,
// bool), not into the task's own result type.
type cacheEntry struct {
	Key         string          `json:"key"`
	Fingerprint string          `json:"fp"`
	Output      json.RawMessage `json:"out"`
	Revision    int64           `json:"rev"`
}

// Cache is the executor's persisted, cross-invocation result cache.
// Fingerprinting uses blake2b (golang.org/x/crypto/blake2b, a teacher
// dependency) rather than a general-purpose hash: it is fast, has no
// known collision weaknesses at the digest sizes used here, and the
// teacher's own module-fetch layer (cmd_local/go/internal/modfetch)
// fingerprints module content the same way, with a cryptographic hash
// over a canonical byte encoding of the thing being cached.
type Cache struct {
	path     string
	revision int64

	mu      sync.Mutex
	entries map[string]cacheEntry
	dirty   bool
}

func newEmptyCache() *Cache {
	return &Cache{entries: make(map[string]cacheEntry)}
}

// LoadCache reads path, returning an empty cache (not an error) if the
// file is missing or its header does not match cacheSchemaVersion.
func LoadCache(path string) (*Cache, error) {
	c := newEmptyCache()
	c.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, err
	}

	header := []byte(cacheSchemaVersion)
	if !bytes.HasPrefix(data, header) {
		return c, nil
	}
	body := data[len(header):]

	var rows []cacheEntry
	if err := json.Unmarshal(body, &rows); err != nil {
		return c, nil
	}
	for _, row := range rows {
		c.entries[row.Key] = row
		if row.Revision >= c.revision {
			c.revision = row.Revision
		}
	}
	return c, nil
}

// Save writes the cache back to its path, a no-op if it was never
// loaded from or pointed at a path, or if nothing changed since load.
func (c *Cache) Save() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.path == "" || !c.dirty {
		return nil
	}

	rows := make([]cacheEntry, 0, len(c.entries))
	for _, e := range c.entries {
		rows = append(rows, e)
	}
	body, err := json.Marshal(rows)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString(cacheSchemaVersion)
	buf.Write(body)
	return os.WriteFile(c.path, buf.Bytes(), 0o644)
}

// fingerprint computes the blake2b digest of t's task.Key, the cached
// "inputs" identity spec §4.1 compares against on the next request. A
// structural Go value is hashed via fmt's %#v rendering, which is
// stable across runs for the plain comparable structs task.Key values
// are expected to be built from (see task.Key's doc comment).
func (c *Cache) fingerprint(t task.Task) []byte {
	sum := blake2b.Sum256([]byte(fmt.Sprintf("%#v", t.Key())))
	return sum[:]
}

func keyString(k task.Key) string { return fmt.Sprintf("%#v", k) }

// lookup returns the cached output for key if present and its stored
// fingerprint matches fp exactly.
func (c *Cache) lookup(key task.Key, fp []byte) (interface{}, bool) {
	c.mu.Lock()
	entry, ok := c.entries[keyString(key)]
	c.mu.Unlock()
	if !ok || entry.Fingerprint != hex.EncodeToString(fp) {
		return nil, false
	}
	var out interface{}
	if err := json.Unmarshal(entry.Output, &out); err != nil {
		return nil, false
	}
	return out, true
}

// store records a freshly computed output in the in-memory cache; it
// is written to disk only by a subsequent Save call, matching the
// teacher's pattern of batching writes rather than fsyncing per entry.
func (c *Cache) store(key task.Key, fp []byte, output interface{}) {
	raw, err := json.Marshal(output)
	if err != nil {
		return
	}
	c.mu.Lock()
	c.revision++
	c.entries[keyString(key)] = cacheEntry{
		Key:         keyString(key),
		Fingerprint: hex.EncodeToString(fp),
		Output:      raw,
		Revision:    c.revision,
	}
	c.dirty = true
	c.mu.Unlock()
}
