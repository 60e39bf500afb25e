package cohesion

import (
	"bytes"
	"database/sql"
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "github.com/mattn/go-sqlite3"

	"go.uber.org/zap"

	"structscan/internal/obs"
)

// Cache fronts the embedding provider with an in-memory LRU keyed by the
// xxhash of the embedded text (spec §4.L: "cached by xxhash of text, LRU
// cap ~10k entries"), backed by an optional sqlite-vec store so embeddings
// persist across runs over an unchanged tree. Grounded on the teacher's
// vector_store.go pairing of mattn/go-sqlite3 with sqlite-vec, adapted from
// a content-addressed document store to a text-hash-addressed embedding
// cache.
type Cache struct {
	mu        sync.Mutex
	lru       *lru.Cache[uint64, []float32]
	db        *sql.DB
	vectorExt bool
	dim       int
}

// NewCache opens (or creates) a sqlite-backed embedding cache at dbPath. An
// empty dbPath disables persistence; the LRU still works in-memory only.
func NewCache(dbPath string, size int, dim int) (*Cache, error) {
	if size <= 0 {
		size = 10000
	}
	l, err := lru.New[uint64, []float32](size)
	if err != nil {
		return nil, fmt.Errorf("cohesion: building embedding lru: %w", err)
	}
	c := &Cache{lru: l, dim: dim}
	if dbPath == "" {
		return c, nil
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("cohesion: opening embedding cache db: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS embeddings (hash INTEGER PRIMARY KEY, vector BLOB NOT NULL)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("cohesion: creating embeddings table: %w", err)
	}
	c.db = db
	c.initVecIndex(dim)
	return c, nil
}

// initVecIndex attempts to create the sqlite-vec virtual table; if the
// extension isn't loaded (no sqlite_vec build tag), the cache degrades to
// the plain embeddings table only — matching the teacher's optional-ANN
// pattern.
func (c *Cache) initVecIndex(dim int) {
	if dim <= 0 || c.db == nil {
		return
	}
	stmt := fmt.Sprintf("CREATE VIRTUAL TABLE IF NOT EXISTS vec_embeddings USING vec0(embedding float[%d])", dim)
	if _, err := c.db.Exec(stmt); err == nil {
		c.vectorExt = true
		obs.For(obs.CategoryCohesion).Info("sqlite-vec embedding index initialized", zap.Int("dimensions", dim))
	} else {
		obs.For(obs.CategoryCohesion).Warn("sqlite-vec unavailable, falling back to plain blob cache", zap.Error(err))
	}
}

// TextKey hashes text to the cache key (spec §4.L "cached by xxhash of
// text").
func TextKey(text string) uint64 {
	return xxhash.Sum64String(text)
}

// Get returns a cached embedding for the given text, checking the in-memory
// LRU first and falling back to the persistent store.
func (c *Cache) Get(text string) ([]float32, bool) {
	key := TextKey(text)
	c.mu.Lock()
	defer c.mu.Unlock()
	if v, ok := c.lru.Get(key); ok {
		return v, true
	}
	if c.db == nil {
		return nil, false
	}
	var blob []byte
	err := c.db.QueryRow(`SELECT vector FROM embeddings WHERE hash = ?`, int64(key)).Scan(&blob)
	if err != nil {
		return nil, false
	}
	vec := decodeFloat32Slice(blob)
	c.lru.Add(key, vec)
	return vec, true
}

// Put stores an embedding under the text's hash key, in the LRU and (if
// enabled) the persistent store.
func (c *Cache) Put(text string, vec []float32) {
	key := TextKey(text)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lru.Add(key, vec)
	if c.db == nil {
		return
	}
	blob := encodeFloat32Slice(vec)
	if _, err := c.db.Exec(`INSERT OR REPLACE INTO embeddings (hash, vector) VALUES (?, ?)`, int64(key), blob); err != nil {
		obs.For(obs.CategoryCohesion).Warn("failed to persist embedding", zap.Error(err))
		return
	}
	if c.vectorExt {
		if _, err := c.db.Exec(`INSERT OR REPLACE INTO vec_embeddings (rowid, embedding) VALUES (?, ?)`, int64(key), blob); err != nil {
			obs.For(obs.CategoryCohesion).Warn("failed to persist vec_embeddings row", zap.Error(err))
		}
	}
}

// Close releases the underlying database handle, if any.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func encodeFloat32Slice(vec []float32) []byte {
	buf := &bytes.Buffer{}
	_ = binary.Write(buf, binary.LittleEndian, vec)
	return buf.Bytes()
}

func decodeFloat32Slice(blob []byte) []float32 {
	n := len(blob) / 4
	out := make([]float32, n)
	r := bytes.NewReader(blob)
	_ = binary.Read(r, binary.LittleEndian, &out)
	return out
}
