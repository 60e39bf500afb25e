package astsvc

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"structscan/internal/errs"
	"structscan/internal/obs"
)

// CachedTree is the cached result of parsing one file: its simplified AST
// (if the adapter could produce one) alongside the normalized-source and
// language tag needed by downstream shingling and tree-diff stages.
type CachedTree struct {
	CacheKey string
	Language string
	Source   string
	Root     *Node // nil if the adapter has no tree for this language
	ParseErr *ParseError
}

// DefaultCacheSize bounds the AST service's parsed-tree cache (spec §4.A
// "bounded LRU cache of parsed trees").
const DefaultCacheSize = 2048

// Service is the AST service (spec §4.A): get_ast, create_context, and
// find_entity_node, backed by a bounded LRU and per-key parse locks so
// concurrent requests for the same file parse it exactly once.
type Service struct {
	registry *Registry
	cache    *lru.Cache[string, *CachedTree]

	keyLocksMu sync.Mutex
	keyLocks   map[string]*sync.Mutex
}

// NewService creates an AST service with the default cache size.
func NewService(registry *Registry) *Service {
	return NewServiceWithCacheSize(registry, DefaultCacheSize)
}

// NewServiceWithCacheSize creates an AST service with an explicit LRU size.
func NewServiceWithCacheSize(registry *Registry, size int) *Service {
	c, _ := lru.New[string, *CachedTree](size)
	return &Service{
		registry: registry,
		cache:    c,
		keyLocks: make(map[string]*sync.Mutex),
	}
}

func (s *Service) lockFor(key string) *sync.Mutex {
	s.keyLocksMu.Lock()
	defer s.keyLocksMu.Unlock()
	m, ok := s.keyLocks[key]
	if !ok {
		m = &sync.Mutex{}
		s.keyLocks[key] = m
	}
	return m
}

// GetAST returns the cached parse of source under cacheKey (typically the
// file path, or path+content-hash for content-addressed callers), parsing
// and inserting into the cache on a miss. Concurrent GetAST calls for the
// same cacheKey block on one another rather than duplicating the parse.
func (s *Service) GetAST(cacheKey, path, source string) (*CachedTree, error) {
	if t, ok := s.cache.Get(cacheKey); ok {
		return t, nil
	}

	mu := s.lockFor(cacheKey)
	mu.Lock()
	defer mu.Unlock()

	// Re-check: another goroutine may have populated the cache while we
	// waited for the per-key lock.
	if t, ok := s.cache.Get(cacheKey); ok {
		return t, nil
	}

	adapter := s.registry.For(path)
	if adapter == nil {
		pe := &ParseError{Path: path, Detail: "no adapter registered for extension"}
		t := &CachedTree{CacheKey: cacheKey, Source: source, ParseErr: pe}
		s.cache.Add(cacheKey, t)
		return t, errs.ParseError(path, pe.Detail, pe)
	}

	root, err := adapter.ParseTree(source)
	t := &CachedTree{
		CacheKey: cacheKey,
		Language: adapter.Language(),
		Source:   source,
		Root:     root,
	}
	if err != nil {
		t.ParseErr = &ParseError{Path: path, Detail: err.Error()}
		obs.For(obs.CategoryAST).Warn("parse failed, caching partial result",
			zap.String("path", path), zap.Error(err))
	}
	s.cache.Add(cacheKey, t)
	if t.ParseErr != nil {
		return t, errs.ParseError(path, t.ParseErr.Detail, err)
	}
	return t, nil
}

// Purge evicts a cache key, forcing the next GetAST to reparse.
func (s *Service) Purge(cacheKey string) {
	s.cache.Remove(cacheKey)
}

// Len returns the number of trees currently cached.
func (s *Service) Len() int {
	return s.cache.Len()
}
