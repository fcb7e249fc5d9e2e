package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/bethropolis/rwalk/internal/pattern"
)

// DefaultCacheSize is the number of compiled ignore files kept by the
// process-wide cache.
const DefaultCacheSize = 1024

// Cache keeps compiled ignore files keyed by path, modification time, size
// and compile flags, so repeated walks over the same tree skip re-parsing.
// Concurrent loads of the same file are collapsed into one.
type Cache struct {
	sets  *lru.Cache[cacheKey, *RuleSet]
	group singleflight.Group
}

type cacheKey struct {
	path    string
	dir     string
	modTime int64
	size    int64
	tier    pattern.Tier
	fold    bool
}

func (k cacheKey) String() string {
	return fmt.Sprintf("%s|%s|%d|%d|%d|%t", k.path, k.dir, k.modTime, k.size, k.tier, k.fold)
}

var defaultCache = mustNewCache(DefaultCacheSize)

// DefaultCache returns the process-wide cache.
func DefaultCache() *Cache { return defaultCache }

// NewCache creates a cache holding up to size rule sets.
func NewCache(size int) (*Cache, error) {
	sets, err := lru.New[cacheKey, *RuleSet](size)
	if err != nil {
		return nil, fmt.Errorf("ignore: create rule cache: %w", err)
	}
	return &Cache{sets: sets}, nil
}

func mustNewCache(size int) *Cache {
	c, err := NewCache(size)
	if err != nil {
		panic(err)
	}
	return c
}

// Len returns the number of cached rule sets.
func (c *Cache) Len() int { return c.sets.Len() }

// Purge drops every cached rule set.
func (c *Cache) Purge() { c.sets.Purge() }

// Load returns the compiled rules of the ignore file at path, with patterns
// relative to dir. A missing file, or a path that is not a regular file,
// yields a nil RuleSet and a nil error.
func (c *Cache) Load(path, dir string, tier pattern.Tier, caseInsensitive bool) (*RuleSet, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, nil
	}

	key := cacheKey{
		path:    path,
		dir:     dir,
		modTime: info.ModTime().UnixNano(),
		size:    info.Size(),
		tier:    tier,
		fold:    caseInsensitive,
	}
	if set, ok := c.sets.Get(key); ok {
		return set, nil
	}

	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		set, err := readRuleFile(path, dir, tier, caseInsensitive)
		if err != nil {
			return nil, err
		}
		c.sets.Add(key, set)
		return set, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*RuleSet), nil
}

// readRuleFile parses one ignore file without caching.
func readRuleFile(path, dir string, tier pattern.Tier, caseInsensitive bool) (*RuleSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	patterns, err := pattern.ParseLines(f, pattern.Options{
		Dir:             dir,
		CaseInsensitive: caseInsensitive,
		Tier:            tier,
		Source:          path,
	})
	if err != nil {
		return nil, err
	}
	return NewRuleSet(tier, dir, path, patterns), nil
}
