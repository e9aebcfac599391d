package mazefile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boristopalov/mazerace/pkg/maze"
	"github.com/charmbracelet/log"
	"github.com/patrickmn/go-cache"
)

const useDefaultCacheTime = -1

// Loader reads maze files and hands out one shared *maze.Maze per path, so
// environments configured from the same file race on the same maze.
type Loader struct {
	cache  *cache.Cache
	logger *log.Logger
}

func NewLoader(logger *log.Logger) *Loader {
	return &Loader{
		cache:  cache.New(30*time.Minute, 60*time.Minute),
		logger: logger,
	}
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Load parses the maze at path, or returns the one already parsed.
func (l *Loader) Load(path string) (*maze.Maze, error) {
	key := cacheKey(path)
	if cached, ok := l.cache.Get(key); ok {
		m := cached.(*maze.Maze)
		l.logger.Debug("cache hit on maze", "path", key, "size", m)
		return m, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open maze: %w", err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse maze %s: %w", path, err)
	}
	l.cache.Set(key, m, useDefaultCacheTime)
	l.logger.Debug("loaded maze", "path", key, "size", m)
	return m, nil
}

// Save writes m to path and makes it the maze handed out for that path.
func (l *Loader) Save(path string, m *maze.Maze) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create maze file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close maze file: %w", cerr)
		}
	}()

	if err := Write(f, m); err != nil {
		return fmt.Errorf("write maze: %w", err)
	}
	l.cache.Set(cacheKey(path), m, useDefaultCacheTime)
	return nil
}

// Forget drops the cached maze for path; the next Load reads the file again.
func (l *Loader) Forget(path string) {
	l.cache.Delete(cacheKey(path))
}
