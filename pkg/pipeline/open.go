package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/tagscout/pkg/cache"
	"github.com/matzehuels/tagscout/pkg/errors"
	"github.com/matzehuels/tagscout/pkg/session"
	"github.com/matzehuels/tagscout/pkg/session/mongo"
)

// AppName is used for cache and configuration directories.
const AppName = "tagscout"

// CacheDir returns the HTTP cache directory using the XDG convention
// (~/.cache/tagscout/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// OpenCache opens the response cache named by spec:
//   - "" uses a file cache in [CacheDir]
//   - "none" disables caching
//   - redis:// or rediss:// URLs use Redis
//   - anything else is a cache directory
func OpenCache(ctx context.Context, spec string) (cache.Cache, error) {
	switch {
	case spec == "none":
		return cache.NewNullCache(), nil
	case strings.HasPrefix(spec, "redis://"), strings.HasPrefix(spec, "rediss://"):
		c, err := cache.NewRedisCache(ctx, spec)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open redis cache")
		}
		return c, nil
	case spec == "":
		dir, err := CacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		spec = dir
	}
	c, err := cache.NewFileCache(spec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open cache directory")
	}
	return c, nil
}

// OpenStore opens the run store named by spec:
//   - "" uses a file store in ~/.config/tagscout/runs
//   - "none" disables history and returns nil
//   - mongodb:// or mongodb+srv:// URLs use MongoDB
//   - anything else is a run directory
func OpenStore(ctx context.Context, spec string) (session.Store, error) {
	switch {
	case spec == "none":
		return nil, nil
	case strings.HasPrefix(spec, "mongodb://"), strings.HasPrefix(spec, "mongodb+srv://"):
		s, err := mongo.Connect(ctx, spec, "")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open run store")
		}
		return s, nil
	}
	s, err := session.NewFileStore(spec)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "open run store")
	}
	return s, nil
}
