package core

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/slippistats/internal/contract"
	"github.com/huangsam/slippistats/schema"
)

// currentCacheVersion defines the version of the dump cache entries
const currentCacheVersion = 1

// cachedDump returns the tool output for a replay, reading through the dump cache.
// The second return value reports whether the output came from the cache.
func cachedDump(ctx context.Context, cfg *contract.Config, client contract.ExtractorClient, cache contract.DumpCache, file schema.Candidate) ([]byte, bool, error) {
	if cache == nil {
		out, err := client.Dump(ctx, file.Path)
		return out, false, err
	}

	key := generateCacheKey(cfg, file)
	if data := checkCacheHit(cache, key, cfg.CacheTTL); data != nil {
		return data, true, nil
	}

	out, err := client.Dump(ctx, file.Path)
	if err != nil {
		return nil, false, err
	}
	if err := cache.Set(key, out, currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn(fmt.Sprintf("Cannot cache dump for %s", file.Path), err)
	}
	return out, false, nil
}

// checkCacheHit returns the cached dump if it exists, matches the current version
// and is younger than ttl. A zero ttl never expires. Backend failures are
// logged and treated as a miss.
func checkCacheHit(cache contract.DumpCache, key string, ttl time.Duration) []byte {
	data, version, ts, err := cache.Get(key)
	if err != nil {
		if !errors.Is(err, contract.ErrCacheMiss) {
			contract.LogWarn("Cannot read dump cache", err)
		}
		return nil
	}
	if data == nil {
		return nil // Cache miss
	}
	if version != currentCacheVersion {
		return nil
	}
	if ttl > 0 && time.Since(time.Unix(ts, 0)) > ttl {
		return nil
	}
	return data
}

// generateCacheKey identifies a dump by file identity and the tool that produced it.
func generateCacheKey(cfg *contract.Config, file schema.Candidate) string {
	key := fmt.Sprintf("%s:%d:%d:%s",
		file.Path,
		file.ModTime.UnixNano(),
		file.Size,
		cfg.ExtractorCommand,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
