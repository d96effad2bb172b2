// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package isa

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// CodeCacheConfig contains the configuration options of a CodeCache.
type CodeCacheConfig struct {
	// CacheSize is the maximum number of decoded codes retained. If set to 0,
	// a default size is used. If negative, no cache is used.
	CacheSize int
	// Permissive selects DecodePermissive instead of DecodeStrict.
	Permissive bool
}

// defaultCacheSize is the number of cached codes used if no size is
// configured.
const defaultCacheSize = 1 << 12

// MaxCachedCodeLength is the maximum length of a code in bytes that is
// retained in the cache. Longer codes are decoded on every request. The limit
// is the maximum size of codes stored on the chain (see EIP-170).
const MaxCachedCodeLength = 1<<14 + 1<<13 // = 24_576 bytes

// CodeCache decodes binary code and retains the results indexed by the
// code's hash, such that repeated decoding of the same code is avoided.
// Cached sequences are shared between callers and must not be modified.
// A CodeCache is safe for concurrent use.
type CodeCache struct {
	codec  *Codec
	config CodeCacheConfig
	cache  *lru.Cache[Hash, Sequence]
}

// NewCodeCache creates a new code cache decoding codes using the given codec.
func NewCodeCache(codec *Codec, config CodeCacheConfig) (*CodeCache, error) {
	if config.CacheSize == 0 {
		config.CacheSize = defaultCacheSize
	}
	var cache *lru.Cache[Hash, Sequence]
	if config.CacheSize > 0 {
		var err error
		cache, err = lru.New[Hash, Sequence](config.CacheSize)
		if err != nil {
			return nil, err
		}
	}
	return &CodeCache{
		codec:  codec,
		config: config,
		cache:  cache,
	}, nil
}

// Decode decodes the given code, using the cache if possible. The code is
// identified by its Keccak-256 hash.
func (c *CodeCache) Decode(code []byte) (Sequence, error) {
	if c.cache == nil || len(code) > MaxCachedCodeLength {
		return c.decode(code)
	}
	hash := Keccak256(code)
	return c.DecodeWithHash(code, &hash)
}

// DecodeWithHash decodes the given code. If the provided code hash is not
// nil, it is assumed to be a valid hash of the code and is used to cache the
// result. If the hash is nil, the result is not cached. Failed decodings are
// never cached.
func (c *CodeCache) DecodeWithHash(code []byte, codeHash *Hash) (Sequence, error) {
	if c.cache == nil || codeHash == nil {
		return c.decode(code)
	}

	if res, exists := c.cache.Get(*codeHash); exists {
		return res, nil
	}

	res, err := c.decode(code)
	if err != nil || len(code) > MaxCachedCodeLength {
		return res, err
	}

	c.cache.Add(*codeHash, res)
	return res, nil
}

// Len returns the number of currently cached codes.
func (c *CodeCache) Len() int {
	if c.cache == nil {
		return 0
	}
	return c.cache.Len()
}

// Purge removes all entries from the cache.
func (c *CodeCache) Purge() {
	if c.cache != nil {
		c.cache.Purge()
	}
}

func (c *CodeCache) decode(code []byte) (Sequence, error) {
	if c.config.Permissive {
		return c.codec.DecodePermissive(code), nil
	}
	return c.codec.DecodeStrict(code)
}
