// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"sync"
)

// Store is the persistent key/value layer under a Cache. It moves opaque
// bytes; expiry is decided by Cache alone. Load reports a missing key as
// (nil, false, nil).
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, data []byte) error
}

// MemoryStore keeps entries in a map. It is used in tests and when caching is
// disabled for a single run.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string][]byte{}}
}

func (m *MemoryStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	b, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out, true, nil
}

func (m *MemoryStore) Save(_ context.Context, key string, data []byte) error {
	b := make([]byte, len(data))
	copy(b, data)
	m.mu.Lock()
	m.data[key] = b
	m.mu.Unlock()
	return nil
}

// Keys returns the stored keys in no particular order.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}

// encodeKey hashes k with MD5 and returns the hex string. Keys contain ids
// from the API (model paths with slashes), so they are never used verbatim as
// file or object names.
func encodeKey(k string) string {
	h := md5.New()
	_, _ = h.Write([]byte(k))
	return hex.EncodeToString(h.Sum(nil))
}
