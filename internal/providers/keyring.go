// Package providers implements fail-soft HTTP clients over the third-party
// data sources the Enrichment Orchestrator fans out to. No client here ever
// returns an error for a missing or rate-limited upstream: callers get a
// zero-value/absent result and the failure is logged and counted.
package providers

import (
	"log"
	"sync"
	"sync/atomic"

	"pumpwatch/internal/observability"
)

// Keyring rotates through an ordered list of credentials for one provider,
// advancing past a key on 401/429 and wrapping back to the first key once
// all are exhausted so a transient outage self-heals.
type Keyring struct {
	name string
	log  *log.Logger

	mu   sync.Mutex
	keys []string
	idx  int

	rotations atomic.Uint64
}

// NewKeyring builds a keyring for provider name from an ordered list of
// credentials (primary first, then fallbacks).
// Empty strings are dropped; a Keyring may legitimately hold zero keys, in
// which case Current returns "" and callers should fall back to an
// unauthenticated request if the provider allows one.
func NewKeyring(name string, logger *log.Logger, keys ...string) *Keyring {
	if logger == nil {
		logger = log.Default()
	}
	var active []string
	for _, k := range keys {
		if k != "" {
			active = append(active, k)
		}
	}
	return &Keyring{name: name, log: logger, keys: active}
}

// Current returns the presently active credential, or "" if none configured.
func (k *Keyring) Current() string {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.keys) == 0 {
		return ""
	}
	return k.keys[k.idx]
}

// Rotate advances to the next credential, wrapping around. Call after a
// 401 or 429 response. Returns false if there is only one (or zero) key
// configured, meaning rotation cannot help.
func (k *Keyring) Rotate() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	if len(k.keys) <= 1 {
		return false
	}
	k.idx = (k.idx + 1) % len(k.keys)
	k.rotations.Add(1)
	observability.RecordKeyRotation(k.name)
	k.log.Printf("[%s] rotated credential (index %d/%d)", k.name, k.idx+1, len(k.keys))
	return true
}

// Rotations reports how many times this keyring has rotated, for metrics.
func (k *Keyring) Rotations() uint64 {
	return k.rotations.Load()
}

// Index returns the presently active credential's position, for audit
// entries. Meaningless (always 0) when the keyring holds zero keys.
func (k *Keyring) Index() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.idx
}
