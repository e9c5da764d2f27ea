// Copyright 2024 The Cockroach Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package robinhood

// prefetchInfo and prefetchEntry stand in for the temporal prefetch
// instructions the original batch driver issues a window ahead of the
// element it's actually operating on. Go has no portable intrinsic for
// this — runtime/PREFETCHT0 isn't exposed — so both degrade to touching
// the target slice once, which at least pulls the cache line in through
// the ordinary load path a window early. Correctness never depends on
// these firing; see spec.md §9.
func (t *Table[K, V]) prefetchInfo(bid uint64) {
	if bid < uint64(len(t.info)) {
		_ = t.info[bid]
	}
}

func (t *Table[K, V]) prefetchEntry(pos uint64) {
	if pos < uint64(len(t.entries)) {
		_ = t.entries[pos]
	}
}

// batchWindow runs body(i) for i in [0, n) with a sliding lookahead of
// depth t.prefetchDepth: before processing element i it prefetches the
// hash/home bucket of element i+depth (if in range). before issues the
// touch for element i+depth; body performs the real work for element i.
// This mirrors the three-region shape of the original driver (steady
// state, then the tail once i+depth runs off the end) without a separate
// code path for the tail — before is simply a no-op past n.
func batchWindow(n int, depth int, before func(i int), body func(i int)) {
	if depth < 1 {
		depth = 1
	}
	for i := 0; i < n; i++ {
		if la := i + depth; la < n {
			before(la)
		}
		body(i)
	}
}

// InsertBatch inserts every key/value pair in kvs. It first folds every
// key's hash into the table's estimator, merges that with the estimator's
// prior state, and reserves capacity for the combined estimate once
// up front — the point being to avoid incremental rehashing across a
// long batch (spec.md §4.7, §6). The per-element loop then runs through
// batchWindow, forcing a rehash whenever the next insert would cross
// max_load, exactly like the single-element path but checked before
// every element rather than relying on Insert's own check, since a
// batch is exactly the case where crossing the boundary mid-window
// matters for prefetch validity.
func (t *Table[K, V]) InsertBatch(kvs []Slot[K, V]) {
	if len(kvs) == 0 {
		return
	}

	hashes := make([]uint64, len(kvs))
	for i, kv := range kvs {
		h := t.hash(kv.Key)
		hashes[i] = h
		t.estimator.Update(h)
	}
	t.Reserve(int(t.estimator.Estimate()))

	batchWindow(len(kvs), t.prefetchDepth,
		func(la int) {
			t.prefetchInfo(t.homeBucket(hashes[la]))
		},
		func(i int) {
			if t.lsize >= t.maxLoad {
				t.rehash(t.buckets << 1)
			}
			bid := t.homeBucket(hashes[i])
			res := t.insertOnce(bid, kvs[i], hashes[i])
			if res.missing() {
				t.lsize++
			}
		},
	)
	t.checkInvariants()
}

// FindBatch looks up every key in keys. values and found must have the
// same length as keys; values[i] is set to the stored value and
// found[i] to true wherever keys[i] is present, otherwise found[i] is
// set to false and values[i] is left untouched. It returns the number
// of keys found.
func (t *Table[K, V]) FindBatch(keys []K, values []V, found []bool) int {
	n := len(keys)
	hashes := make([]uint64, n)
	for i, k := range keys {
		hashes[i] = t.hash(k)
	}

	count := 0
	batchWindow(n, t.prefetchDepth,
		func(la int) {
			t.prefetchInfo(t.homeBucket(hashes[la]))
		},
		func(i int) {
			bid := t.homeBucket(hashes[i])
			res := t.findWithHint(keys[i], bid)
			found[i] = res.present()
			if res.present() {
				values[i] = t.entries[res.pos()].Value
				count++
			}
		},
	)
	return count
}

// CountBatch looks up every key in keys and writes 1 into out[i] if it
// was present, 0 otherwise. out must have the same length as keys. It
// returns the number of keys found — the batch analogue of repeatedly
// calling Find and tallying hits, named CountBatch because the original
// driver's use case is deduplication counting rather than value
// retrieval (spec.md §6).
func (t *Table[K, V]) CountBatch(keys []K, out []uint8) int {
	n := len(keys)
	hashes := make([]uint64, n)
	for i, k := range keys {
		hashes[i] = t.hash(k)
	}

	found := 0
	batchWindow(n, t.prefetchDepth,
		func(la int) {
			t.prefetchInfo(t.homeBucket(hashes[la]))
		},
		func(i int) {
			bid := t.homeBucket(hashes[i])
			res := t.findWithHint(keys[i], bid)
			if res.present() {
				out[i] = 1
				found++
			} else {
				out[i] = 0
			}
		},
	)
	return found
}

// EraseBatch removes every key in keys that is present, downsizing at
// most once at the end rather than after each individual erase (the
// per-element Erase path downsizes eagerly; a batch defers that check
// to avoid oscillating between two bucket counts mid-batch).
func (t *Table[K, V]) EraseBatch(keys []K) int {
	n := len(keys)
	hashes := make([]uint64, n)
	for i, k := range keys {
		hashes[i] = t.hash(k)
	}

	removed := 0
	batchWindow(n, t.prefetchDepth,
		func(la int) {
			t.prefetchInfo(t.homeBucket(hashes[la]))
		},
		func(i int) {
			bid := t.homeBucket(hashes[i])
			n := t.eraseWithHint(keys[i], bid)
			if n > 0 {
				t.lsize--
				removed++
			}
		},
	)

	if t.lsize < t.minLoad && t.buckets > 8 {
		t.rehash(t.buckets >> 1)
	}
	t.checkInvariants()
	return removed
}
