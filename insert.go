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

// insertWithHint inserts v at home bucket bid, or applies the reducer if
// its key is already present. This is the "new" variant discussed in
// spec.md §9: a forward scan finds the next empty slot and checks every
// traversed offset for overflow before anything is written (so 127 is
// never written), then a single pass increments those offsets, and there
// is a single memmove once the scan's end position is known.
//
// Returns:
//   - missing(pos)  — the key was not present; it now lives at pos.
//   - found(pos)    — the key was already present at pos; reducer applied.
//   - insertFailed  — the scan would push some slot's offset past 126;
//     the caller must grow the table and retry this element.
func (t *Table[K, V]) insertWithHint(bid uint64, v Slot[K, V]) bucketID {
	cur := t.getInfo(bid)

	// Empty bucket, no prior shift: place directly, done.
	if cur == infoEmpty {
		t.setInfo(bid, infoNormal)
		t.entries[bid] = v
		return makeMissing(bid)
	}

	start := bid + uint64(cur.offset())
	next := bid + 1 + uint64(t.getInfo(bid+1).offset())

	if cur.isNormal() {
		for i := start; i < next; i++ {
			if t.equal(v.Key, t.entries[i].Key) {
				if !isDiscardReducer(t.reducer) {
					t.entries[i].Value = t.reducer(t.entries[i].Value, v.Value)
				}
				return makeFound(i)
			}
		}
	}

	// Not present: scan forward from bid+1 for the next empty slot,
	// aborting if any traversed offset would reach 127 once bumped. The
	// bump itself happens in the loop after the scan.
	end := bid + 1
	for end < uint64(len(t.info)) && info(t.info[end]) != infoEmpty {
		if t.getInfo(end).offset() >= maxOffset {
			return insertFailed
		}
		end++
	}
	if end >= uint64(len(t.info)) {
		return insertFailed
	}

	t.setInfo(bid, cur.setNormal())
	for i := bid + 1; i <= end; i++ {
		t.setInfo(i, t.getInfo(i)+1)
	}

	// Shift [next, end) right by one to open a slot at next, then place v.
	copy(t.entries[next+1:end+1], t.entries[next:end])
	t.entries[next] = v

	return makeMissing(next)
}

// Insert inserts key/value into the table, applying the configured
// Reducer if key is already present. It returns the position the key
// occupies and whether it was newly inserted (false if it was already
// present and the reducer only updated the existing value).
func (t *Table[K, V]) Insert(key K, value V) (position int, inserted bool) {
	h := t.hash(key)
	bid := t.homeBucket(h)

	if t.lsize >= t.maxLoad {
		t.rehash(t.buckets << 1)
		bid = t.homeBucket(h)
	}

	res := t.insertOnce(bid, Slot[K, V]{Key: key, Value: value}, h)
	if res.present() {
		t.checkInvariants()
		return int(res.pos()), false
	}
	t.lsize++
	t.checkInvariants()
	return int(res.pos()), true
}

// insertOnce retries insertWithHint through resize-and-retry when the
// 7-bit offset would overflow, recomputing the home bucket for the
// (possibly larger) table each time.
func (t *Table[K, V]) insertOnce(bid uint64, v Slot[K, V], h uint64) bucketID {
	res := t.insertWithHint(bid, v)
	for res == insertFailed {
		t.rehash(t.buckets << 1)
		bid = t.homeBucket(h)
		res = t.insertWithHint(bid, v)
	}
	return res
}

// Update applies the Reducer to key's existing value only; it is a no-op
// if key is not present, and never inserts.
func (t *Table[K, V]) Update(key K, value V) {
	bid := t.homeBucket(t.hash(key))
	res := t.findWithHint(key, bid)
	if res.missing() {
		return
	}
	t.entries[res.pos()].Value = t.reducer(t.entries[res.pos()].Value, value)
}
