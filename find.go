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

// findWithHint locates key k, whose home bucket is bid. If bid's run is
// empty, it returns a missing bucketID at the position the key's entry
// would start at (bid + offset(info[bid])) without touching info[bid+1] or
// scanning. Otherwise it scans the bucket's run [start, end) and returns
// found(i) on a match, or missing(end) otherwise.
func (t *Table[K, V]) findWithHint(k K, bid uint64) bucketID {
	off := t.getInfo(bid)
	start := bid + uint64(off.offset())

	if off.isEmpty() {
		return makeMissing(start)
	}

	end := bid + 1 + uint64(t.getInfo(bid+1).offset())
	for i := start; i < end; i++ {
		if t.equal(k, t.entries[i].Key) {
			return makeFound(i)
		}
	}
	return makeMissing(end)
}

// Find returns the value stored for key, and whether it was present.
func (t *Table[K, V]) Find(key K) (value V, ok bool) {
	bid := t.homeBucket(t.hash(key))
	res := t.findWithHint(key, bid)
	if res.missing() {
		return value, false
	}
	return t.entries[res.pos()].Value, true
}

// findNextZeroOffsetPos scans forward from pos for the first slot whose
// offset field is exactly 0 — the boundary erase uses to find the end of
// a run of buckets it must shift.
func (t *Table[K, V]) findNextZeroOffsetPos(pos uint64) uint64 {
	end := pos
	for end < uint64(len(t.info)) {
		d := t.getInfo(end).offset()
		if d == 0 {
			return end
		}
		end += uint64(d)
	}
	return end
}
