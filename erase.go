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

// eraseWithHint removes key k, whose home bucket is bid, if present. It
// performs a backward shift of every slot between the erased position and
// the end of the affected run, decrements every offset that run touches,
// and marks bid empty if that was its only entry. Returns 1 if an entry
// was removed, 0 if the key was not present (state unchanged).
func (t *Table[K, V]) eraseWithHint(k K, bid uint64) int {
	found := t.findWithHint(k, bid)
	if found.missing() {
		return 0
	}

	pos := found.pos()
	pos1 := pos + 1
	bid1 := bid + 1
	end := t.findNextZeroOffsetPos(bid1)

	copy(t.entries[pos:end-1], t.entries[pos1:end])

	if t.getInfo(bid).offset() == t.getInfo(bid1).offset() {
		t.setInfo(bid, t.getInfo(bid).setEmpty())
	}

	for i := bid1; i < end; i++ {
		t.setInfo(i, t.getInfo(i)-1)
	}

	return 1
}

// Erase removes key from the table, returning 1 if it was present (and
// now removed) or 0 if it was not present.
func (t *Table[K, V]) Erase(key K) int {
	bid := t.homeBucket(t.hash(key))
	n := t.eraseWithHint(key, bid)
	if n > 0 {
		t.lsize--
		if t.lsize < t.minLoad && t.buckets > 8 {
			t.rehash(t.buckets >> 1)
		}
	}
	t.checkInvariants()
	return n
}
