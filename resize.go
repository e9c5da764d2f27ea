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

// rehash resizes the table to b buckets, rounded up to the next power of
// two. It is a no-op if the rounded size equals the current size, or if
// the table already holds more than the new size's max load would allow.
// Downsizing additionally dry-runs the merge to make sure no bucket would
// need an offset past 126; if even doubling back up to the current size
// can't avoid that, the whole resize is abandoned (DownsizeInfeasible,
// spec.md §7) and the table is left untouched.
func (t *Table[K, V]) rehash(b uint64) {
	n := nextPowerOfTwo(b)
	if n < 8 {
		n = 8
	}

	if n == t.buckets {
		return
	}
	if t.lsize >= uint64(t.maxLoadFactor*float64(n)) {
		return
	}

	if t.lsize > 0 && n < t.buckets {
		for t.downsizeMaxOffset(n) > maxOffset {
			n <<= 1
			if n >= t.buckets {
				// Even the current size doesn't overflow (it's the
				// table we already have); downsizing can't help.
				return
			}
		}
	}
	if n == t.buckets {
		return
	}

	newEntries := t.allocator.AllocEntries(int(n) + padding)
	newInfo := t.allocator.AllocInfo(int(n) + padding)
	for i := range newInfo {
		newInfo[i] = uint8(infoEmpty)
	}

	if t.lsize > 0 {
		if n > t.buckets {
			t.upsizeInto(newEntries, newInfo, n)
		} else {
			t.downsizeInto(newEntries, newInfo, n)
		}
	}

	oldEntries, oldInfo := t.entries, t.info
	t.buckets = n
	t.mask = n - 1
	t.entries = newEntries
	t.info = newInfo
	t.recomputeLoadBounds()

	t.allocator.FreeEntries(oldEntries)
	t.allocator.FreeInfo(oldInfo)

	t.checkInvariants()
}

// downsizeMaxOffset computes, without mutating anything, the largest
// offset a downsize to targetBuckets would require — the dry run the
// resize state machine's "planning" stage performs before committing to
// an allocation. Returns a value > maxOffset as soon as one is found, to
// short-circuit the scan.
func (t *Table[K, V]) downsizeMaxOffset(targetBuckets uint64) int {
	if targetBuckets > t.buckets {
		return 0
	}
	blocks := t.buckets / targetBuckets

	var newEnd uint64
	maxOff := 0
	for bid := uint64(0); bid < targetBuckets; bid++ {
		newStart := bid
		if newEnd > newStart {
			newStart = newEnd
		}
		newEnd = newStart

		for bl := uint64(0); bl < blocks; bl++ {
			id := bid + bl*targetBuckets
			if t.getInfo(id).isNormal() {
				newEnd += 1 + uint64(t.getInfo(id+1).offset()) - uint64(t.getInfo(id).offset())
			}
		}

		if off := int(newStart - bid); off > maxOff {
			maxOff = off
		}
		if maxOff > maxOffset {
			return maxOff
		}
	}
	if off := int(newEnd - targetBuckets); off > maxOff {
		maxOff = off
	}
	return maxOff
}

// downsizeInto merges blocks/targetBuckets source buckets into each
// destination bucket, copying each contributing run's entries into the
// growing target region and recording each destination bucket's offset
// from the cursor positions as it goes.
func (t *Table[K, V]) downsizeInto(targetEntries []Slot[K, V], targetInfo []uint8, targetBuckets uint64) {
	blocks := t.buckets / targetBuckets

	var newEnd uint64
	for bid := uint64(0); bid < targetBuckets; bid++ {
		newStart := bid
		if newEnd > newStart {
			newStart = newEnd
		}
		newEnd = newStart

		for bl := uint64(0); bl < blocks; bl++ {
			id := bid + bl*targetBuckets
			if t.getInfo(id).isNormal() {
				pos := id + uint64(t.getInfo(id).offset())
				end := id + 1 + uint64(t.getInfo(id+1).offset())
				copy(targetEntries[newEnd:newEnd+(end-pos)], t.entries[pos:end])
				newEnd += end - pos
			}
		}

		if newEnd == newStart {
			targetInfo[bid] = uint8(infoEmpty | info(newStart-bid))
		} else {
			targetInfo[bid] = uint8(info(newStart - bid))
		}
	}

	for bid := targetBuckets; bid < newEnd; bid++ {
		targetInfo[bid] = uint8(infoEmpty | info(newEnd-bid))
	}
}

// upsizeInto splits the table into target_buckets/buckets contiguous
// blocks per source bucket. A first pass hashes every entry and computes,
// per destination block, the position its placement cursor starts at:
// the end of the previous block's entries, which may spill past the
// block boundary (a key may rehash into any of the ν blocks, not
// necessarily the one matching its source bucket index); a second pass
// replays the walk and actually places entries, then reconstructs the
// info byte for every (block, source bucket) pair from the recorded
// cursors.
func (t *Table[K, V]) upsizeInto(targetEntries []Slot[K, V], targetInfo []uint8, targetBuckets uint64) {
	m := targetBuckets - 1
	blocks := targetBuckets / t.buckets

	hashes := make([]uint64, t.lsize)
	offsets := make([]uint64, blocks+1)
	counts := make([]uint64, blocks)
	ends := make([]uint64, blocks)

	var j uint64
	for bid := uint64(0); bid < t.buckets; bid++ {
		if !t.getInfo(bid).isNormal() {
			continue
		}
		pos := bid + uint64(t.getInfo(bid).offset())
		end := bid + 1 + uint64(t.getInfo(bid+1).offset())
		for p := pos; p < end; p, j = p+1, j+1 {
			h := t.hash(t.entries[p].Key)
			hashes[j] = h
			id := h & m
			bl := id / t.buckets
			// ends[bl] is where block bl's cursor would stop if the
			// block's placement started at position 0.
			if id > ends[bl] {
				ends[bl] = id
			}
			ends[bl]++
			counts[bl]++
		}
	}
	// Block bl starts where block bl-1's entries end, which may be past
	// the block boundary; starting there, it ends at the later of that
	// start plus its own count and its unshifted end.
	for bl := uint64(0); bl < blocks; bl++ {
		offsets[bl+1] = offsets[bl] + counts[bl]
		if ends[bl] > offsets[bl+1] {
			offsets[bl+1] = ends[bl]
		}
	}

	j = 0
	length := make([]uint64, blocks)
	for bid := uint64(0); bid < t.buckets; bid++ {
		if t.getInfo(bid).isNormal() {
			pos := bid + uint64(t.getInfo(bid).offset())
			end := bid + 1 + uint64(t.getInfo(bid+1).offset())

			for i := range length {
				length[i] = 0
			}

			for p := pos; p < end; p, j = p+1, j+1 {
				id := hashes[j] & m
				bl := id / t.buckets

				pp := offsets[bl]
				if id > pp {
					pp = id
				}
				targetEntries[pp] = t.entries[p]

				offsets[bl] = pp + 1
				length[bl]++
			}

			for bl := uint64(0); bl < blocks; bl++ {
				id := bid + bl*t.buckets
				target := id
				if offsets[bl] > target {
					target = offsets[bl]
				}
				off := target - id - length[bl]
				if length[bl] == 0 {
					targetInfo[id] = uint8(infoEmpty | info(off))
				} else {
					targetInfo[id] = uint8(info(off))
				}
			}
		} else {
			for bl := uint64(0); bl < blocks; bl++ {
				id := bid + bl*t.buckets
				target := id
				if offsets[bl] > target {
					target = offsets[bl]
				}
				targetInfo[id] = uint8(infoEmpty | info(target-id))
			}
		}
	}

	for bid := targetBuckets; bid < offsets[blocks]; bid++ {
		newStart := bid
		if offsets[blocks] > newStart {
			newStart = offsets[blocks]
		}
		targetInfo[bid] = uint8(infoEmpty | info(newStart-bid))
	}
}
