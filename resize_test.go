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

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUpsizePreservesAllEntries(t *testing.T) {
	tb := New[uint64, uint64](8, WithHasher[uint64, uint64](Uint64Hasher))
	const n = 3000
	for i := uint64(0); i < n; i++ {
		tb.Insert(i, i*7)
	}
	require.Equal(t, n, tb.Len())
	for i := uint64(0); i < n; i++ {
		v, ok := tb.Find(i)
		require.True(t, ok)
		require.Equal(t, i*7, v)
	}
}

func TestDownsizeAfterBulkErase(t *testing.T) {
	tb := New[uint64, uint64](8, WithHasher[uint64, uint64](Uint64Hasher))
	const n = 2000
	for i := uint64(0); i < n; i++ {
		tb.Insert(i, i)
	}
	bucketsAtPeak := tb.buckets

	for i := uint64(0); i < n-5; i++ {
		tb.Erase(i)
	}
	require.Less(t, tb.buckets, bucketsAtPeak, "table should have downsized after shedding most of its entries")

	for i := uint64(n - 5); i < n; i++ {
		v, ok := tb.Find(i)
		require.True(t, ok)
		require.Equal(t, i, v)
	}
}

func TestDownsizeInfeasibleLeavesTableUnchanged(t *testing.T) {
	// In the 1024-bucket table the keys split between buckets 0 and 512,
	// but every smaller table puts them all in one home bucket. With a
	// min load factor of 0.2 every erase requests a downsize; while more
	// than 127 keys remain, the merged bucket would push an offset past
	// 126. downsizeMaxOffset must catch that during planning, and the
	// resize either doubles its target or abandons itself rather than
	// corrupting the table.
	tb := New[uint64, uint64](1024, WithHasher[uint64, uint64](func(k uint64) uint64 { return k << 9 }), WithLoadFactors[uint64, uint64](0.2, 0.9))

	for i := uint64(0); i < 200; i++ {
		tb.Insert(i, i)
	}

	for i := uint64(0); i < 100; i++ {
		tb.Erase(i)
		if tb.Len() > 127 {
			require.Equal(t, uint64(1024), tb.buckets, "infeasible downsize must leave the table at its size")
		}
	}

	for b := uint64(0); b < tb.buckets; b++ {
		require.LessOrEqual(t, tb.getInfo(b).offset(), maxOffset)
	}

	for i := uint64(100); i < 200; i++ {
		v, ok := tb.Find(i)
		require.True(t, ok)
		require.Equal(t, i, v)
	}
}

func TestRehashNoOpAtSameSize(t *testing.T) {
	tb := New[uint64, uint64](64, WithHasher[uint64, uint64](Uint64Hasher))
	before := tb.buckets
	tb.rehash(before)
	require.Equal(t, before, tb.buckets)
}

func TestReserveNeverShrinks(t *testing.T) {
	tb := New[uint64, uint64](4096, WithHasher[uint64, uint64](Uint64Hasher))
	before := tb.buckets
	tb.Reserve(1)
	require.Equal(t, before, tb.buckets)
}
