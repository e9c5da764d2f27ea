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
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Hasher maps a key to a 64-bit hash. It must distribute well modulo any
// power of two; collisions degrade probe length but never correctness.
type Hasher[K any] func(key K) uint64

// Equal is a total equivalence relation on K, consistent with the table's
// Hasher (equal keys must hash equal).
type Equal[K any] func(a, b K) bool

// ByteSliceHasher hashes a []byte key with xxhash64, the checksum/hash
// workhorse the wider corpus (pebble's block layer) already depends on.
// It is the natural default for the short immutable byte strings — k-mers
// — that motivate this table.
func ByteSliceHasher(key []byte) uint64 {
	return xxhash.Sum64(key)
}

// FixedBytesHasher8 hashes an 8-byte fixed key (e.g. a 32-mer packed 2
// bits/base) with xxhash64.
func FixedBytesHasher8(key [8]byte) uint64 {
	return xxhash.Sum64(key[:])
}

// FixedBytesHasher16 hashes a 16-byte fixed key with xxhash64.
func FixedBytesHasher16(key [16]byte) uint64 {
	return xxhash.Sum64(key[:])
}

// FixedBytesHasher32 hashes a 32-byte fixed key with xxhash64.
func FixedBytesHasher32(key [32]byte) uint64 {
	return xxhash.Sum64(key[:])
}

// Uint64Hasher hashes a uint64 key by feeding its 8-byte little-endian
// encoding through xxhash64, giving good avalanche behavior for small
// integer keys without a bespoke integer mixer.
func Uint64Hasher(key uint64) uint64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], key)
	return xxhash.Sum64(buf[:])
}
