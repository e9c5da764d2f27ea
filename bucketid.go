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

// bucketID packs the result of a single-slot operation into one machine
// word: the low 63 bits hold a position in [0, capacity+padding), and bit
// 63 records whether the key was found there. It plays the role of an
// (offset, found) pair without allocating one.
type bucketID uint64

const (
	bidPosMask   bucketID = 1<<63 - 1
	bidPosExists bucketID = 1 << 63

	// insertFailed is returned by insertWithHint when the forward scan for
	// an empty slot would push some traversed offset past 126. It shares
	// its bit pattern with a "not found" result at the maximum position,
	// which is never a position a real table can produce.
	insertFailed bucketID = bidPosMask
)

func makeMissing(pos uint64) bucketID {
	return bucketID(pos)
}

func makeFound(pos uint64) bucketID {
	return bucketID(pos) | bidPosExists
}

func (b bucketID) present() bool {
	return b > bidPosMask
}

func (b bucketID) missing() bool {
	return b < bidPosExists
}

func (b bucketID) pos() uint64 {
	return uint64(b & bidPosMask)
}
