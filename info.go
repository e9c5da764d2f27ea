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

// info is the per-slot metadata byte. The high bit records whether the
// slot's home bucket is empty; the low 7 bits are the offset from the
// bucket's index to the start of its run of entries. Unlike a classic
// Robin Hood aux array (distance-from-home per slot), info is indexed by
// home bucket and gives the bucket's whole run in one read of two
// adjacent bytes: [info[b], info[b+1]).
type info uint8

const (
	infoEmpty  info = 0x80
	infoMask   info = 0x7f
	infoNormal info = 0x00

	// maxOffset is the largest offset the 7-bit field can hold. An
	// insert that would need to push some slot's offset past this value
	// signals insertFailed instead, so the caller can resize and retry.
	maxOffset = 126
)

func (x info) isEmpty() bool {
	return x >= infoEmpty
}

func (x info) isNormal() bool {
	return x < infoEmpty
}

func (x info) offset() int {
	return int(x & infoMask)
}

func (x info) setEmpty() info {
	return x | infoEmpty
}

func (x info) setNormal() info {
	return x & infoMask
}

// withOffset returns x with its offset field replaced by d, preserving
// the empty/occupied bit.
func (x info) withOffset(d int) info {
	if x.isEmpty() {
		return infoEmpty | info(d)
	}
	return info(d)
}
