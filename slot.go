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

// Slot holds one key/value pair in the entries array. Keys are treated as
// bitwise-copyable: Slot is moved with ordinary Go slice assignment
// (copy/append semantics), never by reference, matching the "no
// destructors in the hot path" non-goal.
type Slot[K comparable, V any] struct {
	Key   K
	Value V
}
