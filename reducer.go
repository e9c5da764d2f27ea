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

// Reducer resolves a duplicate insertion of a key that is already present:
// given the value currently in the table and the newly inserted value, it
// returns the value to keep. A Reducer must be associative and
// allocation-free; it is called on every insert of a key already present.
type Reducer[V any] func(old, new V) V

// DiscardReducer keeps the existing value and drops the newly inserted one.
// It is the default reducer. Table.insertWithHint special-cases it to skip
// the write to the entries array entirely rather than writing back the
// value it already holds.
func DiscardReducer[V any](old, new V) V {
	return old
}

// ReplaceReducer overwrites the existing value with the newly inserted one,
// matching map semantics (repeated Insert of the same key updates the
// value).
func ReplaceReducer[V any](old, new V) V {
	return new
}

// isDiscardReducer reports whether r is DiscardReducer, comparing function
// pointers. Go does not allow comparing arbitrary func values, so this
// relies on reflect; it is evaluated once per insert on the found-in-bucket
// path only, never in the fast empty-bucket path.
func isDiscardReducer[V any](r Reducer[V]) bool {
	return sameFunc(r, Reducer[V](DiscardReducer[V]))
}
