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

import "github.com/cockroachdb/errors"

// invariantViolation reports programmer error — corrupted metadata that
// should be unreachable through the public API. It is fatal: the process
// aborts rather than continuing with a table that may violate §3's
// invariants.
func invariantViolation(format string, args ...any) {
	panic(errors.AssertionFailedf(format, args...))
}
