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
	"fmt"
	"io"
	"strconv"
	"testing"
)

func newUint64Table(n int) *Table[uint64, uint64] {
	return New[uint64, uint64](n, WithHasher[uint64, uint64](Uint64Hasher), WithReducer[uint64, uint64](ReplaceReducer[uint64]))
}

func genUint64Keys(start, end int) []uint64 {
	keys := make([]uint64, end-start)
	for i := range keys {
		keys[i] = uint64(start + i)
	}
	return keys
}

func benchSizes(f func(b *testing.B, n int)) func(*testing.B) {
	cases := []int{
		6, 12, 18, 24, 30,
		64,
		128,
		256,
		512,
		1024,
		2048,
		4096,
		8192,
		1 << 16,
	}
	return func(b *testing.B) {
		for _, n := range cases {
			b.Run("len="+strconv.Itoa(n), func(b *testing.B) { f(b, n) })
		}
	}
}

func BenchmarkGetHit(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(benchmarkRuntimeMapGetHit))
	b.Run("impl=robinhood", benchSizes(benchmarkTableGetHit))
}

func BenchmarkGetMiss(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(benchmarkRuntimeMapGetMiss))
	b.Run("impl=robinhood", benchSizes(benchmarkTableGetMiss))
}

func BenchmarkInsertGrow(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(benchmarkRuntimeMapPutGrow))
	b.Run("impl=robinhood", benchSizes(benchmarkTableInsertGrow))
}

func BenchmarkInsertPreallocate(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(benchmarkRuntimeMapPutPreAllocate))
	b.Run("impl=robinhood", benchSizes(benchmarkTableInsertPreallocate))
}

func BenchmarkInsertBatch(b *testing.B) {
	b.Run("impl=robinhood", benchSizes(benchmarkTableInsertBatch))
}

func BenchmarkIterate(b *testing.B) {
	b.Run("impl=runtimeMap", benchSizes(benchmarkRuntimeMapIter))
	b.Run("impl=robinhood", benchSizes(benchmarkTableIterate))
}

func benchmarkRuntimeMapIter(b *testing.B, n int) {
	m := make(map[uint64]uint64, n)
	keys := genUint64Keys(0, n)
	for _, k := range keys {
		m[k] = k
	}
	b.ResetTimer()
	var tmp uint64
	for i := 0; i < b.N; i++ {
		for k, v := range m {
			tmp += k + v
		}
	}
}

func benchmarkTableIterate(b *testing.B, n int) {
	t := newUint64Table(n)
	keys := genUint64Keys(0, n)
	for _, k := range keys {
		t.Insert(k, k)
	}
	b.ResetTimer()
	var tmp uint64
	for i := 0; i < b.N; i++ {
		t.Iterate(func(k, v uint64) bool {
			tmp += k + v
			return true
		})
	}
}

func benchmarkRuntimeMapGetHit(b *testing.B, n int) {
	m := make(map[uint64]uint64, n)
	keys := genUint64Keys(0, n)
	for _, k := range keys {
		m[k] = k
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m[keys[i&(n-1)]]
	}
}

func benchmarkTableGetHit(b *testing.B, n int) {
	t := newUint64Table(n)
	keys := genUint64Keys(0, n)
	for _, k := range keys {
		t.Insert(k, k)
	}
	b.ResetTimer()
	var ok bool
	for i := 0; i < b.N; i++ {
		_, ok = t.Find(keys[i&(n-1)])
	}
	b.StopTimer()
	fmt.Fprint(io.Discard, ok)
}

func benchmarkRuntimeMapGetMiss(b *testing.B, n int) {
	m := make(map[uint64]uint64, n)
	keys := genUint64Keys(0, n)
	miss := genUint64Keys(1<<32, (1<<32)+n)
	for _, k := range keys {
		m[k] = k
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m[miss[i%len(miss)]]
	}
}

func benchmarkTableGetMiss(b *testing.B, n int) {
	t := newUint64Table(n)
	keys := genUint64Keys(0, n)
	miss := genUint64Keys(1<<32, (1<<32)+n)
	for _, k := range keys {
		t.Insert(k, k)
	}
	b.ResetTimer()
	var ok bool
	for i := 0; i < b.N; i++ {
		_, ok = t.Find(miss[i%len(miss)])
	}
	b.StopTimer()
	fmt.Fprint(io.Discard, ok)
}

func benchmarkRuntimeMapPutGrow(b *testing.B, n int) {
	keys := genUint64Keys(0, n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := make(map[uint64]uint64)
		for _, k := range keys {
			m[k] = k
		}
	}
}

func benchmarkTableInsertGrow(b *testing.B, n int) {
	keys := genUint64Keys(0, n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t := newUint64Table(0)
		for _, k := range keys {
			t.Insert(k, k)
		}
	}
}

func benchmarkRuntimeMapPutPreAllocate(b *testing.B, n int) {
	keys := genUint64Keys(0, n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := make(map[uint64]uint64, n)
		for _, k := range keys {
			m[k] = k
		}
	}
}

func benchmarkTableInsertPreallocate(b *testing.B, n int) {
	keys := genUint64Keys(0, n)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t := newUint64Table(n)
		for _, k := range keys {
			t.Insert(k, k)
		}
	}
}

func benchmarkTableInsertBatch(b *testing.B, n int) {
	keys := genUint64Keys(0, n)
	kvs := make([]Slot[uint64, uint64], n)
	for i, k := range keys {
		kvs[i] = Slot[uint64, uint64]{Key: k, Value: k}
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		t := newUint64Table(0)
		t.InsertBatch(kvs)
	}
}

func BenchmarkByteSliceHasher(b *testing.B) {
	var buf [16]byte
	binary.LittleEndian.PutUint64(buf[:8], 0xdeadbeef)
	b.ResetTimer()
	var sum uint64
	for i := 0; i < b.N; i++ {
		sum += ByteSliceHasher(buf[:])
	}
	fmt.Fprint(io.Discard, sum)
}
