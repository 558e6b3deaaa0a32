// Copyright (c) 2026 TTBT Enterprises LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package backend

import (
	"testing"
	"time"
)

func TestHistogram(t *testing.T) {
	var h Histogram
	if h.Mean() != 0 || h.Quantile(0.5) != 0 {
		t.Fatalf("empty histogram: mean=%v p50=%v", h.Mean(), h.Quantile(0.5))
	}

	for _, d := range []time.Duration{10 * time.Millisecond, 20 * time.Millisecond, 120 * time.Millisecond, 30 * time.Second, -time.Second} {
		h.Add(d)
	}
	if h.Count != 5 {
		t.Errorf("Count = %d, want 5", h.Count)
	}
	if h.Buckets[0] != 3 {
		t.Errorf("Buckets[0] = %d, want 3 (negative durations clamp to 0)", h.Buckets[0])
	}
	if h.Buckets[2] != 1 {
		t.Errorf("Buckets[2] = %d, want 1", h.Buckets[2])
	}
	if h.Buckets[LatencyBuckets-1] != 1 {
		t.Errorf("overflow bucket = %d, want 1", h.Buckets[LatencyBuckets-1])
	}
	if got, want := h.Mean(), time.Duration((10+20+120+30000)/5)*time.Millisecond; got != want {
		t.Errorf("Mean() = %v, want %v", got, want)
	}
	if got := h.Quantile(0.5); got != LatencyBucketSize {
		t.Errorf("Quantile(0.5) = %v, want %v", got, LatencyBucketSize)
	}
	if got := h.Quantile(1); got != LatencyBuckets*LatencyBucketSize {
		t.Errorf("Quantile(1) = %v, want %v", got, LatencyBuckets*LatencyBucketSize)
	}
}

func TestHistogramMerge(t *testing.T) {
	var a, b Histogram
	a.Add(10 * time.Millisecond)
	b.Add(60 * time.Millisecond)
	b.Add(70 * time.Millisecond)

	a.Merge(&b)
	a.Merge(nil)
	if a.Count != 3 {
		t.Errorf("Count = %d, want 3", a.Count)
	}
	if a.Buckets[0] != 1 || a.Buckets[1] != 2 {
		t.Errorf("Buckets[0:2] = %v", a.Buckets[0:2])
	}
	if a.Sum != 140 {
		t.Errorf("Sum = %v, want 140", a.Sum)
	}

	stats := newLatencyStats(2, &a)
	if stats.Reports != 2 || stats.Steps != 3 || stats.MeanMS != 46 || stats.P50MS != 50 {
		t.Errorf("newLatencyStats = %+v", stats)
	}
}
