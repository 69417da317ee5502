/*
Copyright 2025.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package report

import (
	"bytes"
	"math"
	"testing"
	"time"
)

func TestEventStatsOnlineMatchesBatch(t *testing.T) {
	xs := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	var online EventStats
	online.Merge(xs)

	var sum float64
	for _, x := range xs {
		sum += x
	}
	batchMean := sum / float64(len(xs))
	var sqDiff float64
	for _, x := range xs {
		sqDiff += (x - batchMean) * (x - batchMean)
	}
	batchVariance := sqDiff / float64(len(xs)-1)

	if math.Abs(online.Mean-batchMean) > 1e-9 {
		t.Errorf("online mean = %v, want %v", online.Mean, batchMean)
	}
	if math.Abs(online.Variance()-batchVariance) > 1e-9 {
		t.Errorf("online variance = %v, want %v", online.Variance(), batchVariance)
	}
}

func TestReportCSVRoundTrip(t *testing.T) {
	r := New("ElementwiseAdd | Latency | int64 | mask=0 | CKKS/128-bit")
	base := time.Unix(1700000000, 0).UTC()
	for i := uint64(0); i < 3; i++ {
		r.Record(TimingEvent{
			EventID:          "Operate",
			Iteration:        i,
			WallStart:        base.Add(time.Duration(i) * time.Millisecond),
			WallEnd:          base.Add(time.Duration(i)*time.Millisecond + 5*time.Millisecond),
			CPUStart:         base.Add(time.Duration(i) * time.Millisecond),
			CPUEnd:           base.Add(time.Duration(i)*time.Millisecond + 4*time.Millisecond),
			InputSampleCount: 1,
		})
	}

	var reportBuf bytes.Buffer
	if err := r.WriteCSV(&reportBuf); err != nil {
		t.Fatal(err)
	}

	var wantSummary bytes.Buffer
	if err := r.WriteSummaryCSV(&wantSummary); err != nil {
		t.Fatal(err)
	}

	reloaded, err := LoadCSV(bytes.NewReader(reportBuf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	var gotSummary bytes.Buffer
	if err := reloaded.WriteSummaryCSV(&gotSummary); err != nil {
		t.Fatal(err)
	}

	if wantSummary.String() != gotSummary.String() {
		t.Errorf("summary round-trip mismatch:\nwant:\n%s\ngot:\n%s", wantSummary.String(), gotSummary.String())
	}
}

func TestChooseSIPrefixPlacesMeanInRange(t *testing.T) {
	cases := []struct {
		seconds float64
		want    string
	}{
		{5e-3, "m"},
		{2.5e-6, "µ"},
		{7, ""},
		{3000, "k"},
	}
	for _, tc := range cases {
		prefix, ratio := chooseSIPrefix(tc.seconds)
		if prefix != tc.want {
			t.Errorf("chooseSIPrefix(%v) prefix = %q, want %q", tc.seconds, prefix, tc.want)
			continue
		}
		scaled := tc.seconds * ratio.Scale()
		if scaled < 1 || scaled >= 1000 {
			t.Errorf("chooseSIPrefix(%v) scaled = %v, want in [1,1000)", tc.seconds, scaled)
		}
	}
}
