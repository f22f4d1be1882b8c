package pipeline

import (
	"sort"
	"sync"
	"time"

	"github.com/godzaryan/DocStructureX/internal/outline"
)

type sample struct {
	timestamp  time.Time
	durationMs int64
}

// StatsSnapshot is a point-in-time aggregate of extraction latencies
// within the rolling window, plus how often each tier won the cascade.
type StatsSnapshot struct {
	Count int            `json:"count"`
	MinMs int64          `json:"min_ms"`
	MaxMs int64          `json:"max_ms"`
	AvgMs float64        `json:"avg_ms"`
	P50Ms float64        `json:"p50_ms"`
	P95Ms float64        `json:"p95_ms"`
	P99Ms float64        `json:"p99_ms"`
	Tiers map[string]int `json:"tiers"`
}

// ExtractStats tracks recent per-document extraction latencies and
// which tier produced each result.
type ExtractStats struct {
	mu      sync.Mutex
	samples []sample
	tiers   map[outline.Tier]int
	maxAge  time.Duration
}

func NewExtractStats(maxAge time.Duration) *ExtractStats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &ExtractStats{
		samples: make([]sample, 0, 256),
		tiers:   make(map[outline.Tier]int),
		maxAge:  maxAge,
	}
}

func (s *ExtractStats) Record(durationMs int64, tier outline.Tier) {
	if durationMs < 0 {
		durationMs = 0
	}
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)
	s.samples = append(s.samples, sample{timestamp: now, durationMs: durationMs})
	s.tiers[tier]++
}

func (s *ExtractStats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(now)

	tiers := make(map[string]int, len(s.tiers))
	for t, n := range s.tiers {
		tiers[string(t)] = n
	}
	if len(s.samples) == 0 {
		return StatsSnapshot{Tiers: tiers}
	}

	values := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		values = append(values, sm.durationMs)
		sum += sm.durationMs
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	return StatsSnapshot{
		Count: len(values),
		MinMs: values[0],
		MaxMs: values[len(values)-1],
		AvgMs: float64(sum) / float64(len(values)),
		P50Ms: percentile(values, 50),
		P95Ms: percentile(values, 95),
		P99Ms: percentile(values, 99),
		Tiers: tiers,
	}
}

func (s *ExtractStats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	writeIdx := 0
	for _, sm := range s.samples {
		if !sm.timestamp.Before(cutoff) {
			s.samples[writeIdx] = sm
			writeIdx++
		}
	}
	s.samples = s.samples[:writeIdx]
}

func percentile(sortedValues []int64, pct float64) float64 {
	if len(sortedValues) == 0 {
		return 0
	}
	if pct <= 0 {
		return float64(sortedValues[0])
	}
	if pct >= 100 {
		return float64(sortedValues[len(sortedValues)-1])
	}

	index := (float64(len(sortedValues)-1) * pct) / 100.0
	lower := int(index)
	upper := lower + 1
	if upper >= len(sortedValues) {
		return float64(sortedValues[lower])
	}
	weight := index - float64(lower)
	lo := float64(sortedValues[lower])
	hi := float64(sortedValues[upper])
	return lo + ((hi - lo) * weight)
}
