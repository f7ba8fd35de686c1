package metrics

// Metrics collection for application requests

import (
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// Metric represents a single request
type Metric struct {
	Timestamp time.Time `json:"timestamp"`
	Method    string    `json:"method"`
	URL       string    `json:"url"`
	Status    int       `json:"status"`
	Success   bool      `json:"success"`
	RTTMs     float64   `json:"rtt_ms"`
	Error     string    `json:"error,omitempty"`
}

// Sink collects and aggregates metrics
type Sink struct {
	mu      sync.RWMutex
	metrics []Metric
	summary *Summary
}

// Summary contains aggregated statistics
type Summary struct {
	TotalRequests      int
	SuccessfulRequests int
	FailedRequests     int
	TimeoutCount       int
	ConnectionFailures int
	MinRTT             float64
	MaxRTT             float64
	AvgRTT             float64
	P50RTT             float64
	P90RTT             float64
	P95RTT             float64
	P99RTT             float64
	RTTBuckets         map[string]int
	ByMethod           map[string]*MethodStats
}

// MethodStats contains statistics for one HTTP method
type MethodStats struct {
	Count   int
	Success int
	Failed  int
	MinRTT  float64
	MaxRTT  float64
	AvgRTT  float64
	SumRTT  float64
}

func newSummary() *Summary {
	return &Summary{
		RTTBuckets: make(map[string]int),
		ByMethod:   make(map[string]*MethodStats),
	}
}

// NewSink creates a new metrics sink
func NewSink() *Sink {
	return &Sink{
		metrics: make([]Metric, 0),
		summary: newSummary(),
	}
}

// Record records a new metric
func (s *Sink) Record(m Metric) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics = append(s.metrics, m)
	s.updateSummary(m)
}

// GetMetrics returns a copy of all recorded metrics
func (s *Sink) GetMetrics() []Metric {
	s.mu.RLock()
	defer s.mu.RUnlock()

	metrics := make([]Metric, len(s.metrics))
	copy(metrics, s.metrics)
	return metrics
}

// GetSummary returns a copy of the aggregated summary with percentiles
// filled in.
func (s *Sink) GetSummary() *Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summary := *s.summary
	summary.RTTBuckets = make(map[string]int)
	summary.ByMethod = make(map[string]*MethodStats, len(s.summary.ByMethod))
	for method, stats := range s.summary.ByMethod {
		copied := *stats
		summary.ByMethod[method] = &copied
	}

	rtts := make([]float64, 0, len(s.metrics))
	for _, m := range s.metrics {
		if m.Success && m.RTTMs > 0 {
			rtts = append(rtts, m.RTTMs)
			incrementBucket(summary.RTTBuckets, m.RTTMs)
		}
	}
	p := computePercentiles(rtts)
	summary.P50RTT, summary.P90RTT, summary.P95RTT, summary.P99RTT = p[0], p[1], p[2], p[3]
	return &summary
}

// updateSummary updates the summary statistics with a new metric
func (s *Sink) updateSummary(m Metric) {
	s.summary.TotalRequests++

	if m.Success {
		s.summary.SuccessfulRequests++
	} else {
		s.summary.FailedRequests++
		if strings.Contains(m.Error, "timeout") || strings.Contains(m.Error, "deadline exceeded") {
			s.summary.TimeoutCount++
		}
		if strings.Contains(m.Error, "connection") || strings.Contains(m.Error, "connect") {
			s.summary.ConnectionFailures++
		}
	}

	if m.Success && m.RTTMs > 0 {
		if s.summary.MinRTT == 0 || m.RTTMs < s.summary.MinRTT {
			s.summary.MinRTT = m.RTTMs
		}
		if m.RTTMs > s.summary.MaxRTT {
			s.summary.MaxRTT = m.RTTMs
		}
		totalRTT := s.summary.AvgRTT * float64(s.summary.SuccessfulRequests-1)
		totalRTT += m.RTTMs
		s.summary.AvgRTT = totalRTT / float64(s.summary.SuccessfulRequests)
	}

	stats, exists := s.summary.ByMethod[m.Method]
	if !exists {
		stats = &MethodStats{}
		s.summary.ByMethod[m.Method] = stats
	}
	stats.Count++
	if !m.Success {
		stats.Failed++
		return
	}
	stats.Success++
	if m.RTTMs > 0 {
		if stats.MinRTT == 0 || m.RTTMs < stats.MinRTT {
			stats.MinRTT = m.RTTMs
		}
		if m.RTTMs > stats.MaxRTT {
			stats.MaxRTT = m.RTTMs
		}
		stats.SumRTT += m.RTTMs
		stats.AvgRTT = stats.SumRTT / float64(stats.Success)
	}
}

func incrementBucket(buckets map[string]int, value float64) {
	switch {
	case value < 10:
		buckets["lt_10ms"]++
	case value < 50:
		buckets["10_50ms"]++
	case value < 100:
		buckets["50_100ms"]++
	case value < 500:
		buckets["100_500ms"]++
	case value < 1000:
		buckets["500_1000ms"]++
	default:
		buckets["gt_1s"]++
	}
}

func computePercentiles(values []float64) [4]float64 {
	var result [4]float64
	if len(values) == 0 {
		return result
	}
	sort.Float64s(values)
	result[0] = percentile(values, 0.50)
	result[1] = percentile(values, 0.90)
	result[2] = percentile(values, 0.95)
	result[3] = percentile(values, 0.99)
	return result
}

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := int(math.Ceil(p*float64(len(sorted)))) - 1
	if rank < 0 {
		rank = 0
	}
	if rank >= len(sorted) {
		rank = len(sorted) - 1
	}
	return sorted[rank]
}
