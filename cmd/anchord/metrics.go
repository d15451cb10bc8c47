// metrics.go - Metrics collection for the anchord pipeline
package main

import (
	"fmt"
	"sync"
	"time"
)

// MetricsCollector manages in-process counters and duration histograms
type MetricsCollector struct {
	mu         sync.RWMutex
	counters   map[string]int64
	histograms map[string][]float64
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector() *MetricsCollector {
	return &MetricsCollector{
		counters:   make(map[string]int64),
		histograms: make(map[string][]float64),
	}
}

// IncrementCounter increments a counter metric
func (mc *MetricsCollector) IncrementCounter(name string) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.counters[name]++
}

// RecordHistogram records a value in a histogram
func (mc *MetricsCollector) RecordHistogram(name string, value float64) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	mc.histograms[name] = append(mc.histograms[name], value)

	// Keep only last 1000 values for memory efficiency
	if len(mc.histograms[name]) > 1000 {
		mc.histograms[name] = mc.histograms[name][len(mc.histograms[name])-1000:]
	}
}

// Summary renders all metrics as printable lines
func (mc *MetricsCollector) Summary() []string {
	mc.mu.RLock()
	defer mc.mu.RUnlock()

	var lines []string
	for name, value := range mc.counters {
		lines = append(lines, fmt.Sprintf("%s: %d", name, value))
	}
	for name, values := range mc.histograms {
		if len(values) == 0 {
			continue
		}
		min, max, sum := values[0], values[0], 0.0
		for _, v := range values {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
			sum += v
		}
		lines = append(lines, fmt.Sprintf("%s: count=%d min=%.4fs max=%.4fs avg=%.4fs",
			name, len(values), min, max, sum/float64(len(values))))
	}
	return lines
}

// Predefined metric names
const (
	MetricTreeBuildTime   = "tree_build_time"
	MetricProofGenTime    = "proof_generation_time"
	MetricProofVerifyTime = "proof_verification_time"
	MetricProofCount      = "proof_count"
	MetricErrorCount      = "error_count"
)

// Convenience methods for common metrics
func (mc *MetricsCollector) RecordTreeBuild(duration time.Duration) {
	mc.RecordHistogram(MetricTreeBuildTime, duration.Seconds())
}

func (mc *MetricsCollector) RecordProofGeneration(duration time.Duration) {
	mc.IncrementCounter(MetricProofCount)
	mc.RecordHistogram(MetricProofGenTime, duration.Seconds())
}

func (mc *MetricsCollector) RecordProofVerification(duration time.Duration) {
	mc.RecordHistogram(MetricProofVerifyTime, duration.Seconds())
}

func (mc *MetricsCollector) RecordError() {
	mc.IncrementCounter(MetricErrorCount)
}
