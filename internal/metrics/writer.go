package metrics

// Metrics output (CSV/JSON) and summary formatting

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Writer handles writing metrics to files
type Writer struct {
	csvFile   *os.File
	csvWriter *csv.Writer
	jsonFile  *os.File
	jsonCount int
}

// NewWriter creates a new metrics writer. Either path may be empty.
func NewWriter(csvPath, jsonPath string) (*Writer, error) {
	w := &Writer{}

	if csvPath != "" {
		file, err := os.Create(csvPath)
		if err != nil {
			return nil, fmt.Errorf("create CSV file: %w", err)
		}
		w.csvFile = file
		w.csvWriter = csv.NewWriter(file)

		header := []string{"timestamp", "method", "url", "status", "success", "rtt_ms", "error"}
		if err := w.csvWriter.Write(header); err != nil {
			file.Close()
			return nil, fmt.Errorf("write CSV header: %w", err)
		}
		w.csvWriter.Flush()
	}

	if jsonPath != "" {
		file, err := os.Create(jsonPath)
		if err != nil {
			if w.csvFile != nil {
				w.csvFile.Close()
			}
			return nil, fmt.Errorf("create JSON file: %w", err)
		}
		w.jsonFile = file
		if _, err := file.WriteString("[\n"); err != nil {
			file.Close()
			if w.csvFile != nil {
				w.csvFile.Close()
			}
			return nil, fmt.Errorf("write JSON start: %w", err)
		}
	}

	return w, nil
}

// WriteMetric writes a single metric
func (w *Writer) WriteMetric(m Metric) error {
	if w.csvWriter != nil {
		record := []string{
			m.Timestamp.Format(time.RFC3339Nano),
			m.Method,
			m.URL,
			strconv.Itoa(m.Status),
			strconv.FormatBool(m.Success),
			formatRTT(m.RTTMs),
			m.Error,
		}
		if err := w.csvWriter.Write(record); err != nil {
			return fmt.Errorf("write CSV record: %w", err)
		}
		w.csvWriter.Flush()
	}

	if w.jsonFile != nil {
		data, err := json.MarshalIndent(m, "  ", "  ")
		if err != nil {
			return fmt.Errorf("marshal JSON: %w", err)
		}
		if w.jsonCount > 0 {
			if _, err := w.jsonFile.WriteString(",\n"); err != nil {
				return fmt.Errorf("write JSON comma: %w", err)
			}
		}
		if _, err := w.jsonFile.WriteString("  " + string(data)); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
		w.jsonCount++
	}

	return nil
}

// Close closes the writer and flushes all data
func (w *Writer) Close() error {
	var errs []error

	if w.csvWriter != nil {
		w.csvWriter.Flush()
		errs = append(errs, w.csvWriter.Error())
	}
	if w.csvFile != nil {
		errs = append(errs, w.csvFile.Close())
	}
	if w.jsonFile != nil {
		_, err := w.jsonFile.WriteString("\n]\n")
		errs = append(errs, err, w.jsonFile.Close())
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}
	return nil
}

// formatRTT formats RTT value for CSV (empty string if 0)
func formatRTT(rtt float64) string {
	if rtt == 0 {
		return ""
	}
	return fmt.Sprintf("%.3f", rtt)
}

// FormatSummary formats a summary for human-readable output
func FormatSummary(summary *Summary) string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Total Requests: %d\n", summary.TotalRequests)
	if summary.TotalRequests == 0 {
		return buf.String()
	}
	fmt.Fprintf(&buf, "Successful: %d (%.1f%%)\n",
		summary.SuccessfulRequests,
		float64(summary.SuccessfulRequests)/float64(summary.TotalRequests)*100)
	fmt.Fprintf(&buf, "Failed: %d (%.1f%%)\n",
		summary.FailedRequests,
		float64(summary.FailedRequests)/float64(summary.TotalRequests)*100)

	if summary.TimeoutCount > 0 {
		fmt.Fprintf(&buf, "Timeouts: %d\n", summary.TimeoutCount)
	}
	if summary.ConnectionFailures > 0 {
		fmt.Fprintf(&buf, "Connection Failures: %d\n", summary.ConnectionFailures)
	}

	if summary.SuccessfulRequests > 0 {
		buf.WriteString("\nRTT Statistics:\n")
		fmt.Fprintf(&buf, "  Min: %.3f ms\n", summary.MinRTT)
		fmt.Fprintf(&buf, "  Max: %.3f ms\n", summary.MaxRTT)
		fmt.Fprintf(&buf, "  Avg: %.3f ms\n", summary.AvgRTT)
		fmt.Fprintf(&buf, "  P50: %.3f ms\n", summary.P50RTT)
		fmt.Fprintf(&buf, "  P90: %.3f ms\n", summary.P90RTT)
		fmt.Fprintf(&buf, "  P95: %.3f ms\n", summary.P95RTT)
		fmt.Fprintf(&buf, "  P99: %.3f ms\n", summary.P99RTT)
		if len(summary.RTTBuckets) > 0 {
			fmt.Fprintf(&buf, "  Buckets: <10ms=%d 10-50ms=%d 50-100ms=%d 100-500ms=%d 500ms-1s=%d >1s=%d\n",
				summary.RTTBuckets["lt_10ms"],
				summary.RTTBuckets["10_50ms"],
				summary.RTTBuckets["50_100ms"],
				summary.RTTBuckets["100_500ms"],
				summary.RTTBuckets["500_1000ms"],
				summary.RTTBuckets["gt_1s"],
			)
		}
	}

	if len(summary.ByMethod) > 0 {
		buf.WriteString("\nPer-Method Statistics:\n")
		methods := make([]string, 0, len(summary.ByMethod))
		for m := range summary.ByMethod {
			methods = append(methods, m)
		}
		sort.Strings(methods)
		for _, method := range methods {
			stats := summary.ByMethod[method]
			fmt.Fprintf(&buf, "  %s: %d requests (%d success, %d failed)",
				method, stats.Count, stats.Success, stats.Failed)
			if stats.Success > 0 {
				fmt.Fprintf(&buf, " - RTT: min=%.3fms, max=%.3fms, avg=%.3fms",
					stats.MinRTT, stats.MaxRTT, stats.AvgRTT)
			}
			buf.WriteString("\n")
		}
	}

	return buf.String()
}
