package main

import (
	"fmt"
	"time"
)

// / The primary interface to metrics.  Guard call sites with GMetrics being
// / non-nil, or go through MetricRecord which does it for you.
var GMetrics *Metrics = nil

type Metric struct {
	name string
	/// Number of times we've hit the code path.
	count int
	/// Total time (in platform-dependent units) we've spent on the code path.
	sum int64
}

type Metrics struct {
	metrics_ []*Metric
}

func NewMetrics() *Metrics {
	ret := Metrics{}
	return &ret
}

// / NewMetric returns the metric named name, creating it on first use.
func (this *Metrics) NewMetric(name string) *Metric {
	for _, metric := range this.metrics_ {
		if metric.name == name {
			return metric
		}
	}
	metric := Metric{}
	metric.name = name
	this.metrics_ = append(this.metrics_, &metric)
	return &metric
}

// / Print a summary report to stdout.
func (this *Metrics) Report() {
	width := 0
	for _, metric := range this.metrics_ {
		width = max(len(metric.name), width)
	}

	fmt.Printf("%-*s\t%-6s\t%-9s\t%s\n", width,
		"metric", "count", "avg (us)", "total (ms)")
	for _, metric := range this.metrics_ {
		micros := TimerToMicrosInt64(metric.sum)
		total := float64(micros) / float64(1000)
		avg := float64(micros) / float64(metric.count)
		fmt.Printf("%-*s\t%-6d\t%-8.1f\t%.1f\n", width, metric.name, metric.count, avg, total)
	}
}

// / A scoped object for recording a metric across the body of a function.
type ScopedMetric struct {
	metric_ *Metric
	start_  int64
}

func NewScopedMetric(metric *Metric) *ScopedMetric {
	ret := ScopedMetric{}
	ret.metric_ = metric
	if metric != nil {
		ret.start_ = HighResTimer()
	}
	return &ret
}

func (this *ScopedMetric) Release() {
	if this.metric_ == nil {
		return
	}
	this.metric_.count++
	this.metric_.sum += HighResTimer() - this.start_
}

// / MetricRecord times the enclosing scope when -d stats is on:
// /
// /	defer MetricRecord("scan lines").Release()
func MetricRecord(name string) *ScopedMetric {
	if GMetrics == nil {
		return NewScopedMetric(nil)
	}
	return NewScopedMetric(GMetrics.NewMetric(name))
}

// / A simple stopwatch which returns the time
// / in seconds since Restart() was called.
type Stopwatch struct {
	started_ uint64
}

func NewStopwatch() *Stopwatch {
	ret := Stopwatch{}
	ret.started_ = 0
	return &ret
}

// / Seconds since Restart() call.
func (this *Stopwatch) Elapsed() float64 {
	return 1e-6 * float64(TimerToMicrosInt64(int64(this.NowRaw()-this.started_)))
}

func (this *Stopwatch) Restart() {
	this.started_ = this.NowRaw()
}

func (this *Stopwatch) NowRaw() uint64 {
	return uint64(HighResTimer())
}

// / Compute a platform-specific high-res timer value that fits into an int64.
func HighResTimer() int64 {
	return time.Now().UnixNano()
}

func TimerToMicrosInt64(dt int64) int64 {
	return time.Duration(dt).Microseconds()
}

func GetTimeMillis() int64 {
	return TimerToMicrosInt64(HighResTimer()) / 1000
}
