// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package metric

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// CoreMetric defines the actor core instrumentation
type CoreMetric struct {
	// Specifies the number of loop iterations
	iterationCount metric.Int64ObservableCounter
	// Specifies the number of messages dropped by a full inbound queue
	droppedCount metric.Int64ObservableCounter
	// Specifies the number of handler invocations per event kind
	eventCount metric.Int64Counter
	// Specifies how often the loop woke up past its deadline
	fallingBehindCount metric.Int64Counter
	// Specifies the number of failed or panicking handler invocations
	failureCount metric.Int64Counter
	// Specifies the handler duration in microseconds
	handlerDuration metric.Int64Histogram
}

// NewCoreMetric creates an instance of CoreMetric
func NewCoreMetric(meter metric.Meter) (*CoreMetric, error) {
	coreMetric := new(CoreMetric)
	var err error

	if coreMetric.iterationCount, err = meter.Int64ObservableCounter(
		"sphactor_iteration_count",
		metric.WithDescription("Total number of event loop iterations"),
	); err != nil {
		return nil, fmt.Errorf("failed to create iterationCount instrument, %w", err)
	}

	if coreMetric.droppedCount, err = meter.Int64ObservableCounter(
		"sphactor_dropped_count",
		metric.WithDescription("Total number of inbound messages dropped because the queue was full"),
	); err != nil {
		return nil, fmt.Errorf("failed to create droppedCount instrument, %w", err)
	}

	if coreMetric.eventCount, err = meter.Int64Counter(
		"sphactor_event_count",
		metric.WithDescription("Total number of handler invocations per event kind"),
	); err != nil {
		return nil, fmt.Errorf("failed to create eventCount instrument, %w", err)
	}

	if coreMetric.fallingBehindCount, err = meter.Int64Counter(
		"sphactor_falling_behind_count",
		metric.WithDescription("Total number of iterations started past the deadline"),
	); err != nil {
		return nil, fmt.Errorf("failed to create fallingBehindCount instrument, %w", err)
	}

	if coreMetric.failureCount, err = meter.Int64Counter(
		"sphactor_handler_failure_count",
		metric.WithDescription("Total number of handler invocations that failed or panicked"),
	); err != nil {
		return nil, fmt.Errorf("failed to create failureCount instrument, %w", err)
	}

	if coreMetric.handlerDuration, err = meter.Int64Histogram(
		"sphactor_handler_duration",
		metric.WithDescription("The latency of handler invocations in microseconds"),
		metric.WithUnit("us"),
	); err != nil {
		return nil, fmt.Errorf("failed to create handlerDuration instrument, %w", err)
	}

	return coreMetric, nil
}

// IterationCount returns the event loop iteration counter
func (x *CoreMetric) IterationCount() metric.Int64ObservableCounter {
	return x.iterationCount
}

// DroppedCount returns the dropped inbound message counter
func (x *CoreMetric) DroppedCount() metric.Int64ObservableCounter {
	return x.droppedCount
}

// EventCount returns the handler invocation counter
func (x *CoreMetric) EventCount() metric.Int64Counter {
	return x.eventCount
}

// FallingBehindCount returns the late wake-up counter
func (x *CoreMetric) FallingBehindCount() metric.Int64Counter {
	return x.fallingBehindCount
}

// FailureCount returns the handler failure counter
func (x *CoreMetric) FailureCount() metric.Int64Counter {
	return x.failureCount
}

// HandlerDuration returns the handler latency histogram
func (x *CoreMetric) HandlerDuration() metric.Int64Histogram {
	return x.handlerDuration
}
