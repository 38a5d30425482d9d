package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

// value reads the current value of a single-metric counter or gauge.
func value(c prometheus.Collector) float64 {
	ch := make(chan prometheus.Metric, 1)
	c.Collect(ch)
	var pb dto.Metric
	if err := (<-ch).Write(&pb); err != nil {
		return -1
	}
	switch {
	case pb.Counter != nil:
		return pb.Counter.GetValue()
	case pb.Gauge != nil:
		return pb.Gauge.GetValue()
	}
	return -1
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options on a fresh registry", func() {
			manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()))

			Convey("Then it should be created with the service namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "possession")
				So(manager.enabled, ShouldBeTrue)
			})
		})

		Convey("When creating with custom options", func() {
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("unit"),
				WithHistogramBuckets([]float64{1, 2}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(prometheus.NewRegistry()),
			)

			Convey("Then the options should be applied", func() {
				So(manager.namespace, ShouldEqual, "test")
				So(manager.subsystem, ShouldEqual, "unit")
				So(manager.histogramBuckets, ShouldResemble, []float64{1, 2})
			})
		})

		Convey("When empty values are passed", func() {
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(nil),
			)

			Convey("Then defaults should be kept", func() {
				So(manager.namespace, ShouldEqual, "possession")
				So(manager.subsystem, ShouldEqual, "analysis")
				So(manager.histogramBuckets, ShouldNotBeEmpty)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given a manager on its own registry", t, func() {
		registry := prometheus.NewRegistry()
		manager := NewManager(WithPrometheusRegistry(registry))

		Convey("When recording possession for party a", func() {
			manager.RecordPossession("a", 12, 3, 40)
			manager.RecordPossession("a", 1, 1, 2)

			Convey("Then counters should accumulate per party", func() {
				So(value(manager.possessionSeconds.WithLabelValues("a")), ShouldEqual, 13)
				So(value(manager.intervalsEmitted.WithLabelValues("a")), ShouldEqual, 4)
				So(value(manager.containmentEvents.WithLabelValues("a")), ShouldEqual, 42)
			})
		})

		Convey("When recording frames and analyses", func() {
			manager.RecordFramesScanned(100)
			manager.RecordAnalysis("done", 3)
			manager.RecordSecondsAnalysed(2)

			Convey("Then the values should be exported", func() {
				So(value(manager.framesScanned), ShouldEqual, 100)
				So(value(manager.analyses.WithLabelValues("done")), ShouldEqual, 1)
				So(value(manager.secondsAnalysed), ShouldEqual, 2)
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				var samples uint64
				for _, f := range families {
					if f.GetName() == "possession_analysis_analysis_latency_milliseconds" {
						samples = f.GetMetric()[0].GetHistogram().GetSampleCount()
					}
				}
				So(samples, ShouldEqual, 1)
			})
		})

		Convey("When recording queue, worker and HTTP metrics", func() {
			So(func() {
				manager.UpdateQueueCapacity(10)
				manager.UpdateQueueSize(3)
				manager.RecordQueueEnqueue()
				manager.RecordQueueEnqueueError("full")
				manager.UpdateWorkerActiveCount(2)
				manager.RecordWorkerProcessingLatency(5)
				manager.RecordWorkerError()
				manager.RecordHTTPRequest("analyses", "POST", "202", 1.5)
				manager.RecordHTTPError("analyses", "POST", "client_error")
				manager.UpdateSystemMemoryUsage(1024)
				manager.UpdateSystemResidentMemory(2048)
				manager.UpdateSystemGoroutineCount(8)
				manager.UpdateReportsStored(1)
				manager.RecordReportEvicted()
				manager.RecordDetectionIgnored("unknown_name")
			}, ShouldNotPanic)

			Convey("Then gauges should hold the last value", func() {
				So(value(manager.queueSize), ShouldEqual, 3)
				So(value(manager.workerActive), ShouldEqual, 2)
			})
		})
	})

	Convey("Given a disabled manager", t, func() {
		manager := NewManager(WithPrometheusRegistry(prometheus.NewRegistry()), WithMetricsEnabled(false))

		Convey("When recording", func() {
			manager.RecordFramesScanned(10)
			manager.UpdateQueueSize(4)

			Convey("Then nothing should be observed", func() {
				So(value(manager.framesScanned), ShouldEqual, 0)
				So(value(manager.queueSize), ShouldEqual, 0)
			})
		})
	})
}

func TestGlobalRegistry(t *testing.T) {
	Convey("Given the package-level helpers", t, func() {
		RecordFramesScanned(1)
		RecordPossession("b", 1, 1, 1)

		Convey("Then the custom registry should expose the metrics", func() {
			families, err := GetRegistry().Gather()
			So(err, ShouldBeNil)

			found := false
			for _, f := range families {
				if strings.HasSuffix(f.GetName(), "frames_scanned_total") {
					found = true
				}
			}
			So(found, ShouldBeTrue)
		})
	})
}
