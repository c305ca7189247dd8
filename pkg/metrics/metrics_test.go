package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	. "github.com/smartystreets/goconvey/convey"
)

func gather(reg prometheus.Gatherer, name string) *dto.MetricFamily {
	families, err := reg.Gather()
	So(err, ShouldBeNil)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func counterValue(f *dto.MetricFamily, labels map[string]string) float64 {
	if f == nil {
		return 0
	}
	for _, m := range f.GetMetric() {
		match := true
		for _, lp := range m.GetLabel() {
			if want, ok := labels[lp.GetName()]; ok && want != lp.GetValue() {
				match = false
			}
		}
		if match {
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test"),
				WithSubsystem("grading"),
				WithHistogramBuckets([]float64{1, 10, 100}),
				WithGradeBuckets([]float64{5, 10, 15, 20}),
				WithCustomLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)
			manager.sessionsCreated.Inc()

			Convey("Then metrics carry the namespace, subsystem and constant labels", func() {
				f := gather(registry, "test_grading_sessions_created_total")
				So(f, ShouldNotBeNil)
				So(f.GetMetric()[0].GetLabel()[0].GetName(), ShouldEqual, "env")
				So(f.GetMetric()[0].GetCounter().GetValue(), ShouldEqual, 1)
			})
		})

		Convey("When empty options are passed", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "gradebook")
				So(manager.histogramBuckets, ShouldResemble, prometheus.DefBuckets)
			})
		})
	})
}

func TestGlobalRecording(t *testing.T) {
	Convey("Given the global registry", t, func() {
		reg := GetRegistry()

		Convey("When imports are recorded", func() {
			before := counterValue(gather(reg, "gradebook_records_imported_total"), map[string]string{"kind": "roster"})
			RecordImport("roster", 3, true)
			RecordImport("roster", 5, false)

			Convey("Then only successful records are counted", func() {
				after := counterValue(gather(reg, "gradebook_records_imported_total"), map[string]string{"kind": "roster"})
				So(after-before, ShouldEqual, 3)
				failed := counterValue(gather(reg, "gradebook_imports_total"),
					map[string]string{"kind": "roster", "outcome": OutcomeFailure})
				So(failed, ShouldBeGreaterThanOrEqualTo, 1)
			})
		})

		Convey("When exports are recorded", func() {
			before := counterValue(gather(reg, "gradebook_export_bytes_total"), nil)
			RecordExport(42, true)
			RecordExport(100, false)

			Convey("Then bytes follow successful exports", func() {
				after := counterValue(gather(reg, "gradebook_export_bytes_total"), nil)
				So(after-before, ShouldEqual, 42)
			})
		})

		Convey("When the remaining recorders are called", func() {
			So(func() {
				RecordScore()
				RecordScoreRejected()
				ObserveGrade(16.67)
				UpdateActiveSessions(2)
				RecordSessionCreated()
				RecordSessionEvicted()
				RecordHTTPRequest("/sessions", "POST", "201")
				RecordHTTPRequestDuration("/sessions", "POST", "201", 1.5)
				RecordErrorByComponent("api", "invalid_score")
			}, ShouldNotPanic)

			Convey("Then the gauge reflects the last update", func() {
				f := gather(reg, "gradebook_active_sessions")
				So(f, ShouldNotBeNil)
				So(f.GetMetric()[0].GetGauge().GetValue(), ShouldEqual, 2)
			})
		})
	})
}
