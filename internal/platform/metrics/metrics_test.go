package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/smartystreets/goconvey/convey"
)

func TestManager(t *testing.T) {
	convey.Convey("Given a manager on a private registry", t, func() {
		registry := prometheus.NewRegistry()
		m := NewManager(WithRegistry(registry), WithNamespace("test"))

		convey.Convey("When decisions and conflicts are observed", func() {
			m.ObserveDecision("administrative", "pending")
			m.ObserveDecision("administrative", "pending")
			m.ObserveDecision("self_service", "rejected")
			m.ObserveConflict("time_overlap", false)

			convey.Convey("Then the counters reflect them", func() {
				convey.So(testutil.ToFloat64(m.decisions.WithLabelValues("administrative", "pending")), convey.ShouldEqual, 2)
				convey.So(testutil.ToFloat64(m.decisions.WithLabelValues("self_service", "rejected")), convey.ShouldEqual, 1)
				convey.So(testutil.ToFloat64(m.conflicts.WithLabelValues("time_overlap", "false")), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When cache lookups and generated games are observed", func() {
			m.CacheHit("officials")
			m.CacheMiss("officials")
			m.ObserveScheduleGenerated("swiss", 20)
			m.SetBreakerOpen("distance", true)

			convey.Convey("Then they are exposed on the handler", func() {
				rec := httptest.NewRecorder()
				m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
				body := rec.Body.String()
				convey.So(rec.Code, convey.ShouldEqual, http.StatusOK)
				convey.So(strings.Contains(body, `test_cache_lookups_total{result="hit",store="officials"} 1`), convey.ShouldBeTrue)
				convey.So(strings.Contains(body, `test_schedule_games_generated_total{format="swiss"} 20`), convey.ShouldBeTrue)
				convey.So(strings.Contains(body, `test_resilience_circuit_open{breaker="distance"} 1`), convey.ShouldBeTrue)
			})
		})
	})
}

func TestNilManagerIsNoop(t *testing.T) {
	convey.Convey("Given a nil manager", t, func() {
		var m *Manager

		convey.Convey("Then every observation is a no-op", func() {
			convey.So(func() {
				m.ObserveDecision("self_service", "pending")
				m.ObserveConflict("position_filled", true)
				m.ObserveValidation(time.Millisecond)
				m.ObserveHTTP(http.MethodGet, "/healthz", http.StatusOK, time.Millisecond)
				m.CacheHit("games")
			}, convey.ShouldNotPanic)
			convey.So(m.Registry(), convey.ShouldBeNil)
		})
	})
}
