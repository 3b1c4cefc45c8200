package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func family(t *testing.T, m *Metrics, name string) *dto.MetricFamily {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	return nil
}

func TestObserveRequest(t *testing.T) {
	m := New()
	m.ObserveRequest("GET", "GET /api/agenda", 200, 20*time.Millisecond)
	m.ObserveRequest("GET", "", 404, time.Millisecond)

	f := family(t, m, "siag_http_requests_total")
	if f == nil {
		t.Fatal("request counter not registered")
	}
	if len(f.GetMetric()) != 2 {
		t.Fatalf("got %d series, want 2", len(f.GetMetric()))
	}
	var sawUnmatched bool
	for _, metric := range f.GetMetric() {
		for _, l := range metric.GetLabel() {
			if l.GetName() == "route" && l.GetValue() == "unmatched" {
				sawUnmatched = true
			}
		}
	}
	if !sawUnmatched {
		t.Error("empty route not labelled unmatched")
	}
}

func TestCounters(t *testing.T) {
	m := New()
	m.Export("ics")
	m.Export("ics")
	m.Login(false)
	m.ReminderRun(errors.New("boom"))
	m.SetWebsocketClients(3)
	m.PushDelivery("expired")

	f := family(t, m, "siag_exports_total")
	if f == nil || f.GetMetric()[0].GetCounter().GetValue() != 2 {
		t.Errorf("exports = %v, want 2", f)
	}
	g := family(t, m, "siag_websocket_clients")
	if g == nil || g.GetMetric()[0].GetGauge().GetValue() != 3 {
		t.Errorf("websocket clients = %v, want 3", g)
	}
	p := family(t, m, "siag_push_deliveries_total")
	if p == nil || p.GetMetric()[0].GetLabel()[0].GetValue() != "expired" {
		t.Errorf("push deliveries = %v, want one expired", p)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", "/", 200, time.Second)
	m.AgendaEvent("hearing")
	m.Export("csv")
	m.Login(true)
	m.NotificationSent("task")
	m.ReminderRun(nil)
	m.PushDelivery("sent")
	m.SetWebsocketClients(1)
}

func TestHandler(t *testing.T) {
	m := New()
	m.AgendaEvent("deadline")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `siag_agenda_events_served_total{kind="deadline"} 1`) {
		t.Error("exposition lacks the agenda counter")
	}
}
