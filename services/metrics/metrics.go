package metricsvc

import (
	"context"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mrxclay666777/speakyz/core/inquiry"
	"github.com/mrxclay666777/speakyz/core/locale"
	"github.com/mrxclay666777/speakyz/core/theme"
	"github.com/mrxclay666777/speakyz/core/visitor"
)

// Metrics exposes the site's counters to prometheus.
type Metrics struct {
	registry       *prometheus.Registry
	activeSessions prometheus.Gauge
	themeChanges   *prometheus.CounterVec
	localeChanges  *prometheus.CounterVec
	inquiries      prometheus.Counter
}

var _ inquiry.Notifier = (*Metrics)(nil)

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "speakyz",
			Name:      "visitor_sessions_active",
			Help:      "Visitor sessions held in memory.",
		}),
		themeChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "speakyz",
			Name:      "theme_changes_total",
			Help:      "Committed theme changes by resulting mode and provenance.",
		}, []string{"mode", "source"}),
		localeChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "speakyz",
			Name:      "locale_changes_total",
			Help:      "Committed locale changes by resulting locale.",
		}, []string{"locale"}),
		inquiries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "speakyz",
			Name:      "inquiries_total",
			Help:      "Contact form submissions stored.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.activeSessions, m.themeChanges, m.localeChanges, m.inquiries,
	)
	return m
}

// ObserveSession counts the session & the changes committed by its stores until it closes.
func (m *Metrics) ObserveSession(sess *visitor.Session) {
	m.activeSessions.Inc()

	var mu sync.Mutex
	lastMode := sess.Theme.Current()
	lastLocale := sess.Locale.Current().Code

	unsubTheme := sess.Theme.Subscribe(func(s theme.State) {
		mu.Lock()
		defer mu.Unlock()
		if s.Mode != lastMode {
			lastMode = s.Mode
			m.themeChanges.WithLabelValues(string(s.Mode), s.Source.String()).Inc()
		}
	})
	unsubLocale := sess.Locale.Subscribe(func(s locale.State) {
		mu.Lock()
		defer mu.Unlock()
		if s.Locale.Code != lastLocale {
			lastLocale = s.Locale.Code
			m.localeChanges.WithLabelValues(s.Locale.Code).Inc()
		}
	})

	sess.OnClose(func() {
		unsubTheme()
		unsubLocale()
		m.activeSessions.Dec()
	})
}

func (m *Metrics) InquiryReceived(context.Context, inquiry.Inquiry) error {
	m.inquiries.Inc()
	return nil
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
