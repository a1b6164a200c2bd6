package services

import "github.com/prometheus/client_golang/prometheus"

// DomainMetrics - счётчики предметной области. Nil-значение допустимо и ничего не считает.
type DomainMetrics struct {
	otpRequests   *prometheus.CounterVec
	logins        *prometheus.CounterVec
	fightsCreated *prometheus.CounterVec
	uploads       *prometheus.CounterVec
}

func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	m := &DomainMetrics{
		otpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "camma",
			Name:      "otp_requests_total",
			Help:      "OTP requests by dispatch result.",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "camma",
			Name:      "logins_total",
			Help:      "OTP login attempts by result.",
		}, []string{"result"}),
		fightsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "camma",
			Name:      "fights_created_total",
			Help:      "Fights added to event cards, by creation path.",
		}, []string{"path"}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "camma",
			Name:      "uploads_total",
			Help:      "Stored uploads by kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(m.otpRequests, m.logins, m.fightsCreated, m.uploads)
	return m
}

func (m *DomainMetrics) otpRequested(result string) {
	if m != nil {
		m.otpRequests.WithLabelValues(result).Inc()
	}
}

func (m *DomainMetrics) loginAttempt(result string) {
	if m != nil {
		m.logins.WithLabelValues(result).Inc()
	}
}

func (m *DomainMetrics) fightCreated(path string) {
	if m != nil {
		m.fightsCreated.WithLabelValues(path).Inc()
	}
}

func (m *DomainMetrics) uploadStored(kind string) {
	if m != nil {
		m.uploads.WithLabelValues(kind).Inc()
	}
}
