package metrics

import "github.com/prometheus/client_golang/prometheus"

// PlatformMetrics exposes counters/histograms for the booking and auth flows.
type PlatformMetrics struct {
	otpSentTotal      *prometheus.CounterVec
	otpVerifiedTotal  *prometheus.CounterVec
	bookingsTotal     *prometheus.CounterVec
	paymentVerifyTime *prometheus.HistogramVec
	uploadsTotal      *prometheus.CounterVec
}

func NewPlatformMetrics(reg prometheus.Registerer) *PlatformMetrics {
	m := &PlatformMetrics{
		otpSentTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bh",
			Subsystem: "auth",
			Name:      "otp_sent_total",
			Help:      "Total OTP send attempts",
		}, []string{"status"}),
		otpVerifiedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bh",
			Subsystem: "auth",
			Name:      "otp_verified_total",
			Help:      "Total OTP verification attempts",
		}, []string{"status"}),
		bookingsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bh",
			Subsystem: "booking",
			Name:      "confirmed_total",
			Help:      "Total confirmed bookings",
		}, []string{"service"}),
		paymentVerifyTime: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bh",
			Subsystem: "payments",
			Name:      "verify_latency_seconds",
			Help:      "Latency of payment signature verification and booking persistence",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		uploadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bh",
			Subsystem: "media",
			Name:      "uploads_total",
			Help:      "Total document/media uploads",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.otpSentTotal, m.otpVerifiedTotal, m.bookingsTotal, m.paymentVerifyTime, m.uploadsTotal)
	return m
}

func (m *PlatformMetrics) ObserveOTPSent(status string) {
	if m == nil {
		return
	}
	m.otpSentTotal.WithLabelValues(status).Inc()
}

func (m *PlatformMetrics) ObserveOTPVerified(status string) {
	if m == nil {
		return
	}
	m.otpVerifiedTotal.WithLabelValues(status).Inc()
}

func (m *PlatformMetrics) ObserveBookingConfirmed(service string) {
	if m == nil {
		return
	}
	m.bookingsTotal.WithLabelValues(service).Inc()
}

func (m *PlatformMetrics) ObservePaymentVerify(status string, seconds float64) {
	if m == nil {
		return
	}
	m.paymentVerifyTime.WithLabelValues(status).Observe(seconds)
}

func (m *PlatformMetrics) ObserveUpload(status string) {
	if m == nil {
		return
	}
	m.uploadsTotal.WithLabelValues(status).Inc()
}
