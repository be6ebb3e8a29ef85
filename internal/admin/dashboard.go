package admin

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/betterhealth/bh-platform/internal/http/httpapi"
	"github.com/betterhealth/bh-platform/pkg/logging"
)

// DashboardHandler serves the staff overview of platform activity.
type DashboardHandler struct {
	db     *sql.DB
	logger *logging.Logger
	now    func() time.Time
}

// NewDashboardHandler creates the admin dashboard handler.
func NewDashboardHandler(db *sql.DB, logger *logging.Logger) *DashboardHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &DashboardHandler{db: db, logger: logger, now: time.Now}
}

// OverviewResponse contains the dashboard metrics.
type OverviewResponse struct {
	Period       string             `json:"period"`
	Users        UserMetrics        `json:"users"`
	Bookings     BookingMetrics     `json:"bookings"`
	Revenue      RevenueMetrics     `json:"revenue"`
	Applications ApplicationMetrics `json:"applications"`
}

// UserMetrics contains account counts.
type UserMetrics struct {
	Total       int `json:"total"`
	NewThisWeek int `json:"new_this_week"`
}

// BookingMetrics contains booking counts.
type BookingMetrics struct {
	Total       int `json:"total"`
	ThisWeek    int `json:"this_week"`
	Cosmetology int `json:"cosmetology"`
	Counselling int `json:"counselling"`
}

// RevenueMetrics contains collected amounts in whole rupees.
type RevenueMetrics struct {
	TotalRupees    int64 `json:"total_rupees"`
	ThisWeekRupees int64 `json:"this_week_rupees"`
	DiscountRupees int64 `json:"discount_rupees"`
}

// ApplicationMetrics contains provider application counts.
type ApplicationMetrics struct {
	Pending  int `json:"pending"`
	Verified int `json:"verified"`
}

// GetOverview returns the dashboard overview.
// GET /admin/dashboard
func (h *DashboardHandler) GetOverview(w http.ResponseWriter, r *http.Request) {
	period := r.URL.Query().Get("period")
	if period == "" {
		period = "week"
	}

	overview := OverviewResponse{Period: period}

	now := h.now()
	weekAgo := now.AddDate(0, 0, -7)

	h.db.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM users`,
	).Scan(&overview.Users.Total)

	h.db.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM users WHERE created_at >= $1`, weekAgo,
	).Scan(&overview.Users.NewThisWeek)

	h.db.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM bookings WHERE status = 'confirmed'`,
	).Scan(&overview.Bookings.Total)

	h.db.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM bookings WHERE status = 'confirmed' AND created_at >= $1`, weekAgo,
	).Scan(&overview.Bookings.ThisWeek)

	h.db.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM bookings WHERE status = 'confirmed' AND service_type = 'cosmetology'`,
	).Scan(&overview.Bookings.Cosmetology)

	h.db.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM bookings WHERE status = 'confirmed' AND service_type = 'counselling'`,
	).Scan(&overview.Bookings.Counselling)

	h.db.QueryRowContext(r.Context(),
		`SELECT COALESCE(SUM(amount_rupees), 0) FROM bookings WHERE status = 'confirmed'`,
	).Scan(&overview.Revenue.TotalRupees)

	h.db.QueryRowContext(r.Context(),
		`SELECT COALESCE(SUM(amount_rupees), 0) FROM bookings WHERE status = 'confirmed' AND created_at >= $1`, weekAgo,
	).Scan(&overview.Revenue.ThisWeekRupees)

	h.db.QueryRowContext(r.Context(),
		`SELECT COALESCE(SUM(discount_rupees), 0) FROM bookings WHERE status = 'confirmed'`,
	).Scan(&overview.Revenue.DiscountRupees)

	h.db.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM applications WHERE status = 'pending'`,
	).Scan(&overview.Applications.Pending)

	h.db.QueryRowContext(r.Context(),
		`SELECT COUNT(*) FROM applications WHERE status = 'verified'`,
	).Scan(&overview.Applications.Verified)

	httpapi.WriteJSON(w, http.StatusOK, overview)
}
