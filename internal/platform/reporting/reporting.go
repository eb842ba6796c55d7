// Package reporting evaluates predefined operational reports against the
// database. Each report is a named SQL definition executed through a shared
// routine, so adding a report means adding a row to the table below.
package reporting

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"

	"github.com/clinicdesk/clinicdesk/internal/platform/auth"
	"github.com/clinicdesk/clinicdesk/pkg/respond"
)

// ReportDefinition describes one predefined report.
type ReportDefinition struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	SQL         string   `json:"-"`
	Parameters  []string `json:"parameters,omitempty"`
}

// Report is the result of evaluating a definition.
type Report struct {
	ReportID    string                   `json:"report_id"`
	ReportName  string                   `json:"report_name"`
	GeneratedAt time.Time                `json:"generated_at"`
	Rows        []map[string]interface{} `json:"rows"`
	Parameters  map[string]string        `json:"parameters,omitempty"`
}

// PredefinedReports is the full set of reports the API can evaluate.
var PredefinedReports = []ReportDefinition{
	{
		ID:          "revenue-by-month",
		Name:        "Revenue by Month",
		Description: "Paid order totals grouped by clinic and calendar month",
		SQL: `SELECT clinic_name,
		       to_char(date_trunc('month', bill_date), 'YYYY-MM') AS month,
		       COUNT(*) AS orders,
		       SUM(total_amount) AS revenue
		FROM orders
		WHERE payment_status = 'paid' AND bill_date IS NOT NULL
		GROUP BY clinic_name, date_trunc('month', bill_date)
		ORDER BY month DESC, clinic_name`,
	},
	{
		ID:          "practitioner-timesheet",
		Name:        "Practitioner Timesheet",
		Description: "Fulfilled appointment counts and total minutes per practitioner per day",
		SQL: `SELECT a.practitioner_id,
		       p.name AS practitioner_name,
		       date_trunc('day', a.start_time)::date AS day,
		       COUNT(*) AS appointments,
		       SUM(EXTRACT(EPOCH FROM (a.end_time - a.start_time)) / 60)::int AS minutes
		FROM appointment a
		JOIN practitioner p ON p.id = a.practitioner_id
		WHERE a.status = 'fulfilled'
		GROUP BY a.practitioner_id, p.name, date_trunc('day', a.start_time)
		ORDER BY day DESC, practitioner_name`,
	},
	{
		ID:          "order-status-breakdown",
		Name:        "Order Status Breakdown",
		Description: "Order counts and amounts grouped by lifecycle and payment status",
		SQL: `SELECT status,
		       payment_status,
		       COUNT(*) AS orders,
		       SUM(total_amount) AS total_amount,
		       SUM(amount_paid) AS amount_paid
		FROM orders
		GROUP BY status, payment_status
		ORDER BY status, payment_status`,
	},
	{
		ID:          "copay-summary",
		Name:        "Copay Summary",
		Description: "Configured copay amounts per insurance payer and plan",
		SQL: `SELECT ip.name AS payer_name,
		       ip.payer_code,
		       pl.name AS plan_name,
		       pl.copay_amount,
		       pl.copay_percentage,
		       pl.cob_order
		FROM insurance_plan pl
		JOIN insurance_payer ip ON ip.id = pl.payer_id
		ORDER BY ip.name, pl.cob_order, pl.name`,
	},
}

// FindReport returns the definition with the given id, or nil.
func FindReport(id string) *ReportDefinition {
	for i := range PredefinedReports {
		if PredefinedReports[i].ID == id {
			return &PredefinedReports[i]
		}
	}
	return nil
}

// Handler serves the reporting endpoints.
type Handler struct {
	pool *pgxpool.Pool
}

func NewHandler(pool *pgxpool.Pool) *Handler {
	return &Handler{pool: pool}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	r := g.Group("/reports", auth.RequireRole("admin", "billing"))
	r.GET("", h.ListReports)
	r.GET("/:id", h.EvaluateReport)
}

// ListReports returns the available report definitions.
func (h *Handler) ListReports(c echo.Context) error {
	return respond.JSON(c, http.StatusOK, PredefinedReports)
}

// EvaluateReport runs one report and returns its rows.
func (h *Handler) EvaluateReport(c echo.Context) error {
	def := FindReport(c.Param("id"))
	if def == nil {
		return respond.NewError(http.StatusNotFound, "not_found", "report not found")
	}

	rows, err := h.executeSQL(c.Request().Context(), def.SQL)
	if err != nil {
		return err
	}

	return respond.JSON(c, http.StatusOK, Report{
		ReportID:    def.ID,
		ReportName:  def.Name,
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
	})
}

// executeSQL runs a report query and maps every row to a column-keyed map.
func (h *Handler) executeSQL(ctx context.Context, sql string) ([]map[string]interface{}, error) {
	rows, err := h.pool.Query(ctx, sql)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	out := []map[string]interface{}{}
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(map[string]interface{}, len(fields))
		for i, f := range fields {
			row[string(f.Name)] = values[i]
		}
		out = append(out, row)
	}
	return out, rows.Err()
}
