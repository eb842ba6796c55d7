package reporting

import (
	"strings"
	"testing"
)

func TestPredefinedReports(t *testing.T) {
	if len(PredefinedReports) != 4 {
		t.Fatalf("expected 4 predefined reports, got %d", len(PredefinedReports))
	}

	want := []string{
		"revenue-by-month",
		"practitioner-timesheet",
		"order-status-breakdown",
		"copay-summary",
	}
	for i, id := range want {
		if PredefinedReports[i].ID != id {
			t.Errorf("report %d: expected id %q, got %q", i, id, PredefinedReports[i].ID)
		}
	}

	seen := map[string]bool{}
	for _, def := range PredefinedReports {
		if def.Name == "" {
			t.Errorf("report %s has no name", def.ID)
		}
		if def.Description == "" {
			t.Errorf("report %s has no description", def.ID)
		}
		if strings.TrimSpace(def.SQL) == "" {
			t.Errorf("report %s has no SQL", def.ID)
		}
		if seen[def.ID] {
			t.Errorf("duplicate report id %s", def.ID)
		}
		seen[def.ID] = true
	}
}

func TestReportSQLShape(t *testing.T) {
	for _, def := range PredefinedReports {
		upper := strings.ToUpper(def.SQL)
		if !strings.Contains(upper, "SELECT") {
			t.Errorf("report %s: SQL has no SELECT", def.ID)
		}
		if !strings.Contains(upper, "FROM") {
			t.Errorf("report %s: SQL has no FROM", def.ID)
		}
	}
}

func TestFindReport(t *testing.T) {
	def := FindReport("revenue-by-month")
	if def == nil {
		t.Fatal("expected to find revenue-by-month")
	}
	if def.Name != "Revenue by Month" {
		t.Errorf("unexpected name %q", def.Name)
	}

	if FindReport("no-such-report") != nil {
		t.Error("expected nil for unknown report id")
	}

	for _, want := range PredefinedReports {
		if got := FindReport(want.ID); got == nil || got.ID != want.ID {
			t.Errorf("FindReport(%q) did not return the definition", want.ID)
		}
	}
}

func TestNewHandler(t *testing.T) {
	h := NewHandler(nil)
	if h == nil {
		t.Fatal("expected handler")
	}
}
