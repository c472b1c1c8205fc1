package engine_test

import (
	"testing"
	"time"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/boddenberg/pj-ledger-go/internal/engine"
)

func overdueBy(id string, typ domain.TransactionType, status domain.TransactionStatus, days int, amount string) domain.Transaction {
	t := tx(id, typ, status, amount, "0")
	t.DueDate = day(2025, time.June, 30).AddDate(0, 0, -days)
	return t
}

func TestComputeAging_BandBoundaries(t *testing.T) {
	ref := day(2025, time.June, 30)
	transactions := []domain.Transaction{
		overdueBy("t0", domain.Outflow, domain.StatusPayable, 0, "1"),
		overdueBy("t30", domain.Outflow, domain.StatusPayable, 30, "2"),
		overdueBy("t31", domain.Outflow, domain.StatusPayable, 31, "4"),
		overdueBy("t60", domain.Outflow, domain.StatusPayable, 60, "8"),
		overdueBy("t61", domain.Outflow, domain.StatusPayable, 61, "16"),
		overdueBy("t90", domain.Outflow, domain.StatusPayable, 90, "32"),
		overdueBy("t91", domain.Outflow, domain.StatusPayable, 91, "64"),
		overdueBy("t365", domain.Outflow, domain.StatusPayable, 365, "128"),
	}

	report := engine.ComputeAging(transactions, ref, engine.AllAccounts)

	wantTotals := []string{"3", "12", "48", "192"}
	wantCounts := []int{2, 2, 2, 2}
	for i, bucket := range report.Payables {
		if !bucket.Total.Equal(dec(wantTotals[i])) {
			t.Errorf("bucket %s: expected total %s, got %s", bucket.Label, wantTotals[i], bucket.Total)
		}
		if bucket.Count != wantCounts[i] {
			t.Errorf("bucket %s: expected count %d, got %d", bucket.Label, wantCounts[i], bucket.Count)
		}
	}
}

func TestComputeAging_NotYetDueExcluded(t *testing.T) {
	ref := day(2025, time.June, 30)
	transactions := []domain.Transaction{
		overdueBy("future", domain.Outflow, domain.StatusPayable, -1, "500"),
		overdueBy("far", domain.Inflow, domain.StatusReceivable, -90, "500"),
	}

	report := engine.ComputeAging(transactions, ref, engine.AllAccounts)

	for _, bucket := range report.Payables {
		if bucket.Count != 0 {
			t.Errorf("payables %s: expected empty, got %d entries", bucket.Label, bucket.Count)
		}
	}
	for _, bucket := range report.Receivables {
		if bucket.Count != 0 {
			t.Errorf("receivables %s: expected empty, got %d entries", bucket.Label, bucket.Count)
		}
	}
}

func TestComputeAging_PartitionIsExhaustiveAndDisjoint(t *testing.T) {
	// Every overdue day count lands in exactly one band.
	ref := day(2025, time.June, 30)
	var transactions []domain.Transaction
	for days := 0; days <= 200; days++ {
		transactions = append(transactions, overdueBy(
			"t", domain.Inflow, domain.StatusReceivable, days, "1"))
	}

	report := engine.ComputeAging(transactions, ref, engine.AllAccounts)

	total := 0
	for _, bucket := range report.Receivables {
		total += bucket.Count
	}
	if total != 201 {
		t.Errorf("expected all 201 overdue items bucketed exactly once, got %d", total)
	}
}

func TestComputeAging_OnlyOpenPayablesAndReceivables(t *testing.T) {
	ref := day(2025, time.June, 30)
	transactions := []domain.Transaction{
		overdueBy("paid", domain.Outflow, domain.StatusPaid, 10, "100"),
		overdueBy("received", domain.Inflow, domain.StatusReceived, 10, "100"),
		overdueBy("cancelled", domain.Outflow, domain.StatusCancelled, 10, "100"),
		overdueBy("wrongdir", domain.Inflow, domain.StatusPayable, 10, "100"),
		overdueBy("open", domain.Outflow, domain.StatusPayable, 10, "100"),
	}

	report := engine.ComputeAging(transactions, ref, engine.AllAccounts)

	if report.Payables[0].Count != 1 || !report.Payables[0].Total.Equal(dec("100")) {
		t.Errorf("expected exactly one open payable in 0-30, got count=%d total=%s",
			report.Payables[0].Count, report.Payables[0].Total)
	}
}

func TestComputeAging_ScopeFilter(t *testing.T) {
	ref := day(2025, time.June, 30)
	mine := overdueBy("mine", domain.Outflow, domain.StatusPayable, 5, "10")
	other := overdueBy("other", domain.Outflow, domain.StatusPayable, 5, "90")
	other.AccountID = "acc-2"

	report := engine.ComputeAging([]domain.Transaction{mine, other}, ref, engine.Scope{AccountID: "acc-1"})

	if !report.Payables[0].Total.Equal(dec("10")) {
		t.Errorf("expected scope to exclude acc-2, got %s", report.Payables[0].Total)
	}
}
