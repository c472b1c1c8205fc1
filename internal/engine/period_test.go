package engine_test

import (
	"testing"
	"time"

	"github.com/boddenberg/pj-ledger-go/internal/domain"
	"github.com/boddenberg/pj-ledger-go/internal/engine"
)

func TestComputePeriodMetrics_SplitsRealizedAndPending(t *testing.T) {
	transactions := []domain.Transaction{
		tx("t1", domain.Inflow, domain.StatusReceived, "1000", "1000"),
		tx("t2", domain.Inflow, domain.StatusReceivable, "300", "0"),
		tx("t3", domain.Outflow, domain.StatusPaid, "400", "380"),
		tx("t4", domain.Outflow, domain.StatusPayable, "250", "0"),
		tx("t5", domain.Outflow, domain.StatusCancelled, "999", "0"), // never counted
	}

	m := engine.ComputePeriodMetrics(transactions, day(2025, time.January, 1), day(2025, time.January, 31), engine.AllAccounts)

	if !m.IncomeRealized.Equal(dec("1000")) {
		t.Errorf("income realized: expected 1000, got %s", m.IncomeRealized)
	}
	if !m.IncomePending.Equal(dec("300")) {
		t.Errorf("income pending: expected 300, got %s", m.IncomePending)
	}
	if !m.ExpenseRealized.Equal(dec("380")) {
		t.Errorf("expense realized: expected 380, got %s", m.ExpenseRealized)
	}
	if !m.ExpensePending.Equal(dec("250")) {
		t.Errorf("expense pending: expected 250, got %s", m.ExpensePending)
	}
	// Result is realized only: pending never counts as profit.
	if !m.PeriodResult.Equal(dec("620")) {
		t.Errorf("period result: expected 620, got %s", m.PeriodResult)
	}
}

func TestComputePeriodMetrics_AccrualDateDefinesPeriod(t *testing.T) {
	// Due in February, accrued in January: the January window must count it.
	inJanuary := tx("t1", domain.Outflow, domain.StatusPaid, "100", "100")
	inJanuary.AccrualDate = day(2025, time.January, 31)
	inJanuary.DueDate = day(2025, time.February, 15)

	// Accrued in February, due in January: the January window must skip it.
	inFebruary := tx("t2", domain.Outflow, domain.StatusPaid, "777", "777")
	inFebruary.AccrualDate = day(2025, time.February, 1)
	inFebruary.DueDate = day(2025, time.January, 10)

	m := engine.ComputePeriodMetrics(
		[]domain.Transaction{inJanuary, inFebruary},
		day(2025, time.January, 1), day(2025, time.January, 31),
		engine.AllAccounts,
	)

	if !m.ExpenseRealized.Equal(dec("100")) {
		t.Errorf("expected only the January-accrued expense, got %s", m.ExpenseRealized)
	}
}

func TestComputePeriodMetrics_WindowIsInclusive(t *testing.T) {
	first := tx("t1", domain.Inflow, domain.StatusReceived, "1", "1")
	first.AccrualDate = day(2025, time.March, 1)
	last := tx("t2", domain.Inflow, domain.StatusReceived, "2", "2")
	last.AccrualDate = day(2025, time.March, 31)
	outside := tx("t3", domain.Inflow, domain.StatusReceived, "4", "4")
	outside.AccrualDate = day(2025, time.April, 1)

	m := engine.ComputePeriodMetrics(
		[]domain.Transaction{first, last, outside},
		day(2025, time.March, 1), day(2025, time.March, 31),
		engine.AllAccounts,
	)

	if !m.IncomeRealized.Equal(dec("3")) {
		t.Errorf("expected boundary dates included and 3 total, got %s", m.IncomeRealized)
	}
}

func TestComputePeriodMetrics_Idempotent(t *testing.T) {
	transactions := []domain.Transaction{
		tx("t1", domain.Inflow, domain.StatusReceived, "123.45", "123.45"),
		tx("t2", domain.Outflow, domain.StatusPayable, "67.89", "0"),
	}
	start, end := day(2025, time.January, 1), day(2025, time.December, 31)

	first := engine.ComputePeriodMetrics(transactions, start, end, engine.AllAccounts)
	second := engine.ComputePeriodMetrics(transactions, start, end, engine.AllAccounts)

	if !first.IncomeRealized.Equal(second.IncomeRealized) ||
		!first.ExpenseRealized.Equal(second.ExpenseRealized) ||
		!first.IncomePending.Equal(second.IncomePending) ||
		!first.ExpensePending.Equal(second.ExpensePending) ||
		!first.PeriodResult.Equal(second.PeriodResult) {
		t.Errorf("identical inputs produced different metrics: %+v vs %+v", first, second)
	}
}

func TestComputePeriodMetrics_EmptySnapshotIsZeroed(t *testing.T) {
	m := engine.ComputePeriodMetrics(nil, day(2025, time.January, 1), day(2025, time.January, 31), engine.AllAccounts)
	if !m.IncomeRealized.IsZero() || !m.ExpenseRealized.IsZero() ||
		!m.IncomePending.IsZero() || !m.ExpensePending.IsZero() || !m.PeriodResult.IsZero() {
		t.Errorf("expected zeroed metrics on empty snapshot, got %+v", m)
	}
}
