// Package engine implements the financial analytics and projection
// computations: ledger balances, period metrics, health indicators, aging
// buckets, category rankings, cash-flow projections and budget variance.
//
// Every function here is pure: it reads an immutable snapshot of domain
// entities and returns a derived value. Nothing is mutated, nothing is
// cached, and calling a function twice with the same inputs yields the same
// result. That makes the package safe to call concurrently from multiple
// report panels reading the same snapshot.
package engine

import "time"

// Scope narrows a computation to a single account. The zero value means
// "all accounts". It is threaded explicitly into every computation instead
// of living in ambient view state, so there is no ordering dependency
// between selecting a filter and reading a report.
type Scope struct {
	AccountID string
}

// AllAccounts is the unrestricted scope.
var AllAccounts = Scope{}

// Matches reports whether a transaction or account with the given account
// id falls inside the scope.
func (s Scope) Matches(accountID string) bool {
	return s.AccountID == "" || s.AccountID == accountID
}

// dateOnly truncates a timestamp to its calendar date in UTC. Day-based
// comparisons (due dates, overdue day counts) must not depend on the time
// of day a record was written.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// inPeriod reports whether a date falls within [start, end], inclusive on
// both ends, comparing calendar dates.
func inPeriod(t, start, end time.Time) bool {
	d := dateOnly(t)
	return !d.Before(dateOnly(start)) && !d.After(dateOnly(end))
}

// daysBetween returns the whole days elapsed from 'from' to 'to'
// (negative when 'to' precedes 'from').
func daysBetween(from, to time.Time) int {
	return int(dateOnly(to).Sub(dateOnly(from)) / (24 * time.Hour))
}
