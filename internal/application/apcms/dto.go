package apcms

// LoanReportQuery selects ledger rows for one society and item. Either id
// may be "all" to lift that constraint.
type LoanReportQuery struct {
	SocietyID  string
	ItemID     string
	FromPeriod string
	ToPeriod   string
	// Type narrows the account type; empty means LOAN.
	Type string
}
