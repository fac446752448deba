package models

// Investment movement types as exported by the institution (lower-cased).
const (
	InvestmentTypeCredit = "credit"
	InvestmentTypeDebit  = "debit"
	InvestmentTypeOther  = "other"
)

// Import kinds recorded in the import history.
const (
	ImportKindStatement  = "statement"
	ImportKindInvestment = "investment"
)

// File permissions
const (
	PermissionDirectory  = 0750
	PermissionReportFile = 0644
)
