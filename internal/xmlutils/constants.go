// Package xmlutils provides XML-related utility functions used by the OFX reader.
package xmlutils

// OFX contains the XPath expressions used for OFX statement parsing.
// Transaction fields are relative to a STMTTRN node.
type OFX struct {
	// Transaction selects every statement transaction in the document
	Transaction string

	// Fields contains XPath expressions relative to a transaction node
	Fields struct {
		Type     string
		Posted   string
		Amount   string
		FITID    string
		Memo     string
		Name     string
		CheckNum string
	}

	// Statement contains XPath expressions for statement-level data
	Statement struct {
		Currency  string
		AccountID string
		BankID    string
	}
}

// DefaultOFXPaths returns an OFX struct with the default XPath expressions
func DefaultOFXPaths() OFX {
	ofx := OFX{}

	ofx.Transaction = "//STMTTRN"

	ofx.Fields.Type = "TRNTYPE"
	ofx.Fields.Posted = "DTPOSTED"
	ofx.Fields.Amount = "TRNAMT"
	ofx.Fields.FITID = "FITID"
	ofx.Fields.Memo = "MEMO"
	ofx.Fields.Name = "NAME"
	ofx.Fields.CheckNum = "CHECKNUM"

	ofx.Statement.Currency = "//STMTRS/CURDEF"
	ofx.Statement.AccountID = "//BANKACCTFROM/ACCTID"
	ofx.Statement.BankID = "//BANKACCTFROM/BANKID"

	return ofx
}
