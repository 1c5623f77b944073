package domain

// MintReceipt is returned by the minting service once it has accepted a
// mint request for an audited report.
type MintReceipt struct {
	ReportID string
	TxHash   string
}
