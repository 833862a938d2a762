package enum

// EntryType indicates whether a ledger entry increases or decreases
// the amount a customer owes.
type EntryType string

const (
	EntryTypeDebit  EntryType = "Debit"
	EntryTypeCredit EntryType = "Credit"
)

func (t EntryType) Valid() bool {
	return t == EntryTypeDebit || t == EntryTypeCredit
}

func (t EntryType) String() string {
	return string(t)
}
