package enum

// DocumentKind identifies which sequentially numbered document a
// generated number belongs to.
type DocumentKind string

const (
	DocumentKindBill  DocumentKind = "bill"
	DocumentKindOrder DocumentKind = "order"
)

func (k DocumentKind) String() string {
	return string(k)
}
