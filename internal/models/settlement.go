package models

// Transfer is a payment one participant makes to another to settle up.
// Transfers are produced fresh by every compute pass.
type Transfer struct {
	// FromID is the participant who owes money.
	FromID string

	// ToID is the participant who is owed money.
	ToID string

	// Amount is positive and rounded to cents.
	Amount float64
}
