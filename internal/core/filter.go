package core

// ExpenseFilter is the set of optional listing criteria. A zero field means
// "no constraint"; present fields are AND-composed by the storage layer, so
// the order they were supplied in never changes the result set. Date bounds
// are inclusive on both ends, amount bounds likewise.
type ExpenseFilter struct {
	DateFrom      Date
	DateTo        Date
	CategoryID    int64
	PaymentMethod PaymentMethod
	AmountMin     *Money
	AmountMax     *Money
}

// IsZero reports whether no criterion is set.
func (f ExpenseFilter) IsZero() bool {
	return f.DateFrom.IsZero() && f.DateTo.IsZero() && f.CategoryID == 0 &&
		f.PaymentMethod == "" && f.AmountMin == nil && f.AmountMax == nil
}

// Validate rejects constraints that can never be user intent: negative
// amount bounds and unknown payment methods.
func (f ExpenseFilter) Validate() error {
	if f.AmountMin != nil && f.AmountMin.Paise < 0 {
		return ErrInvalidAmount
	}
	if f.AmountMax != nil && f.AmountMax.Paise < 0 {
		return ErrInvalidAmount
	}
	if f.PaymentMethod != "" && !f.PaymentMethod.Valid() {
		return ErrInvalidPayment
	}
	return nil
}
