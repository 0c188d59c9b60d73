package fulfillment

// CheckPrintable enforces at-most-one label print per order. When force is
// false and any order in the batch was printed before, the whole batch is
// rejected with an AlreadyPrintedError carrying the conflicting order
// numbers so the caller can re-confirm. Under force everything passes; a
// forced reprint only affects the label and print state, never re-shipment.
func CheckPrintable(orders []*Order, force bool) error {
	if force {
		return nil
	}
	var conflicting []string
	for _, order := range orders {
		if order.IsPrinted {
			conflicting = append(conflicting, order.OrderNumber)
		}
	}
	if len(conflicting) > 0 {
		return &AlreadyPrintedError{OrderNumbers: conflicting}
	}
	return nil
}
