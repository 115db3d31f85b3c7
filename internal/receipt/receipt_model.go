package receipt

// Receipt - model for JSON receipt body
// Amounts, date and time are kept as submitted so a stored receipt
// serializes back exactly as it was received.
type Receipt struct {
	Retailer     string        `json:"retailer"`
	PurchaseDate string        `json:"purchaseDate"`
	PurchaseTime string        `json:"purchaseTime"`
	Items        []ReceiptItem `json:"items"`
	Total        string        `json:"total"`
}

// ReceiptItem - model for Json receipt items
type ReceiptItem struct {
	ShortDescription string `json:"shortDescription"`
	Price            string `json:"price"`
}

// clone returns a copy that shares no slice memory with r.
func (r Receipt) clone() Receipt {
	out := r
	if r.Items != nil {
		out.Items = make([]ReceiptItem, len(r.Items))
		copy(out.Items, r.Items)
	}
	return out
}
