package mint

// transactionDTO is the wire representation of a ledger transaction.
type transactionDTO struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"` // YYYY-MM-DD
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Notes       string  `json:"notes,omitempty"`

	// Children is present when the entry has already been split.
	Children []childDTO `json:"children,omitempty"`
}

// transactionsResponse wraps the transaction list endpoint payload.
type transactionsResponse struct {
	Transactions []transactionDTO `json:"transactions"`
}

// childDTO is one split line in an update request.
type childDTO struct {
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
}

// updateRequest is the payload for itemizing or relabeling a transaction.
type updateRequest struct {
	Description string     `json:"description,omitempty"`
	Children    []childDTO `json:"children,omitempty"`
}

// errorResponse is the API's error envelope.
type errorResponse struct {
	Error string `json:"error"`
}
