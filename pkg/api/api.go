// Package api declares the ReceiptService wire types and its Connect
// handler and client.
//
// Messages are plain Go structs carried as JSON (see Codec). Money is always
// a decimal string with two fractional digits, e.g. "6.67", never a float.
package api

// Receipt is an extracted receipt.
type Receipt struct {
	ID        string `json:"id"`
	Store     string `json:"store"`
	Date      string `json:"date"`
	Items     []Item `json:"items"`
	Tax       string `json:"tax"`
	Tip       string `json:"tip"`
	Discount  string `json:"discount"`
	Total     string `json:"total"`
	Currency  string `json:"currency"`
	CreatedAt int64  `json:"created_at"`
}

// Item is one receipt line. Index is its position on the receipt and is
// what assignments refer to.
type Item struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// Assignment names the people sharing the item at ItemIndex.
type Assignment struct {
	ItemIndex int      `json:"item_index"`
	People    []string `json:"people"`
}

// Split is a computed split of one receipt.
type Split struct {
	ID          string        `json:"id,omitempty"`
	ReceiptID   string        `json:"receipt_id"`
	Store       string        `json:"store"`
	Date        string        `json:"date"`
	Currency    string        `json:"currency"`
	People      []PersonSplit `json:"people"`
	Items       []ItemSplit   `json:"items"`
	Adjustments []Adjustment  `json:"adjustments,omitempty"` // preview and finalize only
	Total       string        `json:"total"`
	CreatedAt   int64         `json:"created_at,omitempty"`
}

type PersonSplit struct {
	Person     string `json:"person"`
	ItemsTotal string `json:"items_total"`
	Tax        string `json:"tax"`
	Tip        string `json:"tip"`
	Discount   string `json:"discount"`
	Total      string `json:"total"`
}

type ItemSplit struct {
	ItemName string  `json:"item_name"`
	Price    string  `json:"price"`
	Shares   []Share `json:"shares"`
}

type Share struct {
	Person string `json:"person"`
	Amount string `json:"amount"`
}

// Adjustment is a rounding residual absorbed by one person.
type Adjustment struct {
	Aggregate string `json:"aggregate"`
	Person    string `json:"person"`
	Amount    string `json:"amount"`
}

// Reconciliation compares the split with the printed receipt total.
type Reconciliation struct {
	Valid        bool   `json:"valid"`
	SplitTotal   string `json:"split_total"`
	ReceiptTotal string `json:"receipt_total"`
	Difference   string `json:"difference"`
	Reason       string `json:"reason,omitempty"`
}

// SplitSummary is one row of a user's split history.
type SplitSummary struct {
	ID          string `json:"id"`
	ReceiptID   string `json:"receipt_id"`
	Store       string `json:"store"`
	Date        string `json:"date"`
	Total       string `json:"total"`
	PeopleCount int    `json:"people_count"`
	CreatedAt   int64  `json:"created_at"`
}

type IngestReceiptRequest struct {
	// Extraction is the OCR/LLM pipeline output, verbatim.
	Extraction string `json:"extraction"`
}

type IngestReceiptResponse struct {
	Receipt Receipt `json:"receipt"`
}

type GetReceiptRequest struct {
	ReceiptID string `json:"receipt_id"`
}

type GetReceiptResponse struct {
	Receipt Receipt `json:"receipt"`
}

// PreviewSplitRequest computes a split without saving it. Store and Date,
// when set, override the extracted values in the response.
type PreviewSplitRequest struct {
	ReceiptID   string       `json:"receipt_id"`
	Assignments []Assignment `json:"assignments"`
	Store       *string      `json:"store,omitempty"`
	Date        *string      `json:"date,omitempty"`
}

type PreviewSplitResponse struct {
	Split          Split          `json:"split"`
	Reconciliation Reconciliation `json:"reconciliation"`
}

// FinalizeSplitRequest computes and saves a split, replacing any earlier
// split of the receipt. Store and Date corrections are saved with it.
type FinalizeSplitRequest struct {
	ReceiptID   string       `json:"receipt_id"`
	Assignments []Assignment `json:"assignments"`
	Store       *string      `json:"store,omitempty"`
	Date        *string      `json:"date,omitempty"`
}

type FinalizeSplitResponse struct {
	Split          Split          `json:"split"`
	Reconciliation Reconciliation `json:"reconciliation"`
}

type GetSplitRequest struct {
	SplitID string `json:"split_id"`
}

type GetSplitResponse struct {
	Split Split `json:"split"`
}

type ListSplitsRequest struct{}

type ListSplitsResponse struct {
	Splits []SplitSummary `json:"splits"`
}

type ExportSplitRequest struct {
	SplitID string `json:"split_id"`
	// Format is "table" (default) or "csv".
	Format string `json:"format"`
}

type ExportSplitResponse struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Content     string `json:"content"`
}
