// Package models defines the persisted domain models for receipt splitting.
//
// # Models
//
//   - Receipt: the structured data extracted from a receipt image, as handed
//     over by the OCR/LLM pipeline. Read-only input to a split.
//   - Item: one priced line on a receipt.
//   - SplitResult: the immutable output of finalizing a receipt's
//     assignments: per-person totals plus an itemized breakdown.
//   - SplitSummary: the short form of a SplitResult used for history lists.
//
// People are identified by free-text names (no user accounts). A receipt
// belongs to the user who uploaded it; that user ID comes from the external
// authentication service.
//
// # Design Principles
//
// 1. **Exact money**: every amount is a decimal.Decimal settled to cents.
// 2. **Ordered output**: people and shares are slices, not maps, so a stored
//    result reads back in the order it was computed.
// 3. **Supersede, never edit**: a new finalize replaces the receipt's previous
//    SplitResult as a whole.
package models
