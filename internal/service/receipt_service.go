package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/receiptsplit/internal/calculator"
	"github.com/mmynk/receiptsplit/internal/export"
	"github.com/mmynk/receiptsplit/internal/extraction"
	"github.com/mmynk/receiptsplit/internal/metrics"
	"github.com/mmynk/receiptsplit/internal/middleware"
	"github.com/mmynk/receiptsplit/internal/models"
	"github.com/mmynk/receiptsplit/internal/money"
	"github.com/mmynk/receiptsplit/internal/storage"
	"github.com/mmynk/receiptsplit/pkg/api"
)

// AnonymousUserID owns receipts created without an authenticated user.
const AnonymousUserID = "anonymous"

// ReceiptService implements the Connect ReceiptService
type ReceiptService struct {
	api.UnimplementedReceiptServiceHandler
	store   storage.Store
	metrics *metrics.Metrics
}

// NewReceiptService creates a new ReceiptService with the given storage
// backend. m may be nil.
func NewReceiptService(store storage.Store, m *metrics.Metrics) *ReceiptService {
	return &ReceiptService{store: store, metrics: m}
}

// ownerID returns the caller's user ID, or AnonymousUserID.
func ownerID(ctx context.Context) string {
	if userID := middleware.GetUserID(ctx); userID != "" {
		return userID
	}
	return AnonymousUserID
}

// IngestReceipt stores the structured output of the receipt extraction pipeline.
func (s *ReceiptService) IngestReceipt(ctx context.Context, req *connect.Request[api.IngestReceiptRequest]) (*connect.Response[api.IngestReceiptResponse], error) {
	if strings.TrimSpace(req.Msg.Extraction) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("extraction is required"))
	}

	receipt, err := extraction.Parse([]byte(req.Msg.Extraction))
	if err != nil {
		slog.Warn("IngestReceipt: extraction rejected", "error", err)
		return nil, toConnectError(err)
	}
	receipt.UserID = ownerID(ctx)

	if err := s.store.CreateReceipt(ctx, receipt); err != nil {
		slog.Error("IngestReceipt failed", "error", err)
		return nil, toConnectError(err)
	}
	slog.Info("Receipt ingested",
		"receipt_id", receipt.ID,
		"store", receipt.Store,
		"items", len(receipt.Items),
		"total", receipt.Total.String(),
	)

	return connect.NewResponse(&api.IngestReceiptResponse{Receipt: toAPIReceipt(receipt)}), nil
}

// GetReceipt returns a receipt owned by the caller.
func (s *ReceiptService) GetReceipt(ctx context.Context, req *connect.Request[api.GetReceiptRequest]) (*connect.Response[api.GetReceiptResponse], error) {
	receipt, err := s.ownedReceipt(ctx, req.Msg.ReceiptID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetReceiptResponse{Receipt: toAPIReceipt(receipt)}), nil
}

// PreviewSplit computes a split without saving anything.
func (s *ReceiptService) PreviewSplit(ctx context.Context, req *connect.Request[api.PreviewSplitRequest]) (*connect.Response[api.PreviewSplitResponse], error) {
	receipt, err := s.ownedReceipt(ctx, req.Msg.ReceiptID)
	if err != nil {
		return nil, err
	}
	edited := withEdits(receipt, req.Msg.Store, req.Msg.Date)

	result, rec, err := compute(edited, req.Msg.Assignments)
	if err != nil {
		slog.Debug("PreviewSplit rejected", "receipt_id", receipt.ID, "error", err)
		return nil, toConnectError(err)
	}

	split := models.NewSplitResult(result, receipt.ID, ownerID(ctx))
	return connect.NewResponse(&api.PreviewSplitResponse{
		Split:          toAPISplit(split, edited, result.Adjustments),
		Reconciliation: toAPIReconciliation(rec),
	}), nil
}

// FinalizeSplit computes a split and saves it, replacing any earlier split
// of the same receipt. Store and date corrections are saved in the same
// transaction; if the split is rejected nothing is written.
func (s *ReceiptService) FinalizeSplit(ctx context.Context, req *connect.Request[api.FinalizeSplitRequest]) (*connect.Response[api.FinalizeSplitResponse], error) {
	receipt, err := s.ownedReceipt(ctx, req.Msg.ReceiptID)
	if err != nil {
		return nil, err
	}
	edited := withEdits(receipt, req.Msg.Store, req.Msg.Date)

	result, rec, err := compute(edited, req.Msg.Assignments)
	if err != nil {
		s.metrics.Finalize(err)
		slog.Warn("FinalizeSplit rejected", "receipt_id", receipt.ID, "kind", calculator.KindOf(err), "error", err)
		return nil, toConnectError(err)
	}

	var edits *models.Receipt
	if edited != receipt {
		edits = edited
	}
	split := models.NewSplitResult(result, receipt.ID, ownerID(ctx))
	if err := s.store.SaveSplitResult(ctx, split, edits); err != nil {
		s.metrics.Finalize(err)
		slog.Error("FinalizeSplit failed", "receipt_id", receipt.ID, "error", err)
		return nil, toConnectError(err)
	}

	s.metrics.Finalize(nil)
	s.metrics.Adjustments(result.Adjustments)
	s.metrics.Reconciled(rec)
	if !rec.Valid {
		slog.Warn("Split does not match receipt total",
			"receipt_id", receipt.ID,
			"split_total", rec.SplitTotal.String(),
			"receipt_total", rec.ReceiptTotal.String(),
		)
	}
	slog.Info("Split finalized",
		"split_id", split.ID,
		"receipt_id", receipt.ID,
		"people", len(split.People),
		"adjustments", len(result.Adjustments),
	)

	return connect.NewResponse(&api.FinalizeSplitResponse{
		Split:          toAPISplit(split, edited, result.Adjustments),
		Reconciliation: toAPIReconciliation(rec),
	}), nil
}

// GetSplit returns a saved split with its receipt's store and date.
func (s *ReceiptService) GetSplit(ctx context.Context, req *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error) {
	split, receipt, err := s.ownedSplit(ctx, req.Msg.SplitID)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&api.GetSplitResponse{Split: toAPISplit(split, receipt, nil)}), nil
}

// ListSplits returns the caller's split history, newest first.
func (s *ReceiptService) ListSplits(ctx context.Context, req *connect.Request[api.ListSplitsRequest]) (*connect.Response[api.ListSplitsResponse], error) {
	summaries, err := s.store.ListSplitsByUser(ctx, ownerID(ctx))
	if err != nil {
		slog.Error("ListSplits failed", "error", err)
		return nil, toConnectError(err)
	}

	splits := make([]api.SplitSummary, len(summaries))
	for i, sum := range summaries {
		splits[i] = api.SplitSummary{
			ID:          sum.ID,
			ReceiptID:   sum.ReceiptID,
			Store:       sum.Store,
			Date:        sum.Date,
			Total:       money.Format(sum.Total),
			PeopleCount: sum.PeopleCount,
			CreatedAt:   sum.CreatedAt,
		}
	}
	return connect.NewResponse(&api.ListSplitsResponse{Splits: splits}), nil
}

// ExportSplit renders a saved split as a text table or CSV.
func (s *ReceiptService) ExportSplit(ctx context.Context, req *connect.Request[api.ExportSplitRequest]) (*connect.Response[api.ExportSplitResponse], error) {
	format, err := export.ParseFormat(req.Msg.Format)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	split, receipt, err := s.ownedSplit(ctx, req.Msg.SplitID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	header := export.Header{Store: receipt.Store, Date: receipt.Date, Currency: receipt.Currency}
	if err := export.Write(&buf, format, header, split); err != nil {
		slog.Error("ExportSplit failed", "split_id", split.ID, "error", err)
		return nil, toConnectError(err)
	}

	ext := "txt"
	if format == export.FormatCSV {
		ext = "csv"
	}
	return connect.NewResponse(&api.ExportSplitResponse{
		Filename:    fmt.Sprintf("split-%s.%s", split.ID, ext),
		ContentType: format.ContentType(),
		Content:     buf.String(),
	}), nil
}

// ownedReceipt loads a receipt and checks that the caller owns it.
func (s *ReceiptService) ownedReceipt(ctx context.Context, receiptID string) (*models.Receipt, error) {
	if receiptID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("receipt_id is required"))
	}
	receipt, err := s.store.GetReceipt(ctx, receiptID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("GetReceipt failed", "receipt_id", receiptID, "error", err)
		}
		return nil, toConnectError(err)
	}
	if receipt.UserID != ownerID(ctx) {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("receipt %s belongs to another user", receiptID))
	}
	return receipt, nil
}

// ownedSplit loads a split and its receipt and checks that the caller owns it.
func (s *ReceiptService) ownedSplit(ctx context.Context, splitID string) (*models.SplitResult, *models.Receipt, error) {
	if splitID == "" {
		return nil, nil, connect.NewError(connect.CodeInvalidArgument, errors.New("split_id is required"))
	}
	split, err := s.store.GetSplitResult(ctx, splitID)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			slog.Error("GetSplitResult failed", "split_id", splitID, "error", err)
		}
		return nil, nil, toConnectError(err)
	}
	if split.UserID != ownerID(ctx) {
		return nil, nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("split %s belongs to another user", splitID))
	}
	receipt, err := s.store.GetReceipt(ctx, split.ReceiptID)
	if err != nil {
		slog.Error("GetReceipt for split failed", "split_id", splitID, "error", err)
		return nil, nil, toConnectError(err)
	}
	return split, receipt, nil
}

// withEdits returns receipt unchanged when there is nothing to edit, and an
// edited copy otherwise. A nil or blank value keeps the stored one.
func withEdits(receipt *models.Receipt, store, date *string) *models.Receipt {
	newStore, newDate := edit(receipt.Store, store), edit(receipt.Date, date)
	if newStore == receipt.Store && newDate == receipt.Date {
		return receipt
	}
	edited := *receipt
	edited.Store = newStore
	edited.Date = newDate
	return &edited
}

func edit(current string, value *string) string {
	if value == nil {
		return current
	}
	if v := strings.TrimSpace(*value); v != "" {
		return v
	}
	return current
}

// compute runs the engine over the receipt and reconciles the outcome with
// the printed total.
func compute(receipt *models.Receipt, assignments []api.Assignment) (*calculator.Result, *calculator.Reconciliation, error) {
	calcReceipt, err := buildReceipt(receipt, assignments)
	if err != nil {
		return nil, nil, err
	}
	result, err := calculator.Finalize(calcReceipt)
	if err != nil {
		return nil, nil, err
	}
	return result, calculator.Reconcile(result, receipt.Total), nil
}
