package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// ReceiptServiceName is the fully-qualified name of the ReceiptService service.
const ReceiptServiceName = "receiptsplit.v1.ReceiptService"

// These constants are the fully-qualified names of the RPCs defined in this
// package. They're exposed at runtime as Spec.Procedure and as the final two
// segments of the HTTP route.
const (
	ReceiptServiceIngestReceiptProcedure = "/receiptsplit.v1.ReceiptService/IngestReceipt"
	ReceiptServiceGetReceiptProcedure    = "/receiptsplit.v1.ReceiptService/GetReceipt"
	ReceiptServicePreviewSplitProcedure  = "/receiptsplit.v1.ReceiptService/PreviewSplit"
	ReceiptServiceFinalizeSplitProcedure = "/receiptsplit.v1.ReceiptService/FinalizeSplit"
	ReceiptServiceGetSplitProcedure      = "/receiptsplit.v1.ReceiptService/GetSplit"
	ReceiptServiceListSplitsProcedure    = "/receiptsplit.v1.ReceiptService/ListSplits"
	ReceiptServiceExportSplitProcedure   = "/receiptsplit.v1.ReceiptService/ExportSplit"
)

// ReceiptServiceClient is a client for the receiptsplit.v1.ReceiptService service.
type ReceiptServiceClient interface {
	IngestReceipt(context.Context, *connect.Request[IngestReceiptRequest]) (*connect.Response[IngestReceiptResponse], error)
	GetReceipt(context.Context, *connect.Request[GetReceiptRequest]) (*connect.Response[GetReceiptResponse], error)
	PreviewSplit(context.Context, *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error)
	FinalizeSplit(context.Context, *connect.Request[FinalizeSplitRequest]) (*connect.Response[FinalizeSplitResponse], error)
	GetSplit(context.Context, *connect.Request[GetSplitRequest]) (*connect.Response[GetSplitResponse], error)
	ListSplits(context.Context, *connect.Request[ListSplitsRequest]) (*connect.Response[ListSplitsResponse], error)
	ExportSplit(context.Context, *connect.Request[ExportSplitRequest]) (*connect.Response[ExportSplitResponse], error)
}

// NewReceiptServiceClient constructs a client for the
// receiptsplit.v1.ReceiptService service. It always speaks JSON.
//
// The URL supplied here should be the base URL for the Connect server
// (for example, http://api.acme.com or https://acme.com/grpc).
func NewReceiptServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ReceiptServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
	return &receiptServiceClient{
		ingestReceipt: connect.NewClient[IngestReceiptRequest, IngestReceiptResponse](
			httpClient, baseURL+ReceiptServiceIngestReceiptProcedure, opts...),
		getReceipt: connect.NewClient[GetReceiptRequest, GetReceiptResponse](
			httpClient, baseURL+ReceiptServiceGetReceiptProcedure, opts...),
		previewSplit: connect.NewClient[PreviewSplitRequest, PreviewSplitResponse](
			httpClient, baseURL+ReceiptServicePreviewSplitProcedure, opts...),
		finalizeSplit: connect.NewClient[FinalizeSplitRequest, FinalizeSplitResponse](
			httpClient, baseURL+ReceiptServiceFinalizeSplitProcedure, opts...),
		getSplit: connect.NewClient[GetSplitRequest, GetSplitResponse](
			httpClient, baseURL+ReceiptServiceGetSplitProcedure, opts...),
		listSplits: connect.NewClient[ListSplitsRequest, ListSplitsResponse](
			httpClient, baseURL+ReceiptServiceListSplitsProcedure, opts...),
		exportSplit: connect.NewClient[ExportSplitRequest, ExportSplitResponse](
			httpClient, baseURL+ReceiptServiceExportSplitProcedure, opts...),
	}
}

type receiptServiceClient struct {
	ingestReceipt *connect.Client[IngestReceiptRequest, IngestReceiptResponse]
	getReceipt    *connect.Client[GetReceiptRequest, GetReceiptResponse]
	previewSplit  *connect.Client[PreviewSplitRequest, PreviewSplitResponse]
	finalizeSplit *connect.Client[FinalizeSplitRequest, FinalizeSplitResponse]
	getSplit      *connect.Client[GetSplitRequest, GetSplitResponse]
	listSplits    *connect.Client[ListSplitsRequest, ListSplitsResponse]
	exportSplit   *connect.Client[ExportSplitRequest, ExportSplitResponse]
}

func (c *receiptServiceClient) IngestReceipt(ctx context.Context, req *connect.Request[IngestReceiptRequest]) (*connect.Response[IngestReceiptResponse], error) {
	return c.ingestReceipt.CallUnary(ctx, req)
}

func (c *receiptServiceClient) GetReceipt(ctx context.Context, req *connect.Request[GetReceiptRequest]) (*connect.Response[GetReceiptResponse], error) {
	return c.getReceipt.CallUnary(ctx, req)
}

func (c *receiptServiceClient) PreviewSplit(ctx context.Context, req *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error) {
	return c.previewSplit.CallUnary(ctx, req)
}

func (c *receiptServiceClient) FinalizeSplit(ctx context.Context, req *connect.Request[FinalizeSplitRequest]) (*connect.Response[FinalizeSplitResponse], error) {
	return c.finalizeSplit.CallUnary(ctx, req)
}

func (c *receiptServiceClient) GetSplit(ctx context.Context, req *connect.Request[GetSplitRequest]) (*connect.Response[GetSplitResponse], error) {
	return c.getSplit.CallUnary(ctx, req)
}

func (c *receiptServiceClient) ListSplits(ctx context.Context, req *connect.Request[ListSplitsRequest]) (*connect.Response[ListSplitsResponse], error) {
	return c.listSplits.CallUnary(ctx, req)
}

func (c *receiptServiceClient) ExportSplit(ctx context.Context, req *connect.Request[ExportSplitRequest]) (*connect.Response[ExportSplitResponse], error) {
	return c.exportSplit.CallUnary(ctx, req)
}

// ReceiptServiceHandler is an implementation of the receiptsplit.v1.ReceiptService service.
type ReceiptServiceHandler interface {
	IngestReceipt(context.Context, *connect.Request[IngestReceiptRequest]) (*connect.Response[IngestReceiptResponse], error)
	GetReceipt(context.Context, *connect.Request[GetReceiptRequest]) (*connect.Response[GetReceiptResponse], error)
	PreviewSplit(context.Context, *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error)
	FinalizeSplit(context.Context, *connect.Request[FinalizeSplitRequest]) (*connect.Response[FinalizeSplitResponse], error)
	GetSplit(context.Context, *connect.Request[GetSplitRequest]) (*connect.Response[GetSplitResponse], error)
	ListSplits(context.Context, *connect.Request[ListSplitsRequest]) (*connect.Response[ListSplitsResponse], error)
	ExportSplit(context.Context, *connect.Request[ExportSplitRequest]) (*connect.Response[ExportSplitResponse], error)
}

// NewReceiptServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewReceiptServiceHandler(svc ReceiptServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
	handlers := map[string]http.Handler{
		ReceiptServiceIngestReceiptProcedure: connect.NewUnaryHandler(ReceiptServiceIngestReceiptProcedure, svc.IngestReceipt, opts...),
		ReceiptServiceGetReceiptProcedure:    connect.NewUnaryHandler(ReceiptServiceGetReceiptProcedure, svc.GetReceipt, opts...),
		ReceiptServicePreviewSplitProcedure:  connect.NewUnaryHandler(ReceiptServicePreviewSplitProcedure, svc.PreviewSplit, opts...),
		ReceiptServiceFinalizeSplitProcedure: connect.NewUnaryHandler(ReceiptServiceFinalizeSplitProcedure, svc.FinalizeSplit, opts...),
		ReceiptServiceGetSplitProcedure:      connect.NewUnaryHandler(ReceiptServiceGetSplitProcedure, svc.GetSplit, opts...),
		ReceiptServiceListSplitsProcedure:    connect.NewUnaryHandler(ReceiptServiceListSplitsProcedure, svc.ListSplits, opts...),
		ReceiptServiceExportSplitProcedure:   connect.NewUnaryHandler(ReceiptServiceExportSplitProcedure, svc.ExportSplit, opts...),
	}
	return "/" + ReceiptServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h, ok := handlers[r.URL.Path]; ok {
			h.ServeHTTP(w, r)
			return
		}
		http.NotFound(w, r)
	})
}

// UnimplementedReceiptServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedReceiptServiceHandler struct{}

func unimplemented(procedure string) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New(procedure+" is not implemented"))
}

func (UnimplementedReceiptServiceHandler) IngestReceipt(context.Context, *connect.Request[IngestReceiptRequest]) (*connect.Response[IngestReceiptResponse], error) {
	return nil, unimplemented(ReceiptServiceIngestReceiptProcedure)
}

func (UnimplementedReceiptServiceHandler) GetReceipt(context.Context, *connect.Request[GetReceiptRequest]) (*connect.Response[GetReceiptResponse], error) {
	return nil, unimplemented(ReceiptServiceGetReceiptProcedure)
}

func (UnimplementedReceiptServiceHandler) PreviewSplit(context.Context, *connect.Request[PreviewSplitRequest]) (*connect.Response[PreviewSplitResponse], error) {
	return nil, unimplemented(ReceiptServicePreviewSplitProcedure)
}

func (UnimplementedReceiptServiceHandler) FinalizeSplit(context.Context, *connect.Request[FinalizeSplitRequest]) (*connect.Response[FinalizeSplitResponse], error) {
	return nil, unimplemented(ReceiptServiceFinalizeSplitProcedure)
}

func (UnimplementedReceiptServiceHandler) GetSplit(context.Context, *connect.Request[GetSplitRequest]) (*connect.Response[GetSplitResponse], error) {
	return nil, unimplemented(ReceiptServiceGetSplitProcedure)
}

func (UnimplementedReceiptServiceHandler) ListSplits(context.Context, *connect.Request[ListSplitsRequest]) (*connect.Response[ListSplitsResponse], error) {
	return nil, unimplemented(ReceiptServiceListSplitsProcedure)
}

func (UnimplementedReceiptServiceHandler) ExportSplit(context.Context, *connect.Request[ExportSplitRequest]) (*connect.Response[ExportSplitResponse], error) {
	return nil, unimplemented(ReceiptServiceExportSplitProcedure)
}
