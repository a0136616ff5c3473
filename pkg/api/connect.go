package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "tabsplit.v1.LedgerService"

// Procedure paths, for use with http.ServeMux and interceptors.
const (
	LedgerServiceComputeProcedure     = "/tabsplit.v1.LedgerService/Compute"
	LedgerServiceValidateProcedure    = "/tabsplit.v1.LedgerService/Validate"
	LedgerServiceSettleGroupProcedure = "/tabsplit.v1.LedgerService/SettleGroup"
)

// jsonCodec replaces Connect's protobuf JSON codec: messages here are plain
// structs, so encoding/json carries them as-is.
type jsonCodec struct{}

func (jsonCodec) Name() string { return "json" }

func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

func (jsonCodec) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Codec returns the codec every tabsplit handler and client must use.
func Codec() connect.Codec { return jsonCodec{} }

// LedgerServiceHandler is implemented by the server.
type LedgerServiceHandler interface {
	Compute(context.Context, *connect.Request[Document]) (*connect.Response[Result], error)
	Validate(context.Context, *connect.Request[Document]) (*connect.Response[ValidateResponse], error)
	SettleGroup(context.Context, *connect.Request[SettleGroupRequest]) (*connect.Response[SettleGroupResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(Codec())}, opts...)
	compute := connect.NewUnaryHandler(LedgerServiceComputeProcedure, svc.Compute, opts...)
	validate := connect.NewUnaryHandler(LedgerServiceValidateProcedure, svc.Validate, opts...)
	settleGroup := connect.NewUnaryHandler(LedgerServiceSettleGroupProcedure, svc.SettleGroup, opts...)

	path := "/" + LedgerServiceName + "/"
	return path, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceComputeProcedure:
			compute.ServeHTTP(w, r)
		case LedgerServiceValidateProcedure:
			validate.ServeHTTP(w, r)
		case LedgerServiceSettleGroupProcedure:
			settleGroup.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// LedgerServiceClient is a client for the LedgerService.
type LedgerServiceClient interface {
	Compute(context.Context, *connect.Request[Document]) (*connect.Response[Result], error)
	Validate(context.Context, *connect.Request[Document]) (*connect.Response[ValidateResponse], error)
	SettleGroup(context.Context, *connect.Request[SettleGroupRequest]) (*connect.Response[SettleGroupResponse], error)
}

type ledgerServiceClient struct {
	compute     *connect.Client[Document, Result]
	validate    *connect.Client[Document, ValidateResponse]
	settleGroup *connect.Client[SettleGroupRequest, SettleGroupResponse]
}

// NewLedgerServiceClient constructs a client for the LedgerService at
// baseURL (e.g. http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(Codec())}, opts...)
	return &ledgerServiceClient{
		compute:     connect.NewClient[Document, Result](httpClient, baseURL+LedgerServiceComputeProcedure, opts...),
		validate:    connect.NewClient[Document, ValidateResponse](httpClient, baseURL+LedgerServiceValidateProcedure, opts...),
		settleGroup: connect.NewClient[SettleGroupRequest, SettleGroupResponse](httpClient, baseURL+LedgerServiceSettleGroupProcedure, opts...),
	}
}

func (c *ledgerServiceClient) Compute(ctx context.Context, req *connect.Request[Document]) (*connect.Response[Result], error) {
	return c.compute.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) Validate(ctx context.Context, req *connect.Request[Document]) (*connect.Response[ValidateResponse], error) {
	return c.validate.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SettleGroup(ctx context.Context, req *connect.Request[SettleGroupRequest]) (*connect.Response[SettleGroupResponse], error) {
	return c.settleGroup.CallUnary(ctx, req)
}
