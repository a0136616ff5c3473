package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"

	"github.com/mmynk/tabsplit/internal/calculator"
	"github.com/mmynk/tabsplit/internal/metrics"
	"github.com/mmynk/tabsplit/internal/middleware"
	"github.com/mmynk/tabsplit/internal/models"
	"github.com/mmynk/tabsplit/pkg/api"
)

// LedgerService implements the Connect LedgerService. It keeps no state
// between calls: every request carries its whole ledger.
type LedgerService struct {
	defaults calculator.Options
	metrics  *metrics.Metrics
}

var _ api.LedgerServiceHandler = (*LedgerService)(nil)

// NewLedgerService creates a LedgerService. defaults fill in the payment
// mode and settlement policy when a request leaves them empty.
func NewLedgerService(defaults calculator.Options, m *metrics.Metrics) *LedgerService {
	return &LedgerService{defaults: defaults, metrics: m}
}

// toConnectError maps validation failures to InvalidArgument; anything
// else is an internal error.
func toConnectError(err error) error {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}

// compute runs one pass and records its outcome.
func (s *LedgerService) compute(ctx context.Context, doc *api.Document) (*calculator.Result, error) {
	ledger, err := doc.Ledger()
	if err != nil {
		s.metrics.ObserveCompute("invalid")
		return nil, err
	}

	result, err := calculator.Compute(ledger, doc.Options(s.defaults))
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			s.metrics.ObserveCompute("invalid")
		} else {
			s.metrics.ObserveCompute("error")
		}
		return nil, err
	}

	s.metrics.ObserveCompute("ok")
	for _, w := range result.Warnings {
		s.metrics.ObserveWarning(string(w.Kind))
		slog.DebugContext(ctx, "Reconciliation warning",
			"request_id", middleware.GetRequestID(ctx),
			"kind", w.Kind,
			"ref", w.Ref,
			"amount", w.Amount,
		)
	}
	return result, nil
}

// Compute allocates, balances and settles a ledger.
func (s *LedgerService) Compute(ctx context.Context, req *connect.Request[api.Document]) (*connect.Response[api.Result], error) {
	result, err := s.compute(ctx, req.Msg)
	if err != nil {
		slog.Error("Compute failed", "request_id", middleware.GetRequestID(ctx), "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.ObserveTransfers(len(result.Transfers))

	slog.Debug("Compute done",
		"request_id", middleware.GetRequestID(ctx),
		"participants", len(result.People),
		"grand_total", result.Totals.GrandTotal,
		"shortfall", result.Shortfall,
		"transfers", len(result.Transfers),
		"warnings", len(result.Warnings),
	)
	return connect.NewResponse(api.NewResult(result)), nil
}

// Validate reports whether a ledger would compute, without settling it.
// Validation failures are part of a successful response.
func (s *LedgerService) Validate(ctx context.Context, req *connect.Request[api.Document]) (*connect.Response[api.ValidateResponse], error) {
	invalid := func(err error) (*connect.Response[api.ValidateResponse], error) {
		p := api.NewProblem(err)
		if p == nil {
			return nil, toConnectError(err)
		}
		slog.Debug("Validate rejected ledger", "request_id", middleware.GetRequestID(ctx), "error", err)
		return connect.NewResponse(&api.ValidateResponse{Problem: p, Warnings: []api.Warning{}}), nil
	}

	ledger, err := req.Msg.Ledger()
	if err != nil {
		return invalid(err)
	}
	opts := req.Msg.Options(s.defaults)
	if _, err := calculator.ParsePaymentMode(string(opts.PaymentMode)); err != nil {
		return invalid(err)
	}
	if _, err := calculator.ParseSettlementPolicy(string(opts.SettlementPolicy)); err != nil {
		return invalid(err)
	}
	if err := calculator.ValidateLedger(ledger); err != nil {
		return invalid(err)
	}

	warnings := calculator.CheckAllocation(ledger, calculator.Allocate(ledger))
	warnings = append(warnings, calculator.CheckBalances(ledger)...)
	return connect.NewResponse(&api.ValidateResponse{
		Valid:    true,
		Warnings: api.NewWarnings(warnings),
	}), nil
}

// SettleGroup computes each ledger, combines the participants' nets across
// all of them, applies transfers already made and settles the remainder.
func (s *LedgerService) SettleGroup(ctx context.Context, req *connect.Request[api.SettleGroupRequest]) (*connect.Response[api.SettleGroupResponse], error) {
	if len(req.Msg.Ledgers) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("at least one ledger is required"))
	}

	policy := s.defaults.SettlementPolicy
	if req.Msg.SettlementPolicy != "" {
		policy = calculator.SettlementPolicy(req.Msg.SettlementPolicy)
	}
	policy, err := calculator.ParseSettlementPolicy(string(policy))
	if err != nil {
		return nil, toConnectError(err)
	}

	results := make([]*calculator.Result, len(req.Msg.Ledgers))
	var warnings []models.Warning
	for i := range req.Msg.Ledgers {
		result, err := s.compute(ctx, &req.Msg.Ledgers[i])
		if err != nil {
			slog.Error("SettleGroup failed", "request_id", middleware.GetRequestID(ctx), "ledger", i, "error", err)
			return nil, toConnectError(fmt.Errorf("ledger %d: %w", i, err))
		}
		results[i] = result
		warnings = append(warnings, result.Warnings...)
	}

	recorded := make([]models.Transfer, len(req.Msg.Recorded))
	for i, t := range req.Msg.Recorded {
		recorded[i] = models.Transfer{FromID: t.FromID, ToID: t.ToID, Amount: t.Amount}
	}

	nets, err := calculator.CombineNets(results, recorded)
	if err == nil {
		err = calculator.CheckNets(nets)
	}
	if err != nil {
		return nil, toConnectError(err)
	}
	transfers := calculator.Settle(nets, policy)
	s.metrics.ObserveTransfers(len(transfers))

	balances := make([]api.Balance, len(nets))
	for i, n := range nets {
		balances[i] = api.Balance{ID: n.ParticipantID, Net: calculator.Round2(n.Net)}
	}

	slog.Debug("SettleGroup done",
		"request_id", middleware.GetRequestID(ctx),
		"ledgers", len(results),
		"recorded", len(recorded),
		"transfers", len(transfers),
	)
	return connect.NewResponse(&api.SettleGroupResponse{
		Balances:  balances,
		Transfers: api.NewTransfers(transfers),
		Warnings:  api.NewWarnings(warnings),
	}), nil
}
