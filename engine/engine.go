// Package engine wires the ledger components over one store and one locker
// and runs every operation inside a trace span with a structured log line.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/bitfsorg/libroyalty-go/claim"
	"github.com/bitfsorg/libroyalty-go/config"
	"github.com/bitfsorg/libroyalty-go/identity"
	"github.com/bitfsorg/libroyalty-go/ingest"
	"github.com/bitfsorg/libroyalty-go/ledger"
	"github.com/bitfsorg/libroyalty-go/logging"
	"github.com/bitfsorg/libroyalty-go/revshare"
	"github.com/bitfsorg/libroyalty-go/store"
	"github.com/bitfsorg/libroyalty-go/transfer"
	"github.com/bitfsorg/libroyalty-go/treasury"
)

const tracerName = "github.com/bitfsorg/libroyalty-go/engine"

// Engine is the ledger facade consumed by the service layer.
type Engine struct {
	store    store.Store
	registry *revshare.Registry
	ledger   *ledger.Ledger
	settler  *claim.Settler
	ingestor *ingest.Ingestor
	treasury *treasury.Service
	logger   *slog.Logger
	closeLog func() error
	tracer   trace.Tracer
}

type options struct {
	store          store.Store
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	now            func() time.Time
}

// Option configures Open.
type Option func(*options)

// WithStore uses st instead of opening the configured backend. The engine
// still closes it on Close.
func WithStore(st store.Store) Option {
	return func(o *options) { o.store = st }
}

// WithLogger overrides the logger built from the config.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) { o.tracerProvider = tp }
}

// WithClock overrides the time source of every component.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// Open validates cfg, opens the store and wires the components. Claims,
// withdrawals and batch fees move value through funds.
func Open(cfg config.Config, funds transfer.Funds, opts ...Option) (*Engine, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	o := options{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(&o)
	}

	closeLog := func() error { return nil }
	if o.logger == nil {
		logger, closeFn, err := logging.New(cfg.LogLevel, cfg.LogFile)
		if err != nil {
			return nil, err
		}
		o.logger, closeLog = logger, closeFn
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	if o.store == nil {
		st, err := store.Open(cfg.Backend, cfg.DataDir)
		if err != nil {
			_ = closeLog()
			return nil, err
		}
		o.store = st
	}

	locker := store.NewLocker()
	led, err := ledger.New(o.store, locker, ledger.WithClock(o.now), ledger.WithCapacity(cfg.TxLogCap))
	if err != nil {
		_ = o.store.Close()
		_ = closeLog()
		return nil, err
	}

	e := &Engine{
		store:    o.store,
		registry: revshare.NewRegistry(o.store, locker, revshare.WithClock(o.now)),
		ledger:   led,
		settler:  claim.NewSettler(o.store, locker, funds, claim.WithClock(o.now)),
		ingestor: ingest.New(o.store, locker, funds,
			ingest.WithClock(o.now),
			ingest.WithMaxBatchSize(cfg.MaxBatchSize),
			ingest.WithCapacity(cfg.TxLogCap)),
		treasury: treasury.NewService(o.store, locker, funds,
			treasury.WithClock(o.now),
			treasury.WithDefaults(treasury.Defaults{MintFee: cfg.MintFee, PlatformFeeBps: cfg.PlatformFeeBps})),
		logger:   o.logger.With("service", cfg.ServiceName),
		closeLog: closeLog,
		tracer:   o.tracerProvider.Tracer(tracerName),
	}
	e.logger.Info("engine opened", "backend", cfg.Backend, "txlogcap", cfg.TxLogCap, "maxbatch", cfg.MaxBatchSize)
	return e, nil
}

// Close closes the store and the log file, if any.
func (e *Engine) Close() error {
	return errors.Join(e.store.Close(), e.closeLog())
}

// observe runs fn in a span named royalty.<op> and logs the outcome.
func observe[T any](ctx context.Context, e *Engine, op string, attrs []attribute.KeyValue, fn func(context.Context) (T, error)) (T, error) {
	ctx, span := e.tracer.Start(ctx, "royalty."+op, trace.WithAttributes(attrs...))
	defer span.End()

	logAttrs := make([]any, 0, 2+2*len(attrs))
	logAttrs = append(logAttrs, "op", op)
	for _, kv := range attrs {
		logAttrs = append(logAttrs, string(kv.Key), kv.Value.AsInterface())
	}

	v, err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		e.logger.WarnContext(ctx, "operation failed", append(logAttrs, "error", err)...)
		return v, err
	}
	e.logger.InfoContext(ctx, "operation succeeded", logAttrs...)
	return v, nil
}

func workAttr(workID string) attribute.KeyValue { return attribute.String("work", workID) }

func amountAttr(key string, v uint64) attribute.KeyValue {
	return attribute.String(key, strconv.FormatUint(v, 10))
}

// --- Treasury ---

// InitTreasury creates the treasury singleton.
func (e *Engine) InitTreasury(ctx context.Context, authority, feeDestination, payoutAccount identity.Address) (*treasury.Config, error) {
	return observe(ctx, e, "InitTreasury", []attribute.KeyValue{
		attribute.String("authority", authority.String()),
	}, func(ctx context.Context) (*treasury.Config, error) {
		return e.treasury.Init(ctx, authority, feeDestination, payoutAccount)
	})
}

// Treasury returns the treasury configuration.
func (e *Engine) Treasury(ctx context.Context) (*treasury.Config, error) {
	return e.treasury.Get(ctx)
}

// UpdateTreasury changes fee settings on behalf of the authority.
func (e *Engine) UpdateTreasury(ctx context.Context, caller identity.Address, u treasury.Update) (*treasury.Config, error) {
	return observe(ctx, e, "UpdateConfig", []attribute.KeyValue{
		attribute.String("caller", caller.String()),
	}, func(ctx context.Context) (*treasury.Config, error) {
		return e.treasury.UpdateConfig(ctx, caller, u)
	})
}

// SetStreamingProvider names the identity allowed to ingest batches.
func (e *Engine) SetStreamingProvider(ctx context.Context, caller, provider identity.Address) (*treasury.Config, error) {
	return observe(ctx, e, "SetStreamingProvider", []attribute.KeyValue{
		attribute.String("caller", caller.String()),
		attribute.String("provider", provider.String()),
	}, func(ctx context.Context) (*treasury.Config, error) {
		return e.treasury.SetStreamingProvider(ctx, caller, provider)
	})
}

// WithdrawFunds moves amount from the payout account to the fee destination.
func (e *Engine) WithdrawFunds(ctx context.Context, caller identity.Address, amount uint64) error {
	_, err := observe(ctx, e, "WithdrawFunds", []attribute.KeyValue{
		attribute.String("caller", caller.String()),
		amountAttr("amount", amount),
	}, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, e.treasury.WithdrawFunds(ctx, caller, amount)
	})
	return err
}

// --- Splits and claim tokens ---

// CreateSplit stores the split for workID.
func (e *Engine) CreateSplit(ctx context.Context, workID string, collaborators []revshare.Collaborator) (*revshare.Split, error) {
	return observe(ctx, e, "CreateSplit", []attribute.KeyValue{
		workAttr(workID),
		attribute.Int("collaborators", len(collaborators)),
	}, func(ctx context.Context) (*revshare.Split, error) {
		return e.registry.CreateSplit(ctx, workID, collaborators)
	})
}

// GetSplit returns the split for workID.
func (e *Engine) GetSplit(ctx context.Context, workID string) (*revshare.Split, error) {
	return e.registry.GetSplit(ctx, workID)
}

// MintClaimToken issues a claim token from caller's allocation.
func (e *Engine) MintClaimToken(ctx context.Context, caller identity.Address, workID string, shareBps uint16) (*revshare.ClaimToken, error) {
	return observe(ctx, e, "MintClaimToken", []attribute.KeyValue{
		workAttr(workID),
		attribute.String("caller", caller.String()),
		attribute.Int("share_bps", int(shareBps)),
	}, func(ctx context.Context) (*revshare.ClaimToken, error) {
		return e.registry.MintClaimToken(ctx, caller, workID, shareBps)
	})
}

// GetClaimToken returns a claim token by ID.
func (e *Engine) GetClaimToken(ctx context.Context, id string) (*revshare.ClaimToken, error) {
	return e.registry.GetClaimToken(ctx, id)
}

// Distribute previews how total would be split among workID's collaborators.
func (e *Engine) Distribute(ctx context.Context, workID string, total uint64) ([]revshare.Distribution, error) {
	split, err := e.registry.GetSplit(ctx, workID)
	if err != nil {
		return nil, err
	}
	return revshare.Distribute(total, split)
}

// --- Revenue ---

// RecordRevenue records amount against workID.
func (e *Engine) RecordRevenue(ctx context.Context, workID string, amount uint64, source, description string) (*ledger.Entry, error) {
	return observe(ctx, e, "RecordRevenue", []attribute.KeyValue{
		workAttr(workID),
		amountAttr("amount", amount),
		attribute.String("source", source),
	}, func(ctx context.Context) (*ledger.Entry, error) {
		return e.ledger.RecordRevenue(ctx, workID, amount, source, description)
	})
}

// GetEntry returns the ledger entry for workID.
func (e *Engine) GetEntry(ctx context.Context, workID string) (*ledger.Entry, error) {
	return e.ledger.GetEntry(ctx, workID)
}

// Claim settles tokenID for caller.
func (e *Engine) Claim(ctx context.Context, caller identity.Address, tokenID string) (*claim.Receipt, error) {
	return observe(ctx, e, "Claim", []attribute.KeyValue{
		attribute.String("token", tokenID),
		attribute.String("caller", caller.String()),
	}, func(ctx context.Context) (*claim.Receipt, error) {
		r, err := e.settler.Claim(ctx, caller, tokenID)
		if err == nil {
			trace.SpanFromContext(ctx).SetAttributes(
				workAttr(r.WorkID),
				amountAttr("claimable", r.Claimable),
				amountAttr("fee", r.PlatformFee),
				amountAttr("net", r.Net),
			)
		}
		return r, err
	})
}

// IngestBatch applies a streaming revenue batch submitted by caller.
func (e *Engine) IngestBatch(ctx context.Context, caller identity.Address, records []ingest.Record) (*ingest.Result, error) {
	return observe(ctx, e, "IngestBatch", []attribute.KeyValue{
		attribute.String("caller", caller.String()),
		attribute.Int("records", len(records)),
	}, func(ctx context.Context) (*ingest.Result, error) {
		res, err := e.ingestor.IngestBatch(ctx, caller, records)
		if err == nil {
			trace.SpanFromContext(ctx).SetAttributes(
				attribute.Int("applied", res.Applied),
				attribute.Int("skipped", res.Skipped),
				amountAttr("total_fee", res.TotalFee),
			)
		}
		return res, err
	})
}
