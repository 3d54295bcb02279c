package application

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"bv-connector/internal/domain"
	"bv-connector/internal/infrastructure/metrics"
	"bv-connector/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// UnitResult is the outcome of one scope unit. Err is non-nil when the unit
// failed; failures never abort sibling units.
type UnitResult struct {
	Unit          domain.ScopeUnit
	Disabled      bool
	OrdersSent    int
	OrdersSkipped int
	FilePath      string
	Err           *domain.UnitError
}

// OrchestratorConfig is the process-level configuration of a feed run.
type OrchestratorConfig struct {
	ExportDir    string
	InboxPath    string
	PlatformCode string
}

// Orchestrator drives a full purchase feed run: resolve scope, then per
// unit gate, query, assemble, write, upload. Units are processed
// sequentially; cancellation is honored at unit boundaries only.
type Orchestrator struct {
	scopes    *ScopeResolver
	filter    *OrderFilter
	assembler *FeedAssembler
	orders    ports.OrderRepository
	config    ports.FeedConfigRepository
	writers   ports.FeedWriterFactory
	uploader  ports.Uploader
	lock      ports.RunLock
	metrics   *metrics.Metrics
	cfg       OrchestratorConfig
	logger    zerolog.Logger

	now func() time.Time
}

// NewOrchestrator creates a new feed orchestrator.
func NewOrchestrator(
	scopes *ScopeResolver,
	filter *OrderFilter,
	assembler *FeedAssembler,
	orders ports.OrderRepository,
	config ports.FeedConfigRepository,
	writers ports.FeedWriterFactory,
	uploader ports.Uploader,
	lock ports.RunLock,
	m *metrics.Metrics,
	cfg OrchestratorConfig,
	logger zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		scopes:    scopes,
		filter:    filter,
		assembler: assembler,
		orders:    orders,
		config:    config,
		writers:   writers,
		uploader:  uploader,
		lock:      lock,
		metrics:   m,
		cfg:       cfg,
		logger:    logger,
		now:       time.Now,
	}
}

// Run executes one feed generation pass and returns the per-unit results.
// The returned error covers process-level failures only (lock, scope
// resolution); unit failures are captured in the results and logged.
func (o *Orchestrator) Run(ctx context.Context) ([]UnitResult, error) {
	runID := uuid.NewString()
	logger := o.logger.With().Str("run_id", runID).Logger()

	acquired, err := o.lock.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !acquired {
		logger.Warn().Msg("Another purchase feed run is in progress, skipping")
		return nil, nil
	}
	defer func() {
		if err := o.lock.Release(context.WithoutCancel(ctx)); err != nil {
			logger.Error().Err(err).Msg("Failed to release run lock")
		}
	}()

	start := o.now()
	defer o.metrics.ObserveRun(start)
	logger.Info().Msg("Start purchase feed generation")

	globalCfg, err := o.config.ForStore(ctx, domain.AdminStoreID)
	if err != nil {
		return nil, fmt.Errorf("resolve generation scope: %w", err)
	}
	if globalCfg == nil {
		return nil, fmt.Errorf("%w: no global feed config", domain.ErrConfiguration)
	}

	units, err := o.scopes.Resolve(ctx, globalCfg.GenerationScope)
	if err != nil {
		return nil, fmt.Errorf("resolve scope units: %w", err)
	}

	results := make([]UnitResult, 0, len(units))
	for _, unit := range units {
		// Cancellation at unit boundaries only, never mid-unit: a partial
		// unit could otherwise be uploaded with unflagged orders.
		if ctx.Err() != nil {
			logger.Warn().Err(ctx.Err()).Msg("Run cancelled, remaining units skipped")
			break
		}

		result := o.processUnit(ctx, unit)
		results = append(results, result)

		switch {
		case result.Err != nil:
			logger.Error().
				Err(result.Err).
				Str("scope", string(unit.Mode)).
				Str("unit", unit.Label).
				Msg("Failed to export purchase feed for unit")
			o.metrics.UnitResults.WithLabelValues("error").Inc()
		case result.Disabled:
			o.metrics.UnitResults.WithLabelValues("disabled").Inc()
		default:
			o.metrics.UnitResults.WithLabelValues("ok").Inc()
		}
		o.metrics.OrdersExported.Add(float64(result.OrdersSent))
		o.metrics.OrdersSkipped.Add(float64(result.OrdersSkipped))
	}

	logger.Info().Int("units", len(results)).Msg("End purchase feed generation")
	return results, nil
}

func (o *Orchestrator) processUnit(ctx context.Context, unit domain.ScopeUnit) UnitResult {
	result := UnitResult{Unit: unit}
	logger := o.logger.With().
		Str("scope", string(unit.Mode)).
		Str("unit", unit.Label).
		Int64("unit_id", unit.ID).
		Logger()

	fail := func(err error) UnitResult {
		result.Err = &domain.UnitError{Mode: unit.Mode, ID: unit.ID, Label: unit.Label, Err: err}
		return result
	}

	enabled, cfg, err := o.filter.Gate(ctx, unit)
	if err != nil {
		return fail(err)
	}
	if !enabled {
		result.Disabled = true
		return result
	}

	now := o.now()
	query := o.filter.Query(unit, cfg, now)

	count, err := o.orders.Count(ctx, query)
	if err != nil {
		return fail(fmt.Errorf("%w: count orders: %v", domain.ErrDataAccess, err))
	}
	logger.Info().Int64("orders", count).Msg("Found orders to send")
	if count == 0 {
		return result
	}

	orders, err := o.orders.Find(ctx, query)
	if err != nil {
		return fail(fmt.Errorf("%w: load orders: %v", domain.ErrDataAccess, err))
	}

	fileName := fmt.Sprintf("purchaseFeed%s-%d.xml", unit.FileSuffix(), now.Unix())
	localPath := filepath.Join(o.cfg.ExportDir, fileName)

	writer, err := o.writers.Open(localPath, domain.PurchaseFeedNamespace, map[string]string{
		"name": cfg.ClientName,
	})
	if err != nil {
		return fail(fmt.Errorf("%w: open feed file: %v", domain.ErrSerialization, err))
	}

	stats, assembleErr := o.assembler.Assemble(ctx, orders, cfg, writer)
	result.OrdersSent = stats.Written
	result.OrdersSkipped = stats.Skipped

	path, closeErr := writer.Close()
	if assembleErr != nil {
		// Orders flagged before the failure stay flagged; the partial file
		// is never uploaded.
		return fail(assembleErr)
	}
	if closeErr != nil {
		return fail(fmt.Errorf("%w: close feed file: %v", domain.ErrSerialization, closeErr))
	}
	result.FilePath = path
	o.metrics.FeedFilesWritten.Inc()

	remotePath := fmt.Sprintf("%s/bv_ppe_tag_feed-%s-%d.xml", o.cfg.InboxPath, o.cfg.PlatformCode, now.Unix())
	if err := o.uploader.Upload(ctx, path, remotePath, unit.DefaultStore); err != nil {
		// The local file stays on disk for manual recovery and the orders
		// stay flagged: avoiding duplicate review solicitations wins over
		// guaranteed delivery.
		o.metrics.UploadFailures.Inc()
		return fail(fmt.Errorf("%w: %v", domain.ErrUpload, err))
	}

	logger.Info().
		Int("sent", stats.Written).
		Int("skipped", stats.Skipped).
		Str("file", path).
		Msg("Purchase feed uploaded")
	return result
}
