package discovery

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/qrdine/qrdine-backend/internal/gateways"
	"github.com/qrdine/qrdine-backend/internal/providers"
	"github.com/qrdine/qrdine-backend/pkg/config"
	"github.com/qrdine/qrdine-backend/pkg/enums"
	pkgerrors "github.com/qrdine/qrdine-backend/pkg/errors"
	"github.com/qrdine/qrdine-backend/pkg/logger"
	"github.com/qrdine/qrdine-backend/pkg/metrics"
)

const (
	defaultConcurrency = 6
	defaultLimit       = 25

	// ScopeSupportedCountries names the country list a batch walks: the
	// provider's fixed supported-country table.
	ScopeSupportedCountries = "supported_countries"
)

// SnapshotStore persists a provider's discovery snapshot without clobbering
// snapshots recorded for other providers.
type SnapshotStore interface {
	MergeDiscoverySnapshot(ctx context.Context, provider enums.PaymentProvider, snapshot map[string]any) error
}

// Request is one discovery batch: a paging window over the provider's
// supported-country table.
type Request struct {
	Provider enums.PaymentProvider
	Offset   int
	Limit    int
	Persist  bool
}

// CountryResult is the outcome of probing one country. A failed probe is a
// regular entry, never a batch failure.
type CountryResult struct {
	Code      string `json:"code"`
	Name      string `json:"name"`
	Ok        bool   `json:"ok"`
	BankCount *int   `json:"bankCount,omitempty"`
	Error     string `json:"error,omitempty"`
	Ms        int64  `json:"ms"`
}

// Summary aggregates a batch's outcomes.
type Summary struct {
	Ok     int   `json:"ok"`
	Failed int   `json:"failed"`
	Ms     int64 `json:"ms"`
}

// Batch is the full result of one discovery run.
type Batch struct {
	Provider              enums.PaymentProvider `json:"provider"`
	Scope                 string                `json:"scope"`
	Offset                int                   `json:"offset"`
	Limit                 int                   `json:"limit"`
	Total                 int                   `json:"total"`
	NextOffset            *int                  `json:"nextOffset"`
	Summary               Summary               `json:"summary"`
	SupportedCountryCodes []string              `json:"supportedCountryCodes"`
	Results               []CountryResult       `json:"results"`
}

// Prober probes a provider's bank directories country by country with a
// bounded worker pool.
type Prober struct {
	listers     providers.Registry
	snapshots   SnapshotStore
	metrics     *metrics.ProbeMetrics
	log         *logger.Logger
	concurrency int
	limit       int
}

// NewProber wires the batch prober. Snapshots and metrics are optional.
func NewProber(cfg config.DiscoveryConfig, listers providers.Registry, snapshots SnapshotStore, probeMetrics *metrics.ProbeMetrics, log *logger.Logger) (*Prober, error) {
	if listers == nil {
		return nil, fmt.Errorf("provider registry required")
	}
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	limit := cfg.DefaultLimit
	if limit <= 0 {
		limit = defaultLimit
	}
	return &Prober{
		listers:     listers,
		snapshots:   snapshots,
		metrics:     probeMetrics,
		log:         log,
		concurrency: concurrency,
		limit:       limit,
	}, nil
}

// Probe runs one batch. Individual probe failures land in their result entry;
// the batch only errors on invalid input or a failed persist.
func (p *Prober) Probe(ctx context.Context, req Request) (*Batch, error) {
	if !req.Provider.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown payment provider")
	}
	lister, ok := p.listers.Lister(req.Provider)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "provider has no bank directory to probe").
			WithDetails(map[string]any{"provider": req.Provider})
	}

	countries := gateways.SupportedCountries(req.Provider)
	total := len(countries)

	offset := req.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	limit := req.Limit
	if limit <= 0 {
		limit = p.limit
	}
	end := offset + limit
	if end > total {
		end = total
	}
	window := countries[offset:end]

	batch := &Batch{
		Provider:              req.Provider,
		Scope:                 ScopeSupportedCountries,
		Offset:                offset,
		Limit:                 limit,
		Total:                 total,
		SupportedCountryCodes: countries,
		Results:               make([]CountryResult, len(window)),
	}
	if end < total {
		next := end
		batch.NextOffset = &next
	}

	started := time.Now()
	workers := p.concurrency
	if workers > len(window) {
		workers = len(window)
	}

	var cursor atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				idx := int(cursor.Add(1)) - 1
				if idx >= len(window) {
					return
				}
				batch.Results[idx] = p.probeCountry(ctx, lister, req.Provider, window[idx])
			}
		}()
	}
	wg.Wait()
	batch.Summary.Ms = time.Since(started).Milliseconds()

	for _, result := range batch.Results {
		if result.Ok {
			batch.Summary.Ok++
		} else {
			batch.Summary.Failed++
		}
	}

	if req.Persist {
		if err := p.persist(ctx, batch); err != nil {
			return nil, err
		}
	}
	return batch, nil
}

func (p *Prober) probeCountry(ctx context.Context, lister providers.BankLister, provider enums.PaymentProvider, code string) CountryResult {
	result := CountryResult{
		Code: code,
		Name: CountryName(code),
	}

	started := time.Now()
	banks, err := lister.ListBanks(ctx, code)
	elapsed := time.Since(started)
	result.Ms = elapsed.Milliseconds()
	p.metrics.ObserveProbe(provider.String(), elapsed, err == nil)

	if err != nil {
		result.Error = err.Error()
		p.log.Warn(p.log.WithProvider(ctx, provider.String()), fmt.Sprintf("bank probe failed for %s", code))
		return result
	}

	count := len(banks)
	result.Ok = true
	result.BankCount = &count
	return result
}

func (p *Prober) persist(ctx context.Context, batch *Batch) error {
	if p.snapshots == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "discovery snapshot store not configured")
	}

	results := map[string]any{}
	for _, result := range batch.Results {
		entry := map[string]any{"ok": result.Ok, "ms": result.Ms}
		if result.BankCount != nil {
			entry["bankCount"] = *result.BankCount
		}
		if result.Error != "" {
			entry["error"] = result.Error
		}
		results[result.Code] = entry
	}
	snapshot := map[string]any{
		"generatedAt": time.Now().UTC().Format(time.RFC3339),
		"scope":       batch.Scope,
		"offset":      batch.Offset,
		"ok":          batch.Summary.Ok,
		"failed":      batch.Summary.Failed,
		"results":     results,
	}
	return p.snapshots.MergeDiscoverySnapshot(ctx, batch.Provider, snapshot)
}
