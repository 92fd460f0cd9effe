package ingest

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/silo/ai"
	"github.com/poiesic/silo/archive"
	"github.com/poiesic/silo/core"
	"github.com/poiesic/silo/extract"
	"github.com/poiesic/silo/fetch"
	"github.com/poiesic/silo/storage"
)

// DefaultAITimeout bounds each of the three analyzer calls individually.
const DefaultAITimeout = 30 * time.Second

// Archiver captures a snapshot of a page. Satisfied by *archive.Coordinator.
type Archiver interface {
	Archive(ctx context.Context, linkID core.ID, url, html string) (*core.Snapshot, error)
}

var _ Archiver = (*archive.Coordinator)(nil)

// Outcome reports what one ingestion produced. The link is always
// persisted when Outcome is returned; the degradation flags record which
// enrichment stages failed and were skipped.
type Outcome struct {
	Link *core.Link

	MetadataDegraded       bool
	ClassificationDegraded bool
	SummaryDegraded        bool
	EmbeddingDegraded      bool
	ArchiveDegraded        bool
}

// Degraded reports whether any enrichment stage was skipped.
func (o *Outcome) Degraded() bool {
	return o.MetadataDegraded || o.ClassificationDegraded ||
		o.SummaryDegraded || o.EmbeddingDegraded || o.ArchiveDegraded
}

// Report pairs one URL from a batch with its outcome or terminal error.
type Report struct {
	RawURL  string
	Outcome *Outcome
	Err     error
}

// Pipeline orchestrates the ingestion of URLs: fetch, extract, persist,
// analyze, archive. Enrichment is best-effort; persisting the base link is
// the only hard requirement.
type Pipeline struct {
	fetcher   *fetch.Fetcher
	repo      storage.LinkRepository
	provider  ai.Provider
	archiver  Archiver
	pool      *ants.Pool
	aiTimeout time.Duration
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent multi-URL ingestion.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}
		if p.pool != nil {
			p.pool.Release()
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		p.pool = pool
		return nil
	}
}

// WithAITimeout bounds each analyzer call (classify, summarize, embed)
// individually. Default is DefaultAITimeout.
func WithAITimeout(timeout time.Duration) Option {
	return func(p *Pipeline) error {
		if timeout > 0 {
			p.aiTimeout = timeout
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger != nil {
			p.logger = logger
		}
		return nil
	}
}

// NewPipeline creates an ingestion pipeline over the given collaborators.
func NewPipeline(
	fetcher *fetch.Fetcher,
	repo storage.LinkRepository,
	provider ai.Provider,
	archiver Archiver,
	opts ...Option,
) (*Pipeline, error) {
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}
	if repo == nil {
		return nil, ErrRepositoryRequired
	}
	if provider == nil {
		return nil, ErrProviderRequired
	}
	if archiver == nil {
		return nil, ErrArchiverRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		fetcher:   fetcher,
		repo:      repo,
		provider:  provider,
		archiver:  archiver,
		pool:      pool,
		aiTimeout: DefaultAITimeout,
		logger:    slog.Default().With("component", "ingest"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}
	return p, nil
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

// IngestURL fetches, enriches and persists one URL for a user. A non-empty
// note carries the sender's own words about the link: it becomes the
// description, and the summary too when the summarizer is unavailable.
//
// Fetch and persistence failures are terminal. Extraction, analysis and
// archival failures degrade the corresponding fields and are recorded on
// the Outcome, never returned as errors. Worst case under full AI and
// archival outage is a bare URL with domain and timestamps.
func (p *Pipeline) IngestURL(ctx context.Context, userID int64, rawURL, note string) (*Outcome, error) {
	normalized, err := core.NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	page, err := p.fetcher.Fetch(ctx, normalized)
	if err != nil {
		return nil, err
	}

	outcome := &Outcome{}

	extracted, err := extract.Extract(page.HTML, page.FinalURL)
	if err != nil {
		p.logger.Warn("extraction degraded, storing bare link", "url", normalized, "err", err)
		outcome.MetadataDegraded = true
		extracted = &extract.Result{}
	}

	description := extracted.Description
	if note != "" {
		// The sender's note beats whatever the page says about itself.
		description = note
	}

	link, err := p.repo.Upsert(ctx, &core.Link{
		UserID:      userID,
		URL:         normalized,
		Domain:      core.Domain(normalized),
		Title:       extracted.Title,
		Description: description,
	})
	if err != nil {
		return nil, err
	}

	if !outcome.MetadataDegraded {
		meta := extracted.Metadata
		meta.LinkId = link.Id
		if err := p.repo.PutMetadata(ctx, &meta); err != nil {
			return nil, err
		}
	}

	analysis := p.analyze(ctx, extracted.Text)
	outcome.ClassificationDegraded = analysis.classification == nil
	outcome.SummaryDegraded = analysis.summary == ""
	outcome.EmbeddingDegraded = analysis.vector == nil

	if analysis.classification != nil {
		link.ContentType = analysis.classification.Type
		if err := p.repo.AttachCategories(ctx, link.Id, analysis.classification.Topics); err != nil {
			return nil, err
		}
		entities := make([]core.Entity, 0, len(analysis.classification.Entities))
		for _, e := range analysis.classification.Entities {
			entities = append(entities, core.Entity{
				Name:       e.Name,
				Type:       e.Type,
				Normalized: core.NormalizeEntity(e.Name),
			})
		}
		if err := p.repo.AttachEntities(ctx, link.Id, entities); err != nil {
			return nil, err
		}
	}

	if analysis.summary != "" {
		link.Summary = analysis.summary
	} else if note != "" && link.Summary == "" {
		link.Summary = note
	}

	if analysis.classification != nil || link.Summary != "" {
		link, err = p.repo.Upsert(ctx, link)
		if err != nil {
			return nil, err
		}
	}

	if analysis.vector != nil {
		err = p.repo.PutEmbedding(ctx, &core.Embedding{
			LinkId:      link.Id,
			Model:       p.provider.Embedder().Model(),
			Vector:      analysis.vector,
			GeneratedAt: time.Now().UTC(),
		})
		if err != nil {
			return nil, err
		}
	}

	snap, err := p.archiver.Archive(ctx, link.Id, normalized, page.HTML)
	if err != nil {
		p.logger.Warn("archival degraded", "url", normalized, "err", err)
		outcome.ArchiveDegraded = true
	} else {
		if err := p.repo.AttachSnapshot(ctx, snap); err != nil {
			return nil, err
		}
		link.ArchiveRef = snap.Ref
	}

	outcome.Link = link
	return outcome, nil
}

// analysisResult carries whatever subset of the three analyzer calls
// succeeded. nil / empty fields mean "unavailable".
type analysisResult struct {
	classification *ai.Classification
	summary        string
	vector         []float32
}

// analyze runs the three analyzer calls concurrently, each bounded by its
// own timeout. A failed call degrades its field without affecting the
// other two.
func (p *Pipeline) analyze(ctx context.Context, text string) *analysisResult {
	result := &analysisResult{}
	if text == "" {
		return result
	}

	truncated := ai.TruncateForAnalysis(text)

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, p.aiTimeout)
		defer cancel()
		classification, err := p.provider.Classifier().Classify(callCtx, truncated)
		if err != nil {
			p.logger.Warn("classification unavailable", "err", err)
			return
		}
		result.classification = classification
	}()

	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, p.aiTimeout)
		defer cancel()
		summary, err := p.provider.Summarizer().Summarize(callCtx, truncated)
		if err != nil {
			p.logger.Warn("summary unavailable", "err", err)
			return
		}
		result.summary = summary
	}()

	go func() {
		defer wg.Done()
		callCtx, cancel := context.WithTimeout(ctx, p.aiTimeout)
		defer cancel()
		vector, err := p.provider.Embedder().EmbedText(callCtx, truncated)
		if err != nil {
			p.logger.Warn("embedding unavailable", "err", err)
			return
		}
		result.vector = vector
	}()

	wg.Wait()
	return result
}

// IngestAll ingests multiple URLs concurrently on the worker pool, with
// one shared note for all of them (they came from one message). There
// is no ordering guarantee between URLs; concurrent ingestion of the same
// (user, URL) key serializes inside the store's upsert. Reports are
// returned in input order.
func (p *Pipeline) IngestAll(ctx context.Context, userID int64, urls []string, note string) []*Report {
	reports := make([]*Report, len(urls))

	var wg sync.WaitGroup
	for i, rawURL := range urls {
		i, rawURL := i, rawURL
		wg.Add(1)
		submitErr := p.pool.Submit(func() {
			defer wg.Done()
			outcome, err := p.IngestURL(ctx, userID, rawURL, note)
			reports[i] = &Report{RawURL: rawURL, Outcome: outcome, Err: err}
		})
		if submitErr != nil {
			wg.Done()
			reports[i] = &Report{RawURL: rawURL, Err: submitErr}
		}
	}
	wg.Wait()

	return reports
}
