package pipeline

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aluiziolira/go-webintel/config"
	"github.com/aluiziolira/go-webintel/models"
	"github.com/aluiziolira/go-webintel/platform"
)

var (
	// ErrPipelineClosed is returned when Process is called after shutdown.
	ErrPipelineClosed = errors.New("pipeline: closed")
	// ErrPipelineCloseTimeout is returned when workers fail to drain in time.
	ErrPipelineCloseTimeout = errors.New("pipeline: close timed out")
)

// drainTimeout bounds how long Close waits for workers. Tests shrink it.
var drainTimeout = 30 * time.Second

// OutputWriter defines the interface for catalog output.
type OutputWriter interface {
	Write(products []*models.PlatformProduct) error
	Close() error
	Validate() error
}

// Pipeline coordinates validation, de-duplication, and output writing for
// products streamed out of the platform scrapers.
type Pipeline struct {
	writer    OutputWriter
	productCh chan *models.PlatformProduct
	batchSize int

	wg sync.WaitGroup

	seen   map[string]struct{}
	seenMu sync.Mutex

	metrics metrics

	mu     sync.Mutex // guards closed/err
	closed bool
	err    error

	closeOnce    sync.Once
	shutdown     chan struct{}
	shutdownOnce sync.Once
}

// NewPipeline builds a pipeline over the given writer with buffer sizes
// taken from configuration.
func NewPipeline(writer OutputWriter, cfg *config.Config) *Pipeline {
	return &Pipeline{
		writer:    writer,
		productCh: make(chan *models.PlatformProduct, cfg.PipelineBufferSize),
		batchSize: cfg.BatchSize,
		seen:      make(map[string]struct{}),
		metrics:   newMetrics(),
		shutdown:  make(chan struct{}),
	}
}

// Start launches worker goroutines.
func (p *Pipeline) Start(workers int) {
	if workers <= 0 {
		workers = 1
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

// Process enqueues products for downstream processing.
func (p *Pipeline) Process(products []*models.PlatformProduct) error {
	if len(products) == 0 {
		return nil
	}

	closed, err := p.state()
	if err != nil {
		return err
	}
	if closed {
		return ErrPipelineClosed
	}

	for _, product := range products {
		if product == nil {
			continue
		}
		if err := p.enqueue(product); err != nil {
			return err
		}
	}
	return nil
}

// Close waits for workers to finish and prevents more submissions.
func (p *Pipeline) Close() error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
	}
	p.mu.Unlock()

	p.signalShutdown()
	p.closeOnce.Do(func() {
		close(p.productCh)
	})

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return p.Err()
	case <-time.After(drainTimeout):
		return ErrPipelineCloseTimeout
	}
}

// Err returns the first error encountered during processing.
func (p *Pipeline) Err() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

// GetMetrics returns a snapshot of the internal counters.
func (p *Pipeline) GetMetrics() map[string]interface{} {
	return p.metrics.snapshot()
}

// StartMetricsReporting emits periodic progress logs.
func (p *Pipeline) StartMetricsReporting(interval time.Duration) {
	if interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				snapshot := p.GetMetrics()
				processed := snapshot["processed_products"].(int64)
				validation := snapshot["validation_errors"].(map[string]int)
				slog.Info("pipeline progress",
					slog.Int64("processed", processed),
					slog.Int("validation_errors", len(validation)),
				)
			case <-p.shutdown:
				return
			}
		}
	}()
}

func (p *Pipeline) worker() {
	defer p.wg.Done()

	batch := make([]*models.PlatformProduct, 0, p.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := p.writer.Write(batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	for product := range p.productCh {
		prepared := p.prepare(product)
		if prepared == nil {
			continue
		}
		batch = append(batch, prepared)
		if len(batch) >= p.batchSize {
			if err := flush(); err != nil {
				p.setErr(fmt.Errorf("write batch: %w", err))
				return
			}
		}
	}

	if err := flush(); err != nil {
		p.setErr(fmt.Errorf("write batch: %w", err))
	}
}

func (p *Pipeline) prepare(product *models.PlatformProduct) *models.PlatformProduct {
	if err := platform.ValidateProduct(product); err != nil {
		p.metrics.addValidation("invalid_record")
		return nil
	}

	p.seenMu.Lock()
	if _, ok := p.seen[product.URL]; ok {
		p.seenMu.Unlock()
		p.metrics.addValidation("duplicate_url")
		return nil
	}
	p.seen[product.URL] = struct{}{}
	p.seenMu.Unlock()

	if product.ScrapedAt.IsZero() {
		product.ScrapedAt = time.Now().UTC()
	}

	p.metrics.incrementProcessed()
	return product
}

func (p *Pipeline) enqueue(product *models.PlatformProduct) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrPipelineClosed
		}
	}()

	select {
	case <-p.shutdown:
		return ErrPipelineClosed
	case p.productCh <- product:
		return nil
	}
}

func (p *Pipeline) setErr(err error) {
	if err == nil {
		return
	}

	p.mu.Lock()
	if p.err != nil {
		p.mu.Unlock()
		return
	}
	p.err = err
	p.closed = true
	p.mu.Unlock()

	p.signalShutdown()
	p.closeOnce.Do(func() {
		close(p.productCh)
	})
}

func (p *Pipeline) state() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed, p.err
}

func (p *Pipeline) signalShutdown() {
	p.shutdownOnce.Do(func() {
		close(p.shutdown)
	})
}

type metrics struct {
	mu         sync.Mutex
	processed  int64
	validation map[string]int
}

func newMetrics() metrics {
	return metrics{
		validation: make(map[string]int),
	}
}

func (m *metrics) incrementProcessed() {
	m.mu.Lock()
	m.processed++
	m.mu.Unlock()
}

func (m *metrics) addValidation(kind string) {
	m.mu.Lock()
	m.validation[kind]++
	m.mu.Unlock()
}

func (m *metrics) snapshot() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	copyValidation := make(map[string]int, len(m.validation))
	for k, v := range m.validation {
		copyValidation[k] = v
	}

	return map[string]interface{}{
		"processed_products": m.processed,
		"validation_errors":  copyValidation,
	}
}
