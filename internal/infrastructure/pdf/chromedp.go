package pdf

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/facturio/backend/internal/application/billing"
	"github.com/facturio/backend/internal/application/notification"
	"github.com/facturio/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultRenderTimeout = 30 * time.Second

	// A4 in inches, the only paper size we print.
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 0.4
)

// ChromedpRenderer prints documents to PDF through the Chrome DevTools
// Protocol. The document is laid out as HTML in-process and handed to a
// headless Chrome page, so no frontend needs to be running.
type ChromedpRenderer struct {
	engine      *TemplateEngine
	timeout     time.Duration
	allocCtx    context.Context
	allocCancel context.CancelFunc
	logger      *zap.Logger
}

// NewChromedpRenderer creates a renderer that launches a headless
// Chrome instance on demand.
func NewChromedpRenderer(cfg config.PDFConfig, logger *zap.Logger) (*ChromedpRenderer, error) {
	engine, err := NewTemplateEngine()
	if err != nil {
		return nil, err
	}

	timeout := cfg.RenderTimeout
	if timeout <= 0 {
		timeout = defaultRenderTimeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &ChromedpRenderer{
		engine:      engine,
		timeout:     timeout,
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		logger:      logger,
	}, nil
}

// Close releases the Chrome allocator.
func (r *ChromedpRenderer) Close() {
	if r.allocCancel != nil {
		r.allocCancel()
	}
}

// RenderDocument lays out the document snapshot and prints it to an A4 PDF.
func (r *ChromedpRenderer) RenderDocument(ctx context.Context, ref billing.DocumentRef) ([]byte, error) {
	if ref.Printable == nil {
		return nil, fmt.Errorf("document %s has no printable snapshot", ref.Number)
	}

	html, err := r.engine.RenderHTML(ref.Printable)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx)
	defer browserCancel()

	start := time.Now()
	var pdfData []byte

	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidthInches).
				WithPaperHeight(paperHeightInches).
				WithMarginTop(marginInches).
				WithMarginRight(marginInches).
				WithMarginBottom(marginInches).
				WithMarginLeft(marginInches).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("pdf rendering timed out after %v for %s", r.timeout, ref.Number)
		}
		return nil, fmt.Errorf("pdf rendering failed for %s: %w", ref.Number, err)
	}
	if len(pdfData) == 0 {
		return nil, fmt.Errorf("generated pdf is empty for %s", ref.Number)
	}

	r.logger.Debug("document rendered",
		zap.String("number", ref.Number),
		zap.Int("bytes", len(pdfData)),
		zap.Duration("duration", time.Since(start)),
	)
	return pdfData, nil
}

var _ notification.PDFRenderer = (*ChromedpRenderer)(nil)
