package pdf

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"golang.org/x/sync/semaphore"
)

// Letter paper, 20px margins. Chrome's print API takes inches; 96 CSS pixels
// per inch.
const (
	paperWidthIn  = 8.5
	paperHeightIn = 11.0
	marginIn      = 20.0 / 96.0
)

// ChromeConfig holds tuning parameters for the Chrome renderer. Zero values
// fall back to defaults.
type ChromeConfig struct {
	// Workers caps concurrent print jobs so a burst of requests cannot spawn
	// an unbounded number of Chrome tabs. Default: 4.
	Workers int

	// Timeout is the hard per-render deadline. Default: 60s.
	Timeout time.Duration
}

// Chrome is the chromedp-backed Renderer. One headless browser process is
// shared across renders; each render runs in its own tab.
type Chrome struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	sem         *semaphore.Weighted
	timeout     time.Duration
	logger      *slog.Logger
}

// NewChrome starts the shared browser allocator. Call Close when the process
// shuts down.
func NewChrome(cfg ChromeConfig, logger *slog.Logger) *Chrome {
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Chrome{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		sem:         semaphore.NewWeighted(int64(cfg.Workers)),
		timeout:     cfg.Timeout,
		logger:      logger,
	}
}

// Close tears down the shared browser allocator.
func (c *Chrome) Close() {
	c.allocCancel()
}

// Render prints the document to a PDF buffer. A single attempt: deadline
// overruns surface as ErrTimeout, any other Chrome failure is wrapped with
// the originating error text.
func (c *Chrome) Render(ctx context.Context, html string) ([]byte, error) {
	if err := c.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("pdf: acquire render slot: %w", err)
	}
	defer c.sem.Release(1)

	renderCtx, cancel := context.WithTimeout(c.allocCtx, c.timeout)
	defer cancel()

	tabCtx, tabCancel := chromedp.NewContext(renderCtx)
	defer tabCancel()

	start := time.Now()
	var buf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPaperWidth(paperWidthIn).
				WithPaperHeight(paperHeightIn).
				WithMarginTop(marginIn).
				WithMarginBottom(marginIn).
				WithMarginLeft(marginIn).
				WithMarginRight(marginIn).
				WithPrintBackground(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, ErrTimeout
		}
		return nil, fmt.Errorf("pdf: print: %w", err)
	}

	c.logger.Debug("pdf: generated",
		"bytes", len(buf),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return buf, nil
}
