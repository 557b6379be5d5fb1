package capture

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// A4 paper in inches, the unit Chromium's printToPDF expects.
const (
	DefaultPaperWidth  = 8.27
	DefaultPaperHeight = 11.69
	DefaultTimeoutSec  = 30
)

// ReadySelector is the element a printable page exposes once its data is
// rendered.
const ReadySelector = `[data-ready="true"]`

// PDFOptions defines parameters for rendering one page into PDF.
type PDFOptions struct {
	// URL to render, e.g. "http://127.0.0.1:8080/quotes/detail/7?print=1".
	URL string

	// Headers are sent with every request the page makes, e.g. an
	// Authorization header when the UI is behind basic auth.
	Headers map[string]string

	// Paper size in inches. If zero, A4 is used.
	PaperWidth  float64
	PaperHeight float64

	// Timeout bounds the entire render. If zero, DefaultTimeoutSec is used.
	Timeout time.Duration
}

func (o *PDFOptions) normalize() error {
	if o.URL == "" {
		return errors.New("capture: URL is required")
	}
	u, err := url.Parse(o.URL)
	if err != nil {
		return fmt.Errorf("capture: parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("capture: unsupported URL scheme %q", u.Scheme)
	}
	if o.PaperWidth <= 0 {
		o.PaperWidth = DefaultPaperWidth
	}
	if o.PaperHeight <= 0 {
		o.PaperHeight = DefaultPaperHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}
	return nil
}

// Renderer turns a served page into a PDF document.
type Renderer interface {
	RenderPDF(ctx context.Context, opts PDFOptions) ([]byte, error)
}

// Chromium renders through a headless Chromium driven by chromedp.
type Chromium struct {
	// ExecPath overrides the browser binary; empty means chromedp's lookup.
	ExecPath string
}

// RenderPDF launches a headless browser, navigates to opts.URL, waits until
// ReadySelector is visible and prints the page with backgrounds.
func (c *Chromium) RenderPDF(parentCtx context.Context, opts PDFOptions) ([]byte, error) {
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	allocOpts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if c.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.ExecPath))
	}
	allocCtx, allocCancel := chromedp.NewExecAllocator(parentCtx, allocOpts...)
	defer allocCancel()

	ctx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var pdf []byte
	tasks := chromedp.Tasks{network.Enable()}
	if len(opts.Headers) > 0 {
		headers := make(network.Headers, len(opts.Headers))
		for k, v := range opts.Headers {
			headers[k] = v
		}
		tasks = append(tasks, network.SetExtraHTTPHeaders(headers))
	}
	tasks = append(tasks,
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(ReadySelector, chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(opts.PaperWidth).
				WithPaperHeight(opts.PaperHeight).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)

	if err := chromedp.Run(ctx, tasks); err != nil {
		return nil, fmt.Errorf("capture: chromedp run failed: %w", err)
	}
	if len(pdf) == 0 {
		return nil, errors.New("capture: empty PDF")
	}
	return pdf, nil
}
