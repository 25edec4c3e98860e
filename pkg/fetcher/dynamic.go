package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/soccer-rosters/internal/logger"
)

// DynamicFetcher renders pages in headless Chrome via chromedp. It serves
// roster pages that build their player list with JavaScript.
type DynamicFetcher struct {
	config    Config
	allocCtx  context.Context
	cancelCtx context.CancelFunc
}

// NewDynamic creates a dynamic fetcher with a browser allocator. Chrome is
// started lazily on the first fetch.
func NewDynamic(cfg Config) (*DynamicFetcher, error) {
	cfg = cfg.withDefaults()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	logger.Debug("dynamic fetcher browser allocator created", "user_agent", cfg.UserAgent, "timeout", cfg.Timeout)

	return &DynamicFetcher{
		config:    cfg,
		allocCtx:  allocCtx,
		cancelCtx: cancelAlloc,
	}, nil
}

// Fetch renders a page and returns its outer HTML.
func (f *DynamicFetcher) Fetch(ctx context.Context, targetURL string, opts Options) (Content, error) {
	logger.Debug("dynamic fetch starting", "url", targetURL)

	result := Content{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	browserCtx, cancelBrowser := chromedp.NewContext(f.allocCtx)
	defer cancelBrowser()

	// Stop rendering when the caller gives up.
	stop := context.AfterFunc(ctx, cancelBrowser)
	defer stop()

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = f.config.Timeout
	}
	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	waitSelector := coalesce(opts.WaitForSelector, "body")
	actions := []chromedp.Action{
		chromedp.Navigate(targetURL),
		chromedp.WaitVisible(waitSelector),
	}
	if opts.WaitDuration > 0 {
		actions = append(actions, chromedp.Sleep(opts.WaitDuration))
	}

	var html, title string
	actions = append(actions,
		chromedp.OuterHTML("html", &html),
		chromedp.Title(&title),
	)

	if err := chromedp.Run(timeoutCtx, actions...); err != nil {
		logger.Debug("dynamic fetch browser automation failed", "url", targetURL, "error", err)
		return result, fmt.Errorf("browser automation failed: %w", err)
	}

	result.HTML = html
	result.Title = title
	result.StatusCode = 200 // chromedp doesn't easily expose status codes
	result.ContentType = "text/html"

	logger.Debug("dynamic fetch complete", "url", targetURL, "size", humanize.Bytes(uint64(len(html))))
	return result, nil
}

// Close releases browser resources.
func (f *DynamicFetcher) Close() error {
	if f.cancelCtx != nil {
		f.cancelCtx()
	}
	return nil
}

// Type returns the fetcher type.
func (f *DynamicFetcher) Type() string {
	return "dynamic"
}
