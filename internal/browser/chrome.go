package browser

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
)

// Options configure a Chrome session.
type Options struct {
	Headless  bool
	UserAgent string
	// Timeout bounds every individual session step.
	Timeout time.Duration
	// Settle is the extra wait after navigation so client-side script
	// can render the page.
	Settle time.Duration
}

// Chrome implements Session on a headless Chrome tab via chromedp.
type Chrome struct {
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	timeout       time.Duration
	settle        time.Duration
}

// NewChrome launches the browser. The returned session must be closed
// by the caller; ctx cancellation also tears the browser down.
func NewChrome(ctx context.Context, opts Options) (*Chrome, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.WindowSize(1920, 1080),
	)
	if !opts.Headless {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	// Start the browser process now so a missing or broken Chrome
	// install fails here instead of on the first navigation.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("starting chrome: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &Chrome{
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
		timeout:       timeout,
		settle:        opts.Settle,
	}, nil
}

// step runs actions against the tab under the per-step timeout, tied to
// the caller's ctx as well.
func (c *Chrome) step(ctx context.Context, actions ...chromedp.Action) error {
	runCtx, cancel := context.WithTimeout(c.browserCtx, c.timeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()
	return chromedp.Run(runCtx, actions...)
}

// isXPath reports whether a selector should be matched as an XPath
// expression rather than a CSS query.
func isXPath(selector string) bool {
	return strings.HasPrefix(selector, "//") || strings.HasPrefix(selector, "(")
}

func queryOpt(selector string) chromedp.QueryOption {
	if isXPath(selector) {
		return chromedp.BySearch
	}
	return chromedp.ByQuery
}

func (c *Chrome) Navigate(ctx context.Context, url string) error {
	tasks := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	}
	if c.settle > 0 {
		tasks = append(tasks, chromedp.Sleep(c.settle))
	}
	if err := c.step(ctx, tasks...); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (c *Chrome) Location(ctx context.Context) (string, error) {
	var loc string
	if err := c.step(ctx, chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("reading location: %w", err)
	}
	return loc, nil
}

func (c *Chrome) Title(ctx context.Context) (string, error) {
	var title string
	if err := c.step(ctx, chromedp.Title(&title)); err != nil {
		return "", fmt.Errorf("reading title: %w", err)
	}
	return title, nil
}

func (c *Chrome) PageSource(ctx context.Context) (string, error) {
	var html string
	if err := c.step(ctx, chromedp.OuterHTML("html", &html)); err != nil {
		return "", fmt.Errorf("reading page source: %w", err)
	}
	return html, nil
}

func (c *Chrome) WaitVisible(ctx context.Context, selector string) error {
	if err := c.step(ctx, chromedp.WaitVisible(selector, queryOpt(selector))); err != nil {
		return fmt.Errorf("wait visible %s: %w", selector, err)
	}
	return nil
}

// WaitHidden polls the document instead of using chromedp's node-based
// waits, which never fire for elements the page removes entirely.
func (c *Chrome) WaitHidden(ctx context.Context, selector string) error {
	expr := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el) return true;
		const cs = window.getComputedStyle(el);
		return cs.display === 'none' || cs.visibility === 'hidden' || el.offsetWidth === 0;
	})()`, selector)

	var hidden bool
	err := c.step(ctx, chromedp.Poll(expr, &hidden,
		chromedp.WithPollingInterval(200*time.Millisecond)))
	if err != nil {
		return fmt.Errorf("wait hidden %s: %w", selector, err)
	}
	return nil
}

func (c *Chrome) Present(ctx context.Context, selector string) (bool, error) {
	var expr string
	if isXPath(selector) {
		expr = fmt.Sprintf(
			`document.evaluate(%q, document, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue !== null`,
			selector)
	} else {
		expr = fmt.Sprintf(`document.querySelector(%q) !== null`, selector)
	}

	var present bool
	if err := c.step(ctx, chromedp.Evaluate(expr, &present)); err != nil {
		return false, fmt.Errorf("checking %s: %w", selector, err)
	}
	return present, nil
}

func (c *Chrome) Click(ctx context.Context, selector string) error {
	if err := c.step(ctx, chromedp.Click(selector, queryOpt(selector), chromedp.NodeVisible)); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

func (c *Chrome) SendKeys(ctx context.Context, selector, value string) error {
	err := c.step(ctx,
		chromedp.Clear(selector, queryOpt(selector)),
		chromedp.SendKeys(selector, value, queryOpt(selector)),
	)
	if err != nil {
		return fmt.Errorf("typing into %s: %w", selector, err)
	}
	return nil
}

func (c *Chrome) ElementsHTML(ctx context.Context, selector string) ([]string, error) {
	js := fmt.Sprintf(
		`(() => Array.from(document.querySelectorAll(%q)).map(el => el.outerHTML))()`,
		selector)

	var out []string
	if err := c.step(ctx, chromedp.Evaluate(js, &out)); err != nil {
		return nil, fmt.Errorf("collecting %s elements: %w", selector, err)
	}
	return out, nil
}

// FrameElementsHTML reads through frame boundaries with contentDocument,
// which only works for same-origin frames. Cross-origin frames are
// silently skipped.
func (c *Chrome) FrameElementsHTML(ctx context.Context, frameSelector, selector string) ([]string, error) {
	js := fmt.Sprintf(`(() => {
		const out = [];
		document.querySelectorAll(%q).forEach(frame => {
			let doc = null;
			try { doc = frame.contentDocument; } catch (e) { return; }
			if (!doc) return;
			doc.querySelectorAll(%q).forEach(el => out.push(el.outerHTML));
		});
		return out;
	})()`, frameSelector, selector)

	var out []string
	if err := c.step(ctx, chromedp.Evaluate(js, &out)); err != nil {
		return nil, fmt.Errorf("collecting frame %s elements: %w", selector, err)
	}
	return out, nil
}

func (c *Chrome) Screenshot(ctx context.Context) ([]byte, error) {
	var shot []byte
	if err := c.step(ctx, chromedp.CaptureScreenshot(&shot)); err != nil {
		return nil, fmt.Errorf("capturing screenshot: %w", err)
	}
	return shot, nil
}

func (c *Chrome) Settle(ctx context.Context) error {
	if c.settle <= 0 {
		return nil
	}
	return c.step(ctx, chromedp.Sleep(c.settle))
}

func (c *Chrome) Close() error {
	c.browserCancel()
	c.allocCancel()
	return nil
}
