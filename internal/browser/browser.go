// Package browser renders live pages in headless Chrome so their forms can
// be analyzed after scripts have run.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"go.uber.org/zap"
)

// DefaultTimeout bounds one page load
const DefaultTimeout = 30 * time.Second

// idleWait is how long the network must stay quiet before the DOM is read
const idleWait = 500 * time.Millisecond

// Options configures the headless browser
type Options struct {
	Timeout    time.Duration
	ProfileDir string // Chrome profile for pages behind a login
	Logger     *zap.Logger
}

// Snapshot loads url and returns the rendered document markup
func Snapshot(ctx context.Context, url string, opts Options) (string, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	path, _ := launcher.LookPath()
	l := launcher.New().Context(ctx).Bin(path).Headless(true)
	if opts.ProfileDir != "" {
		l = l.UserDataDir(opts.ProfileDir)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return "", fmt.Errorf("failed to launch browser: %w", err)
	}
	defer l.Cleanup()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return "", fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer func() { _ = browser.Close() }()

	logger.Debug("Loading page", zap.String("url", url))
	page, err := browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", fmt.Errorf("failed to load %s: %w", url, err)
	}

	// Persistent connections never go idle; a short bounded wait is enough
	page.Timeout(5*time.Second).WaitRequestIdle(idleWait, nil, nil, nil)()

	markup, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("failed to read page HTML: %w", err)
	}
	logger.Debug("Captured page", zap.String("url", url), zap.Int("bytes", len(markup)))
	return markup, nil
}
