package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/google/uuid"
	json "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svgscope-cli/internal/config"
)

// closeWaitTimeout bounds how long Close waits for the tab to confirm
// termination before giving up.
const closeWaitTimeout = 10 * time.Second

// Session is a single isolated browser tab hosting one document. All CDP
// traffic goes through RunActions, which ties every call to both the session
// lifetime and the caller's context.
type Session struct {
	id     string
	cfg    *config.Config
	logger *zap.Logger

	// allocatorCtx is the context of the owning browser process. The session
	// context is derived from it.
	allocatorCtx context.Context

	sessionCtx    context.Context
	sessionCancel context.CancelFunc

	onClose  func()
	isClosed bool
	mu       sync.Mutex
}

// newSession creates the session structure. Initialize must be called next.
func newSession(allocCtx context.Context, cfg *config.Config, logger *zap.Logger) *Session {
	id := uuid.New().String()
	return &Session{
		id:           id,
		cfg:          cfg,
		logger:       logger.With(zap.String("session_id", id[:8])),
		allocatorCtx: allocCtx,
	}
}

// Initialize creates the browser tab, applies viewport emulation, and
// installs the animation freeze so declarative animations cannot move
// geometry between measurement passes.
func (s *Session) Initialize(ctx context.Context) error {
	s.mu.Lock()
	if s.sessionCtx != nil {
		s.mu.Unlock()
		return fmt.Errorf("session already initialized")
	}

	var opts []chromedp.ContextOption
	if s.cfg.Browser.Debug {
		opts = append(opts, chromedp.WithDebugf(s.logger.Sugar().Debugf))
	}
	sessionCtx, cancel := chromedp.NewContext(s.allocatorCtx, opts...)
	s.sessionCtx = sessionCtx
	s.sessionCancel = cancel
	s.mu.Unlock()

	vp := s.cfg.Browser.Viewport
	err := s.RunActions(ctx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			return emulation.SetDeviceMetricsOverride(int64(vp.Width), int64(vp.Height), 1.0, false).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(jsFreezeAnimations).Do(ctx)
			return err
		}),
	)
	if err != nil {
		s.Close(ctx)
		return fmt.Errorf("failed to prepare session tab: %w", err)
	}

	s.logger.Debug("Browser session initialized.")
	return nil
}

// ID returns the unique identifier for this session.
func (s *Session) ID() string {
	return s.id
}

// Navigate loads a URL and waits for the document to become ready. The ready
// wait targets :root rather than body, because standalone SVG documents have
// no body element.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating.", zap.String("url", url))

	navCtx := ctx
	if s.cfg.Browser.NavigationTimeout > 0 {
		var cancel context.CancelFunc
		navCtx, cancel = context.WithTimeout(ctx, s.cfg.Browser.NavigationTimeout)
		defer cancel()
	}

	err := s.RunActions(navCtx,
		chromedp.ActionFunc(func(ctx context.Context) error {
			if s.cfg.Browser.DisableCache {
				return network.SetCacheDisabled(true).Do(ctx)
			}
			return nil
		}),
		chromedp.Navigate(url),
		chromedp.WaitReady(":root", chromedp.ByQuery),
		// Let late layout work (font swaps, async decoding) settle.
		chromedp.Sleep(s.cfg.Browser.PostLoadWait),
	)
	if err != nil {
		if navCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return fmt.Errorf("navigation to %s timed out after %v: %w", url, s.cfg.Browser.NavigationTimeout, navCtx.Err())
		}
		return fmt.Errorf("navigating to %s: %w", url, err)
	}
	return nil
}

// Evaluate runs a JavaScript expression in the document and returns its
// JSON-encoded result. Promises are awaited and the value is returned by
// value, never as a remote object reference.
func (s *Session) Evaluate(ctx context.Context, script string) (json.RawMessage, error) {
	opCtx := ctx
	if s.cfg.Browser.OperationTimeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(ctx, s.cfg.Browser.OperationTimeout)
		defer cancel()
	}

	var res json.RawMessage
	err := s.RunActions(opCtx,
		chromedp.Evaluate(script, &res, func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithReturnByValue(true).WithAwaitPromise(true).WithSilent(true)
		}),
	)
	if err != nil {
		if opCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, fmt.Errorf("evaluation timed out after %v: %w", s.cfg.Browser.OperationTimeout, opCtx.Err())
		}
		return nil, err
	}
	return res, nil
}

// CaptureScreenshot captures the visible viewport as a PNG.
func (s *Session) CaptureScreenshot(ctx context.Context) ([]byte, error) {
	var buf []byte
	err := s.RunActions(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		var err error
		buf, err = page.CaptureScreenshot().WithFormat(page.CaptureScreenshotFormatPng).Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("capturing screenshot: %w", err)
	}
	return buf, nil
}

// RunActions executes chromedp actions against this session's tab, honoring
// both the session lifetime and the caller's context.
func (s *Session) RunActions(ctx context.Context, actions ...chromedp.Action) error {
	s.mu.Lock()
	if s.isClosed || s.sessionCtx == nil {
		s.mu.Unlock()
		return fmt.Errorf("session is closed")
	}
	sessionCtx := s.sessionCtx
	s.mu.Unlock()

	runCtx, cancel := combineContext(sessionCtx, ctx)
	defer cancel()

	return chromedp.Run(runCtx, actions...)
}

// Close terminates the tab and waits for it to confirm. Safe to call more
// than once.
func (s *Session) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.isClosed {
		s.mu.Unlock()
		return nil
	}
	s.isClosed = true
	sessionCancel := s.sessionCancel
	sessionCtx := s.sessionCtx
	onClose := s.onClose
	s.mu.Unlock()

	if onClose != nil {
		defer onClose()
	}

	if sessionCancel != nil {
		sessionCancel()
	}
	if sessionCtx == nil {
		return nil
	}

	waitCtx, cancelWait := context.WithTimeout(ctx, closeWaitTimeout)
	defer cancelWait()

	select {
	case <-sessionCtx.Done():
		s.logger.Debug("Browser session closed.")
	case <-waitCtx.Done():
		s.logger.Warn("Deadline exceeded waiting for browser session to close.", zap.Error(waitCtx.Err()))
	}

	return nil
}

// combineContext derives a context from parent that is additionally canceled
// when secondary is done. The parent must be the session context so chromedp
// target values survive; the secondary carries the caller's deadline.
func combineContext(parent, secondary context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(parent)

	go func() {
		select {
		case <-secondary.Done():
			cancel()
		case <-combined.Done():
		}
	}()

	return combined, cancel
}
