package jiomart

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	rodstealth "github.com/go-rod/stealth"
	"github.com/lukman83/martdash/internal/models"
	"github.com/lukman83/martdash/internal/platform"
)

// searchInPage runs the autoSearch POST from inside the loaded search page,
// so the site's own cookies and bot checks apply.
const searchInPage = `(endpoint, body) => fetch(endpoint, {
	method: "POST",
	headers: {"Content-Type": "application/json", "Accept": "*/*"},
	credentials: "include",
	body: body,
}).then(r => {
	if (!r.ok) { throw new Error("status " + r.status); }
	return r.text();
})`

// HeadlessStrategy drives a real browser through go-rod.
type HeadlessStrategy struct {
	browserBin string
	identity   Identity
	timeout    time.Duration
}

// NewHeadlessStrategy returns a strategy using the browser at bin, or the
// one rod downloads when bin is empty.
func NewHeadlessStrategy(bin string, identity Identity) *HeadlessStrategy {
	return &HeadlessStrategy{browserBin: bin, identity: identity, timeout: 30 * time.Second}
}

func (h *HeadlessStrategy) Name() string { return "headless" }

func (h *HeadlessStrategy) Search(ctx context.Context, query string, opts platform.SearchOpts) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	page, cleanup, err := h.openPage(ctx, baseURL+"/search?q="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}
	defer cleanup()

	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("wait search page: %w", err)
	}

	body, err := json.Marshal(BuildSearchPayload(query, opts.Limit, h.identity.VisitorID, h.identity.UserID))
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}
	res, err := page.Eval(searchInPage, searchEndpoint, string(body))
	if err != nil {
		return nil, fmt.Errorf("in-page search: %w", err)
	}
	return parseSearchResponse([]byte(res.Value.Str()))
}

func (h *HeadlessStrategy) openPage(ctx context.Context, pageURL string) (*rod.Page, func(), error) {
	l := launcher.New().Headless(true).Logger(io.Discard)
	if h.browserBin != "" {
		l = l.Bin(h.browserBin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return nil, nil, fmt.Errorf("launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, nil, fmt.Errorf("connect browser: %w", err)
	}

	cleanup := func() {
		browser.Close()
		l.Cleanup()
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("open page: %w", err)
	}
	if _, err := page.EvalOnNewDocument(rodstealth.JS); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("apply stealth script: %w", err)
	}
	if err := page.Navigate(pageURL); err != nil {
		cleanup()
		return nil, nil, fmt.Errorf("navigate %s: %w", pageURL, err)
	}
	return page, cleanup, nil
}
