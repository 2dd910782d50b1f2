package export

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

const mmPerInch = 25.4

// BrowserEngine prints the HTML page through headless Chrome.
type BrowserEngine struct {
	html     *HTMLRenderer
	execPath string
	timeout  time.Duration
}

// NewBrowserEngine builds a chromedp engine. An empty execPath lets chromedp
// locate Chrome on PATH.
func NewBrowserEngine(html *HTMLRenderer, execPath string, timeout time.Duration) *BrowserEngine {
	if html == nil {
		html = NewHTMLRenderer()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &BrowserEngine{html: html, execPath: execPath, timeout: timeout}
}

// Name identifies the engine in logs.
func (e *BrowserEngine) Name() string { return "browser" }

// RenderPDF loads the fragment into a fresh browser and prints it. Each call
// owns its allocator so concurrent exports never share a tab.
func (e *BrowserEngine) RenderPDF(ctx context.Context, doc *Document, fragment string) ([]byte, error) {
	title := ""
	if doc != nil {
		title = doc.Title
	}
	if fragment == "" {
		if doc == nil {
			return nil, fmt.Errorf("document is nil")
		}
		rendered, err := e.html.RenderFragment(doc)
		if err != nil {
			return nil, err
		}
		fragment = rendered
	}
	shell, err := e.html.RenderPage(title, fragment)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
	)
	if e.execPath != "" {
		opts = append(opts, chromedp.ExecPath(e.execPath))
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var out []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return fmt.Errorf("get frame tree: %w", err)
			}
			return page.SetDocumentContent(tree.Frame.ID, shell).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(PageWidthMM / mmPerInch).
				WithPaperHeight(PageHeightMM / mmPerInch).
				WithMarginTop(MarginTopMM / mmPerInch).
				WithMarginBottom(MarginBottomMM / mmPerInch).
				WithMarginLeft(MarginSideMM / mmPerInch).
				WithMarginRight(MarginSideMM / mmPerInch).
				Do(ctx)
			if err != nil {
				return fmt.Errorf("print to pdf: %w", err)
			}
			out = data
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("browser returned an empty pdf")
	}
	return out, nil
}
