package meta

import (
	"bytes"
	"context"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/imroc/req/v3"
	"go.uber.org/zap"
)

const (
	pageTimeout    = 5 * time.Second
	faviconTimeout = 2 * time.Second
	userAgent      = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
)

// SiteInfo is the display hint shown next to a link in listings.
type SiteInfo struct {
	Title   string `json:"title"`
	Favicon string `json:"favicon"`
}

// Fetcher looks up a page's title and favicon, best-effort. It always
// returns a usable SiteInfo; network trouble degrades to the hostname and
// the conventional /favicon.ico location.
type Fetcher struct {
	client *req.Client
	log    *zap.Logger
}

func NewFetcher(log *zap.Logger) *Fetcher {
	return &Fetcher{
		client: req.C().
			SetTimeout(pageTimeout).
			SetUserAgent(userAgent).
			SetRedirectPolicy(req.MaxRedirectPolicy(5)),
		log: log,
	}
}

// Fetch returns the title and favicon for rawURL. The whole call is
// bounded by the page and favicon timeouts; it never blocks a listing.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) SiteInfo {
	base, err := url.Parse(rawURL)
	if err != nil || base.Host == "" {
		return SiteInfo{Title: "Invalid URL"}
	}

	info := fallbackInfo(base)

	resp, err := f.client.R().SetContext(ctx).Get(rawURL)
	if err != nil || resp.IsErrorState() {
		f.log.Info("site-info fetch failed", zap.String("url", rawURL), zap.Error(err))
		info.Favicon = f.checkFavicon(ctx, info.Favicon)
		return info
	}
	// req reads the body eagerly; parse from the buffered bytes.
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Bytes()))
	if err != nil {
		info.Favicon = f.checkFavicon(ctx, info.Favicon)
		return info
	}

	if title := pageTitle(doc); title != "" {
		info.Title = title
	}
	if href := faviconHref(doc); href != "" {
		if resolved, err := base.Parse(href); err == nil {
			info.Favicon = resolved.String()
		}
	}
	info.Favicon = f.checkFavicon(ctx, info.Favicon)
	return info
}

func fallbackInfo(base *url.URL) SiteInfo {
	fav := *base
	fav.Path = "/favicon.ico"
	fav.RawQuery = ""
	fav.Fragment = ""
	return SiteInfo{Title: base.Hostname(), Favicon: fav.String()}
}

func pageTitle(doc *goquery.Document) string {
	if title := doc.Find("title").First().Text(); title != "" {
		return title
	}
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		return og
	}
	return ""
}

func faviconHref(doc *goquery.Document) string {
	for _, sel := range []string{
		`link[rel="shortcut icon"]`,
		`link[rel="icon"]`,
		`link[rel="apple-touch-icon"]`,
	} {
		if href, ok := doc.Find(sel).First().Attr("href"); ok && href != "" {
			return href
		}
	}
	return ""
}

// checkFavicon verifies the favicon actually exists; a dead icon URL is
// worse for the UI than no icon at all.
func (f *Fetcher) checkFavicon(ctx context.Context, favicon string) string {
	if favicon == "" {
		return ""
	}
	headCtx, cancel := context.WithTimeout(ctx, faviconTimeout)
	defer cancel()
	resp, err := f.client.R().SetContext(headCtx).Head(favicon)
	if err != nil || resp.IsErrorState() {
		return ""
	}
	return favicon
}
