package catalog

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonathan/commute-coach/internal/fetch"
	"github.com/jonathan/commute-coach/internal/types"
)

// IndexSource scrapes a curated course-index page into candidates.
//
// Expected markup, one entry per video:
//
//	<li class="video" data-id="v1" data-duration="300" data-level="beginner"
//	    data-source="chan1" data-tags="python,basics">
//	  <a href="https://...">Intro to Python</a>
//	</li>
type IndexSource struct {
	indexURL   string
	fetcher    *fetch.CachedFetcher
	useBrowser bool // render JS-built indexes in a headless browser
	verbose    bool
}

// NewIndexSource creates a source over a curated index page.
func NewIndexSource(indexURL string, fetcher *fetch.CachedFetcher, useBrowser bool) *IndexSource {
	if fetcher == nil {
		fetcher = fetch.NewCachedFetcher(nil)
	}
	return &IndexSource{indexURL: indexURL, fetcher: fetcher, useBrowser: useBrowser}
}

// Name implements Source.
func (s *IndexSource) Name() string { return "index:" + s.indexURL }

// Fetch implements Source. Entries that do not carry the topic tag are
// dropped here to keep the pool small; level is exact metadata on the index,
// but filtering on it remains the builder's job, so the hint is ignored.
func (s *IndexSource) Fetch(ctx context.Context, topic string, _ types.Level) ([]types.Candidate, error) {
	result, err := s.fetcher.Fetch(ctx, s.indexURL)
	if err != nil {
		return nil, &Error{Source: s.Name(), Message: "fetch failed", Cause: err}
	}

	candidates, err := ParseIndexHTML(result.HTML)
	if err != nil {
		return nil, &Error{Source: s.Name(), Message: "parse failed", Cause: err}
	}

	// A JS-rendered index serves an empty shell over plain HTTP.
	if len(candidates) == 0 && s.useBrowser {
		html, err := fetch.BrowserSimple(ctx, s.indexURL, s.verbose)
		if err != nil {
			return nil, &Error{Source: s.Name(), Message: "browser render failed", Cause: err}
		}
		candidates, err = ParseIndexHTML(html)
		if err != nil {
			return nil, &Error{Source: s.Name(), Message: "parse failed", Cause: err}
		}
	}

	topicNorm := types.NormalizeTag(topic)
	matched := candidates[:0]
	for _, c := range candidates {
		if c.HasTopic(topicNorm) {
			matched = append(matched, c)
		}
	}
	return matched, nil
}

// ParseIndexHTML extracts candidate entries from course-index markup.
// Entries missing an id or a positive integer duration are skipped.
func ParseIndexHTML(html string) ([]types.Candidate, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var candidates []types.Candidate
	doc.Find(".video[data-id]").Each(func(_ int, sel *goquery.Selection) {
		id := strings.TrimSpace(sel.AttrOr("data-id", ""))
		if id == "" {
			return
		}

		durationSec := 0
		for _, r := range sel.AttrOr("data-duration", "") {
			if r < '0' || r > '9' {
				durationSec = 0
				break
			}
			durationSec = durationSec*10 + int(r-'0')
		}
		if durationSec <= 0 {
			return
		}

		var tags []string
		for _, tag := range strings.Split(sel.AttrOr("data-tags", ""), ",") {
			if norm := types.NormalizeTag(tag); norm != "" {
				tags = append(tags, norm)
			}
		}

		level, _ := types.ParseLevel(sel.AttrOr("data-level", ""))

		link := sel.Find("a").First()
		candidates = append(candidates, types.Candidate{
			ID:          id,
			Title:       strings.TrimSpace(link.Text()),
			DurationSec: durationSec,
			TopicTags:   tags,
			Level:       level,
			SourceID:    strings.TrimSpace(sel.AttrOr("data-source", "")),
			URL:         link.AttrOr("href", ""),
		})
	})

	return candidates, nil
}
