// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/curioquest/internal/httputil"
	"github.com/pdiddy/curioquest/pkg/types"
)

// arxivAPIBase is the arXiv search endpoint. Declared as a var so tests
// can substitute an httptest server.
var arxivAPIBase = "http://export.arxiv.org/api/query"

// ArxivSource queries the arXiv API by keyword.
type ArxivSource struct {
	Client *http.Client
	Config types.SearchConfig
}

// Name returns the source identifier.
func (s *ArxivSource) Name() string { return "arxiv" }

// Search sends the keyword as an all-fields query and parses the Atom feed.
// The keyword is forwarded as-is, even when empty. At most DefaultMaxResults
// records are returned whatever the config asks for. A non-200 response yields
// the single sentinel record and a nil error; transport and decoding failures
// are returned as errors.
func (s *ArxivSource) Search(ctx context.Context, keyword string) ([]types.PaperRecord, error) {
	maxResults := s.Config.MaxResults
	if maxResults <= 0 || maxResults > DefaultMaxResults {
		maxResults = DefaultMaxResults
	}

	base := s.Config.BaseURL
	if base == "" {
		base = arxivAPIBase
	}

	params := url.Values{}
	params.Set("search_query", "all:"+keyword)
	params.Set("start", "0")
	params.Set("max_results", strconv.Itoa(maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if s.Config.UserAgent != "" {
		req.Header.Set("User-Agent", s.Config.UserAgent)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, s.Config.MaxRetries)
	if err != nil {
		return nil, fmt.Errorf("arXiv API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return []types.PaperRecord{types.ErrorRecord()}, nil
	}

	var feed arxivFeed
	if err := xml.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("parsing arXiv response: %w", err)
	}

	records := make([]types.PaperRecord, 0, len(feed.Entries))
	for _, entry := range feed.Entries {
		if len(records) == maxResults {
			break
		}
		records = append(records, entry.record())
	}
	return records, nil
}

// arXiv Atom feed XML structures.
type arxivFeed struct {
	Entries []arxivEntry `xml:"entry"`
}

type arxivEntry struct {
	ID        string        `xml:"id"`
	Title     string        `xml:"title"`
	Summary   string        `xml:"summary"`
	Published string        `xml:"published"`
	Authors   []arxivAuthor `xml:"author"`
	Links     []arxivLink   `xml:"link"`
}

type arxivAuthor struct {
	Name string `xml:"name"`
}

type arxivLink struct {
	Href  string `xml:"href,attr"`
	Rel   string `xml:"rel,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

// record converts a feed entry to a PaperRecord.
func (e arxivEntry) record() types.PaperRecord {
	r := types.PaperRecord{
		Identifier: extractArxivID(e.ID),
		Title:      strings.TrimSpace(e.Title),
		Abstract:   strings.TrimSpace(e.Summary),
		PDFURL:     e.pdfURL(),
		Published:  strings.TrimSpace(e.Published),
	}
	for _, a := range e.Authors {
		r.Authors = append(r.Authors, strings.TrimSpace(a.Name))
	}
	r.Citation = FormatCitation(r.Authors, r.Title, r.Published)
	return r
}

// pdfURL returns the href of the link titled "pdf". Entries without one
// fall back to the /pdf/ form of the entry id.
func (e arxivEntry) pdfURL() string {
	for _, l := range e.Links {
		if l.Title == "pdf" {
			return l.Href
		}
	}
	if strings.Contains(e.ID, "/abs/") {
		return strings.Replace(strings.TrimSpace(e.ID), "/abs/", "/pdf/", 1)
	}
	return ""
}

// FormatCitation builds "<authors joined by ", ">. '<title>'. <published>.".
func FormatCitation(authors []string, title, published string) string {
	return fmt.Sprintf("%s. '%s'. %s.", strings.Join(authors, ", "), title, published)
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := strings.TrimSpace(idURL[idx+len(prefix):])

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}
