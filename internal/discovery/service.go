// Package discovery produces the page list behind a generated llms.txt,
// either from a live crawl provider or from a deterministic stub. Provider
// failures never propagate: the stub path is the silent fallback.
package discovery

import (
	"context"
	"strings"

	"github.com/jonesrussell/llmsgen/internal/domain"
	"github.com/jonesrussell/llmsgen/internal/logger"
	"github.com/jonesrussell/llmsgen/internal/survey"
	"github.com/jonesrussell/llmsgen/internal/template"
)

// Generation modes reported to the caller for UI transparency. The mode
// never changes the output shape.
const (
	ModeStub = "stub"
	ModeLive = "live"
)

const (
	// defaultPageLimit is the page-count ceiling sent to the crawl provider.
	defaultPageLimit = 20

	// Description derivation bounds.
	maxDescriptionLength = 160
	minDescriptionLine   = 20

	fallbackDescription = "Summary not available."
)

// Result is the outcome of one generation pass.
type Result struct {
	Content string
	Pages   []domain.PageItem
	Mode    string
}

// Service orchestrates page discovery and template building.
type Service struct {
	crawler Crawler
	useStub bool
	log     logger.Logger
}

// NewService creates a discovery service. A nil crawler or useStub=true
// forces the deterministic stub path.
func NewService(crawler Crawler, useStub bool, log logger.Logger) *Service {
	return &Service{crawler: crawler, useStub: useStub, log: log}
}

// Generate produces llms.txt content for the survey input. The live crawl
// path is attempted when a provider is configured; any provider failure
// falls back to the stub transparently.
func (s *Service) Generate(ctx context.Context, in domain.SurveyInput) Result {
	if s.useStub || s.crawler == nil {
		return s.stub(in)
	}

	crawled, err := s.crawler.Crawl(ctx, in.SiteURL, defaultPageLimit)
	if err != nil {
		s.log.Warn("Crawl provider failed, falling back to stub",
			logger.String("site_url", in.SiteURL),
			logger.Error(err),
		)
		return s.stub(in)
	}

	pages := s.mapPages(in, crawled)
	if len(pages) == 0 {
		return s.stub(in)
	}

	return Result{
		Content: template.Build(in, pages),
		Pages:   pages,
		Mode:    ModeLive,
	}
}

// stub synthesizes two deterministic example pages per section from the
// site-type example table and builds the template without any network call.
func (s *Service) stub(in domain.SurveyInput) Result {
	pages := StubPages(in)
	return Result{
		Content: template.Build(in, pages),
		Pages:   pages,
		Mode:    ModeStub,
	}
}

// StubPages generates the deterministic fallback page set for a survey.
func StubPages(in domain.SurveyInput) []domain.PageItem {
	base := strings.TrimRight(strings.TrimSpace(in.SiteURL), "/")
	sections := template.Sections(in.Categories)
	links := template.ExamplesFor(in.SiteType)

	pages := make([]domain.PageItem, 0, len(sections)*2)
	for i, section := range sections {
		for j := 0; j < 2; j++ {
			link := links[(i+j)%len(links)]
			pages = append(pages, domain.PageItem{
				Section:     section,
				Title:       link.Title,
				URL:         base + link.Path,
				Description: link.Description,
			})
		}
	}
	return pages
}

// mapPages converts crawled pages into template entries: excluded URLs are
// dropped, sections assigned by category-slug substring match and
// descriptions derived from metadata or markdown content.
func (s *Service) mapPages(in domain.SurveyInput, crawled []CrawledPage) []domain.PageItem {
	excludes := survey.ParseList(in.Excludes)
	sections := template.Sections(in.Categories)

	pages := make([]domain.PageItem, 0, len(crawled))
	for _, c := range crawled {
		url := strings.TrimSpace(c.URL)
		if url == "" || excluded(url, excludes) {
			continue
		}

		title := strings.TrimSpace(c.Title)
		if title == "" {
			title = template.TitleFromURL(url)
		}

		pages = append(pages, domain.PageItem{
			Section:     assignSection(url, sections),
			Title:       title,
			URL:         url,
			Description: deriveDescription(c),
		})
	}
	return pages
}

func excluded(url string, excludes []string) bool {
	lowered := strings.ToLower(url)
	for _, e := range excludes {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" && strings.Contains(lowered, e) {
			return true
		}
	}
	return false
}

// assignSection matches the URL against each category slug, defaulting to
// the first category.
func assignSection(url string, sections []string) string {
	normalized := template.NormalizeURL(url)
	for _, s := range sections {
		if slug := template.Slugify(s); slug != "" && strings.Contains(normalized, slug) {
			return s
		}
	}
	return sections[0]
}

// deriveDescription prefers the provider's metadata description, then the
// first substantive markdown line, then a fixed fallback.
func deriveDescription(c CrawledPage) string {
	if desc := strings.TrimSpace(c.Description); desc != "" {
		return Truncate(desc, maxDescriptionLength)
	}

	for _, line := range strings.Split(c.Markdown, "\n") {
		line = strings.TrimSpace(line)
		if len(line) < minDescriptionLine {
			continue
		}
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "```") {
			continue
		}
		return Truncate(line, maxDescriptionLength)
	}

	return fallbackDescription
}

// Truncate cuts s to at most max runes, appending an ellipsis when cut.
func Truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
