// Package enrich runs an optional, best-effort language-model pass that
// rewrites page titles and descriptions and surfaces extra questions for a
// generated llms.txt. It never fails the request: any provider problem
// returns the input unchanged.
package enrich

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"time"

	"github.com/jonesrussell/llmsgen/internal/domain"
	"github.com/jonesrussell/llmsgen/internal/logger"
	"github.com/jonesrussell/llmsgen/internal/survey"
	"github.com/jonesrussell/llmsgen/internal/template"
)

// Caps and limits on the enrichment pass.
const (
	// DefaultTimeout bounds the single chat-completion request.
	DefaultTimeout = 12 * time.Second

	maxCandidates        = 18
	maxNewQuestions      = 4
	maxTotalQuestions    = 8
	maxTitleLength       = 80
	maxDescriptionLength = 160
	maxSummaryLength     = 300
)

// Page scoring weights.
const (
	priorityScore     = 100
	optionalScore     = 20
	keywordScore      = 4
	maxShallownessWin = 3

	minQuestionToken = 4
)

// sectionKeywords are common site-section terms used for keyword scoring.
var sectionKeywords = []string{
	"pricing", "docs", "documentation", "blog", "about", "contact",
	"faq", "features", "support", "guide", "api", "help",
	"product", "service", "tutorial", "news",
}

const systemInstruction = `You improve llms.txt manifests for websites. ` +
	`Respond with strict JSON only, no prose, matching this shape: ` +
	`{"questions": ["..."], "pages": [{"url": "...", "title": "...", "description": "..."}]}. ` +
	`Provide at most 4 questions a visitor would ask about the site. ` +
	`For each page, rewrite the title and description to be clear and factual. ` +
	`Descriptions must be at most 160 characters.`

// Result is the outcome of an enrichment pass. Used reports whether the
// language model actually contributed.
type Result struct {
	Pages     []domain.PageItem
	Questions []string
	Used      bool
}

// Service runs the enrichment pass.
type Service struct {
	client  ChatClient
	timeout time.Duration
	log     logger.Logger
}

// NewService creates an enrichment service. A nil client disables the pass.
func NewService(client ChatClient, timeout time.Duration, log logger.Logger) *Service {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	return &Service{client: client, timeout: timeout, log: log}
}

// EnrichPagesAndQuestions scores the pages, asks the language model for
// rewrites and extra questions, and merges the response. On any failure the
// original pages and parsed survey questions are returned with Used=false.
func (s *Service) EnrichPagesAndQuestions(
	ctx context.Context,
	in domain.SurveyInput,
	pages []domain.PageItem,
) Result {
	questions := survey.ParseList(in.Questions)
	unchanged := Result{Pages: pages, Questions: questions, Used: false}

	if s.client == nil || len(pages) == 0 {
		return unchanged
	}

	candidates := scorePages(in, pages)
	payload, err := buildPayload(in, candidates)
	if err != nil {
		return unchanged
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.client.Complete(ctx, systemInstruction, payload)
	if err != nil {
		s.log.Debug("Enrichment call failed, keeping original content",
			logger.Error(err),
		)
		return unchanged
	}

	resp, ok := parseResponse(raw)
	if !ok {
		s.log.Debug("Enrichment response was not parseable JSON")
		return unchanged
	}

	merged, mergedQuestions := merge(pages, candidates, questions, resp)
	return Result{Pages: merged, Questions: mergedQuestions, Used: true}
}

type scoredPage struct {
	page  domain.PageItem
	score int
}

// scorePages ranks pages by how much an enrichment rewrite would matter:
// priority pages first, then optional pages, then keyword and shallow-path
// matches. Ties keep original order. The result is capped at maxCandidates.
func scorePages(in domain.SurveyInput, pages []domain.PageItem) []domain.PageItem {
	base := strings.TrimRight(strings.TrimSpace(in.SiteURL), "/")

	prioritySet := normalizedSet(base, survey.ParseList(in.PriorityPages))
	optionalSet := normalizedSet(base, survey.ParseList(in.OptionalPages))
	keywords := buildKeywords(in)

	scored := make([]scoredPage, 0, len(pages))
	for _, p := range pages {
		scored = append(scored, scoredPage{page: p, score: score(p, prioritySet, optionalSet, keywords)})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	n := len(scored)
	if n > maxCandidates {
		n = maxCandidates
	}

	out := make([]domain.PageItem, 0, n)
	for _, sp := range scored[:n] {
		out = append(out, sp.page)
	}
	return out
}

func score(p domain.PageItem, priority, optional map[string]struct{}, keywords []string) int {
	total := 0
	normalized := template.NormalizeURL(p.URL)

	if _, ok := priority[normalized]; ok {
		total += priorityScore
	}
	if _, ok := optional[normalized]; ok {
		total += optionalScore
	}

	haystack := strings.ToLower(p.Title + " " + p.Description + " " + p.URL)
	for _, kw := range keywords {
		if strings.Contains(haystack, kw) {
			total += keywordScore
		}
	}

	total += shallownessBonus(p.URL)
	return total
}

// shallownessBonus favors pages close to the site root.
func shallownessBonus(rawURL string) int {
	path := rawURL
	if i := strings.Index(rawURL, "://"); i >= 0 {
		rest := rawURL[i+3:]
		if j := strings.Index(rest, "/"); j >= 0 {
			path = rest[j:]
		} else {
			path = ""
		}
	}

	depth := 0
	for _, seg := range strings.Split(path, "/") {
		if strings.TrimSpace(seg) != "" {
			depth++
		}
	}

	bonus := maxShallownessWin - depth
	if bonus < 0 {
		return 0
	}
	return bonus
}

func normalizedSet(base string, entries []string) map[string]struct{} {
	set := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		if resolved := template.ResolveURL(base, e); resolved != "" {
			set[template.NormalizeURL(resolved)] = struct{}{}
		}
	}
	return set
}

// buildKeywords combines category names, significant question tokens and the
// fixed section keyword list, lower-cased and deduplicated.
func buildKeywords(in domain.SurveyInput) []string {
	seen := make(map[string]struct{})
	keywords := make([]string, 0, len(sectionKeywords)+8)

	add := func(kw string) {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			return
		}
		if _, dup := seen[kw]; dup {
			return
		}
		seen[kw] = struct{}{}
		keywords = append(keywords, kw)
	}

	for _, c := range survey.ParseList(in.Categories) {
		add(c)
	}
	for _, q := range survey.ParseList(in.Questions) {
		for _, token := range strings.Fields(q) {
			token = strings.Trim(token, "?!.,;:")
			if len(token) >= minQuestionToken {
				add(token)
			}
		}
	}
	for _, kw := range sectionKeywords {
		add(kw)
	}

	return keywords
}

type payloadSite struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Type    string `json:"type"`
	Summary string `json:"summary"`
}

type payloadPage struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type payload struct {
	Site  payloadSite   `json:"site"`
	Pages []payloadPage `json:"pages"`
}

// buildPayload serializes the compact request the model sees: site metadata
// plus capped candidate titles and descriptions.
func buildPayload(in domain.SurveyInput, candidates []domain.PageItem) (string, error) {
	p := payload{
		Site: payloadSite{
			Name:    in.SiteName,
			URL:     in.SiteURL,
			Type:    string(in.SiteType),
			Summary: truncate(in.Summary, maxSummaryLength),
		},
		Pages: make([]payloadPage, 0, len(candidates)),
	}

	for _, c := range candidates {
		p.Pages = append(p.Pages, payloadPage{
			URL:         c.URL,
			Title:       truncate(c.Title, maxTitleLength),
			Description: truncate(c.Description, maxDescriptionLength),
		})
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

type enrichmentResponse struct {
	Questions []string `json:"questions"`
	Pages     []struct {
		URL         string `json:"url"`
		Title       string `json:"title"`
		Description string `json:"description"`
	} `json:"pages"`
}

// parseResponse attempts a direct JSON parse, then a best-effort parse of
// the brace-delimited substring for models that wrap JSON in prose.
func parseResponse(raw string) (enrichmentResponse, bool) {
	var resp enrichmentResponse
	if err := json.Unmarshal([]byte(raw), &resp); err == nil {
		return resp, true
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return enrichmentResponse{}, false
	}
	if err := json.Unmarshal([]byte(raw[start:end+1]), &resp); err != nil {
		return enrichmentResponse{}, false
	}
	return resp, true
}

// merge applies page rewrites to pages whose normalized URL matches a
// candidate, overwriting only with non-empty strings, and merges new
// questions with punctuation-insensitive de-duplication.
func merge(
	pages []domain.PageItem,
	candidates []domain.PageItem,
	questions []string,
	resp enrichmentResponse,
) ([]domain.PageItem, []string) {
	candidateSet := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		candidateSet[template.NormalizeURL(c.URL)] = struct{}{}
	}

	updates := make(map[string]payloadPage, len(resp.Pages))
	for _, u := range resp.Pages {
		key := template.NormalizeURL(u.URL)
		if _, ok := candidateSet[key]; ok {
			updates[key] = payloadPage{Title: u.Title, Description: u.Description}
		}
	}

	merged := make([]domain.PageItem, len(pages))
	for i, p := range pages {
		merged[i] = p
		u, ok := updates[template.NormalizeURL(p.URL)]
		if !ok {
			continue
		}
		if title := strings.TrimSpace(u.Title); title != "" {
			merged[i].Title = truncate(title, maxTitleLength)
		}
		if desc := strings.TrimSpace(u.Description); desc != "" {
			merged[i].Description = truncate(desc, maxDescriptionLength)
		}
	}

	return merged, mergeQuestions(questions, resp.Questions)
}

func mergeQuestions(existing, incoming []string) []string {
	seen := make(map[string]struct{}, len(existing))
	out := make([]string, 0, len(existing)+maxNewQuestions)

	for _, q := range existing {
		if key := questionKey(q); key != "" {
			seen[key] = struct{}{}
			out = append(out, q)
		}
	}

	added := 0
	for _, q := range incoming {
		if added >= maxNewQuestions || len(out) >= maxTotalQuestions {
			break
		}
		key := questionKey(q)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(q))
		added++
	}

	if len(out) > maxTotalQuestions {
		out = out[:maxTotalQuestions]
	}
	return out
}

// questionKey lower-cases a question and strips everything but letters and
// digits, so "How much?" and "how much" collapse to one entry.
func questionKey(q string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(q) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
