// Package template renders survey answers and discovered pages into an
// llms.txt Markdown document. Build is pure and deterministic, so the same
// survey always yields the same text.
package template

import (
	"strings"

	"github.com/jonesrussell/llmsgen/internal/domain"
	"github.com/jonesrussell/llmsgen/internal/survey"
)

// Caps on emitted blocks.
const (
	maxPagesPerSection = 6
	maxOptionalLinks   = 6
	maxQuestions       = 6
)

// Fallbacks for empty survey fields.
const (
	defaultBaseURL  = "https://example.com"
	fallbackTitle   = "Untitled Site"
	fallbackSummary = "A website providing information and services for its visitors."
)

// Sections returns the parsed category list, falling back to a generic
// three-section set when the survey lists no categories.
func Sections(categories string) []string {
	if sections := survey.ParseList(categories); len(sections) > 0 {
		return sections
	}
	return []string{"Docs", "Guides", "Resources"}
}

// priorityDescription annotates entries synthesized from the owner's
// priority page list.
const priorityDescription = "Key page highlighted by the site owner."

// optionalDescription annotates entries in the trailing Optional block.
const optionalDescription = "Supplementary page."

// Build renders the llms.txt document for the given survey input and any
// discovered pages. Pages may be nil; the builder then synthesizes entries
// from the priority list or, failing that, from the site-type example table.
func Build(in domain.SurveyInput, pages []domain.PageItem) string {
	title := strings.TrimSpace(in.SiteName)
	if title == "" {
		title = fallbackTitle
	}

	summary := strings.TrimSpace(in.Summary)
	if summary == "" {
		summary = fallbackSummary
	}

	base := strings.TrimRight(strings.TrimSpace(in.SiteURL), "/")
	if base == "" {
		base = defaultBaseURL
	}

	sections := Sections(in.Categories)

	priority := resolveList(base, survey.ParseList(in.PriorityPages), nil)
	prioritySet := make(map[string]struct{}, len(priority))
	for _, u := range priority {
		prioritySet[NormalizeURL(u)] = struct{}{}
	}
	optional := resolveList(base, survey.ParseList(in.OptionalPages), prioritySet)

	questions := survey.ParseList(in.Questions)

	var b strings.Builder
	b.WriteString("# " + title + "\n\n")
	b.WriteString("> " + summary + "\n")

	writeQuestions(&b, questions)

	entries := combineEntries(pages, priority)
	if len(entries) > 0 {
		grouped := groupBySection(entries, sections, priority)
		for i, section := range sections {
			writeSection(&b, section, grouped[i])
		}
	} else {
		writeExampleSections(&b, sections, in.SiteType, base)
	}

	writeOptional(&b, optional)

	return b.String()
}

// resolveList resolves raw page entries against the base URL and drops
// duplicates. Entries whose normalized form already appears in seen are
// skipped; seen may be nil.
func resolveList(base string, raw []string, seen map[string]struct{}) []string {
	if seen == nil {
		seen = make(map[string]struct{}, len(raw))
	}

	out := make([]string, 0, len(raw))
	for _, entry := range raw {
		resolved := ResolveURL(base, entry)
		if resolved == "" {
			continue
		}
		key := NormalizeURL(resolved)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, resolved)
	}
	return out
}

// combineEntries merges discovered pages with entries synthesized from the
// priority list, skipping priority URLs already covered by a discovered page.
func combineEntries(pages []domain.PageItem, priority []string) []domain.PageItem {
	entries := make([]domain.PageItem, 0, len(pages)+len(priority))
	covered := make(map[string]struct{}, len(pages))

	for _, p := range pages {
		entries = append(entries, p)
		covered[NormalizeURL(p.URL)] = struct{}{}
	}

	for _, u := range priority {
		if _, ok := covered[NormalizeURL(u)]; ok {
			continue
		}
		entries = append(entries, domain.PageItem{
			Title:       TitleFromURL(u),
			URL:         u,
			Description: priorityDescription,
		})
	}
	return entries
}

// groupBySection assigns each entry to a section index and orders each
// section's entries priority-first, capped at maxPagesPerSection.
func groupBySection(entries []domain.PageItem, sections []string, priority []string) map[int][]domain.PageItem {
	rank := make(map[string]int, len(priority))
	for i, u := range priority {
		rank[NormalizeURL(u)] = i
	}

	buckets := make(map[int][]domain.PageItem, len(sections))
	for _, e := range entries {
		i := sectionIndex(e, sections)
		buckets[i] = append(buckets[i], e)
	}

	for i, bucket := range buckets {
		buckets[i] = orderSection(bucket, rank)
	}
	return buckets
}

// sectionIndex picks the section an entry belongs to: an explicit section
// name match wins, then a URL substring match on the section slug, then the
// first section.
func sectionIndex(e domain.PageItem, sections []string) int {
	for i, s := range sections {
		if e.Section != "" && strings.EqualFold(e.Section, s) {
			return i
		}
	}
	normalized := NormalizeURL(e.URL)
	for i, s := range sections {
		slug := Slugify(s)
		if slug != "" && strings.Contains(normalized, slug) {
			return i
		}
	}
	return 0
}

// orderSection places priority entries first, in priority-list order, then
// the rest in their original order, capped at maxPagesPerSection.
func orderSection(bucket []domain.PageItem, rank map[string]int) []domain.PageItem {
	ordered := make([]domain.PageItem, 0, len(bucket))
	for want := 0; want < len(rank); want++ {
		for _, e := range bucket {
			if r, ok := rank[NormalizeURL(e.URL)]; ok && r == want {
				ordered = append(ordered, e)
			}
		}
	}
	for _, e := range bucket {
		if _, ok := rank[NormalizeURL(e.URL)]; !ok {
			ordered = append(ordered, e)
		}
	}

	if len(ordered) > maxPagesPerSection {
		ordered = ordered[:maxPagesPerSection]
	}
	return ordered
}

func writeQuestions(b *strings.Builder, questions []string) {
	if len(questions) == 0 {
		return
	}
	if len(questions) > maxQuestions {
		questions = questions[:maxQuestions]
	}

	b.WriteString("\nKey questions:\n")
	for _, q := range questions {
		q = strings.TrimRight(strings.TrimSpace(q), ".!?")
		if q == "" {
			continue
		}
		b.WriteString("- " + q + "?\n")
	}
}

func writeSection(b *strings.Builder, name string, entries []domain.PageItem) {
	b.WriteString("\n## " + name + "\n")
	for _, e := range entries {
		writeEntry(b, e)
	}
}

// writeExampleSections fills every section with two example links from the
// site-type table, cycling through the table by section index.
func writeExampleSections(b *strings.Builder, sections []string, siteType domain.SiteType, base string) {
	links := ExamplesFor(siteType)
	for i, section := range sections {
		b.WriteString("\n## " + section + "\n")
		for j := 0; j < examplesPerSection; j++ {
			link := links[(i+j)%len(links)]
			writeEntry(b, domain.PageItem{
				Title:       link.Title,
				URL:         base + link.Path,
				Description: link.Description,
			})
		}
	}
}

func writeOptional(b *strings.Builder, optional []string) {
	if len(optional) == 0 {
		return
	}
	if len(optional) > maxOptionalLinks {
		optional = optional[:maxOptionalLinks]
	}

	b.WriteString("\n## Optional\n")
	for _, u := range optional {
		writeEntry(b, domain.PageItem{
			Title:       TitleFromURL(u),
			URL:         u,
			Description: optionalDescription,
		})
	}
}

func writeEntry(b *strings.Builder, e domain.PageItem) {
	title := strings.TrimSpace(e.Title)
	if title == "" {
		title = TitleFromURL(e.URL)
	}

	b.WriteString("- [" + title + "](" + e.URL + ")")
	if desc := strings.TrimSpace(e.Description); desc != "" {
		b.WriteString(": " + desc)
	}
	b.WriteString("\n")
}
