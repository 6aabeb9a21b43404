package template

import "github.com/jonesrussell/llmsgen/internal/domain"

// ExampleLink is one synthesized entry from the per-site-type example table.
// Path is resolved against the site's base URL at build time.
type ExampleLink struct {
	Path        string
	Title       string
	Description string
}

// examplesPerSection is how many example links are synthesized for each
// section when no real pages are available.
const examplesPerSection = 2

// exampleTable maps each site type to three example link templates. Sections
// cycle through the three entries by section index.
var exampleTable = map[domain.SiteType][3]ExampleLink{
	domain.SiteTypeDocs: {
		{Path: "/docs", Title: "Documentation", Description: "Product documentation and reference material."},
		{Path: "/docs/getting-started", Title: "Getting Started", Description: "First steps for new users."},
		{Path: "/api", Title: "API Reference", Description: "Endpoints, parameters and response formats."},
	},
	domain.SiteTypeEcommerce: {
		{Path: "/products", Title: "Products", Description: "Browse the full product catalog."},
		{Path: "/shipping", Title: "Shipping", Description: "Delivery options, costs and timelines."},
		{Path: "/returns", Title: "Returns", Description: "Return policy and refund process."},
	},
	domain.SiteTypeSaaS: {
		{Path: "/pricing", Title: "Pricing", Description: "Plans, tiers and billing details."},
		{Path: "/features", Title: "Features", Description: "What the product does and how it helps."},
		{Path: "/docs", Title: "Documentation", Description: "Setup guides and integration docs."},
	},
	domain.SiteTypeBlog: {
		{Path: "/blog", Title: "Blog", Description: "Latest articles and updates."},
		{Path: "/about", Title: "About", Description: "Who writes here and why."},
		{Path: "/archive", Title: "Archive", Description: "All posts organized by date."},
	},
	domain.SiteTypeNews: {
		{Path: "/latest", Title: "Latest News", Description: "Most recent stories and coverage."},
		{Path: "/topics", Title: "Topics", Description: "Coverage organized by subject."},
		{Path: "/about", Title: "About", Description: "Editorial mission and contact details."},
	},
	domain.SiteTypePortfolio: {
		{Path: "/work", Title: "Work", Description: "Selected projects and case studies."},
		{Path: "/about", Title: "About", Description: "Background, skills and experience."},
		{Path: "/contact", Title: "Contact", Description: "How to get in touch."},
	},
	domain.SiteTypeLocal: {
		{Path: "/services", Title: "Services", Description: "What we offer and service areas."},
		{Path: "/contact", Title: "Contact", Description: "Address, phone and opening hours."},
		{Path: "/reviews", Title: "Reviews", Description: "What customers say about us."},
	},
	domain.SiteTypeOther: {
		{Path: "/about", Title: "About", Description: "What this site is about."},
		{Path: "/contact", Title: "Contact", Description: "How to reach the site owners."},
		{Path: "/faq", Title: "FAQ", Description: "Answers to common questions."},
	},
}

// ExamplesFor returns the example link templates for a site type, falling
// back to the generic set for unknown types.
func ExamplesFor(t domain.SiteType) [3]ExampleLink {
	if links, ok := exampleTable[t]; ok {
		return links
	}
	return exampleTable[domain.SiteTypeOther]
}
