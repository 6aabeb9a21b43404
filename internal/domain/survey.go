package domain

// SiteType classifies the surveyed website. The example-link table in the
// template package is keyed by these values.
type SiteType string

// Supported site types.
const (
	SiteTypeDocs      SiteType = "docs"
	SiteTypeEcommerce SiteType = "ecommerce"
	SiteTypeSaaS      SiteType = "saas"
	SiteTypeBlog      SiteType = "blog"
	SiteTypeNews      SiteType = "news"
	SiteTypePortfolio SiteType = "portfolio"
	SiteTypeLocal     SiteType = "local"
	SiteTypeOther     SiteType = "other"
)

// SiteTypes lists every supported site type.
func SiteTypes() []SiteType {
	return []SiteType{
		SiteTypeDocs, SiteTypeEcommerce, SiteTypeSaaS, SiteTypeBlog,
		SiteTypeNews, SiteTypePortfolio, SiteTypeLocal, SiteTypeOther,
	}
}

// ValidSiteType reports whether t is one of the supported site types.
func ValidSiteType(t SiteType) bool {
	for _, s := range SiteTypes() {
		if s == t {
			return true
		}
	}
	return false
}

// SurveyInput is the raw survey answer set submitted by the site owner.
// List-valued fields are free text split on commas and newlines.
type SurveyInput struct {
	SiteName      string   `json:"siteName"`
	SiteURL       string   `json:"siteUrl"`
	Summary       string   `json:"summary"`
	Categories    string   `json:"categories"`
	SiteType      SiteType `json:"siteType"`
	Excludes      string   `json:"excludes"`
	PriorityPages string   `json:"priorityPages"`
	OptionalPages string   `json:"optionalPages"`
	Questions     string   `json:"questions"`
}

// PageItem is a single discovered or synthesized page entry.
type PageItem struct {
	Section     string `json:"section"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// PreviewSlices partitions generated content into a freely visible portion
// and a masked locked portion. Derived from Run.Content, never persisted.
type PreviewSlices struct {
	Visible string `json:"visible"`
	Locked  string `json:"locked"`
}
