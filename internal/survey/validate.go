package survey

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/jonesrussell/llmsgen/internal/domain"
)

// Bounds on parsed survey fields.
const (
	MinSummaryLength = 20
	MinPriorityPages = 3
	MaxPriorityPages = 8
)

// Validate checks the survey input and returns a ValidationError carrying a
// field→message map, or nil when the input is acceptable.
func Validate(in domain.SurveyInput) *domain.ValidationError {
	fields := map[string]string{}

	if !validHTTPURL(in.SiteURL) {
		fields["siteUrl"] = "must be a valid http or https URL"
	}

	if len(strings.TrimSpace(in.Summary)) < MinSummaryLength {
		fields["summary"] = fmt.Sprintf("must be at least %d characters", MinSummaryLength)
	}

	if n := len(ParseList(in.PriorityPages)); n < MinPriorityPages || n > MaxPriorityPages {
		fields["priorityPages"] = fmt.Sprintf(
			"must list between %d and %d pages, got %d",
			MinPriorityPages, MaxPriorityPages, n,
		)
	}

	if in.SiteType != "" && !domain.ValidSiteType(in.SiteType) {
		fields["siteType"] = "unknown site type"
	}

	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: fields}
}

func validHTTPURL(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
