package screener

import (
	"fmt"
	"io"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/yanqian/announcement-relay/internal/domain/announcement"
)

const unknownCompany = "Unknown Company"

var (
	pdfPattern     = regexp.MustCompile(`(?i)\.pdf(?:[#?].*)?$`)
	companyPattern = regexp.MustCompile(`/company/([^/]+)/?`)
)

// ExtractLatest finds the first company link immediately followed by a PDF
// link. Announcements are listed newest first, so that pair is the latest.
func ExtractLatest(r io.Reader, baseURL string) (announcement.Listing, bool, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return announcement.Listing{}, false, fmt.Errorf("create document from reader: %w", err)
	}

	anchors := doc.Find("a[href]")
	hrefs := make([]string, anchors.Length())
	anchors.Each(func(i int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		hrefs[i] = strings.TrimSpace(href)
	})

	for i := 0; i+1 < len(hrefs); i++ {
		if !strings.Contains(hrefs[i], "/company") || !pdfPattern.MatchString(hrefs[i+1]) {
			continue
		}
		pdfAnchor := anchors.Eq(i + 1)
		description := collapse(pdfAnchor.Find("div.sub").Text())
		title := collapse(pdfAnchor.Clone().Children().Remove().End().Text())
		return announcement.Listing{
			Company:     CompanyName(hrefs[i]),
			CompanyURL:  absoluteURL(baseURL, hrefs[i]),
			DocumentURL: absoluteURL(baseURL, hrefs[i+1]),
			Title:       title,
			Description: description,
		}, true, nil
	}
	return announcement.Listing{}, false, nil
}

// CompanyName returns the screener slug of a company URL.
func CompanyName(companyURL string) string {
	match := companyPattern.FindStringSubmatch(companyURL)
	if len(match) < 2 || match[1] == "" {
		return unknownCompany
	}
	return match[1]
}

func absoluteURL(baseURL, ref string) string {
	parsed, err := url.Parse(ref)
	if err != nil || parsed.IsAbs() {
		return ref
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return ref
	}
	return base.ResolveReference(parsed).String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
