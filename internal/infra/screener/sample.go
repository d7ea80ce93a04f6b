package screener

import (
	"context"
	"strings"

	"github.com/yanqian/announcement-relay/internal/domain/announcement"
)

// sampleHTML is a trimmed snapshot of the announcements page.
const sampleHTML = `
<div>
  <div class="card card-medium">
    <div class="sub margin-bottom-16">Today</div>
      <div class="bordered rounded padding-12-18 announcement-item margin-top-12">
        <div class="flex flex-gap-16">
          <img class="img-32" src="https://cdn-static.screener.in/icons/announcement.0a7339d57d0a.svg" alt="press release">
          <div class="flex flex-column">
            <a href="/company/MAHSCOOTER/" class="font-weight-500 font-size-14 sub-link" target="_blank">
              <span class="ink-900 hover-link">Mah. Scooters</span>
              <i class="icon-link-ext"></i>
            </a>
            <a href="https://www.bseindia.com/stockinfo/AnnPdfOpen.aspx?Pname=0b1f42b4-9fae-4035-af80-0ebf86322ba5.pdf" target="_blank" rel="noopener noreferrer">
              Intimation Under Regulation 42 Of The SEBI (LODR) Regulations, 2015 - Record Date
              <i class="icon-file-pdf font-size-14"></i>
              <span class="ink-600 smaller">25m ago</span>
              <div class="sub">Interim dividend Rs160 per share; record date 22 Sep 2025; payout ~13 Oct 2025; Company Secretary appointed 1 Oct.</div>
            </a>
          </div>
        </div>
      </div>
      <div class="bordered rounded padding-12-18 announcement-item margin-top-12">
        <div class="flex flex-gap-16">
          <img class="img-32" src="https://cdn-static.screener.in/icons/announcement.0a7339d57d0a.svg" alt="press release">
          <div class="flex flex-column">
            <a href="/company/TCS/consolidated/" class="font-weight-500 font-size-14 sub-link" target="_blank">
              <span class="ink-900 hover-link">TCS</span>
              <i class="icon-link-ext"></i>
            </a>
            <a href="https://www.bseindia.com/stockinfo/AnnPdfOpen.aspx?Pname=030da518-31d8-4310-9aa8-64d1212a352f.pdf" target="_blank" rel="noopener noreferrer">
              Press Release - The Warehouse Group Selects TCS To Lead Strategic IT Transformation Initiatives
              <i class="icon-file-pdf font-size-14"></i>
              <span class="ink-600 smaller">48m ago</span>
              <div class="sub">TCS to modernise TWG's IT; partnership estimated to cut licenses/managed services costs by up to $40 million over five years.</div>
            </a>
          </div>
        </div>
      </div>
  </div>
</div>
`

// SampleSource serves the embedded snapshot. Document text comes from the
// listing's inline summary so the flow never leaves the process.
type SampleSource struct {
	baseURL string
}

// NewSampleSource builds the offline source.
func NewSampleSource(baseURL string) *SampleSource {
	return &SampleSource{baseURL: strings.TrimRight(baseURL, "/")}
}

// Latest parses the embedded snapshot.
func (s *SampleSource) Latest(ctx context.Context) (announcement.Listing, error) {
	if err := ctx.Err(); err != nil {
		return announcement.Listing{}, err
	}
	listing, ok, err := ExtractLatest(strings.NewReader(sampleHTML), s.baseURL)
	if err != nil {
		return announcement.Listing{}, err
	}
	if !ok {
		return announcement.Listing{}, ErrNoAnnouncement
	}
	return listing, nil
}

// DocumentText joins the listing title and its inline summary.
func (s *SampleSource) DocumentText(_ context.Context, listing announcement.Listing) (string, error) {
	parts := make([]string, 0, 2)
	for _, part := range []string{listing.Title, listing.Description} {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, "\n\n"), nil
}

var _ announcement.Source = (*SampleSource)(nil)
