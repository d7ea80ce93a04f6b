package announcement

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"
)

func TestFormatMessageFullListing(t *testing.T) {
	listing := Listing{
		Company:     "TCS",
		CompanyURL:  "https://www.screener.in/company/TCS/",
		DocumentURL: "https://example.com/a.pdf",
	}
	got := FormatMessage(listing, " summary body ", "*Powered by FinVarta AI*", 0)
	want := "Company: TCS\nhttps://www.screener.in/company/TCS/\n\nDocument: https://example.com/a.pdf\n\nsummary body\n---\n*Powered by FinVarta AI*"
	require.Equal(t, want, got)
}

func TestFormatMessageOmitsEmptyFields(t *testing.T) {
	require.Equal(t, "just the summary", FormatMessage(Listing{}, "just the summary", "", 0))
	require.Equal(t, "Company: INFY\n\nbody\n---\nfooter", FormatMessage(Listing{Company: "INFY"}, "body", "footer", 0))
}

func TestFormatMessageRespectsMaxLength(t *testing.T) {
	listing := Listing{Company: "TCS", DocumentURL: "https://example.com/a.pdf"}
	summary := strings.Repeat("word ", 100)

	got := FormatMessage(listing, summary, "footer", 120)
	require.LessOrEqual(t, utf8.RuneCountInString(got), 120)
	require.True(t, strings.HasPrefix(got, "Company: TCS\n\nDocument: https://example.com/a.pdf\n\nword"))
	require.True(t, strings.HasSuffix(got, "...\n---\nfooter"))
}

func TestFormatMessageCapsOversizedHeader(t *testing.T) {
	listing := Listing{
		Company:     "MAHSCOOTER",
		CompanyURL:  "https://www.screener.in/company/MAHSCOOTER/",
		DocumentURL: "https://www.bseindia.com/xml-data/corpfiling/AttachLive/" + strings.Repeat("a1b2c3d4", 10) + ".pdf",
	}
	summary := strings.Repeat("s", 400)

	got := FormatMessage(listing, summary, "*Powered by FinVarta AI*", 120)
	require.Equal(t, 120, utf8.RuneCountInString(got))
	require.True(t, strings.HasPrefix(got, "Company: MAHSCOOTER\n"))
	require.True(t, strings.HasSuffix(got, "..."))
}

func TestDedupKeyIsStable(t *testing.T) {
	a := DedupKey("TCS", "https://example.com/a.pdf")
	require.Len(t, a, 32)
	require.Equal(t, a, DedupKey("TCS", "https://example.com/a.pdf"))
	require.NotEqual(t, a, DedupKey("TCS", "https://example.com/b.pdf"))
}
