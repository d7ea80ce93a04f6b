package pdftext

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractRejectsEmptyPayload(t *testing.T) {
	_, err := Extract(nil)
	require.EqualError(t, err, "pdf payload is empty")
}

func TestExtractRejectsNonPDF(t *testing.T) {
	_, err := Extract([]byte("<html>not a pdf</html>"))
	require.Error(t, err)
}

func TestExtractReadsEveryPage(t *testing.T) {
	data, err := os.ReadFile("testdata/announcement.pdf")
	require.NoError(t, err)

	text, err := Extract(data)
	require.NoError(t, err)
	require.Equal(t, "Board Meeting Outcome\n\nDividend of Rs 5 per share declared", text)
}

func TestExtractPageWithoutTextReportsNoText(t *testing.T) {
	data, err := os.ReadFile("testdata/announcement.pdf")
	require.NoError(t, err)

	// Same-length replacements keep the xref offsets valid.
	blank := strings.NewReplacer(
		"(Board Meeting Outcome) Tj", "                          ",
		"(Dividend of Rs 5 per share declared) Tj", "                                        ",
	).Replace(string(data))
	require.NotEqual(t, string(data), blank)

	_, err = Extract([]byte(blank))
	require.ErrorIs(t, err, ErrNoText)
}
