package announcement

import (
	"crypto/md5"
	"encoding/hex"
	"strings"
	"unicode/utf8"
)

const ellipsis = "..."

// DedupKey identifies a listing by company and document.
func DedupKey(company, documentURL string) string {
	sum := md5.Sum([]byte(company + "|" + documentURL))
	return hex.EncodeToString(sum[:])
}

// FormatMessage renders the WhatsApp body. Empty header fields are left out
// and the summary is shortened so the body fits within maxLength runes. The
// result never exceeds a positive maxLength.
func FormatMessage(listing Listing, summary, footer string, maxLength int) string {
	var header []string
	if listing.Company != "" {
		header = append(header, "Company: "+listing.Company)
	}
	if listing.CompanyURL != "" {
		header = append(header, listing.CompanyURL)
	}

	var blocks []string
	if len(header) > 0 {
		blocks = append(blocks, strings.Join(header, "\n"))
	}
	if listing.DocumentURL != "" {
		blocks = append(blocks, "Document: "+listing.DocumentURL)
	}

	render := func(body string) string {
		parts := append(append([]string{}, blocks...), body)
		out := strings.Join(parts, "\n\n")
		if footer != "" {
			out += "\n---\n" + footer
		}
		return out
	}

	summary = strings.TrimSpace(summary)
	msg := render(summary)
	if maxLength <= 0 {
		return msg
	}
	over := utf8.RuneCountInString(msg) - maxLength
	if over <= 0 {
		return msg
	}
	runes := []rune(summary)
	keep := len(runes) - over - len(ellipsis)
	if keep > 0 {
		return render(strings.TrimSpace(string(runes[:keep])) + ellipsis)
	}
	// Header and footer alone do not fit: cut the whole body.
	return clip(render(ellipsis), maxLength)
}

// clip cuts s to at most limit runes, ending with the ellipsis when it cuts.
func clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	if limit <= len(ellipsis) {
		return string(runes[:limit])
	}
	return string(runes[:limit-len(ellipsis)]) + ellipsis
}
