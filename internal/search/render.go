// File: internal/search/render.go
package search

import (
	"fmt"
	stdhtml "html"
	"strings"

	"github.com/shadowglass/inquest/api/schemas"
)

// Placeholder strings for absent result fields.
const (
	placeholderTitle = "Sem título"
	placeholderLink  = "Sem link"
)

// RenderListing produces the plain "title / link / snippet" listing of a
// batch, one bullet per record. Pure function of the batch.
func RenderListing(b schemas.Batch) string {
	lines := make([]string, 0, len(b.Results))
	for _, r := range b.Results {
		title := r.Title
		if title == "" {
			title = placeholderTitle
		}
		href := r.Href
		if href == "" {
			href = placeholderLink
		}
		lines = append(lines, fmt.Sprintf("• %s\n  %s\n  %s", title, href, r.Body))
	}
	return strings.Join(lines, "\n")
}

// RenderLinkTable produces the HTML link table of a batch: one row per
// record with its index, title and link. Pure function of the batch.
func RenderLinkTable(b schemas.Batch) string {
	var sb strings.Builder
	sb.WriteString("<table border='1' style='width:100%; border-collapse: collapse; text-align: left;'>")
	sb.WriteString("<thead><tr><th>#</th><th>Título</th><th>Link</th></tr></thead><tbody>")
	for i, r := range b.Results {
		title := r.Title
		if title == "" {
			title = placeholderTitle
		}
		href := r.Href
		if href == "" {
			href = placeholderLink
		}
		sb.WriteString(fmt.Sprintf(
			"<tr><td>%d</td><td>%s</td><td><a href='%s' target='_blank'>%s</a></td></tr>",
			i+1, stdhtml.EscapeString(title), stdhtml.EscapeString(href), stdhtml.EscapeString(href)))
	}
	sb.WriteString("</tbody></table>")
	return sb.String()
}
