// package formatter provides functions to export shopping lists to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/desertthunder/mise/internal/models"
	"github.com/desertthunder/mise/internal/shared"
)

// Format names an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "md"
	FormatText     Format = "txt"
)

// ParseFormat accepts a format name or a common alias ("markdown", "text").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "md", "markdown":
		return FormatMarkdown, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, s)
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	case FormatText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Extension returns the file extension for f, without the dot.
func (f Format) Extension() string {
	return string(f)
}

// FormatQuantity renders a quantity without trailing zeros.
func FormatQuantity(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// Export renders items in the given format. The title heads the Markdown and text formats.
func Export(f Format, title string, items []models.ShoppingItem) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ExportToJSON(items)
	case FormatCSV:
		return ExportToCSV(items)
	case FormatMarkdown:
		return ExportToMarkdown(title, items)
	case FormatText:
		return ExportToText(title, items)
	}
	return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
}

// ExportToJSON renders items the way the HTTP API does.
func ExportToJSON(items []models.ShoppingItem) ([]byte, error) {
	if items == nil {
		items = []models.ShoppingItem{}
	}
	return shared.MarshalJSON(items, true)
}

// ExportToCSV converts shopping items to CSV format with columns: Name, Quantity, Unit, Original
func ExportToCSV(items []models.ShoppingItem) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Name", "Quantity", "Unit", "Original"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range items {
		original := ""
		if item.OriginalString != nil {
			original = *item.OriginalString
		}
		record := []string{
			item.Name,
			FormatQuantity(item.Quantity),
			item.UnitString(),
			original,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts shopping items to a Markdown checklist
func ExportToMarkdown(title string, items []models.ShoppingItem) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	buf.WriteString(fmt.Sprintf("**Items**: %d\n\n", len(items)))

	for _, item := range items {
		buf.WriteString(fmt.Sprintf("- [ ] %s\n", Line(item)))
	}

	return buf.Bytes(), nil
}

// ExportToText converts shopping items to plain text format
func ExportToText(title string, items []models.ShoppingItem) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("%s\n", title))
	buf.WriteString(fmt.Sprintf("Items: %d\n\n", len(items)))

	for i, item := range items {
		buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, Line(item)))
	}

	return buf.Bytes(), nil
}

// Line renders one item as "Flour: 201 g", noting unparsed quantities in parentheses.
func Line(item models.ShoppingItem) string {
	var b strings.Builder

	b.WriteString(item.Name)
	b.WriteString(": ")
	b.WriteString(FormatQuantity(item.Quantity))
	if unit := item.UnitString(); unit != "" {
		b.WriteString(" ")
		b.WriteString(unit)
	}
	if item.OriginalString != nil {
		b.WriteString(fmt.Sprintf(" (plus %s)", *item.OriginalString))
	}

	return b.String()
}

// Title names a shopping list by its date range.
func Title(start, end models.Date) string {
	return fmt.Sprintf("Shopping list %s to %s", start, end)
}

// Filename returns the default download name for a list over [start, end].
func Filename(f Format, start, end models.Date) string {
	return fmt.Sprintf("shopping-%s_%s.%s", start, end, f.Extension())
}

// WriteExport renders items in format f and writes them to path.
//
// Defaults to [Filename] in the working directory when path is empty.
func WriteExport(f Format, path string, start, end models.Date, items []models.ShoppingItem) (string, error) {
	if path == "" {
		path = Filename(f, start, end)
	}

	data, err := Export(f, Title(start, end), items)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	return path, nil
}
