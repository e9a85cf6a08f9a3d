package formatter

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/desertthunder/mise/internal/models"
	"github.com/desertthunder/mise/internal/shared"
	th "github.com/desertthunder/mise/internal/testing"
)

func sampleItems() []models.ShoppingItem {
	return []models.ShoppingItem{
		{Name: "Eggs", Quantity: 6},
		{Name: "Flour", Quantity: 201, Unit: th.Ptr("g")},
		{Name: "Milk, whole", Quantity: 0.75, Unit: th.Ptr("l")},
		{Name: "Sugar", Quantity: 0, Unit: th.Ptr("cup"), OriginalString: th.Ptr("1/2")},
	}
}

func TestExporters(t *testing.T) {
	t.Run("ExportToCSV", func(t *testing.T) {
		data, err := ExportToCSV(sampleItems())
		if err != nil {
			t.Fatalf("ExportToCSV failed: %v", err)
		}

		output := string(data)

		if !strings.HasPrefix(output, "Name,Quantity,Unit,Original\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "Flour,201,g,\n") {
			t.Errorf("CSV missing flour row, got: %s", output)
		}
		if !strings.Contains(output, "Eggs,6,,\n") {
			t.Errorf("CSV missing eggs row, got: %s", output)
		}
		if !strings.Contains(output, `"Milk, whole",0.75,l,`) {
			t.Errorf("CSV should quote names with commas, got: %s", output)
		}
		if !strings.Contains(output, "Sugar,0,cup,1/2") {
			t.Errorf("CSV missing original quantity, got: %s", output)
		}
	})

	t.Run("ExportToMarkdown", func(t *testing.T) {
		data, err := ExportToMarkdown("Week 23", sampleItems())
		if err != nil {
			t.Fatalf("ExportToMarkdown failed: %v", err)
		}

		output := string(data)

		if !strings.Contains(output, "# Week 23") {
			t.Errorf("Markdown missing title")
		}
		if !strings.Contains(output, "**Items**: 4") {
			t.Errorf("Markdown missing item count")
		}
		if !strings.Contains(output, "- [ ] Flour: 201 g\n") {
			t.Errorf("Markdown missing flour entry, got: %s", output)
		}
		if !strings.Contains(output, "- [ ] Eggs: 6\n") {
			t.Errorf("Markdown missing eggs entry, got: %s", output)
		}
		if !strings.Contains(output, "- [ ] Sugar: 0 cup (plus 1/2)\n") {
			t.Errorf("Markdown missing sugar entry, got: %s", output)
		}
	})

	t.Run("ExportToText", func(t *testing.T) {
		data, err := ExportToText("Week 23", sampleItems())
		if err != nil {
			t.Fatalf("ExportToText failed: %v", err)
		}

		output := string(data)

		if !strings.HasPrefix(output, "Week 23\nItems: 4\n\n") {
			t.Errorf("Text missing header, got: %s", output)
		}
		if !strings.Contains(output, "2. Flour: 201 g\n") {
			t.Errorf("Text missing numbered flour entry, got: %s", output)
		}
	})

	t.Run("ExportToJSON", func(t *testing.T) {
		data, err := ExportToJSON(nil)
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}
		if string(data) != "[]" {
			t.Errorf("expected empty array, got %s", data)
		}

		data, err = ExportToJSON(sampleItems()[:1])
		if err != nil {
			t.Fatalf("ExportToJSON failed: %v", err)
		}
		if !strings.Contains(string(data), `"unit": null`) {
			t.Errorf("expected null unit, got %s", data)
		}
	})
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"csv", FormatCSV, false},
		{"CSV", FormatCSV, false},
		{"md", FormatMarkdown, false},
		{"markdown", FormatMarkdown, false},
		{"txt", FormatText, false},
		{"text", FormatText, false},
		{"json", FormatJSON, false},
		{"pdf", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}

	if FormatCSV.ContentType() != "text/csv; charset=utf-8" {
		t.Errorf("unexpected CSV content type %q", FormatCSV.ContentType())
	}
	if Format("bogus").ContentType() != "application/json" {
		t.Error("unknown formats should default to JSON")
	}

	if _, err := Export(Format("bogus"), "", nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFormatQuantity(t *testing.T) {
	tests := map[float64]string{
		0:       "0",
		201:     "201",
		0.5:     "0.5",
		1.25:    "1.25",
		1000000: "1000000",
		-2:      "-2",
	}

	for in, want := range tests {
		if got := FormatQuantity(in); got != want {
			t.Errorf("FormatQuantity(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteExport(t *testing.T) {
	start := models.DateOf(2025, 6, 2)
	end := models.DateOf(2025, 6, 8)

	t.Run("explicit path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "list.md")

		got, err := WriteExport(FormatMarkdown, path, start, end, sampleItems())
		if err != nil {
			t.Fatalf("WriteExport failed: %v", err)
		}
		if got != path {
			t.Errorf("expected %s, got %s", path, got)
		}

		th.AssertFileExists(t, path)
		content := th.MustReadFile(t, path)
		if !strings.Contains(content, "# Shopping list 2025-06-02 to 2025-06-08") {
			t.Errorf("unexpected content: %s", content)
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing", "list.csv")

		if _, err := WriteExport(FormatCSV, path, start, end, sampleItems()); err == nil {
			t.Error("expected error writing into a missing directory")
		}
	})

	t.Run("default filename", func(t *testing.T) {
		if got := Filename(FormatCSV, start, end); got != "shopping-2025-06-02_2025-06-08.csv" {
			t.Errorf("Filename() = %q", got)
		}
	})
}
