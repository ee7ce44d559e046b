// Command validate checks a facility registry file without calling any
// geocoding service. It reports row counts, rows missing the fields that make
// up the composite address, categories outside the palette, postal codes that
// do not normalize to five digits, and a preview of the addresses that would
// be geocoded.
//
// Usage:
//
//	go run ./cmd/validate --input STRUTTURE-TOSCANA.csv --delimiter ';' --preview 5
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/health-facility-map/internal/adapter/registry"
	"github.com/couchcryptid/health-facility-map/internal/config"
	"github.com/couchcryptid/health-facility-map/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

type options struct {
	input     string
	delimiter string
	encoding  string
	palette   string
	preview   int
}

func main() {
	opts := options{}
	cmd := &cobra.Command{
		Use:           "validate",
		Short:         "Check a facility registry file offline",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if code := run(cmd.OutOrStdout(), opts); code != 0 {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.input, "input", "i", "STRUTTURE-TOSCANA.csv", "registry file (.csv or .xlsx)")
	cmd.Flags().StringVarP(&opts.delimiter, "delimiter", "d", ",", `field delimiter ("\t" or "tab" for tabs)`)
	cmd.Flags().StringVarP(&opts.encoding, "encoding", "e", config.EncodingUTF8, "text encoding: utf-8, latin1, windows-1252")
	cmd.Flags().StringVar(&opts.palette, "palette", "", "YAML palette file (default: built-in categories)")
	cmd.Flags().IntVar(&opts.preview, "preview", 5, "number of composite addresses to print")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(out io.Writer, opts options) int {
	palette := domain.DefaultPalette()
	if opts.palette != "" {
		p, err := config.LoadPalette(opts.palette)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
			return 1
		}
		palette = p
	}

	delimiter, err := config.ParseDelimiter(opts.delimiter)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}

	table, err := registry.Load(opts.input, registry.Options{Delimiter: delimiter, Encoding: opts.encoding})
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: %v\n", err)
		return 1
	}
	domain.NormalizeTable(table)

	fmt.Fprintln(out, "=== Facility Registry Validation ===")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "File: %s\n", opts.input)
	fmt.Fprintf(out, "Rows: %d, columns: %d\n", table.Len(), len(table.Columns))

	if !report(out, validate(table, palette)) {
		return 1
	}

	printCategories(out, table, palette)
	printPreview(out, table, opts.preview)
	return 0
}

func validate(t *domain.Table, palette *domain.Palette) []*phase {
	return []*phase{
		validateRequiredFields(t),
		validateCategories(t, palette),
		validatePostalCodes(t),
	}
}

// report prints the phase summary and details. It returns true when every
// phase passed.
func report(out io.Writer, phases []*phase) bool {
	fmt.Fprintln(out)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			if i >= 20 {
				fmt.Fprintf(out, "  ... and %d more\n", len(p.errors)-20)
				break
			}
			fmt.Fprintf(out, "  %s\n", e)
		}
	}
	return allPassed
}

func validateRequiredFields(t *domain.Table) *phase {
	p := &phase{name: "Required fields"}
	for _, f := range t.Facilities {
		fields := []struct{ column, value string }{
			{domain.ColumnName, f.Name},
			{domain.ColumnCategory, f.Category},
			{domain.ColumnStreet, f.Street},
			{domain.ColumnMunicipality, f.Municipality},
			{domain.ColumnProvince, f.Province},
		}
		for _, fld := range fields {
			if fld.value == "" {
				p.errorf("row %d: empty %s", f.Row, fld.column)
			}
		}
	}
	return p
}

func validateCategories(t *domain.Table, palette *domain.Palette) *phase {
	p := &phase{name: "Known categories"}
	for _, f := range t.Facilities {
		if !palette.Known(f.Category) {
			p.errorf("row %d: category %q is not in the palette (shown as %s)", f.Row, f.Category, domain.OtherCategory)
		}
	}
	return p
}

func validatePostalCodes(t *domain.Table) *phase {
	p := &phase{name: "Postal codes"}
	for _, f := range t.Facilities {
		if f.PostalCode == "" {
			continue
		}
		if !isPostalCode(f.PostalCode) {
			p.errorf("row %d: postal code %q is not five digits", f.Row, f.PostalCode)
		}
	}
	return p
}

func isPostalCode(s string) bool {
	if len(s) != 5 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func printCategories(out io.Writer, t *domain.Table, palette *domain.Palette) {
	counts := map[string]int{}
	for _, f := range t.Facilities {
		counts[palette.LayerFor(f.Category)]++
	}
	layers := make([]string, 0, len(counts))
	for l := range counts {
		layers = append(layers, l)
	}
	sort.Strings(layers)

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Layers:")
	for _, l := range layers {
		fmt.Fprintf(out, "  %-32s %5d\n", l, counts[l])
	}
}

func printPreview(out io.Writer, t *domain.Table, n int) {
	if n <= 0 || t.Len() == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Composite addresses:")
	for i, f := range t.Facilities {
		if i >= n {
			break
		}
		fmt.Fprintf(out, "  %d. %s\n", f.Row, f.FullAddress)
	}
}
