// Package output provides formatted terminal output for catalog records.
// This centralizes all printing and formatting logic away from command modules.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/catalog"
	"github.com/medsupply/catadmin/internal/notify"
)

// Format represents different output formats
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a --format value
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unsupported format: %s (use table, json or yaml)", s)
	}
}

// Printer handles formatted output to the terminal
type Printer struct {
	writer io.Writer
	format Format
	quiet  bool
}

// NewPrinter creates a new printer with the specified format
func NewPrinter(format Format, quiet bool) *Printer {
	return NewPrinterWithWriter(os.Stdout, format, quiet)
}

// NewPrinterWithWriter creates a new printer with a custom writer
func NewPrinterWithWriter(writer io.Writer, format Format, quiet bool) *Printer {
	return &Printer{
		writer: writer,
		format: format,
		quiet:  quiet,
	}
}

// Format returns the output format
func (p *Printer) Format() Format {
	return p.format
}

// Success prints a success message
func (p *Printer) Success(message string) {
	if !p.quiet {
		fmt.Fprintf(p.writer, "✓ %s\n", message)
	}
}

// Error prints an error message
func (p *Printer) Error(message string) {
	fmt.Fprintf(p.writer, "✗ %s\n", message)
}

// Warning prints a warning message
func (p *Printer) Warning(message string) {
	if !p.quiet {
		fmt.Fprintf(p.writer, "⚠ %s\n", message)
	}
}

// Info prints an informational message
func (p *Printer) Info(message string) {
	if !p.quiet {
		fmt.Fprintf(p.writer, "ℹ %s\n", message)
	}
}

// Notice prints the current notification once. Structured formats keep
// stdout machine readable, so only errors are printed there.
func (p *Printer) Notice(n *notify.Notifier) {
	msg, ok := n.Current()
	if !ok {
		return
	}
	if p.format != FormatTable && msg.Severity != notify.Error {
		return
	}
	switch msg.Severity {
	case notify.Success:
		p.Success(msg.Text)
	case notify.Error:
		p.Error(msg.Text)
	default:
		p.Info(msg.Text)
	}
}

// Page describes the slice of a collection being printed
type Page struct {
	Number     int    `json:"page"`
	TotalPages int    `json:"total_pages"`
	Matches    int    `json:"matches"`
	Search     string `json:"search,omitempty"`
	Window     []int  `json:"-"`
}

type listing struct {
	Page
	Items interface{} `json:"items"`
}

// PrintBrands prints one page of brands
func (p *Printer) PrintBrands(brands []api.Brand, page Page) error {
	if p.format != FormatTable {
		return p.printStructured(listing{Page: page, Items: brands})
	}
	return p.printTable("brands", page, []string{"ID", "NAME", "CREATED"}, len(brands), func(i int) []string {
		b := brands[i]
		return []string{b.ID, catalog.Capitalize(b.Name), date(b.CreatedAt)}
	})
}

// PrintCategories prints one page of categories
func (p *Printer) PrintCategories(categories []api.Category, page Page) error {
	if p.format != FormatTable {
		return p.printStructured(listing{Page: page, Items: categories})
	}
	return p.printTable("categories", page, []string{"ID", "NAME", "CREATED"}, len(categories), func(i int) []string {
		c := categories[i]
		return []string{c.ID, catalog.Capitalize(c.Name), date(c.CreatedAt)}
	})
}

// PrintProviders prints one page of providers
func (p *Printer) PrintProviders(providers []api.Provider, page Page) error {
	if p.format != FormatTable {
		return p.printStructured(listing{Page: page, Items: providers})
	}
	headers := []string{"ID", "NAME", "NIT", "TYPE", "REPRESENTATIVE", "PHONE", "EMAIL", "BRANDS"}
	return p.printTable("providers", page, headers, len(providers), func(i int) []string {
		pr := providers[i]
		return []string{
			pr.ID,
			catalog.Capitalize(pr.Name),
			strings.ToUpper(pr.NIT),
			pr.PersonType,
			catalog.Capitalize(pr.Represent),
			pr.Phone,
			pr.Email,
			refNames(pr.Brands),
		}
	})
}

// PrintRegistries prints one page of sanitary registries
func (p *Printer) PrintRegistries(registries []api.SanitaryRegistry, page Page) error {
	if p.format != FormatTable {
		return p.printStructured(listing{Page: page, Items: registries})
	}
	headers := []string{"ID", "NUMBER", "EXPIRES", "CLUSTER", "STATUS", "RISK", "FILE"}
	return p.printTable("sanitary registries", page, headers, len(registries), func(i int) []string {
		r := registries[i]
		return []string{
			r.ID,
			strings.ToUpper(r.NumberRegistry),
			r.ExpirationDate,
			catalog.Capitalize(r.Cluster),
			catalog.Capitalize(r.Status),
			strings.ToUpper(r.TypeRisk),
			fileName(r.URL),
		}
	})
}

// PrintProducts prints one page of product search results
func (p *Printer) PrintProducts(products []api.Product, page Page) error {
	if p.format != FormatTable {
		return p.printStructured(listing{Page: page, Items: products})
	}
	headers := []string{"ID", "GENERIC NAME", "COMMERCIAL NAME", "BRAND", "CATEGORY", "STATUS"}
	return p.printTable("products", page, headers, len(products), func(i int) []string {
		pr := products[i]
		status := "inactive"
		if pr.Status {
			status = "active"
		}
		return []string{
			pr.ID,
			catalog.Capitalize(pr.GenericName),
			catalog.Capitalize(pr.CommercialName),
			refName(pr.Brand),
			refName(pr.Category),
			status,
		}
	})
}

// PrintRecord prints a single created or updated record
func (p *Printer) PrintRecord(record interface{}) error {
	if p.format != FormatTable {
		return p.printStructured(record)
	}
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode record: %w", err)
	}
	var fields map[string]interface{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return p.printJSON(record)
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	for _, key := range sortedKeys(fields) {
		fmt.Fprintf(w, "%s:\t%s\n", key, scalar(fields[key]))
	}
	return w.Flush()
}

// PrintAmounts prints the dashboard counters
func (p *Printer) PrintAmounts(a catalog.Amounts) error {
	if p.format != FormatTable {
		return p.printStructured(a)
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "COLLECTION\tAMOUNT\n")
	fmt.Fprintf(w, "----------\t------\n")
	fmt.Fprintf(w, "Products\t%d\n", a.Products)
	fmt.Fprintf(w, "Brands\t%d\n", a.Brands)
	fmt.Fprintf(w, "Providers\t%d\n", a.Providers)
	fmt.Fprintf(w, "Categories\t%d\n", a.Categories)
	fmt.Fprintf(w, "Sanitary registries\t%d\n", a.Registries)
	return w.Flush()
}

// printTable writes a tab-aligned table followed by the page bar
func (p *Printer) printTable(plural string, page Page, headers []string, n int, row func(int) []string) error {
	if n == 0 {
		if page.Search != "" {
			fmt.Fprintf(p.writer, "No %s match %q\n", plural, page.Search)
		} else {
			fmt.Fprintf(p.writer, "No %s found\n", plural)
		}
		return nil
	}

	w := tabwriter.NewWriter(p.writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	rules := make([]string, len(headers))
	for i, h := range headers {
		rules[i] = strings.Repeat("-", len(h))
	}
	fmt.Fprintln(w, strings.Join(rules, "\t"))

	for i := 0; i < n; i++ {
		cells := row(i)
		for j, c := range cells {
			cells[j] = truncate(c, 40)
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(p.writer, "\n%s  (%d %s)\n", PageBar(page.Window, page.Number, page.TotalPages), page.Matches, plural)
	return nil
}

// PageBar renders page numbers with the current one bracketed, e.g.
// "« 1 [2] 3 »". The arrows appear only when there is a page to move to.
func PageBar(window []int, current, total int) string {
	if len(window) == 0 {
		window = []int{current}
	}

	var parts []string
	if current > 1 {
		parts = append(parts, "«")
	}
	for _, n := range window {
		if n == current {
			parts = append(parts, fmt.Sprintf("[%d]", n))
		} else {
			parts = append(parts, fmt.Sprintf("%d", n))
		}
	}
	if current < total {
		parts = append(parts, "»")
	}
	return fmt.Sprintf("Page %d of %d  %s", current, total, strings.Join(parts, " "))
}

// printStructured prints obj as JSON or YAML
func (p *Printer) printStructured(obj interface{}) error {
	switch p.format {
	case FormatJSON:
		return p.printJSON(obj)
	case FormatYAML:
		return p.printYAML(obj)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

// printJSON prints any object as JSON
func (p *Printer) printJSON(obj interface{}) error {
	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(obj)
}

// printYAML prints any object as YAML using its JSON field names. The JSON
// document is decoded into a yaml.Node so the key order survives.
func (p *Printer) printYAML(obj interface{}) error {
	data, err := json.Marshal(obj)
	if err != nil {
		return fmt.Errorf("failed to encode %T: %w", obj, err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return fmt.Errorf("failed to convert %T to yaml: %w", obj, err)
	}
	blockStyle(&node)

	encoder := yaml.NewEncoder(p.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(&node); err != nil {
		return err
	}
	return encoder.Close()
}

// blockStyle drops the flow and quoting styles JSON input leaves on every
// node; the encoder quotes again wherever a plain scalar would be ambiguous.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
