package output

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/medsupply/catadmin/internal/api"
	"github.com/medsupply/catadmin/internal/attach"
	"github.com/medsupply/catadmin/internal/catalog"
)

// ErrRender is returned when a product detail could not be rendered
var ErrRender = errors.New("product detail could not be displayed, try loading it again")

// PrintProduct prints a product detail page. Long texts are cut to
// catalog.DetailWordLimit words unless expand is set.
func (p *Printer) PrintProduct(product *api.Product, expand bool) error {
	if p.format != FormatTable {
		return p.printStructured(product)
	}
	return WriteProduct(p.writer, product, expand)
}

// WriteProduct renders the detail of product to w. A panic while rendering
// is turned into ErrRender.
func WriteProduct(w io.Writer, product *api.Product, expand bool) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w (%v)", ErrRender, r)
		}
	}()

	var sb strings.Builder
	writeProduct(&sb, product, expand)
	_, err = io.WriteString(w, sb.String())
	return err
}

func writeProduct(sb *strings.Builder, product *api.Product, expand bool) {
	text := func(s string) string {
		if expand {
			return catalog.Sentence(s)
		}
		short, _ := catalog.TruncateWords(s, catalog.DetailWordLimit)
		return catalog.Sentence(short)
	}

	fmt.Fprintf(sb, "%s\n", catalog.Capitalize(product.GenericName))
	if product.CommercialName != "" {
		fmt.Fprintf(sb, "%s\n", catalog.Capitalize(product.CommercialName))
	}
	fmt.Fprintf(sb, "ID: %s\n\n", product.ID)

	tw := tabwriter.NewWriter(sb, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Brand:\t%s\n", refName(product.Brand))
	fmt.Fprintf(tw, "Category:\t%s\n", refName(product.Category))
	fmt.Fprintf(tw, "Reference:\t%s\n", strings.ToUpper(product.Reference))
	fmt.Fprintf(tw, "Measurement:\t%s\n", catalog.Capitalize(product.Measurement))
	fmt.Fprintf(tw, "Formulation:\t%s\n", catalog.Capitalize(product.Formulation))
	fmt.Fprintf(tw, "Sterilization:\t%s\n", catalog.Capitalize(product.SanitizeMethod))
	fmt.Fprintf(tw, "Status:\t%s\n", yesNo(bool(product.Status), "active", "inactive"))
	fmt.Fprintf(tw, "IVA:\t%s\n", yesNo(product.IVA, "yes", "no"))
	_ = tw.Flush()

	section(sb, "Description", text(product.Description))
	section(sb, "Composition", text(product.Composition))
	section(sb, "Use", text(product.Use))

	if len(product.Characteristics) > 0 {
		fmt.Fprintf(sb, "\nCharacteristics:\n")
		for _, c := range product.Characteristics {
			fmt.Fprintf(sb, "  - %s: %s\n", catalog.Capitalize(c.Characteristic), c.Description)
		}
	}

	if r := product.SanitaryRegistry; r != nil {
		fmt.Fprintf(sb, "\nSanitary registry:\n")
		fmt.Fprintf(sb, "  Number: %s\n", strings.ToUpper(r.NumberRegistry))
		fmt.Fprintf(sb, "  Expires: %s\n", r.ExpirationDate)
		fmt.Fprintf(sb, "  Status: %s\n", catalog.Capitalize(r.Status))
		if r.URL != "" {
			fmt.Fprintf(sb, "  Document: %s\n", r.URL)
		}
	}

	if len(product.TechnicalSheets) > 0 {
		fmt.Fprintf(sb, "\nTechnical sheets:\n")
		for _, ts := range product.TechnicalSheets {
			fmt.Fprintf(sb, "  - %s\n", ts.Documents)
		}
	}

	if len(product.Providers) > 0 {
		fmt.Fprintf(sb, "\nProviders:\n")
		for _, pr := range product.Providers {
			fmt.Fprintf(sb, "  - %s", catalog.Capitalize(pr.Name))
			if pr.Phone != "" || pr.Email != "" {
				fmt.Fprintf(sb, " (%s)", strings.Trim(pr.Phone+" "+pr.Email, " "))
			}
			sb.WriteString("\n")
		}
	}

	if len(product.Comments) > 0 {
		fmt.Fprintf(sb, "\nComments:\n")
		for _, c := range product.Comments {
			fmt.Fprintf(sb, "  - %s\n", catalog.Sentence(c.Comment))
		}
	}

	fmt.Fprintf(sb, "\nImages: %d\n", len(product.Images))
}

func section(sb *strings.Builder, title, body string) {
	if body == "" {
		return
	}
	fmt.Fprintf(sb, "\n%s:\n  %s\n", title, body)
}

func yesNo(b bool, yes, no string) string {
	if b {
		return yes
	}
	return no
}

func refName(r *api.Ref) string {
	if r == nil {
		return "-"
	}
	return catalog.Capitalize(r.Name)
}

func refNames(refs []api.Ref) string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = catalog.Capitalize(r.Name)
	}
	return strings.Join(names, ", ")
}

func date(t *api.APITime) string {
	if t == nil || t.Time().IsZero() {
		return "-"
	}
	return t.Time().Format("2006-01-02")
}

func fileName(url string) string {
	if url == "" {
		return "-"
	}
	return attach.NameFromURL(url)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// scalar formats a decoded JSON value for a key/value listing
func scalar(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "-"
	case string:
		return val
	case []interface{}:
		parts := make([]string, len(val))
		for i, item := range val {
			if m, ok := item.(map[string]interface{}); ok {
				if name, ok := m["name"].(string); ok {
					parts[i] = name
					continue
				}
			}
			parts[i] = fmt.Sprint(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}
