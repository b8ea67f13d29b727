// Package formatting renders API responses for the command line as tables,
// JSON or YAML.
package formatting

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the desired output format
type OutputFormat string

const (
	FormatTable OutputFormat = "table" // Rich table output
	FormatJSON  OutputFormat = "json"  // JSON output
	FormatYAML  OutputFormat = "yaml"  // YAML output
)

// ParseFormat validates a --output flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatTable, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use table, json or yaml)", s)
	}
}

// Options configures the printer behavior
type Options struct {
	Format OutputFormat
	Color  bool // Enable colored headers
}

// Printer writes values in the configured format.
type Printer struct {
	out     io.Writer
	options Options
}

// NewPrinter creates a Printer writing to out.
func NewPrinter(out io.Writer, options Options) *Printer {
	if options.Format == "" {
		options.Format = FormatTable
	}
	return &Printer{out: out, options: options}
}

// Options returns the printer options.
func (p *Printer) Options() Options {
	return p.options
}

// Print renders v. Structs are rendered through their JSON form so field
// names match the API.
func (p *Printer) Print(v any) error {
	switch p.options.Format {
	case FormatJSON:
		_, err := fmt.Fprintln(p.out, PrettyJSON(v))
		return err
	case FormatYAML:
		generic, err := normalize(v)
		if err != nil {
			return err
		}
		data, err := yaml.Marshal(generic)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		_, err = p.out.Write(data)
		return err
	default:
		generic, err := normalize(v)
		if err != nil {
			return err
		}
		return p.printTable(generic)
	}
}

// normalize converts v to maps, slices and scalars via its JSON encoding.
func normalize(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode value: %w", err)
	}
	return out, nil
}

func (p *Printer) printTable(v any) error {
	switch d := v.(type) {
	case map[string]any:
		// List envelopes render their results with a total line.
		if results, ok := d["results"].([]any); ok {
			if err := p.printRows(results); err != nil {
				return err
			}
			if meta, ok := d["_meta"].(map[string]any); ok {
				_, err := fmt.Fprintf(p.out, "%s %s\n", p.color(text.FgHiBlue, "Total:"), cell(meta["count"]))
				return err
			}
			return nil
		}
		return p.printObject(d)
	case []any:
		return p.printRows(d)
	default:
		_, err := fmt.Fprintln(p.out, cell(d))
		return err
	}
}

func (p *Printer) createTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleRounded)
	return t
}

// printObject renders one object as KEY/VALUE rows.
func (p *Printer) printObject(data map[string]any) error {
	t := p.createTable()
	t.AppendHeader(table.Row{p.color(text.FgHiCyan, "KEY"), p.color(text.FgHiCyan, "VALUE")})

	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		t.AppendRow(table.Row{k, truncate(cell(data[k]), 100)})
	}
	t.Render()
	return nil
}

// printRows renders a list. Objects become one row each with the union of
// their keys as columns.
func (p *Printer) printRows(items []any) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(p.out, p.color(text.FgYellow, "No items found"))
		return err
	}

	columns := columnsOf(items)
	if columns == nil {
		for i, item := range items {
			if _, err := fmt.Fprintf(p.out, "  %d. %s\n", i+1, cell(item)); err != nil {
				return err
			}
		}
		return nil
	}

	t := p.createTable()
	header := make(table.Row, len(columns))
	for i, c := range columns {
		header[i] = p.color(text.FgHiCyan, strings.ToUpper(c))
	}
	t.AppendHeader(header)

	for _, item := range items {
		obj, _ := item.(map[string]any)
		row := make(table.Row, len(columns))
		for i, c := range columns {
			row[i] = truncate(cell(obj[c]), 60)
		}
		t.AppendRow(row)
	}
	t.Render()
	return nil
}

// columnsOf returns id and name first, then the other keys sorted, or nil if
// any item is not an object.
func columnsOf(items []any) []string {
	seen := map[string]bool{}
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil
		}
		for k := range obj {
			seen[k] = true
		}
	}

	var columns []string
	for _, k := range []string{"id", "name"} {
		if seen[k] {
			columns = append(columns, k)
			delete(seen, k)
		}
	}
	rest := make([]string, 0, len(seen))
	for k := range seen {
		rest = append(rest, k)
	}
	sort.Strings(rest)
	return append(columns, rest...)
}

func (p *Printer) color(c text.Color, s string) string {
	if !p.options.Color {
		return s
	}
	return c.Sprint(s)
}

// cell renders a scalar, or compact JSON for nested values.
func cell(v any) string {
	switch d := v.(type) {
	case nil:
		return ""
	case string:
		return d
	case json.Number:
		return d.String()
	case bool:
		return strconv.FormatBool(d)
	case map[string]any, []any:
		b, err := json.Marshal(d)
		if err != nil {
			return fmt.Sprintf("%v", d)
		}
		return string(b)
	default:
		return fmt.Sprintf("%v", d)
	}
}

// truncate collapses whitespace so cells stay on one line and cuts s to max
// runes, ending in "...".
func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
