package console

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/philbennett94/planet-express/pkg/cosmosmanager"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

// OutputFormat selects how command results are written.
type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

var outputAliases = map[string]OutputFormat{
	"":      OutputTable,
	"table": OutputTable,
	"json":  OutputJSON,
	"yaml":  OutputYAML,
	"yml":   OutputYAML,
}

// ParseOutputFormat resolves a --output value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	if format, ok := outputAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return format, nil
	}
	names := lo.Uniq(lo.Map(lo.Values(outputAliases), func(f OutputFormat, _ int) string { return string(f) }))
	slices.Sort(names)
	return "", fmt.Errorf("unknown output format: %s (supported: %s)", s, strings.Join(names, ", "))
}

// Formatter writes toolbox results to a stream. Tables are for people; json and yaml carry the
// same values for scripts.
type Formatter struct {
	format OutputFormat
	writer io.Writer
}

// NewFormatter creates a formatter writing to w.
func NewFormatter(format OutputFormat, w io.Writer) *Formatter {
	return &Formatter{format: format, writer: w}
}

// Encode writes data as JSON or YAML. It fails in table mode.
func (f *Formatter) Encode(data any) error {
	switch f.format {
	case OutputJSON:
		enc := json.NewEncoder(f.writer)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case OutputYAML:
		enc := yaml.NewEncoder(f.writer)
		enc.SetIndent(2)
		if err := enc.Encode(data); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%s output has no generic encoding", f.format)
	}
}

// render encodes data, or hands the stream to table in table mode.
func (f *Formatter) render(data any, table func(w io.Writer) error) error {
	if f.format != OutputTable {
		return f.Encode(data)
	}
	return table(f.writer)
}

// grid is a column aligned block whose header row is underlined per column.
type grid struct {
	tw *tabwriter.Writer
}

func newGrid(w io.Writer, headers ...string) *grid {
	g := &grid{tw: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
	g.row(headers...)
	g.row(lo.Map(headers, func(string, int) string { return rule })...)
	return g
}

func (g *grid) row(cells ...string) {
	fmt.Fprintln(g.tw, strings.Join(cells, "\t"))
}

func (g *grid) flush() error {
	return g.tw.Flush()
}

// FormatAccounts lists the registered database accounts.
func (f *Formatter) FormatAccounts(accounts []cosmosmanager.AccountInfo) error {
	return f.render(accounts, func(w io.Writer) error {
		g := newGrid(w, "Database Account Name", "Database Model", "Database Location", "Database Resource Group")
		for _, a := range accounts {
			g.row(a.Name, a.DefaultExperience.String(), a.Location, a.ResourceGroup)
		}
		return g.flush()
	})
}

// FormatConnectionInfo prints an account's endpoint and keys as "Key : Value" lines.
func (f *Formatter) FormatConnectionInfo(info []cosmosmanager.KeyValue) error {
	return f.render(info, func(w io.Writer) error {
		g := newGrid(w, "Account Connection Information")
		for _, kv := range info {
			g.row(kv.Key + " : " + kv.Value)
		}
		return g.flush()
	})
}

// FormatNames prints one column of names under title.
func (f *Formatter) FormatNames(title string, names []string) error {
	if names == nil {
		names = []string{}
	}
	return f.render(names, func(w io.Writer) error {
		g := newGrid(w, title)
		for _, n := range names {
			g.row(n)
		}
		return g.flush()
	})
}

// FormatInsertReport prints the totals of a bulk insert.
func (f *Formatter) FormatInsertReport(report *cosmosmanager.InsertReport) error {
	return f.render(report, func(w io.Writer) error {
		fmt.Fprintf(w, "Documents inserted: %d\n", report.Documents)
		fmt.Fprintf(w, "Payload size:       %s\n", report.Bytes)
		if report.RequestCharge > 0 {
			fmt.Fprintf(w, "RU consumed:        %.2f\n", report.RequestCharge)
		}
		fmt.Fprintf(w, "Elapsed Time:       %s\n", report.Elapsed)
		return nil
	})
}

// FormatQueryReport prints query statistics between star rules, then each returned item.
func (f *Formatter) FormatQueryReport(report *cosmosmanager.QueryReport) error {
	return f.render(report, func(w io.Writer) error {
		stars := strings.Repeat("*", 46)
		fmt.Fprintln(w, stars)
		fmt.Fprintf(w, "RU consumed: %.2f\n", report.RequestCharge)
		fmt.Fprintf(w, "Items returned in Query: %d\n", report.ItemCount)
		fmt.Fprintf(w, "Elapsed Time: %s\n", report.Elapsed)
		fmt.Fprintln(w, stars)
		for _, item := range report.Items {
			fmt.Fprintln(w, string(item))
		}
		return nil
	})
}
