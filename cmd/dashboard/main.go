// The dashboard binary queries a running gateway and renders the
// results as a table, CSV or JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/vk/adsgateway/internal/dashboard"
	"github.com/vk/adsgateway/internal/presets"
)

const envToken = "ADS_GATEWAY_API_TOKEN"

type options struct {
	url        string
	token      string
	customerID string
	query      string
	fields     string
	resource   string
	presets    string
	output     string
}

func main() {
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(outW io.Writer, args []string) error {
	opts, err := parseFlags(args, outW)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalogue, err := presets.Load(ctx, opts.presets)
	if err != nil {
		return err
	}

	fields, query, err := resolveQuery(opts, catalogue)
	if err != nil {
		return err
	}

	client := dashboard.NewClient(opts.url, opts.token)
	if err := client.Healthz(ctx); err != nil {
		return err
	}

	rows, err := client.Search(ctx, &dashboard.SearchRequest{
		CustomerID: opts.customerID,
		Query:      query,
		Fields:     fields,
	})
	if err != nil {
		return err
	}

	return render(outW, opts.output, fields, rows)
}

func parseFlags(args []string, outW io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(outW)
	fs.StringVar(&opts.url, "url", "http://localhost:8080", "gateway base URL")
	fs.StringVar(&opts.token, "token", os.Getenv(envToken), "gateway API token (defaults to "+envToken+")")
	fs.StringVar(&opts.customerID, "customer", "", "customer ID override")
	fs.StringVar(&opts.query, "query", "", "GAQL query (defaults to one built from the resource preset)")
	fs.StringVar(&opts.fields, "fields", "", "comma-separated field paths (defaults to the resource preset)")
	fs.StringVar(&opts.resource, "resource", "campaign", "reporting resource preset to use")
	fs.StringVar(&opts.presets, "presets", "", "path to an HCL presets file")
	fs.StringVar(&opts.output, "output", "table", "output format: table, csv or json")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if opts.token == "" {
		return nil, fmt.Errorf("no API token: pass -token or set %s", envToken)
	}
	switch opts.output {
	case "table", "csv", "json":
	default:
		return nil, fmt.Errorf("unknown output format %q: want table, csv or json", opts.output)
	}
	return opts, nil
}

// resolveQuery fills in fields and query from the resource preset when
// the flags leave them empty.
func resolveQuery(opts *options, catalogue map[string]presets.Preset) ([]string, string, error) {
	var fields []string
	if opts.fields != "" {
		for _, f := range strings.Split(opts.fields, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}

	preset, ok := catalogue[opts.resource]
	if len(fields) == 0 {
		if !ok {
			return nil, "", fmt.Errorf("unknown resource %q and no -fields given", opts.resource)
		}
		fields = preset.Fields
	}

	query := opts.query
	if query == "" {
		query = fmt.Sprintf("SELECT %s FROM %s", strings.Join(fields, ", "), opts.resource)
		if ok {
			if limit, isNum := preset.Params["limit"].(float64); isNum {
				query = fmt.Sprintf("%s LIMIT %d", query, int(limit))
			}
		}
	}
	return fields, query, nil
}

func render(w io.Writer, format string, fields []string, rows []map[string]any) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	flat := dashboard.Flatten(rows)
	columns := dashboard.Columns(flat, fields)
	if format == "csv" {
		return dashboard.WriteCSV(w, columns, flat)
	}
	return dashboard.WriteTable(w, columns, flat)
}
