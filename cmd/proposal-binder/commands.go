package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/geoirb/proposal-binder/internal/cell"
	"github.com/geoirb/proposal-binder/internal/placeholder"
	"github.com/geoirb/proposal-binder/internal/recent"
	"github.com/geoirb/proposal-binder/internal/templater"
)

var errOverrideFormat = errors.New("override must be NAME=value")

type rootFlags struct {
	config string
	json   bool
}

func newRootCmd() *cobra.Command {
	var (
		flags rootFlags
		a     *app
	)

	rootCmd := &cobra.Command{
		Use:           "proposal-binder",
		Short:         "Fill proposal templates with spreadsheet values",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			a, err = newApp(flags.config)
			return
		},
	}
	rootCmd.PersistentFlags().StringVarP(&flags.config, "config", "c", "", "mapping file (yaml or json)")
	rootCmd.PersistentFlags().BoolVar(&flags.json, "json", false, "print a json report")

	current := func() *app { return a }
	rootCmd.AddCommand(
		newGenerateCmd(current, &flags),
		newScanCmd(current, &flags),
		newExtractCmd(current, &flags),
		newRecentCmd(current, &flags),
	)
	return rootCmd
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return signal.NotifyContext(ctx, os.Interrupt)
}

func newGenerateCmd(current func() *app, flags *rootFlags) *cobra.Command {
	var (
		req       templater.Request
		overrides []string
		request   string
		dryRun    bool
	)

	cmd := &cobra.Command{
		Use:   "generate [spreadsheet] [template]",
		Short: "Generate a proposal from a spreadsheet and a template",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()

			if request != "" {
				data, err := os.ReadFile(request)
				if err != nil {
					return fmt.Errorf("read request: %w", err)
				}
				fromFile, err := a.transport.DecodeRequest(data)
				if err != nil {
					return err
				}
				req = mergeRequest(fromFile, req)
			}
			if len(args) > 0 {
				req.Spreadsheet = args[0]
			}
			if len(args) > 1 {
				req.Template = args[1]
			}
			if req.Spreadsheet == "" || req.Template == "" {
				return errors.New("spreadsheet and template are required")
			}
			if req.ID == "" {
				req.ID = uuid.New().String()
			}

			set, err := parseOverrides(overrides)
			if err != nil {
				return err
			}
			if len(set) > 0 && req.Overrides == nil {
				req.Overrides = make(map[string]string, len(set))
			}
			for name, text := range set {
				req.Overrides[name] = text
			}

			ctx, cancel := commandContext(cmd)
			defer cancel()

			run := a.svc.FillIn
			if dryRun {
				run = a.svc.Preview
			}
			res, err := run(ctx, req)

			out := cmd.OutOrStdout()
			if flags.json {
				out.Write(a.transport.EncodeResponse(res, err))
				fmt.Fprintln(out)
				return err
			}
			printResponse(out, res)
			return err
		},
	}
	cmd.Flags().StringVarP(&req.Output, "output", "o", "", "output document")
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "override placeholder text, NAME=value")
	cmd.Flags().BoolVar(&req.AllowPartial, "allow-partial", false, "write even if placeholders stay unresolved")
	cmd.Flags().StringVar(&request, "request", "", "request file (yaml or json)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "resolve without writing the output")
	cmd.Flags().StringVar(&req.ID, "id", "", "run id, generated when empty")
	return cmd
}

// mergeRequest fills empty fields of flags from the request file.
func mergeRequest(file, flags templater.Request) templater.Request {
	if flags.ID != "" {
		file.ID = flags.ID
	}
	if flags.Output != "" {
		file.Output = flags.Output
	}
	if flags.AllowPartial {
		file.AllowPartial = true
	}
	return file
}

func parseOverrides(list []string) (map[string]string, error) {
	overrides := make(map[string]string, len(list))
	for _, item := range list {
		name, text, ok := strings.Cut(item, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("%w: %q", errOverrideFormat, item)
		}
		overrides[strings.TrimSpace(name)] = text
	}
	return overrides, nil
}

func printResponse(out io.Writer, res templater.Response) {
	if res.Set != nil {
		for _, e := range res.Set.Entries() {
			fmt.Fprintf(out, "%-24s %-12s %s\n", e.Placeholder, e.Status, e.Text)
		}
	}
	for _, d := range res.Diagnostics {
		fmt.Fprintln(out, d.String())
	}
	if res.Written {
		fmt.Fprintf(out, "written %s: %d replaced, %d fallbacks, %d images\n",
			res.Output, res.Stats.Replaced, res.Stats.Fallbacks, res.Stats.Images)
	}
}

func newScanCmd(current func() *app, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "scan [template]",
		Short: "List placeholders of a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			ctx, cancel := commandContext(cmd)
			defer cancel()

			placeholders, err := a.svc.Scan(ctx, args[0])
			out := cmd.OutOrStdout()
			if flags.json {
				out.Write(a.transport.EncodePlaceholders(placeholders, err))
				fmt.Fprintln(out)
				return err
			}
			printPlaceholders(out, placeholders)
			return err
		},
	}
}

func printPlaceholders(out io.Writer, placeholders []placeholder.Placeholder) {
	for _, p := range placeholders {
		hint := p.Hint
		if hint == "" {
			hint = "-"
		}
		fmt.Fprintf(out, "%-24s %-20s %d\n", p.Name, hint, len(p.Locations))
	}
}

func newExtractCmd(current func() *app, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "extract [spreadsheet]",
		Short: "Print values of the mapped cells",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := current()
			ctx, cancel := commandContext(cmd)
			defer cancel()

			values, err := a.svc.Extract(ctx, args[0])
			out := cmd.OutOrStdout()
			if flags.json {
				out.Write(a.transport.EncodeValues(values, err))
				fmt.Fprintln(out)
				return err
			}
			printValues(out, values)
			return err
		},
	}
}

func printValues(out io.Writer, values map[string]cell.Value) {
	specs := make([]string, 0, len(values))
	for spec := range values {
		specs = append(specs, spec)
	}
	sort.Strings(specs)
	for _, spec := range specs {
		v := values[spec]
		fmt.Fprintf(out, "%-24s %-8s %s\n", spec, v.Kind(), v.String())
	}
}

func newRecentCmd(current func() *app, flags *rootFlags) *cobra.Command {
	var forget bool

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List recently used spreadsheets and templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			a := current()
			if forget {
				return a.store.Clear()
			}

			var spreadsheets, templates []string
			if spreadsheets, err = a.store.List(recent.Spreadsheet); err == nil {
				templates, err = a.store.List(recent.Template)
			}

			out := cmd.OutOrStdout()
			if flags.json {
				out.Write(a.transport.EncodeRecent(spreadsheets, templates, err))
				fmt.Fprintln(out)
				return err
			}
			for _, f := range spreadsheets {
				fmt.Fprintln(out, "spreadsheet", f)
			}
			for _, f := range templates {
				fmt.Fprintln(out, "template", f)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&forget, "clear", false, "forget recent files")
	return cmd
}
