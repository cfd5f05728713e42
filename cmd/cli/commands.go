package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"aryastastic/app"
	"aryastastic/domain/study"
	"aryastastic/internal/report"
	"aryastastic/ui"
)

func newDesignsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "designs",
		Short: "List the available study designs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.build(true)
			if err != nil {
				return err
			}
			defer c.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, d := range c.Service.Designs() {
				fmt.Fprintf(tw, "%s\t%s\n", d.Design, d.Description)
			}
			return tw.Flush()
		},
	}
}

// addInputFlags registers one flag per study parameter
func addInputFlags(fs *pflag.FlagSet) {
	for _, name := range study.ParamNames() {
		if name == "oneSided" {
			fs.Bool(name, false, "Use a one-sided test")
			continue
		}
		fs.Float64(name, 0, "Study parameter "+name)
	}
}

// inputFromFlags builds an input from the parameter flags that were set
func inputFromFlags(fs *pflag.FlagSet) (study.Input, error) {
	var in study.Input
	var err error
	fs.Visit(func(f *pflag.Flag) {
		if err != nil || !study.IsParam(f.Name) {
			return
		}
		var v float64
		switch f.Value.String() {
		case "true":
			v = 1
		case "false":
			v = 0
		default:
			v, err = strconv.ParseFloat(f.Value.String(), 64)
			if err != nil {
				return
			}
		}
		err = in.Set(f.Name, v)
	})
	return in, err
}

func newCalcCmd(opts *rootOptions) *cobra.Command {
	var asJSON, asMarkdown bool

	cmd := &cobra.Command{
		Use:   "calc <design>",
		Short: "Run one calculation",
		Long: `Run one calculation and print the interpretation and calculation steps.

Example: aryastastic calc two-proportions --p1 0.3 --p2 0.5 --alpha 0.05 --power 0.8`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := inputFromFlags(cmd.Flags())
			if err != nil {
				return err
			}
			c, err := opts.build(true)
			if err != nil {
				return err
			}
			defer c.Close()

			calc, err := c.Service.Calculate(cmd.Context(), study.Design(args[0]), in)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case asJSON:
				return writeJSON(out, calc)
			case asMarkdown:
				_, err := io.WriteString(out, report.Markdown(report.Document{ID: calc.ID.String(), Design: calc.Design, Result: calc.Result}))
				return err
			}
			printCalculation(out, calc)
			return nil
		},
	}
	addInputFlags(cmd.Flags())
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the calculation as JSON")
	cmd.Flags().BoolVar(&asMarkdown, "markdown", false, "Print a Markdown report")
	cmd.MarkFlagsMutuallyExclusive("json", "markdown")
	return cmd
}

func printCalculation(w io.Writer, calc *app.Calculation) {
	fmt.Fprintln(w, calc.Result.Interpretation)
	fmt.Fprintln(w)
	for i, line := range calc.Result.Calculations {
		fmt.Fprintf(w, "%2d. %s\n", i+1, line)
	}
}

func newSweepCmd(opts *rootOptions) *cobra.Command {
	var (
		param    string
		values   []float64
		xlsxPath string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "sweep <design>",
		Short: "Evaluate a design over a list of values for one parameter",
		Long: `Evaluate a design once per value of one parameter, holding every other parameter fixed.

Example: aryastastic sweep two-means --mean1 10 --mean2 12 --sd 4 --alpha 0.05 --param power --values 0.7,0.8,0.9`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := inputFromFlags(cmd.Flags())
			if err != nil {
				return err
			}
			c, err := opts.build(true)
			if err != nil {
				return err
			}
			defer c.Close()

			sweep, err := c.Service.Sweep(cmd.Context(), app.SweepRequest{
				Design:    study.Design(args[0]),
				Base:      base,
				Parameter: param,
				Values:    values,
			})
			if err != nil {
				return err
			}

			if xlsxPath != "" {
				f, err := os.Create(xlsxPath)
				if err != nil {
					return err
				}
				if err := c.Exporter.Export(f, sweep); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s\n", xlsxPath)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), sweep)
			}
			_, err = io.WriteString(cmd.OutOrStdout(), report.SweepMarkdown(sweep))
			return err
		},
	}
	addInputFlags(cmd.Flags())
	cmd.Flags().StringVar(&param, "param", "power", "Parameter to vary")
	cmd.Flags().Float64SliceVar(&values, "values", nil, "Comma-separated values for the parameter")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the sweep to this xlsx file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the sweep as JSON")
	_ = cmd.MarkFlagRequired("values")
	return cmd
}

func newBatchCmd(opts *rootOptions) *cobra.Command {
	var design string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Calculate every row of an xlsx or csv scenario file",
		Long: `Calculate every row of a scenario file. The header row names parameters;
optional "design" and "label" columns name each row.

Example: aryastastic batch scenarios.xlsx --design two-proportions`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.build(true)
			if err != nil {
				return err
			}
			defer c.Close()

			scenarios, err := c.Scenarios.ReadScenarios(args[0], study.Design(design))
			if err != nil {
				return err
			}
			outcomes, err := c.Service.Batch(cmd.Context(), scenarios)
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), outcomes)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "LABEL\tDESIGN\tRESULT")
			for _, o := range outcomes {
				text := o.Error
				if o.Result != nil {
					text = o.Result.Interpretation
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", o.Scenario.Label, o.Scenario.Design, text)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVar(&design, "design", "", "Design for rows without a design column")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the outcomes as JSON")
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.build(false)
			if err != nil {
				return err
			}
			defer c.Close()

			a, err := ui.NewApp(c.Service, c.Exporter, c.Scenarios, c.Config.Server, c.Logger)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Start(ctx)
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
