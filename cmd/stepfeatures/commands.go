package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"text/tabwriter"

	stepfeatures "github.com/aouyang1/go-stepfeatures"
	"github.com/aouyang1/go-stepfeatures/loader"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
)

// setup resolves the configuration of cmd and installs the text logger on the command's error
// stream.
func setup(cmd *cobra.Command) (*Config, error) {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return nil, err
	}
	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
	return cfg, nil
}

// buildTable loads the data directory and runs the feature pipeline.
func buildTable(cfg *Config) (*stepfeatures.Table, *stepfeatures.Options, error) {
	if err := loader.FilesExist(cfg.DataDir); err != nil {
		return nil, nil, err
	}
	raw, data, err := loader.LoadAll(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}

	opt, err := cfg.Options()
	if err != nil {
		return nil, nil, err
	}
	p, err := stepfeatures.New(opt)
	if err != nil {
		return nil, nil, err
	}
	table, err := p.Run(raw, data)
	if err != nil {
		return nil, nil, err
	}
	return table, p.Options(), nil
}

func writeFile(path string, write func(w io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("unable to write %s, %w", path, err)
	}
	return f.Close()
}

func buildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Build the daily feature table and write it as csv",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			table, opt, err := buildTable(cfg)
			if err != nil {
				return err
			}

			if cfg.Out == "-" {
				if err := table.WriteCSV(cmd.OutOrStdout()); err != nil {
					return err
				}
			} else if cfg.Out != "" {
				if err := writeFile(cfg.Out, table.WriteCSV); err != nil {
					return err
				}
				slog.Info("wrote feature table", "path", cfg.Out)
			}

			if cfg.JSON != "" {
				err := writeFile(cfg.JSON, func(w io.Writer) error {
					enc := json.NewEncoder(w)
					enc.SetIndent("", "  ")
					return enc.Encode(table)
				})
				if err != nil {
					return err
				}
				slog.Info("wrote feature table json", "path", cfg.JSON)
			}

			if cfg.Plot != "" {
				if err := writeFile(cfg.Plot, table.PlotTimeline); err != nil {
					return err
				}
				slog.Info("wrote timeline plot", "path", cfg.Plot)
			}

			stderr := cmd.ErrOrStderr()
			fmt.Fprintln(stderr, "Options:")
			if err := opt.TablePrint(stderr, "", "  ", 1); err != nil {
				return err
			}
			return table.TablePrint(stderr, "", "  ")
		},
	}
}

func schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the column schema of the feature table as json",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			table, _, err := buildTable(cfg)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(table.Labels().Schema())
		},
	}
}

func designCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "design",
		Short: "Summarize the model inputs of the feature table and their collinearity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			table, _, err := buildTable(cfg)
			if err != nil {
				return err
			}
			design, err := table.Design(cfg.DesignOptions())
			if err != nil {
				return err
			}
			vif, err := design.Collinearity()
			if err != nil {
				return err
			}
			return printDesign(cmd.OutOrStdout(), design, vif)
		},
	}
}

func printDesign(w io.Writer, design *stepfeatures.Design, vif map[string]float64) error {
	fmt.Fprintf(w, "Train: %d rows    Test: %d rows\n", len(design.TrainY), len(design.TestY))

	types := make([]string, 0, len(design.Counts))
	for ft := range design.Counts {
		types = append(types, ft)
	}
	slices.Sort(types)
	fmt.Fprintln(w, "Features:")
	for _, ft := range types {
		fmt.Fprintf(w, "  %s: %d\n", ft, design.Counts[ft])
	}
	if len(design.Dropped) > 0 {
		fmt.Fprintf(w, "Dropped: %v\n", design.Dropped)
	}

	tbl := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tbl, "  Name\tVIF\t\n")
	for _, name := range design.Labels.Names() {
		fmt.Fprintf(tbl, "  %s\t%.3f\t\n", name, vif[name])
	}
	return tbl.Flush()
}
