package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/dataview/internal/config"
	"github.com/JonMunkholm/dataview/internal/core"
	"github.com/JonMunkholm/dataview/internal/logging"
)

type options struct {
	rows     int
	asJSON   bool
	logLevel string
	maxSize  int64
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "preview",
		Short:         "Preview a dataset from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			slog.SetDefault(logging.New(cmd.ErrOrStderr(), opts.logLevel, "text"))
		},
	}

	flags := root.PersistentFlags()
	flags.IntVarP(&opts.rows, "rows", "n", core.PreviewRows, "number of head rows to show")
	flags.BoolVar(&opts.asJSON, "json", false, "print the preview as JSON")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn, error")
	flags.Int64Var(&opts.maxSize, "max-size", core.DefaultMaxFileSize, "largest file accepted, in bytes")

	root.AddCommand(newFileCmd(opts), newExampleCmd(opts), newExamplesCmd())
	return root
}

func newFileCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "file <path>",
		Short: "Preview a .csv or .xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			loader, err := newLoader(opts)
			if err != nil {
				return err
			}
			ds, err := loader.LoadFile(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return reportLoadError(cmd, "Error loading uploaded file: ", err)
			}
			return printPreview(cmd.OutOrStdout(), core.RenderPreview(ds, opts.rows), opts.asJSON)
		},
	}
}

func newExampleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:       "example <name>",
		Short:     "Preview one of the example datasets",
		Args:      cobra.ExactArgs(1),
		ValidArgs: exampleKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.ParseExampleID(args[0])
			if err == nil && id == core.ExampleNone {
				err = core.ErrUnknownExample
			}
			if err != nil {
				return reportLoadError(cmd, "Error loading example dataset: ",
					core.NewLoadError(core.KindExampleFetch, args[0], err))
			}

			loader, err := newLoader(opts)
			if err != nil {
				return err
			}
			ds, err := loader.LoadExample(cmd.Context(), id)
			if err != nil {
				return reportLoadError(cmd, "Error loading example dataset: ", err)
			}
			return printPreview(cmd.OutOrStdout(), core.RenderPreview(ds, opts.rows), opts.asJSON)
		},
	}
}

func newExamplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "examples",
		Short: "List the example datasets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tCOLUMNS\tDESCRIPTION")
			for _, info := range core.Examples() {
				fmt.Fprintf(tw, "%s\t%d\t%s\n", info.ID, info.Columns, info.Description)
			}
			return tw.Flush()
		},
	}
}

// newLoader builds a Loader from the EXAMPLES_* environment, the same
// variables the server reads.
func newLoader(opts *options) (*core.Loader, error) {
	var ex config.ExamplesConfig
	if err := envconfig.Process("EXAMPLES", &ex); err != nil {
		return nil, fmt.Errorf("read EXAMPLES_* environment: %w", err)
	}
	repo := core.NewExampleRepository(core.ExampleRepositoryConfig{
		BaseURL:      ex.BaseURL,
		CacheDir:     ex.CacheDir,
		FetchTimeout: ex.FetchTimeout,
	})
	return core.NewLoader(core.LoaderConfig{
		Examples:      repo,
		MaxFileSize:   opts.maxSize,
		MaxConcurrent: 1,
	}), nil
}

func reportLoadError(cmd *cobra.Command, prefix string, err error) error {
	if le, ok := core.AsLoadError(err); ok {
		msg := core.MapError(err)
		fmt.Fprintf(cmd.ErrOrStderr(), "%s%s\n%s (Code: %s)\n", prefix, le.Cause(), msg.Action, msg.Code)
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), core.FormatUserError(err))
	return err
}

func printPreview(w io.Writer, p core.Preview, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	}
	if !p.Loaded {
		_, err := fmt.Fprintln(w, p.Message)
		return err
	}

	name := ""
	if p.Source != nil {
		name = p.Source.Name + " · "
	}
	fmt.Fprintf(w, "%s%d rows × %d columns\n\nData Preview\n", name, p.Rows, p.Cols)
	if err := printTable(w, p.Head); err != nil {
		return err
	}
	fmt.Fprintln(w, "\nSummary Statistics")
	return printTable(w, p.Stats)
}

func printTable(w io.Writer, tv core.TableView) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "\t"+strings.Join(tv.Columns, "\t")+"\t")
	for i, row := range tv.Rows {
		label := ""
		if i < len(tv.Index) {
			label = tv.Index[i]
		}
		fmt.Fprintln(tw, label+"\t"+strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}

func exampleKeys() []string {
	list := core.Examples()
	keys := make([]string, 0, len(list))
	for _, info := range list {
		keys = append(keys, string(info.ID))
	}
	return keys
}
