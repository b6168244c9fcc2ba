package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/solardesk/pvtopo/internal/pagetext"
	"github.com/solardesk/pvtopo/internal/render"
	"github.com/solardesk/pvtopo/internal/report"
	"github.com/solardesk/pvtopo/internal/tables"
)

var (
	parseFormat  string
	parseOutput  string
	parseTables  string
	parseVerbose bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <report-file>",
	Short: "Parse one report file and print the plant topology",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		if !pagetext.IsSupportedExtension(path) {
			return fmt.Errorf("unsupported file type: %s", path)
		}

		level := slog.LevelWarn
		if parseVerbose {
			level = slog.LevelDebug
		}
		log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		provider, err := pagetext.ForFile(path)
		if err != nil {
			return err
		}
		pages, err := provider.Pages(f, path)
		if err != nil {
			return fmt.Errorf("extract %s: %w", path, err)
		}
		if len(pages) == 0 {
			return fmt.Errorf("no extractable text in %s", path)
		}

		session := report.NewSession(pages, log)
		if parseTables != "" {
			tf, err := os.Open(parseTables)
			if err != nil {
				return err
			}
			sidecar, err := tables.Load(tf, "sidecar")
			tf.Close()
			if err != nil {
				return fmt.Errorf("load tables %s: %w", parseTables, err)
			}
			session.SetTables(sidecar)
		}
		res := session.Parse()

		var body []byte
		switch parseFormat {
		case "json":
			body, err = res.JSON()
		case "md":
			body = []byte(render.Markdown(res))
		case "html":
			body, err = render.HTML(res)
		default:
			return fmt.Errorf("unknown format %q, want json, md or html", parseFormat)
		}
		if err != nil {
			return err
		}

		if parseOutput != "" {
			return os.WriteFile(parseOutput, body, 0o644)
		}
		_, err = cmd.OutOrStdout().Write(body)
		return err
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseFormat, "format", "f", "json", "output format: json, md or html")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "write output to file instead of stdout")
	parseCmd.Flags().StringVar(&parseTables, "tables", "", "CSV sidecar with extracted report tables")
	parseCmd.Flags().BoolVarP(&parseVerbose, "verbose", "v", false, "log parse decisions to stderr")
}
