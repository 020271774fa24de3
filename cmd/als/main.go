// Command als provides the compress/decompress/info command-line
// interface to the ALS library (C14, §4.14), grounded on the reference
// tool's command surface: input/output default to stdin/stdout ("-"),
// --format selects csv/json/als/auto, and --verbose/--quiet/--config
// are accepted by every subcommand. --quiet applies to all three;
// --verbose and --config are read only by compress.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alsfmt/als/document"
	"github.com/alsfmt/als/compress"
	"github.com/alsfmt/als/config"
	"github.com/alsfmt/als/ingest"
	"github.com/alsfmt/als/logging"
	"github.com/alsfmt/als/table"
)

var (
	verbose    bool
	quiet      bool
	configPath string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "als",
		Short: "Compress and decompress tabular data using Array List Serialization",
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	root.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress all non-error output")
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "compressor configuration file (YAML)")

	root.AddCommand(newCompressCmd(), newDecompressCmd(), newInfoCmd())
	return root
}

func newLogger() *zap.Logger {
	cfg := logging.Default()
	switch {
	case verbose:
		cfg = logging.Verbose()
	case quiet:
		cfg = logging.Quiet()
	}
	logger, err := logging.New(cfg)
	if err != nil {
		return logging.Nop()
	}
	return logger
}

func loadCompressorConfig() (*config.CompressorConfig, error) {
	if configPath == "" {
		return config.DefaultCompressorConfig(), nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return config.LoadYAML(data)
}

func newCompressCmd() *cobra.Command {
	var input, output, format string
	cmd := &cobra.Command{
		Use:   "compress",
		Short: "Compress CSV or JSON data to ALS format",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompress(input, output, format)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "input file, or '-' for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, or '-' for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "auto", "input format: csv, json, or auto")
	return cmd
}

func newDecompressCmd() *cobra.Command {
	var input, output, format string
	var lenient bool
	cmd := &cobra.Command{
		Use:   "decompress",
		Short: "Decompress ALS data to CSV or JSON format",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecompress(input, output, format, lenient)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "input file, or '-' for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file, or '-' for stdout")
	cmd.Flags().StringVarP(&format, "format", "f", "csv", "output format: csv or json")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "accept hand-authored-document parsing extensions")
	return cmd
}

func newInfoCmd() *cobra.Command {
	var input string
	var lenient bool
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Display information about an ALS document",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(input, lenient)
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "-", "input file, or '-' for stdin")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "accept hand-authored-document parsing extensions")
	return cmd
}

func runCompress(input, output, format string) error {
	logger := newLogger()
	defer logger.Sync() //nolint:errcheck

	raw, err := readInput(input)
	if err != nil {
		return err
	}
	if raw == "" {
		return writeOutput(output, "")
	}

	resolved := format
	if resolved == "auto" {
		resolved = detectFormat(input, raw)
		logger.Debug("detected input format", zap.String("format", resolved))
	}

	tbl, err := ingestTable(raw, resolved)
	if err != nil {
		return err
	}

	cfg, err := loadCompressorConfig()
	if err != nil {
		return err
	}

	c := compress.New(cfg, logger)
	out, err := c.Compress(context.Background(), raw, tbl)
	if err != nil {
		return fmt.Errorf("compressing: %w", err)
	}

	if err := writeOutput(output, out); err != nil {
		return err
	}
	if !quiet {
		ratio := 0.0
		if len(raw) > 0 {
			ratio = float64(len(raw)) / float64(len(out))
		}
		fmt.Fprintf(os.Stderr, "compressed %d bytes to %d bytes (ratio %.2fx)\n", len(raw), len(out), ratio)
	}
	return nil
}

func runDecompress(input, output, format string, lenient bool) error {
	if format != "csv" && format != "json" {
		return fmt.Errorf("decompress: unsupported output format %q, want csv or json", format)
	}

	raw, err := readInput(input)
	if err != nil {
		return err
	}
	if raw == "" {
		return writeOutput(output, "")
	}

	cfg := document.DefaultParserConfig()
	cfg.Lenient = lenient
	doc, err := document.Parse(raw, cfg)
	if err != nil {
		return fmt.Errorf("parsing ALS document: %w", err)
	}
	tbl, err := doc.ToTable()
	if err != nil {
		return fmt.Errorf("expanding ALS document: %w", err)
	}

	var out string
	switch format {
	case "csv":
		out, err = ingest.ToCSV(tbl)
	case "json":
		out, err = ingest.ToJSON(tbl)
	}
	if err != nil {
		return fmt.Errorf("rendering output: %w", err)
	}

	if err := writeOutput(output, out); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(os.Stderr, "decompressed %d bytes to %d bytes\n", len(raw), len(out))
	}
	return nil
}

func runInfo(input string, lenient bool) error {
	raw, err := readInput(input)
	if err != nil {
		return err
	}
	if raw == "" {
		return nil
	}

	cfg := document.DefaultParserConfig()
	cfg.Lenient = lenient
	doc, err := document.Parse(raw, cfg)
	if err != nil {
		return fmt.Errorf("parsing ALS document: %w", err)
	}

	if quiet {
		return nil
	}

	fmt.Printf("Format: %s\n", doc.Indicator)
	fmt.Printf("Version: %d.%d\n", doc.MajorVersion, doc.MinorVersion)
	fmt.Printf("Compressed size: %d bytes\n", len(raw))

	if doc.Indicator.String() == "ctx" {
		return nil
	}

	fmt.Printf("Dictionaries: %d\n", len(doc.Dictionaries))
	fmt.Printf("Columns: %d\n", len(doc.Schema))
	for _, spec := range doc.Schema {
		fmt.Printf("  - %s: %s\n", spec.Name, spec.Type)
	}

	tbl, err := doc.ToTable()
	if err == nil {
		out, renderErr := ingest.ToCSV(tbl)
		if renderErr == nil {
			ratio := float64(len(raw)) / float64(len(out))
			fmt.Printf("Rows: %d\n", tbl.RowCount)
			fmt.Printf("Estimated compression ratio: %.2fx\n", ratio)
		}
	}
	return nil
}

func ingestTable(raw, format string) (*table.TabularData, error) {
	switch format {
	case "csv":
		return ingest.FromCSV(strings.NewReader(raw), ingest.DefaultCSVConfig())
	case "json":
		return ingest.FromJSON(strings.NewReader(raw))
	case "als":
		return nil, fmt.Errorf("input is already ALS; use the decompress command instead")
	default:
		return nil, fmt.Errorf("unrecognized input format %q", format)
	}
}

// detectFormat guesses an input's format from its file extension, then
// falls back to sniffing its leading bytes: JSON starts with '[' or
// '{'; ALS starts with a version or directive line; otherwise CSV.
func detectFormat(input, content string) string {
	switch {
	case strings.HasSuffix(input, ".csv"):
		return "csv"
	case strings.HasSuffix(input, ".json"):
		return "json"
	case strings.HasSuffix(input, ".als"):
		return "als"
	}

	trimmed := strings.TrimSpace(content)
	switch {
	case strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "{"):
		return "json"
	case strings.HasPrefix(trimmed, "!v") || strings.HasPrefix(trimmed, "$") || strings.HasPrefix(trimmed, "#"):
		return "als"
	default:
		return "csv"
	}
}

func readInput(input string) (string, error) {
	if input == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return "", fmt.Errorf("reading input file %q: %w", input, err)
	}
	return string(data), nil
}

func writeOutput(output, content string) error {
	if output == "-" {
		_, err := io.WriteString(os.Stdout, content)
		return err
	}
	return os.WriteFile(output, []byte(content), 0o644)
}
