// Package cli is the jonx command-line front-end: encode, decode, inspect,
// validate and query JONX files, or run the HTTP converter service.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jonx/bootstrap"
	"jonx/internal/application/service"
	"jonx/internal/platform/codec"
	"jonx/internal/platform/compress"
	"jonx/internal/platform/jonxfile"
	"jonx/internal/platform/jsoncodec"
	"jonx/internal/platform/messaging/zeromq/publisher"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// toolkit wires the core by hand; the CLI does not need the dig container.
type toolkit struct {
	encodeFile *service.EncodeFileService
	decodeFile *service.DecodeFileService
	info       *service.InfoService
	validate   *service.ValidateService
	query      *service.QueryService
}

func newToolkit() *toolkit {
	json := jsoncodec.New()
	cdc := codec.New(json)
	writer := jonxfile.NewWriter(cdc, json, compress.NewZstdCompressor())
	opener := jonxfile.NewOpener(json, cdc, compress.NewZstdDecompressor())
	logger := zap.NewNop()
	noop := publisher.NewNoopPublisher()

	encode := service.NewEncodeService(writer, noop, logger)
	decode := service.NewDecodeService(opener, noop, logger)
	return &toolkit{
		encodeFile: service.NewEncodeFileService(encode),
		decodeFile: service.NewDecodeFileService(decode),
		info:       service.NewInfoService(opener),
		validate:   service.NewValidateService(opener),
		query:      service.NewQueryService(opener),
	}
}

func Execute() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jonx",
		Short:         "JONX - columnar compressed container for JSON record sets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(encodeCmd(), decodeCmd(), infoCmd(), validateCmd(), queryCmd(), serveCmd())
	return root
}

func encodeCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "encode <input.json>",
		Short: "Encode a JSON file into a JONX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if output == "" {
				output = replaceExt(input, ".jonx")
			}
			result, err := newToolkit().encodeFile.Execute(service.EncodeFileCommand{
				InputPath:  input,
				OutputPath: output,
			})
			if err != nil {
				return err
			}
			ratio := 0.0
			if result.InputSize > 0 {
				ratio = (1 - float64(result.OutputSize)/float64(result.InputSize)) * 100
			}
			fmt.Printf("encoded %s -> %s\n", input, output)
			fmt.Printf("  rows:        %d\n", result.Rows)
			fmt.Printf("  columns:     %d\n", result.Columns)
			fmt.Printf("  input size:  %d bytes\n", result.InputSize)
			fmt.Printf("  output size: %d bytes\n", result.OutputSize)
			fmt.Printf("  compression: %.1f%%\n", ratio)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output JONX file")
	return cmd
}

func decodeCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "decode <input.jonx>",
		Short: "Decode a JONX file back into JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := args[0]
			if output == "" {
				output = replaceExt(input, ".json")
			}
			result, err := newToolkit().decodeFile.Execute(service.DecodeFileCommand{
				InputPath:  input,
				OutputPath: output,
			})
			if err != nil {
				return err
			}
			fmt.Printf("decoded %s -> %s\n", input, output)
			fmt.Printf("  version: %d\n", result.Version)
			fmt.Printf("  rows:    %d\n", result.Rows)
			fmt.Printf("  columns: %d\n", result.Columns)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output JSON file")
	return cmd
}

func infoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <file.jonx>",
		Short: "Show file metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := newToolkit().info.Execute(service.InfoQuery{Path: args[0]})
			if err != nil {
				return err
			}
			indexed := make(map[string]bool, len(info.Indexes))
			for _, f := range info.Indexes {
				indexed[f] = true
			}
			fmt.Printf("path:      %s\n", info.Path)
			fmt.Printf("version:   %d\n", info.Version)
			fmt.Printf("rows:      %d\n", info.NumRows)
			fmt.Printf("columns:   %d\n", info.NumColumns)
			fmt.Printf("file size: %d bytes\n", info.FileSize)
			fmt.Println("fields:")
			for _, f := range info.Fields {
				mark := " "
				if indexed[f] {
					mark = "*"
				}
				fmt.Printf("  [%s] %-20s %s\n", mark, f, info.Types[f])
			}
			if len(info.Indexes) > 0 {
				fmt.Printf("indexes:   %s\n", strings.Join(info.Indexes, ", "))
			}
			return nil
		},
	}
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.jonx>",
		Short: "Validate every block of a JONX file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := newToolkit().validate.Execute(service.ValidateQuery{Path: args[0]})
			if err != nil {
				return err
			}
			for _, warning := range report.Warnings {
				fmt.Printf("warning: %s\n", warning)
			}
			if !report.Valid {
				for _, e := range report.Errors {
					fmt.Fprintf(os.Stderr, "error: %s\n", e)
				}
				return fmt.Errorf("file is invalid (%d errors)", len(report.Errors))
			}
			fmt.Println("file is valid")
			return nil
		},
	}
}

func queryCmd() *cobra.Command {
	var (
		min, max, sum, avg, count bool
		useIndex                  bool
	)
	cmd := &cobra.Command{
		Use:   "query <file.jonx> <column>",
		Short: "Run an aggregate against one column",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := pickOperation(min, max, sum, avg, count)
			if err != nil {
				return err
			}
			result, err := newToolkit().query.Execute(service.QueryCommand{
				Path:      args[0],
				Column:    args[1],
				Operation: op,
				UseIndex:  useIndex,
			})
			if err != nil {
				return err
			}
			fmt.Printf("%s(%s) = %v\n", op, args[1], result.Value)
			return nil
		},
	}
	cmd.Flags().BoolVar(&min, "min", false, "find the minimum value")
	cmd.Flags().BoolVar(&max, "max", false, "find the maximum value")
	cmd.Flags().BoolVar(&sum, "sum", false, "compute the sum")
	cmd.Flags().BoolVar(&avg, "avg", false, "compute the average")
	cmd.Flags().BoolVar(&count, "count", false, "count the values")
	cmd.Flags().BoolVar(&useIndex, "use-index", false, "use the sorted index for min/max")
	return cmd
}

func pickOperation(min, max, sum, avg, count bool) (service.QueryOperation, error) {
	var ops []service.QueryOperation
	if min {
		ops = append(ops, service.QueryMin)
	}
	if max {
		ops = append(ops, service.QueryMax)
	}
	if sum {
		ops = append(ops, service.QuerySum)
	}
	if avg {
		ops = append(ops, service.QueryAvg)
	}
	if count {
		ops = append(ops, service.QueryCount)
	}
	if len(ops) != 1 {
		return "", fmt.Errorf("pick exactly one of --min, --max, --sum, --avg, --count")
	}
	return ops[0], nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP converter service",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := bootstrap.Run()
			return err
		},
	}
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
