package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pg2sqlite/pg2sqlite"
	"github.com/pg2sqlite/pg2sqlite/internal/diagnostic"
	"github.com/pg2sqlite/pg2sqlite/internal/logger"
)

var (
	inputPath         string
	outputPath        string
	schema            string
	includeAllSchemas bool
	enableForeignKeys bool
	strict            bool
	emitWarnings      string
)

var ConvertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert a PostgreSQL DDL file to SQLite DDL",
	Long: `Convert reads a PostgreSQL DDL script, converts it to SQLite DDL, and
writes the result to stdout or --output. Lossy mappings are reported on
stderr (or to --emit-warnings); --strict turns them into a failure.`,
	RunE: runConvert,
}

func init() {
	ConvertCmd.Flags().StringVarP(&inputPath, "input", "i", "", "PostgreSQL DDL input file (required)")
	ConvertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "SQLite DDL output file (default: stdout)")
	ConvertCmd.Flags().StringVarP(&schema, "schema", "s", "public", "Schema name to convert")
	ConvertCmd.Flags().BoolVar(&includeAllSchemas, "include-all-schemas", false, "Convert all schemas (bypass schema filtering)")
	ConvertCmd.Flags().BoolVar(&enableForeignKeys, "enable-foreign-keys", false, "Emit PRAGMA foreign_keys = ON and keep foreign key constraints")
	ConvertCmd.Flags().BoolVar(&strict, "strict", false, "Fail on lossy conversions instead of warning")
	ConvertCmd.Flags().StringVar(&emitWarnings, "emit-warnings", "", `Warning destination: file path or "stderr" (default: stderr)`)
	ConvertCmd.MarkFlagRequired("input")
}

func runConvert(cmd *cobra.Command, args []string) error {
	log := logger.Get()

	input, err := os.ReadFile(inputPath)
	if err != nil {
		return fmt.Errorf("failed to read input file %s: %w", inputPath, err)
	}

	opts := pg2sqlite.Options{
		Schema:            schema,
		IncludeAllSchemas: includeAllSchemas,
		EnableForeignKeys: enableForeignKeys,
		Strict:            strict,
	}
	log.Debug("converting", "input", inputPath, "schema", schema,
		"include_all_schemas", includeAllSchemas,
		"enable_foreign_keys", enableForeignKeys, "strict", strict)

	result, convertErr := pg2sqlite.Convert(string(input), opts)

	if result != nil {
		if err := diagnostic.ReportTo(emitWarnings, result.Warnings); err != nil {
			return err
		}
		log.Debug("conversion finished", "warnings", len(result.Warnings))
	}
	if convertErr != nil {
		return convertErr
	}

	if outputPath != "" {
		if err := os.WriteFile(outputPath, []byte(result.SQL), 0o644); err != nil {
			return fmt.Errorf("failed to write output file %s: %w", outputPath, err)
		}
		return nil
	}
	fmt.Print(result.SQL)
	return nil
}
