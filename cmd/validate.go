package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/hepbib/extract"
	"github.com/lehigh-university-libraries/hepbib/hub"
	"github.com/lehigh-university-libraries/hepbib/profile"
)

var (
	validateInput   string
	validateVerbose bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <source>",
	Short: "Check a catalog document without rendering it",
	Long: `Build an entry from a catalog document and report any issues found
without producing output. Useful for checking a profile against new records.

Arguments:
  source  Profile to extract with (cds, inspire, arxiv)

Input defaults to stdin.

Examples:
  hepbib validate cds -i record.xml
  hepbib validate inspire -i record.xml --verbose
  hepbib validate cds -i record.xml --profile-file my-cds.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "Input file (default: stdin)")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Show every extracted field")
	validateCmd.Flags().StringVar(&profileFile, "profile-file", "", "Custom profile YAML file for the source")
}

func runValidate(cmd *cobra.Command, args []string) (err error) {
	kind, err := profile.ParseKind(args[0])
	if err != nil {
		return err
	}
	registry, err := loadRegistry()
	if err != nil {
		return err
	}
	prof, ok := registry.Get(string(kind))
	if !ok {
		return fmt.Errorf("%w: no profile registered for %s", hub.ErrUnsupportedSource, kind)
	}

	var input io.Reader
	var inputName string

	if validateInput != "" {
		f, openErr := os.Open(validateInput)
		if openErr != nil {
			return fmt.Errorf("opening input file: %w", openErr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing input file: %w", cerr)
			}
		}()
		input = f
		inputName = validateInput
	} else {
		input = cmd.InOrStdin()
		inputName = "stdin"
	}

	entry, err := extract.BuildFromReader(input, prof)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	w := cmd.OutOrStdout()
	result := hub.Validate(&entry)
	fmt.Fprintf(w, "✓ Valid: %s record %s from %s\n", prof.Name, entry.RecordId, inputName)
	if result.HasWarnings() {
		for _, warning := range result.Warnings {
			fmt.Fprintf(w, "  warning: %s\n", warning.Error())
		}
	}

	if validateVerbose {
		fmt.Fprintln(w, "\nEntry summary:")
		fields := append([]string{hub.FieldRecordId, hub.FieldEprintId, hub.FieldAuthor}, hub.ScalarFields()...)
		fields = append(fields, hub.FieldUrl, hub.FieldPdfLink)
		for _, field := range fields {
			v, _ := entry.Get(field)
			if v == "" {
				v = "-"
			}
			fmt.Fprintf(w, "    %-14s %s\n", field+":", truncate(v, 60))
		}
	}

	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
