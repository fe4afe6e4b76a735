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

var inputFile string

var convertCmd = &cobra.Command{
	Use:   "convert <source>",
	Short: "Render an already downloaded catalog document",
	Long: `Build an entry from a MARCXML or Atom document on disk.

Arguments:
  source  Profile to extract with (cds, inspire, arxiv)

Input defaults to stdin, output defaults to stdout.

Examples:
  hepbib convert cds -i record.xml
  curl -s 'https://inspirehep.net/search?p=recid+1480079&of=xm' | hepbib convert inspire
  hepbib convert arxiv -i query.atom --format json --pretty`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func init() {
	addOutputFlags(convertCmd)
	convertCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file (default: stdin)")
}

func runConvert(cmd *cobra.Command, args []string) (err error) {
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
	if inputFile != "" {
		f, err := os.Open(inputFile)
		if err != nil {
			return fmt.Errorf("opening input file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing input file: %w", cerr)
			}
		}()
		input = f
	} else {
		input = cmd.InOrStdin()
	}

	entry, err := extract.BuildFromReader(input, prof)
	if err != nil {
		return err
	}

	return writeEntry(cmd, entry)
}
