package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/hepbib/format"
	"github.com/lehigh-university-libraries/hepbib/hub"
	"github.com/lehigh-university-libraries/hepbib/profile"

	// Register format plugins
	_ "github.com/lehigh-university-libraries/hepbib/format/bibtex"
	_ "github.com/lehigh-university-libraries/hepbib/format/json"
)

// Flags shared by lookup and convert.
var (
	outputFile   string
	outputFormat string
	profileFile  string
	pretty       bool
	printPDF     bool
)

func addOutputFlags(c *cobra.Command) {
	c.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	c.Flags().StringVarP(&outputFormat, "format", "f", "bibtex", "Output format (bibtex, json; default from the -o extension)")
	c.Flags().StringVar(&profileFile, "profile-file", "", "Custom profile YAML file for the source")
	c.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	c.Flags().BoolVar(&printPDF, "pdf", false, "Print the PDF link on stderr")
}

// loadRegistry returns the default profiles, with --profile-file taking
// over the source it declares.
func loadRegistry() (*profile.Registry, error) {
	registry, err := profile.LoadDefault()
	if err != nil {
		return nil, err
	}
	if profileFile != "" {
		p, err := profile.LoadProfile(profileFile)
		if err != nil {
			return nil, fmt.Errorf("loading profile file: %w", err)
		}
		registry.Register(p)
		registry.Override(p)
	}
	return registry, nil
}

// writeEntry serializes the entry to --output or stdout. Without an
// explicit --format, the output file extension picks the format.
func writeEntry(cmd *cobra.Command, entry hub.Entry) (err error) {
	name := outputFormat
	if outputFile != "" && !cmd.Flags().Changed("format") {
		if f, detectErr := format.DetectFormat(outputFile); detectErr == nil {
			name = f.Name()
		}
	}
	serializer, err := format.GetSerializer(name)
	if err != nil {
		return err
	}

	var output io.Writer
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing output file: %w", cerr)
			}
		}()
		output = f
	} else {
		output = cmd.OutOrStdout()
	}

	opts := format.NewSerializeOptions()
	opts.Pretty = pretty
	if err := serializer.Serialize(output, []hub.Entry{entry}, opts); err != nil {
		return fmt.Errorf("serializing: %w", err)
	}

	if printPDF && entry.PdfLink != "" {
		fmt.Fprintln(cmd.ErrOrStderr(), entry.PdfLink)
	}
	return nil
}
