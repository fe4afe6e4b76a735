package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lehigh-university-libraries/hepbib/profile"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Inspect source profiles",
	Long: `List and inspect the source profiles used to extract entries.

User profiles in $HEPBIB_PROFILE_DIR replace embedded profiles of the same name.`,
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := profile.LoadDefault()
		if err != nil {
			return err
		}

		names := registry.List()
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No profiles found")
			return nil
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Available profiles:")
		for _, name := range names {
			p, _ := registry.Get(name)
			desc := ""
			if p.Description != "" {
				desc = " - " + p.Description
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s (%s, %s)%s\n", name, p.Kind, p.Authorship, desc)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "\nUser profile directory: %s\n", profile.UserProfileDir())
		return nil
	},
}

var profilesShowCmd = &cobra.Command{
	Use:   "show [profile]",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := getProfile(args[0])
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(p)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var profilesFieldsCmd = &cobra.Command{
	Use:   "fields [profile]",
	Short: "List field rules in a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := getProfile(args[0])
		if err != nil {
			return err
		}

		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "Fields in %s profile:\n\n", p.Name)
		fmt.Fprintf(w, "%-15s %-45s %s\n", "Field", "Queries", "Options")
		fmt.Fprintf(w, "%-15s %-45s %s\n", "-----", "-------", "-------")

		fields := make([]string, 0, len(p.Fields))
		for field := range p.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		for _, field := range fields {
			rule := p.Fields[field]
			var opts []string
			if rule.Required {
				opts = append(opts, "required")
			}
			if rule.Multi {
				opts = append(opts, "multi")
			}
			if rule.Transform != "" {
				opts = append(opts, "transform:"+rule.Transform)
			}
			if rule.Default != "" {
				opts = append(opts, fmt.Sprintf("default:%q", rule.Default))
			}
			fmt.Fprintf(w, "%-15s %-45s %s\n", field, strings.Join(rule.Queries, " | "), strings.Join(opts, ", "))
		}

		if len(p.PDF.Fulltext) > 0 || len(p.PDF.Links) > 0 {
			fmt.Fprintf(w, "\nPDF fulltext: %s\n", strings.Join(p.PDF.Fulltext, " | "))
			fmt.Fprintf(w, "PDF links:    %s\n", strings.Join(p.PDF.Links, " | "))
		}

		return nil
	},
}

var profilesInitForce bool

var profilesInitCmd = &cobra.Command{
	Use:   "init <source>",
	Short: "Copy an embedded profile into the user profile directory",
	Long: `Copy an embedded profile into the user profile directory for editing.
The copy replaces the embedded profile on the next run.

Examples:
  hepbib profiles init cds
  $EDITOR "$(hepbib profiles init inspire --force)"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := profile.Init(args[0], profilesInitForce)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var profilesDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a user profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := profile.Delete(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted profile %q\n", args[0])
		return nil
	},
}

func getProfile(name string) (*profile.Profile, error) {
	registry, err := profile.LoadDefault()
	if err != nil {
		return nil, err
	}
	p, ok := registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("unknown profile: %s", name)
	}
	return p, nil
}

func init() {
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
	profilesCmd.AddCommand(profilesFieldsCmd)
	profilesCmd.AddCommand(profilesInitCmd)
	profilesCmd.AddCommand(profilesDeleteCmd)

	profilesInitCmd.Flags().BoolVar(&profilesInitForce, "force", false, "Overwrite an existing user profile")
}
