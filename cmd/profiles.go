package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/valuegraph/profile"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage extraction profiles",
	Long:  `List and inspect the built-in extraction profiles.`,
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List built-in profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := profile.NewRegistry()
		if err != nil {
			return err
		}

		names := registry.List()
		if len(names) == 0 {
			fmt.Println("No profiles found")
			return nil
		}

		fmt.Println("Built-in profiles:")
		for _, name := range names {
			p, _ := registry.Get(name)
			desc := ""
			if p.SourceInfo.Name != "" {
				desc = " - " + p.SourceInfo.Name
			}
			fmt.Printf("  %s%s\n", name, desc)
		}

		return nil
	},
}

var profilesShowCmd = &cobra.Command{
	Use:   "show <profile>",
	Short: "Show a profile's full definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := profile.Resolve(args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(p)
	},
}

func init() {
	profilesCmd.AddCommand(profilesListCmd)
	profilesCmd.AddCommand(profilesShowCmd)
}
