package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/valuegraph/profile"
	"github.com/lehigh-university-libraries/valuegraph/runcfg"
)

var (
	validateRunConfig string
	validateProfile   string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a run configuration or profile without touching input",
	Long: `Validate configuration offline: the run config's structure, every
referenced profile's internal consistency, and the filter bindings.

Useful for catching configuration errors before committing to a
multi-hour extraction.

Examples:
  valuegraph validate --run-config run.yaml
  valuegraph validate --profile my-profile.json`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateRunConfig, "run-config", "", "Run configuration YAML file")
	validateCmd.Flags().StringVar(&validateProfile, "profile", "", "Profile JSON file or built-in profile name")
	validateCmd.MarkFlagsOneRequired("run-config", "profile")
	validateCmd.MarkFlagsMutuallyExclusive("run-config", "profile")
}

func runValidate(cmd *cobra.Command, args []string) error {
	if validateProfile != "" {
		p, err := profile.Resolve(validateProfile)
		if err != nil {
			return err
		}
		if err := profile.Validate(p).Error(); err != nil {
			return err
		}
		fmt.Printf("profile %s is valid\n", validateProfile)
		return nil
	}

	cfg, err := runcfg.Load(validateRunConfig)
	if err != nil {
		return err
	}

	for i := range cfg.Tasks {
		task := &cfg.Tasks[i]
		p, err := profile.Resolve(task.Profile)
		if err != nil {
			return fmt.Errorf("task %d: %w", i, err)
		}
		if verr := profile.Validate(p).Error(); verr != nil {
			return fmt.Errorf("task %d: profile %s: %w", i, task.Profile, verr)
		}
		if ferr := runcfg.CheckFilters(task, p); ferr != nil {
			return fmt.Errorf("task %d: %w", i, ferr)
		}
	}

	fmt.Printf("run config %s is valid (%d tasks)\n", validateRunConfig, len(cfg.Tasks))
	return nil
}
