package cli

import (
	"fmt"

	"github.com/dotkit-labs/dotkit/internal/aactivator"
	"github.com/spf13/cobra"
)

var aactivatorDir string

func init() {
	aactivatorCmd.Flags().StringVarP(&aactivatorDir, "dir", "C", ".", "Project directory")
	rootCmd.AddCommand(aactivatorCmd)
}

var aactivatorCmd = &cobra.Command{
	Use:   "setup-aactivator [venv]",
	Short: "Create aactivator hooks for a virtualenv",
	Long: `Create .activate.sh and .deactivate.sh so aactivator activates the
virtualenv when entering the project directory. venv defaults to "venv".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		venv := aactivator.DefaultVenv
		if len(args) == 1 {
			venv = args[0]
		}
		if err := aactivator.Setup(aactivatorDir, venv); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "aactivator set up for %s\n", venv)
		return nil
	},
}
