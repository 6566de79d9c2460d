package cli

import (
	"github.com/dotkit-labs/dotkit/internal/config"
	"github.com/dotkit-labs/dotkit/internal/git"
	"github.com/dotkit-labs/dotkit/internal/pushall"
	"github.com/spf13/cobra"
)

var (
	pushAllForce  bool
	pushAllRemote string
	pushAllDryRun bool
)

func init() {
	pushAllCmd.Flags().BoolVarP(&pushAllForce, "force", "f", false, "Push with --force instead of --force-with-lease")
	pushAllCmd.Flags().StringVar(&pushAllRemote, "remote", "", "Remote to push to (default from push.remote)")
	pushAllCmd.Flags().BoolVar(&pushAllDryRun, "dry-run", false, "Print the branch chain without pushing")
	rootCmd.AddCommand(pushAllCmd)
}

var pushAllCmd = &cobra.Command{
	Use:   "push-all [base_ref]",
	Short: "Push every branch in a stacked PR chain",
	Long: `Push all branches decorating commits between base_ref and HEAD in one
atomic push. Use it after "git rebase --update-refs" to publish a whole
chain of stacked pull requests at once.

base_ref defaults to push.base (main). Remote-tracking refs and base_ref
itself are left out of the push.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := pushall.Options{
			BaseRef: config.Get(config.KeyPushBase),
			Remote:  config.Get(config.KeyPushRemote),
			Force:   git.ForceWithLease,
			DryRun:  pushAllDryRun,
			Out:     cmd.OutOrStdout(),
		}
		if len(args) == 1 {
			opts.BaseRef = args[0]
		}
		if pushAllRemote != "" {
			opts.Remote = pushAllRemote
		}
		if pushAllForce {
			opts.Force = git.Force
		}

		_, err := pushall.Run(cmd.Context(), git.New(newRunner()), opts)
		return err
	},
}
