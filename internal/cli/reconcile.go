package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yash0834/lovelane-cloudinary-api/internal/jobs/reconcile"
	pgrepo "github.com/yash0834/lovelane-cloudinary-api/internal/repo/postgres"
	redrepo "github.com/yash0834/lovelane-cloudinary-api/internal/repo/redis"
	eventsvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/events"
	matchessvc "github.com/yash0834/lovelane-cloudinary-api/internal/services/matches"
)

func NewReconcileCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		batchSize int
		notify    bool
	)

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Create matches for mutual likes that are missing one",
		Long: `Run one reconcile sweep over the swipe ledger.

Every pair of reciprocal likes without a match gets one. With --notify the
participants also receive match.created events over Redis.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := openRuntime(cmd.Context(), rootOpts)
			if err != nil {
				return err
			}
			defer rt.Close()

			if batchSize <= 0 {
				batchSize = rt.cfg.Reconcile.BatchSize
			}

			store := pgrepo.NewStore(rt.pool, rt.cfg.Postgres.QueryTimeout)
			deps := matchessvc.Dependencies{
				Matches: store.Matches,
				Swipes:  store.Swipes,
				Logger:  rt.log,
			}
			if notify {
				client := redrepo.NewClient(rt.cfg.Redis.Addr, rt.cfg.Redis.Password, rt.cfg.Redis.DB)
				defer client.Close()
				events := redrepo.NewEventRepo(client, rt.cfg.Redis.ChannelPrefix)
				deps.Notifier = eventsvc.NewNotifier(events, rt.log)
			}

			created, err := reconcile.New(matchessvc.NewService(deps), batchSize, rt.log).Run(cmd.Context())
			fmt.Fprintf(cmd.OutOrStdout(), "created %d match(es)\n", created)
			return err
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch-size", 0, "pairs per batch (defaults to reconcile.batch_size)")
	cmd.Flags().BoolVar(&notify, "notify", false, "publish match.created events for new matches")

	return cmd
}
