package main

import (
	"fmt"
	"strings"

	"tdsdesk/internal/bootstrap"
	"tdsdesk/internal/modkit/module"

	adom "tdsdesk/internal/services/assistant/domain"
	assistantmod "tdsdesk/internal/services/assistant/module"
	idom "tdsdesk/internal/services/interactions/domain"
	intermod "tdsdesk/internal/services/interactions/module"
	productsmod "tdsdesk/internal/services/products/module"
	turnstatsmod "tdsdesk/internal/services/turnstats/module"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask <question...>",
	Short: "Run one question through the assistant and print the answer",
	Long: `Runs the same turn as POST /api/v1/query: the identifier is extracted,
the catalog is searched and the answer is composed and recorded as an interaction.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := open(ctx, "ctl")
		if err != nil {
			return err
		}
		defer s.close()

		catalog, err := bootstrap.Catalog(s.root)
		if err != nil {
			return err
		}
		oracle := bootstrap.NewOracle(ctx, s.root, catalog)

		pp := module.MustPortsOf[productsmod.Ports](productsmod.New(s.deps))
		ip := module.MustPortsOf[intermod.Ports](intermod.New(s.deps, oracle))
		tp := module.MustPortsOf[turnstatsmod.Ports](turnstatsmod.New(s.deps))
		ap := module.MustPortsOf[assistantmod.Ports](assistantmod.New(s.deps, assistantmod.Wiring{
			Oracle:   oracle,
			Replies:  catalog,
			Matcher:  pp.Matcher,
			Recorder: ip.Recorder,
			Sink:     tp.Sink,
		}))

		res, err := ap.Ask.Ask(ctx, adom.Turn{
			Question: strings.Join(args, " "),
			Channel:  idom.ChannelHTTP,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, res.Answer)
		fmt.Fprintf(out, "\nturn %s identifier %q matched=%t degraded=%t\n", res.TurnID, res.Identifier, res.Matched(), res.Degraded)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
