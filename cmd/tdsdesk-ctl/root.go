package main

import (
	"context"

	"tdsdesk/internal/bootstrap"
	"tdsdesk/internal/core/version"
	"tdsdesk/internal/modkit"
	"tdsdesk/internal/platform/config"
	"tdsdesk/internal/platform/logger"
	"tdsdesk/internal/platform/store"

	"github.com/spf13/cobra"
)

var envFiles []string

var rootCmd = &cobra.Command{
	Use:          "tdsdesk-ctl",
	Short:        "Operator commands for the TDS Desk assistant",
	Version:      version.Info().String(),
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return bootstrap.LoadEnv(envFiles...)
	},
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env", nil, "dotenv files to load (default .env)")
}

// session is the store plus the module deps one command needs
type session struct {
	root  config.Conf
	store *store.Store
	deps  modkit.Deps
}

// open connects the configured backends; schema migrations are left to the migrate command
func open(ctx context.Context, tag string) (*session, error) {
	root := config.New()
	st, err := bootstrap.OpenStore(ctx, root, tag, false)
	if err != nil {
		return nil, err
	}
	return &session{
		root:  root,
		store: st,
		deps: modkit.Deps{
			Cfg:   root,
			PG:    st.PG,
			CH:    st.CH,
			Redis: st.Redis,
			Log:   *logger.Get(),
		},
	}, nil
}

func (s *session) close() {
	if err := s.store.Close(context.Background()); err != nil {
		logger.Get().Error().Err(err).Msg("failed to close store")
	}
}
