package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshsymonds/lantern/internal/config"
	"github.com/joshsymonds/lantern/internal/database"
	"github.com/joshsymonds/lantern/internal/importer"
	"github.com/joshsymonds/lantern/internal/query"
	"github.com/joshsymonds/lantern/internal/store"
	"github.com/joshsymonds/lantern/pkg/logger"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	flagConfig    string
	flagRoot      string
	flagClient    string
	flagDebug     bool
	flagLogFormat string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "lantern",
	Short: "Penetration-test finding storage and reporting",
	Long: `Lantern stores security findings and assets per client, keeping a
SQLite database and a browsable markdown tree in step with each other.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		path := flagConfig
		if path == "" {
			path = config.DefaultPath()
		}

		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}

		if flagRoot != "" {
			cfg.Root = flagRoot
		}
		if flagClient != "" {
			cfg.Client = flagClient
		}
		if flagDebug {
			cfg.Debug = true
		}
		if cmd.Flags().Changed("log-format") {
			cfg.LogFormat = flagLogFormat
		}

		logger.SetupLogger(cfg.Debug, cfg.LogFormat)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Config file (default: ~/.lantern.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "Storage root directory (default: ~/.lantern)")
	rootCmd.PersistentFlags().StringVarP(&flagClient, "client", "c", "", "Client to operate on")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "Log format (text or json)")
}

// session bundles the handles every data command needs.
type session struct {
	store  *store.Store
	db     *database.DB
	client string
}

func (s *session) close() {
	_ = s.db.Close()
}

func (s *session) importer() *importer.Coordinator {
	return importer.New(s.db, s.store, s.client, logger.GetGlobalLogger())
}

func (s *session) query() *query.Facade {
	return query.New(s.db, s.store, s.client, logger.GetGlobalLogger())
}

// openStore opens the storage root without selecting a client.
func openStore() (*store.Store, error) {
	return store.New(cfg.Root, logger.GetGlobalLogger())
}

// openSession resolves the active client and opens its database. The
// client comes from --client, then the config file, then the stored
// default pointer.
func openSession() (*session, error) {
	st, err := openStore()
	if err != nil {
		return nil, err
	}

	client := cfg.Client
	if client == "" {
		client, err = st.DefaultClient()
		if err != nil {
			return nil, err
		}
	}
	if client == "" {
		return nil, fmt.Errorf("no client selected: pass --client or set a default with \"lantern client default <name>\"")
	}
	if !st.ClientExists(client) {
		return nil, fmt.Errorf("client %q does not exist: create it with \"lantern client create %s\"", client, client)
	}

	dbPath, err := st.DatabasePath(client)
	if err != nil {
		return nil, err
	}
	db, err := database.New(dbPath)
	if err != nil {
		return nil, err
	}

	return &session{store: st, db: db, client: client}, nil
}
