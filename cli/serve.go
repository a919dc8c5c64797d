package cli

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/stsysd/axisgraph/api"
	"github.com/stsysd/axisgraph/config"
	"github.com/stsysd/axisgraph/db"
	"github.com/stsysd/axisgraph/store"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Run the HTTP server.

Settings are read from the environment: AXISGRAPH_API_KEY (required),
AXISGRAPH_DATA_DIR, AXISGRAPH_SERVER_PORT, AXISGRAPH_LOG_LEVEL and
AXISGRAPH_THEME_FILE.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// 設定の読み込み
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Port = port
			}

			logger := root.logger
			if !cmd.Flags().Changed("log-level") {
				logger = config.NewLogger(cfg.LogLevel, cmd.ErrOrStderr())
			}

			theme, err := config.LoadTheme(cfg.ThemeFile)
			if err != nil {
				return err
			}

			// SQLiteストアの初期化（マイグレーション関数を渡す）
			sqliteStore, err := store.NewSQLiteStore(cfg.DataDir, db.Migrate)
			if err != nil {
				return err
			}
			defer sqliteStore.Close()
			logger.Info().Str("data_dir", cfg.DataDir).Msg("store opened")

			// サーバーインスタンスの作成
			server := api.NewServer(sqliteStore, cfg, api.WithLogger(logger), api.WithTheme(theme))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := server.Run(ctx, ":"+cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (default $AXISGRAPH_SERVER_PORT or 8080)")
	return cmd
}
