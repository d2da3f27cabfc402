// Package cli defines the command-line interface: the API server plus
// model management and diagnostic commands.
package cli

import (
	"context"
	"fmt"
	"time"

	"translateapi/internal/artifact"
	"translateapi/internal/config"
	"translateapi/internal/core"
	"translateapi/internal/modelcache"
	"translateapi/internal/registry"
	"translateapi/internal/runtime"
	"translateapi/internal/server"
	"translateapi/internal/storage"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Execute runs the root command.
func Execute(logger core.Logger) error {
	initViper()
	return NewRootCommand(logger).Execute()
}

func initViper() {
	viper.SetEnvPrefix("TRANSLATEAPI")
	viper.AutomaticEnv()
}

// NewRootCommand creates and configures the root cobra command.
// Running without a subcommand starts the server, matching the
// container entrypoint.
func NewRootCommand(logger core.Logger) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "translateapi",
		Short: "Translation model serving API",
		Long: `translateapi serves pre-trained translation models over HTTP.

Examples:
  translateapi serve                       # Start the API server
  translateapi predict en-fr "Hello"       # Translate one text
  translateapi upload en-fr                # Push local artifacts to S3
  translateapi download en-fr              # Pull artifacts from S3
  translateapi list                        # List stored artifacts`,
		Version:       core.APIVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(logger)
		},
	}

	rootCmd.AddCommand(
		newServeCommand(logger),
		newPredictCommand(logger),
		newUploadCommand(logger),
		newDownloadCommand(logger),
		newListCommand(logger),
	)
	return rootCmd
}

func newServeCommand(logger core.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the translation API server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(logger)
		},
	}

	cmd.Flags().String("host", "", "Bind address (overrides API_HOST)")
	cmd.Flags().String("port", "", "Bind port (overrides API_PORT)")
	cmd.Flags().String("log-level", "", "Log level (overrides API_LOG_LEVEL)")
	viper.BindPFlag("host", cmd.Flags().Lookup("host"))
	viper.BindPFlag("port", cmd.Flags().Lookup("port"))
	viper.BindPFlag("log-level", cmd.Flags().Lookup("log-level"))

	return cmd
}

func runServe(logger core.Logger) error {
	cfg, err := config.LoadFromEnv(logger)
	if err != nil {
		return err
	}
	applyOverrides(&cfg)

	st, err := storage.InitStorage(cfg.StatsRedisURL, cfg.StatsFilePath, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize stats storage: %w", err)
	}
	defer func() { _ = st.Close() }()

	srv, err := server.NewServer(server.Options{
		Config:  cfg,
		Logger:  logger,
		Storage: st,
	})
	if err != nil {
		return err
	}
	defer func() { _ = srv.Close() }()

	return srv.Run()
}

// applyOverrides lets command-line flags and TRANSLATEAPI_* variables
// win over the plain environment configuration.
func applyOverrides(cfg *config.Config) {
	if v := viper.GetString("host"); v != "" {
		cfg.Host = v
	}
	if v := viper.GetString("port"); v != "" {
		cfg.Port = v
	}
	if v := viper.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
}

func newPredictCommand(logger core.Logger) *cobra.Command {
	var maxLength, numBeams int

	cmd := &cobra.Command{
		Use:   "predict <pair> <text>",
		Short: "Translate one text through the configured runtime",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pair, text := args[0], args[1]

			cfg, err := config.LoadFromEnv(logger)
			if err != nil {
				return err
			}

			reg, err := loadRegistry(cfg, logger)
			if err != nil {
				return err
			}
			store, err := artifact.NewStore(cfg, logger)
			if err != nil {
				return err
			}

			models := modelcache.New(modelcache.Config{
				Registry:      reg,
				Store:         store,
				Runtime:       runtime.NewHTTPRuntime(cfg.RuntimeURL, logger),
				StorageMode:   cfg.StorageMode,
				LocalModelDir: cfg.LocalModelDir,
				Logger:        logger,
			})

			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
			defer cancel()
			defer models.Close(context.Background())

			translated, err := models.Translate(ctx, pair, core.TranslateRequest{
				Text:          text,
				MaxLength:     maxLength,
				NumBeams:      numBeams,
				EarlyStopping: true,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), translated)
			return nil
		},
	}

	cmd.Flags().IntVar(&maxLength, "max-length", 0, "Maximum generated sequence length")
	cmd.Flags().IntVar(&numBeams, "num-beams", 0, "Beam search width")
	return cmd
}

func newUploadCommand(logger core.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <pair>",
		Short: "Upload local model artifacts to the object store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnv(logger)
			if err != nil {
				return err
			}
			if cfg.StorageMode != core.StorageModeS3 {
				return fmt.Errorf("upload requires MODEL_STORAGE_MODE '%s', current mode is '%s'",
					core.StorageModeS3, cfg.StorageMode)
			}

			store, err := artifact.NewStore(cfg, logger)
			if err != nil {
				return err
			}
			loc := artifact.Locator(args[0], cfg.LocalModelDir)
			return store.UploadModel(cmd.Context(), loc)
		},
	}
}

func newDownloadCommand(logger core.Logger) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "download <pair>",
		Short: "Download model artifacts from the object store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnv(logger)
			if err != nil {
				return err
			}
			if cfg.StorageMode != core.StorageModeS3 {
				return fmt.Errorf("download requires MODEL_STORAGE_MODE '%s', current mode is '%s'",
					core.StorageModeS3, cfg.StorageMode)
			}
			if overwrite {
				cfg.OverwriteExisting = true
			}

			store, err := artifact.NewStore(cfg, logger)
			if err != nil {
				return err
			}
			loc := artifact.Locator(args[0], cfg.LocalModelDir)
			return store.FetchModel(cmd.Context(), loc)
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing local artifacts")
	return cmd
}

func newListCommand(logger core.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "list [prefix]",
		Short: "List stored model artifacts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromEnv(logger)
			if err != nil {
				return err
			}

			store, err := artifact.NewStore(cfg, logger)
			if err != nil {
				return err
			}
			prefix := ""
			if len(args) == 1 {
				prefix = args[0]
			}

			objects, err := store.List(cmd.Context(), prefix)
			if err != nil {
				return err
			}
			if len(objects) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No artifacts found.")
				return nil
			}
			for _, object := range objects {
				fmt.Fprintf(cmd.OutOrStdout(), "%12d  %s\n", object.Size, object.Key)
			}
			return nil
		},
	}
}

func loadRegistry(cfg config.Config, logger core.Logger) (*registry.Registry, error) {
	mappings, err := config.LoadPairMappings(cfg.ModelsConfigPath)
	if err != nil {
		return nil, err
	}
	languages, err := config.LoadLanguageNames(cfg.LanguagesConfigPath)
	if err != nil {
		return nil, err
	}
	return registry.New(mappings, languages, logger), nil
}
