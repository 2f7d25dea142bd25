package cmd

import (
	"log/slog"
	"os"
	"time"

	igit "github.com/tvandinther/gitvault/internal/git"
	"github.com/tvandinther/gitvault/pkg/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type App struct {
	root *cobra.Command
}

func New() *App {
	app := &App{}

	root := &cobra.Command{
		Use:           "gitvault",
		Short:         "Persist branch upstream-tracking metadata in a git-backed store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("store", "", "path to the store root directory")
	root.PersistentFlags().String("author-name", "gitvault", "author name for store commits")
	root.PersistentFlags().String("author-email", "gitvault@localhost", "author email for store commits")

	viper.BindPFlag("store", root.PersistentFlags().Lookup("store"))
	viper.BindPFlag("author.name", root.PersistentFlags().Lookup("author-name"))
	viper.BindPFlag("author.email", root.PersistentFlags().Lookup("author-email"))

	viper.SetEnvPrefix("gitvault")
	viper.AutomaticEnv()

	viper.SetConfigName(".gitvault")
	viper.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
	}
	viper.AddConfigPath(".")
	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("loaded config file", "path", viper.ConfigFileUsed())
	}

	root.AddCommand(
		newTargetCmd(),
		newBranchesCmd(),
		newSessionCmd(),
		newPushCmd(),
		newWatchCmd(),
	)

	app.root = root

	return app
}

func (a *App) WithDefaultLogger() *App {
	var logLevel slog.Level
	level, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = slog.LevelWarn
	} else {
		err := logLevel.UnmarshalText([]byte(level))
		if err != nil {
			panic("Invalid value set for 'LOG_LEVEL'. Use a valid level string for unmarshalling with the log/slog package.")
		}
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	return a
}

func (a *App) Run() error {
	return a.root.Execute()
}

func openStore() (*store.Store, error) {
	root := viper.GetString("store")
	if root == "" {
		root = ".gitvault-store"
	}

	return store.Open(root,
		store.WithAuthor(&igit.Author{
			Name:  viper.GetString("author.name"),
			Email: viper.GetString("author.email"),
		}),
		store.WithLockRetryInterval(50*time.Millisecond),
	)
}
