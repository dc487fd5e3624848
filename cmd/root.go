package cmd

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/tutorhub/internal/geo"
	"github.com/spigell/tutorhub/internal/logger"
	"github.com/spigell/tutorhub/internal/marketplace"
	"github.com/spigell/tutorhub/internal/secrets"
	"github.com/spigell/tutorhub/internal/session"
)

const (
	app       = "tutorhub"
	envPrefix = "TUTORHUB"

	loginHint = "run 'tutorhub login' first"
)

type Config struct {
	APIURL      string          `mapstructure:"api-url"`
	UserAgent   string          `mapstructure:"user-agent"`
	Timeout     time.Duration   `mapstructure:"timeout"`
	SessionFile string          `mapstructure:"session-file"`
	Geoapify    *GeoapifyConfig `mapstructure:"geoapify"`
	Listing     *ListingConfig  `mapstructure:"listing"`
}

type GeoapifyConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	URL        string `mapstructure:"url"`
}

type ListingConfig struct {
	PageSize int    `mapstructure:"page-size"`
	Sort     string `mapstructure:"sort"`
	Locale   string `mapstructure:"locale"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "tutorhub is a cli for the tutoring marketplace: find tutors and jobs, study, manage your profile",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("geoapify.api-key-file", "GEOAPIFY_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEOAPIFY_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is tutorhub.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("log-file", "", "write logs to this file instead of stderr")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("log-file", rootCmd.PersistentFlags().Lookup("log-file"))

	setDefaults(viper.GetViper())
}

// setDefaults registers every key so that environment variables can
// override keys missing from the config file.
func setDefaults(v *viper.Viper) {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}

	v.SetDefault("api-url", "")
	v.SetDefault("user-agent", "")
	v.SetDefault("timeout", "10s")
	v.SetDefault("session-file", filepath.Join(home, "."+app, "session.yaml"))
	v.SetDefault("geoapify.api-key", "")
	v.SetDefault("geoapify.url", geo.DefaultURL)
	v.SetDefault("listing.page-size", 0)
	v.SetDefault("listing.sort", "")
	v.SetDefault("listing.locale", "en")
}

func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// The config file is optional, but a broken one is not.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config.Geoapify == nil {
		config.Geoapify = &GeoapifyConfig{}
	}
	if config.Listing == nil {
		config.Listing = &ListingConfig{}
	}

	return config, nil
}

// env is what every command needs: the config, a logger, the session and
// the backend client.
type env struct {
	config  *Config
	logger  *zap.Logger
	session *session.Store
	api     *marketplace.Client
}

func setup() *env {
	logger, err := logger.New(logger.Options{
		JSON:    viper.GetBool("json"),
		Debug:   viper.GetBool("debug"),
		File:    viper.GetString("log-file"),
		App:     app,
		Version: version,
	})
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Debug("starting with config",
		zap.String("api-url", config.APIURL),
		zap.String("session-file", config.SessionFile),
		zap.Duration("timeout", config.Timeout),
	)

	store, err := session.Open(config.SessionFile, logger)
	if err != nil {
		logger.Fatal("opening the session", zap.Error(err),
			zap.String("hint", "remove the session file or run 'tutorhub logout'"),
		)
	}

	store.Subscribe(func(e session.Event) {
		email := ""
		if e.User != nil {
			email = e.User.Email
		}
		logger.Debug("session changed", zap.Stringer("event", e.Kind), zap.String("user", email))
	})

	api := marketplace.New(logger, store)
	if config.APIURL != "" {
		api.APIURL = config.APIURL
	}
	if config.UserAgent != "" {
		api.UserAgent = config.UserAgent
	}
	if config.Timeout > 0 {
		api.HTTPClient.Timeout = config.Timeout
	}

	return &env{
		config:  config,
		logger:  logger,
		session: store,
		api:     api,
	}
}

// requireRole stops the command unless someone with role is signed in.
// An empty role accepts any signed in user.
func (e *env) requireRole(role string) *session.User {
	user, err := e.session.RequireRole(role)
	switch {
	case errors.Is(err, session.ErrNotAuthenticated):
		e.logger.Fatal("not signed in", zap.String("hint", loginHint))
	case errors.Is(err, session.ErrRoleMismatch):
		e.logger.Fatal("this command is not available for your account", zap.Error(err))
	case err != nil:
		e.logger.Fatal("checking the session", zap.Error(err))
	}

	if user == nil {
		user = &session.User{Role: e.session.Role()}
	}
	return user
}

// fail reports err and exits. A rejected token also ends the local session.
func (e *env) fail(msg string, err error) {
	if errors.Is(err, marketplace.ErrUnauthorized) && e.session.Token() != "" {
		if clearErr := e.session.Clear(); clearErr != nil {
			e.logger.Warn("clearing the session", zap.Error(clearErr))
		}
		e.logger.Fatal(msg, zap.Error(err), zap.String("hint", loginHint))
	}

	e.logger.Fatal(msg, zap.Error(err))
}

func (e *env) geocoder() *geo.Client {
	key, err := secrets.Load(secrets.Source{
		Name:  "geoapify api key",
		Value: e.config.Geoapify.APIKey,
		Env:   "GEOAPIFY_API_KEY",
		File:  e.config.Geoapify.APIKeyFile,
	})
	if err != nil {
		e.logger.Fatal(
			"loading geoapify api key",
			zap.Error(err),
			zap.String("hint", "set GEOAPIFY_API_KEY_FILE environment variable or the 'geoapify.api-key-file' key in the configuration file"),
		)
	}

	client := geo.New(key, e.logger)
	if e.config.Geoapify.URL != "" {
		client.BaseURL = e.config.Geoapify.URL
	}
	if e.config.Timeout > 0 {
		client.HTTPClient.Timeout = e.config.Timeout
	}
	return client
}
