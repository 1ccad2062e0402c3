// Command vakctl is a terminal client for the tutor API. It keeps the
// latest answer and the practice handoff in a local or shared store so the
// chat and practice commands can be run as separate invocations.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/vaktutor/internal/client/api"
	"github.com/yungbote/vaktutor/internal/client/fetch"
	"github.com/yungbote/vaktutor/internal/client/handoff"
	"github.com/yungbote/vaktutor/internal/client/kv"
	"github.com/yungbote/vaktutor/internal/client/respcache"
	"github.com/yungbote/vaktutor/internal/platform/httpx"
	"github.com/yungbote/vaktutor/internal/platform/logger"
)

var (
	// Global flags
	configPath string
	apiURL     string
	token      string
	storeKind  string
	verbose    bool
	timeout    time.Duration

	cfg  cliConfig
	sess *session
)

// session holds what every subcommand shares for one invocation.
type session struct {
	log     *logger.Logger
	store   kv.Store
	closer  io.Closer
	api     *api.Client
	handoff *handoff.Store
	cache   *respcache.Cache
	timeout time.Duration
}

func (s *session) Close() {
	if s == nil {
		return
	}
	if s.closer != nil {
		if err := s.closer.Close(); err != nil {
			s.log.Warn("Closing store failed", "error", err)
		}
	}
	s.log.Sync()
}

var rootCmd = &cobra.Command{
	Use:   "vakctl",
	Short: "Terminal client for the VAK tutor",
	Long: `vakctl talks to the tutor API.

Take the learning style test, ask the tutor questions, work through
practice tasks and fetch generated study material.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if err := loaded.applyEnv(os.Getenv); err != nil {
			return err
		}
		flags := cmd.Flags()
		if flags.Changed("api-url") {
			loaded.APIURL = apiURL
		}
		if flags.Changed("token") {
			loaded.Token = token
		}
		if flags.Changed("store") {
			loaded.Store = storeKind
		}
		if flags.Changed("timeout") {
			loaded.FetchTimeout = timeout
		}
		if verbose {
			loaded.LogMode = "development"
		}
		cfg = loaded

		s, err := openSession(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		sess = s
		return nil
	},
}

func openSession(ctx context.Context, c cliConfig) (*session, error) {
	log, err := logger.New(c.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	store, closer, err := kv.Open(ctx, kv.Config{
		Kind:     c.Store,
		StateDir: c.StateDir,
		Redis: kv.RedisConfig{
			Addr:     c.RedisAddr,
			Password: c.RedisPassword,
			DB:       c.RedisDB,
			Prefix:   "vaktutor:" + tokenSubject(c.Token) + ":",
		},
	}, log)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", c.Store, err)
	}
	client, err := api.New(api.Config{
		BaseURL: c.APIURL,
		Token:   c.Token,
		Retry:   httpx.DefaultPolicy(),
	}, log)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	return &session{
		log:     log,
		store:   store,
		closer:  closer,
		api:     client,
		handoff: handoff.New(store, log),
		cache:   respcache.New(store, log),
		timeout: c.FetchTimeout,
	}, nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "Config file")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Tutor API base URL (or set VAKTUTOR_API_URL)")
	rootCmd.PersistentFlags().StringVar(&token, "token", "", "Bearer token (or set VAKTUTOR_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "Local state store: file, redis or memory")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", fetch.DefaultTimeout, "Per-action timeout")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(styleCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(downloadsCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := rootCmd.ExecuteContext(ctx)
	sess.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
