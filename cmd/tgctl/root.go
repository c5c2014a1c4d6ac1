package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kochabonline/tgkit/core/bot/telegram"
	"github.com/kochabonline/tgkit/core/http"
	"github.com/kochabonline/tgkit/log"
	"github.com/kochabonline/tgkit/metrics/prometheus"
)

type app struct {
	configFile string
	token      string
	api        string
	logLevel   string

	cfg     *Config
	client  *telegram.Telegram
	metrics *prometheus.Prometheus
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "tgctl",
		Short:         "tgctl calls the Telegram Bot API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "help" || (cmd.HasParent() && cmd.Parent().Name() == "completion") {
				return nil
			}
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "config file (default ./tgctl.yaml or $HOME/.config/tgctl/tgctl.yaml)")
	flags.StringVar(&a.token, "token", "", "bot token")
	flags.StringVar(&a.api, "api", "", "Bot API prefix the token is appended to")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(a.commands()...)
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	overrides := make(map[string]any)
	if cmd.Flags().Changed("token") {
		overrides["telegram.token"] = a.token
	}
	if cmd.Flags().Changed("api") {
		overrides["telegram.api"] = a.api
	}
	if cmd.Flags().Changed("log-level") {
		overrides["log.level"] = a.logLevel
	}

	cfg, err := loadConfig(a.configFile, overrides)
	if err != nil {
		return err
	}
	a.cfg = cfg

	mask, err := cfg.Log.Mask.Desensitizer()
	if err != nil {
		return err
	}
	logOpts := []log.Option{log.WithLevel(log.ParseLevel(cfg.Log.Level)), log.WithDesensitize(mask)}
	if cfg.Log.File {
		log.SetGlobalLogger(log.NewMulti(cfg.Log.Config, logOpts...))
	} else {
		log.SetGlobalLogger(log.New(logOpts...))
	}

	if cfg.Metrics.Textfile != "" {
		a.metrics = prometheus.NewPrometheus(prometheus.Config{})
	}
	a.client = newClient(cfg.Telegram, a.metrics)
	return nil
}

// newClient builds the bot client; the timeout applies to the pooled client
// as well.
func newClient(cfg TelegramConfig, metrics *prometheus.Prometheus) *telegram.Telegram {
	opts := []telegram.Option{
		telegram.WithApi(cfg.Api),
		telegram.WithTimeout(cfg.Timeout),
	}
	if metrics != nil {
		opts = append(opts, telegram.WithMetrics(metrics))
	}

	if cfg.Pool {
		return telegram.NewPool(cfg.Token, opts...)
	}
	return telegram.New(cfg.Token, opts...)
}

// call runs one Bot API call, prints the raw answer and records metrics.
func (a *app) call(cmd *cobra.Command, fn func(context.Context, *telegram.Telegram) (*http.Response, error)) error {
	defer a.flushMetrics()

	resp, err := fn(cmd.Context(), a.client)
	if resp != nil {
		fmt.Fprintln(cmd.OutOrStdout(), resp.String())
	}
	return err
}

func (a *app) flushMetrics() {
	if a.metrics == nil {
		return
	}
	if err := a.metrics.WriteToTextfile(a.cfg.Metrics.Textfile); err != nil {
		log.Warn().Err(err).Str("file", a.cfg.Metrics.Textfile).Msg("write metrics")
	}
}
