package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"eventgo/internal/app"
	"eventgo/internal/config"
	appLog "eventgo/internal/log"
)

// flagConfig holds CLI flag values that override the config file.
type flagConfig struct {
	configPath string
	listen     string
	apiURL     string
	debug      bool
}

func main() {
	appLog.Info("eventgo starting", "version", "0.1.0")
	defer appLog.Sync()

	flags := parseFlags()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		if conf == nil {
			appLog.Error("failed to load config", err, "config_path", flags.configPath)
			os.Exit(1)
		}
		appLog.Error("failed to write default config; continuing with defaults", err, "config_path", flags.configPath)
	}

	if flags.listen != "" {
		// A derived public URL follows the new listen address.
		if conf.PublicURL == "http://"+conf.Listen {
			conf.PublicURL = ""
		}
		conf.Listen = flags.listen
	}
	if flags.apiURL != "" {
		conf.APIBaseURL = flags.apiURL
	}
	if flags.debug {
		conf.LogLevel = "debug"
	}

	a, err := app.New(conf, app.Options{})
	if err != nil {
		appLog.Error("failed to build app", err)
		os.Exit(1)
	}

	appLog.Info("effective config",
		"listen", conf.Listen,
		"public_url", conf.PublicURL,
		"api", appLog.RedactURL(conf.APIBaseURL),
		"locale", conf.Locale,
		"timezone", conf.Timezone,
		"horizon_days", conf.HorizonDays,
		"probe", conf.ProbeCron,
		"basic_auth", conf.BasicAuth != nil,
	)

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil {
		appLog.Error("server stopped with error", err)
		os.Exit(1)
	}
	appLog.Info("eventgo exiting")
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "/etc/eventgo/config.yaml", "Path to config file")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config if set)")
	flag.StringVar(&cfg.apiURL, "api-url", "", "Backend base URL (overrides config if set)")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
