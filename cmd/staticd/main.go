package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/staticd/internal/config"
	"github.com/yourusername/staticd/internal/server"
)

var log = logrus.New()

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := config.Default()

	cmd := &cobra.Command{
		Use:   "staticd",
		Short: "event-driven static file server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cfg)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&cfg.Port, "port", "", "TCP port to listen on (required)")
	flags.StringVar(&cfg.DocumentRoot, "root", "", "document root to serve (required)")
	flags.StringVar(&cfg.LogFile, "access-log", "", "access log path; empty disables access logging")
	flags.Int64Var(&cfg.MaxFileSize, "max-file-size", cfg.MaxFileSize, "largest file this server will serve, in bytes")
	flags.IntVar(&cfg.TimeoutMS, "poll-timeout-ms", cfg.TimeoutMS, "event facility poll timeout in milliseconds")
	flags.IntVar(&cfg.MaxConnections, "max-connections", cfg.MaxConnections, "connection table capacity")

	return cmd
}

// run validates cfg and blocks serving until SIGINT (spec §6 "Exit
// codes": startup failures return non-zero, clean shutdown returns 0).
func run(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	srv := server.New(cfg, log)
	return srv.Run()
}
