package cmd

import (
	"fmt"

	"github.com/nmdp-bioinformatics/gl-smartsort/internal/adapter/inbound/messaging"
	"github.com/nmdp-bioinformatics/gl-smartsort/internal/application/service"

	"github.com/spf13/cobra"
)

// newServeCmd implements: gl-smartsort serve [--nats-url URL] [--subject SUBJECT].
func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Answer GL string canonicalization requests over NATS",
		Long: `Subscribe to a NATS subject and reply to every request with the
canonical form of its payload. A payload may hold several GL strings,
one per line; the reply holds their canonical forms in the same order.

The service stops on SIGINT or SIGTERM after draining in-flight requests.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd)
		},
	}

	cmd.Flags().String("nats-url", "nats://localhost:4222", "NATS server URL")
	cmd.Flags().String("subject", "glstring.canonicalize", "Subject to answer requests on")
	cmd.Flags().String("queue-group", "gl-smartsort", "Queue group shared by service instances")
	cmd.Flags().IntP("workers", "w", 1, "Number of GL strings canonicalized concurrently per request")

	return cmd
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	responder, err := messaging.NewResponder(cfg.NATS, service.NewBatchCanonicalizer(cfg.Batch))
	if err != nil {
		return fmt.Errorf("create responder: %w", err)
	}

	return responder.Start(cmd.Context())
}

func init() { //nolint:gochecknoinits // required by cobra for command registration
	rootCmd.AddCommand(newServeCmd())
}
