package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	gateway "github.com/pratama/commerce/gateway/cmd"
	"github.com/pratama/commerce/internal/constants"
	"github.com/pratama/commerce/internal/log"
	order "github.com/pratama/commerce/order/cmd"
	product "github.com/pratama/commerce/product/cmd"
)

func Start() {
	logger := log.InitLogger("/var/log/commerce.log").
		With().
		Str(log.KeyAppName, constants.AppMain).
		Str(log.KeyTag, "main Start").
		Logger()

	logger.Info().Msg("adding listener for SIGINT and SIGTERM")
	c, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c = logger.WithContext(c)

	rootCmd := &cobra.Command{Use: constants.AppMain}
	commands := []*cobra.Command{
		{
			Use:   "gateway",
			Short: "Run api gateway",
			Run: func(cmd *cobra.Command, args []string) {
				gateway.RunApiGateway(cmd.Context())
			},
		},
		{
			Use:   "order",
			Short: "Run order service",
			Run: func(cmd *cobra.Command, args []string) {
				order.RunOrderService(cmd.Context())
			},
		},
		{
			Use:   "product",
			Short: "Run product service",
			Run: func(cmd *cobra.Command, args []string) {
				product.RunProductService(cmd.Context())
			},
		},
	}
	rootCmd.AddCommand(commands...)
	if err := rootCmd.ExecuteContext(c); err != nil {
		logger.Fatal().Err(err).Msgf("error when executing command=%s", err.Error())
	}
}
