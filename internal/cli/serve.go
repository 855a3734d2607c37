package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/danieljhkim/festplan/internal/logger"
	"github.com/danieljhkim/festplan/internal/server"
)

var serveHealthCheck bool

// serveCmd runs the JSON API over the configured plan.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the plan over HTTP",
	Long: `Serve the configured plan as a JSON API until interrupted.

With --health-check, probe a running server instead and exit non-zero if it is
not healthy.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		w := cmd.OutOrStdout()
		if serveHealthCheck {
			if err := server.HealthCheck(ctx, settings.Addr); err != nil {
				return err
			}
			PrintSuccess(w, "Health check passed")
			return nil
		}

		log, err := logger.NewServer(settings.Verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		undo, err := maxprocs.Set(maxprocs.Logger(log.Sugar().Infof))
		if err != nil {
			log.Error("failed to set GOMAXPROCS", zap.Error(err))
		}
		defer undo()

		eng, err := openEngine(ctx, settings, log)
		if err != nil {
			return err
		}
		defer func() {
			_ = eng.Close()
		}()

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()

		log.Info("serving plan",
			zap.String("service", server.ServiceName),
			zap.String("version", rootCmd.Version),
			zap.String("festival", eng.Festival()),
			zap.String("plan", settings.Plan),
		)
		return server.New(eng, log).Run(ctx, settings.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default: localhost:8888)")
	serveCmd.Flags().BoolVar(&serveHealthCheck, "health-check", false, "Probe a running server and exit")
}
