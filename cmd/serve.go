package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/mathiz-arcade/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only dashboard API over recorded rounds",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			env.cfg.Server.Addr = addr
		}
		sc := env.cfg.Server

		st, err := openStore(cmd, env.logger)
		if err != nil {
			return err
		}
		defer st.Close()

		srv := api.New(st, api.Options{
			CORSOrigins:     sc.CORSOrigins,
			ReadTimeout:     sc.ReadTimeout,
			WriteTimeout:    sc.WriteTimeout,
			ShutdownTimeout: sc.ShutdownTimeout,
			Logger:          env.logger,
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		fmt.Fprintf(cmd.OutOrStdout(), "Dashboard API listening on http://%s/api\n", sc.Addr)
		return srv.ListenAndServe(ctx, sc.Addr)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from config, 127.0.0.1:8787)")
}
