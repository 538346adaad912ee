package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/teslashibe/go-speakviz/internal/log"
	"github.com/teslashibe/go-speakviz/pkg/store"
	"github.com/teslashibe/go-speakviz/pkg/web"
)

var (
	servePort   string
	serveStatic string
	serveLive   float64
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the recorder over HTTP; detections are pushed by the browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), cmd.Flags().Changed("port"))
	},
}

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "", "HTTP port (default: SPEAKVIZ_PORT or 8080)")
	serveCmd.Flags().StringVar(&serveStatic, "static", "", "Directory with a browser front end to serve at /")
	serveCmd.Flags().Float64Var(&serveLive, "live-rate", web.DefaultConfig().LiveFrameRate, "Max live frame events per second")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, portSet bool) error {
	rec, err := newRecorder()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	rec.AddListener(store.NewSink(st))

	wc := web.DefaultConfig()
	wc.Port = cfg.Port
	if portSet {
		wc.Port = servePort
	}
	wc.StaticDir = serveStatic
	wc.LiveFrameRate = serveLive

	srv := web.NewServer(wc, rec, st)
	srv.StartAsync()

	<-ctx.Done()
	log.Info("shutting down")

	// Keep whatever was recorded when the server is stopped mid-session.
	if rec.Recording() {
		if _, err := rec.Stop(); err != nil {
			log.Warn("stop recording", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
