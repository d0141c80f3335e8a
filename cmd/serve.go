package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"github.com/xyfu66/score-following-app/config"
	"github.com/xyfu66/score-following-app/db"
	"github.com/xyfu66/score-following-app/logger"
	"github.com/xyfu66/score-following-app/midi"
	"github.com/xyfu66/score-following-app/server"
	"github.com/xyfu66/score-following-app/store"
	"github.com/xyfu66/score-following-app/tracker"
	gomidi "gitlab.com/gomidi/midi/v2"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters driver
	"k8s.io/utils/clock"
)

func init() {
	serveCmd.Flags().StringVarP(&cfg.Port, "port", "p", cfg.Port, "port to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Runs the tracker server",
	Long:  `Accepts score uploads and streams beat positions over a websocket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serve(cfg)
	},
}

// NewStore picks the metadata backend from config
func NewStore(c *config.Config) (*store.Disk, error) {
	var meta store.Metadata
	if c.UsesDynamo() {
		dynamo, err := db.NewDynamoMetadata(c.DynamoEndpoint, c.DynamoRegion, c.DynamoTable)
		if err != nil {
			return nil, err
		}
		meta = dynamo
	}
	return store.NewDisk(c.UploadDir, meta)
}

// NewServer wires the tracker server from config
func NewServer(c *config.Config) (*server.Server, error) {
	st, err := NewStore(c)
	if err != nil {
		return nil, err
	}

	factory := &tracker.Factory{
		Clock:       clock.RealClock{},
		BPM:         c.SimulationBPM,
		ChordWindow: c.ChordWindow,
		Listen:      tracker.OpenPort,
	}
	return server.New(st, midi.Ports{}, factory, c.AllowedOrigins), nil
}

func serve(c *config.Config) error {
	defer gomidi.CloseDriver()
	log := logger.GetProjectLogger()

	srv, err := NewServer(c)
	if err != nil {
		return err
	}
	httpServer := &http.Server{Addr: ":" + c.Port, Handler: srv.Handler()}

	// handle CTRL+C interrupt
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Info("shutting down tracker server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.WithField("port", c.Port).Info("starting tracker server")
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		logger.Error(log, "server stopped", err)
		return err
	}
	return nil
}
