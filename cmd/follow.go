package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/xyfu66/score-following-app/client"
	"github.com/xyfu66/score-following-app/logger"
	"github.com/xyfu66/score-following-app/model"
	"github.com/xyfu66/score-following-app/score"
	"github.com/xyfu66/score-following-app/session"
	"github.com/xyfu66/score-following-app/stream"
)

var (
	followInput       string
	followDevice      string
	followPerformance string
)

func init() {
	followCmd.Flags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "tracker server url")
	followCmd.Flags().StringVar(&cfg.BeatField, "beat-field", cfg.BeatField, "field of the position messages that holds the beat")
	followCmd.Flags().StringVarP(&followInput, "input", "i", string(model.InputSimulation), "audio, midi or simulation")
	followCmd.Flags().StringVarP(&followDevice, "device", "d", "", "input device, see the devices command")
	followCmd.Flags().StringVar(&followPerformance, "performance", "", "performance midi file to simulate")
	rootCmd.AddCommand(followCmd)
}

var followCmd = &cobra.Command{
	Use:   "follow <score.mid>",
	Short: "Uploads a score and follows it",
	Long:  `Uploads a score to the tracker, then moves the cursor with every beat position it streams back until the stream ends or CTRL+C.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := model.InputType(followInput)
		if !input.Valid() {
			return errors.Errorf("unknown input %q", followInput)
		}
		return follow(cmd.Context(), args[0], followPerformance, input, followDevice)
	},
}

func follow(ctx context.Context, scorePath, performancePath string, input model.InputType, device string) error {
	log := logger.GetProjectLogger()

	dat, err := os.ReadFile(scorePath)
	if err != nil {
		return errors.Wrap(err, "could not read score")
	}
	var performance []byte
	if performancePath != "" {
		if performance, err = os.ReadFile(performancePath); err != nil {
			return errors.Wrap(err, "could not read performance")
		}
	}

	c := client.New(cfg.ServerURL)
	up, err := c.Upload(ctx, filepath.Base(scorePath), dat, performance)
	if err != nil {
		return err
	}
	url, err := c.StreamURL()
	if err != nil {
		return err
	}

	sess := session.New(score.New(os.Stdout), stream.WebsocketDialer{}, url, cfg.BeatField)
	if err := sess.Load(dat, up.FileId, up.OnsetBeats); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()
	if err := sess.Play(ctx, input, device); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		sess.Stop()
	case <-sess.Done():
	}
	fmt.Println()
	log.WithField("id", up.FileId).Info("stopped following")
	return nil
}
