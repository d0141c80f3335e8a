package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xyfu66/score-following-app/client"
)

func init() {
	devicesCmd.Flags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "tracker server url")
	rootCmd.AddCommand(devicesCmd)
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "Lists the tracker's midi inputs",
	RunE: func(cmd *cobra.Command, args []string) error {
		devices, err := client.New(cfg.ServerURL).MidiDevices(cmd.Context())
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			fmt.Println("no midi inputs")
		}
		for _, d := range devices {
			fmt.Printf("%d: %s\n", d.Index, d.Name)
		}
		return nil
	},
}
