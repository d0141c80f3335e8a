package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xyfu66/score-following-app/midi"
	"github.com/xyfu66/score-following-app/score"
	"github.com/xyfu66/score-following-app/timeline"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <score.mid>",
	Short: "Prints the timeline of a score",
	Long:  `Prints every slot the cursor can stop on, with the entries found there.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return inspect(args[0])
	},
}

func inspect(path string) error {
	mf, err := midi.ReadMidiFile(path)
	if err != nil {
		return err
	}
	sc, err := score.FromSMF(mf)
	if err != nil {
		return err
	}

	events := timeline.Extract(sc.Iterator())
	byTime := make(map[float64][]string)
	for _, evt := range events {
		byTime[evt.Time] = append(byTime[evt.Time], score.NoteName(evt.Key))
	}

	index := timeline.Build(events)
	fmt.Printf("tempo: %v bpm\n", sc.Tempo())
	fmt.Printf("slots: %v\n", index.Len())
	for i, t := range index.Times() {
		fmt.Printf("%4d  beat %7.2f  %v\n", i, t, byTime[t])
	}
	fmt.Printf("onset beats: %v\n", sc.OnsetBeats())
	return nil
}
