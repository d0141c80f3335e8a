package cmd

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/xyfu66/score-following-app/constants"
	"github.com/xyfu66/score-following-app/logger"
	"github.com/xyfu66/score-following-app/store"
	"github.com/xyfu66/score-following-app/util"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Reports on uploaded scores",
	Long:  `Reports on the scores stored under UPLOAD_PATH.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := NewStore(cfg)
		if err != nil {
			return err
		}
		r, err := analyzeUploads(cfg.UploadDir, st)
		if err != nil {
			return err
		}
		printReport(r)
		return nil
	},
}

var scoreFileRe = regexp.MustCompile(`^[0-9a-fA-F]{8}-([0-9a-fA-F]{4}-){3}[0-9a-fA-F]{12}` + regexp.QuoteMeta(constants.ScoreExt) + `$`)

type uploadsReport struct {
	numScores      int
	numPerformance int
	numBytes       int64
	onsetsPerScore []int
	missing        []string
}

func analyzeUploads(dir string, st *store.Disk) (uploadsReport, error) {
	var report uploadsReport

	files, err := os.ReadDir(dir)
	if err != nil {
		return report, errors.Wrapf(err, "could not read %v", dir)
	}

	for _, f := range files {
		name := f.Name()
		if !scoreFileRe.MatchString(name) {
			continue
		}
		id := strings.TrimSuffix(name, constants.ScoreExt)
		rec, err := st.Record(id)
		if err != nil {
			logger.GetProjectLogger().WithError(err).WithField("id", id).Warn("score has no record")
			report.missing = append(report.missing, id)
			continue
		}

		report.numScores += 1
		if rec.HasPerformanceFile {
			report.numPerformance += 1
		}
		report.onsetsPerScore = append(report.onsetsPerScore, len(rec.OnsetBeats))
		if info, err := f.Info(); err == nil {
			report.numBytes += info.Size()
		}
	}
	return report, nil
}

func printReport(r uploadsReport) {
	fmt.Printf("scores: %v\n", r.numScores)
	fmt.Printf("with performance: %v\n", r.numPerformance)
	fmt.Printf("score bytes: %v\n", r.numBytes)
	fmt.Printf("onset beats: %v\n", util.Sum(r.onsetsPerScore))
	if len(r.missing) > 0 {
		fmt.Printf("missing records: %v\n", r.missing)
	}
}
