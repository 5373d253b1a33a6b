package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/gohdfs/internal/bytesize"
	"github.com/marmos91/gohdfs/internal/cli/output"
)

var dfCmd = &cobra.Command{
	Use:   "df",
	Short: "Show filesystem capacity and usage",
	Args:  cobra.NoArgs,
	RunE:  runDf,
}

func runDf(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	stats, err := sess.hdfs.GetFsStats(ctx)
	if err != nil {
		return err
	}

	return output.SimpleTable(cmd.OutOrStdout(), [][2]string{
		{"Capacity", bytesize.ByteSize(stats.Capacity).String()},
		{"Used", bytesize.ByteSize(stats.Used).String()},
		{"Remaining", bytesize.ByteSize(stats.Remaining).String()},
		{"Under replicated blocks", fmt.Sprintf("%d", stats.UnderReplicated)},
		{"Corrupt blocks", fmt.Sprintf("%d", stats.CorruptBlocks)},
		{"Missing blocks", fmt.Sprintf("%d", stats.MissingBlocks)},
	})
}
