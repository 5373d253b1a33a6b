package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/marmos91/gohdfs/internal/cli/output"
	"github.com/marmos91/gohdfs/internal/cli/timeutil"
)

var statCmd = &cobra.Command{
	Use:   "stat <path>",
	Short: "Show a file or directory's status",
	Args:  cobra.ExactArgs(1),
	RunE:  runStat,
}

func runStat(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	fi, err := sess.hdfs.GetFileInfo(ctx, args[0])
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(globalFlags.Output)
	if err != nil {
		return err
	}
	printer := output.NewPrinter(os.Stdout, format, !globalFlags.NoColor)

	if format == output.FormatTable {
		return output.SimpleTable(os.Stdout, [][2]string{
			{"Type", entryType(*fi)},
			{"Length", fmt.Sprintf("%d", fi.Length)},
			{"Permission", fmt.Sprintf("%o", fi.Permission.Perm)},
			{"Owner", fi.Owner},
			{"Group", fi.Group},
			{"Modification time", time.UnixMilli(int64(fi.ModificationTime)).Local().Format(timeutil.LocalTimeFormat)},
			{"Access time", time.UnixMilli(int64(fi.AccessTime)).Local().Format(timeutil.LocalTimeFormat)},
			{"Block replication", fmt.Sprintf("%d", fi.BlockReplication)},
			{"Block size", fmt.Sprintf("%d", fi.BlockSize)},
		})
	}
	return printer.Print(fi)
}
