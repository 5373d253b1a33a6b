package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/marmos91/gohdfs/internal/cli/output"
	"github.com/marmos91/gohdfs/pkg/hdfspath"
	"github.com/marmos91/gohdfs/pkg/wire/rpcpb"
)

var lsCmd = &cobra.Command{
	Use:   "ls <path>",
	Short: "List a directory's entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runLs,
}

// entryList renders a directory listing as a table.
type entryList []rpcpb.HdfsFileStatus

func (e entryList) Headers() []string {
	return []string{"TYPE", "PERMISSION", "OWNER", "GROUP", "LENGTH", "NAME"}
}

func (e entryList) Rows() [][]string {
	rows := make([][]string, 0, len(e))
	for _, fi := range e {
		name, err := hdfspath.DecodePath(string(fi.Path))
		if err != nil {
			name = string(fi.Path)
		}
		rows = append(rows, []string{
			entryType(fi),
			fmt.Sprintf("%o", fi.Permission.Perm),
			fi.Owner,
			fi.Group,
			fmt.Sprintf("%d", fi.Length),
			name,
		})
	}
	return rows
}

func entryType(fi rpcpb.HdfsFileStatus) string {
	switch {
	case fi.IsDir():
		return "d"
	case fi.IsSymlink():
		return "l"
	default:
		return "-"
	}
}

func runLs(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	it, err := sess.hdfs.ListStatus(ctx, args[0])
	if err != nil {
		return err
	}
	entries, err := it.Collect(ctx)
	if err != nil {
		return err
	}

	format, err := output.ParseFormat(globalFlags.Output)
	if err != nil {
		return err
	}
	printer := output.NewPrinter(os.Stdout, format, !globalFlags.NoColor)
	return printer.Print(entryList(entries))
}
