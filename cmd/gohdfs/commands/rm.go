package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marmos91/gohdfs/internal/cli/prompt"
)

var (
	rmRecursive bool
	rmForce     bool
)

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Delete a file or, with --recursive, a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

func init() {
	rmCmd.Flags().BoolVarP(&rmRecursive, "recursive", "r", false, "Delete directories and their contents")
	rmCmd.Flags().BoolVarP(&rmForce, "force", "f", false, "Skip the confirmation prompt for non-empty directories")
}

func runRm(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	path := args[0]

	if rmRecursive && !rmForce {
		fi, statErr := sess.hdfs.GetFileInfo(ctx, path)
		if statErr == nil && fi.IsDir() && fi.HasChildrenNum() && fi.ChildrenNum > 0 {
			ok, promptErr := prompt.Confirm(fmt.Sprintf("%q has %d entries; delete recursively?", path, fi.ChildrenNum), false)
			if promptErr != nil {
				return promptErr
			}
			if !ok {
				return nil
			}
		}
	}

	return sess.hdfs.Delete(ctx, path, rmRecursive)
}
