package commands

import (
	"context"

	"github.com/spf13/cobra"
)

var mvCmd = &cobra.Command{
	Use:   "mv <src> <dst>",
	Short: "Rename or move a file or directory",
	Args:  cobra.ExactArgs(2),
	RunE:  runMv,
}

func runMv(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	return sess.hdfs.Rename(ctx, args[0], args[1])
}
