package commands

import (
	"context"

	"github.com/spf13/cobra"
)

var mkdirCreateParent bool

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Create a directory",
	Args:  cobra.ExactArgs(1),
	RunE:  runMkdir,
}

func init() {
	mkdirCmd.Flags().BoolVarP(&mkdirCreateParent, "parents", "p", false, "Create parent directories as needed")
}

func runMkdir(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	sess, err := newSession(ctx)
	if err != nil {
		return err
	}
	defer sess.Close()

	return sess.hdfs.Mkdirs(ctx, args[0], mkdirCreateParent)
}
