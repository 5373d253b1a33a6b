// Command gohdfs is a command-line client for the HDFS name-node RPC
// protocol: ls, stat, mkdir, mv, rm, df, and config inspection, all
// speaking ClientProtocol directly without a JVM or native libhdfs.
package main

import (
	"errors"
	"os"
	"syscall"

	"github.com/marmos91/gohdfs/cmd/gohdfs/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		if errors.Is(err, syscall.EPIPE) {
			os.Exit(0)
		}
		commands.PrintErr("%v", err)
		os.Exit(1)
	}
}
