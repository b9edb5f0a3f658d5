// Command paramctl is the host-side CLI for the parameter protocol: list,
// read, and write parameters on a node over TCP, and watch its UDP
// broadcast stream. Built on spf13/cobra, matching the multi-subcommand
// shape the rest of the example pack reaches for over bare flag.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var address string

func main() {
	root := &cobra.Command{
		Use:   "paramctl",
		Short: "host-side CLI for the parameter get/set protocol",
	}
	root.PersistentFlags().StringVar(&address, "address", "127.0.0.1:9877", "node TCP address (host:port)")

	root.AddCommand(newListenCmd())
	root.AddCommand(newListAllCmd())
	root.AddCommand(newGetCmd())
	root.AddCommand(newSetCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
