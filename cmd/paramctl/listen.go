package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"paramlink/proto"
)

func newListenCmd() *cobra.Command {
	var bindAddr string
	cmd := &cobra.Command{
		Use:   "listen",
		Short: "watch a node's periodic UDP broadcast stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := net.ResolveUDPAddr("udp", bindAddr)
			if err != nil {
				return fmt.Errorf("resolve bind address: %w", err)
			}
			conn, err := net.ListenUDP("udp", addr)
			if err != nil {
				return fmt.Errorf("listen udp: %w", err)
			}
			defer conn.Close()

			fmt.Printf("listening for broadcasts on %s\n", bindAddr)
			buf := make([]byte, 4096)
			for {
				n, peer, err := conn.ReadFromUDP(buf)
				if err != nil {
					return err
				}
				resp, err := proto.ParseResponse(buf[:n])
				if err != nil {
					fmt.Printf("dropped malformed frame from %s: %v\n", peer, err)
					continue
				}
				fmt.Printf("broadcast from node %d (%s):\n", resp.NodeID, peer)
				printParams(resp.Params)
			}
		},
	}
	cmd.Flags().StringVar(&bindAddr, "bind", "0.0.0.0:9876", "local address to receive broadcasts on")
	return cmd
}
