package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"paramlink/proto"
	"paramlink/transport"
	"paramlink/wire"
)

func newListAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list-all",
		Short: "request every parameter from the node",
		RunE: func(cmd *cobra.Command, args []string) error {
			t := transport.NewNetTransport()
			if err := t.DialTCP(address); err != nil {
				return err
			}
			defer t.Close()

			req := proto.NewListAllRequest(0)
			buf := make([]byte, req.WireSize())
			if _, err := req.Emit(buf); err != nil {
				return err
			}

			respBuf, err := t.SendTCP(buf)
			if err != nil {
				return err
			}
			resp, err := proto.ParseResponse(respBuf)
			if err != nil {
				return err
			}
			printParams(resp.Params)
			return nil
		},
	}
}

func printParams(params []wire.Parameter) {
	for _, p := range params {
		fmt.Printf("id=%d type=%s value_bits=%d t=%dms\n",
			p.ID, wire.TypeName(p.Value.Tag()), p.Value.U64(), p.LocalTimeMS)
	}
}
