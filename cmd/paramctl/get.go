package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"paramlink/proto"
	"paramlink/transport"
	"paramlink/wire"
)

func newGetCmd() *cobra.Command {
	var ids []uint32
	cmd := &cobra.Command{
		Use:   "get",
		Short: "read one or more parameters by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(ids) == 0 {
				return fmt.Errorf("get requires at least one --id")
			}
			t := transport.NewNetTransport()
			if err := t.DialTCP(address); err != nil {
				return err
			}
			defer t.Close()

			req := proto.NewGetRequest(0)
			for _, id := range ids {
				if err := req.PushID(wire.ParameterID(id)); err != nil {
					return err
				}
			}
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
	cmd.Flags().Uint32SliceVar(&ids, "id", nil, "parameter id to read (repeatable)")
	return cmd
}
