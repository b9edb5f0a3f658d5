package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"paramlink/proto"
	"paramlink/transport"
	"paramlink/wire"
)

func newSetCmd() *cobra.Command {
	var id uint32
	var typeName string
	var valueText string
	cmd := &cobra.Command{
		Use:   "set",
		Short: "write one parameter by id",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := wire.ParseValueText(typeName, valueText)
			if err != nil {
				return err
			}

			t := transport.NewNetTransport()
			if err := t.DialTCP(address); err != nil {
				return err
			}
			defer t.Close()

			req := proto.NewSetRequest(0)
			if err := req.PushParameter(wire.Parameter{ID: wire.ParameterID(id), Value: v}); err != nil {
				return err
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
			if len(resp.Params) == 0 {
				return fmt.Errorf("set rejected by node (read-only, constant, or type mismatch)")
			}
			printParams(resp.Params)
			return nil
		},
	}
	cmd.Flags().Uint32Var(&id, "id", 0, "parameter id to write")
	cmd.Flags().StringVar(&typeName, "type", "", "value type (none, notification, bool, u8, i8, u32, i32, u64, i64, f32)")
	cmd.Flags().StringVar(&valueText, "value", "", "value in the type's canonical text form")
	cmd.MarkFlagRequired("id")
	cmd.MarkFlagRequired("type")
	return cmd
}
