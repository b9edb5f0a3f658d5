package node

import "paramlink/wire"

// defaultBridge is the one package-level static this package carries: a
// single platform-wide node pointer, used only by the Bridge* trampoline
// below. On real hardware an interrupt handler has no way to close over a
// *Context; it calls a fixed C-ABI function that reaches back into a
// known global. There is no such ISR here, so this is present purely to
// mirror that shape for any caller wiring a genuine interrupt source
// through cgo — ungrounded on anything this process actually runs.
var defaultBridge *Context

// SetDefaultBridge registers ctx as the target of BridgePostEvent.
func SetDefaultBridge(ctx *Context) {
	defaultBridge = ctx
}

// BridgePostEvent posts an event to the registered default bridge
// context, if any. No-op if SetDefaultBridge was never called.
func BridgePostEvent(id wire.ParameterID, v wire.Value) error {
	if defaultBridge == nil {
		return nil
	}
	return defaultBridge.PostEvent(id, v)
}
