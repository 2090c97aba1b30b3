// Package platform is the real accessor binding cmd/agent wires by
// default: one concrete type per accessor.*Manager in internal/accessor,
// each fronting the actual binder-RPC surface of the platform's system
// services.
//
// Most of that RPC surface (display enumeration, window rotation,
// input injection, device-state, surface/virtual-display control) has
// no portable Go binding: the real services live behind a vendor's
// system-service IPC mechanism that is not reachable from a standalone
// process built against the public Go ecosystem. Those types here
// return accessor.ErrUnsupported from their error-returning methods
// (DeviceStateManager.GetSupportedStates instead reports no states and
// no error) — the same "log and
// continue" condition any accessor call hits on an older or restricted
// platform build — rather than fabricate an RPC client against a
// protocol this module cannot observe.
// internal/accessor/fake exercises the real call patterns in tests;
// internal/vinput's uinput/Wayland backends are the one accessor-shaped
// concern this module *can* bind directly to a real kernel interface,
// and do.
//
// ClipboardManager is the exception: the host clipboard is reachable
// through golang.design/x/clipboard, so that one binding is real.
package platform
