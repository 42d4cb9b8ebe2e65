// Package lua runs plugin scripts in a sandboxed gopher-lua state.
//
// Only the base, table, string and math libraries are opened. Functions
// that load code from disk or strings (dofile, loadfile, load,
// loadstring, require) are removed, and print writes to the plugin
// logger instead of the terminal.
//
//	state := lua.NewState(lua.WithTimeout(time.Second))
//	defer state.Close()
//
//	if err := state.DoString(ctx, "greet.lua", src); err != nil {
//	    return err
//	}
//
// Every call runs under a deadline; a script that loops forever is
// stopped when the deadline passes and the call returns
// ErrExecutionTimeout.
package lua
