// Package plugin loads Lua scripts that add command-line verbs.
//
// A script registers verbs through the global modal table:
//
//	modal.command("stamp", function(args, force)
//	    modal.insert("[" .. table.concat(args, " ") .. "]")
//	    return "stamped"
//	end)
//
// A handler receives the verb's arguments as an array and the '!' flag.
// A string it returns becomes the status message; a Lua error fails the
// command. While a handler runs it may call:
//
//	modal.insert(text)    insert text at every cursor as one undoable edit
//	modal.line(n)         text of line n (1-based, default the cursor line)
//	modal.line_count()    number of lines in the active buffer
//	modal.cursor()        cursor line and column, both 1-based
//	modal.status(msg)     set the status message
//
// Scripts run in the sandbox of package lua: no io, os, debug or
// module loading.
package plugin
