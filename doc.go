/*
Package commandry builds command trees from declarations instead of parser
plumbing: a command set names its members, each member binds a handler
together with the argument specs that shape the tree beneath it, and
guards wrap either one at declaration time.

The packages split along those seams. [github.com/commandry/commandry/cmdset]
is the declarative layer, [github.com/commandry/commandry/command] the parse
and dispatch host, and [github.com/commandry/commandry/message] the styled
reply type. Around them sit file-backed storage, a line-watching hub, a
mutually exclusive job manager, and an interactive console front end; the
cmd/commandry binary wires all of it together into a runnable shell.
*/
package commandry
