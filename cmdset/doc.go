/*
Package cmdset turns declarative command-set descriptions into parser trees
for a [command.Dispatcher].

A command set is declared once with [Declare] and instantiated once with
[Decl.New]. The declaration lists members: leaf nodes built with
[NewLiteral] or [NewNode] and bound with [Node.Runs], nested declarations,
and guarded members built with [Wrap]. Instantiation assembles everything
under one base node, wires the help and default actions, applies guards,
and hands back a [Set] ready for [Set.RegisterTo].

# Argument binding

[Node.Runs] takes the handler plus one [Arg] spec per parameter, in order:

	backup := cmdset.NewLiteral("backup", "b")
	backup.Runs(makeBackup,
		cmdset.Text("name"),
		cmdset.Integer("keep", 1, 10).Default(3),
	)

Each spec synthesizes one parser node level. Two rules do the interesting
work:

  - Union alternatives ([Arg.Or]) replicate the frontier into sibling
    branches under the same parameter name. Whichever alternative the input
    matches, the same handler runs with that branch's value.
  - Trailing defaults ([Arg.Default]) make every node before a defaulted
    parameter a valid end of input. A handler with K trailing defaults is
    reachable at K+1 depths, with unsupplied values padded from the
    declared defaults.

The handler receives its owner set, the source, and the resolved [Args].
Binding mistakes such as duplicate names or a default in the middle panic
at declaration time. A malformed tree should never reach a host, so none
of these are returned as errors.

# Guards

A [Requirement] pairs a predicate with a failure message. Requirements
attach either at a node's base, gating every branch ([Requirement.AtBase],
the default for [PlayerOnly], [ConsoleOnly], and [RequirePermission]), or
per entry, leaving sibling branches alone. Stack them on a handler with
[Wrap], or pass them at construction with [WithRequirements]. At run time a
failed guard replies its message and stops; guard failures are replies, not
errors.

# Lifecycle

Each [Decl] has at most one live [Set]. A second [Decl.New] panics until
[Set.Teardown] releases the slot. Nested declarations are instantiated with
their parent and torn down with it; [Set.Root] walks to the outermost set,
and [CallWithRoot] rebinds a handler to it.
*/
package cmdset
