/*
Package command hosts trees of parser nodes and dispatches text lines
against them.

A tree is built from [Literal] nodes matching fixed keywords and argument
nodes ([Integer], [Float], [Boolean], [Enumeration], [Text], [QuotableText],
[GreedyText]) parsing one value each. Nodes chain with [Node.Then], guard
with [Node.Requires], and become runnable with [Node.Runs]. A [Dispatcher]
owns the registered roots and resolves input with [Dispatcher.Execute].

Three outcomes are possible for an executed line:

  - A guard rejected it. The guard's failure message goes to the [Source]
    and Execute returns nil; rejection is a normal reply, not an error.
  - The line did not match the tree. Execute returns a [ParseError] wrapping
    one of the sentinel errors, carrying the position where matching stopped.
  - A terminal action ran. Its error, if any, is returned unchanged.

Matching prefers literal children over argument children and tries sibling
argument nodes in attachment order, backtracking out of a subtree that fails
deeper in. Input tokens are separated by spaces; [QuotableText] additionally
accepts double-quoted strings with \" and \\ escapes, and [GreedyText] takes
the whole remainder of the line.

Trees are assembled once, before registration, and never mutated afterwards.
Packages building trees on top of this one are expected to enforce that
discipline; the dispatcher only locks its own registry.
*/
package command
