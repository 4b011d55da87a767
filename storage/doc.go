/*
Package storage keeps typed state in config files that operators edit by
hand.

A [File] pairs a Go value with a path and a [Codec]. The codec follows the
file extension: YAML and TOML by extension, JSON for everything else, with
comments and trailing commas tolerated in JSON files. Loading is forgiving
in the two ways that matter for operator-edited files: a missing file is
created from the initial value, and a file that no longer parses is logged
and rewritten rather than aborting startup. Fields absent from the file keep
their in-memory values, so adding a config field never invalidates deployed
files.

[Permissions] is the config fragment most commands want: a name-to-level
table with a fallback, convertible into a guard predicate via
[Permissions.Requirement].
*/
package storage
