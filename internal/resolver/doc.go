/*
Package resolver implements the portal resolution pass.

A pass runs over one immutable graph snapshot:

 1. Type inference: Sender inputs typed "*" take the type of the explicit edge feeding them.
 2. BuildRegistry: active Senders are grouped by trimmed portal name. Names declared by
    more than one Sender are marked ambiguous.
 3. Resolve: every active Receiver, in identifier order, is matched against the registry.
 4. Materialize: successful slot bindings become virtual edges, failures become diagnostics.

The Resolver holds configuration only (placeholders, logger, hooks). It never caches a
registry or a plan between passes, so it is safe for concurrent use on independent graphs.
*/
package resolver
