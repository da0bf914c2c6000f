/*
Package portals resolves name-based virtual wiring in node graphs.

A portal lets two unconnected nodes share a value by name instead of a drawn wire.
A Sender ("Set" node) declares a portal name and offers its input values; a
Receiver ("Get" node) requests the values of a name on its outputs. Before a graph
is executed, the resolver computes the virtual edges joining every Receiver to its
Sender and reports, as data, every Receiver it could not wire.

# Resolution

Each pass runs over one graph snapshot and is deterministic:

  - Portal names are trimmed and matched exactly.
  - Empty names and reserved placeholders never match (PlaceholderName, info).
  - A name with no active Sender yields NoSender (warning).
  - A name declared by several active Senders yields AmbiguousSenders listing them all (warning).
  - Otherwise receiver slot i binds to sender slot i; excess receiver slots fail one by one.

Virtual edges are never persisted and never cached.

# Usage

	eng, err := portals.New("./graphs")
	if err != nil {
		log.Fatal(err)
	}

	plan, err := eng.PlanByID(ctx, "upscale")
	if err != nil {
		log.Fatal(err)
	}
	for _, d := range plan.Diagnostics {
		log.Println(d.Level, d.Message())
	}

Graphs can also be built in code with pkg/dsl and resolved without any loader:

	eng, _ := portals.New("")
	plan := eng.Plan(ctx, g)
*/
package portals
