// Package schema validates the structure of a graph description before it is resolved.
//
// It plays the role of the host's type-checking stage: node identifiers must be
// unique, node kinds known, explicit edges must point at existing slots, an input
// slot accepts a single link, and the type tags on both ends of an edge must be
// compatible (the "*" wildcard is compatible with everything).
//
// Basic usage:
//
//	if err := schema.ValidateGraph(g); err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        fmt.Println(e)
//	    }
//	}
//
// Validation failures are reported together as an *AggregateError, which matches
// domain.ErrInvalidGraph with errors.Is. Portal name problems (dangling or
// ambiguous Receivers) are not structural errors; they are reported by the
// resolver as diagnostics.
package schema
