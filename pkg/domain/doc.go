/*
Package domain contains the core domain models of the portals resolver.

It defines the graph snapshot handed over by a host editor (Nodes, Slots, Edges), the
Portal Registry built from Sender declarations, and the outputs of a resolution pass
(Resolutions, virtual Edges and Diagnostics). This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Node: A graph vertex. Senders declare a portal name and offer values on their inputs,
    Receivers request the values of a portal name on their outputs.
  - Edge: A directed connection from an output slot to an input slot. Virtual edges are
    synthesized by the resolver and never persisted.
  - Registry: The transient portal name to Sender mapping of one pass.
  - Plan: The result of one pass, virtual edges plus ordered diagnostics.
*/
package domain
