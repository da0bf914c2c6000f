/*
Package ports defines the driven ports (interfaces) of the portal resolver.

These interfaces decouple the resolver and its hosts from storage and
coordination backends.

# Key Interfaces

  - GraphLoader: retrieves graph snapshots by ID (e.g., from Loam, files or memory).
  - GraphStore: a GraphLoader that can also save and delete graph descriptions.
  - Watchable: notifies when the backing graphs change.
  - DistributedLocker: serializes concurrent edits of the same graph across replicas.

Stores only ever persist explicit edges. Virtual edges are recomputed on every
resolution pass and must never reach a backend.
*/
package ports
