/*
Package session serializes edits of stored graphs.

Every edit runs under a per-graph lock (optionally backed by a DistributedLocker
when several replicas share a store), is validated, persisted without virtual
edges and immediately re-resolved, so a caller always receives the plan that
matches what was saved. Plans are never cached between edits.
*/
package session
