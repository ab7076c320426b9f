/*
Package session implements session management and persistence orchestration.

It serializes the read-modify-write cycle of each (user, campaign) session: a
reference-counted mutex per key within the process, plus an optional
DistributedLocker when several replicas share one store.
*/
package session
