/*
Package ports defines the driven ports (interfaces) for the canvass engine.

These interfaces decouple the flow engine from external implementations, allowing
it to work with various storage backends, lock services and delivery channels.

# Key Interfaces

  - CampaignStore: Loads campaign records by id, join code or inbound channel.
  - SessionStore: Persists and loads per-(user, campaign) Session progress.
  - CompletionCounter: Counts completed flows (e.g. petition signatures).
  - DistributedLocker: Provides distributed locking for concurrent session access across replicas.
  - MessageProcessor: What transport adapters call for every inbound message.
  - ReplySender: Outbound delivery of replies.
*/
package ports
