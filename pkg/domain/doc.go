/*
Package domain contains the core domain models for the canvass engine.

It defines the campaign flow (an ordered list of questions with branching rules),
the per-(user, campaign) session that tracks progress through a flow, and the
reply handed back to the messaging host. This package is kept pure and free of
external dependencies like I/O or persistence, following Hexagonal Architecture
principles.

# Key Entities

  - Question: A single prompt, either a choice among options or free text.
  - Flow: The immutable, validated question list of a campaign plus its outro.
  - CampaignRecord: The raw campaign row as stored, before the flow is loaded.
  - Session: The persisted progress of one user through one campaign.
  - Reply: What the host should send back to the user.
*/
package domain
