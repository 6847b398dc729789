/*
Package domain contains the core navigation model for the peplab front end.

It defines the workflow states a session can be in, the closed substate sets
each state accepts, and the immutable context snapshot handed to renderers.
This package is kept pure and free of I/O, following Hexagonal Architecture
principles.

# Key Entities

  - Kind: Tags a State with one of the seven page variants (Initialization, Home, Dashboard, Design, Analysis, Modeling, Optimization).
  - Substate: A sealed value drawn from the closed set for a Kind (e.g. DesignType).
  - State: A workflow page holding an optional Substate and producing its route.
  - Tree: An arena of States linked by NodeID, used to compute ancestor paths without cycles.
  - NavigationContext: The read-only snapshot of route, state name and backend status.
  - Snapshot: The serialisable image of a session, persisted by session stores.
*/
package domain
