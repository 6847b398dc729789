/*
Package peplab is the hierarchical state and navigation core of a peptide design web front end.

Each user session owns one orchestrator. The orchestrator keeps a tree of page states
(Initialization, Home, Dashboard and the Design, Analysis, Modeling and Optimization
hubs), a route history, and a reference to a backend gate shared by all sessions.
Navigation is refused while the backend health endpoint does not answer.

# Concept

A navigation target is a page name ("dashboard", "design"), a method value
("mcmc", "docking") or a qualified "hub/method" pair. Workflow targets always pass
through the dashboard first, so the history of a fresh session reads
"/", "/dashboard", "/design", "/design/mcmc". Each call reports an Outcome:
applied, rejected (unknown or invalid target) or blocked (backend down).

Sessions are saved as snapshots in a SessionStore (in memory or Redis) and are
serialised per ID, optionally across replicas through a DistributedLocker.

# Usage

	package main

	import (
		"context"
		"fmt"
		"log"

		"github.com/aretw0/peplab"
	)

	func main() {
		eng, err := peplab.New(peplab.WithBackendURL("http://localhost:8000", 0))
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		res, err := eng.Navigate(ctx, "session-123", "design/mcmc")
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(res.Outcome.Status, res.Context.CurrentRoute)
	}
*/
package peplab
