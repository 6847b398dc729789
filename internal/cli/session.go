package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aretw0/peplab/pkg/ports"
)

// ListSessions prints every stored session ID.
func ListSessions(ctx context.Context, store ports.SessionStore, w io.Writer) error {
	sessions, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("error listing sessions: %w", err)
	}

	if len(sessions) == 0 {
		fmt.Fprintln(w, "No active sessions found.")
		return nil
	}

	fmt.Fprintln(w, "Active Sessions:")
	for _, s := range sessions {
		fmt.Fprintln(w, "- "+s)
	}
	return nil
}

// InspectSession pretty-prints the stored snapshot of one session.
func InspectSession(ctx context.Context, store ports.SessionStore, sessionID string, w io.Writer) error {
	snap, err := store.Load(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("error loading session '%s': %w", sessionID, err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshaling session: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// RemoveSessions deletes each session, reporting per ID and joining failures.
func RemoveSessions(ctx context.Context, store ports.SessionStore, ids []string, w io.Writer) error {
	var errs []error
	for _, sessionID := range ids {
		if err := store.Delete(ctx, sessionID); err != nil {
			fmt.Fprintf(w, "Error removing '%s': %v\n", sessionID, err)
			errs = append(errs, err)
			continue
		}
		fmt.Fprintf(w, "Removed session '%s'\n", sessionID)
	}
	return errors.Join(errs...)
}
