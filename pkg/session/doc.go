/*
Package session serialises access to navigation sessions.

Each call rebuilds the session's orchestrator from a ports.SessionStore, runs
the caller's function under a per-session lock (optionally backed by a
distributed lock so replicas agree), and saves the resulting snapshot.
*/
package session
