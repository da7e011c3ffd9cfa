// Package session holds the client's single authoritative session record.
//
// The [Manager] owns the in-memory session snapshot and the persisted token
// pair; UI code and commands only ever read snapshots and never mutate state
// directly. All mutation happens through the four operation lifecycles
// (Login, Register, Logout, FetchCurrentUser), each of which settles the
// session exactly once, guarded by a watchdog so a dropped network completion
// can never leave the session stuck in a pending state.
package session
