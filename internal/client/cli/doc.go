// Package cli provides the interactive secdesk console.
//
// It wires configuration, the local store, the REST client and the
// services into a REPL over the back-office tables. Typical flow: restore
// or prompt for a session, open a table, then page, sort, filter and
// edit it in place.
//
// Key features:
//   - Login / Logout / profile and password changes
//   - Tables from presets: letters, people, vehicles, permits, cards, settings
//   - Column value filters, global search, column visibility
//   - Inline cell edits saved through the API
//   - New incoming letters with attachments and Outlook message intake
//   - Letter types and their ordered procedures
//
// When the server ends the session (401/403) the reason is shown, the
// session is cleared and, after a short delay, the next command asks for
// a new login.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
