// Package session implements the client-side state machines behind both the CLI and the TUI.
//
// # Controllers
//
//   - [ListSession] : paginated, filterable browse view with stats, delete, duplicate and export
//   - [EditSession] : one [Draft] through load, edit, validate and submit
//   - [DetailSession] : one routine rendered as a weekly calendar, with delete
//
// Controllers follow bubbletea's Elm pattern. An intent mutates state synchronously and returns a [tea.Cmd]
// that performs exactly one gateway call; the resulting message is handed back through Update.
// Intents and Update must be called from a single goroutine. Commands capture what they need when issued
// and never touch controller state.
//
// # Supersession
//
// List fetches and routine loads carry a generation number. Update drops any completion whose generation
// is not the latest one issued, so a late response can never overwrite a newer one.
// Stats fetches are not generation guarded: the last one applied wins.
//
// # Confirmation
//
// Destructive commands call an injected [Confirmer] before touching the network. The CLI answers from stdin,
// the TUI from a modal prompt. Declining produces a message that leaves state as it was.
//
// # Synchronous Use
//
// [Run] and [Drive] execute commands on the calling goroutine, which is how the CLI uses the controllers.
package session
