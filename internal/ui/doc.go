// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI is a thin presentation layer over the session controllers:
//  1. [ListView] : Browse, filter and page routines, with stats, delete, duplicate and export
//  2. [DetailView] : One routine as a seven-column weekly calendar
//  3. [FormView] : Create or edit a routine and its exercise rows
//
// The (view) [Model] implements Init/Update/View. Controller commands are wrapped so their results come back
// as [Msg] values tagged with the mount that issued them; results for a controller that has since been
// replaced are dropped.
//
// Destructive actions ask for confirmation through a channel: the controller's command blocks in Confirm while
// the prompt is shown, and the y/n answer is sent back on the request's reply channel.
//
// Keyboard navigation uses vim-style bindings with contextual help displayed via charmbracelet/bubbles/help.
package ui
