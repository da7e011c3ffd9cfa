// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view storefront workflow:
//  1. [LoginView] : Email/password form for guests
//  2. [BrowseView] : Trending catalog listing
//  3. [DetailView] : Single title with prices and description
//  4. [WatchlistView] : Saved titles
//  5. [LibraryView] : Owned and rented titles
//
// The initial view is decided by the route guards: authenticated sessions
// land on Browse, everyone else on Login. The [Model] implements bubbletea's
// standard Init/Update/View pattern, receiving messages via the Msg union
// type.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, w, l, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package ui
