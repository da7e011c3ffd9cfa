package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/zaukho/zx/internal/guard"
	"github.com/zaukho/zx/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgGateDecided MsgKind = iota
	MsgLoginDone
	MsgContentsFetched
	MsgDetailFetched
	MsgWatchlistFetched
	MsgLibraryFetched
	MsgWatchlistSaved
)

// gateDecidedMsg is the constructor for [MsgGateDecided]
func gateDecidedMsg(decision guard.Decision) Msg {
	return Msg{kind: MsgGateDecided, data: decision}
}

// loginDoneMsg is the constructor for [MsgLoginDone]
func loginDoneMsg(err error) Msg {
	return Msg{kind: MsgLoginDone, data: err}
}

// contentsFetchedMsg is the constructor for [MsgContentsFetched]
func contentsFetchedMsg(contents []models.Content, err error) Msg {
	return Msg{
		kind: MsgContentsFetched,
		data: struct {
			contents []models.Content
			err      error
		}{contents, err},
	}
}

// detailFetchedMsg is the constructor for [MsgDetailFetched]
func detailFetchedMsg(content *models.Content, err error) Msg {
	return Msg{
		kind: MsgDetailFetched,
		data: struct {
			content *models.Content
			err     error
		}{content, err},
	}
}

// watchlistFetchedMsg is the constructor for [MsgWatchlistFetched]
func watchlistFetchedMsg(entries []models.WatchlistEntry, err error) Msg {
	return Msg{
		kind: MsgWatchlistFetched,
		data: struct {
			entries []models.WatchlistEntry
			err     error
		}{entries, err},
	}
}

// libraryFetchedMsg is the constructor for [MsgLibraryFetched]
func libraryFetchedMsg(entries []models.LibraryEntry, err error) Msg {
	return Msg{
		kind: MsgLibraryFetched,
		data: struct {
			entries []models.LibraryEntry
			err     error
		}{entries, err},
	}
}

// watchlistSavedMsg is the constructor for [MsgWatchlistSaved]
func watchlistSavedMsg(err error) Msg {
	return Msg{kind: MsgWatchlistSaved, data: err}
}
