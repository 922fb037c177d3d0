// Package ui implements the terminal file browser.
//
// The left side lists indexed file names and holds the scan button. The
// right side shows, for the selected name, the stored path, the embedding
// text, a free-form description box, the parsed classes and functions, and
// the file source. Choosing a class or function scrolls the source to its
// definition line and highlights it.
//
// Scans run on the indexer's goroutine. The model drains their events in
// commands and applies them in Update, so widget state is only touched on
// the bubbletea goroutine. File lookups and parsing also run as commands;
// their results are shown when they arrive unless a newer selection has
// replaced them.
//
// Keys:
//
//	tab / shift+tab  move focus between panes
//	up/k, down/j     move the cursor or scroll the code
//	pgup / pgdown    scroll the code by half a page
//	enter            select a file, jump to a definition, or start a scan
//	s                start a scan
//	esc              leave the description box
//	q, ctrl+c        quit
package ui
