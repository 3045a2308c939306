// Package review implements the interactive contract review screen.
//
// # Layout
//
// The left pane lists risks in document order with the verdict on their
// suggested rewrite. The right pane shows the document with highlights,
// either the base text or the edited text produced by the accepted
// suggestions. Enter swaps the document for the selected risk's detail.
//
// # Coordinates
//
// Highlight offsets count UTF-16 code units. The view never converts them:
// spans already carry their text, and scrolling works on rendered lines by
// counting newlines in the spans that precede the active one.
//
// Every mutation goes through redline.ReviewService, which saves decisions
// immediately. The view recomputes the derived state after each change.
package review
