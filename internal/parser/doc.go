// Package parser reads crate puzzles: a stack diagram and a block of move
// instructions separated by a blank line. It accepts the bracketed crate
// diagram as well as a compact per-stack listing, and can write stacks back
// out in either form.
package parser
