// Package crane models labeled stacks of single-character crates and replays
// relocation instructions against them with a single-crate gripper.
// Stacks are indexed from 0 internally; labels shown to users start at 1.
package crane
