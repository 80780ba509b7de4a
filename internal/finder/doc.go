// Package finder implements in-conversation search and highlighting.
//
// A query is compiled once into a Pattern. The same Pattern drives both
// Collect, which flattens every hit across a thread into an ordered list of
// occurrences, and Highlight, which splits a single text segment into plain
// and matched spans for rendering. Both walk text with Next, so the Nth
// occurrence of a segment means the same thing to each of them.
//
// Offsets are rune offsets. Zero-length matches never count as hits.
package finder
