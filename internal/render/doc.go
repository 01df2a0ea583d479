// Package render draws engine lines to a terminal.
//
// A Theme maps the style names produced by modes and the styles of text
// marks to terminal colours and attributes. A Writer turns the render
// spans of a line into text with ANSI escape sequences, optionally behind
// a line number gutter. A Tracker listens to engine events on the bus and
// collects the lines that need to be redrawn.
//
// Colours are true colours; blending happens in Lab space.
package render
