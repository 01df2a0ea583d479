// Package topic defines hierarchical event topics and wildcard matching.
//
// Topics use dot notation:
//
//	buffer.lines.changed
//	cursor.selection.changed
//
// Patterns may use "*" for exactly one segment and "**" for zero or more:
//
//	buffer.*       matches buffer.cleared, not buffer.lines.changed
//	buffer.**      matches buffer.lines.changed and buffer.cleared
//	**.changed     matches any topic ending in changed
package topic
