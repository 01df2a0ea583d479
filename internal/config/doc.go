// Package config loads editor settings.
//
// A Config starts from Default and is overlaid by a config file and then by
// environment variables:
//
//	defaults < textcore.toml | textcore.yaml | textcore.json < TEXTCORE_*
//
// The file format is chosen by extension (see package loader). Keys use
// dotted camelCase paths such as "editor.tabSize" or
// "history.coalesceWindow"; environment variables map onto them as
// TEXTCORE_EDITOR_TAB_SIZE, with short aliases like TEXTCORE_TAB_SIZE.
// Durations may be written as strings ("250ms") or as milliseconds.
//
// Watch keeps a Config current while the file is edited, publishing
// events.ConfigReloaded or events.ConfigReloadFailed when a bus is given.
package config
