package events

import "github.com/dshills/textcore/internal/event/topic"

// Config event topics.
const (
	// TopicConfigReloaded is published after a watched config file was
	// reloaded successfully.
	TopicConfigReloaded topic.Topic = "config.reloaded"

	// TopicConfigReloadFailed is published when a reload was rejected.
	TopicConfigReloadFailed topic.Topic = "config.reload.failed"
)

// ConfigReloaded names the file that was reloaded.
type ConfigReloaded struct {
	Path string
}

// ConfigReloadFailed carries the error that stopped a reload.
type ConfigReloadFailed struct {
	Path string
	Err  error
}
