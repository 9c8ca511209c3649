package blackboard

import (
	"fmt"
	"regexp"
)

// MaxInstanceNameLength bounds instance names so keys stay readable.
const MaxInstanceNameLength = 63

// instanceNamePattern: lowercase alphanumeric, hyphens allowed but not at
// start or end. Colons would break the key layout below.
var instanceNamePattern = regexp.MustCompile(`^[a-z0-9]([-a-z0-9]*[a-z0-9])?$`)

// ValidateInstanceName checks that name can namespace Redis keys.
func ValidateInstanceName(name string) error {
	if name == "" {
		return fmt.Errorf("instance name cannot be empty")
	}
	if len(name) > MaxInstanceNameLength {
		return fmt.Errorf("instance name too long: %d characters (max: %d)", len(name), MaxInstanceNameLength)
	}
	if !instanceNamePattern.MatchString(name) {
		return fmt.Errorf("invalid instance name '%s': must be lowercase alphanumeric with hyphens (not at start/end)", name)
	}
	return nil
}

// Redis key pattern helpers
//
// Every key and channel is namespaced by instance name so several z32
// deployments can share one Redis server.
//
// Key pattern: z32:{instance_name}:{entity}:{run_id}
// Channel pattern: z32:{instance_name}:{event_type}_events

// RunKey returns the key of a run's summary hash.
// Pattern: z32:{instance_name}:run:{run_id}
func RunKey(instanceName, runID string) string {
	return fmt.Sprintf("z32:%s:run:%s", instanceName, runID)
}

// SurvivorsKey returns the key of a run's ranked survivor list.
// Pattern: z32:{instance_name}:run:{run_id}:survivors
func SurvivorsKey(instanceName, runID string) string {
	return fmt.Sprintf("z32:%s:run:%s:survivors", instanceName, runID)
}

// RunsKey returns the key of the ZSET indexing run IDs by completion time.
// Pattern: z32:{instance_name}:runs
func RunsKey(instanceName string) string {
	return fmt.Sprintf("z32:%s:runs", instanceName)
}

// RunEventsChannel returns the Pub/Sub channel announcing published runs.
// Pattern: z32:{instance_name}:run_events
func RunEventsChannel(instanceName string) string {
	return fmt.Sprintf("z32:%s:run_events", instanceName)
}
