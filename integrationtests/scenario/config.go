package scenario

import "time"

// Config holds settings for running a scenario.
type Config struct {
	// NodeURLs are the HTTP base URLs of the registry nodes (e.g. http://localhost:8080).
	// Replication scenarios need at least two.
	NodeURLs []string
	// PollInterval is how often eventually-consistent checks are retried.
	PollInterval time.Duration
}
