package server

import "time"

const (
	readTimeout  = 10 * time.Second
	writeTimeout = 30 * time.Second // on-demand slates may fetch six datasets
	idleTimeout  = 60 * time.Second

	redisConnectTimeout = 5 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second
