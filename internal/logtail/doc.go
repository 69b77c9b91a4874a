// Package logtail reads the end of the memegen log file for the logs
// command. Lines are kept in a fixed ring of the requested size, so large
// logs are streamed once without being held in memory.
package logtail
