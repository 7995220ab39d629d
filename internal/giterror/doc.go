// Package giterror provides error inspection capabilities for GitHub API errors.
// It centralizes the logic for identifying the different failures returned by
// the GitHub REST and GraphQL APIs so callers can map them to sentinel errors
// without scattering type switches and string checks through the codebase.
package giterror
