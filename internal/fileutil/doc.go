// Package fileutil provides file hashing and atomic file writes.
package fileutil
