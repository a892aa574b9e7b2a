// Package testsupport holds helpers shared by package tests: temp-dir backed
// configs, stub ffmpeg/ffprobe executables, and fixture writers.
package testsupport
