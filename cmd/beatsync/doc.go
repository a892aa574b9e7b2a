// Package main hosts the beatsync CLI entrypoint and command graph.
//
// The root command takes an audio file and a text file of caption lines and
// prints a timeline that places each line on a strong onset. Subcommands
// inspect detected onsets, report external tool availability, maintain the
// analysis cache, and scaffold configuration.
//
// Keep this package lean: the pipeline lives in internal/autosync and the
// commands here only resolve configuration, wire logging, and render output.
package main
