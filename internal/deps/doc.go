// Package deps checks that the external binaries beatsync shells out to are
// installed, and turns missing ones into a dependency error with an install
// hint.
package deps
