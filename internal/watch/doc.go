// Package watch re-runs the attribute filter while a dump is being
// regenerated. It watches the input file's directory, ignores everything
// but the input itself, and debounces bursts of writes into one run.
package watch
