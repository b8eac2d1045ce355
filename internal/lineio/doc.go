// Package lineio reads dump files into memory as lines and writes filtered
// lines back out.
//
// The package is organized around two concerns:
//
//   - Sources (reader.go): [OpenSource] resolves a path or stdin, and
//     [ReadLines] splits the whole input into lines with their terminators.
//
//   - Sinks (writer.go): Pluggable output destinations via the [Sink]
//     interface, with [StdoutSink] and [FileSink] implementations.
//
// Failures are reported as [*IOError] so callers can tell them apart from
// filter errors.
package lineio
