// Package internal contains the core implementation packages for ftlpack.
//
// # Package Organization
//
//   - classpath: Classpath entries and resource resolution
//   - archive: Read-only jar/zip views exposed as fs.FS
//   - discovery: Template discovery, identifier naming and ordering
//   - manifest: Manifest encoding and build output sinks
//   - config: Configuration loading with Viper and .env support
//   - logging: Structured logging on zap
//   - errors: Structured error type and classification
//   - watcher: File system monitoring with debouncing
//   - ubl: UBL document field lookup keys
//   - version: Build version information
//
// # Data Flow
//
//	config -> classpath.Classpath -> discovery.Discoverer -> manifest.Sink
//
// The discoverer resolves each location against the classpath, walks each
// directory or archive occurrence and merges the identifiers in
// first-seen order. The result is handed to a sink that writes the
// manifest and the resource preservation declaration.
package internal
