// Package magickit identifies files by their content rather than their name.
//
// A file's leading bytes ("magic number") are matched against an ordered
// signature table, scored for Shannon entropy and fingerprinted with a
// configurable checksum. Files whose extension disagrees with their content
// are flagged, and identified files can be copied into per-type directories
// without ever overwriting one another.
//
// The root package holds the storage abstraction shared by every stage:
// [FileReader] for inputs, [FileWriter] for outputs, combined in
// [FileSystem]. Analysis only ever needs a [FileReader].
//
// # Packages
//
//   - signature: the magic-number table and first-match-wins matcher
//   - entropy: Shannon entropy over a bounded sample and its bands
//   - scheduler: the bounded, ordered task scheduler and the CPU worker pool
//   - analyzer: the per-file pipeline, batch analysis and the report
//   - naming: sanitized, collision-free destination names
//   - organizer: copies identified files into per-type directories
//   - collect: file discovery with glob filters, and change watching
//   - service: configuration wired into the components above
//
// # Storage Drivers
//
//   - Local filesystem (github.com/gobeaver/magickit/driver/local)
//   - In-memory (github.com/gobeaver/magickit/driver/memory)
//
// Both register themselves with the driver factory on import:
//
//	import _ "github.com/gobeaver/magickit/driver/local"
//
//	fs, err := magickit.CreateDriver("local", "./photos")
//
// # Optional Capabilities
//
// Drivers may implement optional capability interfaces. Use type assertions
// to check for support:
//
//	if cs, ok := fs.(magickit.CanChecksum); ok {
//	    hash, err := cs.Checksum(ctx, "file.txt", magickit.ChecksumSHA256)
//	}
//
//	if watcher, ok := fs.(magickit.CanWatch); ok {
//	    token, err := watcher.Watch(ctx, "**/*.png")
//	}
//
// Sources are wrapped with [NewReadOnlyFileSystem] during analysis.
//
// # File Selection
//
//	png, _ := magickit.Glob("*.png")
//	organized, _ := magickit.ExcludeGlob("OrganizedFiles")
//	files, err := magickit.ListWithSelector(ctx, fs, "", magickit.And(png, organized), true)
//
// # Error Handling
//
//	_, err := fs.Read(ctx, "nonexistent.txt")
//	if magickit.IsNotExist(err) {
//	    // File does not exist
//	}
//
//	var pathErr *magickit.PathError
//	if errors.As(err, &pathErr) {
//	    fmt.Printf("Operation: %s, Path: %s\n", pathErr.Op, pathErr.Path)
//	}
//
// # Configuration
//
// [Config] is loaded from environment variables with the BEAVER_MAGICKIT_
// prefix, for example BEAVER_MAGICKIT_CHECKSUM_ALGORITHM=xxhash.
package magickit
