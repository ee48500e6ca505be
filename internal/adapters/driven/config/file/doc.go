// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - StateStore: TOML-based storage of the active StoreRecord
//
// Every write goes through writeFileAtomic, so a crash leaves either the
// previous file or the new one on disk.
package file
