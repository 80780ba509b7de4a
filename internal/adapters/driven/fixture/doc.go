// Package fixture loads seed threads and knowledge chunks from JSON or YAML
// files and watches those files for changes.
package fixture
