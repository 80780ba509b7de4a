// Package file provides the TOML-backed configuration store.
//
// The file lives at <config dir>/config.toml. The directory defaults to
// ~/.chatdesk and can be overridden with the CHATDESK_CONFIG_DIR
// environment variable or an explicit directory.
package file
