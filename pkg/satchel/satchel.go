// Package satchel holds module-wide metadata.
package satchel

// Version is the satchel release version.
const Version = "v0.1.0"
