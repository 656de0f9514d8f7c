// Package converter invokes an external document conversion tool that turns
// source documents matching a glob pattern into plain-text files.
package converter
