// Package models lists the chat models available to the configured API key,
// so users can pick one for translation.
package models
