// Package translation sends document text to a remote language model and
// returns the generated translation. Providers exist for the OpenAI chat
// completions API and for Google Gemini; both send a single user message of
// the form "<prompt>: <text>" with sampling temperature at its minimum.
package translation
