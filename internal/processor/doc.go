// Package processor sequences the translation pipeline. A single file is
// read, translated and stored. A batch selects documents by pattern, runs the
// converter into a fresh run directory and then handles every text file the
// conversion produced, one at a time.
package processor
