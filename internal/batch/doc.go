// Package batch selects the files that make up a batch run and locates the
// text files a conversion produced.
package batch
