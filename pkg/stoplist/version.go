// Package stoplist holds release metadata for the stoplist tools.
package stoplist

// Version is the stoplist release version.
const Version = "0.1.0"
