// Package glstring canonicalizes GL Strings, the delimiter-structured
// notation used to describe genotype lists of gene/allele combinations.
//
// Canonicalization recursively sorts every delimiter level so that two GL
// Strings describing the same genotype list compare equal as strings:
//
//	glstring.Canonicalize("A*01:103+A*01:11") // "A*01:11+A*01:103"
//
// Delimiters are resolved in precedence order ^ | + ~ /. Within a level,
// tokens are ordered by locus name and then by the numeric value of their
// allele fields, so "A*01:9" sorts before "A*01:11".
//
// Every function in this package is pure and safe for concurrent use.
// Malformed input is never rejected; it is ordered as well as its text
// allows.
package glstring
