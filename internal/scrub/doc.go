// Package scrub removes region-list annotations from BEAST tree files in a
// single streaming pass.
//
// BEAST runs fed with recombination-masked alignments leave two attributes on
// every node of the sampled trees:
//
//	Eight_loc_Rec_regions_removed="ACGT...",
//	Eight_loc_Rec_regions_removed.set={"A","C",...},
//
// Both carry a copy of the masked region data and inflate tree files by orders
// of magnitude. A Scrubber drops these constructs, including the trailing
// comma, and passes every other byte through unchanged. It never looks ahead
// and never holds more than len(Patterns.Set)+1 bytes of history, so it can be
// used on files far larger than memory.
//
// Input is processed in three phases:
//
//   - a verbatim header (see Header), usually the taxa and data blocks of the
//     NEXUS file, which is copied without inspection;
//   - everything up to and including the first '(' which is also copied;
//   - the tree bodies, where the annotations are matched and removed.
//
// Run drives a Scrubber over an io.Reader/io.Writer pair. Transformer exposes
// the same machine as a golang.org/x/text/transform.Transformer.
package scrub
