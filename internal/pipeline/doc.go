// Package pipeline orchestrates input discovery, per-file conversion and
// batch summary reporting.
//
// Run walks the inputs sequentially. Each file is planned (probe → classify
// → output pre-check), locked against concurrent runs, claimed so two inputs
// never share an output, then converted by a single ffmpeg invocation. A
// rejection skips the file unless --breakOnError is set. Analyze runs the
// same planning without ffmpeg and prints the decisions as a table.
package pipeline
