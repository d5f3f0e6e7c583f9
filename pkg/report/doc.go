// Package report writes analysis results in machine and human readable
// formats.
//
// # Formats
//
//   - JSON: the complete result, re-readable with [ReadJSON]
//   - XLSX: one sheet each for the summary, mesh, assembly and margins
//   - PDF: a printable summary with the governing margins
//   - PNG: margin envelope against elevation
//   - DOT and SVG: the assembled structure of one load case
//   - text: a terminal chart of the margin envelope
//
// Every writer takes an [io.Writer] so that the CLI can write files and the
// API can stream responses with the same code.
package report
