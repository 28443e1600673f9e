// Package spline turns sparse joint samples into dense renderable curves.
//
// Every function here is pure: inputs are never modified and the same input
// always produces the same output. The through-point variants
// (BezierThroughPoints, CatmullRom, RecursiveBezier) return curves whose first
// and last samples are bit-for-bit equal to the first and last control
// points. Degenerate input (fewer than two points) is returned as a copy.
package spline
