// Package selection implements the editor's ordered, non-empty multi-range
// selection model: a set of anchor/head Ranges with a tracked primary range,
// normalized so ranges stay sorted and overlapping ranges merge — but
// adjacent ranges are kept distinct, matching Kakoune/Helix semantics rather
// than the simpler always-merge behavior of a plain cursor set.
package selection
