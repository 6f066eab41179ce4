package rope

// Edits rebuild only the chunk touched by the edit position; every other
// chunk is shared with the parent rope. The rebuilt region is re-split to
// the target size so repeated edits cannot grow a pathological chunk.

// InsertChars returns a rope with text inserted at character position ci.
// Positions past the end clamp to the end.
func (r Rope) InsertChars(ci CharIdx, text string) Rope {
	if text == "" {
		return r
	}
	ci = r.clamp(ci)
	idx, offset := r.locate(ci)

	out := make([]chunk, 0, len(r.chunks)+2)
	if idx == len(r.chunks) {
		// Appending at the very end.
		out = append(out, r.chunks...)
		out = append(out, splitChunks(text)...)
		return fromChunks(out)
	}

	target := r.chunks[idx]
	cut := byteOffsetOfChar(target.text, offset)
	out = append(out, r.chunks[:idx]...)
	out = append(out, splitChunks(target.text[:cut]+text+target.text[cut:])...)
	out = append(out, r.chunks[idx+1:]...)
	return fromChunks(out)
}

// DeleteChars returns a rope with the character range [start, end)
// removed. Out-of-range bounds clamp; an empty range is a no-op.
func (r Rope) DeleteChars(start, end CharIdx) Rope {
	start, end = r.clamp(start), r.clamp(end)
	if start >= end {
		return r
	}

	out := make([]chunk, 0, len(r.chunks))
	pos := CharIdx(0)
	for _, c := range r.chunks {
		chunkEnd := pos + CharIdx(c.chars)
		switch {
		case chunkEnd <= start || pos >= end:
			// Entirely outside the deletion: shared as-is.
			out = append(out, c)
		case pos >= start && chunkEnd <= end:
			// Entirely inside: dropped.
		default:
			// Straddles a deletion boundary: keep the surviving text.
			from := 0
			if start > pos {
				from = byteOffsetOfChar(c.text, int(start-pos))
			}
			to := len(c.text)
			if end < chunkEnd {
				to = byteOffsetOfChar(c.text, int(end-pos))
			}
			if kept := c.text[:from] + c.text[to:]; kept != "" {
				out = append(out, splitChunks(kept)...)
			}
		}
		pos = chunkEnd
	}
	return fromChunks(out)
}
