// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package chunker

// chunkSentence greedily packs sentences into chunks bounded by
// maxChunkSize characters, preserving document order. Overlap is
// sentence-count-bounded (see SPEC_FULL.md §9 / DESIGN.md open-question
// decision): the next buffer is re-seeded with however many trailing
// sentences of the emitted chunk fit within overlap characters, capped so
// at least one sentence is always dropped and progress is guaranteed.
func chunkSentence(req Request) ([]Chunk, error) {
	sentences := splitSentences(req.Content)
	if len(sentences) == 0 {
		return nil, nil
	}

	var chunks []Chunk
	var buffer []string
	bufLen := 0

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		text := joinSentences(buffer)
		chunks = append(chunks, newChunk(text, req.SourceURL, req.Namespace))
	}

	for _, s := range sentences {
		sLen := len(s)
		if bufLen > 0 && bufLen+1+sLen >= req.MaxChunkSize {
			flush()
			buffer = overlapSeed(buffer, req.Overlap)
			bufLen = sumLen(buffer)
		}
		buffer = append(buffer, s)
		bufLen += sLen
		if bufLen > 0 && len(buffer) > 1 {
			bufLen++ // separating space
		}
	}
	flush()

	return chunks, nil
}

func joinSentences(sentences []string) string {
	out := ""
	for i, s := range sentences {
		if i > 0 {
			out += " "
		}
		out += s
	}
	return out
}

func sumLen(sentences []string) int {
	n := 0
	for i, s := range sentences {
		n += len(s)
		if i > 0 {
			n++
		}
	}
	return n
}

// overlapSeed returns the trailing sentences of buffer whose combined
// length fits within overlap characters, always dropping at least the
// first sentence of buffer so the chunker makes forward progress even when
// overlap is set to maxChunkSize-1.
func overlapSeed(buffer []string, overlap int) []string {
	if overlap <= 0 || len(buffer) == 0 {
		return nil
	}

	// Never carry the whole buffer forward.
	maxCarry := len(buffer) - 1
	if maxCarry <= 0 {
		return nil
	}

	carried := 0
	length := 0
	for i := len(buffer) - 1; i >= 0 && carried < maxCarry; i-- {
		length += len(buffer[i])
		if carried > 0 {
			length++
		}
		if length > overlap {
			break
		}
		carried++
	}

	if carried == 0 {
		return nil
	}
	return append([]string(nil), buffer[len(buffer)-carried:]...)
}
