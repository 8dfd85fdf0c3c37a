// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package chunker

import "strings"

// chunkToken splits content on whitespace-separated tokens, packing up to
// MaxChunkSize tokens per chunk with Overlap tokens repeated at the start of
// the next chunk.
func chunkToken(req Request) ([]Chunk, error) {
	tokens := strings.Fields(req.Content)
	if len(tokens) == 0 {
		return nil, nil
	}

	overlap := req.Overlap
	if overlap >= req.MaxChunkSize {
		overlap = req.MaxChunkSize - 1
	}
	if overlap < 0 {
		overlap = 0
	}

	step := req.MaxChunkSize - overlap
	if step < 1 {
		step = 1
	}

	var chunks []Chunk
	for start := 0; start < len(tokens); start += step {
		end := start + req.MaxChunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		text := strings.Join(tokens[start:end], " ")
		chunks = append(chunks, newChunk(text, req.SourceURL, req.Namespace))
		if end >= len(tokens) {
			break
		}
	}

	return chunks, nil
}
