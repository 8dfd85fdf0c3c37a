// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package chunker

import "strings"

// chunkSemantic splits on blank-line paragraph boundaries and packs
// paragraphs greedily by MaxChunkSize. A paragraph that alone exceeds
// MaxChunkSize is split into sentences and packed the same way the
// sentence strategy would, with the surplus carried into the next outer
// paragraph group.
func chunkSemantic(req Request) ([]Chunk, error) {
	paragraphs := splitParagraphs(req.Content)
	if len(paragraphs) == 0 {
		return nil, nil
	}

	var chunks []Chunk
	buffer := ""

	flush := func() {
		if buffer == "" {
			return
		}
		chunks = append(chunks, newChunk(buffer, req.SourceURL, req.Namespace))
		buffer = ""
	}

	for _, p := range paragraphs {
		if len(p) > req.MaxChunkSize {
			flush()
			sub, _ := chunkSentence(Request{
				Content:      p,
				MaxChunkSize: req.MaxChunkSize,
				Overlap:      req.Overlap,
				SourceURL:    req.SourceURL,
				Namespace:    req.Namespace,
			})
			if len(sub) > 0 {
				chunks = append(chunks, sub[:len(sub)-1]...)
				buffer = sub[len(sub)-1].Text
			}
			continue
		}

		candidate := p
		if buffer != "" {
			candidate = buffer + "\n\n" + p
		}
		if buffer != "" && len(candidate) > req.MaxChunkSize {
			flush()
			candidate = p
		}
		buffer = candidate
	}
	flush()

	return chunks, nil
}

func splitParagraphs(text string) []string {
	raw := strings.Split(text, "\n\n")
	var out []string
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
