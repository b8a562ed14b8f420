package rag

import (
	"encoding/gob"
	"io"
	"os"

	"ragdocs/internal/vector"
)

func writeGob(path string, save func(io.Writer) error) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600) // #nosec G304 -- path is from application config, not user input
	if err != nil {
		return err
	}
	if err := save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeChunks(path string, chunks []IndexedChunk) error {
	return writeGob(path, func(w io.Writer) error {
		return gob.NewEncoder(w).Encode(chunks)
	})
}

func loadIndex(path string) (*vector.Flat, error) {
	f, err := os.Open(path) // #nosec G304 -- path is from application config, not user input
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return vector.Load(f)
}

func loadChunks(path string) ([]IndexedChunk, error) {
	f, err := os.Open(path) // #nosec G304 -- path is from application config, not user input
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var chunks []IndexedChunk
	if err := gob.NewDecoder(f).Decode(&chunks); err != nil {
		return nil, err
	}
	return chunks, nil
}
