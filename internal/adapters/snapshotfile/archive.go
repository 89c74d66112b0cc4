// Package snapshotfile stores world states as zstd-compressed files: one JSON
// header line followed by the JSON world state.
package snapshotfile

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/andrescamacho/mythic-mines/internal/application/world"
)

// Format identifies mythic-mines world files
const Format = "mythic-mines/world"

// Header is the first line of a world file
type Header struct {
	Format  string    `json:"format"`
	Version int       `json:"version"`
	Tick    int64     `json:"tick"`
	SavedAt time.Time `json:"saved_at"`
}

// Archive implements world.SnapshotArchive
type Archive struct {
	level zstd.EncoderLevel
}

// NewArchive creates an archive using the default compression level
func NewArchive() *Archive {
	return &Archive{level: zstd.SpeedDefault}
}

// Write stores the state at path, creating parent directories.
// The file is written to a temporary name and renamed into place.
func (a *Archive) Write(path string, state *world.WorldState) error {
	if state == nil {
		return fmt.Errorf("world state is nil")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}

	if err := a.encode(f, state); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func (a *Archive) encode(w io.Writer, state *world.WorldState) error {
	enc, err := zstd.NewWriter(w, zstd.WithEncoderLevel(a.level))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 64*1024)
	header := Header{
		Format:  Format,
		Version: state.Snapshot.Version,
		Tick:    state.Snapshot.Tick,
		SavedAt: state.SavedAt,
	}
	hb, err := json.Marshal(header)
	if err != nil {
		enc.Close()
		return err
	}
	if _, err := bw.Write(append(hb, '\n')); err != nil {
		enc.Close()
		return err
	}
	if err := json.NewEncoder(bw).Encode(state); err != nil {
		enc.Close()
		return fmt.Errorf("json encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// ReadHeader returns only the header line of a world file
func (a *Archive) ReadHeader(path string) (Header, error) {
	var header Header
	err := a.open(path, func(br *bufio.Reader) error {
		var err error
		header, err = readHeader(br)
		return err
	})
	return header, err
}

// Read loads the state stored at path
func (a *Archive) Read(path string) (*world.WorldState, error) {
	var state world.WorldState
	err := a.open(path, func(br *bufio.Reader) error {
		if _, err := readHeader(br); err != nil {
			return err
		}
		if err := json.NewDecoder(br).Decode(&state); err != nil {
			return fmt.Errorf("json decode: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (a *Archive) open(path string, fn func(br *bufio.Reader) error) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return err
	}
	defer dec.Close()

	return fn(bufio.NewReaderSize(dec, 64*1024))
}

func readHeader(br *bufio.Reader) (Header, error) {
	var header Header
	line, err := br.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return header, fmt.Errorf("read header: %w", err)
	}
	if err := json.Unmarshal(line, &header); err != nil {
		return header, fmt.Errorf("invalid header: %w", err)
	}
	if header.Format != Format {
		return header, fmt.Errorf("not a world file (format %q)", header.Format)
	}
	return header, nil
}
