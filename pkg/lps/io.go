package lps

import (
	"bufio"
	"encoding/gob"
	"io"
	"os"

	"github.com/mcrlgo/symparity/pkg/rewrite"
)

// registerTerms tells encoding/gob about every concrete rewrite.Term shape
// so a term tree stored behind the Term interface round-trips through the
// binary encoding of spec.md §12 ("Input/output files").
func registerTerms() {
	gob.Register(rewrite.Var{})
	gob.Register(rewrite.BoolLit{})
	gob.Register(rewrite.IntLit{})
	gob.Register(rewrite.StrLit{})
	gob.Register(rewrite.And{})
	gob.Register(rewrite.Or{})
	gob.Register(rewrite.Not{})
	gob.Register(rewrite.Eq{})
	gob.Register(rewrite.Lt{})
	gob.Register(rewrite.Plus{})
}

func init() {
	registerTerms()
}

// OpenInput opens path for reading, or returns os.Stdin when path is empty
// (spec.md §6, "Read from a named path or from standard input when the
// path is empty").
func OpenInput(path string) (io.ReadCloser, error) {
	if path == "" {
		return io.NopCloser(bufio.NewReader(os.Stdin)), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// CreateOutput creates path for writing, or returns os.Stdout when path is
// empty.
func CreateOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// ReadLPS decodes a gob-encoded LPS from r (spec.md §6, "Binary-encoded LPS
// ... terms").
func ReadLPS(r io.Reader) (*LPS, error) {
	var l LPS
	if err := gob.NewDecoder(r).Decode(&l); err != nil {
		return nil, err
	}
	return &l, nil
}

// WriteLPS gob-encodes l to w.
func WriteLPS(w io.Writer, l *LPS) error {
	return gob.NewEncoder(w).Encode(l)
}

// ReadPBES decodes a gob-encoded PBES from r.
func ReadPBES(r io.Reader) (*PBES, error) {
	var p PBES
	if err := gob.NewDecoder(r).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

// WritePBES gob-encodes p to w.
func WritePBES(w io.Writer, p *PBES) error {
	return gob.NewEncoder(w).Encode(p)
}
