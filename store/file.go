// Package store persists the desk logs, either as JSONL files in a folder or
// as rows of a SQL database.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/goldesk"
)

// File stores each log of the desk as a JSONL file in Dir: quotes.jsonl,
// transactions.jsonl, payments.jsonl and transfers.jsonl. Files are only ever
// appended to, they stay human-readable and git-friendly.
type File struct {
	Dir string
}

// NewFile returns a file store in dir, creating the folder if needed.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cannot create data folder %q: %w", dir, err)
	}
	return &File{Dir: dir}, nil
}

func (f *File) filename(table string) string { return filepath.Join(f.Dir, table+".jsonl") }

// Load reads every log file. Missing files are empty logs.
func (f *File) Load(ctx context.Context) ([]goldesk.Record, error) {
	var recs []goldesk.Record
	for _, table := range goldesk.Tables {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		filename := f.filename(table)
		r, err := os.Open(filename)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("cannot open %q for reading: %w", filename, err)
		}
		decoded, err := goldesk.DecodeRecords(r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("format error in %q: %w", filename, err)
		}
		recs = append(recs, decoded...)
	}
	return recs, nil
}

// Append encodes the whole batch first, then writes it with one write per
// log file.
func (f *File) Append(ctx context.Context, recs ...goldesk.Record) error {
	buffers := make(map[string]*bytes.Buffer)
	for _, rec := range recs {
		table := goldesk.Table(rec)
		buf, ok := buffers[table]
		if !ok {
			buf = new(bytes.Buffer)
			buffers[table] = buf
		}
		if err := goldesk.EncodeRecord(buf, rec); err != nil {
			return err
		}
	}
	for _, table := range goldesk.Tables {
		buf, ok := buffers[table]
		if !ok {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.appendFile(f.filename(table), buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}

func (f *File) appendFile(filename string, data []byte) error {
	w, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("cannot open %q for writing: %w", filename, err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("cannot write to %q: %w", filename, err)
	}
	return w.Close()
}
