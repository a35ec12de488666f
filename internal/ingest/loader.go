package ingest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"github.com/tealeg/xlsx/v2"
)

// Loader turns uploaded plant workbooks into normalized datasets.
type Loader struct {
	opts Options
	log  zerolog.Logger
}

func NewLoader(opts Options, log zerolog.Logger) *Loader {
	return &Loader{opts: opts.withDefaults(), log: log.With().Str("component", "ingest").Logger()}
}

// LoadFile reads a .xlsx, .csv or .json file from disk.
func (l *Loader) LoadFile(path string) (*Dataset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read %s", path)
	}
	return l.Load(filepath.Base(path), raw)
}

// LoadReader is Load for streamed uploads.
func (l *Loader) LoadReader(name string, r io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, eris.Wrapf(err, "ingest: read %s", name)
	}
	return l.Load(name, raw)
}

// Load dispatches on the file extension of name.
func (l *Loader) Load(name string, raw []byte) (*Dataset, error) {
	opts := l.opts
	var (
		g   *grid
		err error
	)
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".xlsx", ".xlsm":
		var f *xlsx.File
		f, err = xlsx.OpenBinary(raw)
		if err != nil {
			return nil, eris.Wrap(err, "xlsx: open file")
		}
		g, err = readXLSX(f, opts)
	case ".csv":
		g, err = readCSV(bytes.NewReader(raw), opts)
	case ".json":
		opts.HeaderRows = 1
		g, err = readJSON(raw)
	default:
		return nil, eris.Errorf("ingest: unsupported file type %q", ext)
	}
	if err != nil {
		return nil, err
	}

	ds, err := normalize(g, opts)
	if err != nil {
		l.log.Warn().Err(err).Str("file", name).Msg("dataset rejected")
		return nil, err
	}
	for _, w := range ds.Warnings {
		l.log.Warn().Str("file", name).Msg(w)
	}
	first, last := ds.Span()
	l.log.Info().
		Str("file", name).
		Int("rows", ds.Table.Len()).
		Strs("months", ds.Months).
		Time("from", first).
		Time("to", last).
		Msg("dataset loaded")
	return ds, nil
}
