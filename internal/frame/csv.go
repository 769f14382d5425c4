package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Options controls CSV loading behavior.
type Options struct {
	// Delimiter for CSV. If 0, auto-detects among ',', ';', '\t'.
	Delimiter rune
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
	// MaxCategories caps distinct values for a string column to still count
	// as categorical; above it the column is treated as free text.
	MaxCategories int
}

// DefaultOptions returns reasonable defaults for dataset loading.
func DefaultOptions() Options {
	return Options{MaxCategories: 64}
}

// LoadCSV reads a CSV/TSV file into a Frame.
func LoadCSV(path string, opt Options) (*Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	fr, err := ReadCSV(f, opt)
	if err != nil {
		return nil, err
	}
	fr.Name = filepath.Base(path)
	return fr, nil
}

// ReadCSV reads CSV data into a Frame, inferring a Kind per column from the
// predominant parsed type of its non-empty cells.
func ReadCSV(rd io.Reader, opt Options) (*Frame, error) {
	br := &peekReader{r: rd}
	delim := opt.Delimiter
	if delim == 0 {
		d, err := br.sniffDelimiter()
		if err != nil {
			return nil, fmt.Errorf("sniff delimiter: %w", err)
		}
		delim = d
	}
	r := csv.NewReader(br)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Frame{index: map[string]int{}}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	ncol := len(header)
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}

	raw := make([][]string, ncol)
	rows := 0
	for rows < maxRows {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", rows+1, err)
		}
		for j := 0; j < ncol; j++ {
			v := ""
			if j < len(rec) {
				v = strings.TrimSpace(rec[j])
			}
			raw[j] = append(raw[j], v)
		}
		rows++
	}

	fr := &Frame{index: make(map[string]int, ncol), rows: rows}
	for j := 0; j < ncol; j++ {
		name := strings.TrimSpace(header[j])
		fr.cols = append(fr.cols, buildColumn(name, raw[j], opt))
		fr.index[name] = j
	}
	return fr, nil
}

// buildColumn infers the column kind and converts cells accordingly.
func buildColumn(name string, cells []string, opt Options) *Column {
	maxCats := opt.MaxCategories
	if maxCats <= 0 {
		maxCats = 64
	}
	numCnt, boolCnt, txtCnt := 0, 0, 0
	uniq := map[string]struct{}{}
	for _, v := range cells {
		if v == "" {
			continue
		}
		if _, ok := parseNumeric(v, opt); ok {
			numCnt++
			continue
		}
		if _, ok := parseBool(v); ok {
			boolCnt++
			continue
		}
		txtCnt++
		if len(uniq) <= maxCats {
			uniq[v] = struct{}{}
		}
	}

	c := &Column{Name: name, Valid: make([]bool, len(cells))}
	switch {
	case numCnt > 0 && numCnt >= boolCnt && numCnt >= txtCnt:
		c.Kind = KindNumeric
		c.Floats = make([]float64, len(cells))
		for i, v := range cells {
			x, ok := parseNumeric(v, opt)
			if v == "" || !ok {
				c.Floats[i] = math.NaN()
				continue
			}
			c.Floats[i] = x
			c.Valid[i] = true
		}
	case boolCnt > 0 && boolCnt >= txtCnt:
		c.Kind = KindBool
		c.Bools = make([]bool, len(cells))
		for i, v := range cells {
			b, ok := parseBool(v)
			if v == "" || !ok {
				continue
			}
			c.Bools[i] = b
			c.Valid[i] = true
		}
	default:
		if len(uniq) > 0 && len(uniq) <= maxCats {
			c.Kind = KindCategorical
		} else {
			c.Kind = KindText
		}
		c.Strings = make([]string, len(cells))
		for i, v := range cells {
			if v == "" {
				continue
			}
			c.Strings[i] = v
			c.Valid[i] = true
		}
	}
	return c
}

func parseBool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "yes":
		return true, true
	case "false", "no":
		return false, true
	}
	return false, false
}

// parseNumeric handles locale variants: ',' or '.' decimals, thousands
// separators, percent suffixes and scientific notation.
func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	raw = strings.ReplaceAll(raw, "%", "")
	raw = strings.ReplaceAll(raw, " ", " ")
	raw = strings.TrimSpace(raw)

	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// peekReader buffers the first line so the delimiter can be sniffed without
// consuming it.
type peekReader struct {
	r   io.Reader
	buf []byte
}

func (p *peekReader) sniffDelimiter() (rune, error) {
	tmp := make([]byte, 4096)
	for !strings.ContainsRune(string(p.buf), '\n') {
		n, err := p.r.Read(tmp)
		p.buf = append(p.buf, tmp[:n]...)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return 0, err
		}
		if n == 0 {
			break
		}
	}
	line := string(p.buf)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	best, bestCnt := ',', strings.Count(line, ",")
	if n := strings.Count(line, ";"); n > bestCnt {
		best, bestCnt = ';', n
	}
	if n := strings.Count(line, "\t"); n > bestCnt {
		best = '\t'
	}
	return best, nil
}

func (p *peekReader) Read(b []byte) (int, error) {
	if len(p.buf) > 0 {
		n := copy(b, p.buf)
		p.buf = p.buf[n:]
		return n, nil
	}
	return p.r.Read(b)
}

// WriteCSV writes the frame back out as comma-separated values.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.Columns()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, len(f.cols))
	for i := 0; i < f.rows; i++ {
		for j, c := range f.cols {
			rec[j] = c.Label(i)
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
