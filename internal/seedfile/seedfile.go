// Package seedfile parses the four input files feeding the generator. Every
// shape violation is reported as a fatal error with the offending file and
// line; no partial results are returned.
package seedfile

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"bankgen/internal/geo"
	"bankgen/internal/util"
)

// CountryFile holds the parsed state/city/street name lists.
type CountryFile struct {
	States  []string
	Cities  []geo.CityRow
	Streets []string
}

// CustomerRow is one parsed customer seed: gender plus first and last name.
type CustomerRow struct {
	Gender byte
	First  string
	Last   string
}

// QuestionRow is one recovery question with its candidate answers.
type QuestionRow struct {
	Question string
	Answers  []string
}

// StoreRow is one parsed store with its category pricing rule.
type StoreRow struct {
	Name     string
	Category string
	Online   bool
	Range    bool
	Prices   []float64
}

type lineReader struct {
	scanner *bufio.Scanner
	name    string
	line    int
}

func newLineReader(r io.Reader, name string) *lineReader {
	return &lineReader{scanner: bufio.NewScanner(r), name: name}
}

func (lr *lineReader) next() (string, error) {
	if !lr.scanner.Scan() {
		if err := lr.scanner.Err(); err != nil {
			return "", errors.Wrapf(err, "%s", lr.name)
		}
		return "", errors.Errorf("%s: unexpected end of file after line %d", lr.name, lr.line)
	}
	lr.line++
	return strings.TrimRight(lr.scanner.Text(), "\r\n"), nil
}

func (lr *lineReader) nextInt() (int, error) {
	raw, err := lr.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.Errorf("%s:%d: expected count, got %q", lr.name, lr.line, raw)
	}
	if n < 0 {
		return 0, errors.Errorf("%s:%d: negative count %d", lr.name, lr.line, n)
	}
	return n, nil
}

// ParseCountry reads a country file: state count and names, city count and
// name/zip line pairs, street count and names.
func ParseCountry(r io.Reader, name string) (CountryFile, error) {
	lr := newLineReader(r, name)
	var out CountryFile

	n, err := lr.nextInt()
	if err != nil {
		return CountryFile{}, err
	}
	for i := 0; i < n; i++ {
		state, err := lr.next()
		if err != nil {
			return CountryFile{}, err
		}
		out.States = append(out.States, state)
	}

	n, err = lr.nextInt()
	if err != nil {
		return CountryFile{}, err
	}
	for i := 0; i < n; i++ {
		city, err := lr.next()
		if err != nil {
			return CountryFile{}, err
		}
		zipRaw, err := lr.next()
		if err != nil {
			return CountryFile{}, err
		}
		zip, err := strconv.Atoi(strings.TrimSpace(zipRaw))
		if err != nil {
			return CountryFile{}, errors.Errorf("%s:%d: city %q: bad zip %q", name, lr.line, city, zipRaw)
		}
		out.Cities = append(out.Cities, geo.CityRow{Name: city, Zip: zip})
	}

	n, err = lr.nextInt()
	if err != nil {
		return CountryFile{}, err
	}
	for i := 0; i < n; i++ {
		street, err := lr.next()
		if err != nil {
			return CountryFile{}, err
		}
		out.Streets = append(out.Streets, street)
	}
	return out, nil
}

// ParseCustomers reads customer seeds of the form "<gender> <first> <last>".
func ParseCustomers(r io.Reader, name string) ([]CustomerRow, error) {
	lr := newLineReader(r, name)
	n, err := lr.nextInt()
	if err != nil {
		return nil, err
	}
	rows := make([]CustomerRow, 0, n)
	for i := 0; i < n; i++ {
		raw, err := lr.next()
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(raw)
		if len(fields) != 3 {
			return nil, errors.Errorf("%s:%d: expected \"<gender> <first> <last>\", got %q", name, lr.line, raw)
		}
		if len(fields[0]) != 1 || (fields[0] != "M" && fields[0] != "F") {
			return nil, errors.Errorf("%s:%d: bad gender %q", name, lr.line, fields[0])
		}
		rows = append(rows, CustomerRow{Gender: fields[0][0], First: fields[1], Last: fields[2]})
	}
	return rows, nil
}

// ParseQuestions reads recovery questions: each question line is followed by
// a comma-delimited answers line.
func ParseQuestions(r io.Reader, name string) ([]QuestionRow, error) {
	lr := newLineReader(r, name)
	n, err := lr.nextInt()
	if err != nil {
		return nil, err
	}
	rows := make([]QuestionRow, 0, n)
	for i := 0; i < n; i++ {
		q, err := lr.next()
		if err != nil {
			return nil, err
		}
		a, err := lr.next()
		if err != nil {
			return nil, err
		}
		answers := strings.Split(a, ",")
		if len(answers) == 0 || strings.TrimSpace(answers[0]) == "" {
			return nil, errors.Errorf("%s:%d: question %q has no answers", name, lr.line, q)
		}
		rows = append(rows, QuestionRow{Question: q, Answers: answers})
	}
	return rows, nil
}

// ParseStores reads store categories. Each category is a store count, a
// "<category> <flags> <prices>" line, then that many store names. Flags: O
// marks online stores, R marks the two prices as a range.
func ParseStores(r io.Reader, name string) ([]StoreRow, error) {
	lr := newLineReader(r, name)
	categories, err := lr.nextInt()
	if err != nil {
		return nil, err
	}
	var rows []StoreRow
	for c := 0; c < categories; c++ {
		count, err := lr.nextInt()
		if err != nil {
			return nil, err
		}
		raw, err := lr.next()
		if err != nil {
			return nil, err
		}
		fields := strings.Fields(raw)
		if len(fields) != 3 {
			return nil, errors.Errorf("%s:%d: expected \"<category> <flags> <prices>\", got %q", name, lr.line, raw)
		}
		category, flags := fields[0], fields[1]
		prices, err := parsePrices(fields[2])
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d: category %q", name, lr.line, category)
		}
		isRange := strings.Contains(flags, "R")
		if isRange && len(prices) != 2 {
			return nil, errors.Errorf("%s:%d: category %q: range pricing needs exactly 2 prices, got %d", name, lr.line, category, len(prices))
		}
		for i := 0; i < count; i++ {
			store, err := lr.next()
			if err != nil {
				return nil, err
			}
			rows = append(rows, StoreRow{
				Name:     store,
				Category: category,
				Online:   strings.Contains(flags, "O"),
				Range:    isRange,
				Prices:   prices,
			})
		}
		util.Debugf("stores: category %s (%d)", category, count)
	}
	return rows, nil
}

func parsePrices(raw string) ([]float64, error) {
	parts := strings.Split(raw, ",")
	prices := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.Errorf("bad price %q", p)
		}
		if v < 0 {
			return nil, errors.Errorf("negative price %q", p)
		}
		prices = append(prices, v)
	}
	return prices, nil
}

// LoadCountry parses a country file from disk.
func LoadCountry(path string) (CountryFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return CountryFile{}, errors.Wrap(err, "country file")
	}
	defer util.CloseWithErr(f, "country file")
	return ParseCountry(f, path)
}

// LoadCustomers parses a customer seed file from disk.
func LoadCustomers(path string) ([]CustomerRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "customer file")
	}
	defer util.CloseWithErr(f, "customer file")
	return ParseCustomers(f, path)
}

// LoadQuestions parses a recovery question file from disk.
func LoadQuestions(path string) ([]QuestionRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "question file")
	}
	defer util.CloseWithErr(f, "question file")
	return ParseQuestions(f, path)
}

// LoadStores parses a store file from disk.
func LoadStores(path string) ([]StoreRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "store file")
	}
	defer util.CloseWithErr(f, "store file")
	return ParseStores(f, path)
}
