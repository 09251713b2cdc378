// Package dataset turns data files and functions into nn.Samples.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"

	"ffnet/nn"
)

// ReadCSV reads comma-separated rows. Lines starting with '#' and blank lines are
// skipped. Every row must have as many fields as the first one.
func ReadCSV(reader io.Reader) ([][]string, error) {
	r := csv.NewReader(reader)
	r.Comment = '#'
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return rows, errors.Wrap(err, "reading csv")
		}
		if len(rows) > 0 && len(record) != len(rows[0]) {
			lineNum, _ := r.FieldPos(0)
			return rows, errInvalidLine{
				lineNum:  lineNum,
				splits:   len(record),
				expected: len(rows[0]),
			}
		}
		for i := range record {
			record[i] = strings.TrimSpace(record[i])
		}
		rows = append(rows, record)
	}
	return rows, nil
}

// ReadCSVFile is ReadCSV on the file at path.
func ReadCSVFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f)
}

type errInvalidLine struct {
	lineNum  int
	splits   int
	expected int
}

func (e errInvalidLine) Error() string {
	return fmt.Sprintf("at line %d, expected %d values, got %d",
		e.lineNum, e.expected, e.splits)
}

// ColumnIndex maps every distinct value of column col to an index, in the order the
// values first appear.
func ColumnIndex(rows [][]string, col int) (map[string]int, []string) {
	index := make(map[string]int)
	var values []string
	for _, row := range rows {
		v := row[col]
		if _, ok := index[v]; !ok {
			index[v] = len(values)
			values = append(values, v)
		}
	}
	return index, values
}

// OneHot returns a vector of size zeros with a 1 at idx.
func OneHot(size, idx int) []float64 {
	vs := make([]float64, size)
	vs[idx] = 1
	return vs
}

// TableSamples builds one sample per row: every column but labelCol is parsed as an
// input, and labelCol is one-hot encoded over its distinct values. A negative labelCol
// counts from the last column. The class names are returned in encoding order.
func TableSamples(rows [][]string, labelCol int) ([]nn.Sample, []string, error) {
	if len(rows) == 0 {
		return nil, nil, nil
	}
	width := len(rows[0])
	if labelCol < 0 {
		labelCol += width
	}
	if labelCol < 0 || labelCol >= width {
		return nil, nil, errors.Errorf("label column %d out of range for %d columns", labelCol, width)
	}

	index, classes := ColumnIndex(rows, labelCol)
	samples := make([]nn.Sample, 0, len(rows))
	for i, row := range rows {
		input := make([]float64, 0, width-1)
		for c, field := range row {
			if c == labelCol {
				continue
			}
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "row %d, column %d", i, c)
			}
			input = append(input, v)
		}
		samples = append(samples, nn.Sample{
			Input:    input,
			Expected: OneHot(len(classes), index[row[labelCol]]),
		})
	}
	return samples, classes, nil
}

// NormalizeColumn rescales input c of every sample to [0, 1] and returns the original
// range. A constant column becomes all zeros.
func NormalizeColumn(samples []nn.Sample, c int) (lo, hi float64) {
	if len(samples) == 0 {
		return 0, 0
	}
	col := make([]float64, len(samples))
	for i, s := range samples {
		col[i] = s.Input[c]
	}
	lo, hi = floats.Min(col), floats.Max(col)
	span := hi - lo
	for _, s := range samples {
		if span == 0 {
			s.Input[c] = 0
			continue
		}
		s.Input[c] = (s.Input[c] - lo) / span
	}
	return lo, hi
}

// NormalizeInputs calls NormalizeColumn on every input column.
func NormalizeInputs(samples []nn.Sample) {
	if len(samples) == 0 {
		return
	}
	for c := range samples[0].Input {
		NormalizeColumn(samples, c)
	}
}
