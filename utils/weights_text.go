package utils

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"ffnet/nn"
)

// WriteText writes the weights and biases of net as comma-separated text. Each layer
// transition l starts with a "# layer l" comment and is followed by one "#ws[l][j]"
// header and row per output neuron j, then a "#bs[l]" header and the biases.
func WriteText(w io.Writer, net *nn.Network) error {
	bw := bufio.NewWriter(w)
	snap := net.Snapshot()
	for l, ws := range snap.Weights {
		fmt.Fprintf(bw, "\n# layer %d\n#ws[%d]\n", l, l)
		rows, _ := ws.Dims()
		for j := 0; j < rows; j++ {
			fmt.Fprintf(bw, "#ws[%d][%d]\n", l, j)
			writeRow(bw, ws.RawRowView(j))
		}
		fmt.Fprintf(bw, "#bs[%d]\n", l)
		writeRow(bw, snap.Biases[l])
	}
	return bw.Flush()
}

func writeRow(w *bufio.Writer, vs []float64) {
	for i, v := range vs {
		if i > 0 {
			w.WriteString(", ")
		}
		w.WriteString(FormatWeight(v))
	}
	w.WriteByte('\n')
}

// FormatWeight formats v so that ParseFloat gives back the same value. Magnitudes
// below 1e-4 use an exponent.
func FormatWeight(v float64) string {
	if v != 0 && math.Abs(v) < 1e-4 {
		return strconv.FormatFloat(v, 'e', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// ReadText reads weights and biases written by WriteText into net. Comment lines,
// starting with '#', and blank lines are skipped; the remaining lines are consumed in
// order: the weight rows of transition 0, its biases, the weight rows of transition 1
// and so on. net is only written once the whole file has been read.
func ReadText(r io.Reader, net *nn.Network) error {
	sizes := net.LayerSizes()
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	lineNum := 0
	next := func(want int) ([]float64, error) {
		for sc.Scan() {
			lineNum++
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			return parseRow(line, lineNum, want)
		}
		if err := sc.Err(); err != nil {
			return nil, err
		}
		return nil, io.ErrUnexpectedEOF
	}

	weights := make([][]float64, len(sizes)-1)
	biases := make([][]float64, len(sizes)-1)
	for l := range weights {
		in, out := sizes[l], sizes[l+1]
		weights[l] = make([]float64, 0, in*out)
		for j := 0; j < out; j++ {
			row, err := next(in)
			if err != nil {
				return errors.Wrapf(err, "reading ws[%d][%d]", l, j)
			}
			weights[l] = append(weights[l], row...)
		}
		bs, err := next(out)
		if err != nil {
			return errors.Wrapf(err, "reading bs[%d]", l)
		}
		biases[l] = bs
	}
	return net.SetParams(weights, biases)
}

func parseRow(line string, lineNum, want int) ([]float64, error) {
	fields := strings.Split(line, ",")
	if len(fields) != want {
		return nil, errors.Wrapf(nn.ErrShapeMismatch, "line %d has %d values, expected %d", lineNum, len(fields), want)
	}
	vs := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, errors.Wrapf(err, "line %d", lineNum)
		}
		vs[i] = v
	}
	return vs, nil
}

// SaveText writes the weights of net to the file at path.
func SaveText(path string, net *nn.Network) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteText(f, net); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// LoadText reads the file at path into net.
func LoadText(path string, net *nn.Network) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReadText(f, net)
}
