package load

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rickgao/stockstats/internal/model"
)

// EncodeNDJSON writes one JSON object per row. Every table column is present in
// column order; absent cells are null. Floats always carry a decimal point so
// schema autodetection types the column as FLOAT.
func EncodeNDJSON(w io.Writer, table *model.Table) error {
	bw := bufio.NewWriter(w)
	for i := range table.Rows {
		line, err := encodeRecord(table, i)
		if err != nil {
			return err
		}
		bw.Write(line)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// MarshalNDJSON returns the NDJSON encoding of table.
func MarshalNDJSON(table *model.Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeNDJSON(&buf, table); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeRecord(table *model.Table, i int) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for j, col := range table.Columns {
		if j > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal(col)
		buf.Write(key)
		buf.WriteByte(':')
		if err := encodeValue(&buf, table.Cell(i, col)); err != nil {
			return nil, fmt.Errorf("encode %s.%s: %w", table.Rows[i].Stock, col, err)
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func encodeValue(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return fmt.Errorf("unsupported float %v", x)
		}
		buf.WriteString(formatFloat(x))
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

func formatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}
