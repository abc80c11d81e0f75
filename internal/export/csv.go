package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"ishe/internal/samplelog"
	"ishe/internal/services"
)

// ToCSV encodes samples as "elapsed,value" lines in insertion order.
func ToCSV(samples []samplelog.Sample) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	record := make([]string, 2)
	for _, s := range samples {
		record[0] = strconv.FormatInt(s.ElapsedMS, 10)
		record[1] = strconv.FormatInt(int64(s.Value), 10)
		// Writes into a bytes.Buffer cannot fail.
		_ = w.Write(record)
	}
	w.Flush()
	return buf.Bytes()
}

// DecodeCSV parses a recording produced by ToCSV.
func DecodeCSV(data []byte) ([]samplelog.Sample, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = 2
	r.TrimLeadingSpace = true
	r.ReuseRecord = true

	var samples []samplelog.Sample
	for line := 1; ; line++ {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			return samples, nil
		}
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "decode csv", "", err)
		}
		elapsed, err := strconv.ParseInt(record[0], 10, 64)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "decode csv", fmt.Sprintf("line %d: elapsed", line), err)
		}
		value, err := strconv.ParseInt(record[1], 10, 16)
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "decode csv", fmt.Sprintf("line %d: value", line), err)
		}
		samples = append(samples, samplelog.Sample{ElapsedMS: elapsed, Value: int16(value)})
	}
}
