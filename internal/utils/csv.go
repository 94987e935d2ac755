package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"realTimeDash/internal/domain"
)

// WriteObservationsCSV writes id,time,value rows with a header line.
func WriteObservationsCSV(w io.Writer, observations []domain.Observation) error {
	writer := csv.NewWriter(w)

	if err := writer.Write([]string{"id", "time", "value"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, o := range observations {
		if err := writer.Write([]string{
			strconv.FormatInt(o.ID, 10),
			o.Time.UTC().Format(time.RFC3339Nano),
			strconv.FormatFloat(o.Value, 'f', -1, 64),
		}); err != nil {
			return fmt.Errorf("write csv row %d: %w", o.ID, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteObservationsToFile creates filename and writes the observations as CSV.
func WriteObservationsToFile(observations []domain.Observation, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	if err := WriteObservationsCSV(file, observations); err != nil {
		return err
	}
	return file.Sync()
}
