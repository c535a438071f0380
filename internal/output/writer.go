package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSONFile writes doc to path as indented JSON. Non-ASCII characters
// and HTML punctuation are written verbatim so board content survives
// byte-for-byte. The file is written atomically: content goes to a
// temporary file in the same directory which is renamed over path once
// fully written, so readers never observe a partial document.
func WriteJSONFile(path string, doc any) error {
	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(doc); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write JSON: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close output file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to save output file: %w", err)
	}

	return nil
}

// WriteCSVFile writes a header row followed by rows to path as CSV with
// CRLF line endings for spreadsheet compatibility. Like WriteJSONFile,
// the write is atomic via a temporary file and rename, so an existing
// file at path is only ever replaced by a complete one.
func WriteCSVFile(path string, header []string, rows [][]string) error {
	tmpFile := path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	writer := csv.NewWriter(file)
	writer.UseCRLF = true

	if err := writer.Write(header); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			_ = file.Close()
			_ = os.Remove(tmpFile)
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to close output file: %w", err)
	}

	if err := os.Rename(tmpFile, path); err != nil {
		return fmt.Errorf("failed to save output file: %w", err)
	}

	return nil
}
