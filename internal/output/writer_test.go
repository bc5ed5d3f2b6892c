// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"
)

// Compile-time check that Writer implements OutputWriter
var _ OutputWriter = (*Writer)(nil)

func record(number int, status string) Record {
	return Record{
		Timestamp:  time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		Owner:      "acme",
		Project:    7,
		Repository: "web",
		Number:     number,
		IssueID:    "I_" + status,
		Title:      "Broken link",
		Status:     status,
	}
}

func TestWriter_Write(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    []string
	}{
		{
			name:    "single record",
			records: []Record{record(9, "added")},
			want: []string{
				`{"timestamp":"2025-03-01T10:00:00Z","owner":"acme","project":7,"repository":"web","number":9,"issue_id":"I_added","title":"Broken link","status":"added"}`,
			},
		},
		{
			name: "optional fields",
			records: []Record{func() Record {
				r := record(9, "skipped")
				r.Reason = "dry run"
				r.RunID = "run-1"
				return r
			}()},
			want: []string{
				`{"timestamp":"2025-03-01T10:00:00Z","run_id":"run-1","owner":"acme","project":7,"repository":"web","number":9,"issue_id":"I_skipped","title":"Broken link","status":"skipped","reason":"dry run"}`,
			},
		},
		{
			name:    "empty",
			records: nil,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writer := NewWriter(&buf)

			for _, rec := range tt.records {
				if err := writer.Write(rec); err != nil {
					t.Fatalf("Write failed: %v", err)
				}
			}

			var lines []string
			scanner := bufio.NewScanner(&buf)
			for scanner.Scan() {
				lines = append(lines, scanner.Text())
			}
			if len(lines) != len(tt.want) {
				t.Fatalf("got %d lines, want %d", len(lines), len(tt.want))
			}
			for i := range lines {
				if lines[i] != tt.want[i] {
					t.Errorf("line %d:\n got  %s\n want %s", i, lines[i], tt.want[i])
				}
			}
			if writer.Count() != len(tt.records) {
				t.Errorf("Count() = %d, want %d", writer.Count(), len(tt.records))
			}
		})
	}
}

func TestWriter_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(&buf)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			if err := writer.Write(record(n, "added")); err != nil {
				t.Errorf("Write failed: %v", err)
			}
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 20 {
		t.Fatalf("got %d lines, want 20", len(lines))
	}
	for _, line := range lines {
		var rec Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Errorf("interleaved output %q: %v", line, err)
		}
	}
}

func TestNewFileWriter(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.ndjson")

	writer, err := Open(path, io.Discard)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := writer.Write(record(5, "added")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output: %v", err)
	}
	var rec Record
	if err := json.Unmarshal(bytes.TrimSpace(content), &rec); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if rec.Number != 5 || rec.Status != "added" {
		t.Errorf("unexpected record %+v", rec)
	}
}

func TestOpen_Stdout(t *testing.T) {
	var buf bytes.Buffer
	writer, err := Open(Stdout, &buf)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := writer.Write(record(1, "skipped")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), `"status":"skipped"`) {
		t.Errorf("expected record on stdout, got %q", buf.String())
	}
	if err := writer.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}

func TestNewFileWriter_Error(t *testing.T) {
	_, err := NewFileWriter(filepath.Join(t.TempDir(), "missing", "dir", "out.ndjson"))
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriter_WriteError(t *testing.T) {
	writer := NewWriter(failingWriter{})
	err := writer.Write(record(1, "added"))
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected wrapped write error, got %v", err)
	}
	if writer.Count() != 0 {
		t.Errorf("Count() = %d after failed write", writer.Count())
	}
}
