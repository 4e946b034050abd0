package app

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "note.txt")
	if err := os.WriteFile(file, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr string
	}{
		{name: "regular file", path: file, want: "hello"},
		{name: "directory", path: dir, wantErr: "is a directory"},
		{name: "missing", path: filepath.Join(dir, "nope"), wantErr: "stat path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := readInput(tt.path)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("readInput() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("readInput() error = %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("readInput() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadInput_RelativePath(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "rel.json"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Chdir(dir)

	got, err := readInput("rel.json")
	if err != nil {
		t.Fatalf("readInput() error = %v", err)
	}
	if string(got) != "{}" {
		t.Errorf("readInput() = %q, want {}", got)
	}
}
