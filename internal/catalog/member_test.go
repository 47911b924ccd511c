// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import "testing"

func TestRecordID(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		wantID int64
		wantOK bool
	}{
		{"feed path", "cache/epub/1342/pg1342.rdf", 1342, true},
		{"bare name", "pg1.rdf", 1, true},
		{"leading zeros", "pg007.rdf", 7, true},
		{"zero id", "pg0.rdf", 0, false},
		{"no digits", "pg.rdf", 0, false},
		{"letters", "cache/epub/x/pgabc.rdf", 0, false},
		{"mixed", "pg12a.rdf", 0, false},
		{"negative", "pg-12.rdf", 0, false},
		{"missing prefix", "cache/epub/12/12.rdf", 0, false},
		{"wrong prefix case", "PG12.rdf", 0, false},
		{"wrong suffix", "pg12.xml", 0, false},
		{"overflow", "pg99999999999999999999.rdf", 0, false},
		{"prefix in directory only", "pg12/file.rdf", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := RecordID(tt.input)
			if id != tt.wantID || ok != tt.wantOK {
				t.Errorf("RecordID(%q) = (%d, %v), want (%d, %v)", tt.input, id, ok, tt.wantID, tt.wantOK)
			}
		})
	}
}

func TestIsRecordName(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"cache/epub/1/pg1.rdf", true},
		{"cache/epub/1/", false},
		{"cache/epub/1/pg1.rdf.bak", false},
		{"README", false},
	}
	for _, tt := range tests {
		if got := IsRecordName(tt.input); got != tt.want {
			t.Errorf("IsRecordName(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
