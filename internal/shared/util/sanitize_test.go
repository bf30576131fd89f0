package util

import "testing"

func TestSanitizeFileName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "plain", in: "report.pdf", want: "report.pdf"},
		{name: "directories stripped", in: "C:\\Users\\me\\report.pdf", want: "report.pdf"},
		{name: "quotes replaced", in: `the "big" report.pdf`, want: "the 'big' report.pdf"},
		{name: "traversal stripped", in: "../../etc/passwd", want: "passwd"},
		{name: "double dot inside name kept", in: "Q3..final.pdf", want: "Q3..final.pdf"},
		{name: "parent reference rejected", in: "reports/..", wantErr: true},
		{name: "bare parent rejected", in: "..", wantErr: true},
		{name: "blank rejected", in: "   ", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := SanitizeFileName(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %q, got %q", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("SanitizeFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPDFFileName(t *testing.T) {
	if got := PDFFileName("notes", "insight.pdf"); got != "notes.pdf" {
		t.Fatalf("expected notes.pdf, got %s", got)
	}
	if got := PDFFileName("Report.PDF", "insight.pdf"); got != "Report.PDF" {
		t.Fatalf("expected Report.PDF, got %s", got)
	}
	if got := PDFFileName("Q3..final.pdf", "insight.pdf"); got != "Q3..final.pdf" {
		t.Fatalf("expected Q3..final.pdf, got %s", got)
	}
	if got := PDFFileName("", "insight.pdf"); got != "insight.pdf" {
		t.Fatalf("expected fallback, got %s", got)
	}
}
