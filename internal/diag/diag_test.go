package diag

import (
	"testing"

	"lavish/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")
	userFile := fs.Add("/workspace/testdata/golden/sample.lavish", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     SemaNestedSameRole,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     SemaDuplicateDeclaration,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	want := "error SEM3001 testdata/golden/sample.lavish:1:1 first line second\n" +
		"note SEM3001 testdata/golden/sample.lavish:2:1 note line\n" +
		"warning SEM3007 testdata/golden/sample.lavish:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != want {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", want, got)
	}
}

func TestCodeIDs(t *testing.T) {
	cases := map[Code]string{
		LexUnknownChar:             "LEX1001",
		SynUnexpectedToken:         "SYN2001",
		SemaCyclicTypeDefinition:   "SEM3005",
		IOLoadFileError:            "IO4001",
		ProjInvalidManifest:        "PRJ5001",
		ObsTimings:                 "OBS6001",
		UnknownCode:                "E0000",
		SemaInvalidGenericArgument: "SEM3004",
	}
	for code, want := range cases {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if got := SemaUnresolvedType.String(); got != "[SEM3002]: Unresolved type" {
		t.Fatalf("unexpected String(): %q", got)
	}
	if Code(3999).Title() != "Unknown error" {
		t.Fatalf("unknown codes must fall back to the generic title")
	}
	if SynExpectType.Phase() != PhaseSyntax || SemaUnresolvedFunction.Phase() != PhaseSema {
		t.Fatalf("phase classification is broken")
	}
}

func TestBagLimitKeepsErrorCount(t *testing.T) {
	bag := NewBag(2)
	sp := func(file source.FileID, start uint32) source.Span {
		return source.Span{File: file, Start: start, End: start + 1}
	}
	bag.Add(New(SevWarning, SemaNestedSameRole, sp(1, 5), "w1"))
	bag.Add(New(SevWarning, SemaNestedSameRole, sp(0, 9), "w2"))
	if bag.Add(NewError(SemaUnresolvedType, sp(0, 1), "dropped")) {
		t.Fatalf("bag must refuse diagnostics past its limit")
	}
	if bag.Len() != 2 || bag.Omitted() != 1 {
		t.Fatalf("len=%d omitted=%d", bag.Len(), bag.Omitted())
	}
	if !bag.HasErrors() || bag.ErrorCount() != 1 {
		t.Fatalf("an error dropped by the limit must still be counted")
	}
	bag.Sort()
	if bag.Items()[0].Primary.File != 0 {
		t.Fatalf("expected file 0 first, got %v", bag.Items()[0].Primary)
	}
}

func TestBagTruncateAfterSort(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewError(SemaUnresolvedType, source.Span{File: 1, Start: 30, End: 31}, "late error"))
	bag.Add(New(SevWarning, SemaNestedSameRole, source.Span{File: 1, Start: 2, End: 3}, "w"))
	bag.Add(New(SevWarning, SemaNestedSameRole, source.Span{File: 1, Start: 10, End: 11}, "w"))
	bag.Sort()
	bag.Truncate(2)

	if bag.Len() != 2 || bag.Omitted() != 1 {
		t.Fatalf("len=%d omitted=%d", bag.Len(), bag.Omitted())
	}
	items := bag.Items()
	if items[0].Primary.Start != 2 || items[1].Message != "late error" {
		t.Fatalf("expected the earliest warning and the error, got %+v", items)
	}
	if !bag.HasErrors() || bag.ErrorCount() != 1 {
		t.Fatalf("error count = %d", bag.ErrorCount())
	}

	bag.Truncate(0)
	if bag.Len() != 2 {
		t.Fatalf("Truncate(0) must keep everything")
	}
}

func TestBagTruncateKeepsPositionOrderWhenErrorShown(t *testing.T) {
	bag := NewBag(0)
	for i := range 5 {
		sev := SevWarning
		if i == 1 || i == 4 {
			sev = SevError
		}
		bag.Add(New(sev, SemaUnresolvedType, source.Span{File: 1, Start: uint32(i), End: uint32(i) + 1}, "d"))
	}
	bag.Sort()
	bag.Truncate(3)
	for i, d := range bag.Items() {
		if d.Primary.Start != uint32(i) {
			t.Fatalf("item %d starts at %d", i, d.Primary.Start)
		}
	}
	if bag.ErrorCount() != 2 || bag.Omitted() != 2 {
		t.Fatalf("errors=%d omitted=%d", bag.ErrorCount(), bag.Omitted())
	}
}

func TestBagUnlimitedAndMerge(t *testing.T) {
	a := NewBag(0)
	for i := range 200 {
		a.Add(NewError(SemaUnresolvedType, source.Span{Start: uint32(i)}, "x"))
	}
	if a.Len() != 200 {
		t.Fatalf("limit 0 must mean unlimited, got %d", a.Len())
	}
	b := NewBag(1)
	b.Add(NewError(SemaUnresolvedType, source.Span{}, "y"))
	b.Merge(a)
	if b.Len() != 201 {
		t.Fatalf("merge must grow the limit, got %d", b.Len())
	}
	b.Filter(func(d Diagnostic) bool { return d.Message == "y" })
	if b.Len() != 1 {
		t.Fatalf("filter kept %d items", b.Len())
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	rep := BagReporter{Bag: bag}

	b := ReportError(rep, SemaDuplicateDeclaration, source.Span{Start: 4, End: 5}, "duplicate declaration of 'A'").
		WithNote(source.Span{Start: 0, End: 1}, "first declared here")
	b.Emit()
	b.Emit()
	ReportWarning(rep, SemaNestedSameRole, source.Span{}, "w").Emit()

	if bag.Len() != 2 {
		t.Fatalf("expected 2 diagnostics, got %d", bag.Len())
	}
	if bag.ErrorCount() != 1 {
		t.Fatalf("expected 1 error counted, got %d", bag.ErrorCount())
	}
	if n := bag.Items()[0].Notes; len(n) != 1 || n[0].Msg != "first declared here" {
		t.Fatalf("note was lost: %+v", n)
	}
}

func TestUnlocatedDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Add("a.lavish", []byte("x\n"), 0)

	bag := NewBag(0)
	bag.Add(NewError(SemaUnresolvedType, source.Span{File: file, Start: 0, End: 1}, "located"))
	bag.Add(NewError(ProjMemberNotFound, source.Span{}, "member \"x\" matches nothing").
		WithNote(source.Span{}, "ignored"))
	bag.Sort()
	if bag.Items()[0].Located() || !bag.Items()[1].Located() {
		t.Fatalf("unlocated diagnostics must sort first")
	}

	want := "error PRJ5002 - member \"x\" matches nothing\n" +
		"error SEM3002 a.lavish:1:1 located"
	if got := FormatGoldenDiagnostics(bag.Items(), fs, true); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}
