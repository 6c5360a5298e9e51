package tabular

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/JonMunkholm/csvmap/internal/csvcodec"
)

func mustTable(t *testing.T, headers []string, rows ...[]string) *Table {
	t.Helper()
	tbl, err := New(headers, rows)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return tbl
}

// ----------------------------------------------------------------------------
// Construction Tests
// ----------------------------------------------------------------------------

func TestNew_RowLengthMismatch(t *testing.T) {
	_, err := New([]string{"a", "b"}, [][]string{{"1", "2"}, {"3"}})
	if !errors.Is(err, ErrRowLength) {
		t.Fatalf("New() error = %v, want ErrRowLength", err)
	}
}

func TestNew_HeaderlessUsesFirstRowWidth(t *testing.T) {
	tbl := mustTable(t, nil, []string{"1", "2", "3"})
	if tbl.HasHeaders() {
		t.Error("HasHeaders() = true, want false")
	}
	if tbl.Width() != 3 {
		t.Errorf("Width() = %d, want 3", tbl.Width())
	}

	_, err := New(nil, [][]string{{"1", "2"}, {"1"}})
	if !errors.Is(err, ErrRowLength) {
		t.Errorf("New() error = %v, want ErrRowLength", err)
	}
}

func TestNew_CopiesInput(t *testing.T) {
	headers := []string{"a"}
	rows := [][]string{{"1"}}
	tbl := mustTable(t, headers, rows...)

	headers[0] = "changed"
	rows[0][0] = "changed"

	if got := tbl.Headers()[0]; got != "a" {
		t.Errorf("header = %q, want %q", got, "a")
	}
	if got, _ := tbl.Cell(0, 0); got != "1" {
		t.Errorf("cell = %q, want %q", got, "1")
	}
}

// ----------------------------------------------------------------------------
// Clone Tests
// ----------------------------------------------------------------------------

func TestClone_Independent(t *testing.T) {
	orig := mustTable(t, []string{"a", "b"}, []string{"1", "2"}, []string{"3", "4"})
	clone := orig.Clone()

	if err := clone.SetCell(0, 0, "x"); err != nil {
		t.Fatal(err)
	}
	if err := clone.RenameColumn("a", "z"); err != nil {
		t.Fatal(err)
	}
	if err := clone.AddColumn("c", End, "new"); err != nil {
		t.Fatal(err)
	}
	if err := clone.RemoveColumn(Col("b")); err != nil {
		t.Fatal(err)
	}

	wantHeaders := []string{"a", "b"}
	if !reflect.DeepEqual(orig.Headers(), wantHeaders) {
		t.Errorf("orig headers = %v, want %v", orig.Headers(), wantHeaders)
	}
	wantRecords := [][]string{{"1", "2"}, {"3", "4"}}
	if got := orig.Records(false); !reflect.DeepEqual(got, wantRecords) {
		t.Errorf("orig rows = %v, want %v", got, wantRecords)
	}
}

// ----------------------------------------------------------------------------
// Row Tests
// ----------------------------------------------------------------------------

func TestRow_GetDuplicateHeaders(t *testing.T) {
	tbl := mustTable(t, []string{"name", "tag", "tag"}, []string{"n", "t1", "t2"})
	row, _ := tbl.Row(0)

	one, err := row.Get("name")
	if err != nil {
		t.Fatal(err)
	}
	if one.IsMany() || one.Value() != "n" {
		t.Errorf("Get(name) = %v, want single %q", one.Values(), "n")
	}

	many, err := row.Get("tag")
	if err != nil {
		t.Fatal(err)
	}
	if !many.IsMany() || !reflect.DeepEqual(many.Values(), []string{"t1", "t2"}) {
		t.Errorf("Get(tag) = %v, want [t1 t2]", many.Values())
	}

	if _, err := row.Get("missing"); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrColumnNotFound", err)
	}
}

func TestRow_Entries(t *testing.T) {
	tbl := mustTable(t, []string{"a", "b"}, []string{"1", "2"})
	row, _ := tbl.Row(0)

	var got []Entry
	for e := range row.Entries() {
		got = append(got, e)
	}
	want := []Entry{
		{Index: 0, Value: "1", Header: "a", HasHeader: true},
		{Index: 1, Value: "2", Header: "b", HasHeader: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Entries() = %+v, want %+v", got, want)
	}

	headerless := mustTable(t, nil, []string{"x"})
	hrow, _ := headerless.Row(0)
	for e := range hrow.Entries() {
		if e.HasHeader {
			t.Errorf("headerless entry %+v has header", e)
		}
	}
}

func TestRow_Arrange(t *testing.T) {
	tbl := mustTable(t, []string{"a", "b", "a"}, []string{"1", "2", "3"})
	row, _ := tbl.Row(0)

	got, err := row.Arrange([]string{"b", "a", "a"})
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"2", "1", "3"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Arrange() = %v, want %v", got, want)
	}

	if _, err := row.Arrange([]string{"a", "a", "a"}); !errors.Is(err, ErrColumnNotFound) {
		t.Errorf("Arrange(three a) error = %v, want ErrColumnNotFound", err)
	}
}

// ----------------------------------------------------------------------------
// Iterator Tests
// ----------------------------------------------------------------------------

func TestIterator_RewindRequired(t *testing.T) {
	tbl := mustTable(t, []string{"a"}, []string{"1"}, []string{"2"})
	it := tbl.Iter()

	count := 0
	for _, ok := it.Next(); ok; _, ok = it.Next() {
		count++
	}
	if count != 2 {
		t.Fatalf("first pass = %d rows, want 2", count)
	}
	if _, ok := it.Next(); ok {
		t.Fatal("exhausted iterator returned a row")
	}

	it.Rewind()
	row, ok := it.Next()
	if !ok || row.Index() != 0 {
		t.Errorf("after Rewind Next() = (%d, %v), want (0, true)", row.Index(), ok)
	}
}

func TestRows_Seq(t *testing.T) {
	tbl := mustTable(t, []string{"a"}, []string{"1"}, []string{"2"}, []string{"3"})
	var idx []int
	for r := range tbl.Rows() {
		idx = append(idx, r.Index())
	}
	if !reflect.DeepEqual(idx, []int{0, 1, 2}) {
		t.Errorf("Rows() indices = %v", idx)
	}
}

// ----------------------------------------------------------------------------
// Encode Tests
// ----------------------------------------------------------------------------

func TestEncode(t *testing.T) {
	tbl := mustTable(t, []string{"id", "note"}, []string{"1", "a,b"})
	var b strings.Builder
	if err := tbl.Encode(&b, csvcodec.DefaultDialect(), true); err != nil {
		t.Fatal(err)
	}
	if want := "id,note\n1,\"a,b\""; b.String() != want {
		t.Errorf("Encode() = %q, want %q", b.String(), want)
	}
}
