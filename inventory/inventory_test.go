package inventory

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tcsv "github.com/frictionlessdata/tableschema-go/csv"
	"github.com/matryer/is"
)

func publishedDataset(uid, name string) Row {
	return Row{
		URL:              "https://data.example.org/d/" + uid,
		UID:              uid,
		Public:           "true",
		DerivedView:      "false",
		Domain:           "data.example.org",
		Type:             "dataset",
		Name:             name,
		Description:      "A description,\nspanning lines",
		CreationDate:     "09/22/2014 05:34:00 PM +0000",
		Category:         "Finance",
		Keywords:         "budget,finance",
		Owner:            "Data Team",
		PublicationStage: "published",
		Provenance:       "official",
	}
}

func encode(t *testing.T, header []string, rows ...[]string) string {
	t.Helper()
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func readAll(r *Reader) ([]Row, error) {
	defer r.Close()
	var rows []Row
	for r.Next() {
		rows = append(rows, r.Row())
	}
	return rows, r.Err()
}

func TestNewReader(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		is := is.New(t)
		want := []Row{publishedDataset("abcd-1234", "Cool Data, 2019!"), publishedDataset("efgh-5678", "Other")}
		want[1].Type = "gis map"
		r, err := NewReader(tcsv.FromString(encode(t, Headers, want[0].Values(), want[1].Values())))
		is.NoErr(err)
		got, err := readAll(r)
		is.NoErr(err)
		is.Equal(got, want)
	})
	t.Run("NoRows", func(t *testing.T) {
		is := is.New(t)
		r, err := NewReader(tcsv.FromString(encode(t, Headers)))
		is.NoErr(err)
		got, err := readAll(r)
		is.NoErr(err)
		is.Equal(len(got), 0)
	})
	t.Run("InvalidHeaders", func(t *testing.T) {
		swapped := append([]string{}, Headers...)
		swapped[1], swapped[2] = swapped[2], swapped[1]
		renamed := append([]string{}, Headers...)
		renamed[0] = "url"
		data := []struct {
			desc   string
			header []string
		}{
			{"Missing", Headers[:len(Headers)-1]},
			{"Extra", append(append([]string{}, Headers...), "extra")},
			{"Reordered", swapped},
			{"Renamed", renamed},
		}
		for _, d := range data {
			t.Run(d.desc, func(t *testing.T) {
				is := is.New(t)
				_, err := NewReader(tcsv.FromString(encode(t, d.header)))
				var headerErr *HeaderError
				is.True(errors.As(err, &headerErr))
				is.Equal(headerErr.Got, d.header)
			})
		}
	})
	t.Run("LeadingSpaceInHeader", func(t *testing.T) {
		is := is.New(t)
		header := append([]string{}, Headers...)
		header[2] = " Public"
		_, err := NewReader(tcsv.FromString(strings.Join(header, ",") + "\n"))
		var headerErr *HeaderError
		is.True(errors.As(err, &headerErr))
		is.Equal(headerErr.Got[2], " Public")
	})
	t.Run("LeadingSpaceInCells", func(t *testing.T) {
		is := is.New(t)
		row := publishedDataset("abcd-1234", " Budget")
		row.Description = " plain"
		row.Keywords = " budget"
		r, err := NewReader(tcsv.FromString(strings.Join(Headers, ",") + "\n" + strings.Join(row.Values(), ",") + "\n"))
		is.NoErr(err)
		got, err := readAll(r)
		is.NoErr(err)
		is.Equal(len(got), 1)
		is.Equal(got[0].Name, " Budget")
		is.Equal(got[0].Description, " plain")
		is.Equal(got[0].Keywords, " budget")
	})
	t.Run("ShortRecord", func(t *testing.T) {
		is := is.New(t)
		r, err := NewReader(tcsv.FromString(encode(t, Headers, []string{"only", "two"})))
		is.NoErr(err)
		_, err = readAll(r)
		is.True(err != nil)
	})
}

func TestOpen(t *testing.T) {
	t.Run("File", func(t *testing.T) {
		is := is.New(t)
		path := filepath.Join(t.TempDir(), "inventory.csv")
		row := publishedDataset("abcd-1234", "Budget")
		is.NoErr(os.WriteFile(path, []byte(encode(t, Headers, row.Values())), 0o644))
		r, err := Open(path)
		is.NoErr(err)
		got, err := readAll(r)
		is.NoErr(err)
		is.Equal(got, []Row{row})
	})
	t.Run("Missing", func(t *testing.T) {
		is := is.New(t)
		_, err := Open(filepath.Join(t.TempDir(), "missing.csv"))
		is.True(err != nil)
	})
}

func TestValues(t *testing.T) {
	is := is.New(t)
	row := publishedDataset("abcd-1234", "Budget")
	values := row.Values()
	is.Equal(len(values), len(Headers))
	is.Equal(values[1], "abcd-1234")
	is.Equal(values[7], "Budget")
	is.Equal(values[len(values)-1], "official")
}

func TestSelected(t *testing.T) {
	data := []struct {
		desc   string
		modify func(*Row)
		want   bool
	}{
		{"PublishedDataset", func(*Row) {}, true},
		{"Private", func(r *Row) { r.Public = "false" }, false},
		{"PublicUpperCase", func(r *Row) { r.Public = "True" }, false},
		{"Derived", func(r *Row) { r.DerivedView = "true" }, false},
		{"DerivedEmpty", func(r *Row) { r.DerivedView = "" }, false},
		{"Unpublished", func(r *Row) { r.PublicationStage = "unpublished" }, false},
		{"GISMap", func(r *Row) { r.Type = "gis map" }, false},
		{"Chart", func(r *Row) { r.Type = "chart" }, false},
	}
	for _, d := range data {
		t.Run(d.desc, func(t *testing.T) {
			is := is.New(t)
			row := publishedDataset("abcd-1234", "Budget")
			d.modify(&row)
			is.Equal(Selected(row), d.want)
		})
	}
}

func TestPredicates(t *testing.T) {
	is := is.New(t)
	row := publishedDataset("abcd-1234", "Budget")
	is.True(IsPublished(row))
	is.True(IsDataset(row))
	is.True(!IsGISMap(row))

	row.Type = "gis map"
	is.True(IsGISMap(row))
	is.True(And(IsPublished, IsGISMap)(row))
	is.True(!And(IsPublished, IsDataset)(row))
	is.True(And()(row))
}
