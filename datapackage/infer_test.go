package datapackage

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/code4sa/inventory2datapackage/clone"
	"github.com/code4sa/inventory2datapackage/validator"
	"github.com/matryer/is"
)

const budgetCSV = "year,amount,region\n2019,10.5,Cape Town\n2020,11.25,Durban\n"

func writeRawCSV(t *testing.T, dir, name, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, "raw-csv"), os.ModePerm); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "raw-csv", name), []byte(contents), 0666); err != nil {
		t.Fatal(err)
	}
}

func TestInfer(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		is := is.New(t)
		dir := t.TempDir()
		writeRawCSV(t, dir, "abcd-1234.csv", budgetCSV)

		pkg, err := Infer("raw-csv/abcd-1234.csv", dir, validator.InMemoryLoader())
		is.NoErr(err)
		is.Equal(pkg.Profile(), "tabular-data-package")
		is.Equal(pkg.ResourceNames(), []string{"abcd-1234"})

		res := pkg.GetResource("abcd-1234")
		is.True(res.Tabular())
		is.Equal(res.Path(), []string{"raw-csv/abcd-1234.csv"})

		d, err := res.Descriptor()
		is.NoErr(err)
		is.Equal(d["format"], "csv")
		is.Equal(d["mediatype"], "text/csv")
		is.Equal(d["encoding"], "utf-8")
		fields := d["schema"].(map[string]interface{})["fields"].([]interface{})
		is.Equal(len(fields), 3)
		names := make([]string, len(fields))
		for i, f := range fields {
			names[i] = f.(map[string]interface{})["name"].(string)
			is.True(f.(map[string]interface{})["type"] != "")
		}
		is.Equal(names, []string{"year", "amount", "region"})
		is.Equal(fields[2].(map[string]interface{})["type"], "string")
	})
	t.Run("PlainDescriptorValues", func(t *testing.T) {
		is := is.New(t)
		dir := t.TempDir()
		writeRawCSV(t, dir, "abcd-1234.csv", "when,amount\n2019-01-02,10\n2020-03-04,12\n")

		d, err := InferResource("raw-csv/abcd-1234.csv", dir)
		is.NoErr(err)
		_, err = clone.Descriptor(d)
		is.NoErr(err)
		for _, f := range d["schema"].(map[string]interface{})["fields"].([]interface{}) {
			for k, v := range f.(map[string]interface{}) {
				_, ok := v.(string)
				is.True(ok) // field properties hold plain strings
				is.True(k != "")
			}
		}
	})
	t.Run("KeepsLeadingSpaceInHeaders", func(t *testing.T) {
		is := is.New(t)
		dir := t.TempDir()
		writeRawCSV(t, dir, "abcd-1234.csv", "year, amount\n2019,10\n")

		pkg, err := Infer("raw-csv/abcd-1234.csv", dir, validator.InMemoryLoader())
		is.NoErr(err)
		d, err := pkg.GetResource("abcd-1234").Descriptor()
		is.NoErr(err)
		fields := d["schema"].(map[string]interface{})["fields"].([]interface{})
		is.Equal(fields[1].(map[string]interface{})["name"], " amount")
	})
	t.Run("UpperCaseFileName", func(t *testing.T) {
		is := is.New(t)
		dir := t.TempDir()
		writeRawCSV(t, dir, "ABCD-1234.csv", budgetCSV)

		pkg, err := Infer("raw-csv/ABCD-1234.csv", dir, validator.InMemoryLoader())
		is.NoErr(err)
		is.Equal(pkg.ResourceNames(), []string{"abcd-1234"})
	})
	t.Run("MissingFile", func(t *testing.T) {
		is := is.New(t)
		_, err := Infer("raw-csv/nope.csv", t.TempDir(), validator.InMemoryLoader())
		is.True(err != nil)
		is.True(errors.Is(err, fs.ErrNotExist))
	})
	t.Run("InvalidPaths", func(t *testing.T) {
		data := []string{"/raw-csv/abcd-1234.csv", "../abcd-1234.csv", "https://example.org/abcd-1234.csv"}
		for _, p := range data {
			t.Run(p, func(t *testing.T) {
				is := is.New(t)
				_, err := Infer(p, t.TempDir(), validator.InMemoryLoader())
				is.True(err != nil)
			})
		}
	})
	t.Run("ZipRoundTrip", func(t *testing.T) {
		is := is.New(t)
		dir := t.TempDir()
		writeRawCSV(t, dir, "abcd-1234.csv", budgetCSV)
		pkg, err := Infer("raw-csv/abcd-1234.csv", dir, validator.InMemoryLoader())
		is.NoErr(err)

		fName := filepath.Join(dir, "pkg.zip")
		is.NoErr(pkg.Zip(fName))
		loaded, err := Load(fName, validator.InMemoryLoader())
		is.NoErr(err)
		is.Equal(loaded.Profile(), "tabular-data-package")
		contents, err := os.ReadFile(filepath.Join(loaded.BasePath(), "raw-csv", "abcd-1234.csv"))
		is.NoErr(err)
		is.Equal(string(contents), budgetCSV)
	})
}

func TestResourceName(t *testing.T) {
	data := []struct {
		in   string
		want string
	}{
		{"raw-csv/abcd-1234.csv", "abcd-1234"},
		{"raw-csv/ABCD-1234.csv", "abcd-1234"},
		{"data/My Data (2019).csv", "my-data-2019"},
		{"noext", "noext"},
	}
	for _, d := range data {
		t.Run(d.in, func(t *testing.T) {
			is := is.New(t)
			is.Equal(resourceName(d.in), d.want)
		})
	}
}
