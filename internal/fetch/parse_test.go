package fetch

import (
	"archive/zip"
	"bytes"
	"testing"
)

const ssaPage = `<html><head><title>Actuarial Life Table</title></head><body>
<p>Period Life Table, 2021, as used in the 2024 Trustees Report</p>
<table>
<tr><th>Exact age</th><th colspan="3">Male</th><th colspan="3">Female</th></tr>
<tr><td>Age</td><td>q(x)</td><td>l(x)</td><td>e(x)</td><td>q(x)</td><td>l(x)</td><td>e(x)</td></tr>
<tr><td>0</td><td>0.005837</td><td>100,000</td><td>74.12</td><td>0.004907</td><td>100,000</td><td>79.78</td></tr>
<tr><td>1</td><td>0.000421</td><td>99,416</td><td>73.55</td><td>0.000346</td><td>99,509</td><td>79.17</td></tr>
<tr><td>119+</td><td>0.968213</td><td>0</td><td>0.57</td><td>0.954132</td><td>0</td><td>0.62</td></tr>
</table>
</body></html>`

func TestParseSSATable(t *testing.T) {
	out, err := ParseSSATable([]byte(ssaPage))
	if err != nil {
		t.Fatalf("ParseSSATable: %v", err)
	}
	if out.Len() != 3 {
		t.Fatalf("rows = %d, want 3 (headers skipped)", out.Len())
	}

	first := out.Rows[0]
	if first["age"] != "0" || first["male_life_expectancy"] != "74.12" ||
		first["female_life_expectancy"] != "79.78" || first["year"] != "2021" {
		t.Errorf("first row = %v", first)
	}
	if last := out.Rows[2]; last["age"] != "119" {
		t.Errorf(`open age group kept its suffix: age = %q`, last["age"])
	}
}

func TestParseSSATable_NoYear(t *testing.T) {
	page := `<html><body><table><tr><td>0</td></tr></table></body></html>`
	if _, err := ParseSSATable([]byte(page)); err == nil {
		t.Error("expected an error for a page without a table year")
	}
}

func TestParseSSATable_NoRows(t *testing.T) {
	page := `<html><body><p>Period Life Table, 2021</p><table><tr><td>header only</td></tr></table></body></html>`
	if _, err := ParseSSATable([]byte(page)); err == nil {
		t.Error("expected an error for a page without data rows")
	}
}

const ghoPayload = `{"value":[
{"SpatialDimType":"COUNTRY","SpatialDim":"FRA","TimeDim":2019,"Dim1":"MLE","NumericValue":79.8},
{"SpatialDimType":"COUNTRY","SpatialDim":"FRA","TimeDim":2019,"Dim1":"FMLE","NumericValue":85.3},
{"SpatialDimType":"REGION","SpatialDim":"EUR","TimeDim":2019,"Dim1":"MLE","NumericValue":75.1},
{"SpatialDimType":"COUNTRY","SpatialDim":"JPN","TimeDim":2019,"Dim1":"BTSX","NumericValue":84.3},
{"SpatialDimType":"COUNTRY","SpatialDim":"JPN","TimeDim":2019,"Dim1":"MLE","NumericValue":null}
]}`

func TestParseWHOData(t *testing.T) {
	out, err := ParseWHOData([]byte(ghoPayload))
	if err != nil {
		t.Fatalf("ParseWHOData: %v", err)
	}
	// Region and null-value rows drop here; the BTSX country row survives
	// into the CSV and is filtered at load time instead.
	if out.Len() != 3 {
		t.Fatalf("rows = %d, want 3", out.Len())
	}
	first := out.Rows[0]
	if first["country_code"] != "FRA" || first["year"] != "2019" ||
		first["sex_code"] != "MLE" || first["life_expectancy"] != "79.8" {
		t.Errorf("first row = %v", first)
	}
}

func TestParseWHOData_Malformed(t *testing.T) {
	if _, err := ParseWHOData([]byte(`{"value"`)); err == nil {
		t.Error("expected a decode error")
	}
	if _, err := ParseWHOData([]byte(`{"value":[]}`)); err == nil {
		t.Error("expected an error for an empty payload")
	}
}

func hldZip(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractHLDData(t *testing.T) {
	const body = "Country,Year1,Sex,Age,AgeInt,e(x)\nUSA,2000,1,0,1,74.1\n"
	payload := hldZip(t, map[string]string{"res": body, "readme.txt": "notes"})

	data, err := ExtractHLDData(payload)
	if err != nil {
		t.Fatalf("ExtractHLDData: %v", err)
	}
	if string(data) != body {
		t.Errorf("extracted %q", data)
	}
}

func TestExtractHLDData_CSVFallback(t *testing.T) {
	payload := hldZip(t, map[string]string{"hld_export.csv": "a,b\n1,2\n"})
	data, err := ExtractHLDData(payload)
	if err != nil {
		t.Fatalf("ExtractHLDData: %v", err)
	}
	if string(data) != "a,b\n1,2\n" {
		t.Errorf("extracted %q", data)
	}
}

func TestExtractHLDData_NoData(t *testing.T) {
	payload := hldZip(t, map[string]string{"readme.txt": "notes"})
	if _, err := ExtractHLDData(payload); err == nil {
		t.Error("expected an error for a zip without a data file")
	}
	if _, err := ExtractHLDData([]byte("not a zip")); err == nil {
		t.Error("expected an error for a non-zip payload")
	}
}
