package fetch

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/gojiplus/lostyears/internal/table"
)

// WHOAPIURL is the GHO OData endpoint for indicator WHOSIS_000001
// (life expectancy at birth).
const WHOAPIURL = "https://ghoapi.azureedge.net/api/WHOSIS_000001"

// ghoResponse mirrors the subset of the GHO OData payload we consume.
type ghoResponse struct {
	Value []struct {
		SpatialDimType string   `json:"SpatialDimType"`
		SpatialDim     string   `json:"SpatialDim"`
		TimeDim        int      `json:"TimeDim"`
		Dim1           string   `json:"Dim1"` // sex code: MLE, FMLE, BTSX
		NumericValue   *float64 `json:"NumericValue"`
	} `json:"value"`
}

// ParseWHOData converts a GHO OData payload into the who.csv.gz reference
// layout: country_code, year, sex_code, life_expectancy. Non-country
// aggregates (regions, income groups) and null values are skipped.
func ParseWHOData(payload []byte) (*table.Table, error) {
	var resp ghoResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode GHO payload: %w", err)
	}

	out := table.New("country_code", "year", "sex_code", "life_expectancy")
	for _, v := range resp.Value {
		if v.SpatialDimType != "COUNTRY" || v.NumericValue == nil || v.Dim1 == "" {
			continue
		}
		out.Append(table.Row{
			"country_code":    v.SpatialDim,
			"year":            strconv.Itoa(v.TimeDim),
			"sex_code":        v.Dim1,
			"life_expectancy": strconv.FormatFloat(*v.NumericValue, 'f', -1, 64),
		})
	}

	if out.Len() == 0 {
		return nil, fmt.Errorf("no country rows in GHO payload")
	}
	return out, nil
}
