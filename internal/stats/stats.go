// internal/stats/stats.go
//
// Descriptive statistics over the rating columns of the store. Cells
// are coerced to integers in [0,5]; everything else, including the N/A
// sentinel, becomes a missing value excluded from every aggregate. A
// column or table with zero valid cells reports "no data", never zero.

package stats

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"sac/internal/schema"
	"sac/internal/store"
)

// NumericView is the rating slice of a table, in catalog order. Cells
// hold NaN for missing values.
type NumericView struct {
	Keys  []string
	Cells [][]float64 // indexed [row][column]
}

// Empty reports whether the view has no rating columns or no rows.
func (v NumericView) Empty() bool {
	return len(v.Keys) == 0 || len(v.Cells) == 0
}

// BuildNumericView selects the catalog questions present in the table,
// preserving canonical order, and parses every cell.
func BuildNumericView(table *store.Table) NumericView {
	var view NumericView
	if table == nil {
		return view
	}
	for _, q := range schema.Catalog {
		if table.HasColumn(q.Key) {
			view.Keys = append(view.Keys, q.Key)
		}
	}
	if len(view.Keys) == 0 {
		return view
	}
	view.Cells = make([][]float64, len(table.Rows))
	for i := range table.Rows {
		row := make([]float64, len(view.Keys))
		for j, key := range view.Keys {
			row[j] = parseCell(table.Get(i, key))
		}
		view.Cells[i] = row
	}
	return view
}

// parseCell returns the numeric value of a rating cell or NaN.
func parseCell(text string) float64 {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 0 || n > 5 {
		return math.NaN()
	}
	return float64(n)
}

// FilterEqual returns the rows where column equals value, keeping the
// header. An empty value returns the table unchanged.
func FilterEqual(table *store.Table, column, value string) *store.Table {
	if table == nil || value == "" {
		return table
	}
	out := &store.Table{Columns: table.Columns}
	for _, row := range table.Rows {
		if row[column] == value {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// FilterContains keeps rows whose column contains the query, case
// insensitively. Used by the edit picker and the export command.
func FilterContains(table *store.Table, column, query string) *store.Table {
	if table == nil || strings.TrimSpace(query) == "" {
		return table
	}
	q := strings.ToLower(strings.TrimSpace(query))
	out := &store.Table{Columns: table.Columns}
	for _, row := range table.Rows {
		if strings.Contains(strings.ToLower(row[column]), q) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// Summary is the dashboard's headline block.
type Summary struct {
	Forms     int
	Mean      float64
	StdDev    float64
	HasData   bool
	LastEntry time.Time
	HasLast   bool
}

// Summarize flattens every rating cell of the table and computes the
// overall sample mean and standard deviation, plus the most recent
// Data_Registro value.
func Summarize(table *store.Table) Summary {
	sum := Summary{}
	if table == nil {
		return sum
	}
	sum.Forms = len(table.Rows)
	view := BuildNumericView(table)
	var values []float64
	for _, row := range view.Cells {
		for _, v := range row {
			if !math.IsNaN(v) {
				values = append(values, v)
			}
		}
	}
	if len(values) > 0 {
		sum.HasData = true
		sum.Mean = mean(values)
		sum.StdDev = stddev(values)
	}
	for i := range table.Rows {
		raw := strings.TrimSpace(table.Get(i, schema.ColCreatedAt))
		if raw == "" {
			continue
		}
		t, err := time.ParseInLocation(schema.TimeLayout, raw, schema.Location())
		if err != nil {
			continue
		}
		if !sum.HasLast || t.After(sum.LastEntry) {
			sum.LastEntry = t
			sum.HasLast = true
		}
	}
	return sum
}

// QuestionMean is the per-column aggregate for ranking and plotting.
type QuestionMean struct {
	Key   string
	Label string
	Mean  float64
	Count int
}

// QuestionMeans computes the per-question mean over valid cells, in
// canonical catalog order. Questions with no valid responses are
// included with Count zero so the dashboard can show them as "no data".
func QuestionMeans(view NumericView) []QuestionMean {
	out := make([]QuestionMean, 0, len(view.Keys))
	for j, key := range view.Keys {
		var values []float64
		for _, row := range view.Cells {
			if !math.IsNaN(row[j]) {
				values = append(values, row[j])
			}
		}
		qm := QuestionMean{Key: key, Count: len(values)}
		if q, ok := schema.ByKey(key); ok {
			qm.Label = q.Label
		}
		if len(values) > 0 {
			qm.Mean = mean(values)
		} else {
			qm.Mean = math.NaN()
		}
		out = append(out, qm)
	}
	return out
}

// CategoryColumnMeans returns the per-question means of one category,
// sorted ascending by mean so the weakest items rank first. Questions
// without data are omitted.
func CategoryColumnMeans(view NumericView, cat schema.Category) []QuestionMean {
	var out []QuestionMean
	for _, qm := range QuestionMeans(view) {
		q, ok := schema.ByKey(qm.Key)
		if !ok || q.Category != cat || qm.Count == 0 {
			continue
		}
		out = append(out, qm)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Mean < out[j].Mean })
	return out
}

// CategoryMean aggregates all valid cells of one category.
type CategoryMean struct {
	Category schema.Category
	Mean     float64
	Count    int
}

// CategoryMeans computes one aggregate per declared category, in
// dashboard order. Categories with no data carry Count zero.
func CategoryMeans(view NumericView) []CategoryMean {
	byCat := map[schema.Category][]float64{}
	for j, key := range view.Keys {
		q, ok := schema.ByKey(key)
		if !ok {
			continue
		}
		for _, row := range view.Cells {
			if !math.IsNaN(row[j]) {
				byCat[q.Category] = append(byCat[q.Category], row[j])
			}
		}
	}
	out := make([]CategoryMean, 0, len(schema.Categories))
	for _, cat := range schema.Categories {
		values := byCat[cat]
		cm := CategoryMean{Category: cat, Count: len(values), Mean: math.NaN()}
		if len(values) > 0 {
			cm.Mean = mean(values)
		}
		out = append(out, cm)
	}
	return out
}

func mean(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// stddev is the sample standard deviation (n-1 denominator). A single
// value has no spread to estimate and reports NaN.
func stddev(values []float64) float64 {
	if len(values) < 2 {
		return math.NaN()
	}
	m := mean(values)
	total := 0.0
	for _, v := range values {
		d := v - m
		total += d * d
	}
	return math.Sqrt(total / float64(len(values)-1))
}
