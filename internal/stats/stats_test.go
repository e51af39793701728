package stats

import (
	"math"
	"testing"

	"sac/internal/schema"
	"sac/internal/store"
)

func table(columns []string, rows ...map[string]string) *store.Table {
	return &store.Table{Columns: columns, Rows: rows}
}

func TestNotApplicableExcludedFromMean(t *testing.T) {
	tbl := table([]string{"q1"},
		map[string]string{"q1": "N/A"},
		map[string]string{"q1": "N/A"},
		map[string]string{"q1": "4"},
	)
	view := BuildNumericView(tbl)
	means := QuestionMeans(view)
	if len(means) != 1 {
		t.Fatalf("means = %d, want 1", len(means))
	}
	if means[0].Count != 1 {
		t.Fatalf("count = %d, want 1", means[0].Count)
	}
	if means[0].Mean != 4.0 {
		t.Fatalf("mean = %v, want 4.0 (N/A must not count as zero)", means[0].Mean)
	}
}

func TestQuestionMeansCarryCatalogText(t *testing.T) {
	tbl := table([]string{"q1"},
		map[string]string{"q1": "3"},
	)
	means := QuestionMeans(BuildNumericView(tbl))
	if len(means) != 1 {
		t.Fatalf("means = %d, want 1", len(means))
	}
	q, ok := schema.ByKey("q1")
	if !ok {
		t.Fatalf("q1 missing from catalog")
	}
	if means[0].Label != q.Label {
		t.Fatalf("label = %q, want the full catalog text %q", means[0].Label, q.Label)
	}
}

func TestOutOfRangeAndGarbageAreMissing(t *testing.T) {
	tbl := table([]string{"q1"},
		map[string]string{"q1": "7"},
		map[string]string{"q1": "abc"},
		map[string]string{"q1": "-1"},
	)
	means := QuestionMeans(BuildNumericView(tbl))
	if means[0].Count != 0 {
		t.Fatalf("count = %d, want 0", means[0].Count)
	}
	if !math.IsNaN(means[0].Mean) {
		t.Fatalf("mean = %v, want NaN for no data", means[0].Mean)
	}
}

func TestSummarizeEmptyTableReportsNoData(t *testing.T) {
	sum := Summarize(&store.Table{})
	if sum.HasData {
		t.Fatalf("empty table must report no data")
	}
	if sum.Forms != 0 {
		t.Fatalf("forms = %d, want 0", sum.Forms)
	}
}

func TestSummarizeMeanAndStdDev(t *testing.T) {
	tbl := table([]string{"q1", "q2"},
		map[string]string{"q1": "2", "q2": "4"},
		map[string]string{"q1": "4", "q2": "N/A"},
	)
	sum := Summarize(tbl)
	if !sum.HasData {
		t.Fatalf("expected data")
	}
	// values {2,4,4}: mean 10/3, sample stddev sqrt(4/3)
	wantMean := 10.0 / 3.0
	if math.Abs(sum.Mean-wantMean) > 1e-9 {
		t.Fatalf("mean = %v, want %v", sum.Mean, wantMean)
	}
	wantStd := math.Sqrt(4.0 / 3.0)
	if math.Abs(sum.StdDev-wantStd) > 1e-9 {
		t.Fatalf("stddev = %v, want %v", sum.StdDev, wantStd)
	}
}

func TestSummarizeTracksLatestEntry(t *testing.T) {
	tbl := table([]string{"q1", schema.ColCreatedAt},
		map[string]string{"q1": "3", schema.ColCreatedAt: "2025-01-02 10:00:00"},
		map[string]string{"q1": "4", schema.ColCreatedAt: "2025-03-05 09:30:00"},
		map[string]string{"q1": "5", schema.ColCreatedAt: "not a date"},
	)
	sum := Summarize(tbl)
	if !sum.HasLast {
		t.Fatalf("expected a latest entry")
	}
	if got := schema.FormatTime(sum.LastEntry); got != "2025-03-05 09:30:00" {
		t.Fatalf("latest = %q", got)
	}
}

func TestViewFollowsCatalogOrder(t *testing.T) {
	// Table header deliberately out of canonical order.
	tbl := table([]string{"q2", "Nome", "q1"},
		map[string]string{"q1": "1", "q2": "2", "Nome": "Ana"},
	)
	view := BuildNumericView(tbl)
	if len(view.Keys) != 2 || view.Keys[0] != "q1" || view.Keys[1] != "q2" {
		t.Fatalf("keys = %v, want [q1 q2]", view.Keys)
	}
}

func TestFilterEqual(t *testing.T) {
	tbl := table([]string{schema.ColSemester, "q1"},
		map[string]string{schema.ColSemester: "1º Semestre", "q1": "5"},
		map[string]string{schema.ColSemester: "2º Semestre", "q1": "1"},
	)
	got := FilterEqual(tbl, schema.ColSemester, "1º Semestre")
	if len(got.Rows) != 1 || got.Rows[0]["q1"] != "5" {
		t.Fatalf("filter kept wrong rows: %v", got.Rows)
	}
	if all := FilterEqual(tbl, schema.ColSemester, ""); len(all.Rows) != 2 {
		t.Fatalf("empty filter must keep all rows")
	}
}

func TestCategoryColumnMeansSortedAscending(t *testing.T) {
	tbl := table([]string{"q1", "q2", "q3"},
		map[string]string{"q1": "5", "q2": "1", "q3": "3"},
		map[string]string{"q1": "5", "q2": "2", "q3": "3"},
	)
	got := CategoryColumnMeans(BuildNumericView(tbl), schema.CategoryGerais)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].Mean > got[i].Mean {
			t.Fatalf("means not ascending: %v", got)
		}
	}
	if got[0].Key != "q2" {
		t.Fatalf("weakest item = %s, want q2", got[0].Key)
	}
}

func TestCategoryMeansSkipEmptyCategories(t *testing.T) {
	tbl := table([]string{"q1"},
		map[string]string{"q1": "4"},
	)
	for _, cm := range CategoryMeans(BuildNumericView(tbl)) {
		switch cm.Category {
		case schema.CategoryGerais:
			if cm.Count != 1 || cm.Mean != 4.0 {
				t.Fatalf("gerais = %+v", cm)
			}
		default:
			if cm.Count != 0 || !math.IsNaN(cm.Mean) {
				t.Fatalf("category %s should have no data: %+v", cm.Category, cm)
			}
		}
	}
}
