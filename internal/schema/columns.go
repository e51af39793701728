// internal/schema/columns.go
//
// CSV column vocabulary. These names match the store files written by
// earlier versions of the tool, so existing databases keep loading.

package schema

// Identity and bookkeeping columns.
const (
	ColRecordID   = "Registro_ID"
	ColEvaluator  = "Petiano_Responsavel"
	ColName       = "Nome"
	ColMatricula  = "Matricula"
	ColSemester   = "Semestre"
	ColCurriculum = "Curriculo"
	ColCreatedAt  = "Data_Registro"
)

// IdentityColumns in header order, Registro_ID first.
var IdentityColumns = []string{
	ColRecordID,
	ColEvaluator,
	ColName,
	ColMatricula,
	ColSemester,
	ColCurriculum,
	ColCreatedAt,
}

// CommentColumn maps a question key to the column holding its
// transcribed margin note.
func CommentColumn(key string) string {
	return "Obs_" + key
}

// ReflectionField is one of the fixed open-text fields on the final
// section. Required fields block finalize when empty.
type ReflectionField struct {
	Key      string
	Column   string
	Title    string
	Required bool
}

// ReflectionFields in form order.
var ReflectionFields = []ReflectionField{
	{"fortes", "Autoavaliação: Pontos Fortes", "Pontos Fortes", true},
	{"fracos", "Autoavaliação: Pontos a Desenvolver", "Pontos a Desenvolver", true},
	{"prat", "Contribuição Prática", "Contribuição Prática", false},
	{"ex", "Exemplos de Aplicação", "Exemplos de Aplicação", false},
	{"fut1", "Competências Futuras", "Competências Futuras", false},
	{"fut2", "Plano de Desenvolvimento", "Plano de Desenvolvimento", false},
	{"final", "Observações Finais", "Comentários Finais", true},
}

// ReflectionByKey returns the reflection field definition for a key.
func ReflectionByKey(key string) (ReflectionField, bool) {
	for _, f := range ReflectionFields {
		if f.Key == key {
			return f, true
		}
	}
	return ReflectionField{}, false
}

// Default roster values seeded into a fresh config.yaml. Operators edit
// the config to match the current team.
var (
	DefaultEvaluators = []string{
		"Ana Carolina",
		"Ana Clara",
		"Ana Júlia",
		"Eric Rullian",
		"Gildelandio Junior",
		"Lucas Mossmann (trainee)",
		"Pedro Paulo",
	}
	DefaultSemesters = []string{
		"1º Semestre", "2º Semestre", "3º Semestre", "4º Semestre", "5º Semestre",
		"6º Semestre", "7º Semestre", "8º Semestre", "9º Semestre", "10º Semestre",
	}
	DefaultCurricula = []string{
		"Novo (2023.1)",
		"Antigo (2005.1)",
		"Troca de Matriz (Velha -> Nova)",
	}
)
