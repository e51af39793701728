// internal/schema/schema.go
//
// Declared questionnaire schema for the S.A.C. transcription form.
// Question membership, ordering and category grouping are data here,
// not string heuristics over CSV column names: the store and the
// dashboard both consult this catalog to decide which columns are
// rating columns and in which order they appear.

package schema

import (
	"fmt"
	"time"
)

// Category groups questions for the dashboard's subgroup means.
type Category string

const (
	CategoryGerais        Category = "Competências Gerais"
	CategoryEspecificas   Category = "Competências Específicas"
	CategoryBasicas       Category = "Disciplinas Básicas"
	CategoryProfissionais Category = "Disciplinas Profissionalizantes"
	CategoryAvancadas     Category = "Disciplinas Avançadas"
	CategoryReflexao      Category = "Reflexão"
)

// Question is one rating item of the questionnaire. Key is the stable
// identifier used as the CSV column name; it never changes once a store
// file contains it.
type Question struct {
	Key      string
	Label    string
	Category Category
}

// Catalog lists every question in canonical display order. The CSV
// column set grows from this list; readers treat absent columns as
// not-applicable responses.
var Catalog = []Question{
	// Competências técnicas e gerais
	{"q1", "Projetar e conduzir experimentos e interpretar resultados", CategoryGerais},
	{"q2", "Desenvolver e/ou utilizar novas ferramentas e técnicas", CategoryGerais},
	{"q3", "Conceber, projetar e analisar sistemas, produtos e processos", CategoryGerais},
	{"q4", "Formular, conceber e avaliar soluções para problemas de engenharia", CategoryGerais},
	{"q5", "Analisar e compreender fenômenos físicos e químicos através de modelos", CategoryGerais},
	{"q6", "Comunicação técnica", CategoryGerais},
	{"q7", "Trabalhar e liderar equipes profissionais", CategoryGerais},
	{"q8", "Aplicar ética e legislação no exercício profissional", CategoryGerais},
	// Competências específicas
	{"q9", "Aplicar conhecimentos matemáticos, científicos e tecnológicos", CategoryEspecificas},
	{"q10", "Compreender e modelar transferência de quantidade de movimento, calor e massa", CategoryEspecificas},
	{"q11", "Aplicar conhecimentos de fenômenos de transporte ao projeto", CategoryEspecificas},
	{"q12", "Compreender mecanismos de transformação da matéria e energia", CategoryEspecificas},
	{"q13", "Projetar sistemas de recuperação, separação e purificação", CategoryEspecificas},
	{"q14", "Compreender mecanismos cinéticos de reações químicas", CategoryEspecificas},
	{"q15", "Projetar e otimizar sistemas reacionais e reatores", CategoryEspecificas},
	{"q16", "Projetar sistemas de controle de processos industriais", CategoryEspecificas},
	{"q17", "Projetar e otimizar plantas industriais considerando ambiente e segurança", CategoryEspecificas},
	{"q18", "Aplicação de conhecimentos em projeto básico e dimensionamento", CategoryEspecificas},
	{"q19", "Execução de projetos de produção e melhorias de processos", CategoryEspecificas},
	// Disciplinas básicas
	{"calc_21", "Calculo: Analisar grandes volumes de dados", CategoryBasicas},
	{"calc_52", "Calculo: Formação Básica", CategoryBasicas},
	{"fis_22", "Física: Analisar criticamente a operação e manutenção de sistemas", CategoryBasicas},
	{"fis_53", "Física: Ciência da Engenharia", CategoryBasicas},
	{"qui_23", "Química: Aplicar conhecimentos de transformação a processos", CategoryBasicas},
	{"qui_24", "Química: Conceber e desenvolver produtos e processos", CategoryBasicas},
	{"termo_25", "Termodinâmica: Projetar sistemas de suprimento energético", CategoryBasicas},
	{"termo_54", "Termodinâmica: Ciência da Engenharia Química", CategoryBasicas},
	{"ft_26", "Fenômenos de Transporte: Aplicar conhecimentos de fenômenos de transporte", CategoryBasicas},
	{"ft_27", "Fenômenos de Transporte: Comunicação técnica e recursos gráficos", CategoryBasicas},
	{"mecflu_28", "Mecânica dos Fluidos: Implantar, implementar e controlar soluções", CategoryBasicas},
	{"mecflu_29", "Mecânica dos Fluidos: Operar e supervisionar instalações", CategoryBasicas},
	// Disciplinas profissionalizantes
	{"op1_30", "Operações Unitárias I: Inspecionar manutenção", CategoryProfissionais},
	{"op1_55", "Operações Unitárias I: Tecnologia Industrial", CategoryProfissionais},
	{"op2_31", "Operações Unitárias II: Elaborar estudos ambientais", CategoryProfissionais},
	{"op2_32", "Operações Unitárias II: Projetar tratamento ambiental", CategoryProfissionais},
	{"reat_33", "Reatores Químicos: Gerir recursos", CategoryProfissionais},
	{"reat_34", "Reatores Químicos: Controle de qualidade", CategoryProfissionais},
	{"ctrl_35", "Controle de Processos: Supervisão", CategoryProfissionais},
	{"ctrl_36", "Projetos: Gestão de empreendimentos", CategoryProfissionais},
	{"proj_56", "Projetos: Gestão Industrial", CategoryProfissionais},
	{"proj_57", "Projetos: Ética e Humanidades", CategoryProfissionais},
	// Disciplinas avançadas
	{"econ_37", "Engenharia Econômica: Novos conceitos", CategoryAvancadas},
	{"econ_38", "Engenharia Econômica: Visão global", CategoryAvancadas},
	{"gest_39", "Gestão da Produção: Comprometimento", CategoryAvancadas},
	{"gest_40", "Gestão da Produção: Resultados", CategoryAvancadas},
	{"amb_41", "Engenharia Ambiental: Inovação", CategoryAvancadas},
	{"amb_42", "Engenharia Ambiental: Novas situações", CategoryAvancadas},
	{"seg_43", "Segurança: Incertezas", CategoryAvancadas},
	{"seg_44", "Segurança: Decisão", CategoryAvancadas},
	{"lab_45", "Laboratório: Criatividade", CategoryAvancadas},
	{"lab_46", "Laboratório: Relacionamento", CategoryAvancadas},
	{"est_47", "Estágio: Autocontrole emocional", CategoryAvancadas},
	{"est_48", "Estágio: Capacidade empreendedora", CategoryAvancadas},
	{"bio_49", "Biotecnologia: Dados", CategoryAvancadas},
	{"bio_50", "Biotecnologia: Ferramentas", CategoryAvancadas},
	{"petro_51", "Petróleo: Recuperação", CategoryAvancadas},
	{"petro_52", "Petróleo: Reatores", CategoryAvancadas},
	{"poli_53", "Polímeros: Cinética", CategoryAvancadas},
	{"poli_54", "Polímeros: Produtos", CategoryAvancadas},
	{"cat_55", "Catálise: Mecanismos de transformação", CategoryAvancadas},
	{"cat_56", "Catálise: Aplicar na produção", CategoryAvancadas},
	{"sim_57", "Simulação: Dados", CategoryAvancadas},
	{"sim_58", "Simulação: Comunicação", CategoryAvancadas},
	{"otim_59", "Otimização: Soluções", CategoryAvancadas},
	{"otim_60", "Otimização: Modelos", CategoryAvancadas},
	{"tcc_61", "TCC: Comunicação", CategoryAvancadas},
	{"tcc_62", "TCC: Liderança", CategoryAvancadas},
	// Reflexão – questão geral
	{"q20_indiv", "Capacidade de aprender rapidamente novos conceitos (Geral)", CategoryReflexao},
}

// Categories in dashboard display order.
var Categories = []Category{
	CategoryGerais,
	CategoryEspecificas,
	CategoryBasicas,
	CategoryProfissionais,
	CategoryAvancadas,
	CategoryReflexao,
}

var catalogIndex = buildCatalogIndex()

func buildCatalogIndex() map[string]int {
	idx := make(map[string]int, len(Catalog))
	for i, q := range Catalog {
		idx[q.Key] = i
	}
	return idx
}

// ByKey returns the catalog entry for a question key.
func ByKey(key string) (Question, bool) {
	i, ok := catalogIndex[key]
	if !ok {
		return Question{}, false
	}
	return Catalog[i], true
}

// Index returns the canonical position of a question key, or -1 when the
// key is not part of the catalog.
func Index(key string) int {
	i, ok := catalogIndex[key]
	if !ok {
		return -1
	}
	return i
}

// DisplayLabel returns the short "Questão N" label used in the dashboard
// and the edit picker. The full text stays available via ByKey.
func DisplayLabel(key string) string {
	i, ok := catalogIndex[key]
	if !ok {
		return key
	}
	return fmt.Sprintf("Questão %d", i+1)
}

// Section is one page of the transcription form: a contiguous slice of
// the catalog. End is exclusive.
type Section struct {
	Title      string
	Start, End int
}

// Sections in navigation order. The last section carries the final
// question plus the open reflection fields.
var Sections = []Section{
	{"1. Gerais", 0, 8},
	{"2. Específicas", 8, 19},
	{"3. Básicas", 19, 31},
	{"4. Profissionais", 31, 41},
	{"5. Avançadas", 41, 67},
	{"6. Reflexão", 67, 68},
}

// Questions returns the catalog slice covered by a section.
func (s Section) Questions() []Question {
	return Catalog[s.Start:s.End]
}

// TimeLayout is the civil representation used for Data_Registro cells.
const TimeLayout = "2006-01-02 15:04:05"

// Location returns the fixed UTC-3 zone every timestamp is recorded in.
// Using a fixed offset rather than a zoneinfo name keeps records stable
// on machines without a tz database.
func Location() *time.Location {
	return time.FixedZone("UTC-3", -3*60*60)
}

// FormatTime renders a timestamp the way the store expects it.
func FormatTime(t time.Time) string {
	return t.In(Location()).Format(TimeLayout)
}
