package testkit

import (
	"encoding/csv"
	"io"
	"math"
	"math/rand"
	"strconv"

	"cardiostat/adapters/datareadiness/coercer"
	"cardiostat/domain/core"
	"cardiostat/domain/dataset"
)

// HeartGeneratorConfig configures the synthetic heart-disease table
type HeartGeneratorConfig struct {
	Rows        int     `json:"rows"`
	DiseaseRate float64 `json:"disease_rate"` // share of rows labelled "Yes"
	MissingRate float64 `json:"missing_rate"` // chance any cell other than the status is blank
	CRPShift    float64 `json:"crp_shift"`    // added to CRP Level in the "Yes" group
	Seed        int64   `json:"seed"`
}

// DefaultHeartConfig returns a table shaped like the published dataset
func DefaultHeartConfig() HeartGeneratorConfig {
	return HeartGeneratorConfig{
		Rows:        500,
		DiseaseRate: 0.2,
		MissingRate: 0.02,
		CRPShift:    4,
		Seed:        42,
	}
}

// HeartDataGenerator produces deterministic heart-disease rows
type HeartDataGenerator struct {
	config HeartGeneratorConfig
	rng    *rand.Rand
}

// NewHeartDataGenerator creates a generator seeded from config
func NewHeartDataGenerator(config HeartGeneratorConfig) *HeartDataGenerator {
	return &HeartDataGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

type normalSpec struct {
	mean, sd, min float64
	decimals      int
}

var numericSpecs = map[core.FieldKey]normalSpec{
	coercer.FieldBloodPressure:     {150, 17, 90, 0},
	coercer.FieldCholesterol:       {225, 43, 120, 0},
	coercer.FieldBMI:               {29, 6, 15, 2},
	coercer.FieldSleepHours:        {7, 1.7, 3, 2},
	coercer.FieldTriglyceride:      {250, 87, 80, 0},
	coercer.FieldFastingBloodSugar: {120, 23, 60, 0},
	coercer.FieldCRP:               {7.5, 4.3, 0, 2},
	coercer.FieldHomocysteine:      {12.5, 4.3, 5, 2},
}

var categoricalLevels = map[core.FieldKey][]string{
	coercer.FieldGender:             {"Male", "Female"},
	coercer.FieldExerciseHabits:     {"Low", "Medium", "High"},
	coercer.FieldSmoking:            {"Yes", "No"},
	coercer.FieldFamilyHeartDisease: {"Yes", "No"},
	coercer.FieldDiabetes:           {"Yes", "No"},
	coercer.FieldHighBloodPressure:  {"Yes", "No"},
	coercer.FieldLowHDL:             {"Yes", "No"},
	coercer.FieldHighLDL:            {"Yes", "No"},
	coercer.FieldAlcohol:            {"Low", "Medium", "High"},
	coercer.FieldStress:             {"Low", "Medium", "High"},
	coercer.FieldSugar:              {"Low", "Medium", "High"},
}

// Headers returns the column order of the published dataset
func (g *HeartDataGenerator) Headers() []string {
	keys := []core.FieldKey{
		coercer.FieldAge, coercer.FieldGender, coercer.FieldBloodPressure, coercer.FieldCholesterol,
		coercer.FieldExerciseHabits, coercer.FieldSmoking, coercer.FieldFamilyHeartDisease,
		coercer.FieldDiabetes, coercer.FieldBMI, coercer.FieldHighBloodPressure, coercer.FieldLowHDL,
		coercer.FieldHighLDL, coercer.FieldAlcohol, coercer.FieldStress, coercer.FieldSleepHours,
		coercer.FieldSugar, coercer.FieldTriglyceride, coercer.FieldFastingBloodSugar, coercer.FieldCRP,
		coercer.FieldHomocysteine, coercer.FieldHeartDiseaseStatus,
	}
	out := make([]string, len(keys))
	for i, k := range keys {
		out[i] = string(k)
	}
	return out
}

// GenerateRows returns data rows (without the header) in Headers order
func (g *HeartDataGenerator) GenerateRows() [][]string {
	headers := g.Headers()
	rows := make([][]string, g.config.Rows)
	for i := range rows {
		diseased := g.rng.Float64() < g.config.DiseaseRate
		row := make([]string, len(headers))
		for j, h := range headers {
			row[j] = g.cell(core.FieldKey(h), diseased)
		}
		rows[i] = row
	}
	return rows
}

func (g *HeartDataGenerator) cell(key core.FieldKey, diseased bool) string {
	if key == coercer.FieldHeartDiseaseStatus {
		if diseased {
			return "Yes"
		}
		return "No"
	}
	// draw before the missing check so the stream does not depend on MissingRate
	value := g.draw(key, diseased)
	if g.rng.Float64() < g.config.MissingRate {
		return ""
	}
	return value
}

func (g *HeartDataGenerator) draw(key core.FieldKey, diseased bool) string {
	if key == coercer.FieldAge {
		return strconv.Itoa(18 + g.rng.Intn(63))
	}
	if levels, ok := categoricalLevels[key]; ok {
		return levels[g.rng.Intn(len(levels))]
	}
	spec := numericSpecs[key]
	v := g.rng.NormFloat64()*spec.sd + spec.mean
	if key == coercer.FieldCRP && diseased {
		v += g.config.CRPShift
	}
	v = math.Max(spec.min, v)
	return strconv.FormatFloat(v, 'f', spec.decimals, 64)
}

// WriteCSV writes the header and a fresh set of rows to w
func (g *HeartDataGenerator) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(g.Headers()); err != nil {
		return err
	}
	if err := cw.WriteAll(g.GenerateRows()); err != nil {
		return err
	}
	return cw.Error()
}

// Dataset generates rows and coerces them with the default rules
func (g *HeartDataGenerator) Dataset() *dataset.Dataset {
	tc := coercer.NewTypeCoercer(coercer.DefaultCoercionConfig())
	return tc.BuildDataset("heart_disease", g.Headers(), g.GenerateRows())
}

// Load implements ports.DatasetSource with a freshly generated table
func (g *HeartDataGenerator) Load() (*dataset.Dataset, error) {
	return g.Dataset(), nil
}
