package coercer

import (
	"cardiostat/domain/core"
	"cardiostat/domain/dataset"
)

// Column names of the heart-disease table
const (
	FieldAge                = core.FieldKey("Age")
	FieldGender             = core.FieldKey("Gender")
	FieldBloodPressure      = core.FieldKey("Blood Pressure")
	FieldCholesterol        = core.FieldKey("Cholesterol Level")
	FieldExerciseHabits     = core.FieldKey("Exercise Habits")
	FieldSmoking            = core.FieldKey("Smoking")
	FieldFamilyHeartDisease = core.FieldKey("Family Heart Disease")
	FieldDiabetes           = core.FieldKey("Diabetes")
	FieldBMI                = core.FieldKey("BMI")
	FieldHighBloodPressure  = core.FieldKey("High Blood Pressure")
	FieldLowHDL             = core.FieldKey("Low HDL Cholesterol")
	FieldHighLDL            = core.FieldKey("High LDL Cholesterol")
	FieldAlcohol            = core.FieldKey("Alcohol Consumption")
	FieldStress             = core.FieldKey("Stress Level")
	FieldSleepHours         = core.FieldKey("Sleep Hours")
	FieldSugar              = core.FieldKey("Sugar Consumption")
	FieldTriglyceride       = core.FieldKey("Triglyceride Level")
	FieldFastingBloodSugar  = core.FieldKey("Fasting Blood Sugar")
	FieldCRP                = core.FieldKey("CRP Level")
	FieldHomocysteine       = core.FieldKey("Homocysteine Level")
	FieldHeartDiseaseStatus = core.FieldKey("Heart Disease Status")
)

// HeartDiseaseNumeric lists the continuous measurements
var HeartDiseaseNumeric = []core.FieldKey{
	FieldAge, FieldBloodPressure, FieldCholesterol, FieldBMI, FieldSleepHours,
	FieldTriglyceride, FieldFastingBloodSugar, FieldCRP, FieldHomocysteine,
}

// HeartDiseaseCategorical lists the labelled columns
var HeartDiseaseCategorical = []core.FieldKey{
	FieldGender, FieldExerciseHabits, FieldSmoking, FieldFamilyHeartDisease, FieldDiabetes,
	FieldHighBloodPressure, FieldLowHDL, FieldHighLDL, FieldAlcohol, FieldStress, FieldSugar,
	FieldHeartDiseaseStatus,
}

// HeartDiseaseKinds pins the kind of every known column so a sparse numeric
// column is never demoted to categorical
func HeartDiseaseKinds() map[core.FieldKey]dataset.FieldKind {
	kinds := make(map[core.FieldKey]dataset.FieldKind, len(HeartDiseaseNumeric)+len(HeartDiseaseCategorical))
	for _, k := range HeartDiseaseNumeric {
		kinds[k] = dataset.KindNumeric
	}
	for _, k := range HeartDiseaseCategorical {
		kinds[k] = dataset.KindCategorical
	}
	return kinds
}
