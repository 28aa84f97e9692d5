package catalog

// seedGroup describes one built-in panel with its analytes.
type seedGroup struct {
	name     string
	price    float64
	analytes []seedAnalyte
}

type seedAnalyte struct {
	name     string
	unit     string
	refRange string
}

// defaultMenu is the starter test menu installed on first boot. Reference
// ranges use the textual grammar the flag engine understands, including
// sex-segmented forms.
var defaultMenu = []seedGroup{
	{
		name:  "Complete Blood Count",
		price: 350,
		analytes: []seedAnalyte{
			{"Hemoglobin", "g/dL", "M: 13.2-16.6, F: 11.6-15.0"},
			{"WBC Count", "10^3/uL", "4.5-11.0"},
			{"RBC Count", "10^6/uL", "M: 4.35-5.65, F: 3.92-5.13"},
			{"Platelet Count", "10^3/uL", "150-450"},
			{"Hematocrit", "%", "M: 38.3-48.6, F: 35.5-44.9"},
			{"MCV", "fL", "80-100"},
		},
	},
	{
		name:  "Basic Metabolic Panel",
		price: 500,
		analytes: []seedAnalyte{
			{"Glucose (Fasting)", "mg/dL", "70-99"},
			{"Creatinine", "mg/dL", "M: 0.74-1.35, F: 0.59-1.04"},
			{"Urea", "mg/dL", "7-20"},
			{"Sodium", "mmol/L", "135-145"},
			{"Potassium", "mmol/L", "3.5-5.2"},
			{"Chloride", "mmol/L", "96-106"},
		},
	},
	{
		name:  "Lipid Profile",
		price: 600,
		analytes: []seedAnalyte{
			{"Total Cholesterol", "mg/dL", "<200"},
			{"Triglycerides", "mg/dL", "<150"},
			{"HDL Cholesterol", "mg/dL", "M: >40, F: >50"},
			{"LDL Cholesterol", "mg/dL", "<100"},
		},
	},
	{
		name:  "Liver Function Test",
		price: 650,
		analytes: []seedAnalyte{
			{"Total Bilirubin", "mg/dL", "0.1-1.2"},
			{"ALT (SGPT)", "U/L", "7-56"},
			{"AST (SGOT)", "U/L", "10-40"},
			{"Alkaline Phosphatase", "U/L", "44-147"},
			{"Albumin", "g/dL", "3.4-5.4"},
		},
	},
	{
		name:  "Thyroid Profile",
		price: 700,
		analytes: []seedAnalyte{
			{"TSH", "uIU/mL", "0.4-4.0"},
			{"T3", "ng/dL", "80-200"},
			{"T4", "ug/dL", "5.1-14.1"},
		},
	},
	{
		name:  "HbA1c",
		price: 450,
		analytes: []seedAnalyte{
			{"HbA1c", "%", "<5.7"},
		},
	},
	{
		name:  "Urine Routine",
		price: 200,
		analytes: []seedAnalyte{
			{"Specific Gravity", "", "1.005-1.030"},
			{"pH", "", "4.5-8.0"},
		},
	},
}
