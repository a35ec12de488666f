package ingest

import (
	"maps"

	"wwtp-carbon/internal/model"
)

// Options configures how a plant workbook is read and normalized.
type Options struct {
	SheetName  string `yaml:"sheet_name"`
	SheetIndex int    `yaml:"sheet_index"`
	// HeaderRows is 1 or 2. With 2, the first row holds indicator names and the
	// second holds sub-labels such as inlet/outlet.
	HeaderRows int `yaml:"header_rows"`
	// Mapping maps merged header text to canonical field names. Canonical names
	// always map to themselves.
	Mapping map[string]string `yaml:"mapping"`
	// DateTokens select the date column: the first header containing any token
	// (case-insensitive).
	DateTokens []string `yaml:"date_tokens"`
	// Encoding of CSV input: "" or "utf-8", or "gb18030".
	Encoding string `yaml:"encoding"`
}

func DefaultOptions() Options {
	return Options{
		HeaderRows: 2,
		Mapping:    DefaultMapping(),
		DateTokens: []string{"日期", "date"},
	}
}

// DefaultMapping covers the reference plant's daily operating sheet.
func DefaultMapping() map[string]string {
	return map[string]string{
		"处理水量 m3/d":          model.FieldVolume,
		"处理水量(m³)":           model.FieldVolume,
		"能耗 kWh/d":           model.FieldElectricity,
		"电耗(kWh)":            model.FieldElectricity,
		"CODcr(mg/l)_进水":     model.FieldCODIn,
		"CODcr(mg/l)_出水":     model.FieldCODOut,
		"进水COD(mg/L)":        model.FieldCODIn,
		"出水COD(mg/L)":        model.FieldCODOut,
		"TN(mg/l)_进水":        model.FieldTNIn,
		"TN(mg/l)_出水":        model.FieldTNOut,
		"进水TN(mg/L)":         model.FieldTNIn,
		"出水TN(mg/L)":         model.FieldTNOut,
		"PAC消耗 kg/d":         model.FieldPAC,
		"PAC投加量(kg)":         model.FieldPAC,
		"次氯酸钠消耗 kg/d":        model.FieldNaClO,
		"次氯酸钠投加量(kg)":        model.FieldNaClO,
		"污泥脱水药剂消耗(PAM) kg/d": model.FieldPAM,
		"PAM投加量(kg)":         model.FieldPAM,
	}
}

// RequiredFields are the canonical columns a dataset must carry after mapping.
func RequiredFields() []string {
	return append([]string{model.FieldDate}, model.NumericInputFields()...)
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.HeaderRows <= 0 {
		o.HeaderRows = d.HeaderRows
	}
	if len(o.DateTokens) == 0 {
		o.DateTokens = d.DateTokens
	}
	m := DefaultMapping()
	maps.Copy(m, o.Mapping)
	for _, f := range RequiredFields() {
		m[f] = f
	}
	o.Mapping = m
	return o
}
