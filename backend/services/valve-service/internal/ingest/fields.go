package ingest

// Canonical measurement fields.
const (
	FieldT1RemoteK         = "t1_remote_k"
	FieldT2EmbeddedK       = "t2_embedded_k"
	FieldDeltaTK           = "delta_t_k"
	FieldFlowVolumeTotalM3 = "flow_volume_total_m3"
	FieldOperatingHours    = "operating_hours"
)

// CanonicalFields is the fixed reporting order of measurement fields.
var CanonicalFields = []string{
	FieldT1RemoteK,
	FieldT2EmbeddedK,
	FieldDeltaTK,
	FieldFlowVolumeTotalM3,
	FieldOperatingHours,
}

// fieldAliases maps recognized source spellings (case-sensitive) to canonical fields.
var fieldAliases = map[string]string{
	"T1_remote_K": FieldT1RemoteK,
	"T1_Remote_K": FieldT1RemoteK,
	"t1_remote_k": FieldT1RemoteK,
	"T1":          FieldT1RemoteK,

	"T2_embeded_K":  FieldT2EmbeddedK,
	"T2_embedded_K": FieldT2EmbeddedK,
	"T2_Embedded_K": FieldT2EmbeddedK,
	"t2_embeded_k":  FieldT2EmbeddedK,
	"t2_embedded_k": FieldT2EmbeddedK,
	"T2":            FieldT2EmbeddedK,

	"DeltaT_K":  FieldDeltaTK,
	"Delta_T_K": FieldDeltaTK,
	"deltaT":    FieldDeltaTK,
	"delta_t":   FieldDeltaTK,
	"delta_t_k": FieldDeltaTK,

	"Flow_Volume_total_m3": FieldFlowVolumeTotalM3,
	"Flow_Volume":          FieldFlowVolumeTotalM3,
	"flow_volume_total_m3": FieldFlowVolumeTotalM3,
	"Flow":                 FieldFlowVolumeTotalM3,

	"OperatingHours":  FieldOperatingHours,
	"Operating_Hours": FieldOperatingHours,
	"operating_hours": FieldOperatingHours,
}

// CanonicalField reports the canonical field for a source column name.
func CanonicalField(column string) (string, bool) {
	f, ok := fieldAliases[column]
	return f, ok
}

// fieldMapping binds canonical fields to table columns.
type fieldMapping struct {
	columns map[string]int    // canonical -> column index
	sources map[string]string // canonical -> source column name
}

// mapFields scans the header once. A later alias of the same field replaces an earlier one.
func mapFields(header []string) fieldMapping {
	m := fieldMapping{
		columns: make(map[string]int, len(CanonicalFields)),
		sources: make(map[string]string, len(CanonicalFields)),
	}
	for i, name := range header {
		if field, ok := fieldAliases[name]; ok {
			m.columns[field] = i
			m.sources[field] = name
		}
	}
	return m
}

func (m fieldMapping) missing() []string {
	var out []string
	for _, f := range CanonicalFields {
		if _, ok := m.columns[f]; !ok {
			out = append(out, f)
		}
	}
	return out
}
