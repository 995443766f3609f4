package domain

// ProjectInfo carries the project metadata supplied by the caller when a
// document generation is requested.
type ProjectInfo struct {
	ProjectName      string `json:"projectName"`
	Location         string `json:"location"`
	Date             string `json:"date"`
	Assessor         string `json:"assessor"`
	Contractor       string `json:"contractor"`
	Supervisor       string `json:"supervisor"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
	EmergencyPhone   string `json:"emergencyPhone,omitempty"`
	NearestHospital  string `json:"nearestHospital,omitempty"`
	AssemblyPoint    string `json:"assemblyPoint,omitempty"`
	WorkType         string `json:"workType,omitempty"`
	TeamSize         int    `json:"teamSize,omitempty"`
}

// RAMSData is the generated risk assessment & method statement document.
//
// RequiredPPE carries the legacy flattened "<type> to <standard>" strings;
// PPEDetails carries the structured records. Both describe the same list.
type RAMSData struct {
	ProjectName      string `json:"projectName"`
	ProjectLocation  string `json:"location"`
	Date             string `json:"date"`
	Assessor         string `json:"assessor"`
	Contractor       string `json:"contractor"`
	Supervisor       string `json:"supervisor"`
	EmergencyContact string `json:"emergencyContact,omitempty"`
	EmergencyPhone   string `json:"emergencyPhone,omitempty"`
	NearestHospital  string `json:"nearestHospital,omitempty"`
	AssemblyPoint    string `json:"assemblyPoint,omitempty"`

	Activities          []string  `json:"activities"`
	Risks               []Risk    `json:"risks"`
	Hazards             []Hazard  `json:"hazards"`
	RequiredPPE         []string  `json:"requiredPPE"`
	PPEDetails          []PPEItem `json:"ppeDetails"`
	EmergencyProcedures []string  `json:"emergencyProcedures"`

	ComplianceRegulations []string `json:"complianceRegulations"`
	ComplianceWarnings    []string `json:"complianceWarnings"`
}
