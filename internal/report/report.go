// Package report defines the report wire contract shared by the delivery
// client and the server, and the two pure transforms over it: payload
// normalization (formatter) and HTML rendering (renderer).
package report

// Fixed positions of the results tuple. The order is part of the wire
// contract and must never change.
const (
	FieldName = iota
	FieldDescription
	FieldSymptoms
	FieldCauses
	FieldTreatment

	// ResultCount is the invariant length of the results tuple.
	ResultCount = 5
)

// AnalysisResult is the diagnosis returned by the external classifier.
// Immutable once received; held only for the duration of one report cycle.
type AnalysisResult struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Symptoms    string `json:"symptoms"`
	Causes      string `json:"causes"`
	Treatment   string `json:"treatment"`
}

// Data is the reportData object inside the payload.
type Data struct {
	// Results is always exactly ResultCount elements, in fixed order
	// [name, description, symptoms, causes, treatment].
	Results []string `json:"results"`

	// Treatments is the ordered suggestion list; may be empty.
	Treatments []string `json:"treatments"`
}

// Payload is the exact body POSTed to /api/send-report.
type Payload struct {
	Email string `json:"email"`
	Data  Data   `json:"reportData"`
}

// Per-slot defaults substituted for empty fields. Mirrors the wording the
// rendered report uses so client- and server-side substitution agree.
var fieldDefaults = [ResultCount]string{
	"Not identified",
	"No description available",
	"No related issues identified",
	"No risk factors identified",
	"No treatment information available",
}

// NewPayload normalizes an analysis result and its suggestion list into the
// wire payload. It is total: empty fields are replaced with a descriptive
// default rather than omitted, so the results tuple length is invariant.
func NewPayload(email string, res AnalysisResult, treatments []string) Payload {
	results := []string{
		res.Name,
		res.Description,
		res.Symptoms,
		res.Causes,
		res.Treatment,
	}
	for i, v := range results {
		if v == "" {
			results[i] = fieldDefaults[i]
		}
	}

	if treatments == nil {
		treatments = []string{}
	}

	return Payload{
		Email: email,
		Data: Data{
			Results:    results,
			Treatments: treatments,
		},
	}
}

// result returns the field at slot i, substituting the slot default when the
// tuple is short or the field is empty. Lets the renderer tolerate payloads
// that bypassed NewPayload (e.g. hand-built requests).
func (d Data) result(i int) string {
	if i < len(d.Results) && d.Results[i] != "" {
		return d.Results[i]
	}
	return fieldDefaults[i]
}
