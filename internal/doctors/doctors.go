// Package doctors serves the static dermatologist directory shown alongside
// analysis results. The directory ships embedded in the binary; there is no
// lookup logic beyond returning the list.
package doctors

import (
	_ "embed"
	"encoding/json"
	"fmt"
)

// Doctor is one directory entry.
type Doctor struct {
	Name            string `json:"name"`
	Specialization  string `json:"specialization"`
	Experience      string `json:"experience"`
	ConsultationFee string `json:"consultationFee"`
	Clinic          string `json:"clinic"`
	Location        string `json:"location"`
	ReferralLink    string `json:"referralLink"`
}

//go:embed doctor_data.json
var raw []byte

var directory struct {
	Doctors []Doctor `json:"doctors"`
}

func init() {
	if err := json.Unmarshal(raw, &directory); err != nil {
		panic(fmt.Sprintf("doctors: embedded doctor_data.json is invalid: %v", err))
	}
}

// List returns a copy of the directory in display order.
func List() []Doctor {
	out := make([]Doctor, len(directory.Doctors))
	copy(out, directory.Doctors)
	return out
}
