// File: internal/services/retrieval/concerns.go
package retrieval

// Concern codes used in the vector store's "concern" metadata field and on
// catalog items. The vocabulary is German, matching the catalog.
const (
	ConcernDandruff       = "schuppen"
	ConcernIrritation     = "irritationen"
	ConcernDehydratedOily = "dehydriert-fettig"
	ConcernDry            = "trocken"
	ConcernNormal         = "normal"
	ConcernNeedsMoisture  = "feuchtigkeit"
	ConcernNeedsProtein   = "protein"
)

// ScalpConcernCode maps scalp profile fields to a concern code. A specific
// scalp condition overrides the general scalp type; the "keine" sentinel
// means no condition is present. Returns "" when nothing maps.
func ScalpConcernCode(scalpType, scalpCondition string) string {
	if scalpCondition != "" && scalpCondition != "keine" {
		switch scalpCondition {
		case "schuppen":
			return ConcernDandruff
		case "gereizt":
			return ConcernIrritation
		}
	}

	switch scalpType {
	case "fettig":
		return ConcernDehydratedOily
	case "trocken":
		return ConcernDry
	case "ausgeglichen":
		return ConcernNormal
	}

	return ""
}

// ProteinMoistureConcernCode maps the stretch-test answer to a concern code.
// A balanced reading ("stretches_bounces") needs no concern filter.
func ProteinMoistureConcernCode(balance string) string {
	switch balance {
	case "snaps":
		return ConcernNeedsMoisture
	case "stretches_stays":
		return ConcernNeedsProtein
	}
	return ""
}

// ProfileConcernCodes combines both mappers into the concern list passed to
// the matcher, dropping empties.
func ProfileConcernCodes(scalpType, scalpCondition, proteinMoistureBalance string) []string {
	var codes []string
	if c := ScalpConcernCode(scalpType, scalpCondition); c != "" {
		codes = append(codes, c)
	}
	if c := ProteinMoistureConcernCode(proteinMoistureBalance); c != "" {
		codes = append(codes, c)
	}
	return codes
}
