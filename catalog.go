package main

import (
	"strings"
)

// studyLocations is the fixed enumeration of campus locations. The codes are
// the location IDs used by the study_place table and must stay stable.
var studyLocations = map[int]string{
	0: "Kongsberg",
	1: "Fredrikstad",
	2: "Kjeller",
	3: "Indre Østfold",
	4: "Drammen",
	5: "Jessheim",
	6: "Gauldal",
	7: "Mo i Rana",
	8: "Geilo",
	9: "Sørumsand",
}

// studyTypes is the fixed enumeration of study formats as they appear on the
// campus selector, e.g. "Heltid 2 år" in "Drammen (Heltid 2 år)".
var studyTypes = map[int]string{
	0:  "Samlingsbasert",
	1:  "Samlingsbasert 6 uker",
	2:  "Samlingsbasert ca. 10 uker",
	3:  "Samlingsbasert ca. 12 uker",
	4:  "Samlingsbasert ca. 14 uker",
	5:  "Samlingsbasert ca. 16 uker",
	6:  "Samlingsbasert 7 måneder",
	7:  "Samlingsbasert 1 år",
	8:  "Samlingsbasert 2 år",
	9:  "Samlingsbasert 3 år",
	10: "Samlingsbasert 4 år",
	11: "Heltid 2 år",
	12: "Deltid 2 år",
	13: "Deltid 3 år",
	14: "Stedbasert 2 år",
	15: "Nettstudium 1 år",
	16: "Enkeltemne ca. 12 uker",
}

// segmentSeparator is the separator produced by textContent when the campus
// selector lists multiple location options.
const segmentSeparator = " | "

// MatchLocationAndStudyType matches the free-text campus selector string
// against the location and study-type enumerations. The input contains one or
// more "Name (Type)" segments separated by segmentSeparator. Segments whose
// name or type has no exact catalog match are skipped and logged, never an
// error. The returned maps are keyed by catalog code.
func MatchLocationAndStudyType(text string) (map[int]string, map[int]string) {
	locations := make(map[int]string)
	types := make(map[int]string)

	for _, segment := range strings.Split(text, segmentSeparator) {
		name, typ := splitSegment(segment)

		if matched := matchCatalog(studyLocations, name); matched >= 0 {
			locations[matched] = name
		} else if name != "" {
			if logger != nil {
				logger.Warn("Location not in catalog", "location", name)
			}
		}

		if matched := matchCatalog(studyTypes, typ); matched >= 0 {
			types[matched] = typ
		} else if typ != "" {
			if logger != nil {
				logger.Warn("Study type not in catalog", "study_type", typ)
			}
		}
	}

	return locations, types
}

// splitSegment splits one "Name (Type)" segment into its name and type parts.
// A segment without a parenthesized type yields an empty type rather than an
// out-of-range access.
func splitSegment(segment string) (name, typ string) {
	parts := strings.SplitN(segment, "(", 2)
	name = strings.TrimSpace(parts[0])
	if len(parts) > 1 {
		typ = strings.TrimSpace(strings.ReplaceAll(parts[1], ")", ""))
	}
	return name, typ
}

// matchCatalog scans a catalog for an exact, case-sensitive match and returns
// its code, or -1 when the value is absent. Catalogs hold at most ~20 entries
// so a linear scan is fine.
func matchCatalog(catalog map[int]string, value string) int {
	if value == "" {
		return -1
	}
	for code, canonical := range catalog {
		if canonical == value {
			return code
		}
	}
	return -1
}
