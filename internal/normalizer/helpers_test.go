package normalizer

import "vacuumclean/internal/models"

// sourceHeader is a collector header carrying every required column plus one
// column the projection discards.
func sourceHeader() []string {
	header := []string{"Product URL"}
	for _, m := range DefaultColumns {
		header = append(header, m.Source)
	}

	return header
}

// rawRecord builds a raw row from canonical column names.
func rawRecord(fields map[string]string) models.RawRecord {
	bySource := map[string]string{}
	for target, v := range fields {
		for _, m := range DefaultColumns {
			if m.Target == target {
				bySource[m.Source] = v
			}
		}
	}

	bySource["Product URL"] = "https://example.invalid/p/1"

	return bySource
}

func rawTable(records ...models.RawRecord) *models.RawTable {
	return &models.RawTable{Header: sourceHeader(), Records: records}
}

func ruleFor(col string) ExtractRule {
	for _, r := range DefaultExtractRules {
		if r.Column == col {
			return r
		}
	}

	panic("no extract rule for " + col)
}
