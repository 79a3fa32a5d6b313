package importer

import "strings"

// Logical fields of the risk-detail sheet. Exports vary in column order and
// header spelling, so each field is located by a prioritized rule list over
// the header names; first match wins. A field missing from the result map is
// explicitly unresolved, which is distinct from a resolved column holding an
// empty cell.
type field string

const (
	fieldAsset       field = "asset"
	fieldNumber      field = "number"
	fieldOperation   field = "operation"
	fieldPlatform    field = "platform"
	fieldModelRef    field = "model_ref"
	fieldStrideCode  field = "stride_code"
	fieldStrideDesc  field = "stride_description"
	fieldFinding     field = "finding"
	fieldSeverity    field = "severity"
	fieldPreExploit  field = "pre_exploit_risk"
	fieldPreRating   field = "pre_risk_rating"
	fieldPostExploit field = "post_exploit_risk"
	fieldPostRating  field = "post_risk_rating"
	fieldControls    field = "controls"
	fieldRefDocs     field = "reference_docs"
)

type columnRule struct {
	field field
	match func(header string) bool
}

func containsAll(subs ...string) func(string) bool {
	return func(header string) bool {
		for _, sub := range subs {
			if !strings.Contains(header, sub) {
				return false
			}
		}
		return true
	}
}

// Rules are evaluated per field in order against normalized headers
// (lowercased, embedded line breaks collapsed to spaces — the post-mitigation
// headers wrap in real exports).
var riskColumnRules = []columnRule{
	{fieldAsset, containsAll("threat", "asset")},
	{fieldNumber, func(h string) bool { return h == "#" }},
	{fieldNumber, containsAll("number")},
	{fieldPreExploit, containsAll("pre-mitigation exploit risk")},
	{fieldPreRating, containsAll("pre-mitigation risk rating")},
	{fieldPostExploit, containsAll("post-mitigation exploit risk")},
	{fieldPostRating, containsAll("post-mitigation risk rating")},
	{fieldStrideDesc, containsAll("stride", "desc")},
	{fieldStrideCode, containsAll("stride")},
	{fieldOperation, containsAll("operation")},
	{fieldPlatform, containsAll("platform")},
	{fieldModelRef, containsAll("model", "ref")},
	{fieldFinding, containsAll("finding")},
	{fieldSeverity, containsAll("severity")},
	{fieldControls, containsAll("control")},
	{fieldRefDocs, containsAll("reference")},
}

func normalizeHeader(h string) string {
	h = strings.ReplaceAll(h, "\n", " ")
	h = strings.ReplaceAll(h, "\r", " ")
	return strings.ToLower(strings.TrimSpace(h))
}

// resolveColumns maps each logical field to the index of the first header a
// rule for that field accepts.
func resolveColumns(headers []string, rules []columnRule) map[field]int {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	resolved := map[field]int{}
	for _, rule := range rules {
		if _, done := resolved[rule.field]; done {
			continue
		}
		for i, h := range normalized {
			if rule.match(h) {
				resolved[rule.field] = i
				break
			}
		}
	}
	return resolved
}

// Controls-sheet fields: the measure column falls back to the first column
// when no header matches.
var controlColumnRules = []columnRule{
	{fieldControls, containsAll("control")},
	{"description", containsAll("description")},
	{"tag", containsAll("tag")},
}

func resolveControlColumns(headers []string) map[field]int {
	resolved := resolveColumns(headers, controlColumnRules)
	if _, ok := resolved[fieldControls]; !ok && len(headers) > 0 {
		resolved[fieldControls] = 0
	}
	return resolved
}
