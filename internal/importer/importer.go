package importer

import (
	"fmt"
	"strconv"
	"strings"

	"risk-tracker/internal/lookups"
	"risk-tracker/internal/models"

	"gorm.io/gorm"
)

const (
	defaultAssessmentYear = 2025
	defaultBatchSize      = 100

	maxControlDescLen = 1000
	maxControlNameLen = 100
	maxControlTagLen  = 10
	maxStrideDescLen  = 500
	maxShortTextLen   = 50
	maxRefLen         = 20
	maxControlIDsLen  = 100
	maxRefDocsLen     = 500
)

type Options struct {
	// AssessmentYear is stamped on every imported risk. Defaults to 2025.
	AssessmentYear int

	// BatchSize bounds transaction size on large imports: risk rows are
	// flushed every BatchSize processed plus once at the end. Defaults to 100.
	BatchSize int

	// SingleTransaction wraps the whole import in one transaction, trading the
	// bounded batches for all-or-nothing semantics. In batched mode a failure
	// mid-import leaves already-flushed batches committed.
	SingleTransaction bool
}

type Summary struct {
	AssetsImported   int `json:"assets_imported"`
	ControlsImported int `json:"controls_imported"`
	RisksImported    int `json:"risks_imported"`
}

type Importer struct {
	db   *gorm.DB
	opts Options
}

func New(db *gorm.DB, opts Options) *Importer {
	if opts.AssessmentYear == 0 {
		opts.AssessmentYear = defaultAssessmentYear
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	return &Importer{db: db, opts: opts}
}

// Run reconciles the document against the store. Re-running the same document
// imports zero duplicates: assets are keyed by exact trimmed name, controls by
// generated id, risks by assessment number.
func (imp *Importer) Run(doc *Document) (*Summary, error) {
	if doc == nil || len(doc.Sheets) == 0 {
		return nil, fmt.Errorf("import: document has no sheets")
	}

	if imp.opts.SingleTransaction {
		var summary *Summary
		err := imp.db.Transaction(func(tx *gorm.DB) error {
			var err error
			summary, err = imp.run(tx, doc)
			return err
		})
		return summary, err
	}
	return imp.run(imp.db, doc)
}

func (imp *Importer) run(db *gorm.DB, doc *Document) (*Summary, error) {
	riskSheet := doc.riskSheet()
	cols := resolveColumns(riskSheet.Headers, riskColumnRules)

	summary := &Summary{}

	assetsImported, err := imp.importAssets(db, riskSheet, cols)
	if err != nil {
		return nil, fmt.Errorf("import assets: %w", err)
	}
	summary.AssetsImported = assetsImported

	controlsImported, err := imp.importControls(db, doc.controlsSheet())
	if err != nil {
		return nil, fmt.Errorf("import controls: %w", err)
	}
	summary.ControlsImported = controlsImported

	risksImported, err := imp.importRisks(db, riskSheet, cols)
	if err != nil {
		return nil, fmt.Errorf("import risks: %w", err)
	}
	summary.RisksImported = risksImported

	return summary, nil
}

// importAssets creates an asset for each distinct non-empty value of the asset
// column that the store does not hold yet. Existing assets are never updated.
// Committed once after the full pass.
func (imp *Importer) importAssets(db *gorm.DB, sheet *Sheet, cols map[field]int) (int, error) {
	assetCol, ok := cols[fieldAsset]
	if !ok {
		// no resolvable asset column; every risk row will be skipped later
		return 0, nil
	}

	seen := map[string]bool{}
	var names []string
	for _, row := range sheet.Rows {
		name := sheet.Cell(row, assetCol)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	if len(names) == 0 {
		return 0, nil
	}

	var existing []models.Asset
	if err := db.Where("name IN ?", names).Find(&existing).Error; err != nil {
		return 0, err
	}
	known := map[string]bool{}
	for _, a := range existing {
		known[a.Name] = true
	}

	var created []models.Asset
	for _, name := range names {
		if known[name] {
			continue
		}
		created = append(created, models.Asset{
			Name:      name,
			AssetType: ClassifyAssetType(name),
		})
	}
	if len(created) == 0 {
		return 0, nil
	}
	if err := db.Create(&created).Error; err != nil {
		return 0, err
	}
	return len(created), nil
}

// ClassifyAssetType derives the asset type from its name: " to " marks a data
// flow, management/authentication/calculate mark a process, anything else is
// a component.
func ClassifyAssetType(name string) models.AssetType {
	if strings.Contains(name, " to ") {
		return models.AssetDataFlow
	}
	lower := strings.ToLower(name)
	for _, marker := range []string{"management", "authentication", "calculate"} {
		if strings.Contains(lower, marker) {
			return models.AssetProcess
		}
	}
	return models.AssetComponent
}

// importControls assigns sequential ids (C-0001, C-0002, ...) to the control
// sheet rows; a row whose generated id already exists is skipped, which makes
// a re-import of the same sheet a no-op. Committed once after the full pass.
func (imp *Importer) importControls(db *gorm.DB, sheet *Sheet) (int, error) {
	if sheet == nil {
		return 0, nil
	}
	cols := resolveControlColumns(sheet.Headers)
	nameCol, ok := cols[fieldControls]
	if !ok {
		return 0, nil
	}

	seq := 0
	var created []models.Control
	for _, row := range sheet.Rows {
		name := sheet.Cell(row, nameCol)
		if name == "" {
			continue
		}
		seq++
		id := fmt.Sprintf("C-%04d", seq)

		var count int64
		if err := db.Model(&models.Control{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return 0, err
		}
		if count > 0 {
			continue
		}

		ctrl := models.Control{
			ID:       id,
			Name:     truncate(name, maxControlNameLen),
			IsActive: true,
		}
		if descCol, ok := cols["description"]; ok {
			ctrl.Description = textPtr(truncate(sheet.Cell(row, descCol), maxControlDescLen))
		}
		if tagCol, ok := cols["tag"]; ok {
			ctrl.CategoryTag = textPtr(truncate(sheet.Cell(row, tagCol), maxControlTagLen))
		}
		created = append(created, ctrl)
	}

	if len(created) == 0 {
		return 0, nil
	}
	if err := db.Create(&created).Error; err != nil {
		return 0, err
	}
	return len(created), nil
}

// importRisks upserts risk rows keyed by assessment number. Rows whose number
// already exists (in the store or earlier in this run) and rows whose asset
// cannot be resolved are skipped. Flushed every BatchSize rows plus once at
// the end.
func (imp *Importer) importRisks(db *gorm.DB, sheet *Sheet, cols map[field]int) (int, error) {
	assetCol, hasAssetCol := cols[fieldAsset]
	if !hasAssetCol {
		return 0, nil
	}

	maps, err := lookups.LoadMaps(db)
	if err != nil {
		return 0, err
	}

	var assets []models.Asset
	if err := db.Find(&assets).Error; err != nil {
		return 0, err
	}
	assetIDs := make(map[string]uint, len(assets))
	for _, a := range assets {
		assetIDs[a.Name] = a.ID
	}

	imported := 0
	seenNumbers := map[int]bool{}
	var batch []models.RiskAssessment

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if err := db.Create(&batch).Error; err != nil {
			return err
		}
		batch = nil
		return nil
	}

	for _, row := range sheet.Rows {
		cell := func(f field) string {
			col, ok := cols[f]
			if !ok {
				return ""
			}
			return sheet.Cell(row, col)
		}

		num, ok := parseAssessmentNumber(cell(fieldNumber))
		if !ok {
			// no usable number in the row: next value after the session count
			num = imported + 1
		}

		if seenNumbers[num] {
			continue
		}
		var count int64
		if err := db.Model(&models.RiskAssessment{}).
			Where("assessment_number = ?", num).
			Count(&count).Error; err != nil {
			return imported, err
		}
		if count > 0 {
			continue
		}

		assetID, ok := assetIDs[sheet.Cell(row, assetCol)]
		if !ok {
			continue
		}

		risk := models.RiskAssessment{
			AssessmentNumber:  num,
			AssetID:           assetID,
			Operation:         textPtr(truncate(cell(fieldOperation), maxShortTextLen)),
			Platform:          textPtr(truncate(cell(fieldPlatform), maxShortTextLen)),
			ModelRef:          textPtr(truncate(cell(fieldModelRef), maxRefLen)),
			StrideCode:        textPtr(truncate(cell(fieldStrideCode), 1)),
			StrideDescription: textPtr(truncate(cell(fieldStrideDesc), maxStrideDescLen)),
			FindingNumber:     textPtr(truncate(cell(fieldFinding), maxRefLen)),
			SeverityID:        maps.SeverityID(cell(fieldSeverity)),
			PreExploitRiskID:  maps.ExploitRiskID(cell(fieldPreExploit)),
			PreRiskRatingID:   maps.RiskRatingID(cell(fieldPreRating)),
			PostExploitRiskID: maps.ExploitRiskID(cell(fieldPostExploit)),
			PostRiskRatingID:  maps.RiskRatingID(cell(fieldPostRating)),
			ControlIDs:        textPtr(truncate(cell(fieldControls), maxControlIDsLen)),
			ReferenceDocs:     textPtr(truncate(cell(fieldRefDocs), maxRefDocsLen)),
			AssessmentYear:    imp.opts.AssessmentYear,
			ReviewStatus:      models.StatusPending,
		}

		batch = append(batch, risk)
		seenNumbers[num] = true
		imported++

		if len(batch) >= imp.opts.BatchSize {
			if err := flush(); err != nil {
				return imported - len(batch), err
			}
		}
	}

	if err := flush(); err != nil {
		return imported - len(batch), err
	}
	return imported, nil
}

// parseAssessmentNumber handles both "7" and the "7.0" excel sometimes
// produces for numeric cells.
func parseAssessmentNumber(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

// truncate is rune-safe; header-derived text can carry multibyte characters.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

func textPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
