package rules

import (
	"testing"

	"github.com/avalonia-tools/avalint/scanner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingRule returns one info finding per unit and counts invocations.
type recordingRule struct {
	id    string
	calls int
}

func (r *recordingRule) ID() string { return r.id }

func (r *recordingRule) Category() models.Category { return models.CategoryFormatPattern }

func (r *recordingRule) Description() string { return "records invocations" }

func (r *recordingRule) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	r.calls++
	return []models.Finding{{
		RuleID:   r.id,
		Category: r.Category(),
		Severity: models.SeverityInfo,
		Path:     unit.File.RelativePath,
		Message:  "seen",
	}}
}

// explodingRule panics on every unit and counts how often it was tried.
type explodingRule struct {
	checkCalls   int
	projectCalls int
}

func (r *explodingRule) ID() string { return "AV999" }

func (r *explodingRule) Category() models.Category { return models.CategoryStructuralMismatch }

func (r *explodingRule) Description() string { return "panics on purpose" }

func (r *explodingRule) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	r.checkCalls++
	panic("exploded on purpose")
}

func (r *explodingRule) CheckProject(idx *Index) []models.Finding {
	r.projectCalls++
	return nil
}

// projectExplodingRule is sound per unit but panics in the project pass.
type projectExplodingRule struct{}

func (r *projectExplodingRule) ID() string { return "AV997" }

func (r *projectExplodingRule) Category() models.Category { return models.CategoryProjectStructure }

func (r *projectExplodingRule) Description() string { return "panics in the project pass" }

func (r *projectExplodingRule) Check(unit *models.ParsedUnit, idx *Index) []models.Finding {
	return nil
}

func (r *projectExplodingRule) CheckProject(idx *Index) []models.Finding {
	panic("project pass exploded")
}

func testUnit(rel string) *models.ParsedUnit {
	return &models.ParsedUnit{File: models.SourceFile{
		Path:         rel,
		RelativePath: rel,
		Kind:         models.KindForPath(rel),
	}}
}

// Test that a panicking rule yields one internal-error finding and is disabled
func TestEngine_PanickingRuleIsolatedAndDisabled(t *testing.T) {
	units := []*models.ParsedUnit{testUnit("Views/A.axaml"), testUnit("Views/B.axaml")}
	idx := NewIndex(units)

	exploding := &explodingRule{}
	recording := &recordingRule{id: "AV998"}
	out := NewEngine(exploding, recording).Run(units, idx)

	// Tried once, disabled afterwards, never reaches the project pass
	assert.Equal(t, 1, exploding.checkCalls)
	assert.Equal(t, 0, exploding.projectCalls)

	// The healthy rule still sees every unit
	assert.Equal(t, 2, recording.calls)

	require.Len(t, out, 3)
	var internal []models.Finding
	for _, f := range out {
		if f.Category == models.CategoryRuleInternalError {
			internal = append(internal, f)
		}
	}
	require.Len(t, internal, 1)
	assert.Equal(t, "AV999", internal[0].RuleID)
	assert.Equal(t, models.SeverityError, internal[0].Severity)
	assert.Equal(t, "Views/A.axaml", internal[0].Path)
	assert.Equal(t, "rule AV999 panicked: exploded on purpose", internal[0].Message)
}

// Test that a project-pass panic is recorded at the tree root
func TestEngine_ProjectPassPanicRecorded(t *testing.T) {
	units := []*models.ParsedUnit{testUnit("Views/A.axaml")}
	idx := NewIndex(units)

	recording := &recordingRule{id: "AV998"}
	out := NewEngine(&projectExplodingRule{}, recording).Run(units, idx)

	require.Len(t, out, 2)
	var internal *models.Finding
	for i := range out {
		if out[i].Category == models.CategoryRuleInternalError {
			internal = &out[i]
		}
	}
	require.NotNil(t, internal)
	assert.Equal(t, "AV997", internal.RuleID)
	assert.Equal(t, ".", internal.Path)
	assert.Equal(t, "rule AV997 panicked: project pass exploded", internal.Message)
}

// Test that nil units are skipped without touching the rules
func TestEngine_NilUnitsSkipped(t *testing.T) {
	unit := testUnit("Views/A.axaml")
	idx := NewIndex([]*models.ParsedUnit{unit})

	recording := &recordingRule{id: "AV998"}
	out := NewEngine(recording).Run([]*models.ParsedUnit{nil, unit}, idx)

	assert.Equal(t, 1, recording.calls)
	require.Len(t, out, 1)
	assert.Equal(t, "Views/A.axaml", out[0].Path)
}
