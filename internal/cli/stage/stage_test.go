package stage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/etapa/internal/cli"
	"github.com/thenoetrevino/etapa/internal/testutil"
)

// ============================================================================
// create / list
// ============================================================================

func TestCreateJSON(t *testing.T) {
	a := testutil.SetupApp(t)

	out, _, err := testutil.ExecuteCommand(t, a, CreateCmd(), "--label", "Nouveau", "--color", "#3B82F6", "--json")
	require.NoError(t, err)

	result := testutil.ParseJSON(t, out)
	assert.Equal(t, true, result["success"])
	stage := result["stage"].(map[string]any)
	assert.Equal(t, "Nouveau", stage["label"])
	assert.Equal(t, "#3B82F6", stage["color"])
	assert.Equal(t, float64(1), stage["position"])

	stages, err := a.Store.ListColumnsOrdered(context.Background(), "default")
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.Equal(t, stage["id"], stages[0].ID)
}

func TestCreateQuietPrintsID(t *testing.T) {
	a := testutil.SetupApp(t)

	out, _, err := testutil.ExecuteCommand(t, a, CreateCmd(), "--label", "Nouveau", "--quiet", "--tenant", "acme")
	require.NoError(t, err)

	stages, err := a.Store.ListColumnsOrdered(context.Background(), "acme")
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.Equal(t, stages[0].ID+"\n", out)
}

func TestCreateWithoutLabelNonInteractive(t *testing.T) {
	a := testutil.SetupApp(t)

	out, _, err := testutil.ExecuteCommand(t, a, CreateCmd(), "--json")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCodeFor(err))
	assert.Equal(t, false, testutil.ParseJSON(t, out)["success"])
}

func TestCreateDuplicateLabelConflicts(t *testing.T) {
	a := testutil.SetupApp(t)
	testutil.SeedStage(t, a, "default", "Nouveau")

	_, stderr, err := testutil.ExecuteCommand(t, a, CreateCmd(), "--label", "Nouveau")
	require.Error(t, err)
	assert.Equal(t, cli.ExitConflict, cli.ExitCodeFor(err))
	assert.Contains(t, stderr, "Error:")
}

func TestListHumanAndQuiet(t *testing.T) {
	a := testutil.SetupApp(t)
	nouveau := testutil.SeedStage(t, a, "default", "Nouveau")
	gagne := testutil.SeedStage(t, a, "default", "Gagné")
	testutil.SeedDeal(t, a, nouveau.ID, "Acme", 120050)

	out, _, err := testutil.ExecuteCommand(t, a, ListCmd())
	require.NoError(t, err)
	assert.Contains(t, out, "Stages of 'default':")
	assert.Contains(t, out, "Nouveau")
	assert.Contains(t, out, "1,200.50")
	assert.Less(t, strings.Index(out, "Nouveau"), strings.Index(out, "Gagné"))

	out, _, err = testutil.ExecuteCommand(t, a, ListCmd(), "--quiet")
	require.NoError(t, err)
	assert.Equal(t, nouveau.ID+"\n"+gagne.ID+"\n", out)
}

func TestListEmptyTenant(t *testing.T) {
	a := testutil.SetupApp(t)

	out, _, err := testutil.ExecuteCommand(t, a, ListCmd(), "--tenant", "nobody")
	require.NoError(t, err)
	assert.Contains(t, out, "No stages found for tenant 'nobody'")
}

// ============================================================================
// rename / archive
// ============================================================================

func TestRename(t *testing.T) {
	a := testutil.SetupApp(t)
	s := testutil.SeedStage(t, a, "default", "Nouveau")

	out, _, err := testutil.ExecuteCommand(t, a, RenameCmd(), s.ID, "--label", "Entrant")
	require.NoError(t, err)
	assert.Contains(t, out, "renamed to 'Entrant'")

	stages, err := a.Store.ListColumnsOrdered(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, "Entrant", stages[0].Label)
}

func TestArchiveDeletesDeals(t *testing.T) {
	a := testutil.SetupApp(t)
	s := testutil.SeedStage(t, a, "default", "Perdu")
	testutil.SeedStage(t, a, "default", "Gagné")
	testutil.SeedDeal(t, a, s.ID, "Initech", 0)

	out, _, err := testutil.ExecuteCommand(t, a, ArchiveCmd(), s.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Stage 'Perdu' archived")
	assert.Contains(t, out, "1 deals deleted")

	stages, err := a.Store.ListColumnsOrdered(context.Background(), "default")
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.Equal(t, "Gagné", stages[0].Label)
}

func TestArchiveUnknownStage(t *testing.T) {
	a := testutil.SetupApp(t)

	out, _, err := testutil.ExecuteCommand(t, a, ArchiveCmd(), "missing", "--json")
	require.Error(t, err)
	assert.Equal(t, cli.ExitNotFound, cli.ExitCodeFor(err))

	result := testutil.ParseJSON(t, out)
	assert.Equal(t, "STAGE_NOT_FOUND", result["error"].(map[string]any)["code"])
}

// ============================================================================
// move / swap / order / compact
// ============================================================================

func TestMoveAcrossBoard(t *testing.T) {
	a := testutil.SetupApp(t)
	n := testutil.SeedStage(t, a, "default", "Nouveau")
	q := testutil.SeedStage(t, a, "default", "Qualifié")
	g := testutil.SeedStage(t, a, "default", "Gagné")

	out, _, err := testutil.ExecuteCommand(t, a, MoveCmd(), "--from", "1", "--to", "3", "--json")
	require.NoError(t, err)

	order := testutil.ParseJSON(t, out)["order"].([]any)
	assert.Equal(t, []any{q.ID, g.ID, n.ID}, order)

	stages, err := a.Store.ListColumnsOrdered(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, []string{"Qualifié", "Gagné", "Nouveau"}, []string{stages[0].Label, stages[1].Label, stages[2].Label})
}

func TestMoveRejectsZeroPlace(t *testing.T) {
	a := testutil.SetupApp(t)
	testutil.SeedStage(t, a, "default", "Nouveau")

	_, _, err := testutil.ExecuteCommand(t, a, MoveCmd(), "--from", "0", "--to", "1")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCodeFor(err))
}

func TestSwap(t *testing.T) {
	a := testutil.SetupApp(t)
	testutil.SeedStage(t, a, "default", "Nouveau")
	testutil.SeedStage(t, a, "default", "Gagné")

	out, _, err := testutil.ExecuteCommand(t, a, SwapCmd(), "1", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Swapped positions 1 and 2")

	stages, err := a.Store.ListColumnsOrdered(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, "Gagné", stages[0].Label)
	assert.Equal(t, "Nouveau", stages[1].Label)
}

func TestSwapSamePositionIsInvalid(t *testing.T) {
	a := testutil.SetupApp(t)
	testutil.SeedStage(t, a, "default", "Nouveau")

	_, _, err := testutil.ExecuteCommand(t, a, SwapCmd(), "1", "1")
	require.Error(t, err)
	assert.Equal(t, cli.ExitValidation, cli.ExitCodeFor(err))
}

func TestSwapNonNumeric(t *testing.T) {
	a := testutil.SetupApp(t)

	_, _, err := testutil.ExecuteCommand(t, a, SwapCmd(), "one", "2")
	require.Error(t, err)
	assert.Equal(t, cli.ExitUsage, cli.ExitCodeFor(err))
}

func TestOrderAndCompact(t *testing.T) {
	a := testutil.SetupApp(t)
	n := testutil.SeedStage(t, a, "default", "Nouveau")
	q := testutil.SeedStage(t, a, "default", "Qualifié")
	g := testutil.SeedStage(t, a, "default", "Gagné")

	_, _, err := testutil.ExecuteCommand(t, a, OrderCmd(), g.ID, n.ID, q.ID)
	require.NoError(t, err)

	stages, err := a.Store.ListColumnsOrdered(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, []string{g.ID, n.ID, q.ID}, []string{stages[0].ID, stages[1].ID, stages[2].ID})

	out, _, err := testutil.ExecuteCommand(t, a, CompactCmd(), "--quiet")
	require.NoError(t, err)
	assert.Empty(t, out)

	stages, err = a.Store.ListColumnsOrdered(context.Background(), "default")
	require.NoError(t, err)
	for i, s := range stages {
		assert.Equal(t, i+1, s.Position)
	}
}

func TestOrderWithWrongSetConflicts(t *testing.T) {
	a := testutil.SetupApp(t)
	n := testutil.SeedStage(t, a, "default", "Nouveau")
	testutil.SeedStage(t, a, "default", "Gagné")

	_, _, err := testutil.ExecuteCommand(t, a, OrderCmd(), n.ID)
	require.Error(t, err)
	assert.Equal(t, cli.ExitConflict, cli.ExitCodeFor(err))
}

func TestListEmptyTenantJSON(t *testing.T) {
	a := testutil.SetupApp(t)

	out, _, err := testutil.ExecuteCommand(t, a, ListCmd(), "--json")
	require.NoError(t, err)
	assert.Equal(t, []any{}, testutil.ParseJSON(t, out)["stages"])
}
