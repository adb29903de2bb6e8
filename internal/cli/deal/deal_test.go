package deal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/etapa/internal/cli"
	"github.com/thenoetrevino/etapa/internal/models"
	"github.com/thenoetrevino/etapa/internal/testutil"
	"github.com/thenoetrevino/etapa/internal/user"
)

func dealTitles(t *testing.T, stages []*models.Stage) [][]string {
	t.Helper()
	out := make([][]string, len(stages))
	for i, s := range stages {
		out[i] = []string{}
		for _, d := range s.Deals {
			out[i] = append(out[i], d.Title)
		}
	}
	return out
}

func TestCreateDeal(t *testing.T) {
	a := testutil.SetupApp(t)
	s := testutil.SeedStage(t, a, "default", "Nouveau")

	out, _, err := testutil.ExecuteCommand(t, a, CreateCmd(),
		"--stage", s.ID, "--title", "Acme renewal", "--amount", "12,500.75", "--tags", "Renewal,priority,renewal", "--json")
	require.NoError(t, err)

	deal := testutil.ParseJSON(t, out)["deal"].(map[string]any)
	assert.Equal(t, "Acme renewal", deal["title"])
	assert.Equal(t, float64(1250075), deal["amount"])
	assert.Equal(t, s.ID, deal["stage_id"])

	stored, err := a.Store.GetCard(context.Background(), deal["id"].(string))
	require.NoError(t, err)
	assert.Equal(t, int64(1250075), stored.Amount)
	assert.Equal(t, models.NormalizeTags([]string{"Renewal", "priority", "renewal"}), stored.Tags)
}

func TestCreateDealAppendsLast(t *testing.T) {
	a := testutil.SetupApp(t)
	s := testutil.SeedStage(t, a, "default", "Nouveau")
	testutil.SeedDeal(t, a, s.ID, "Alpha", 0)

	out, _, err := testutil.ExecuteCommand(t, a, CreateCmd(), "--stage", s.ID, "--title", "Beta", "--quiet")
	require.NoError(t, err)
	assert.NotEmpty(t, out)

	stages, err := a.Store.ListColumnsOrdered(context.Background(), "default")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Alpha", "Beta"}}, dealTitles(t, stages))
}

func TestCreateDealBadAmount(t *testing.T) {
	a := testutil.SetupApp(t)
	s := testutil.SeedStage(t, a, "default", "Nouveau")

	_, stderr, err := testutil.ExecuteCommand(t, a, CreateCmd(), "--stage", s.ID, "--title", "Acme", "--amount", "12.345")
	require.Error(t, err)
	assert.Equal(t, cli.ExitValidation, cli.ExitCodeFor(err))
	assert.Contains(t, stderr, "Error:")
}

func TestCreateDealUnknownStage(t *testing.T) {
	a := testutil.SetupApp(t)
	testutil.SeedStage(t, a, "default", "Nouveau")

	_, _, err := testutil.ExecuteCommand(t, a, CreateCmd(), "--stage", "missing", "--title", "Acme")
	require.Error(t, err)
	assert.Equal(t, cli.ExitNotFound, cli.ExitCodeFor(err))
}

func TestMoveDealToOtherStage(t *testing.T) {
	a := testutil.SetupApp(t)
	from := testutil.SeedStage(t, a, "default", "Nouveau")
	to := testutil.SeedStage(t, a, "default", "Gagné")
	d := testutil.SeedDeal(t, a, from.ID, "Acme", 100)
	testutil.SeedDeal(t, a, to.ID, "Globex", 200)

	out, _, err := testutil.ExecuteCommand(t, a, MoveCmd(), d.ID, "--to", to.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Deal 'Acme' moved")

	stored, err := a.Store.GetCard(context.Background(), d.ID)
	require.NoError(t, err)
	assert.Equal(t, to.ID, stored.StageID)

	stages, err := a.Store.ListColumnsOrdered(context.Background(), "default")
	require.NoError(t, err)
	assert.Empty(t, stages[0].Deals)
	assert.Len(t, stages[1].Deals, 2)
}

func TestMoveUnknownDeal(t *testing.T) {
	a := testutil.SetupApp(t)
	s := testutil.SeedStage(t, a, "default", "Nouveau")

	_, _, err := testutil.ExecuteCommand(t, a, MoveCmd(), "missing", "--to", s.ID)
	require.Error(t, err)
	assert.Equal(t, cli.ExitNotFound, cli.ExitCodeFor(err))
}

func TestDeleteDeal(t *testing.T) {
	a := testutil.SetupApp(t)
	s := testutil.SeedStage(t, a, "default", "Nouveau")
	d := testutil.SeedDeal(t, a, s.ID, "Acme", 0)

	out, _, err := testutil.ExecuteCommand(t, a, DeleteCmd(), d.ID, "--json")
	require.NoError(t, err)
	assert.Equal(t, d.ID, testutil.ParseJSON(t, out)["deleted"])

	_, err = a.Store.GetCard(context.Background(), d.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestShowDeal(t *testing.T) {
	a := testutil.SetupApp(t)
	s := testutil.SeedStage(t, a, "default", "Nouveau")
	d, err := a.Store.CreateCard(context.Background(), s.ID, models.DealDraft{
		Title:       "Acme renewal",
		Amount:      990000,
		Description: "Call **Wile** before Friday",
	})
	require.NoError(t, err)

	out, _, err := testutil.ExecuteCommand(t, a, ShowCmd(), d.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "Acme renewal")
	assert.Contains(t, out, "9,900.00")
	assert.Contains(t, out, "Wile")

	out, _, err = testutil.ExecuteCommand(t, a, ShowCmd(), d.ID, "--quiet")
	require.NoError(t, err)
	assert.Equal(t, d.ID+"\n", out)
}

func TestShowMissingDeal(t *testing.T) {
	a := testutil.SetupApp(t)

	_, _, err := testutil.ExecuteCommand(t, a, ShowCmd(), "missing")
	require.Error(t, err)
	assert.Equal(t, cli.ExitNotFound, cli.ExitCodeFor(err))
}

func TestCreateDealMine(t *testing.T) {
	a := testutil.SetupApp(t)
	s := testutil.SeedStage(t, a, "default", "Nouveau")

	out, _, err := testutil.ExecuteCommand(t, a, CreateCmd(), "--stage", s.ID, "--title", "Initech", "--mine", "--json")
	require.NoError(t, err)

	deal := testutil.ParseJSON(t, out)["deal"].(map[string]any)
	assert.Equal(t, user.Name(), deal["assignee_id"])
}
