package forum

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/mafiabot/internal/models"
	"github.com/KirkDiggler/mafiabot/internal/services/messaging"
)

func TestDryRunPublisher(t *testing.T) {
	var buf bytes.Buffer
	svc, err := messaging.NewService(nil)
	require.NoError(t, err)

	publisher, err := NewDryRun(svc, slog.New(slog.NewTextHandler(&buf, nil)))
	require.NoError(t, err)

	tally := &models.Tally{Entries: []models.TallyEntry{
		{Target: "bob", TargetName: "Bob", Voters: []string{"Alice", "Carol", "Dave"}},
	}}

	require.NoError(t, publisher.PublishTally(context.Background(), &PublishTallyInput{
		ThreadID: 1, Tally: tally, AliveCount: 5, MajorityThreshold: 3, AsOfPostID: 102,
	}))
	require.NoError(t, publisher.PublishLynch(context.Background(), &PublishLynchInput{
		ThreadID: 1, Tally: tally, VictimName: "Bob", AsOfPostID: 103,
	}))

	assert.Contains(t, buf.String(), "dry run: tally")
	assert.Contains(t, buf.String(), "dry run: lynch")
	assert.Contains(t, buf.String(), "Recuento de votos final")
}

func TestNewDryRun_RequiresRenderer(t *testing.T) {
	_, err := NewDryRun(nil, nil)
	assert.Error(t, err)
}
