package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/festy23/memberquery/internal/entity"
	teamModel "github.com/festy23/memberquery/internal/team/model"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entity.Team{}, &entity.Member{})
	require.NoError(t, err)

	return db
}

func TestRepository_Save(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		db := setupTestDB(t)
		repo := New(db, zap.NewNop().Sugar())

		team := entity.NewTeam("payments")
		require.NoError(t, repo.Save(ctx, team))
		assert.NotZero(t, team.ID)

		var stored entity.Team
		require.NoError(t, db.First(&stored, team.ID).Error)
		assert.Equal(t, "payments", stored.Name)
	})

	t.Run("duplicate team name", func(t *testing.T) {
		db := setupTestDB(t)
		repo := New(db, zap.NewNop().Sugar())
		require.NoError(t, repo.Save(ctx, entity.NewTeam("payments")))

		err := repo.Save(ctx, entity.NewTeam("payments"))
		assert.ErrorIs(t, err, teamModel.ErrTeamExists)
	})

	t.Run("rename", func(t *testing.T) {
		db := setupTestDB(t)
		repo := New(db, zap.NewNop().Sugar())
		team := entity.NewTeam("payments")
		require.NoError(t, repo.Save(ctx, team))

		team.Name = "billing"
		require.NoError(t, repo.Save(ctx, team))

		found, err := repo.FindByName(ctx, "billing")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, team.ID, found.ID)
	})
}

func TestRepository_Find(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := New(db, zap.NewNop().Sugar())

	teamA := entity.NewTeam("teamA")
	teamB := entity.NewTeam("teamB")
	empty := entity.NewTeam("empty")
	for _, team := range []*entity.Team{teamA, teamB, empty} {
		require.NoError(t, repo.Save(ctx, team))
	}
	for i, team := range []*entity.Team{teamA, teamA, teamB} {
		m := entity.NewMember("member", 10*(i+1), team)
		require.NoError(t, db.Omit(clause.Associations).Create(m).Error)
	}

	t.Run("by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, teamB.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, "teamB", found.Name)
		assert.Empty(t, found.Members)
	})

	t.Run("missing is nil", func(t *testing.T) {
		found, err := repo.FindByID(ctx, 9999)
		assert.NoError(t, err)
		assert.Nil(t, found)

		byName, err := repo.FindByName(ctx, "nope")
		assert.NoError(t, err)
		assert.Nil(t, byName)
	})

	t.Run("with members", func(t *testing.T) {
		found, err := repo.FindWithMembers(ctx, teamA.ID)
		require.NoError(t, err)
		require.NotNil(t, found)
		require.Len(t, found.Members, 2)
		assert.Equal(t, 10, found.Members[0].Age)
		assert.Equal(t, 20, found.Members[1].Age)
	})

	t.Run("all with member counts", func(t *testing.T) {
		all, err := repo.FindAll(ctx)
		require.NoError(t, err)
		assert.Equal(t, []teamModel.TeamSummary{
			{TeamID: teamA.ID, Name: "teamA", MemberCount: 2},
			{TeamID: teamB.ID, Name: "teamB", MemberCount: 1},
			{TeamID: empty.ID, Name: "empty", MemberCount: 0},
		}, all)
	})
}
