package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/festy23/memberquery/internal/entity"
	"github.com/festy23/memberquery/internal/member/model"
	"github.com/festy23/memberquery/pkg/query"
)

func setupIntegrationDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entity.Team{}, &entity.Member{}))

	teamA, teamB := entity.NewTeam("teamA"), entity.NewTeam("teamB")
	require.NoError(t, db.Create(teamA).Error)
	require.NoError(t, db.Create(teamB).Error)
	for _, m := range []*entity.Member{
		entity.NewMember("member1", 10, teamA),
		entity.NewMember("member2", 20, teamA),
		entity.NewMember("member3", 30, teamB),
		entity.NewMember("member4", 40, teamB),
	} {
		require.NoError(t, db.Omit(clause.Associations).Create(m).Error)
	}
	return db
}

func setupRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	logger := zap.NewNop().Sugar()
	RegisterRoutes(r, NewService(db, logger), logger)
	return r
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestIntegration_SearchV1(t *testing.T) {
	router := setupRouter(setupIntegrationDB(t))

	w := get(router, "/v1/members?ageGoe=35&ageLoe=55&teamName=teamB")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string][]model.MemberTeamDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp["members"], 1)
	assert.Equal(t, "member4", resp["members"][0].Name())
	assert.Equal(t, "teamB", *resp["members"][0].TeamName)
}

func TestIntegration_SearchPaged(t *testing.T) {
	router := setupRouter(setupIntegrationDB(t))

	for _, path := range []string{"/v2/members", "/v3/members"} {
		t.Run(path, func(t *testing.T) {
			w := get(router, path+"?offset=1&size=2&sort=username,desc")
			require.Equal(t, http.StatusOK, w.Code)

			var page query.Page[model.MemberTeamDto]
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
			require.Len(t, page.Content, 2)
			assert.Equal(t, "member3", page.Content[0].Name())
			assert.Equal(t, "member2", page.Content[1].Name())
			assert.Equal(t, int64(4), page.Total)
		})
	}
}

func TestIntegration_GetMember(t *testing.T) {
	router := setupRouter(setupIntegrationDB(t))

	w := get(router, "/members/1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"team_name":"teamA"`)

	w = get(router, "/members/3")
	require.Equal(t, http.StatusOK, w.Code)
	var dto model.MemberTeamDto
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Equal(t, "member3", dto.Name())
	require.NotNil(t, dto.TeamName)
	assert.Equal(t, "teamB", *dto.TeamName)

	w = get(router, "/members/99")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
