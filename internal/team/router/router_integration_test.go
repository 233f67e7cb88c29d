package router

import (
	"bytes"
	"encoding/json"
	"fmt"
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
	teamModel "github.com/festy23/memberquery/internal/team/model"
)

func setupIntegrationDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&entity.Team{}, &entity.Member{})
	require.NoError(t, err)

	return db
}

func setupRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, db, zap.NewNop().Sugar())
	return r
}

func TestIntegration_FullFlow(t *testing.T) {
	db := setupIntegrationDB(t)
	router := setupRouter(db)

	// create
	w := httptest.NewRecorder()
	httpReq, _ := http.NewRequest(http.MethodPost, "/teams", bytes.NewBufferString(`{"name":"teamA"}`))
	httpReq.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, httpReq)
	require.Equal(t, http.StatusCreated, w.Code)

	var created teamModel.TeamResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "teamA", created.Name)

	team := &entity.Team{ID: created.TeamID, Name: created.Name}
	require.NoError(t, db.Omit(clause.Associations).Create(entity.NewMember("member1", 10, team)).Error)

	// duplicate
	w = httptest.NewRecorder()
	httpReq, _ = http.NewRequest(http.MethodPost, "/teams", bytes.NewBufferString(`{"name":"teamA"}`))
	httpReq.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, httpReq)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// get with members
	w = httptest.NewRecorder()
	httpReq, _ = http.NewRequest(http.MethodGet, fmt.Sprintf("/teams/%d", created.TeamID), nil)
	router.ServeHTTP(w, httpReq)
	require.Equal(t, http.StatusOK, w.Code)

	var fetched teamModel.TeamResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	require.Len(t, fetched.Members, 1)
	assert.Equal(t, "member1", *fetched.Members[0].Username)

	// list
	w = httptest.NewRecorder()
	httpReq, _ = http.NewRequest(http.MethodGet, "/teams", nil)
	router.ServeHTTP(w, httpReq)
	require.Equal(t, http.StatusOK, w.Code)

	var listed map[string][]teamModel.TeamSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed["teams"], 1)
	assert.Equal(t, int64(1), listed["teams"][0].MemberCount)

	// missing
	w = httptest.NewRecorder()
	httpReq, _ = http.NewRequest(http.MethodGet, "/teams/999", nil)
	router.ServeHTTP(w, httpReq)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
